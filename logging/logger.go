// Package logging 进程级 zap 日志：滚动文件输出，各包通过 Named 取子日志器。
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log 是全局可用的 SugaredLogger，未初始化前为 no-op，测试中无需额外准备
var Log = zap.NewNop().Sugar()

// InitLogger 把日志写入 filePath（按大小滚动），level 为空时使用 debug
func InitLogger(filePath, level string) error {
	lvl := zapcore.DebugLevel
	if level != "" {
		parsed, err := zapcore.ParseLevel(level)
		if err != nil {
			return fmt.Errorf("logging: %w", err)
		}
		lvl = parsed
	}

	// 10MB 一个文件，保留 3 个备份、7 天
	sink := zapcore.AddSync(&lumberjack.Logger{
		Filename:   filePath,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     7,
	})
	enc := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:       "ts",
		LevelKey:      "level",
		NameKey:       "logger",
		CallerKey:     "caller",
		MessageKey:    "msg",
		StacktraceKey: "stack",
		LineEnding:    zapcore.DefaultLineEnding,
		EncodeLevel:   zapcore.CapitalLevelEncoder,
		EncodeTime:    zapcore.ISO8601TimeEncoder,
		EncodeCaller:  zapcore.ShortCallerEncoder,
	})

	Log = zap.New(zapcore.NewCore(enc, sink, lvl), zap.AddCaller()).Sugar()
	return nil
}

// Named 返回带模块名的子日志器。须在 InitLogger 之后调用才会写入文件
func Named(name string) *zap.SugaredLogger {
	return Log.Named(name)
}

// SyncLogger 退出前刷新缓冲
func SyncLogger() {
	_ = Log.Sync()
}

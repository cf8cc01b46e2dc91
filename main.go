package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sidebrawl/config"
	"sidebrawl/logging"
	"sidebrawl/server"
)

// sidebrawl 入口：启动 HTTP + WebSocket 服务，并初始化房间管理器
func main() {
	var addr, cfgPath string
	flag.StringVar(&addr, "addr", "", "server listen address, overrides server.addr, e.g. :3000")
	flag.StringVar(&cfgPath, "config", "", "path to YAML config; empty uses built-in defaults")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		panic(err)
	}
	if addr == "" {
		if port := os.Getenv("PORT"); port != "" {
			addr = ":" + port
		}
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}
	// 使用第三方 zap 日志库写入日志文件（带滚动）
	if err := logging.InitLogger(cfg.Server.LogFile, cfg.Server.LogLevel); err != nil {
		panic(err)
	}
	defer logging.SyncLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rm := server.NewRoomManager(ctx, cfg)
	// 先预创建一个默认房间，便于快速试跑
	_ = rm.GetOrCreateRoom("room-1")

	if cfgPath != "" {
		go watchConfig(ctx, cfgPath, rm)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", rm.HandleWS)
	// 前后端分离：将 / 映射到静态资源目录
	mux.Handle("/", http.FileServer(http.Dir(cfg.Server.StaticDir)))
	// 管理与监控接口
	mux.HandleFunc("/admin/config", rm.HandleAdminConfig)
	mux.HandleFunc("/metrics", rm.HandleMetrics)
	mux.HandleFunc("/healthz", server.HandleHealthz)

	srv := &http.Server{Addr: cfg.Server.Addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logging.Log.Infof("sidebrawl listening on %s; open http://localhost%v/", cfg.Server.Addr, cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Log.Fatalf("listen: %v", err)
		}
	}()

	// 优雅退出（Ctrl+C）
	<-ctx.Done()
	logging.Log.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Log.Warnf("shutdown: %v", err)
	}
	rm.Wait()
}

// watchConfig 配置文件变化时把新配置推给房间管理器
func watchConfig(ctx context.Context, path string, rm *server.RoomManager) {
	w, err := config.NewWatcher(path)
	if err != nil {
		logging.Log.Warnf("config watch disabled: %v", err)
		return
	}
	defer w.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case cfg, ok := <-w.Updates:
			if !ok {
				return
			}
			logging.Log.Infof("config reloaded from %s", path)
			rm.Apply(cfg)
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			logging.Log.Warnf("config reload: %v", err)
		}
	}
}

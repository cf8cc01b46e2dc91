package server

import (
	"sync/atomic"
)

// RoomMetrics 记录房间运行期的关键指标（用于监控与调试）
type RoomMetrics struct {
	TickCount      int64 // 统计的 Tick 次数
	EventsHandled  int64 // 已处理的入站事件
	UnknownSession int64 // 来自未知/已断开会话而被丢弃的事件
	Malformed      int64 // 无法解码的帧
	ChanFull       int64 // 因事件通道满被丢弃的事件
	Broadcasts     int64 // 已入队的出站消息
	SendDropped    int64 // 因发送队列满被丢弃的出站消息
	Sessions       int64 // 当前在线会话数
	TotalTickNs    int64 // Tick 累计耗时（纳秒）
}

func (m *RoomMetrics) IncHandled() { atomic.AddInt64(&m.EventsHandled, 1) }

func (m *RoomMetrics) IncUnknownSession() { atomic.AddInt64(&m.UnknownSession, 1) }

func (m *RoomMetrics) IncMalformed() { atomic.AddInt64(&m.Malformed, 1) }

func (m *RoomMetrics) IncChanFull() { atomic.AddInt64(&m.ChanFull, 1) }

func (m *RoomMetrics) IncBroadcast() { atomic.AddInt64(&m.Broadcasts, 1) }

func (m *RoomMetrics) IncSendDropped() { atomic.AddInt64(&m.SendDropped, 1) }

func (m *RoomMetrics) SetSessions(n int) { atomic.StoreInt64(&m.Sessions, int64(n)) }

func (m *RoomMetrics) AddTick(ns int64) {
	atomic.AddInt64(&m.TickCount, 1)
	atomic.AddInt64(&m.TotalTickNs, ns)
}

// Snapshot 返回只读副本，便于 HTTP 输出
func (m *RoomMetrics) Snapshot() map[string]any {
	tick := atomic.LoadInt64(&m.TickCount)
	total := atomic.LoadInt64(&m.TotalTickNs)
	var avgMs float64
	if tick > 0 {
		avgMs = float64(total) / float64(tick) / 1e6
	}
	return map[string]any{
		"tick_count":      tick,
		"events_handled":  atomic.LoadInt64(&m.EventsHandled),
		"unknown_session": atomic.LoadInt64(&m.UnknownSession),
		"malformed":       atomic.LoadInt64(&m.Malformed),
		"chan_full":       atomic.LoadInt64(&m.ChanFull),
		"broadcasts":      atomic.LoadInt64(&m.Broadcasts),
		"send_dropped":    atomic.LoadInt64(&m.SendDropped),
		"sessions":        atomic.LoadInt64(&m.Sessions),
		"avg_tick_ms":     avgMs,
	}
}

package server

import (
	"context"
	"time"

	"sidebrawl/logging"
)

// tickInterval 世界推进间隔
func (r *Room) tickInterval() time.Duration {
	hz := r.cfg.Server.TickHz
	if hz <= 0 {
		hz = 60
	}
	return time.Second / time.Duration(hz)
}

// run 房间主循环：加入、离开、事件与 Tick 在同一协程内交错处理
func (r *Room) run(ctx context.Context) {
	defer close(r.done)
	ticker := time.NewTicker(r.tickInterval())
	defer ticker.Stop()
	logging.Log.Infof("room started: id=%s tick=%s", r.ID, r.tickInterval())

	for {
		select {
		case <-ctx.Done():
			r.shutdown()
			return
		case op := <-r.opCh:
			r.apply(op)
		case k := <-r.knobCh:
			r.setKnobs(k)
			logging.Log.Infof("knobs updated: room=%s patrolDt=%.3f edgeMargin=%.1f speedScale=%.2f",
				r.ID, k.PatrolDt, k.EdgeMargin, k.EnemySpeedScale)
		case <-ticker.C:
			// 核心循环：推进巡逻 → 广播结果
			start := time.Now()
			r.step()
			r.metrics.AddTick(time.Since(start).Nanoseconds())
		}
	}
}

// step 推进一帧巡逻并无条件广播全部敌人位置
func (r *Room) step() {
	r.tickSeq.Add(1)
	k := r.knobs
	width := r.cfg.World.Width
	for _, e := range r.enemies {
		e.X += float64(e.Direction) * e.Speed * k.EnemySpeedScale * k.PatrolDt
		// 只在朝外移动时掉头，避免在边界内外来回抖动
		if (e.X <= k.EdgeMargin && e.Direction < 0) || (e.X >= width-k.EdgeMargin && e.Direction > 0) {
			e.Direction = -e.Direction
		}
	}
	r.broadcast(Message{Type: MsgEnemiesUpdate, Data: r.enemySnapshot()}, "")
}

// shutdown 关闭所有会话的出站端
func (r *Room) shutdown() {
	for id, s := range r.sessions {
		s.out.Close()
		delete(r.sessions, id)
	}
	r.metrics.SetSessions(0)
	logging.Log.Infof("room stopped: id=%s ticks=%d", r.ID, r.tickSeq.Load())
}

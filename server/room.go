package server

import (
	"context"
	"sync/atomic"

	"sidebrawl/config"
	"sidebrawl/logging"
)

// Knobs 可在运行期调整的房间参数
type Knobs struct {
	PatrolDt        float64 `json:"patrolDt"`
	EdgeMargin      float64 `json:"edgeMargin"`
	EnemySpeedScale float64 `json:"enemySpeedScale"`
}

// KnobsFrom 从配置提取可热更新参数
func KnobsFrom(cfg config.Config) Knobs {
	return Knobs{PatrolDt: cfg.World.PatrolDt, EdgeMargin: cfg.World.EdgeMargin, EnemySpeedScale: 1}
}

type opKind int

const (
	opJoin opKind = iota
	opLeave
	opEvent
)

// roomOp 加入、离开与入站事件共用一条队列，同一连接的操作按提交顺序处理
type roomOp struct {
	kind opKind
	id   SessionID
	out  Sender
	ev   Event
}

// Room 房间世界：权威状态维护在内存，所有修改都发生在 run 协程内
type Room struct {
	ID string

	cfg      config.Config
	sessions map[SessionID]*Session
	enemies  []*EnemyState
	powerups []*PowerupState
	knobs    Knobs

	opCh   chan roomOp
	knobCh chan Knobs

	published atomic.Pointer[Knobs]
	tickSeq   atomic.Int64
	metrics   *RoomMetrics

	started atomic.Bool
	done    chan struct{}
}

// NewRoom 创建房间并载入关卡（敌人、道具）
func NewRoom(id string, cfg config.Config) *Room {
	r := &Room{
		ID:       id,
		cfg:      cfg,
		sessions: make(map[SessionID]*Session),
		opCh:     make(chan roomOp, 256), // 足够缓冲，避免网络读阻塞影响 Tick
		knobCh:   make(chan Knobs, 4),
		metrics:  &RoomMetrics{},
		done:     make(chan struct{}),
	}
	r.setKnobs(KnobsFrom(cfg))
	r.loadLevel()
	return r
}

func (r *Room) loadLevel() {
	w := r.cfg.World
	r.enemies = r.enemies[:0]
	for _, e := range w.Enemies {
		health := e.Health
		if health <= 0 {
			health = 1
		}
		r.enemies = append(r.enemies, &EnemyState{
			ID: e.ID, X: e.X, Y: e.Y, Type: e.Type, Direction: e.Direction, Speed: e.Speed, Health: health,
		})
	}
	r.powerups = r.powerups[:0]
	for _, p := range w.Powerups {
		r.powerups = append(r.powerups, &PowerupState{ID: p.ID, X: p.X, Y: p.Y, Type: p.Type})
	}
}

func (r *Room) Metrics() *RoomMetrics { return r.metrics }

func (r *Room) TickSeq() int64 { return r.tickSeq.Load() }

// Knobs 当前生效的参数（任意协程可读）
func (r *Room) Knobs() Knobs { return *r.published.Load() }

// Done 房间循环退出后关闭
func (r *Room) Done() <-chan struct{} { return r.done }

// Join 请求以 id 加入房间；房间已停止时返回 false
func (r *Room) Join(id SessionID, out Sender) bool {
	select {
	case r.opCh <- roomOp{kind: opJoin, id: id, out: out}:
		return true
	case <-r.done:
		return false
	}
}

// Leave 请求在房间协程中移除会话，避免并发改动房间状态
func (r *Room) Leave(id SessionID) {
	select {
	case r.opCh <- roomOp{kind: opLeave, id: id}:
	case <-r.done:
	}
}

// Dispatch 入站事件（不阻塞），拥塞时丢弃以保证 Tick 准时。
// 调用方须在 Join 返回后再投递，事件才会排在加入之后
func (r *Room) Dispatch(ev Event) {
	select {
	case r.opCh <- roomOp{kind: opEvent, ev: ev}:
	default:
		r.metrics.IncChanFull()
	}
}

// SetKnobs 请求更新参数，由房间协程应用
func (r *Room) SetKnobs(k Knobs) {
	select {
	case r.knobCh <- k:
	case <-r.done:
	}
}

func (r *Room) setKnobs(k Knobs) {
	r.knobs = k
	r.published.Store(&k)
}

func (r *Room) join(id SessionID, out Sender) {
	if _, dup := r.sessions[id]; dup {
		out.Close()
		return
	}
	w := r.cfg.World
	s := &Session{
		ID: id,
		State: PlayerState{
			ID:       string(id),
			X:        w.Spawn.X,
			Y:        w.Spawn.Y,
			Health:   w.StartHealth,
			Lives:    w.StartLives,
			Weapon:   w.StartWeapon,
			Powerups: []string{},
			Facing:   1,
		},
		out: out,
	}
	r.sessions[id] = s
	r.metrics.SetSessions(len(r.sessions))
	logging.Log.Infof("session joined: room=%s id=%s sessions=%d", r.ID, id, len(r.sessions))

	r.send(s, Message{Type: MsgGameState, Data: r.gameState(id)})
	r.broadcast(Message{Type: MsgPlayerJoined, Data: s.snapshot()}, id)
}

// leave 断开即移除记录并停止向其投递；未知 ID 为 no-op
func (r *Room) leave(id SessionID) {
	s, ok := r.sessions[id]
	if !ok {
		return
	}
	delete(r.sessions, id)
	s.out.Close()
	r.metrics.SetSessions(len(r.sessions))
	logging.Log.Infof("session left: room=%s id=%s sessions=%d", r.ID, id, len(r.sessions))
	r.broadcast(Message{Type: MsgPlayerLeft, Data: string(id)}, "")
}

// apply 在房间协程中执行一个排队操作
func (r *Room) apply(op roomOp) {
	switch op.kind {
	case opJoin:
		r.join(op.id, op.out)
	case opLeave:
		r.leave(op.id)
	case opEvent:
		r.handle(op.ev)
	}
}

// handle 按到达顺序同步处理单个事件
func (r *Room) handle(ev Event) {
	s, ok := r.sessions[ev.Session]
	if !ok {
		r.metrics.IncUnknownSession()
		logging.Log.Debugf("event from unknown session dropped: room=%s id=%s type=%s", r.ID, ev.Session, ev.Type)
		return
	}
	r.metrics.IncHandled()
	id := string(s.ID)

	switch p := ev.Payload.(type) {
	case MoveInput:
		st := &s.State
		st.X, st.Y, st.VX, st.VY, st.OnGround, st.Facing = p.X, p.Y, p.VX, p.VY, p.OnGround, p.Facing
		r.broadcast(Message{Type: MsgPlayerMoved, Data: PlayerMoved{
			ID: id, X: p.X, Y: p.Y, VX: p.VX, VY: p.VY, OnGround: p.OnGround, Facing: p.Facing,
		}}, s.ID)
	case AttackInput:
		r.broadcast(Message{Type: MsgPlayerAttacked, Data: PlayerAttacked{
			ID: id, Weapon: p.Weapon, X: p.X, Y: p.Y, Direction: p.Direction,
		}}, s.ID)
	case string:
		if ev.Type == EvCollectPowerup {
			r.collectPowerup(s, p)
		} else if ev.Type == EvDamageEnemy {
			r.damageEnemy(p)
		}
	case int:
		if ev.Type == EvPlayerDamaged {
			r.damagePlayer(s, p)
		}
	default:
		if ev.Type == EvLevelComplete {
			r.broadcast(Message{Type: MsgLevelCompleted, Data: id}, "")
		}
	}
}

// collectPowerup 幂等：已拾取或不存在的道具不产生任何变化
func (r *Room) collectPowerup(s *Session, powerupID string) {
	for _, p := range r.powerups {
		if p.ID != powerupID {
			continue
		}
		if p.Collected {
			return
		}
		p.Collected = true
		s.State.Powerups = append(s.State.Powerups, p.Type)
		r.broadcast(Message{Type: MsgPowerupCollected, Data: PowerupCollected{
			PowerupID: p.ID, PlayerID: string(s.ID), Type: p.Type,
		}}, "")
		return
	}
}

func (r *Room) damageEnemy(enemyID string) {
	for i, e := range r.enemies {
		if e.ID != enemyID {
			continue
		}
		e.Health--
		if e.Health <= 0 {
			r.enemies = append(r.enemies[:i], r.enemies[i+1:]...)
			r.broadcast(Message{Type: MsgEnemyDestroyed, Data: enemyID}, "")
		}
		return
	}
}

// damagePlayer 扣血；归零时扣一条命、回满血并回到出生点
func (r *Room) damagePlayer(s *Session, amount int) {
	if amount <= 0 {
		return
	}
	st := &s.State
	st.Health -= amount
	if st.Health <= 0 {
		st.Lives--
		st.Health = r.cfg.World.StartHealth
		st.X, st.Y = r.cfg.World.Spawn.X, r.cfg.World.Spawn.Y
	}
	r.broadcast(Message{Type: MsgPlayerHealthUpdate, Data: HealthUpdate{
		ID: string(s.ID), Health: st.Health, Lives: st.Lives,
	}}, "")
}

func (r *Room) gameState(you SessionID) GameState {
	players := make(map[string]PlayerState, len(r.sessions))
	for id, s := range r.sessions {
		players[string(id)] = s.snapshot()
	}
	powerups := make([]PowerupState, 0, len(r.powerups))
	for _, p := range r.powerups {
		powerups = append(powerups, *p)
	}
	return GameState{
		Players:  players,
		Enemies:  r.enemySnapshot(),
		Powerups: powerups,
		Level:    LevelInfo{Width: r.cfg.World.Width, Height: r.cfg.World.Height},
		You:      string(you),
	}
}

func (r *Room) enemySnapshot() []EnemyState {
	out := make([]EnemyState, 0, len(r.enemies))
	for _, e := range r.enemies {
		out = append(out, *e)
	}
	return out
}

func (r *Room) send(s *Session, msg Message) {
	if s.out.Send(msg) {
		r.metrics.IncBroadcast()
	} else {
		r.metrics.IncSendDropped()
	}
}

// broadcast 发给除 except 以外的所有会话
func (r *Room) broadcast(msg Message, except SessionID) {
	for id, s := range r.sessions {
		if id == except {
			continue
		}
		r.send(s, msg)
	}
}

// Start 启动房间协程；重复调用无效
func (r *Room) Start(ctx context.Context) {
	if !r.started.CompareAndSwap(false, true) {
		return
	}
	go r.run(ctx)
}

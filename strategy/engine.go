package strategy

import (
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"sidebrawl/entity"
	"sidebrawl/logging"
)

// Options 引擎依赖，零值字段使用默认
type Options struct {
	Terrain Terrain
	Arena   Arena
	Policy  Policy
	Rand    *rand.Rand
	Sink    EffectSink
}

// Decision 单个 Agent 本帧的意图
type Decision struct {
	Agent  *Agent
	Intent Intent
}

// Fault 单个 Agent 更新时的故障；该 Agent 已被摘除
type Fault struct {
	EntityID string
	Kind     Kind
	Err      error
}

func (f Fault) Error() string {
	return fmt.Sprintf("strategy: %s (%s): %v", f.EntityID, f.Kind, f.Err)
}

// StepResult 一帧的汇总
type StepResult struct {
	Decisions []Decision
	Faults    []Fault
}

// Engine 按插入顺序驱动全部 Agent。非并发安全，只应由模拟循环调用
type Engine struct {
	player *entity.Entity
	opts   Options
	agents []*Agent
	byID   map[string]*Agent

	onSwitch SwitchFunc
	log      *zap.SugaredLogger
}

func NewEngine(player *entity.Entity, opts Options) *Engine {
	if opts.Arena == (Arena{}) {
		opts.Arena = DefaultArena()
	}
	if opts.Policy == (Policy{}) {
		opts.Policy = DefaultPolicy()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{
		player: player,
		opts:   opts,
		byID:   make(map[string]*Agent),
		log:    logging.Named("strategy"),
	}
}

// SetPlayer 更换追踪目标（重生后实体可能重建）
func (e *Engine) SetPlayer(p *entity.Entity) {
	e.player = p
	for _, a := range e.agents {
		a.env.Player = p
	}
}

// OnSwitch 为之后及已有的 Agent 注册切换回调
func (e *Engine) OnSwitch(f SwitchFunc) {
	e.onSwitch = f
	for _, a := range e.agents {
		a.OnSwitch(f)
	}
}

// Spawn 为实体挂载 Agent；同 ID 重复挂载会替换旧 Agent
func (e *Engine) Spawn(self *entity.Entity, kind Kind) *Agent {
	if old, ok := e.byID[self.ID]; ok {
		e.detach(old)
	}
	env := &Env{
		Self:    self,
		Player:  e.player,
		Terrain: e.opts.Terrain,
		Arena:   e.opts.Arena,
		Rand:    e.opts.Rand,
	}
	a := NewAgent(env, kind, e.opts.Policy)
	a.OnSwitch(e.onSwitch)
	e.agents = append(e.agents, a)
	e.byID[self.ID] = a
	e.log.Debugw("agent spawned", "id", self.ID, "kind", kind.String())
	return a
}

// Remove 摘除 Agent，不修改实体
func (e *Engine) Remove(id string) bool {
	a, ok := e.byID[id]
	if !ok {
		return false
	}
	e.detach(a)
	return true
}

func (e *Engine) detach(a *Agent) {
	delete(e.byID, a.Entity.ID)
	for i, x := range e.agents {
		if x == a {
			e.agents = append(e.agents[:i], e.agents[i+1:]...)
			return
		}
	}
}

func (e *Engine) Get(id string) (*Agent, bool) {
	a, ok := e.byID[id]
	return a, ok
}

// Agents 返回当前 Agent 的副本
func (e *Engine) Agents() []*Agent {
	out := make([]*Agent, len(e.agents))
	copy(out, e.agents)
	return out
}

func (e *Engine) Len() int { return len(e.agents) }

// Step 推进一帧。单个 Agent 的 panic 被隔离：记录、摘除并计入 Faults，其余照常
func (e *Engine) Step() StepResult {
	var res StepResult
	if e.player == nil || e.player.Removed() {
		return res
	}
	for _, a := range e.Agents() {
		self := a.Entity
		if self == nil || self.Removed() {
			e.detach(a)
			continue
		}
		if !self.Alive() {
			continue
		}
		self.TickCooldowns()
		intent, err := e.update(a)
		if err != nil {
			f := Fault{EntityID: self.ID, Kind: a.Kind(), Err: err}
			e.log.Errorw("agent fault, removing", "id", self.ID, "kind", a.Kind().String(), "err", err)
			e.detach(a)
			self.Remove()
			res.Faults = append(res.Faults, f)
			continue
		}
		e.apply(a, intent)
		res.Decisions = append(res.Decisions, Decision{Agent: a, Intent: intent})
	}
	return res
}

func (e *Engine) update(a *Agent) (in Intent, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return a.Update(), nil
}

// apply 把意图落到实体与物理体上
func (e *Engine) apply(a *Agent, in Intent) {
	self := a.Entity
	vy := self.VY
	if in.Jump {
		vy = in.JumpVelocity
		self.SetJumpCooldown(in.JumpCooldown)
	}
	self.SetVelocity(in.VelocityX, vy)
	if in.Tint != 0 {
		self.Tint = in.Tint
	}
	if in.SelfDestruct {
		self.Kill()
	}
	if e.opts.Sink != nil {
		for _, fx := range in.Effects {
			e.opts.Sink.Spawn(fx)
		}
	}
}

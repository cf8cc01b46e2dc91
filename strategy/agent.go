package strategy

import (
	"math/rand"

	"sidebrawl/entity"
)

// Policy 通用切换策略参数
type Policy struct {
	SwitchCooldown int     // 两次切换之间的最少帧数
	RandomAfter    int     // 激活超过该帧数后允许随机切换
	RandomChance   float64 // 每帧随机切换概率
}

func DefaultPolicy() Policy {
	return Policy{SwitchCooldown: 120, RandomAfter: 1200, RandomChance: 0.05}
}

// SwitchFunc 切换回调，仅用于观察（日志、统计）
type SwitchFunc func(a *Agent, from, to Kind)

// Agent 单个敌人/首领的行为宿主：任一时刻恰好持有一个激活的 Strategy
type Agent struct {
	Entity *entity.Entity

	env      *Env
	strategy Strategy
	policy   Policy

	tick       int // 自创建以来的帧数
	lastSwitch int
	onSwitch   SwitchFunc
}

// NewAgent 绑定实体与初始变体
func NewAgent(env *Env, kind Kind, policy Policy) *Agent {
	a := &Agent{Entity: env.Self, env: env, policy: policy}
	a.strategy = New(kind, env)
	env.Self.Tint = kind.Tint()
	return a
}

func (a *Agent) Kind() Kind { return a.strategy.Kind() }

func (a *Agent) Strategy() Strategy { return a.strategy }

func (a *Agent) Tick() int { return a.tick }

func (a *Agent) LastSwitch() int { return a.lastSwitch }

// OnSwitch 注册切换回调
func (a *Agent) OnSwitch(f SwitchFunc) { a.onSwitch = f }

// Update 推进一帧：先评估切换，再由当前变体给出意图
func (a *Agent) Update() Intent {
	a.tick++
	a.strategy.base().timer++
	if a.Kind().Generic() {
		if next, ok := a.nextKind(); ok {
			a.switchTo(next)
		}
	}
	return a.strategy.Decide()
}

// nextKind 按优先级评估切换，首个命中者生效
func (a *Agent) nextKind() (Kind, bool) {
	if a.tick-a.lastSwitch < a.policy.SwitchCooldown {
		return 0, false
	}
	s := a.strategy.base()
	cur := a.Kind()
	self := a.Entity
	distance := entity.DistanceX(self, a.env.Player)

	if self.Health <= 1 {
		// 已是 Kamikaze 时同样命中，后续规则不再评估
		return Kamikaze, cur != Kamikaze
	}
	if self.Health < s.lastHealth {
		s.lastHealth = self.Health
		if cur != Defensive {
			return Defensive, true
		}
	}
	if distance < 50 && cur != Aggressive && cur != Kamikaze {
		return Aggressive, true
	}
	if distance > 300 && cur != Patrolling {
		return Patrolling, true
	}
	if s.timer > a.policy.RandomAfter && s.chance(a.policy.RandomChance) {
		next := GenericKinds[a.intn(len(GenericKinds))]
		if next != cur {
			return next, true
		}
	}
	return 0, false
}

// SwitchTo 强制切换到通用变体；首领既不能被切走也不能作为目标
func (a *Agent) SwitchTo(kind Kind) bool {
	if !kind.Generic() || !a.Kind().Generic() {
		return false
	}
	a.switchTo(kind)
	return true
}

// switchTo 重建实例，引用不变；切换时刻记录在 Agent 上以保持冷却连续
func (a *Agent) switchTo(kind Kind) {
	from := a.Kind()
	a.strategy = New(kind, a.env)
	a.lastSwitch = a.tick
	a.Entity.Tint = kind.Tint()
	if a.onSwitch != nil {
		a.onSwitch(a, from, kind)
	}
}

func (a *Agent) intn(n int) int {
	if a.env.Rand == nil {
		return rand.Intn(n)
	}
	return a.env.Rand.Intn(n)
}

// Package strategy 实现敌人与首领的行为引擎。
//
// 每个敌人挂一个 Agent，Agent 持有当前激活的 Strategy 并负责变体之间的切换；
// Strategy 每帧根据自身与玩家的状态产出 Intent（速度、跳跃、攻击、特效），
// 不直接操作物理或渲染。所有“蓄力/瞄准”都用帧计数器表达，Decide 从不阻塞。
package strategy

import (
	"math"
	"math/rand"

	"sidebrawl/entity"
)

// Terrain 外部地形查询
type Terrain interface {
	IsGroundAhead(from *entity.Entity, direction int, distance float64) bool
}

// Arena 水平活动范围，用于靠墙判断与撤退方向选择
type Arena struct {
	Width  float64
	Margin float64
}

// DefaultArena 客户端关卡尺寸
func DefaultArena() Arena { return Arena{Width: 3000, Margin: 100} }

// Env 策略的外部引用：自身、玩家、地形均为弱引用，仅用于查询
type Env struct {
	Self    *entity.Entity
	Player  *entity.Entity
	Terrain Terrain
	Arena   Arena
	Rand    *rand.Rand
}

// Strategy 行为变体。base 未导出，变体集合在包内封闭
type Strategy interface {
	Kind() Kind
	// Decide 推进一帧并返回本帧意图
	Decide() Intent
	Timer() int
	base() *core
}

// New 以同一组引用构造全新的变体实例
func New(kind Kind, env *Env) Strategy {
	c := core{env: env, lastHealth: env.Self.Health}
	switch kind {
	case Aggressive:
		return newAggressive(c)
	case Defensive:
		return newDefensive(c)
	case Patrolling:
		return newPatrolling(c)
	case Kamikaze:
		return newKamikaze(c)
	case Sniper:
		return newSniper(c)
	case Flanker:
		return newFlanker(c)
	case Guardian:
		return newGuardian(c)
	case Boss:
		return newBossStrategy(c)
	default:
		return newAggressive(c)
	}
}

// core 各变体共享的计时与查询
type core struct {
	env        *Env
	timer      int // 激活以来的帧数
	lastHealth int // 受伤检测水位
}

func (c *core) base() *core { return c }

// Timer 激活以来的帧数
func (c *core) Timer() int { return c.timer }

func (c *core) self() *entity.Entity   { return c.env.Self }
func (c *core) player() *entity.Entity { return c.env.Player }

func (c *core) distance() float64 {
	return math.Abs(c.env.Player.X - c.env.Self.X)
}

// direction 指向玩家的有符号水平差
func (c *core) direction() float64 {
	return c.env.Player.X - c.env.Self.X
}

func (c *core) canJump() bool {
	return c.env.Self.JumpCooldown <= 0 && c.env.Self.TouchingGround()
}

// groundAhead 朝玩家方向 distance 处是否有地面；无地形信息时视为有
func (c *core) groundAhead(distance float64) bool {
	if c.env.Terrain == nil {
		return true
	}
	return c.env.Terrain.IsGroundAhead(c.env.Self, sign(c.direction()), distance)
}

// playerAbove 玩家比自身高出 margin 以上（y 轴向下）
func (c *core) playerAbove(margin float64) bool {
	return c.env.Player.Y < c.env.Self.Y-margin
}

func (c *core) playerBelow(margin float64) bool {
	return c.env.Player.Y > c.env.Self.Y+margin
}

func (c *core) desperate() bool { return c.env.Self.Health <= 1 }

func (c *core) chance(p float64) bool {
	if c.env.Rand == nil {
		return rand.Float64() < p
	}
	return c.env.Rand.Float64() < p
}

// toward 以 mult 倍速朝 dir 方向移动
func (c *core) toward(dir, mult float64) float64 {
	return float64(sign(dir)) * c.env.Self.Speed * mult
}

// nearWall 向玩家方向前探 50 是否触及竞技场边缘
func (c *core) nearWall() bool {
	a := c.env.Arena
	checkX := c.env.Self.X + 50*float64(sign(c.direction()))
	return checkX < a.Margin || checkX > a.Width-a.Margin
}

// retreatDirection 选择开阔一侧撤退，两侧相同时背离玩家
func (c *core) retreatDirection() float64 {
	a := c.env.Arena
	left := c.env.Self.X - a.Margin
	right := a.Width - c.env.Self.X - a.Margin
	switch {
	case left > right:
		return -1
	case right > left:
		return 1
	case c.direction() > 0:
		return -1
	default:
		return 1
	}
}

func sign(v float64) int {
	if v > 0 {
		return 1
	}
	return -1
}

func randomSide(c *core) int {
	if c.chance(0.5) {
		return 1
	}
	return -1
}

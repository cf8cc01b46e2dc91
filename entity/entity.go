// Package entity 定义玩家、敌人与首领共用的运动学状态。
//
// 实体只保存数据与少量不变量维护（生命值裁剪、冷却单调递减），
// 行为由 strategy 包计算意图，物理由外部 Body 实现。
package entity

import "math"

// Role 实体角色
type Role int

const (
	RolePlayer Role = iota
	RoleEnemy
	RoleBoss
)

func (r Role) String() string {
	switch r {
	case RolePlayer:
		return "player"
	case RoleEnemy:
		return "enemy"
	case RoleBoss:
		return "boss"
	default:
		return "unknown"
	}
}

// Body 外部物理刚体契约：只读接地状态，只写目标速度
type Body interface {
	TouchingGround() bool
	SetVelocity(x, y float64)
}

// Entity 运动学状态（服务端与客户端本地模拟共用）
type Entity struct {
	ID   string
	Role Role

	X, Y   float64
	VX, VY float64
	Facing int // ±1

	Health    int
	MaxHealth int

	JumpCooldown int
	HitCooldown  int // 受击免疫窗口

	Speed float64

	// Tint 仅用于观察的颜色标签，不参与行为决策
	Tint uint32

	// Grounded 无 Body 时使用的接地标记（测试或纯数据场景）
	Grounded bool
	Body     Body

	removed bool
}

// New 创建满血实体，朝向默认向右
func New(id string, role Role, x, y float64, maxHealth int, speed float64) *Entity {
	if maxHealth < 0 {
		maxHealth = 0
	}
	return &Entity{
		ID:        id,
		Role:      role,
		X:         x,
		Y:         y,
		Facing:    1,
		Health:    maxHealth,
		MaxHealth: maxHealth,
		Speed:     speed,
	}
}

// TouchingGround 优先读取物理刚体
func (e *Entity) TouchingGround() bool {
	if e == nil {
		return false
	}
	if e.Body != nil {
		return e.Body.TouchingGround()
	}
	return e.Grounded
}

// SetVelocity 写入速度意图并同步到刚体；水平速度非零时更新朝向
func (e *Entity) SetVelocity(x, y float64) {
	if e == nil {
		return
	}
	e.VX, e.VY = x, y
	if x > 0 {
		e.Facing = 1
	} else if x < 0 {
		e.Facing = -1
	}
	if e.Body != nil {
		e.Body.SetVelocity(x, y)
	}
}

// Damage 扣血并裁剪到 [0, MaxHealth]，返回实际扣除量
func (e *Entity) Damage(amount int) int {
	if e == nil || amount <= 0 {
		return 0
	}
	before := e.Health
	e.Health = clamp(e.Health-amount, 0, e.MaxHealth)
	return before - e.Health
}

// Heal 回血，不超过 MaxHealth，返回实际回复量
func (e *Entity) Heal(amount int) int {
	if e == nil || amount <= 0 {
		return 0
	}
	before := e.Health
	e.Health = clamp(e.Health+amount, 0, e.MaxHealth)
	return e.Health - before
}

// Kill 直接归零生命值（自爆等）
func (e *Entity) Kill() {
	if e == nil {
		return
	}
	e.Health = 0
}

func (e *Entity) Alive() bool { return e != nil && !e.removed && e.Health > 0 }

// SetHitCooldown 设置受击免疫帧，负值按 0 处理
func (e *Entity) SetHitCooldown(ticks int) {
	if e == nil {
		return
	}
	e.HitCooldown = max(ticks, 0)
}

func (e *Entity) SetJumpCooldown(ticks int) {
	if e == nil {
		return
	}
	e.JumpCooldown = max(ticks, 0)
}

// TickCooldowns 每帧调用一次，冷却单调递减到 0
func (e *Entity) TickCooldowns() {
	if e == nil {
		return
	}
	if e.JumpCooldown > 0 {
		e.JumpCooldown--
	}
	if e.HitCooldown > 0 {
		e.HitCooldown--
	}
}

// Remove 标记实体已销毁；之后对它的任何操作都应视为 no-op
func (e *Entity) Remove() {
	if e == nil {
		return
	}
	e.removed = true
	e.Body = nil
}

func (e *Entity) Removed() bool { return e == nil || e.removed }

// HealthRatio 当前生命比例，MaxHealth 为 0 时返回 0
func (e *Entity) HealthRatio() float64 {
	if e == nil || e.MaxHealth <= 0 {
		return 0
	}
	return float64(e.Health) / float64(e.MaxHealth)
}

// DistanceX 水平距离（策略使用）
func DistanceX(a, b *Entity) float64 {
	return math.Abs(b.X - a.X)
}

// Distance 欧氏距离（战斗判定使用）
func Distance(x, y float64, e *Entity) float64 {
	return math.Hypot(e.X-x, e.Y-y)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

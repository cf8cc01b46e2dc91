package strategy

import "time"

// Shape 特效形状
type Shape int

const (
	ShapeCircle Shape = iota
	ShapeRect
	ShapeShake // 镜头震动，Size 为强度
)

// Effect 声明式特效请求，由外部渲染层消费；核心从不查询或等待它
type Effect struct {
	Shape    Shape
	X, Y     float64
	Size     float64
	Color    uint32
	Duration time.Duration
}

// EffectSink 特效投递端（即发即忘）
type EffectSink interface {
	Spawn(fx Effect)
}

// AttackKind 敌方攻击类型
type AttackKind int

const (
	AttackPulse      AttackKind = iota // 近身脉冲
	AttackShot                         // 狙击
	AttackExplosion                    // 自爆
	AttackGroundSlam                   // 首领震地
	AttackCharge                       // 首领冲锋
)

func (k AttackKind) String() string {
	switch k {
	case AttackPulse:
		return "pulse"
	case AttackShot:
		return "shot"
	case AttackExplosion:
		return "explosion"
	case AttackGroundSlam:
		return "ground_slam"
	case AttackCharge:
		return "charge"
	default:
		return "unknown"
	}
}

// Attack 攻击请求：玩家与 (X,Y) 的水平距离小于 Radius 时承受 Hits 次伤害
type Attack struct {
	Kind   AttackKind
	X, Y   float64
	Radius float64
	Hits   int
}

// Intent 单帧决策输出
type Intent struct {
	VelocityX float64

	Jump         bool
	JumpVelocity float64 // 负值向上
	JumpCooldown int

	Attack  *Attack
	Effects []Effect

	SelfDestruct bool
	Tint         uint32 // 非零时覆盖颜色标签
}

// jump 同一帧内后一次跳跃覆盖前一次
func (in *Intent) jump(vy float64, cooldown int) {
	in.Jump = true
	in.JumpVelocity = vy
	in.JumpCooldown = cooldown
}

func (in *Intent) effect(fx ...Effect) {
	in.Effects = append(in.Effects, fx...)
}

func circle(x, y, r float64, color uint32, d time.Duration) Effect {
	return Effect{Shape: ShapeCircle, X: x, Y: y, Size: r, Color: color, Duration: d}
}

func rect(x, y, w float64, color uint32, d time.Duration) Effect {
	return Effect{Shape: ShapeRect, X: x, Y: y, Size: w, Color: color, Duration: d}
}

func shake(d time.Duration, intensity float64) Effect {
	return Effect{Shape: ShapeShake, Size: intensity, Duration: d}
}

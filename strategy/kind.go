package strategy

// Kind 行为变体标签
type Kind int

const (
	Aggressive Kind = iota
	Defensive
	Patrolling
	Kamikaze
	Sniper
	Flanker
	Guardian
	Boss
)

// GenericKinds 参与通用切换策略的七种变体（不含 Boss）
var GenericKinds = []Kind{Aggressive, Defensive, Patrolling, Kamikaze, Sniper, Flanker, Guardian}

func (k Kind) String() string {
	switch k {
	case Aggressive:
		return "aggressive"
	case Defensive:
		return "defensive"
	case Patrolling:
		return "patrolling"
	case Kamikaze:
		return "kamikaze"
	case Sniper:
		return "sniper"
	case Flanker:
		return "flanker"
	case Guardian:
		return "guardian"
	case Boss:
		return "boss"
	default:
		return "unknown"
	}
}

// Tint 变体对应的颜色标签
func (k Kind) Tint() uint32 {
	switch k {
	case Aggressive:
		return 0xFF4500
	case Defensive:
		return 0x4169E1
	case Patrolling:
		return 0x32CD32
	case Kamikaze:
		return 0xDC143C
	case Sniper:
		return 0x00FFFF
	case Flanker:
		return 0xFFD700
	case Guardian:
		return 0x800080
	case Boss:
		return 0x8B0000
	default:
		return 0xFFFFFF
	}
}

// Generic 是否受通用切换策略约束
func (k Kind) Generic() bool { return k >= Aggressive && k <= Guardian }

// ParseKind 按名称解析变体，未知名称返回 false
func ParseKind(name string) (Kind, bool) {
	for k := Aggressive; k <= Boss; k++ {
		if k.String() == name {
			return k, true
		}
	}
	return 0, false
}

package strategy

import "time"

// 首领阶段阈值（按最大生命比例）
const (
	bossPhase2Ratio = 0.6
	bossPhase3Ratio = 0.3

	groundSlamRange    = 80
	groundSlamRadius   = 100
	groundSlamCooldown = 120
	chargeMinRange     = 100
	chargeMaxRange     = 200
	chargeCooldown     = 180
)

// bossPhase 每个阶段的移动倍率与停步距离
type bossPhase struct {
	speed  float64
	holdAt float64 // 小于该距离时停步
	tint   uint32
}

var bossPhases = [...]bossPhase{
	1: {speed: 0.8, holdAt: 50, tint: 0x8B0000},
	2: {speed: 1.2, holdAt: 30, tint: 0xFF4500},
	3: {speed: 1.5, holdAt: 20, tint: 0xFF0000},
}

// bossStrategy 首领阶段控制器：阶段只升不降，特殊攻击有独立冷却。
// 不受通用切换策略约束，也不会被随机切换。
type bossStrategy struct {
	core
	attackTimer     int
	phase           int
	specialCooldown int
}

func newBossStrategy(c core) *bossStrategy {
	s := &bossStrategy{core: c, phase: 1}
	s.phase = s.phaseFor()
	return s
}

func (s *bossStrategy) Kind() Kind { return Boss }

// Phase 当前阶段 1..3
func (s *bossStrategy) Phase() int { return s.phase }

// SpecialCooldown 距离下一次特殊攻击可用的帧数
func (s *bossStrategy) SpecialCooldown() int { return s.specialCooldown }

func (s *bossStrategy) phaseFor() int {
	self := s.self()
	full := float64(self.MaxHealth)
	switch {
	case float64(self.Health) <= full*bossPhase3Ratio:
		return 3
	case float64(self.Health) <= full*bossPhase2Ratio:
		return 2
	default:
		return 1
	}
}

func (s *bossStrategy) Decide() Intent {
	var in Intent
	s.attackTimer++
	if s.specialCooldown > 0 {
		s.specialCooldown--
	}
	distance := s.distance()
	direction := s.direction()

	if next := s.phaseFor(); next > s.phase {
		s.phase = next
		in.Tint = bossPhases[next].tint
		in.effect(circle(s.self().X, s.self().Y, 80, bossPhases[next].tint, 400*time.Millisecond))
	}

	p := bossPhases[s.phase]
	if distance > p.holdAt {
		in.VelocityX = s.toward(direction, p.speed)
	}

	if s.canJump() {
		switch {
		case s.playerAbove(20) && distance < 150:
			in.jump(-500, 40)
		case distance < 100 && s.chance(0.3):
			in.jump(-400, 30)
		}
	}

	s.special(&in, distance, direction)
	return in
}

// special 震地（近战、双倍伤害）优先于冲锋（中距离，二阶段起）
func (s *bossStrategy) special(in *Intent, distance, direction float64) {
	if s.specialCooldown > 0 {
		return
	}
	self := s.self()
	switch {
	case distance < groundSlamRange && self.TouchingGround():
		in.Attack = &Attack{Kind: AttackGroundSlam, X: self.X, Y: self.Y, Radius: groundSlamRadius, Hits: 2}
		in.effect(circle(self.X, self.Y+20, 60, 0xFF0000, 500*time.Millisecond), shake(300*time.Millisecond, 0.03))
		s.specialCooldown = groundSlamCooldown
	case distance > chargeMinRange && distance < chargeMaxRange && s.phase >= 2:
		in.VelocityX = s.toward(direction, 3)
		in.Attack = &Attack{Kind: AttackCharge, X: self.X, Y: self.Y}
		in.effect(rect(self.X, self.Y, 80, 0xFF4500, 400*time.Millisecond))
		s.specialCooldown = chargeCooldown
	}
}

package strategy

import "time"

const (
	kamikazeChargeTicks   = 60
	kamikazeChargeSpeed   = 2.5
	kamikazeArmTicks      = 120
	kamikazeTriggerRange  = 40
	kamikazeBlastRadius   = 80
	kamikazeChargeBuildup = 30
)

// kamikazeStrategy 两段式：靠近蓄力 -> 高速冲锋；武装窗口过后贴身自爆
type kamikazeStrategy struct {
	core
	chargeTimer     int
	explosionTimer  int
	charging        bool
	chargeDirection int
}

func newKamikaze(c core) *kamikazeStrategy {
	return &kamikazeStrategy{core: c}
}

func (s *kamikazeStrategy) Kind() Kind { return Kamikaze }

// Charging 是否处于冲锋阶段
func (s *kamikazeStrategy) Charging() bool { return s.charging }

func (s *kamikazeStrategy) Decide() Intent {
	var in Intent
	s.chargeTimer++
	s.explosionTimer++
	self := s.self()
	distance := s.distance()
	direction := s.direction()

	if s.charging {
		in.VelocityX = float64(s.chargeDirection) * self.Speed * kamikazeChargeSpeed
		if s.chargeTimer%5 == 0 {
			in.effect(circle(self.X-float64(s.chargeDirection)*20, self.Y, 8, 0xFF0000, 200*time.Millisecond))
		}
		if s.chargeTimer > kamikazeChargeTicks {
			s.charging = false
			s.chargeTimer = 0
		}
	} else if distance < 200 {
		s.chargeTimer++
		if s.chargeTimer > kamikazeChargeBuildup || distance < 100 {
			s.charging = true
			s.chargeDirection = sign(direction)
			s.chargeTimer = 0
			in.VelocityX = float64(s.chargeDirection) * self.Speed * kamikazeChargeSpeed
			in.effect(
				circle(self.X, self.Y, 30, 0xFF4500, 300*time.Millisecond),
				shake(150*time.Millisecond, 0.02),
			)
		} else {
			in.VelocityX = s.toward(direction, 1.2)
		}
	} else {
		in.VelocityX = s.toward(direction, 1.8)
	}

	if s.canJump() {
		switch {
		case s.playerAbove(20) && distance < 150:
			in.jump(-700, 15)
			in.effect(s.blast(40)...)
		case distance < 120 && s.chance(0.8):
			in.jump(-600, 20)
			in.effect(s.blast(40)...)
		}
	}

	if distance < kamikazeTriggerRange && s.explosionTimer > kamikazeArmTicks {
		in.SelfDestruct = true
		in.Attack = &Attack{Kind: AttackExplosion, X: self.X, Y: self.Y, Radius: kamikazeBlastRadius, Hits: 2}
		in.effect(circle(self.X, self.Y, 60, 0xFF0000, 400*time.Millisecond), shake(500*time.Millisecond, 0.05))
		s.explosionTimer = 0
	}
	return in
}

func (s *kamikazeStrategy) blast(r float64) []Effect {
	self := s.self()
	return []Effect{
		circle(self.X, self.Y, r, 0xFF0000, 250*time.Millisecond),
		shake(100*time.Millisecond, 0.015),
	}
}

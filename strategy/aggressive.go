package strategy

import "time"

const (
	aggressivePredict     = 0.3 // 按玩家速度线性预测的时间窗
	aggressiveAttackEvery = 60
)

// aggressiveStrategy 预测追击，近身时周期性脉冲攻击
type aggressiveStrategy struct {
	core
	attackTimer int
}

func newAggressive(c core) *aggressiveStrategy {
	return &aggressiveStrategy{core: c}
}

func (s *aggressiveStrategy) Kind() Kind { return Aggressive }

func (s *aggressiveStrategy) Decide() Intent {
	var in Intent
	s.attackTimer++
	self, player := s.self(), s.player()
	distance := s.distance()

	predictedX := player.X + player.VX*aggressivePredict
	predicted := predictedX - self.X

	mult := 1.2
	if distance > 200 {
		mult = 1.5
	}
	if distance < 50 {
		mult = 0.8
	}
	if s.desperate() {
		mult = 1.8
	}

	if abs(predicted) > 15 {
		in.VelocityX = s.toward(predicted, mult)
	}

	if s.canJump() && s.shouldJump(distance) {
		power := -500.0
		if distance < 50 {
			power = -400
		}
		if s.desperate() {
			power = -650
		}
		in.jump(power, 35)
	}

	if distance < 30 && s.attackTimer > aggressiveAttackEvery {
		in.Attack = &Attack{Kind: AttackPulse, X: self.X, Y: self.Y, Radius: 40, Hits: 1}
		in.effect(
			circle(self.X, self.Y, 40, 0xFF4500, 200*time.Millisecond),
			shake(100*time.Millisecond, 0.01),
		)
		s.attackTimer = 0
	}
	return in
}

func (s *aggressiveStrategy) shouldJump(distance float64) bool {
	switch {
	case s.playerAbove(30) && distance < 120:
		return true
	case distance < 100 && distance > 40 && s.chance(0.6):
		return true
	case distance < 60 && s.nearWall():
		return true
	case s.desperate() && distance < 150 && s.chance(0.8):
		return true
	}
	return false
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

package strategy

import "time"

const (
	sniperOptimalRange = 150
	sniperShotCooldown = 90
	sniperFireRange    = 200
)

// sniperStrategy 保持 150 附近的射程（-30/+50），冷却就绪且在射程内时开火
type sniperStrategy struct {
	core
	aimTimer     int
	shotCooldown int
}

func newSniper(c core) *sniperStrategy {
	return &sniperStrategy{core: c}
}

func (s *sniperStrategy) Kind() Kind { return Sniper }

func (s *sniperStrategy) Decide() Intent {
	var in Intent
	s.aimTimer++
	if s.shotCooldown > 0 {
		s.shotCooldown--
	}
	self := s.self()
	distance := s.distance()
	direction := s.direction()

	switch {
	case distance < sniperOptimalRange-30:
		in.VelocityX = -s.toward(direction, 0.8)
	case distance > sniperOptimalRange+50:
		in.VelocityX = s.toward(direction, 0.6)
	}

	if s.shotCooldown <= 0 && distance < sniperFireRange {
		dir := float64(sign(direction))
		in.Attack = &Attack{Kind: AttackShot, X: self.X, Y: self.Y, Radius: sniperFireRange, Hits: 1}
		in.effect(rect(self.X+dir*30, self.Y, 100, 0x00FFFF, 100*time.Millisecond))
		s.shotCooldown = sniperShotCooldown
	}

	if s.canJump() && distance > 100 && !s.groundAhead(120) {
		in.jump(-400, 80)
	}
	return in
}

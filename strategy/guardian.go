package strategy

const guardianRadius = 120

// guardianStrategy 守卫激活时的位置，玩家进入保护半径时拦截，离开后返回
type guardianStrategy struct {
	core
	anchorX, anchorY float64
	alertTimer       int
}

func newGuardian(c core) *guardianStrategy {
	return &guardianStrategy{core: c, anchorX: c.env.Self.X, anchorY: c.env.Self.Y}
}

func (s *guardianStrategy) Kind() Kind { return Guardian }

func (s *guardianStrategy) Decide() Intent {
	var in Intent
	s.alertTimer++
	distance := s.distance()

	if distance < guardianRadius {
		if distance > 30 {
			in.VelocityX = s.toward(s.direction(), 0.9)
		}
	} else if d := s.anchorX - s.self().X; abs(d) > 20 {
		in.VelocityX = s.toward(d, 0.7)
	}

	if s.canJump() && distance < 60 && s.playerAbove(20) {
		in.jump(-500, 50)
	}
	return in
}

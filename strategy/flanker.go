package strategy

// flankerStrategy 远处时绕到玩家一侧 100 处，进入 100 以内直接进攻
type flankerStrategy struct {
	core
	flankTimer     int
	flankDirection int
	flanking       bool
}

func newFlanker(c core) *flankerStrategy {
	s := &flankerStrategy{core: c}
	s.flankDirection = randomSide(&s.core)
	return s
}

func (s *flankerStrategy) Kind() Kind { return Flanker }

func (s *flankerStrategy) Decide() Intent {
	var in Intent
	s.flankTimer++
	distance := s.distance()

	if distance > 100 {
		s.flanking = true
		flankX := s.player().X + float64(s.flankDirection)*100
		if d := flankX - s.self().X; abs(d) > 30 {
			in.VelocityX = s.toward(d, 1.1)
		}
	} else {
		s.flanking = false
		if distance > 20 {
			in.VelocityX = s.toward(s.direction(), 1.3)
		}
	}

	// 切入阶段跳跃扑击
	if s.canJump() && !s.flanking && distance < 80 && s.chance(0.7) {
		in.jump(-550, 30)
	}
	return in
}

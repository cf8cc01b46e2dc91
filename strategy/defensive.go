package strategy

// defensiveStrategy 维持自适应的安全距离（100~140），被逼近时向开阔侧撤退
type defensiveStrategy struct {
	core
	retreatTimer    int
	optimalDistance float64
	areaControl     bool
}

func newDefensive(c core) *defensiveStrategy {
	return &defensiveStrategy{core: c, optimalDistance: 120, areaControl: true}
}

func (s *defensiveStrategy) Kind() Kind { return Defensive }

func (s *defensiveStrategy) Decide() Intent {
	var in Intent
	s.retreatTimer++
	distance := s.distance()
	direction := s.direction()

	if distance < 80 {
		s.optimalDistance = 140
	} else if distance > 200 {
		s.optimalDistance = 100
	}

	mult := 0.8
	if s.desperate() {
		mult = 1.3
	}
	switch {
	case distance < s.optimalDistance:
		in.VelocityX = s.retreatDirection() * s.self().Speed * mult
	case distance > s.optimalDistance+50:
		in.VelocityX = s.toward(direction, 0.5)
	default:
		// 区间内左右横移
		if s.retreatTimer%60 < 30 {
			in.VelocityX = s.self().Speed * 0.3
		} else {
			in.VelocityX = -s.self().Speed * 0.3
		}
	}

	if s.canJump() {
		switch {
		case distance < 50 && s.playerAbove(20):
			in.jump(-450, 50)
			in.VelocityX = s.retreatDirection() * s.self().Speed * 0.5
		case !s.groundAhead(100) && distance > 120:
			in.jump(-400, 60)
		case distance < 80 && s.playerBelow(20):
			in.jump(-500, 45)
		}
	}

	// 远离时抢占玩家前方位置
	if s.areaControl && distance > 150 {
		strategicX := s.player().X + 100
		if d := strategicX - s.self().X; abs(d) > 50 {
			in.VelocityX = s.toward(d, 0.6)
		}
	}
	return in
}

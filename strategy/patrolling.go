package strategy

import "math"

// AlertLevel 巡逻者的警戒等级
type AlertLevel int

const (
	AlertCalm AlertLevel = iota
	AlertSuspicious
	AlertAlert
	AlertEngaged
)

func (l AlertLevel) String() string {
	switch l {
	case AlertCalm:
		return "calm"
	case AlertSuspicious:
		return "suspicious"
	case AlertAlert:
		return "alert"
	case AlertEngaged:
		return "engaged"
	default:
		return "unknown"
	}
}

const alertDecay = 0.1

type sighting struct {
	x, y float64
	tick int
}

// patrollingStrategy 路线巡逻，随玩家靠近逐级升级警戒，玩家离开后每帧衰减 0.1
type patrollingStrategy struct {
	core
	patrolDirection int
	patrolTimer     int
	startX          float64
	alert           float64
	lastSighting    sighting
}

func newPatrolling(c core) *patrollingStrategy {
	s := &patrollingStrategy{core: c, startX: c.env.Self.X}
	s.patrolDirection = randomSide(&s.core)
	if p := c.env.Player; p != nil {
		s.lastSighting = sighting{x: p.X, y: p.Y}
	}
	return s
}

func (s *patrollingStrategy) Kind() Kind { return Patrolling }

// Alert 当前警戒等级（小数部分向上取整）
func (s *patrollingStrategy) Alert() AlertLevel {
	lvl := int(math.Ceil(s.alert - 1e-9))
	return AlertLevel(max(0, min(lvl, int(AlertEngaged))))
}

func (s *patrollingStrategy) Decide() Intent {
	var in Intent
	s.patrolTimer++
	distance := s.distance()
	s.updateAlert(distance)

	speed := s.self().Speed
	switch s.Alert() {
	case AlertCalm:
		in.VelocityX = float64(s.patrolDirection) * speed * 0.6
		if s.patrolTimer > 300 || abs(s.self().X-s.startX) > 200 {
			s.patrolDirection = -s.patrolDirection
			s.patrolTimer = 0
			s.startX = s.self().X
		}
	case AlertSuspicious:
		// 原地左右张望
		if s.patrolTimer%90 < 45 {
			in.VelocityX = speed * 0.2
		} else {
			in.VelocityX = -speed * 0.2
		}
	case AlertAlert:
		d := s.lastSighting.x - s.self().X
		if abs(d) > 30 {
			in.VelocityX = s.toward(d, 0.8)
		} else {
			in.VelocityX = s.searchPattern()
		}
	default:
		if distance > 20 {
			in.VelocityX = s.toward(s.direction(), 0.9)
		}
	}

	if s.canJump() {
		s.jump(&in, distance)
	}
	return in
}

func (s *patrollingStrategy) updateAlert(distance float64) {
	switch {
	case distance < 50:
		s.alert = float64(AlertEngaged)
	case distance < 100:
		s.alert = float64(AlertAlert)
	case distance < 200:
		s.alert = float64(AlertSuspicious)
	default:
		s.alert = math.Max(0, s.alert-alertDecay)
	}
	if distance < 300 {
		s.lastSighting = sighting{x: s.player().X, y: s.player().Y, tick: s.patrolTimer}
	}
}

// searchPattern 在最后目击点附近来回搜索，120 帧一个周期
func (s *patrollingStrategy) searchPattern() float64 {
	speed := s.self().Speed * 0.3
	phase := float64(s.patrolTimer%120) / 120
	switch {
	case phase < 0.25:
		return speed
	case phase < 0.5:
		return -speed
	case phase < 0.75:
		return speed
	default:
		return -speed
	}
}

func (s *patrollingStrategy) jump(in *Intent, distance float64) {
	level := s.Alert()
	if level >= AlertAlert {
		if s.playerAbove(30) && distance < 100 {
			in.jump(-500, 60)
		}
	} else if !s.groundAhead(80) && distance > 150 {
		// 平静时只为通行跳跃
		in.jump(-400, 80)
	}
	if level == AlertAlert && s.playerAbove(50) && distance < 150 {
		in.jump(-450, 70)
	}
}

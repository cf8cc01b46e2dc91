package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sidebrawl/entity"
)

func newEnv(enemyX, playerX float64, health int) *Env {
	self := entity.New("e1", entity.RoleEnemy, enemyX, 500, health, 80)
	self.Grounded = true
	player := entity.New("p1", entity.RolePlayer, playerX, 500, 100, 200)
	return &Env{Self: self, Player: player, Arena: DefaultArena(), Rand: testRNG(42)}
}

func TestNew_FreshInstanceEachTime(t *testing.T) {
	env := newEnv(1000, 1100, 3)
	for _, k := range append(GenericKinds, Boss) {
		a, b := New(k, env), New(k, env)
		assert.Equal(t, k, a.Kind())
		assert.NotSame(t, a, b)
		assert.Zero(t, a.Timer())
	}
}

func TestAggressive_PulseAtMeleeRange(t *testing.T) {
	env := newEnv(1000, 1020, 3)
	s := New(Aggressive, env)

	var attacks int
	for i := 0; i < 130; i++ {
		if in := s.Decide(); in.Attack != nil {
			attacks++
			assert.Equal(t, AttackPulse, in.Attack.Kind)
			assert.Equal(t, 1, in.Attack.Hits)
			assert.NotEmpty(t, in.Effects)
		}
	}
	assert.Equal(t, 2, attacks)
}

func TestAggressive_ChasesPredictedPosition(t *testing.T) {
	env := newEnv(1000, 1400, 3)
	env.Self.Grounded = false
	in := New(Aggressive, env).Decide()
	assert.InDelta(t, 80*1.5, in.VelocityX, 1e-9)

	env.Player.X = 600
	in = New(Aggressive, env).Decide()
	assert.InDelta(t, -80*1.5, in.VelocityX, 1e-9)
}

func TestDefensive_RetreatsTowardOpenSide(t *testing.T) {
	// 左侧空间更大
	env := newEnv(2500, 2450, 3)
	env.Self.Grounded = false
	in := New(Defensive, env).Decide()
	assert.Less(t, in.VelocityX, 0.0)

	env = newEnv(400, 450, 3)
	env.Self.Grounded = false
	in = New(Defensive, env).Decide()
	assert.Greater(t, in.VelocityX, 0.0)
}

func TestPatrolling_AlertEscalatesAndDecays(t *testing.T) {
	env := newEnv(1000, 1040, 3)
	s := New(Patrolling, env).(*patrollingStrategy)

	s.Decide()
	assert.Equal(t, AlertEngaged, s.Alert())

	env.Player.X = 1150
	s.Decide()
	assert.Equal(t, AlertSuspicious, s.Alert())

	env.Player.X = 1090
	s.Decide()
	assert.Equal(t, AlertAlert, s.Alert())

	// 每帧衰减 0.1：2 -> 1 需要 10 帧
	env.Player.X = 1600
	for i := 0; i < 9; i++ {
		s.Decide()
	}
	assert.Equal(t, AlertAlert, s.Alert())
	s.Decide()
	assert.Equal(t, AlertSuspicious, s.Alert())
	for i := 0; i < 10; i++ {
		s.Decide()
	}
	assert.Equal(t, AlertCalm, s.Alert())
}

func TestKamikaze_ArmsThenSelfDestructs(t *testing.T) {
	env := newEnv(1000, 1030, 3)
	env.Self.Grounded = false
	s := New(Kamikaze, env).(*kamikazeStrategy)

	for i := 1; i <= 120; i++ {
		in := s.Decide()
		require.False(t, in.SelfDestruct, "tick %d", i)
	}
	in := s.Decide()
	assert.True(t, in.SelfDestruct)
	require.NotNil(t, in.Attack)
	assert.Equal(t, AttackExplosion, in.Attack.Kind)
	assert.Equal(t, 80.0, in.Attack.Radius)
	assert.Equal(t, 2, in.Attack.Hits)
}

func TestKamikaze_ChargeBurst(t *testing.T) {
	env := newEnv(1000, 1090, 3)
	env.Self.Grounded = false
	s := New(Kamikaze, env).(*kamikazeStrategy)

	in := s.Decide()
	assert.True(t, s.Charging())
	assert.InDelta(t, 80*2.5, in.VelocityX, 1e-9)

	for i := 0; i < 61; i++ {
		s.Decide()
	}
	assert.False(t, s.Charging())
}

func TestSniper_FiresOnCooldown(t *testing.T) {
	env := newEnv(1000, 1150, 3)
	s := New(Sniper, env)

	var shots []int
	for i := 1; i <= 200; i++ {
		if in := s.Decide(); in.Attack != nil {
			assert.Equal(t, AttackShot, in.Attack.Kind)
			shots = append(shots, i)
		}
	}
	assert.Equal(t, []int{1, 91, 181}, shots)
}

func TestSniper_BacksOffWhenTooClose(t *testing.T) {
	env := newEnv(1000, 1050, 3)
	in := New(Sniper, env).Decide()
	assert.Less(t, in.VelocityX, 0.0)
}

func TestFlanker_TargetsSideOffset(t *testing.T) {
	env := newEnv(1000, 1500, 3)
	s := New(Flanker, env).(*flankerStrategy)
	in := s.Decide()
	assert.True(t, s.flanking)
	assert.Greater(t, in.VelocityX, 0.0)

	env.Player.X = 1060
	in = s.Decide()
	assert.False(t, s.flanking)
	assert.InDelta(t, 80*1.3, in.VelocityX, 1e-9)
}

func TestGuardian_InterceptsThenReturns(t *testing.T) {
	env := newEnv(1000, 1100, 3)
	s := New(Guardian, env)
	in := s.Decide()
	assert.Greater(t, in.VelocityX, 0.0)

	env.Self.X = 1080
	env.Player.X = 1500
	in = s.Decide()
	assert.Less(t, in.VelocityX, 0.0, "returns to the anchor")
}

func TestBoss_PhasesOnlyIncrease(t *testing.T) {
	env := newEnv(1000, 1500, 15)
	env.Self.Grounded = false
	s := New(Boss, env).(*bossStrategy)
	assert.Equal(t, 1, s.Phase())

	env.Self.Health = 9
	in := s.Decide()
	assert.Equal(t, 2, s.Phase())
	assert.Equal(t, uint32(0xFF4500), in.Tint)

	env.Self.Health = 4
	in = s.Decide()
	assert.Equal(t, 3, s.Phase())
	assert.Equal(t, uint32(0xFF0000), in.Tint)

	env.Self.Health = 15
	in = s.Decide()
	assert.Equal(t, 3, s.Phase())
	assert.Zero(t, in.Tint)
}

func TestBoss_GroundSlamAtMeleeRange(t *testing.T) {
	env := newEnv(1000, 1040, 15)
	s := New(Boss, env).(*bossStrategy)
	env.Self.Health = 4

	in := s.Decide()
	assert.Equal(t, 3, s.Phase())
	require.NotNil(t, in.Attack)
	assert.Equal(t, AttackGroundSlam, in.Attack.Kind)
	assert.Equal(t, 2, in.Attack.Hits)
	assert.Equal(t, 120, s.SpecialCooldown())

	// 冷却期间不再触发
	for i := 0; i < 119; i++ {
		in = s.Decide()
		assert.Nil(t, in.Attack)
	}
	in = s.Decide()
	require.NotNil(t, in.Attack)
}

func TestBoss_ChargeNeedsPhaseTwo(t *testing.T) {
	env := newEnv(1000, 1150, 15)
	env.Self.Grounded = false
	s := New(Boss, env).(*bossStrategy)
	in := s.Decide()
	assert.Nil(t, in.Attack)

	env.Self.Health = 8
	in = s.Decide()
	require.NotNil(t, in.Attack)
	assert.Equal(t, AttackCharge, in.Attack.Kind)
	assert.InDelta(t, 80*3.0, in.VelocityX, 1e-9)
	assert.Equal(t, 180, s.SpecialCooldown())
}

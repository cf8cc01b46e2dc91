package combat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sidebrawl/config"
	"sidebrawl/entity"
	"sidebrawl/strategy"
)

var sword = Weapon{Name: "Sword", Damage: 1, Range: 60, Cooldown: 20}

func newEnemy(id string, x float64, health int) *entity.Entity {
	return entity.New(id, entity.RoleEnemy, x, 500, health, 80)
}

func tickN(e *entity.Entity, n int) {
	for i := 0; i < n; i++ {
		e.TickCooldowns()
	}
}

func TestResolveAttack_ThreeHitsDefeat(t *testing.T) {
	for _, kind := range strategy.GenericKinds {
		t.Run(kind.String(), func(t *testing.T) {
			r := NewResolver()
			l := NewLedger(config.Default().Combat)
			player := entity.New("p1", entity.RolePlayer, 0, 500, 100, 200)
			target := NewTarget(newEnemy("e1", 50, 3), kind)
			atk := Attack{X: 0, Y: 500, Direction: 1}

			var rewards []Reward
			for want := 2; want >= 0; want-- {
				res := r.ResolveAttack(atk, sword, []*Target{target})
				require.Len(t, res.Hits, 1)
				assert.Equal(t, want, target.Entity.Health)
				rewards = append(rewards, l.SettleAll(res.Defeats, player)...)
				tickN(target.Entity, 10)
			}

			require.Len(t, rewards, 1)
			assert.Equal(t, RewardFor(kind), rewards[0].Coins)
			assert.Equal(t, RewardFor(kind), l.Coins)
			assert.Equal(t, 1, l.EnemiesDefeated)
		})
	}
}

func TestResolveAttack_HitCooldownBlocksMultiHit(t *testing.T) {
	r := NewResolver()
	target := NewTarget(newEnemy("e1", 30, 3), strategy.Aggressive)
	atk := Attack{X: 0, Y: 500}

	r.ResolveAttack(atk, sword, []*Target{target})
	res := r.ResolveAttack(atk, sword, []*Target{target})
	assert.Empty(t, res.Hits)
	assert.Equal(t, 2, target.Entity.Health)

	tickN(target.Entity, 9)
	assert.Empty(t, r.ResolveAttack(atk, sword, []*Target{target}).Hits)
	tickN(target.Entity, 1)
	assert.Len(t, r.ResolveAttack(atk, sword, []*Target{target}).Hits, 1)
}

func TestResolveAttack_OutOfRange(t *testing.T) {
	r := NewResolver()
	target := NewTarget(newEnemy("e1", 60, 3), strategy.Aggressive)
	res := r.ResolveAttack(Attack{X: 0, Y: 500}, sword, []*Target{target, nil})
	assert.Empty(t, res.Hits)
	assert.Equal(t, 3, target.Entity.Health)
}

func TestResolveAttack_BossTolerance(t *testing.T) {
	r := NewResolver()
	boss := NewTarget(entity.New("boss", entity.RoleBoss, 75, 500, 15, 60), strategy.Boss)

	res := r.ResolveAttack(Attack{X: 0, Y: 500}, sword, []*Target{boss})
	require.Len(t, res.Hits, 1)
	assert.Equal(t, 14, boss.Entity.Health)
	assert.Equal(t, 15, boss.Entity.HitCooldown)
}

func TestResolveAttack_HealthClamped(t *testing.T) {
	r := NewResolver()
	hammer := Weapon{Name: "Lightning", Damage: 3, Range: 90}
	target := NewTarget(newEnemy("e1", 10, 2), strategy.Sniper)

	res := r.ResolveAttack(Attack{X: 0, Y: 500}, hammer, []*Target{target})
	require.Len(t, res.Hits, 1)
	assert.Equal(t, 2, res.Hits[0].Damage)
	assert.Equal(t, 0, target.Entity.Health)
	require.Len(t, res.Defeats, 1)
}

func TestLedger_SingleDefeatPerTarget(t *testing.T) {
	r := NewResolver()
	l := NewLedger(config.Default().Combat)
	player := entity.New("p1", entity.RolePlayer, 0, 500, 100, 200)
	target := NewTarget(newEnemy("e1", 10, 1), strategy.Guardian)
	atk := Attack{X: 0, Y: 500}

	// 同一帧两次攻击
	first := r.ResolveAttack(atk, sword, []*Target{target})
	target.Entity.HitCooldown = 0
	second := r.ResolveAttack(atk, sword, []*Target{target})

	assert.Len(t, first.Defeats, 1)
	assert.Empty(t, second.Defeats)
	l.SettleAll(first.Defeats, player)
	l.SettleAll(first.Defeats, player)
	_, ok := l.Settle(target, player)
	assert.False(t, ok)
	assert.Equal(t, 9, l.Coins)
	assert.Equal(t, 1, l.TotalDefeated)
}

func TestLedger_BossDefeat(t *testing.T) {
	l := NewLedger(config.Default().Combat)
	player := entity.New("p1", entity.RolePlayer, 0, 500, 100, 200)
	player.Damage(20)
	l.EnemiesDefeated = 5
	assert.True(t, l.BossDue())

	boss := NewTarget(entity.New("boss", entity.RoleBoss, 10, 500, 15, 60), strategy.Boss)
	boss.Entity.Damage(15)
	boss.defeated = true

	rw, ok := l.Settle(boss, player)
	require.True(t, ok)
	assert.True(t, rw.Boss)
	assert.Equal(t, 50, rw.Coins)
	assert.Equal(t, 20, rw.Heal)
	assert.Equal(t, 100, player.Health)
	assert.Equal(t, 0, l.EnemiesDefeated)
	assert.Equal(t, 1, l.BossesDefeated)
	assert.False(t, l.BossDue())

	assert.True(t, l.Spend(30))
	assert.False(t, l.Spend(30))
}

func TestRewardTable(t *testing.T) {
	assert.Equal(t, 3, RewardFor(strategy.Patrolling))
	assert.Equal(t, 9, RewardFor(strategy.Guardian))
	assert.Equal(t, 5, RewardFor(strategy.Boss))
}

func TestVitals_RespawnAndInvulnerability(t *testing.T) {
	player := entity.New("p1", entity.RolePlayer, 900, 300, 100, 200)
	v := NewVitals(player, 100, 500, 20)

	dealt, respawned := v.TakeHits(2)
	assert.Equal(t, 40, dealt)
	assert.False(t, respawned)

	dealt, _ = v.TakeHits(1)
	assert.Zero(t, dealt, "invulnerable right after a hit")

	tickN(player, 30)
	v.TakeHits(2)
	tickN(player, 30)
	_, respawned = v.TakeHits(1)
	assert.True(t, respawned)
	assert.Equal(t, 100, player.Health)
	assert.Equal(t, 100.0, player.X)
	assert.Equal(t, 500.0, player.Y)
	assert.Equal(t, 1, v.Deaths)
}

func TestVitals_AbsorbRadius(t *testing.T) {
	player := entity.New("p1", entity.RolePlayer, 1000, 500, 100, 200)
	v := NewVitals(player, 100, 500, 20)

	_, _ = v.Absorb(&strategy.Attack{Kind: strategy.AttackPulse, X: 1050, Radius: 40, Hits: 1})
	assert.Equal(t, 100, player.Health)

	dealt, _ := v.Absorb(&strategy.Attack{Kind: strategy.AttackExplosion, X: 1050, Radius: 80, Hits: 2})
	assert.Equal(t, 40, dealt)

	tickN(player, 30)
	dealt, _ = v.Absorb(&strategy.Attack{Kind: strategy.AttackCharge, X: 1000})
	assert.Zero(t, dealt)
}

func TestArsenal_CooldownsAndUnlocks(t *testing.T) {
	a := NewArsenal(DefaultCatalog())
	assert.Equal(t, "Sword", a.Current().Name)

	w, ok := a.TryAttack()
	require.True(t, ok)
	assert.Equal(t, 20, w.Cooldown)
	_, ok = a.TryAttack()
	assert.False(t, ok)
	for i := 0; i < 20; i++ {
		a.Tick()
	}
	_, ok = a.TryAttack()
	assert.True(t, ok)

	// 只有一把时切换回到自身
	w, ok = a.Next()
	assert.True(t, ok)
	assert.Equal(t, "Sword", w.Name)

	assert.True(t, a.Unlock(3))
	assert.False(t, a.Unlock(3))
	_, ok = a.Next()
	assert.False(t, ok, "switch cooldown")
	for i := 0; i < 10; i++ {
		a.Tick()
	}
	w, _ = a.Next()
	assert.Equal(t, "Bow", w.Name)
	assert.Equal(t, []int{0, 3}, a.Unlocked())
}

func TestCatalog(t *testing.T) {
	c := DefaultCatalog()
	assert.Equal(t, 9, c.Len())
	w, i, ok := c.Lookup("fire blade")
	require.True(t, ok)
	assert.Equal(t, 7, i)
	assert.Equal(t, 15, w.Cooldown)

	_, err := NewCatalog([]config.WeaponSpec{{Name: "a"}, {Name: "A"}})
	assert.Error(t, err)
	_, err = NewCatalog(nil)
	assert.Error(t, err)
}

func TestLedger_BossDefeatWithoutPlayer(t *testing.T) {
	l := NewLedger(config.Default().Combat)
	gone := entity.New("p1", entity.RolePlayer, 0, 500, 100, 200)
	gone.Remove()

	for _, player := range []*entity.Entity{nil, gone} {
		boss := NewTarget(entity.New("boss", entity.RoleBoss, 10, 500, 15, 60), strategy.Boss)
		boss.Entity.Damage(15)
		boss.defeated = true

		var rw Reward
		var ok bool
		require.NotPanics(t, func() { rw, ok = l.Settle(boss, player) })
		require.True(t, ok)
		assert.Equal(t, 50, rw.Coins)
		assert.Zero(t, rw.Heal)
	}
	assert.Equal(t, 2, l.BossesDefeated)
}

package combat

import (
	"sidebrawl/entity"
	"sidebrawl/strategy"
)

// playerInvulnerable 受击后的无敌帧，防止接触伤害逐帧叠加
const playerInvulnerable = 30

// Vitals 玩家生命与重生（客户端本地模拟）
type Vitals struct {
	Player    *entity.Entity
	SpawnX    float64
	SpawnY    float64
	HitDamage int // 每个伤害单位扣除的生命
	Deaths    int
}

func NewVitals(player *entity.Entity, spawnX, spawnY float64, hitDamage int) *Vitals {
	return &Vitals{Player: player, SpawnX: spawnX, SpawnY: spawnY, HitDamage: hitDamage}
}

// TakeHits 承受 units 个伤害单位；生命归零时在出生点满血重生
func (v *Vitals) TakeHits(units int) (dealt int, respawned bool) {
	p := v.Player
	if units <= 0 || p.Removed() || p.HitCooldown > 0 {
		return 0, false
	}
	dealt = p.Damage(units * v.HitDamage)
	p.SetHitCooldown(playerInvulnerable)
	if p.Health <= 0 {
		v.Deaths++
		p.X, p.Y = v.SpawnX, v.SpawnY
		p.SetVelocity(0, 0)
		p.Heal(p.MaxHealth)
		respawned = true
	}
	return dealt, respawned
}

// Absorb 敌方攻击请求：水平距离在半径内时生效，冲锋只负责位移
func (v *Vitals) Absorb(a *strategy.Attack) (int, bool) {
	if a == nil || a.Hits <= 0 {
		return 0, false
	}
	if abs(v.Player.X-a.X) >= a.Radius {
		return 0, false
	}
	return v.TakeHits(a.Hits)
}

// Contact 与敌人身体接触；首领双倍
func (v *Vitals) Contact(e *entity.Entity, touchRadius float64) (int, bool) {
	if !e.Alive() || entity.Distance(v.Player.X, v.Player.Y, e) >= touchRadius {
		return 0, false
	}
	units := 1
	if e.Role == entity.RoleBoss {
		units = 2
	}
	return v.TakeHits(units)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

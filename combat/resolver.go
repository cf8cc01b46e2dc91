package combat

import (
	"time"

	"go.uber.org/zap"

	"sidebrawl/entity"
	"sidebrawl/logging"
	"sidebrawl/strategy"
)

const (
	attackReach       = 40 // 攻击原点在朝向前方的距离
	bossRangeBonus    = 20
	enemyHitCooldown  = 10
	bossHitCooldown   = 15
	hitFlashColor     = 0xFF0000
	hitFlashDuration  = 100 * time.Millisecond
	bossFlashDuration = 150 * time.Millisecond
)

// Attack 玩家一次挥击
type Attack struct {
	X, Y      float64
	Direction int
}

// AttackFrom 以玩家朝向计算攻击原点
func AttackFrom(player *entity.Entity) Attack {
	dir := player.Facing
	if dir == 0 {
		dir = 1
	}
	return Attack{X: player.X + float64(dir)*attackReach, Y: player.Y, Direction: dir}
}

// Target 可被攻击的敌人/首领。defeated 保证击败只结算一次
type Target struct {
	Entity *entity.Entity
	Kind   strategy.Kind

	defeated bool
	rewarded bool
}

func NewTarget(e *entity.Entity, kind strategy.Kind) *Target {
	return &Target{Entity: e, Kind: kind}
}

func (t *Target) Boss() bool { return t.Entity.Role == entity.RoleBoss }

func (t *Target) Defeated() bool { return t.defeated }

// Hit 单次命中
type Hit struct {
	Target *Target
	Damage int
}

// Result 一次攻击的结算结果
type Result struct {
	Hits    []Hit
	Defeats []*Target
	Effects []strategy.Effect
}

// Resolver 攻击判定。无内部状态，击败标记保存在 Target 上
type Resolver struct {
	log *zap.SugaredLogger
}

func NewResolver() *Resolver {
	return &Resolver{log: logging.Named("combat")}
}

// ResolveAttack 对所有候选目标做范围判定并扣血；同一帧多次攻击也只会产生一次击败
func (r *Resolver) ResolveAttack(atk Attack, w Weapon, candidates []*Target) Result {
	var res Result
	for _, t := range candidates {
		if t == nil || t.defeated || !t.Entity.Alive() || t.Entity.HitCooldown > 0 {
			continue
		}
		reach := w.Range
		cooldown := enemyHitCooldown
		flash := hitFlashDuration
		if t.Boss() {
			reach += bossRangeBonus
			cooldown = bossHitCooldown
			flash = bossFlashDuration
		}
		if entity.Distance(atk.X, atk.Y, t.Entity) >= reach {
			continue
		}

		dealt := t.Entity.Damage(w.Damage)
		t.Entity.SetHitCooldown(cooldown)
		res.Hits = append(res.Hits, Hit{Target: t, Damage: dealt})
		res.Effects = append(res.Effects, strategy.Effect{
			Shape:    strategy.ShapeCircle,
			X:        t.Entity.X,
			Y:        t.Entity.Y,
			Size:     20,
			Color:    hitFlashColor,
			Duration: flash,
		})
		r.log.Debugw("hit", "target", t.Entity.ID, "weapon", w.Name, "damage", dealt, "health", t.Entity.Health)

		if t.Entity.Health <= 0 {
			t.defeated = true
			res.Defeats = append(res.Defeats, t)
		}
	}
	return res
}

package combat

import (
	"go.uber.org/zap"

	"sidebrawl/config"
	"sidebrawl/entity"
	"sidebrawl/logging"
	"sidebrawl/strategy"
)

const defaultReward = 5

// 击败各变体的金币奖励
var rewards = map[strategy.Kind]int{
	strategy.Aggressive: 5,
	strategy.Defensive:  4,
	strategy.Patrolling: 3,
	strategy.Kamikaze:   8,
	strategy.Sniper:     6,
	strategy.Flanker:    7,
	strategy.Guardian:   9,
}

// RewardFor 普通敌人的金币奖励
func RewardFor(kind strategy.Kind) int {
	if r, ok := rewards[kind]; ok {
		return r
	}
	return defaultReward
}

// Reward 单次击败的结算
type Reward struct {
	TargetID string
	Coins    int
	Heal     int
	Boss     bool
}

// Ledger 击败记账：金币、击败计数、首领出现门槛
type Ledger struct {
	Coins           int
	EnemiesDefeated int // 自上次击败首领以来
	BossesDefeated  int
	TotalDefeated   int

	bossAfter  int
	bossReward int
	bossHeal   int
	log        *zap.SugaredLogger
}

func NewLedger(cfg config.CombatConfig) *Ledger {
	return &Ledger{
		bossAfter:  cfg.BossAfter,
		bossReward: cfg.BossReward,
		bossHeal:   cfg.BossHeal,
		log:        logging.Named("combat"),
	}
}

// Settle 结算一次击败。每个目标只结算一次，重复调用返回 false
func (l *Ledger) Settle(t *Target, player *entity.Entity) (Reward, bool) {
	if t == nil || !t.defeated || t.rewarded {
		return Reward{}, false
	}
	t.rewarded = true
	l.TotalDefeated++

	if t.Boss() {
		// 玩家已不存在时照常发奖，只跳过回血
		heal := 0
		if !player.Removed() {
			heal = player.Heal(min(l.bossHeal, 100-player.Health))
		}
		l.Coins += l.bossReward
		l.EnemiesDefeated = 0
		l.BossesDefeated++
		l.log.Infow("boss defeated", "id", t.Entity.ID, "coins", l.Coins, "heal", heal, "bosses", l.BossesDefeated)
		return Reward{TargetID: t.Entity.ID, Coins: l.bossReward, Heal: heal, Boss: true}, true
	}

	coins := RewardFor(t.Kind)
	l.Coins += coins
	l.EnemiesDefeated++
	l.log.Infow("enemy defeated", "id", t.Entity.ID, "kind", t.Kind.String(), "coins", coins, "total", l.Coins)
	return Reward{TargetID: t.Entity.ID, Coins: coins}, true
}

// SettleAll 结算 ResolveAttack 产生的全部击败
func (l *Ledger) SettleAll(defeats []*Target, player *entity.Entity) []Reward {
	var out []Reward
	for _, t := range defeats {
		if r, ok := l.Settle(t, player); ok {
			out = append(out, r)
		}
	}
	return out
}

// BossDue 是否达到首领出现门槛
func (l *Ledger) BossDue() bool {
	return l.bossAfter > 0 && l.EnemiesDefeated >= l.bossAfter
}

// Spend 扣除金币，余额不足时返回 false
func (l *Ledger) Spend(coins int) bool {
	if coins < 0 || coins > l.Coins {
		return false
	}
	l.Coins -= coins
	return true
}

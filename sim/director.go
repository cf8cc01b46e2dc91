package sim

import (
	"math"
	"math/rand"

	"sidebrawl/strategy"
)

const (
	baseSpawnInterval = 600
	minDifficulty     = 0.3
	baseMaxEnemies    = 8
)

// Director 敌人刷新节奏：击败首领越多，刷新越快、上限越高
type Director struct {
	rand  *rand.Rand
	timer int
}

func NewDirector(r *rand.Rand) *Director {
	return &Director{rand: r}
}

// SpawnInterval 当前刷新间隔（帧）
func SpawnInterval(bossesDefeated int) int {
	mult := math.Max(minDifficulty, 1-0.1*float64(bossesDefeated))
	return int(baseSpawnInterval * mult)
}

func MaxEnemies(bossesDefeated int) int {
	return baseMaxEnemies + 2*bossesDefeated
}

// Tick 推进计时，返回本帧是否应刷新一个敌人。达到上限时计时照常清零
func (d *Director) Tick(bossesDefeated, active int) bool {
	d.timer++
	if d.timer < SpawnInterval(bossesDefeated) {
		return false
	}
	d.timer = 0
	return active < MaxEnemies(bossesDefeated)
}

// Placement 在玩家前方 400~600 处，随机通用变体
func (d *Director) Placement(playerX float64) (float64, strategy.Kind) {
	x := playerX + 400 + d.rand.Float64()*200
	kind := strategy.GenericKinds[d.rand.Intn(len(strategy.GenericKinds))]
	return x, kind
}

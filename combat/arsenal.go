package combat

import "slices"

const switchCooldown = 10

// Arsenal 玩家持有的武器与攻击/切换冷却
type Arsenal struct {
	catalog  *Catalog
	current  int
	unlocked []int

	attackCooldown int
	switchCooldown int
}

// NewArsenal 初始只解锁第一把武器
func NewArsenal(c *Catalog) *Arsenal {
	return &Arsenal{catalog: c, unlocked: []int{0}}
}

func (a *Arsenal) Current() Weapon { return a.catalog.At(a.current) }

func (a *Arsenal) Unlocked() []int { return slices.Clone(a.unlocked) }

// Unlock 解锁指定编号的武器，重复解锁无副作用
func (a *Arsenal) Unlock(i int) bool {
	if i < 0 || i >= a.catalog.Len() || slices.Contains(a.unlocked, i) {
		return false
	}
	a.unlocked = append(a.unlocked, i)
	slices.Sort(a.unlocked)
	return true
}

// Tick 每帧递减冷却
func (a *Arsenal) Tick() {
	if a.attackCooldown > 0 {
		a.attackCooldown--
	}
	if a.switchCooldown > 0 {
		a.switchCooldown--
	}
}

// TryAttack 冷却就绪时返回当前武器并进入该武器的冷却
func (a *Arsenal) TryAttack() (Weapon, bool) {
	if a.attackCooldown > 0 {
		return Weapon{}, false
	}
	w := a.Current()
	a.attackCooldown = w.Cooldown
	return w, true
}

// Next 切换到下一把已解锁武器
func (a *Arsenal) Next() (Weapon, bool) {
	if a.switchCooldown > 0 {
		return a.Current(), false
	}
	n := a.catalog.Len()
	for i := 1; i <= n; i++ {
		idx := (a.current + i) % n
		if slices.Contains(a.unlocked, idx) {
			a.current = idx
			break
		}
	}
	a.switchCooldown = switchCooldown
	return a.Current(), true
}

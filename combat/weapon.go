// Package combat 结算玩家对敌人/首领的攻击、敌方对玩家的伤害以及击败奖励。
package combat

import (
	"fmt"
	"strings"

	"sidebrawl/config"
)

// Weapon 不可变的武器条目
type Weapon struct {
	Name     string
	Damage   int
	Range    float64
	Cooldown int // 攻击间隔帧数
	Color    uint32
	Effect   string
}

// Catalog 武器目录，按配置顺序编号
type Catalog struct {
	weapons []Weapon
	index   map[string]int
}

func NewCatalog(specs []config.WeaponSpec) (*Catalog, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("combat: empty weapon catalog")
	}
	c := &Catalog{index: make(map[string]int, len(specs))}
	for i, s := range specs {
		key := strings.ToLower(s.Name)
		if _, dup := c.index[key]; dup {
			return nil, fmt.Errorf("combat: duplicate weapon %q", s.Name)
		}
		c.index[key] = i
		c.weapons = append(c.weapons, Weapon(s))
	}
	return c, nil
}

// DefaultCatalog 内置九种武器
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(config.Default().Combat.Weapons)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) Len() int { return len(c.weapons) }

// At 按编号取武器，越界时返回第一把
func (c *Catalog) At(i int) Weapon {
	if i < 0 || i >= len(c.weapons) {
		return c.weapons[0]
	}
	return c.weapons[i]
}

// Lookup 按名称（不区分大小写）查找
func (c *Catalog) Lookup(name string) (Weapon, int, bool) {
	i, ok := c.index[strings.ToLower(name)]
	if !ok {
		return Weapon{}, -1, false
	}
	return c.weapons[i], i, true
}

func (c *Catalog) All() []Weapon {
	out := make([]Weapon, len(c.weapons))
	copy(out, c.weapons)
	return out
}

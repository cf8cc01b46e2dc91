package sim

import (
	"math"

	"sidebrawl/entity"
)

// Input 一帧的玩家操作
type Input struct {
	Move         int // -1 / 0 / 1
	Jump         bool
	Attack       bool
	SwitchWeapon bool
}

// Pilot 玩家操控来源（脚本机器人或回放）
type Pilot interface {
	Control(v View) Input
}

// View 操控者可见的局面
type View struct {
	Tick        int
	Player      *entity.Entity
	Enemies     []*entity.Entity
	WeaponRange float64
	GroundAhead bool
}

// Bot 一路向右推进，敌人进入射程就攻击，遇到缺口或贴身敌人就跳
type Bot struct{}

func (Bot) Control(v View) Input {
	in := Input{Move: 1}
	nearest := math.Inf(1)
	for _, e := range v.Enemies {
		if d := entity.Distance(v.Player.X, v.Player.Y, e); d < nearest {
			nearest = d
		}
	}
	// 攻击原点在身前 40
	if nearest < v.WeaponRange+40 {
		in.Attack = true
		in.Move = 0
	}
	if !v.GroundAhead || nearest < 30 {
		in.Jump = true
	}
	if v.Tick%600 == 0 {
		in.SwitchWeapon = true
	}
	return in
}

// Script 按帧回放固定输入，超出长度后保持静止
type Script []Input

func (s Script) Control(v View) Input {
	if v.Tick-1 < len(s) {
		return s[v.Tick-1]
	}
	return Input{}
}

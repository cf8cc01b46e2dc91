package server

import (
	"fmt"
	"math"
)

// 入站事件
const (
	EvPlayerMove     = "playerMove"
	EvPlayerAttack   = "playerAttack"
	EvCollectPowerup = "collectPowerup"
	EvDamageEnemy    = "damageEnemy"
	EvPlayerDamaged  = "playerDamaged"
	EvLevelComplete  = "levelComplete"
)

// 出站事件
const (
	MsgGameState          = "gameState"
	MsgPlayerJoined       = "playerJoined"
	MsgPlayerMoved        = "playerMoved"
	MsgPlayerAttacked     = "playerAttacked"
	MsgPowerupCollected   = "powerupCollected"
	MsgEnemyDestroyed     = "enemyDestroyed"
	MsgPlayerHealthUpdate = "playerHealthUpdate"
	MsgPlayerLeft         = "playerLeft"
	MsgEnemiesUpdate      = "enemiesUpdate"
	MsgLevelCompleted     = "levelCompleted"
)

// Message 线上信封：{"type": ..., "data": ...}
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// MoveInput playerMove 载荷，原样转发给其他玩家
type MoveInput struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	VX       float64 `json:"vx"`
	VY       float64 `json:"vy"`
	OnGround bool    `json:"onGround"`
	Facing   int     `json:"facing"`
}

// AttackInput playerAttack 载荷
type AttackInput struct {
	Weapon    string  `json:"weapon"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Direction int     `json:"direction"`
}

type PlayerMoved struct {
	ID       string  `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	VX       float64 `json:"vx"`
	VY       float64 `json:"vy"`
	OnGround bool    `json:"onGround"`
	Facing   int     `json:"facing"`
}

type PlayerAttacked struct {
	ID        string  `json:"id"`
	Weapon    string  `json:"weapon"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Direction int     `json:"direction"`
}

type PowerupCollected struct {
	PowerupID string `json:"powerupId"`
	PlayerID  string `json:"playerId"`
	Type      string `json:"type"`
}

type HealthUpdate struct {
	ID     string `json:"id"`
	Health int    `json:"health"`
	Lives  int    `json:"lives"`
}

type EnemyState struct {
	ID        string  `json:"id"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Type      string  `json:"type"`
	Direction int     `json:"direction"`
	Speed     float64 `json:"speed"`
	Health    int     `json:"health"`
}

type PowerupState struct {
	ID        string  `json:"id"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Type      string  `json:"type"`
	Collected bool    `json:"collected"`
}

type LevelInfo struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// GameState 新连接收到的全量状态，You 为接收者自己的会话 ID
type GameState struct {
	Players  map[string]PlayerState `json:"players"`
	Enemies  []EnemyState           `json:"enemies"`
	Powerups []PowerupState         `json:"powerups"`
	Level    LevelInfo              `json:"level"`
	You      string                 `json:"you"`
}

// Event 已解码的入站事件，Payload 类型由 Type 决定
type Event struct {
	Session SessionID
	Type    string
	Payload any
}

// decodeEvent 拆信封并按事件类型解码载荷
func decodeEvent(c Codec, sid SessionID, frame []byte) (Event, error) {
	typ, raw, err := c.split(frame)
	if err != nil {
		return Event{}, err
	}
	ev := Event{Session: sid, Type: typ}
	switch typ {
	case EvPlayerMove:
		var m MoveInput
		err = c.Unmarshal(raw, &m)
		ev.Payload = m
	case EvPlayerAttack:
		var a AttackInput
		err = c.Unmarshal(raw, &a)
		ev.Payload = a
	case EvCollectPowerup, EvDamageEnemy:
		var id string
		err = c.Unmarshal(raw, &id)
		ev.Payload = id
	case EvPlayerDamaged:
		var amount float64
		if err = c.Unmarshal(raw, &amount); err != nil {
			break
		}
		// 非有限或超出 int32 的数值直接拒绝，避免转换结果未定义
		if math.IsNaN(amount) || amount < math.MinInt32 || amount > math.MaxInt32 {
			return Event{}, fmt.Errorf("server: decode %s: amount %v out of range", typ, amount)
		}
		ev.Payload = int(amount)
	case EvLevelComplete:
	default:
		return Event{}, fmt.Errorf("server: unknown event %q", typ)
	}
	if err != nil {
		return Event{}, fmt.Errorf("server: decode %s: %w", typ, err)
	}
	return ev, nil
}

// Package config 负责加载 YAML 配置：服务器参数、世界布局、AI 调参与武器表。
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig 配置校验失败
var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Server ServerConfig `yaml:"server"`
	World  WorldConfig  `yaml:"world"`
	AI     AIConfig     `yaml:"ai"`
	Combat CombatConfig `yaml:"combat"`
}

type ServerConfig struct {
	Addr      string `yaml:"addr"`
	TickHz    int    `yaml:"tick_hz"`
	LogFile   string `yaml:"log_file"`
	LogLevel  string `yaml:"log_level"`
	StaticDir string `yaml:"static_dir"`
	SendQueue int    `yaml:"send_queue"`
	ReadLimit int64  `yaml:"read_limit"`
}

// Point 世界坐标
type Point struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

type WorldConfig struct {
	Width       float64       `yaml:"width"`
	Height      float64       `yaml:"height"`
	Spawn       Point         `yaml:"spawn"`
	StartHealth int           `yaml:"start_health"`
	StartLives  int           `yaml:"start_lives"`
	StartWeapon string        `yaml:"start_weapon"`
	EdgeMargin  float64       `yaml:"edge_margin"`
	PatrolDt    float64       `yaml:"patrol_dt"`
	Enemies     []EnemySpec   `yaml:"enemies"`
	Powerups    []PowerupSpec `yaml:"powerups"`
}

// EnemySpec 服务端巡逻敌人的初始布置
type EnemySpec struct {
	ID        string  `yaml:"id"`
	X         float64 `yaml:"x"`
	Y         float64 `yaml:"y"`
	Type      string  `yaml:"type"`
	Direction int     `yaml:"direction"`
	Speed     float64 `yaml:"speed"`
	Health    int     `yaml:"health"`
}

type PowerupSpec struct {
	ID   string  `yaml:"id"`
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
	Type string  `yaml:"type"`
}

// AIConfig 策略切换与竞技场边界参数
type AIConfig struct {
	SwitchCooldown int     `yaml:"switch_cooldown"`
	RandomAfter    int     `yaml:"random_after"`
	RandomChance   float64 `yaml:"random_chance"`
	ArenaWidth     float64 `yaml:"arena_width"`
	ArenaMargin    float64 `yaml:"arena_margin"`
}

type WeaponSpec struct {
	Name     string  `yaml:"name"`
	Damage   int     `yaml:"damage"`
	Range    float64 `yaml:"range"`
	Cooldown int     `yaml:"cooldown"`
	Color    uint32  `yaml:"color"`
	Effect   string  `yaml:"effect"`
}

type CombatConfig struct {
	Weapons         []WeaponSpec `yaml:"weapons"`
	PlayerHitDamage int          `yaml:"player_hit_damage"`
	BossAfter       int          `yaml:"boss_after"`
	BossReward      int          `yaml:"boss_reward"`
	BossHeal        int          `yaml:"boss_heal"`
}

// Default 返回内置默认配置（与演示关卡一致）
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:      ":3000",
			TickHz:    60,
			LogFile:   "app.log",
			LogLevel:  "debug",
			StaticDir: "web",
			SendQueue: 64,
			ReadLimit: 1 << 20,
		},
		World: WorldConfig{
			Width:       1600,
			Height:      600,
			Spawn:       Point{X: 100, Y: 500},
			StartHealth: 100,
			StartLives:  3,
			StartWeapon: "dagger",
			EdgeMargin:  50,
			PatrolDt:    0.016,
			Enemies: []EnemySpec{
				{ID: "enemy1", X: 300, Y: 500, Type: "blob", Direction: 1, Speed: 20, Health: 1},
				{ID: "enemy2", X: 800, Y: 400, Type: "blob", Direction: -1, Speed: 15, Health: 1},
				{ID: "enemy3", X: 1200, Y: 300, Type: "blob", Direction: 1, Speed: 25, Health: 1},
			},
			Powerups: []PowerupSpec{
				{ID: "powerup1", X: 400, Y: 450, Type: "speed"},
				{ID: "powerup2", X: 700, Y: 350, Type: "shield"},
				{ID: "powerup3", X: 1000, Y: 250, Type: "doublejump"},
			},
		},
		AI: AIConfig{
			SwitchCooldown: 120,
			RandomAfter:    1200,
			RandomChance:   0.05,
			ArenaWidth:     3000,
			ArenaMargin:    100,
		},
		Combat: CombatConfig{
			Weapons: []WeaponSpec{
				{Name: "Sword", Damage: 1, Range: 60, Cooldown: 20, Color: 0x00FF00, Effect: "slash"},
				{Name: "Hammer", Damage: 2, Range: 50, Cooldown: 40, Color: 0x8B4513, Effect: "slam"},
				{Name: "Spear", Damage: 1, Range: 80, Cooldown: 15, Color: 0x4169E1, Effect: "thrust"},
				{Name: "Bow", Damage: 1, Range: 100, Cooldown: 30, Color: 0xFFD700, Effect: "projectile"},
				{Name: "Magic", Damage: 2, Range: 70, Cooldown: 25, Color: 0xFF00FF, Effect: "spell"},
				{Name: "Lightning", Damage: 3, Range: 90, Cooldown: 35, Color: 0xFFFF00, Effect: "lightning"},
				{Name: "Ice Blast", Damage: 2, Range: 60, Cooldown: 20, Color: 0x00FFFF, Effect: "ice"},
				{Name: "Fire Blade", Damage: 2, Range: 70, Cooldown: 15, Color: 0xFF4500, Effect: "fire"},
				{Name: "Shadow Dagger", Damage: 1, Range: 50, Cooldown: 10, Color: 0x4B0082, Effect: "shadow"},
			},
			PlayerHitDamage: 20,
			BossAfter:       5,
			BossReward:      50,
			BossHeal:        30,
		},
	}
}

// Load 读取 YAML 文件并覆盖到默认值之上；path 为空时直接返回默认配置
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: load %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate 校验关键字段，返回包装了 ErrInvalidConfig 的错误
func (c Config) Validate() error {
	switch {
	case c.Server.TickHz <= 0:
		return fmt.Errorf("%w: server.tick_hz must be positive", ErrInvalidConfig)
	case c.World.Width <= 2*c.World.EdgeMargin:
		return fmt.Errorf("%w: world.width must exceed twice world.edge_margin", ErrInvalidConfig)
	case c.World.StartHealth <= 0:
		return fmt.Errorf("%w: world.start_health must be positive", ErrInvalidConfig)
	case c.AI.SwitchCooldown < 0:
		return fmt.Errorf("%w: ai.switch_cooldown must not be negative", ErrInvalidConfig)
	case c.AI.RandomChance < 0 || c.AI.RandomChance > 1:
		return fmt.Errorf("%w: ai.random_chance must be within [0,1]", ErrInvalidConfig)
	case len(c.Combat.Weapons) == 0:
		return fmt.Errorf("%w: combat.weapons must not be empty", ErrInvalidConfig)
	}
	seen := make(map[string]bool, len(c.World.Enemies))
	for _, e := range c.World.Enemies {
		if e.ID == "" || seen[e.ID] {
			return fmt.Errorf("%w: world.enemies has empty or duplicate id %q", ErrInvalidConfig, e.ID)
		}
		seen[e.ID] = true
	}
	return nil
}

// Package sim 客户端本地关卡：把实体、策略引擎、战斗结算与物理串成一个逐帧推进的 Stage。
package sim

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sidebrawl/combat"
	"sidebrawl/config"
	"sidebrawl/entity"
	"sidebrawl/logging"
	"sidebrawl/physics"
	"sidebrawl/strategy"
)

// Gravity 竖直重力加速度（y 轴向下）
const Gravity = 800.0

const (
	playerJump       = -500.0
	playerJumpCD     = 20
	enemyHealth      = 3
	enemySpeed       = 80
	bossHealth       = 15
	bossSpeed        = 60
	bossAhead        = 300
	spawnY           = 500
	cullBehind       = 500
	fallLimit        = 700
	touchRadius      = 24
	enemyW, enemyH   = 24, 32
	bossW, bossH     = 48, 64
	playerW, playerH = 32, 48
)

// Stats 运行汇总
type Stats struct {
	Ticks         int
	Spawned       int
	BossesSpawned int
	Culled        int
	Exploded      int
	Switches      int
	Faults        int
	Effects       int
	PlayerDeaths  int
	LevelComplete bool
}

// Stage 单人本地关卡。非并发安全，由调用方按帧驱动
type Stage struct {
	cfg  config.Config
	rand *rand.Rand
	dt   float64

	world    *physics.World
	engine   *strategy.Engine
	resolver *combat.Resolver
	ledger   *combat.Ledger
	vitals   *combat.Vitals
	arsenal  *combat.Arsenal
	director *Director
	pilot    Pilot

	player  *entity.Entity
	targets map[string]*combat.Target
	order   []string
	boss    *combat.Target

	stats Stats
	log   *zap.SugaredLogger
}

// NewStage 按配置搭建关卡；pilot 为 nil 时使用 Bot
func NewStage(cfg config.Config, seed int64, pilot Pilot) (*Stage, error) {
	catalog, err := combat.NewCatalog(cfg.Combat.Weapons)
	if err != nil {
		return nil, err
	}
	if pilot == nil {
		pilot = Bot{}
	}
	r := rand.New(rand.NewSource(seed))
	s := &Stage{
		cfg:      cfg,
		rand:     r,
		dt:       1 / float64(cfg.Server.TickHz),
		world:    physics.NewWorld(physics.DemoLevel(), Gravity),
		resolver: combat.NewResolver(),
		ledger:   combat.NewLedger(cfg.Combat),
		arsenal:  combat.NewArsenal(catalog),
		director: NewDirector(r),
		pilot:    pilot,
		targets:  make(map[string]*combat.Target),
		log:      logging.Named("sim"),
	}

	spawn := cfg.World.Spawn
	s.player = entity.New("player", entity.RolePlayer, spawn.X, spawn.Y, cfg.World.StartHealth, 200)
	s.world.Attach(s.player, playerW, playerH)
	s.vitals = combat.NewVitals(s.player, spawn.X, spawn.Y, cfg.Combat.PlayerHitDamage)

	s.engine = strategy.NewEngine(s.player, strategy.Options{
		Terrain: s.world,
		Arena:   strategy.Arena{Width: cfg.AI.ArenaWidth, Margin: cfg.AI.ArenaMargin},
		Policy: strategy.Policy{
			SwitchCooldown: cfg.AI.SwitchCooldown,
			RandomAfter:    cfg.AI.RandomAfter,
			RandomChance:   cfg.AI.RandomChance,
		},
		Rand: r,
		Sink: s,
	})
	s.engine.OnSwitch(func(a *strategy.Agent, from, to strategy.Kind) {
		s.stats.Switches++
		if t, ok := s.targets[a.Entity.ID]; ok {
			t.Kind = to
		}
		s.log.Debugw("strategy switch", "id", a.Entity.ID, "from", from.String(), "to", to.String(), "tick", a.Tick())
	})
	return s, nil
}

// Spawn 实现 strategy.EffectSink；本地模拟只计数
func (s *Stage) Spawn(fx strategy.Effect) { s.stats.Effects++ }

func (s *Stage) Player() *entity.Entity { return s.player }

func (s *Stage) Ledger() *combat.Ledger { return s.ledger }

func (s *Stage) Arsenal() *combat.Arsenal { return s.arsenal }

func (s *Stage) Stats() Stats { return s.stats }

func (s *Stage) Boss() *entity.Entity {
	if s.boss == nil {
		return nil
	}
	return s.boss.Entity
}

// Enemies 当前存活的敌人与首领，按出现顺序
func (s *Stage) Enemies() []*entity.Entity {
	out := make([]*entity.Entity, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.targets[id].Entity)
	}
	return out
}

// SpawnEnemy 在指定位置放置一个敌人
func (s *Stage) SpawnEnemy(x, y float64, kind strategy.Kind) *entity.Entity {
	e := entity.New(uuid.NewString(), entity.RoleEnemy, x, y, enemyHealth, enemySpeed)
	s.add(e, kind, enemyW, enemyH)
	s.stats.Spawned++
	return e
}

// SpawnBoss 在玩家前方放置首领；已有首领时返回 nil
func (s *Stage) SpawnBoss() *entity.Entity {
	if s.boss != nil {
		return nil
	}
	e := entity.New(uuid.NewString(), entity.RoleBoss, s.player.X+bossAhead, spawnY, bossHealth, bossSpeed)
	s.boss = s.add(e, strategy.Boss, bossW, bossH)
	s.stats.BossesSpawned++
	s.log.Infow("boss spawned", "id", e.ID, "x", e.X)
	return e
}

func (s *Stage) add(e *entity.Entity, kind strategy.Kind, w, h float64) *combat.Target {
	s.world.Attach(e, w, h)
	s.engine.Spawn(e, kind)
	t := combat.NewTarget(e, kind)
	s.targets[e.ID] = t
	s.order = append(s.order, e.ID)
	return t
}

// remove 从所有子系统摘除实体
func (s *Stage) remove(e *entity.Entity) {
	s.engine.Remove(e.ID)
	s.world.Detach(e)
	e.Remove()
	delete(s.targets, e.ID)
	for i, id := range s.order {
		if id == e.ID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if s.boss != nil && s.boss.Entity == e {
		s.boss = nil
	}
}

// Step 推进一帧：玩家操作 -> 敌方决策 -> 接触伤害 -> 物理 -> 刷新与清理
func (s *Stage) Step() {
	s.stats.Ticks++
	s.playerTurn()
	s.enemyTurn()
	s.contact()
	s.world.Step(s.dt)
	s.housekeeping()
}

func (s *Stage) playerTurn() {
	p := s.player
	p.TickCooldowns()
	s.arsenal.Tick()

	in := s.pilot.Control(View{
		Tick:        s.stats.Ticks,
		Player:      p,
		Enemies:     s.Enemies(),
		WeaponRange: s.arsenal.Current().Range,
		GroundAhead: s.world.IsGroundAhead(p, p.Facing, 60),
	})

	vy := p.VY
	if in.Jump && p.JumpCooldown <= 0 && p.TouchingGround() {
		vy = playerJump
		p.SetJumpCooldown(playerJumpCD)
	}
	p.SetVelocity(float64(in.Move)*p.Speed, vy)

	if in.SwitchWeapon {
		s.arsenal.Next()
	}
	if !in.Attack {
		return
	}
	w, ok := s.arsenal.TryAttack()
	if !ok {
		return
	}
	candidates := make([]*combat.Target, 0, len(s.order))
	for _, id := range s.order {
		candidates = append(candidates, s.targets[id])
	}
	res := s.resolver.ResolveAttack(combat.AttackFrom(p), w, candidates)
	s.stats.Effects += len(res.Effects)
	for _, r := range s.ledger.SettleAll(res.Defeats, p) {
		// 每击败一个首领解锁下一把武器
		if r.Boss && s.arsenal.Unlock(len(s.arsenal.Unlocked())) {
			s.log.Infow("weapon unlocked", "unlocked", s.arsenal.Unlocked())
		}
	}
	for _, t := range res.Defeats {
		s.remove(t.Entity)
	}
}

func (s *Stage) enemyTurn() {
	res := s.engine.Step()
	for _, d := range res.Decisions {
		self := d.Agent.Entity
		if d.Agent.Kind() == strategy.Boss && d.Intent.Tint != 0 {
			s.log.Infow("boss phase", "id", self.ID, "health", self.Health, "tint", d.Intent.Tint)
		}
		if d.Intent.Attack != nil {
			s.hurtPlayer(s.vitals.Absorb(d.Intent.Attack))
		}
		if d.Intent.SelfDestruct {
			s.stats.Exploded++
			s.remove(self)
		}
	}
	for _, f := range res.Faults {
		s.stats.Faults++
		if t, ok := s.targets[f.EntityID]; ok {
			s.remove(t.Entity)
		}
	}
}

func (s *Stage) contact() {
	for _, e := range s.Enemies() {
		s.hurtPlayer(s.vitals.Contact(e, touchRadius))
	}
}

func (s *Stage) hurtPlayer(dealt int, respawned bool) {
	if !respawned {
		return
	}
	s.stats.PlayerDeaths++
	s.world.Teleport(s.player, s.vitals.SpawnX, s.vitals.SpawnY)
	s.log.Infow("player respawned", "deaths", s.vitals.Deaths, "last_hit", dealt)
}

func (s *Stage) housekeeping() {
	p := s.player
	if p.Y > fallLimit {
		s.world.Teleport(p, s.vitals.SpawnX, s.vitals.SpawnY)
	}
	for _, e := range s.Enemies() {
		if e.X < p.X-cullBehind || e.Y > fallLimit {
			s.stats.Culled++
			s.remove(e)
		}
	}

	bosses := s.ledger.BossesDefeated
	if s.director.Tick(bosses, len(s.order)) {
		x, kind := s.director.Placement(p.X)
		s.SpawnEnemy(x, spawnY, kind)
	}
	if s.ledger.BossDue() && s.boss == nil {
		s.SpawnBoss()
	}
	if !s.stats.LevelComplete && s.world.AtGoal(p) {
		s.stats.LevelComplete = true
		s.log.Infow("level complete", "tick", s.stats.Ticks, "coins", s.ledger.Coins)
	}
}

// Run 推进 ticks 帧
func (s *Stage) Run(ticks int) Stats {
	start := time.Now()
	for i := 0; i < ticks; i++ {
		s.Step()
	}
	s.log.Infow("run finished", "ticks", ticks, "elapsed", time.Since(start), "coins", s.ledger.Coins)
	return s.stats
}

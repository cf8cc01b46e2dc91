// simulate 离线跑一段单人关卡（Bot 操控），输出运行汇总，用于调参和回归
package main

import (
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"sidebrawl/combat"
	"sidebrawl/config"
	"sidebrawl/logging"
	"sidebrawl/sim"
)

type report struct {
	Seed            int64     `yaml:"seed"`
	Stats           sim.Stats `yaml:"stats"`
	Coins           int       `yaml:"coins"`
	TotalDefeated   int       `yaml:"total_defeated"`
	BossesDefeated  int       `yaml:"bosses_defeated"`
	PlayerHealth    int       `yaml:"player_health"`
	PlayerX         float64   `yaml:"player_x"`
	UnlockedWeapons []string  `yaml:"unlocked_weapons"`
}

func main() {
	var (
		ticks   int
		seed    int64
		cfgPath string
		logFile string
	)
	flag.IntVar(&ticks, "ticks", 3600, "number of ticks to simulate (60 per second)")
	flag.Int64Var(&seed, "seed", 1, "random seed")
	flag.StringVar(&cfgPath, "config", "", "path to YAML config; empty uses built-in defaults")
	flag.StringVar(&logFile, "log", "", "optional log file; empty disables logging")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if logFile != "" {
		if err := logging.InitLogger(logFile, cfg.Server.LogLevel); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer logging.SyncLogger()
	}

	st, err := sim.NewStage(cfg, seed, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	stats := st.Run(ticks)

	l := st.Ledger()
	rep := report{
		Seed:           seed,
		Stats:          stats,
		Coins:          l.Coins,
		TotalDefeated:  l.TotalDefeated,
		BossesDefeated: l.BossesDefeated,
		PlayerHealth:   st.Player().Health,
		PlayerX:        st.Player().X,
	}
	catalog, err := combat.NewCatalog(cfg.Combat.Weapons)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	for _, i := range st.Arsenal().Unlocked() {
		rep.UnlockedWeapons = append(rep.UnlockedWeapons, catalog.At(i).Name)
	}
	out, err := yaml.Marshal(rep)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Stdout.Write(out)
}

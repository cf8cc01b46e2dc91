package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Len(t, cfg.Combat.Weapons, 9)
	assert.Equal(t, 120, cfg.AI.SwitchCooldown)
}

func TestLoadOverlaysFileOnDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "game.yaml")
	body := `
server:
  addr: ":9000"
world:
  width: 2000
  enemies:
    - id: grunt
      x: 500
      y: 500
      direction: -1
      speed: 30
      health: 2
ai:
  random_chance: 0.1
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, 60, cfg.Server.TickHz)
	assert.Equal(t, 2000.0, cfg.World.Width)
	require.Len(t, cfg.World.Enemies, 1)
	assert.Equal(t, "grunt", cfg.World.Enemies[0].ID)
	assert.Equal(t, 2, cfg.World.Enemies[0].Health)
	assert.Equal(t, 0.1, cfg.AI.RandomChance)
	assert.Len(t, cfg.World.Powerups, 3)
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ai:\n  random_chance: 2\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalidConfig))
}

func TestValidateDuplicateEnemyID(t *testing.T) {
	cfg := Default()
	cfg.World.Enemies = append(cfg.World.Enemies, EnemySpec{ID: "enemy1"})
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
}

func TestWatcherDeliversReloadedConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "game.yaml")
	require.NoError(t, os.WriteFile(path, []byte("world:\n  edge_margin: 40\n"), 0o644))

	w, err := NewWatcher(path)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("world:\n  edge_margin: 70\n"), 0o644))

	select {
	case cfg := <-w.Updates:
		assert.Equal(t, 70.0, cfg.World.EdgeMargin)
	case <-time.After(3 * time.Second):
		t.Fatal("no config update delivered")
	}
}

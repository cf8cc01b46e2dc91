package server

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sidebrawl/config"
)

type fakeSender struct {
	msgs   []Message
	closed bool
	full   bool
}

func (f *fakeSender) Send(msg Message) bool {
	if f.closed || f.full {
		return false
	}
	f.msgs = append(f.msgs, msg)
	return true
}

func (f *fakeSender) Close() { f.closed = true }

func (f *fakeSender) ofType(typ string) []Message {
	var out []Message
	for _, m := range f.msgs {
		if m.Type == typ {
			out = append(out, m)
		}
	}
	return out
}

func (f *fakeSender) reset() { f.msgs = nil }

func newTestRoom(t *testing.T) *Room {
	t.Helper()
	return NewRoom("test", config.Default())
}

func TestRoom_JoinSendsStateAndAnnounces(t *testing.T) {
	r := newTestRoom(t)
	a, b := &fakeSender{}, &fakeSender{}
	r.join("a", a)
	r.join("b", b)

	states := b.ofType(MsgGameState)
	require.Len(t, states, 1)
	gs := states[0].Data.(GameState)
	assert.Equal(t, "b", gs.You)
	assert.Len(t, gs.Players, 2)
	assert.Len(t, gs.Enemies, 3)
	assert.Len(t, gs.Powerups, 3)
	assert.Equal(t, 1600.0, gs.Level.Width)

	p := gs.Players["b"]
	assert.Equal(t, 100.0, p.X)
	assert.Equal(t, 500.0, p.Y)
	assert.Equal(t, 100, p.Health)
	assert.Equal(t, 3, p.Lives)
	assert.Equal(t, "dagger", p.Weapon)

	joined := a.ofType(MsgPlayerJoined)
	require.Len(t, joined, 1)
	assert.Equal(t, "b", joined[0].Data.(PlayerState).ID)
	assert.Empty(t, b.ofType(MsgPlayerJoined))
}

func TestRoom_MoveRelayedToOthersOnly(t *testing.T) {
	r := newTestRoom(t)
	a, b := &fakeSender{}, &fakeSender{}
	r.join("a", a)
	r.join("b", b)
	a.reset()
	b.reset()

	r.handle(Event{Session: "a", Type: EvPlayerMove, Payload: MoveInput{X: 10, Y: 20, VX: 1, Facing: -1}})
	r.handle(Event{Session: "b", Type: EvPlayerMove, Payload: MoveInput{X: 30, Y: 40, OnGround: true, Facing: 1}})

	require.Len(t, a.ofType(MsgPlayerMoved), 1)
	require.Len(t, b.ofType(MsgPlayerMoved), 1)
	assert.Equal(t, "b", a.ofType(MsgPlayerMoved)[0].Data.(PlayerMoved).ID)
	assert.Equal(t, "a", b.ofType(MsgPlayerMoved)[0].Data.(PlayerMoved).ID)
	assert.Equal(t, 10.0, r.sessions["a"].State.X)
	assert.Equal(t, -1, r.sessions["a"].State.Facing)
	assert.True(t, r.sessions["b"].State.OnGround)
}

func TestRoom_AttackRelayed(t *testing.T) {
	r := newTestRoom(t)
	a, b := &fakeSender{}, &fakeSender{}
	r.join("a", a)
	r.join("b", b)
	a.reset()

	r.handle(Event{Session: "b", Type: EvPlayerAttack, Payload: AttackInput{Weapon: "Sword", X: 5, Direction: -1}})
	got := a.ofType(MsgPlayerAttacked)
	require.Len(t, got, 1)
	assert.Equal(t, PlayerAttacked{ID: "b", Weapon: "Sword", X: 5, Direction: -1}, got[0].Data)
	assert.Empty(t, b.ofType(MsgPlayerAttacked))
}

func TestRoom_CollectPowerupIsIdempotent(t *testing.T) {
	r := newTestRoom(t)
	a, b := &fakeSender{}, &fakeSender{}
	r.join("a", a)
	r.join("b", b)
	a.reset()
	b.reset()

	ev := Event{Session: "a", Type: EvCollectPowerup, Payload: "powerup2"}
	r.handle(ev)
	r.handle(ev)
	r.handle(Event{Session: "b", Type: EvCollectPowerup, Payload: "powerup2"})
	r.handle(Event{Session: "b", Type: EvCollectPowerup, Payload: "nope"})

	for _, s := range []*fakeSender{a, b} {
		got := s.ofType(MsgPowerupCollected)
		require.Len(t, got, 1)
		assert.Equal(t, PowerupCollected{PowerupID: "powerup2", PlayerID: "a", Type: "shield"}, got[0].Data)
	}
	assert.Equal(t, []string{"shield"}, r.sessions["a"].State.Powerups)
	assert.Empty(t, r.sessions["b"].State.Powerups)
}

func TestRoom_DamageAndRespawn(t *testing.T) {
	r := newTestRoom(t)
	a := &fakeSender{}
	r.join("a", a)
	r.handle(Event{Session: "a", Type: EvPlayerMove, Payload: MoveInput{X: 900, Y: 300}})
	a.reset()

	r.handle(Event{Session: "a", Type: EvPlayerDamaged, Payload: 60})
	r.handle(Event{Session: "a", Type: EvPlayerDamaged, Payload: 0})
	r.handle(Event{Session: "a", Type: EvPlayerDamaged, Payload: 40})

	got := a.ofType(MsgPlayerHealthUpdate)
	require.Len(t, got, 2)
	assert.Equal(t, HealthUpdate{ID: "a", Health: 40, Lives: 3}, got[0].Data)
	assert.Equal(t, HealthUpdate{ID: "a", Health: 100, Lives: 2}, got[1].Data)
	st := r.sessions["a"].State
	assert.Equal(t, 100.0, st.X)
	assert.Equal(t, 500.0, st.Y)
}

func TestRoom_DamageEnemyRemovesAndBroadcasts(t *testing.T) {
	r := newTestRoom(t)
	a, b := &fakeSender{}, &fakeSender{}
	r.join("a", a)
	r.join("b", b)
	a.reset()
	b.reset()

	r.handle(Event{Session: "a", Type: EvDamageEnemy, Payload: "enemy2"})
	r.handle(Event{Session: "a", Type: EvDamageEnemy, Payload: "enemy2"})

	for _, s := range []*fakeSender{a, b} {
		got := s.ofType(MsgEnemyDestroyed)
		require.Len(t, got, 1)
		assert.Equal(t, "enemy2", got[0].Data)
	}
	assert.Len(t, r.enemies, 2)
}

func TestRoom_LevelComplete(t *testing.T) {
	r := newTestRoom(t)
	a, b := &fakeSender{}, &fakeSender{}
	r.join("a", a)
	r.join("b", b)

	r.handle(Event{Session: "b", Type: EvLevelComplete})
	for _, s := range []*fakeSender{a, b} {
		got := s.ofType(MsgLevelCompleted)
		require.Len(t, got, 1)
		assert.Equal(t, "b", got[0].Data)
	}
}

func TestRoom_UnknownSessionDropped(t *testing.T) {
	r := newTestRoom(t)
	a := &fakeSender{}
	r.join("a", a)
	a.reset()

	r.handle(Event{Session: "ghost", Type: EvPlayerDamaged, Payload: 50})
	r.handle(Event{Session: "ghost", Type: EvCollectPowerup, Payload: "powerup1"})
	assert.Empty(t, a.msgs)
	assert.Equal(t, int64(2), r.metrics.UnknownSession)
	assert.False(t, r.powerups[0].Collected)
}

func TestRoom_LeaveStopsDelivery(t *testing.T) {
	r := newTestRoom(t)
	a, b := &fakeSender{}, &fakeSender{}
	r.join("a", a)
	r.join("b", b)
	a.reset()

	r.leave("b")
	assert.True(t, b.closed)
	left := a.ofType(MsgPlayerLeft)
	require.Len(t, left, 1)
	assert.Equal(t, "b", left[0].Data)

	sent := len(b.msgs)
	assert.NotPanics(t, func() {
		r.step()
		r.step()
		r.leave("b")
	})
	assert.Len(t, b.msgs, sent)
	assert.Len(t, a.ofType(MsgEnemiesUpdate), 2)
	assert.Zero(t, r.metrics.SendDropped)
}

func TestRoom_PatrolStepReversesAtEdges(t *testing.T) {
	r := newTestRoom(t)
	r.enemies = []*EnemyState{
		{ID: "l", X: 50.1, Direction: -1, Speed: 20},
		{ID: "r", X: 1549.9, Direction: 1, Speed: 20},
		{ID: "m", X: 800, Direction: 1, Speed: 25},
	}

	r.step()
	assert.InDelta(t, 50.1-0.32, r.enemies[0].X, 1e-9)
	assert.Equal(t, 1, r.enemies[0].Direction)
	assert.Equal(t, -1, r.enemies[1].Direction)
	assert.InDelta(t, 800.4, r.enemies[2].X, 1e-9)
	assert.Equal(t, 1, r.enemies[2].Direction)

	r.step()
	assert.Greater(t, r.enemies[0].X, 49.78)
	assert.Equal(t, 1, r.enemies[0].Direction)
	assert.Equal(t, int64(2), r.TickSeq())
}

func TestRoom_StepBroadcastsEveryTick(t *testing.T) {
	r := newTestRoom(t)
	a := &fakeSender{}
	r.join("a", a)
	a.reset()

	r.setKnobs(Knobs{PatrolDt: 0, EdgeMargin: 50, EnemySpeedScale: 1})
	r.step()
	r.step()
	got := a.ofType(MsgEnemiesUpdate)
	require.Len(t, got, 2)
	assert.Equal(t, got[0].Data, got[1].Data)
}

func TestRoom_SendQueueFullCounted(t *testing.T) {
	r := newTestRoom(t)
	a := &fakeSender{full: true}
	r.join("a", a)
	r.step()
	assert.Equal(t, int64(2), r.metrics.SendDropped)
}

func TestRoom_EventsQueuedAfterJoinAreNotDropped(t *testing.T) {
	for i := 0; i < 50; i++ {
		r := newTestRoom(t)
		peer, me := &fakeSender{}, &fakeSender{}
		r.join("peer", peer)
		peer.reset()

		require.True(t, r.Join("me", me))
		r.Dispatch(Event{Session: "me", Type: EvPlayerMove, Payload: MoveInput{X: 120, Y: 480, Facing: 1}})
		r.Dispatch(Event{Session: "me", Type: EvCollectPowerup, Payload: "powerup1"})

		ctx, cancel := context.WithCancel(context.Background())
		r.Start(ctx)
		require.Eventually(t, func() bool {
			return atomic.LoadInt64(&r.metrics.EventsHandled)+atomic.LoadInt64(&r.metrics.UnknownSession) == 2
		}, 2*time.Second, time.Millisecond)
		cancel()
		<-r.Done()

		assert.Zero(t, r.metrics.UnknownSession, "trial %d", i)
		require.Len(t, peer.ofType(MsgPlayerMoved), 1, "trial %d", i)
		assert.Equal(t, "me", peer.ofType(MsgPlayerMoved)[0].Data.(PlayerMoved).ID)
		assert.Len(t, peer.ofType(MsgPowerupCollected), 1, "trial %d", i)
	}
}

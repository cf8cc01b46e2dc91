package server

import (
	"context"
	"sync"

	"sidebrawl/config"
	"sidebrawl/logging"
)

// RoomManager 管理多个房间的生命周期
type RoomManager struct {
	ctx context.Context

	mu    sync.RWMutex
	cfg   config.Config
	rooms map[string]*Room
}

// NewRoomManager ctx 取消时所有房间停止
func NewRoomManager(ctx context.Context, cfg config.Config) *RoomManager {
	return &RoomManager{ctx: ctx, cfg: cfg, rooms: make(map[string]*Room)}
}

func (m *RoomManager) Config() config.Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg
}

// GetOrCreateRoom 获取或创建房间，并确保开始 Tick
func (m *RoomManager) GetOrCreateRoom(id string) *Room {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[id]
	if !ok {
		r = NewRoom(id, m.cfg)
		m.rooms[id] = r
		r.Start(m.ctx)
	}
	return r
}

// Lookup 只查询，不创建
func (m *RoomManager) Lookup(id string) (*Room, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rooms[id]
	return r, ok
}

// Apply 替换新房间使用的配置，并把可热更新参数推送给已有房间
func (m *RoomManager) Apply(cfg config.Config) {
	m.mu.Lock()
	m.cfg = cfg
	rooms := make([]*Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		rooms = append(rooms, r)
	}
	m.mu.Unlock()

	k := KnobsFrom(cfg)
	for _, r := range rooms {
		// 保留管理接口设置的速度倍率
		k.EnemySpeedScale = r.Knobs().EnemySpeedScale
		r.SetKnobs(k)
	}
	logging.Log.Infof("config applied: rooms=%d patrolDt=%.3f edgeMargin=%.1f", len(rooms), k.PatrolDt, k.EdgeMargin)
}

// Wait 等待所有房间循环退出（ctx 取消之后）
func (m *RoomManager) Wait() {
	m.mu.RLock()
	rooms := make([]*Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		rooms = append(rooms, r)
	}
	m.mu.RUnlock()
	for _, r := range rooms {
		<-r.Done()
	}
}

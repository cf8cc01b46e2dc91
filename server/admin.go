package server

import (
	"encoding/json"
	"net/http"

	"sidebrawl/logging"
)

// HandleAdminConfig 提供房间参数的读取与更新（热更新巡逻规则）
// GET /admin/config?room=room-1  返回当前参数
// POST /admin/config?room=room-1 以 JSON 载荷更新部分字段
func (m *RoomManager) HandleAdminConfig(w http.ResponseWriter, r *http.Request) {
	roomID := roomParam(r)
	room := m.GetOrCreateRoom(roomID)

	type patch struct {
		PatrolDt        *float64 `json:"patrolDt,omitempty"`
		EdgeMargin      *float64 `json:"edgeMargin,omitempty"`
		EnemySpeedScale *float64 `json:"enemySpeedScale,omitempty"`
	}

	switch r.Method {
	case http.MethodGet:
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(room.Knobs())
	case http.MethodPost:
		var body patch
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		k := room.Knobs()
		if body.PatrolDt != nil {
			k.PatrolDt = *body.PatrolDt
		}
		if body.EdgeMargin != nil {
			k.EdgeMargin = *body.EdgeMargin
		}
		if body.EnemySpeedScale != nil {
			k.EnemySpeedScale = *body.EnemySpeedScale
		}
		if k.PatrolDt < 0 || k.EdgeMargin < 0 || k.EnemySpeedScale < 0 {
			http.Error(w, "values must not be negative", http.StatusBadRequest)
			return
		}
		room.SetKnobs(k)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "knobs": k})
		logging.Log.Infof("admin config: room=%s patrolDt=%.3f edgeMargin=%.1f speedScale=%.2f",
			roomID, k.PatrolDt, k.EdgeMargin, k.EnemySpeedScale)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleMetrics 输出指定房间的运行指标
// GET /metrics?room=room-1
func (m *RoomManager) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	roomID := roomParam(r)
	room, ok := m.Lookup(roomID)
	if !ok {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}
	payload := map[string]any{
		"room":    roomID,
		"tick":    room.TickSeq(),
		"metrics": room.Metrics().Snapshot(),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

// HandleHealthz 存活探针
func HandleHealthz(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte("ok"))
}

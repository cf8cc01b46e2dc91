package server

// SessionID 连接级唯一标识（uuid）
type SessionID string

// PlayerState 会话持有的权威玩家记录，同时也是广播给客户端的结构
type PlayerState struct {
	ID       string   `json:"id"`
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	VX       float64  `json:"vx"`
	VY       float64  `json:"vy"`
	OnGround bool     `json:"onGround"`
	Health   int      `json:"health"`
	Lives    int      `json:"lives"`
	Weapon   string   `json:"weapon"`
	Powerups []string `json:"powerups"`
	Facing   int      `json:"facing"`
}

// Sender 会话的出站端。Send 不阻塞，队列满时返回 false
type Sender interface {
	Send(msg Message) bool
	Close()
}

// Session 房间内的一个连接（服务端权威状态）
type Session struct {
	ID    SessionID
	State PlayerState
	out   Sender
}

// snapshot 拷贝状态，避免广播出去的值被后续事件修改
func (s *Session) snapshot() PlayerState {
	st := s.State
	st.Powerups = append([]string(nil), s.State.Powerups...)
	return st
}

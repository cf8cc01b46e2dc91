package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"sidebrawl/logging"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait / 2
)

// ClientConn 负责发送（写）数据到客户端的轻量包装
type ClientConn struct {
	ws    *websocket.Conn
	codec Codec
	send  chan Message

	closeOnce sync.Once
	closed    chan struct{}
}

func NewClientConn(ws *websocket.Conn, codec Codec, queue int) *ClientConn {
	if queue <= 0 {
		queue = 64
	}
	return &ClientConn{
		ws:     ws,
		codec:  codec,
		send:   make(chan Message, queue),
		closed: make(chan struct{}),
	}
}

// Send 将要发送的消息压入队列（非阻塞，满则丢弃）。只由房间协程调用
func (c *ClientConn) Send(msg Message) bool {
	select {
	case <-c.closed:
		return false
	default:
	}
	select {
	case c.send <- msg:
		return true
	default:
		// 为了实时性，丢弃（防止阻塞 Tick）
		return false
	}
}

// Close 结束写协程并关闭底层连接，可重复调用
func (c *ClientConn) Close() {
	c.closeOnce.Do(func() {
		close(c.closed)
	})
}

// writePump 独立协程，负责从 send 队列编码并写出到 WS
func (c *ClientConn) writePump() {
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ping.Stop()
		_ = c.ws.Close()
	}()
	for {
		select {
		case <-c.closed:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case msg := <-c.send:
			frame, err := c.codec.Marshal(msg)
			if err != nil {
				logging.Log.Errorf("encode %s: %v", msg.Type, err)
				continue
			}
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(c.codec.FrameType(), frame); err != nil {
				return
			}
		case <-ping.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump 读取客户端事件并注入房间；退出时通知房间移除该会话
func (c *ClientConn) readPump(room *Room, id SessionID, readLimit int64) {
	defer c.ws.Close()
	defer room.Leave(id)
	if readLimit > 0 {
		c.ws.SetReadLimit(readLimit)
	}
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error { return c.ws.SetReadDeadline(time.Now().Add(pongWait)) })

	for {
		_, frame, err := c.ws.ReadMessage()
		if err != nil {
			return
		}
		ev, err := decodeEvent(c.codec, id, frame)
		if err != nil {
			room.metrics.IncMalformed()
			logging.Log.Debugf("malformed frame: room=%s id=%s err=%v", room.ID, id, err)
			continue
		}
		room.Dispatch(ev)
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// 演示环境：允许所有来源（生产环境需严格限制）
		return true
	},
}

// HandleWS WebSocket 接入：?room=room-1&codec=msgpack
func (m *RoomManager) HandleWS(w http.ResponseWriter, r *http.Request) {
	roomID := roomParam(r)
	codec := CodecByName(r.URL.Query().Get("codec"))

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Log.Warnf("upgrade error: %v", err)
		return
	}

	room := m.GetOrCreateRoom(roomID)
	cfg := m.Config().Server
	client := NewClientConn(ws, codec, cfg.SendQueue)
	id := SessionID(uuid.NewString())

	go client.writePump()
	if !room.Join(id, client) {
		client.Close()
		return
	}
	go client.readPump(room, id, cfg.ReadLimit)
}

func roomParam(r *http.Request) string {
	if id := r.URL.Query().Get("room"); id != "" {
		return id
	}
	return "room-1"
}

package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"MePlay/core/player"
	"MePlay/logger"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

// MessageType 消息类型
type MessageType string

const (
	MsgTypeSnapshot MessageType = "snapshot" // 播放状态
	MsgTypePing     MessageType = "ping"     // 心跳
	MsgTypePong     MessageType = "pong"     // 心跳响应
)

// WSMessage WebSocket 消息结构
type WSMessage struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

const (
	sendBufferSize = 16
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
)

// wsClient is one connected listener.
type wsClient struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub fans session snapshots out to websocket listeners. New listeners get
// the latest snapshot right away.
type Hub struct {
	clients map[*wsClient]bool
	last    []byte

	register   chan *wsClient
	unregister chan *wsClient
	broadcast  chan []byte

	mu       sync.RWMutex
	done     chan struct{}
	stopOnce sync.Once
	upgrader websocket.Upgrader
}

// NewHub 创建 Hub, 需要调用 Run 启动
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*wsClient]bool),
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Run 启动 Hub 主循环
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			last := h.last
			h.mu.Unlock()
			if last != nil {
				c.send <- last
			}
			logger.Debug("now-playing listener connected", logger.Int("listeners", h.ClientCount()))

		case c := <-h.unregister:
			h.removeClient(c)

		case msg := <-h.broadcast:
			h.mu.Lock()
			h.last = msg
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					// 发送缓冲区满, 移除客户端
					delete(h.clients, c)
					close(c.send)
				}
			}
			h.mu.Unlock()

		case <-h.done:
			h.mu.Lock()
			for c := range h.clients {
				close(c.send)
			}
			h.clients = make(map[*wsClient]bool)
			h.mu.Unlock()
			return
		}
	}
}

// Stop 停止 Hub
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

func (h *Hub) removeClient(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// ClientCount returns the number of connected listeners.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast queues s for every listener. It never blocks; it has the
// signature of a player.Observer so it can be passed to Engine.Subscribe.
func (h *Hub) Broadcast(s player.Snapshot) {
	data, err := json.Marshal(s)
	if err != nil {
		logger.Warn("failed to encode snapshot", logger.ErrorField(err))
		return
	}
	msg, err := json.Marshal(WSMessage{Type: MsgTypeSnapshot, Data: data, Timestamp: time.Now().UnixMilli()})
	if err != nil {
		return
	}
	select {
	case h.broadcast <- msg:
	case <-h.done:
	default:
		logger.Warn("now-playing broadcast dropped")
	}
}

// ServeWS upgrades the request and registers the connection.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("websocket upgrade failed", logger.ErrorField(err))
		return
	}
	c := &wsClient{hub: h, conn: conn, send: make(chan []byte, sendBufferSize)}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}
	go c.writePump()
	go c.readPump()
}

// NewNowPlayingRouter exposes the hub at /ws/nowplaying.
func NewNowPlayingRouter(h *Hub) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/ws/nowplaying", h.ServeWS).Methods(http.MethodGet)
	return router
}

// readPump only answers pings; listeners cannot control playback.
func (c *wsClient) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(4096) // 4KB
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("websocket read error", logger.ErrorField(err))
			}
			return
		}

		var msg WSMessage
		if err := json.Unmarshal(message, &msg); err != nil || msg.Type != MsgTypePing {
			continue
		}
		pong, _ := json.Marshal(WSMessage{Type: MsgTypePong, Timestamp: time.Now().UnixMilli()})
		c.hub.mu.RLock()
		if c.hub.clients[c] {
			select {
			case c.send <- pong:
			default:
			}
		}
		c.hub.mu.RUnlock()
	}
}

// writePump 写入消息循环
func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub 关闭了通道
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

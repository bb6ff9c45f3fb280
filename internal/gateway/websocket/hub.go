// Package websocket 维护请求发布者的在线连接，并推送其请求的状态变化
package websocket

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"carematch_server/internal/dto/event"
	"carematch_server/internal/infrastructure/metrics"
	"carematch_server/pkg/constants"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Hub 按用户 ID 管理连接，同一用户可以有多个连接
type Hub struct {
	mu       sync.RWMutex
	clients  map[uint]map[*Client]struct{}
	upgrader websocket.Upgrader

	anyOrigin bool
	origins   map[string]struct{}
}

// NewHub 创建 Hub
// allowedOrigins 与 CORS 配置一致，包含 "*" 时不检查来源
func NewHub(allowedOrigins []string) *Hub {
	h := &Hub{
		clients: make(map[uint]map[*Client]struct{}),
		origins: make(map[string]struct{}, len(allowedOrigins)),
	}
	for _, o := range allowedOrigins {
		if o == "*" {
			h.anyOrigin = true
			continue
		}
		h.origins[normalizeOrigin(o)] = struct{}{}
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 2048,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// checkOrigin 浏览器会带 Origin 头，非浏览器客户端没有，直接放行
func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || h.anyOrigin {
		return true
	}
	if _, ok := h.origins[normalizeOrigin(origin)]; ok {
		return true
	}
	zap.L().Warn("ws origin rejected", zap.String("origin", origin))
	return false
}

func normalizeOrigin(o string) string {
	return strings.ToLower(strings.TrimRight(strings.TrimSpace(o), "/"))
}

// Serve 升级为 WebSocket 连接并注册到 ownerID 下
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, ownerID uint) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	c := &Client{
		hub:     h,
		conn:    conn,
		ownerID: ownerID,
		send:    make(chan []byte, constants.CHANNEL_SIZE),
	}
	h.register(c)
	go c.writePump()
	go c.readPump()
	zap.L().Info("ws连接成功", zap.Uint("owner_id", ownerID))
	return nil
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.ownerID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.ownerID] = set
	}
	set[c] = struct{}{}
	metrics.WebSocketConnections.Inc()
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.ownerID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	close(c.send)
	metrics.WebSocketConnections.Dec()
	if len(set) == 0 {
		delete(h.clients, c.ownerID)
	}
}

// Deliver 把事件推送给请求发布者的所有连接
// 发送缓冲已满的连接会丢弃本条事件
func (h *Hub) Deliver(ev event.LifecycleEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		zap.L().Error("marshal lifecycle event", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[ev.OwnerID] {
		select {
		case c.send <- data:
		default:
			zap.L().Warn("ws send buffer full, dropping event",
				zap.Uint("owner_id", ev.OwnerID),
				zap.Uint("request_id", ev.RequestID),
			)
		}
	}
}

// Online 返回用户当前的连接数
func (h *Hub) Online(ownerID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[ownerID])
}

// Close 断开所有连接
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ownerID, set := range h.clients {
		for c := range set {
			close(c.send)
			metrics.WebSocketConnections.Dec()
		}
		delete(h.clients, ownerID)
	}
}

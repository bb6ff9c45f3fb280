package handler

import (
	"carematch_server/internal/gateway/websocket"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WsHandler WebSocket 处理器，向请求发布者推送状态变化
type WsHandler struct {
	hub *websocket.Hub
}

func NewWsHandler(hub *websocket.Hub) *WsHandler {
	return &WsHandler{hub: hub}
}

// Connect 建立连接
// GET /ws?token=<access token>
func (h *WsHandler) Connect(c *gin.Context) {
	userID := currentIdentity(c).ID
	if err := h.hub.Serve(c.Writer, c.Request, userID); err != nil {
		// Upgrade 失败时 gorilla 已经写回了错误响应
		zap.L().Warn("websocket upgrade failed", zap.Uint("user_id", userID), zap.Error(err))
		return
	}
	zap.L().Debug("websocket connected", zap.Uint("user_id", userID), zap.Int("online", h.hub.Online(userID)))
}

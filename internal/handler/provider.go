// Package handler 提供 HTTP 请求处理器
// 本文件定义 Handler 聚合结构和构造函数
// 遵循依赖倒置原则，通过构造函数注入 Service 依赖
package handler

import (
	"strconv"

	"carematch_server/internal/gateway/websocket"
	"carematch_server/internal/infrastructure/middleware"
	"carematch_server/internal/service"
	"carematch_server/internal/service/lifecycle"

	"github.com/gin-gonic/gin"
)

// Pinger 数据库连通性检查
type Pinger interface {
	Ping() error
}

// Handlers 聚合所有 Handler 实例
// 作为依赖注入的入口，Router 层通过此结构访问各个 Handler
type Handlers struct {
	Request  *RequestHandler
	Auth     *AuthHandler
	Donation *DonationHandler
	Admin    *AdminHandler
	Upload   *UploadHandler
	System   *SystemHandler
	Ws       *WsHandler
}

// NewHandlers 创建并注入所有 Handler 实例
func NewHandlers(svc *service.Services, db Pinger, hub *websocket.Hub) *Handlers {
	return &Handlers{
		Request:  NewRequestHandler(svc.Request, svc.Lifecycle),
		Auth:     NewAuthHandler(svc.Auth),
		Donation: NewDonationHandler(svc.Donation),
		Admin:    NewAdminHandler(svc.Admin),
		Upload:   NewUploadHandler(svc.Upload),
		System:   NewSystemHandler(db),
		Ws:       NewWsHandler(hub),
	}
}

// currentIdentity 从 JWTAuth 写入的上下文构造操作者身份
func currentIdentity(c *gin.Context) lifecycle.Identity {
	return lifecycle.Identity{
		ID:   c.GetUint(middleware.CtxUserID),
		Role: c.GetString(middleware.CtxRole),
	}
}

// parseID 解析路径中的正整数 id
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

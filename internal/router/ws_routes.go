// Package router 提供 HTTP 路由注册
// 本文件定义 WebSocket 路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterWebSocketRoutes 注册 WebSocket 路由（需要认证）
// 浏览器无法设置 Authorization 头，token 通过查询参数传入
// 请求示例: ws://host:port/ws?token=<access token>
func (rt *Router) RegisterWebSocketRoutes(r *gin.Engine) {
	r.GET("/ws", rt.auth(), rt.handlers.Ws.Connect)
}

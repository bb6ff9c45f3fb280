// Package router 提供 HTTP 路由注册
// 本文件定义求助请求相关的路由（需要认证）
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterRequestRoutes 注册请求与图片上传路由
func (rt *Router) RegisterRequestRoutes(rg *gin.RouterGroup) {
	h := rt.handlers.Request
	requestGroup := rg.Group("/requests", rt.auth())
	{
		requestGroup.GET("", h.List)
		requestGroup.POST("", h.Create)
		requestGroup.PATCH("/:id/status", h.SetStatus)

		// 认领流程：open -> in_progress -> closed / open
		requestGroup.POST("/:id/contact", h.Contact)
		requestGroup.POST("/:id/accept", h.Accept)
		requestGroup.POST("/:id/reject", h.Reject)
	}

	rg.POST("/uploads/image", rt.auth(), rt.handlers.Upload.UploadImage)
}

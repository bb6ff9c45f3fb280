package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterSystemRoutes 健康检查与联系表单（无需认证）
func (rt *Router) RegisterSystemRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", rt.handlers.System.Health)
	rg.GET("/test-db", rt.handlers.System.TestDB)
	rg.POST("/contact", rt.handlers.System.Contact)
}

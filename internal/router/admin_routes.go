// Package router 提供 HTTP 路由注册
// 本文件定义管理员相关的路由
package router

import (
	"carematch_server/internal/infrastructure/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterAdminRoutes 注册管理员相关路由（需要认证）
// 这些接口只能由管理员调用
func (rt *Router) RegisterAdminRoutes(rg *gin.RouterGroup) {
	h := rt.handlers.Admin
	adminGroup := rg.Group("/admin", rt.auth(), middleware.RequireAdmin())
	{
		adminGroup.GET("/metrics", h.Metrics)
		adminGroup.GET("/users", h.Users)
		adminGroup.DELETE("/users/:id", h.DeleteUser)

		chartGroup := adminGroup.Group("/charts")
		{
			chartGroup.GET("/donations-by-month", h.DonationsByMonth)
			chartGroup.GET("/requests-by-region", h.RequestsByRegion)
		}
	}
}

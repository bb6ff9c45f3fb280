// Package router 提供 HTTP 路由注册
// 本文件是路由注册的入口，聚合所有子模块的路由
package router

import (
	"time"

	"carematch_server/internal/config"
	"carematch_server/internal/handler"
	"carematch_server/internal/infrastructure/middleware"

	"github.com/gin-gonic/gin"
)

// Router 路由管理器，持有注册路由所需的依赖
type Router struct {
	handlers  *handler.Handlers
	validator middleware.TokenValidator // JWT token id 校验
	counter   middleware.Counter        // 限流计数器
	limits    config.RateLimitConfig
}

// NewRouter 创建路由管理器
func NewRouter(handlers *handler.Handlers, validator middleware.TokenValidator, counter middleware.Counter, limits config.RateLimitConfig) *Router {
	return &Router{
		handlers:  handlers,
		validator: validator,
		counter:   counter,
		limits:    limits,
	}
}

// RegisterRoutes 注册所有路由
// 在 https_server.Init() 中调用
func (rt *Router) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")
	rt.RegisterSystemRoutes(api)
	rt.RegisterAuthRoutes(api)
	rt.RegisterRequestRoutes(api)
	rt.RegisterDonationRoutes(api)
	rt.RegisterAdminRoutes(api)

	rt.RegisterWebSocketRoutes(r)
}

// auth 需要登录的路由使用
func (rt *Router) auth() gin.HandlerFunc {
	return middleware.JWTAuth(rt.validator)
}

// rateLimit 按规则名创建限流中间件
func (rt *Router) rateLimit(name string, limit int) gin.HandlerFunc {
	policy := middleware.FailOpen
	if rt.limits.FailClosed {
		policy = middleware.FailClosed
	}
	window := time.Duration(rt.limits.WindowMinutes) * time.Minute
	return middleware.RateLimit(rt.counter, name, limit, window, policy)
}

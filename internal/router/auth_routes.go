// Package router 提供 HTTP 路由注册
// 本文件定义认证相关的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes 注册认证相关路由
// 整个分组按 IP 限流，找回/重置密码另有更严格的限制
func (rt *Router) RegisterAuthRoutes(rg *gin.RouterGroup) {
	h := rt.handlers.Auth
	authGroup := rg.Group("/auth", rt.rateLimit("auth", rt.limits.AuthMax))
	{
		authGroup.POST("/signup", h.Signup)
		authGroup.POST("/email/verify", h.VerifyEmail)
		authGroup.POST("/email/resend", h.ResendEmail)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/mfa/verify", h.VerifyMfa)
		authGroup.POST("/mfa/resend", h.ResendMfa)

		// 使用 Refresh Token 换取新的 Access Token
		authGroup.POST("/refresh", h.Refresh)

		resetLimit := rt.rateLimit("reset", rt.limits.ResetMax)
		authGroup.POST("/password/forgot", resetLimit, h.ForgotPassword)
		authGroup.POST("/password/reset", resetLimit, h.ResetPassword)

		authGroup.GET("/me", rt.auth(), h.Me)
		authGroup.POST("/logout", rt.auth(), h.Logout)
	}
}

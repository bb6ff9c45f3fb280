// Package handler 提供 HTTP 请求处理器
// 本文件处理认证相关的 API 请求
package handler

import (
	"carematch_server/internal/dto/request"
	"carematch_server/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler 认证请求处理器
type AuthHandler struct {
	authSvc service.AuthService
}

func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Signup 注册
// POST /api/auth/signup
// 响应: 201 { verifyToken }；沿用未过期的验证记录时为 200
func (h *AuthHandler) Signup(c *gin.Context) {
	var req request.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.authSvc.Signup(c.Request.Context(), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	if data.Created {
		HandleCreated(c, data)
		return
	}
	HandleSuccess(c, data)
}

// VerifyEmail 校验注册验证码并登录
// POST /api/auth/email/verify
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req request.VerifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.authSvc.VerifyEmail(c.Request.Context(), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// ResendEmail 重新发送注册验证码
// POST /api/auth/email/resend
func (h *AuthHandler) ResendEmail(c *gin.Context) {
	var req request.ResendCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.authSvc.ResendEmailCode(c.Request.Context(), req.Token); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// Login 密码登录，成功后进入二次验证
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req request.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.authSvc.Login(c.Request.Context(), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// VerifyMfa 校验登录验证码
// POST /api/auth/mfa/verify
func (h *AuthHandler) VerifyMfa(c *gin.Context) {
	var req request.VerifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.authSvc.VerifyMfa(c.Request.Context(), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// ResendMfa 重新发送登录验证码
// POST /api/auth/mfa/resend
func (h *AuthHandler) ResendMfa(c *gin.Context) {
	var req request.ResendCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.authSvc.ResendMfaCode(c.Request.Context(), req.Token); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// Refresh 刷新 Access Token
// POST /api/auth/refresh
// 单点互踢：在其他设备登录后，旧的 Refresh Token 无法再使用
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req request.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.authSvc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Me 当前用户
// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	data, err := h.authSvc.Me(currentIdentity(c).ID)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Logout 登出
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authSvc.Logout(c.Request.Context(), currentIdentity(c).ID); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// ForgotPassword 找回密码，总是返回成功
// POST /api/auth/password/forgot
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req request.PasswordForgotRequest
	if err := c.ShouldBindJSON(&req); err == nil {
		h.authSvc.ForgotPassword(c.Request.Context(), req.Email)
	}
	HandleSuccess(c, gin.H{"ok": true})
}

// ResetPassword 重置密码
// POST /api/auth/password/reset
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req request.PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.authSvc.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, gin.H{"ok": true})
}

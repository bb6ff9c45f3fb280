package middleware

import (
	"context"
	"strings"

	"carematch_server/pkg/constants"
	"carematch_server/pkg/errorx"
	"carematch_server/pkg/util/jwt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 上下文中的用户信息
const (
	CtxUserID = "user_id"
	CtxRole   = "role"
)

// TokenValidator 校验 token id 是否仍是当前会话
type TokenValidator interface {
	ValidateTokenID(ctx context.Context, userID uint, tokenID string) (bool, error)
}

func abort(c *gin.Context, code int, msg string) {
	c.AbortWithStatusJSON(errorx.HTTPStatus(code), gin.H{
		"code":    code,
		"message": msg,
		"data":    nil,
	})
}

// JWTAuth JWT 认证中间件
// 验证 Access Token 和 Redis 中的 token id，并将用户信息存入上下文
// 浏览器的 WebSocket 无法设置 Header，/ws 通过 ?token= 传入
func JWTAuth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. 从 Header 或 query 获取 Token
		token := c.Query("token")
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				abort(c, errorx.CodeUnauthorized, "Use a Bearer token.")
				return
			}
			token = parts[1]
		}
		if token == "" {
			abort(c, errorx.CodeUnauthorized, "Not authenticated.")
			return
		}

		// 2. 验证 Token，且必须是 Access Token
		claims, err := jwt.ParseToken(token)
		if err != nil || claims.Subject != jwt.SubjectAccessToken {
			abort(c, errorx.CodeUnauthorized, "Session expired. Please log in again.")
			return
		}

		// 3. token id 必须与 Redis 中一致（登出或在其他设备登录后失效）
		ok, err := validator.ValidateTokenID(c.Request.Context(), claims.UserID, claims.TokenID)
		if err != nil {
			zap.L().Error("validate token id failed", zap.Uint("user_id", claims.UserID), zap.Error(err))
			abort(c, errorx.CodeServerBusy, errorx.ErrServerBusy.Msg)
			return
		}
		if !ok {
			abort(c, errorx.CodeUnauthorized, "Session expired. Please log in again.")
			return
		}

		// 4. 将用户信息存入上下文，供后续 Handler 使用
		role := claims.Role
		if role == "" {
			role = constants.ROLE_USER
		}
		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxRole, role)
		c.Next()
	}
}

// RequireAdmin 仅管理员可访问，需放在 JWTAuth 之后
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(CtxRole) != constants.ROLE_ADMIN {
			abort(c, errorx.CodeForbidden, "Admins only.")
			return
		}
		c.Next()
	}
}

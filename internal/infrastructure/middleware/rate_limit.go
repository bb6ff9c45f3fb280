package middleware

import (
	"context"
	"fmt"
	"time"

	"carematch_server/pkg/constants"
	"carematch_server/pkg/errorx"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Counter 固定窗口计数器，由 Redis 实现
type Counter interface {
	IncrWithWindow(ctx context.Context, key string, window time.Duration) (int64, error)
}

// FailPolicy 计数器不可用时的处理方式
type FailPolicy int

const (
	// FailOpen 计数器出错时放行
	FailOpen FailPolicy = iota
	// FailClosed 计数器出错时拒绝
	FailClosed
)

// RateLimit 按客户端 IP 限流，name 区分不同的限流规则
func RateLimit(counter Counter, name string, limit int, window time.Duration, policy FailPolicy) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("%s%s:ip:%s", constants.RATE_LIMIT_KEY_PREFIX, name, c.ClientIP())
		count, err := counter.IncrWithWindow(c.Request.Context(), key, window)
		if err != nil {
			if policy == FailClosed {
				zap.L().Warn("rate limit fail-closed", zap.String("rule", name), zap.Error(err))
				abort(c, errorx.CodeServerBusy, "Service temporarily unavailable.")
				return
			}
			zap.L().Warn("rate limit counter unavailable, allowing request", zap.String("rule", name), zap.Error(err))
			c.Next()
			return
		}
		if count > int64(limit) {
			abort(c, errorx.CodeTooManyRequests, "Too many requests. Please try again later.")
			return
		}
		c.Next()
	}
}

package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
	"go.uber.org/zap"
)

// Secure 安全响应头；enableTLS 时把 HTTP 请求重定向到 HTTPS
func Secure(host string, port int, enableTLS bool, isDev bool) gin.HandlerFunc {
	// 在返回函数之前初始化，避免每次请求都重复创建对象
	opts := secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		IsDevelopment:      isDev,
	}
	if enableTLS {
		opts.SSLRedirect = true
		opts.SSLHost = host + ":" + strconv.Itoa(port)
	}
	secureMiddleware := secure.New(opts)

	return func(c *gin.Context) {
		err := secureMiddleware.Process(c.Writer, c.Request)
		if err != nil {
			// 重定向或拒绝时 secure 已经写好响应，这里终止处理链
			zap.L().Debug("secure middleware stopped request", zap.Error(err))
			c.Abort()
			return
		}
		c.Next()
	}
}

// Package https_server 提供 HTTP/HTTPS 服务器的初始化和配置
// 负责创建 Gin 引擎实例并配置中间件、静态资源和路由
package https_server

import (
	"os"

	"carematch_server/internal/config"
	"carematch_server/internal/handler"
	"carematch_server/internal/infrastructure/logger"
	"carematch_server/internal/infrastructure/metrics"
	"carematch_server/internal/infrastructure/middleware"
	"carematch_server/internal/router"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Init 初始化 HTTP/HTTPS 服务器并返回 Gin 引擎实例
// 配置顺序：
//  1. 创建 Gin 引擎（空白，不含默认中间件）
//  2. 注册日志、恢复、指标中间件
//  3. 安全响应头与 TLS 重定向
//  4. 配置 CORS 跨域规则
//  5. 映射静态资源目录
//  6. 注册业务路由
func Init(conf *config.Config, handlers *handler.Handlers, validator middleware.TokenValidator, counter middleware.Counter) *gin.Engine {
	if conf.MainConfig.Mode != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()

	engine.Use(logger.GinLogger())
	engine.Use(logger.GinRecovery(true))
	engine.Use(metrics.GinMetrics())

	engine.Use(middleware.Secure(conf.MainConfig.Host, conf.MainConfig.Port, conf.MainConfig.EnableTLS, conf.MainConfig.Mode == "dev"))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = conf.CorsConfig.AllowOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	engine.Use(cors.New(corsConfig))

	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// /uploads -> 用户上传的图片
	engine.Static("/uploads", conf.StaticSrcConfig.UploadPath)
	// 前端页面，未配置时由 Nginx 提供
	if path := conf.StaticSrcConfig.FrontendPath; path != "" {
		if _, err := os.Stat(path); err == nil {
			engine.Static("/pages", path)
		} else {
			zap.L().Warn("frontend path not found, skip", zap.String("path", path))
		}
	}

	rt := router.NewRouter(handlers, validator, counter, conf.RateLimitConfig)
	rt.RegisterRoutes(engine)

	return engine
}

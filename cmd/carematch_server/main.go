package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"carematch_server/internal/config"
	dao "carematch_server/internal/dao/mysql"
	myredis "carematch_server/internal/dao/redis"
	"carematch_server/internal/gateway/websocket"
	"carematch_server/internal/handler"
	"carematch_server/internal/https_server"
	"carematch_server/internal/infrastructure/logger"
	"carematch_server/internal/infrastructure/mailer"
	"carematch_server/internal/infrastructure/mq"
	"carematch_server/internal/service"
	"carematch_server/pkg/util/jwt"

	"go.uber.org/zap"
)

func main() {
	// 1. 加载配置
	conf := config.GetConfig()

	// 2. 初始化日志
	if err := logger.Init(&conf.LogConfig, conf.MainConfig.Mode); err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	defer func() { _ = zap.L().Sync() }()
	zap.L().Info("日志初始化成功")

	// 3. 初始化数据库
	db, repos, err := dao.Init(&conf.MysqlConfig)
	if err != nil {
		zap.L().Fatal("数据库初始化失败", zap.Error(err))
	}
	zap.L().Info("数据库初始化成功")

	// 4. 初始化 Redis
	cache, err := myredis.Init(&conf.RedisConfig)
	if err != nil {
		zap.L().Fatal("Redis 初始化失败", zap.Error(err))
	}
	zap.L().Info("Redis 初始化成功")

	// 5. 初始化 JWT
	if conf.JWTConfig.Secret == "" {
		zap.L().Fatal("jwtConfig.secret 未配置")
	}
	jwt.Init(conf.JWTConfig.Secret, conf.JWTConfig.AccessTokenExpiry, conf.JWTConfig.RefreshTokenExpiry)

	// 6. 邮件
	m, err := mailer.New(&conf.SmtpConfig)
	if err != nil {
		zap.L().Fatal("邮件服务初始化失败", zap.Error(err))
	}

	// 7. WebSocket Hub 与事件总线
	hub := websocket.NewHub(conf.CorsConfig.AllowOrigins)
	bus, err := mq.New(&conf.KafkaConfig, hub)
	if err != nil {
		zap.L().Fatal("事件总线初始化失败", zap.Error(err))
	}
	ctx, cancel := context.WithCancel(context.Background())
	bus.Start(ctx)

	// 8. Service / Handler 层 (依赖注入)
	svc := service.NewServices(service.Deps{
		Repos:  repos,
		Cache:  cache,
		Mailer: m,
		Events: bus,
		Conf:   conf,
	})
	if err := handler.InitTrans("en"); err != nil {
		zap.L().Fatal("翻译器初始化失败", zap.Error(err))
	}
	handlers := handler.NewHandlers(svc, repos, hub)

	// 9. 启动 HTTP 服务
	engine := https_server.Init(conf, handlers, svc.Auth, cache)
	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", conf.MainConfig.Host, conf.MainConfig.Port),
		Handler: engine,
	}
	go func() {
		zap.L().Info("服务启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("server running fault", zap.Error(err))
		}
	}()

	// 设置信号监听
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("关闭服务器...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("server shutdown", zap.Error(err))
	}

	cancel()
	if err := bus.Close(); err != nil {
		zap.L().Error("close event bus", zap.Error(err))
	}
	hub.Close()
	if err := cache.Close(); err != nil {
		zap.L().Error("close redis", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	zap.L().Info("服务器已关闭")
}

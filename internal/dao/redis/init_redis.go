// Package redis 提供 Redis 缓存操作的封装
// 使用 github.com/redis/go-redis/v9 作为底层客户端
package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"carematch_server/internal/config"
	"carematch_server/pkg/constants"

	"github.com/redis/go-redis/v9"
)

// Init 根据配置创建 Redis 客户端并启动缓存服务
// 连接不可用时返回错误，由调用方决定是否继续启动
func Init(conf *config.RedisConfig) (*RedisCache, error) {
	addr := conf.Host + ":" + strconv.Itoa(conf.Port)

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     conf.Password,
		DB:           conf.Db,
		PoolSize:     50,
		MinIdleConns: 5,
	})

	ctx, cancel := context.WithTimeout(context.Background(), constants.REDIS_TIMEOUT*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}

	return NewRedisCache(client, 5, 1000), nil
}

// Package redis 定义缓存服务接口
// Service 层和中间件依赖这些接口而非具体 Redis 实现
package redis

import (
	"context"
	"time"
)

// SessionStore 会话存储：user_token:<id> -> 当前有效的 token id
// 键不存在时 Get 返回空字符串和 nil，表示没有有效会话
type SessionStore interface {
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

// WindowCounter 固定窗口计数，用于接口限流
type WindowCounter interface {
	// IncrWithWindow 计数加一，首次计数时设置窗口过期时间，返回当前计数
	IncrWithWindow(ctx context.Context, key string, window time.Duration) (int64, error)
}

// CacheService 认证服务使用的缓存能力
type CacheService interface {
	SessionStore
	WindowCounter
}

// AsyncCacheService 在 CacheService 基础上可以提交后台任务
// 管理员删除用户后用它异步清理会话
type AsyncCacheService interface {
	CacheService
	SubmitTask(action func())
}

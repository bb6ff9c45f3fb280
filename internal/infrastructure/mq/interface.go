// Package mq 提供请求状态事件总线
// channel 模式在进程内直接投递，kafka 模式经由 Kafka 主题转发
package mq

import (
	"context"

	"carematch_server/internal/dto/event"
)

// EventSink 事件的最终接收方（WebSocket Hub）
// 用于解耦 mq 包对 gateway 包的依赖
type EventSink interface {
	Deliver(ev event.LifecycleEvent)
}

// Publisher 事件发布接口，Service 层依赖此接口
type Publisher interface {
	Publish(ctx context.Context, ev event.LifecycleEvent) error
}

// Bus 事件总线：发布 + 后台投递
type Bus interface {
	Publisher
	// Start 启动后台投递循环，ctx 取消时退出
	Start(ctx context.Context)
	Close() error
}

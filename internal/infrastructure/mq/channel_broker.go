package mq

import (
	"context"
	"errors"
	"sync"

	"carematch_server/internal/dto/event"

	"go.uber.org/zap"
)

// ErrBusFull 通道已满，事件被丢弃
var ErrBusFull = errors.New("event channel full")

// ChannelBroker 进程内事件总线
type ChannelBroker struct {
	events chan event.LifecycleEvent
	sink   EventSink
	done   chan struct{}
	once   sync.Once
}

// NewChannelBroker 创建进程内事件总线，size 为缓冲大小
func NewChannelBroker(sink EventSink, size int) *ChannelBroker {
	return &ChannelBroker{
		events: make(chan event.LifecycleEvent, size),
		sink:   sink,
		done:   make(chan struct{}),
	}
}

// Publish 非阻塞写入，缓冲区满时返回 ErrBusFull
func (b *ChannelBroker) Publish(ctx context.Context, ev event.LifecycleEvent) error {
	select {
	case <-b.done:
		return errors.New("event bus closed")
	default:
	}
	select {
	case b.events <- ev:
		return nil
	default:
		return ErrBusFull
	}
}

// Start 启动投递循环
func (b *ChannelBroker) Start(ctx context.Context) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				zap.L().Error("channel broker panic", zap.Any("recover", r))
			}
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case <-b.done:
				return
			case ev := <-b.events:
				b.sink.Deliver(ev)
			}
		}
	}()
}

// Close 停止投递
func (b *ChannelBroker) Close() error {
	b.once.Do(func() { close(b.done) })
	return nil
}

var _ Bus = (*ChannelBroker)(nil)

package mq

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"time"

	"carematch_server/internal/config"
	"carematch_server/internal/dto/event"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// KafkaBus Kafka 事件总线
// Writer 发布到 lifecycleTopic，Reader 以消费者组读取并转交 EventSink
type KafkaBus struct {
	writer *kafka.Writer
	reader *kafka.Reader
	sink   EventSink
}

// NewKafkaBus 根据配置创建 Writer 和 Reader
func NewKafkaBus(conf *config.KafkaConfig, sink EventSink) *KafkaBus {
	timeout := conf.Timeout * time.Second
	return &KafkaBus{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(conf.HostPort),
			Topic:                  conf.LifecycleTopic,
			Balancer:               &kafka.Hash{},
			WriteTimeout:           timeout,
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		},
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:        []string{conf.HostPort},
			Topic:          conf.LifecycleTopic,
			GroupID:        conf.GroupID,
			CommitInterval: timeout,
			StartOffset:    kafka.LastOffset,
		}),
		sink: sink,
	}
}

// Publish 同一请求的事件使用相同 key，保证分区内有序
func (k *KafkaBus) Publish(ctx context.Context, ev event.LifecycleEvent) error {
	msg, err := encodeEvent(ev)
	if err != nil {
		return err
	}
	return k.writer.WriteMessages(ctx, msg)
}

// Start 启动消费循环
func (k *KafkaBus) Start(ctx context.Context) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				zap.L().Error("kafka consumer panic", zap.Any("recover", r))
			}
		}()
		for {
			m, err := k.reader.ReadMessage(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, kafka.ErrGroupClosed) || errors.Is(err, io.EOF) {
					return
				}
				zap.L().Error("kafka read lifecycle event", zap.Error(err))
				if ctx.Err() != nil {
					return
				}
				time.Sleep(time.Second)
				continue
			}
			ev, err := decodeEvent(m)
			if err != nil {
				zap.L().Error("kafka decode lifecycle event",
					zap.Error(err),
					zap.Int("partition", m.Partition),
					zap.Int64("offset", m.Offset),
				)
				continue
			}
			k.sink.Deliver(ev)
		}
	}()
}

// Close 关闭 Writer 和 Reader
func (k *KafkaBus) Close() error {
	return errors.Join(k.writer.Close(), k.reader.Close())
}

func encodeEvent(ev event.LifecycleEvent) (kafka.Message, error) {
	value, err := json.Marshal(ev)
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(ev.RequestID), 10)),
		Value: value,
	}, nil
}

func decodeEvent(m kafka.Message) (event.LifecycleEvent, error) {
	var ev event.LifecycleEvent
	err := json.Unmarshal(m.Value, &ev)
	return ev, err
}

var _ Bus = (*KafkaBus)(nil)

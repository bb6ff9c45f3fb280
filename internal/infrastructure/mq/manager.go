package mq

import (
	"fmt"

	"carematch_server/internal/config"
	"carematch_server/pkg/constants"

	"go.uber.org/zap"
)

// New 按 messageMode 创建事件总线
func New(conf *config.KafkaConfig, sink EventSink) (Bus, error) {
	switch conf.MessageMode {
	case "", "channel":
		zap.L().Info("lifecycle event bus: channel")
		return NewChannelBroker(sink, constants.CHANNEL_SIZE), nil
	case "kafka":
		if conf.HostPort == "" {
			return nil, fmt.Errorf("kafka mode requires kafkaConfig.hostPort")
		}
		zap.L().Info("lifecycle event bus: kafka",
			zap.String("broker", conf.HostPort),
			zap.String("topic", conf.LifecycleTopic),
		)
		return NewKafkaBus(conf, sink), nil
	default:
		return nil, fmt.Errorf("unknown messageMode %q", conf.MessageMode)
	}
}

package kafka

import (
	"context"
	"encoding/json"
	"time"

	"charbit-go/internal/config"
	"charbit-go/pkg/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventHandler 处理角色事件的回调
type EventHandler func(ctx context.Context, event CharacterEvent) error

// StartCharacterEventConsumer 启动角色事件消费者（阻塞），ctx 取消后返回
func StartCharacterEventConsumer(ctx context.Context, cfg *config.KafkaConfig, handler EventHandler) {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          cfg.CharacterTopic(),
		GroupID:        cfg.GroupID,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
		StartOffset:    kafka.FirstOffset,
	})

	defer func() {
		if err := reader.Close(); err != nil {
			logger.Error("Failed to close kafka consumer", zap.Error(err))
		}
		logger.Info("Kafka character event consumer stopped")
	}()

	logger.Info("Kafka character event consumer started",
		zap.String("topic", cfg.CharacterTopic()),
		zap.String("group", cfg.GroupID),
	)

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error("Failed to read kafka message", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}

		event, err := DecodeCharacterEvent(msg.Value)
		if err != nil {
			logger.Error("Failed to unmarshal character event",
				zap.Error(err),
				zap.ByteString("value", msg.Value),
			)
			continue
		}

		if err := handler(ctx, event); err != nil {
			logger.Error("Failed to handle character event",
				zap.String("type", event.Type),
				zap.Int64("character_id", event.CharacterID),
				zap.Error(err),
			)
		}
	}
}

// DecodeCharacterEvent 解析消息体
func DecodeCharacterEvent(value []byte) (CharacterEvent, error) {
	var event CharacterEvent
	err := json.Unmarshal(value, &event)
	return event, err
}

package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"charbit-go/internal/config"
	"charbit-go/pkg/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// 角色事件类型
const (
	EventUpsert = "upsert"
	EventDelete = "delete"
)

// CharacterEvent 角色变更事件，worker 据此同步搜索索引
type CharacterEvent struct {
	Type        string `json:"type"`
	CharacterID int64  `json:"character_id"`
}

// Key 同一角色的事件落在同一分区，保证顺序
func (e CharacterEvent) Key() string {
	return fmt.Sprintf("character-%d", e.CharacterID)
}

// Publisher 角色事件生产者
type Publisher struct {
	writer *kafka.Writer
	topic  string
}

// NewPublisher 初始化 Kafka 生产者
func NewPublisher(cfg *config.KafkaConfig) *Publisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}

	logger.Info("Kafka producer initialized",
		zap.Strings("brokers", cfg.Brokers),
		zap.String("topic", cfg.CharacterTopic()),
	)
	return &Publisher{writer: writer, topic: cfg.CharacterTopic()}
}

// PublishCharacterEvent 发送角色事件
func (p *Publisher) PublishCharacterEvent(ctx context.Context, event CharacterEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal character event: %w", err)
	}

	msg := kafka.Message{
		Topic: p.topic,
		Key:   []byte(event.Key()),
		Value: payload,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to send character event: %w", err)
	}

	logger.Debug("Character event sent",
		zap.String("type", event.Type),
		zap.Int64("character_id", event.CharacterID),
	)
	return nil
}

// Close 关闭生产者
func (p *Publisher) Close() error {
	logger.Info("Kafka producer closed")
	return p.writer.Close()
}

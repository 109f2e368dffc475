// Package messaging 将订单领域事件发布到 Kafka
package messaging

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/config"
	"storefront/domain/shared"
	"storefront/infrastructure/persistence/gormstore/po"
	"storefront/pkg/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher 以聚合 ID 作为消息键，保证同一订单的事件有序
type KafkaPublisher struct {
	writer  messageWriter
	timeout time.Duration
}

func NewKafkaPublisher(cfg config.KafkaConfig) (*KafkaPublisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka brokers are required")
	}
	if cfg.Topic == "" {
		return nil, errors.New("kafka topic is required")
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w, timeout: 5 * time.Second}, nil
}

// Publish writes one message. The payload is already JSON.
func (p *KafkaPublisher) Publish(ctx context.Context, eventType, key, payload string) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	msg := kafka.Message{
		Key:   []byte(key),
		Value: []byte(payload),
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka write %s: %w", eventType, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// EventHandler relays events from the in-process bus straight to Kafka.
// Used with the memory store, which has no outbox table.
type EventHandler struct {
	publisher *KafkaPublisher
}

func NewEventHandler(publisher *KafkaPublisher) *EventHandler {
	return &EventHandler{publisher: publisher}
}

func (h *EventHandler) Name() string { return "kafka-relay" }

func (h *EventHandler) Handle(event shared.DomainEvent) error {
	payload, err := po.SerializeEvent(event)
	if err != nil {
		return err
	}
	if err := h.publisher.Publish(context.Background(), event.EventName(), event.GetAggregateID(), payload); err != nil {
		logger.Warn("Kafka relay failed",
			zap.String("event", event.EventName()),
			zap.String("aggregate_id", event.GetAggregateID()),
			zap.Error(err),
		)
		return err
	}
	return nil
}

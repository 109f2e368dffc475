package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"storefront/config"
	"storefront/domain/order"
	"storefront/domain/shared"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func TestKafkaPublisherMessageShape(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{writer: w, timeout: time.Second}

	require.NoError(t, p.Publish(context.Background(), "order.placed", "ORDER_1", `{"a":1}`))
	require.Len(t, w.messages, 1)
	msg := w.messages[0]
	assert.Equal(t, "ORDER_1", string(msg.Key))
	assert.Equal(t, `{"a":1}`, string(msg.Value))
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, "order.placed", string(msg.Headers[0].Value))

	w.err = errors.New("broker down")
	assert.ErrorContains(t, p.Publish(context.Background(), "order.placed", "ORDER_1", "{}"), "broker down")
}

func TestEventHandlerOnBus(t *testing.T) {
	w := &fakeWriter{}
	bus := shared.NewEventBus()
	require.NoError(t, bus.Subscribe(shared.Wildcard, NewEventHandler(&KafkaPublisher{writer: w, timeout: time.Second})))

	event := order.NewOrderPlacedEvent("ORDER_9", "u1", shared.Won(45000), time.Now())
	require.NoError(t, bus.Publish(event))

	require.Len(t, w.messages, 1)
	var envelope map[string]any
	require.NoError(t, json.Unmarshal(w.messages[0].Value, &envelope))
	assert.Equal(t, "order.placed", envelope["event_name"])
	assert.Equal(t, "ORDER_9", string(w.messages[0].Key))
}

func TestNewKafkaPublisherValidates(t *testing.T) {
	_, err := NewKafkaPublisher(config.KafkaConfig{Topic: "t"})
	assert.Error(t, err)
	_, err = NewKafkaPublisher(config.KafkaConfig{Brokers: []string{"localhost:9092"}})
	assert.Error(t, err)
	p, err := NewKafkaPublisher(config.KafkaConfig{Brokers: []string{"localhost:9092"}, Topic: "storefront.orders"})
	require.NoError(t, err)
	assert.NoError(t, p.Close())
}

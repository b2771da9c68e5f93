// Package events publishes catalog change notifications.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"hrcatalog/internal/catalog/models"
	"hrcatalog/internal/platform/kafka/producer"
)

// Producer is the part of the Kafka producer the publisher needs.
type Producer interface {
	Produce(ctx context.Context, msg *producer.Message) error
}

// Envelope is the wire shape of a change event.
type Envelope struct {
	Kind       string    `json:"kind"`
	Action     string    `json:"action"`
	ID         int64     `json:"id"`
	Actor      string    `json:"actor"`
	OccurredAt time.Time `json:"occurred_at"`
	// Alert mirrors the X-<App>-Alert header of the HTTP response.
	Alert string `json:"alert"`
}

// KafkaPublisher writes one record per change, keyed by kind and id so every
// change of a record lands on the same partition in order.
type KafkaPublisher struct {
	producer    Producer
	topic       string
	alertPrefix string
}

func NewKafkaPublisher(p Producer, topic, alertPrefix string) *KafkaPublisher {
	return &KafkaPublisher{producer: p, topic: topic, alertPrefix: alertPrefix}
}

// Publish satisfies service.Publisher.
func (k *KafkaPublisher) Publish(ctx context.Context, ev models.ChangeEvent) error {
	body, err := json.Marshal(Envelope{
		Kind:       ev.Kind,
		Action:     string(ev.Action),
		ID:         ev.ID,
		Actor:      ev.Actor,
		OccurredAt: ev.OccurredAt,
		Alert:      AlertKey(k.alertPrefix, ev.Kind, ev.Action),
	})
	if err != nil {
		return fmt.Errorf("encode change event: %w", err)
	}

	return k.producer.Produce(ctx, &producer.Message{
		Topic: k.topic,
		Key:   []byte(ev.Kind + ":" + strconv.FormatInt(ev.ID, 10)),
		Value: body,
		Headers: map[string]string{
			"kind":   ev.Kind,
			"action": string(ev.Action),
		},
	})
}

// Decode parses a published change event.
func Decode(value []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(value, &env); err != nil {
		return env, fmt.Errorf("decode change event: %w", err)
	}
	if env.Kind == "" || env.Action == "" {
		return env, fmt.Errorf("decode change event: missing kind or action")
	}
	return env, nil
}

// Noop discards every event. It is used when no brokers are configured.
type Noop struct{}

func (Noop) Publish(context.Context, models.ChangeEvent) error { return nil }

// AlertKey renders the notification key shared by the HTTP alert header and
// the published event, e.g. "hrApp.bank.created".
func AlertKey(prefix, kind string, action models.Action) string {
	return prefix + "." + kind + "." + string(action)
}

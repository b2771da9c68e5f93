package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrcatalog/internal/catalog/models"
	"hrcatalog/internal/platform/kafka/producer"
)

type recordingProducer struct {
	sent []*producer.Message
	err  error
}

func (r *recordingProducer) Produce(_ context.Context, msg *producer.Message) error {
	r.sent = append(r.sent, msg)
	return r.err
}

func TestKafkaPublisher(t *testing.T) {
	at := time.Date(2024, 2, 1, 8, 30, 0, 0, time.UTC)
	ev := models.ChangeEvent{
		Kind:       "bank",
		Action:     models.ActionCreated,
		ID:         1,
		Actor:      "hr-admin",
		OccurredAt: at,
	}

	t.Run("record is keyed by kind and id", func(t *testing.T) {
		p := &recordingProducer{}
		pub := NewKafkaPublisher(p, "hrcatalog.changes", "hrApp")

		require.NoError(t, pub.Publish(context.Background(), ev))
		require.Len(t, p.sent, 1)

		msg := p.sent[0]
		assert.Equal(t, "hrcatalog.changes", msg.Topic)
		assert.Equal(t, "bank:1", string(msg.Key))
		assert.Equal(t, "created", msg.Headers["action"])

		var body map[string]any
		require.NoError(t, json.Unmarshal(msg.Value, &body))
		assert.Equal(t, "hrApp.bank.created", body["alert"])
		assert.Equal(t, "hr-admin", body["actor"])
		assert.Equal(t, "2024-02-01T08:30:00Z", body["occurred_at"])
	})

	t.Run("producer errors are returned", func(t *testing.T) {
		pub := NewKafkaPublisher(&recordingProducer{err: errors.New("broker down")}, "t", "hrApp")
		assert.Error(t, pub.Publish(context.Background(), ev))
	})
}

func TestNoop(t *testing.T) {
	assert.NoError(t, Noop{}.Publish(context.Background(), models.ChangeEvent{}))
}

func TestAlertKey(t *testing.T) {
	assert.Equal(t, "hrApp.organization-unit.deleted", AlertKey("hrApp", "organization-unit", models.ActionDeleted))
}

func TestDecode(t *testing.T) {
	t.Run("published value decodes", func(t *testing.T) {
		p := &recordingProducer{}
		ev := models.ChangeEvent{Kind: "degree", Action: models.ActionUpdated, ID: 7, Actor: "ana"}
		require.NoError(t, NewKafkaPublisher(p, "t", "hrApp").Publish(context.Background(), ev))

		env, err := Decode(p.sent[0].Value)
		require.NoError(t, err)
		assert.Equal(t, "degree", env.Kind)
		assert.Equal(t, "updated", env.Action)
		assert.Equal(t, int64(7), env.ID)
		assert.Equal(t, "hrApp.degree.updated", env.Alert)
	})

	t.Run("rejects foreign payloads", func(t *testing.T) {
		_, err := Decode([]byte(`not json`))
		assert.Error(t, err)
		_, err = Decode([]byte(`{"id":1}`))
		assert.Error(t, err)
	})
}

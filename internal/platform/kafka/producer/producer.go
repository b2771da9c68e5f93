// Package producer publishes records to Kafka and waits for broker acks.
package producer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/twmb/franz-go/pkg/kgo"

	"hrcatalog/internal/platform/kafka"
)

// ErrClosed is returned by Produce and Health after Close.
var ErrClosed = errors.New("producer is closed")

// Message is one record to publish. Headers are written sorted by key.
type Message struct {
	Topic   string
	Key     []byte
	Value   []byte
	Headers map[string]string
}

// Config holds producer settings.
type Config struct {
	Brokers         string
	Acks            string // "0", "1" or "all"
	Retries         int
	DeliveryTimeout time.Duration
	Linger          time.Duration
}

// DefaultConfig returns the settings used for change events.
func DefaultConfig(brokers string) Config {
	return Config{
		Brokers:         brokers,
		Acks:            "all",
		Retries:         3,
		DeliveryTimeout: 10 * time.Second,
		Linger:          5 * time.Millisecond,
	}
}

func (c Config) requiredAcks() (kgo.Acks, error) {
	switch c.Acks {
	case "0":
		return kgo.NoAck(), nil
	case "1":
		return kgo.LeaderAck(), nil
	case "", "all", "-1":
		return kgo.AllISRAcks(), nil
	default:
		return kgo.Acks{}, fmt.Errorf("unknown kafka acks %q", c.Acks)
	}
}

// Metrics records publish outcomes per topic.
type Metrics struct {
	Produced *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

// NewMetrics registers the producer collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		Produced: f.NewCounterVec(prometheus.CounterOpts{
			Name: "hrcatalog_kafka_produced_total",
			Help: "Records handed to Kafka by topic and result",
		}, []string{"topic", "result"}),
		Duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hrcatalog_kafka_produce_duration_seconds",
			Help:    "Time from produce to broker acknowledgment",
			Buckets: prometheus.DefBuckets,
		}, []string{"topic"}),
	}
}

func (m *Metrics) observe(topic string, took time.Duration, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.Produced.WithLabelValues(topic, result).Inc()
	m.Duration.WithLabelValues(topic).Observe(took.Seconds())
}

// Option configures a Producer.
type Option func(*Producer)

// WithMetrics records produce outcomes.
func WithMetrics(m *Metrics) Option {
	return func(p *Producer) { p.metrics = m }
}

// WithFlushTimeout bounds how long Close waits for buffered records.
func WithFlushTimeout(d time.Duration) Option {
	return func(p *Producer) {
		if d > 0 {
			p.flushTimeout = d
		}
	}
}

// Producer is a synchronous publisher over a franz-go client.
type Producer struct {
	client       *kgo.Client
	logger       *slog.Logger
	metrics      *Metrics
	flushTimeout time.Duration
	closed       atomic.Bool
}

// New connects lazily; brokers are not contacted until the first produce
// or Health call.
func New(cfg Config, logger *slog.Logger, opts ...Option) (*Producer, error) {
	brokers, err := kafka.SeedBrokers(cfg.Brokers)
	if err != nil {
		return nil, err
	}
	acks, err := cfg.requiredAcks()
	if err != nil {
		return nil, err
	}

	kopts := []kgo.Opt{
		kgo.SeedBrokers(brokers...),
		kgo.RequiredAcks(acks),
		kgo.AllowAutoTopicCreation(),
	}
	if acks != kgo.AllISRAcks() {
		// Idempotent writes require acks=all.
		kopts = append(kopts, kgo.DisableIdempotentWrite())
	}
	if cfg.Retries > 0 {
		kopts = append(kopts, kgo.RecordRetries(cfg.Retries))
	}
	if cfg.Linger > 0 {
		kopts = append(kopts, kgo.ProducerLinger(cfg.Linger))
	}
	if cfg.DeliveryTimeout > 0 {
		kopts = append(kopts, kgo.RecordDeliveryTimeout(cfg.DeliveryTimeout))
	}

	client, err := kgo.NewClient(kopts...)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}
	p := &Producer{client: client, logger: logger, flushTimeout: 10 * time.Second}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Record converts msg to a franz-go record.
func Record(msg *Message) *kgo.Record {
	keys := make([]string, 0, len(msg.Headers))
	for k := range msg.Headers {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	headers := make([]kgo.RecordHeader, 0, len(keys))
	for _, k := range keys {
		headers = append(headers, kgo.RecordHeader{Key: k, Value: []byte(msg.Headers[k])})
	}
	return &kgo.Record{Topic: msg.Topic, Key: msg.Key, Value: msg.Value, Headers: headers}
}

// Produce sends msg and returns once the broker acknowledged it.
func (p *Producer) Produce(ctx context.Context, msg *Message) error {
	if p.closed.Load() {
		return ErrClosed
	}
	start := time.Now()
	err := p.client.ProduceSync(ctx, Record(msg)).FirstErr()
	p.metrics.observe(msg.Topic, time.Since(start), err)
	if err != nil {
		return fmt.Errorf("produce to %s: %w", msg.Topic, err)
	}
	return nil
}

// Close flushes buffered records and shuts the client down. It is safe to
// call more than once.
func (p *Producer) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), p.flushTimeout)
	defer cancel()

	if err := p.client.Flush(ctx); err != nil {
		p.logger.Warn("kafka producer closed with unflushed records", "error", err)
	}
	p.client.Close()
	return nil
}

// Health pings the brokers.
func (p *Producer) Health(ctx context.Context) error {
	if p.closed.Load() {
		return ErrClosed
	}
	if err := p.client.Ping(ctx); err != nil {
		return fmt.Errorf("ping kafka: %w", err)
	}
	return nil
}

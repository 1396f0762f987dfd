// Package audit emits decision and negotiation events to a Kafka topic so
// compliance and ops consumers can replay what the engine decided and why.
// The publisher must never block or fail the decision path: produce errors
// are logged, not propagated.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"

	"aerox/internal/decision/ports"
	"aerox/internal/platform/config"
)

// envelope is the wire shape of one audit record.
type envelope struct {
	EventID   string         `json:"event_id"`
	Timestamp time.Time      `json:"timestamp"`
	Action    string         `json:"action"`
	CompanyID string         `json:"company_id,omitempty"`
	SessionID string         `json:"session_id,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
}

// KafkaPublisher produces audit events to a single topic, keyed by company
// so per-company ordering is preserved.
type KafkaPublisher struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

// NewKafkaPublisher connects to the brokers and ensures the topic exists.
// Returns nil if no brokers are configured (audit falls back to logging).
func NewKafkaPublisher(cfg config.KafkaConfig, logger *slog.Logger) (*KafkaPublisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, nil
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(cfg.Topic),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	adm := kadm.NewClient(client)
	if _, err := adm.CreateTopic(ctx, 3, 1, nil, cfg.Topic); err != nil {
		// Topic may already exist; anything else is logged and tolerated,
		// the broker may auto-create on first produce.
		logger.Warn("ensure audit topic", "topic", cfg.Topic, "error", err)
	}

	return &KafkaPublisher{client: client, topic: cfg.Topic, logger: logger}, nil
}

// Emit produces one event asynchronously. Broker errors surface in the
// produce callback as log lines only.
func (p *KafkaPublisher) Emit(ctx context.Context, event ports.AuditEvent) error {
	env := envelope{
		EventID:   uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Action:    event.Action,
		CompanyID: event.CompanyID,
		SessionID: event.SessionID,
		Details:   event.Details,
	}
	value, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}

	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(event.CompanyID),
		Value: value,
	}
	p.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil {
			p.logger.Warn("audit produce failed", "action", event.Action, "error", err)
		}
	})
	return nil
}

// Close flushes buffered records and releases the client.
func (p *KafkaPublisher) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = p.client.Flush(ctx)
	p.client.Close()
}

// LogPublisher is the audit sink used when Kafka is not configured: every
// event still lands in the structured log.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Emit(ctx context.Context, event ports.AuditEvent) error {
	p.logger.InfoContext(ctx, "audit event",
		"action", event.Action,
		"company_id", event.CompanyID,
		"session_id", event.SessionID,
		"details", event.Details,
		"log_type", "audit",
	)
	return nil
}

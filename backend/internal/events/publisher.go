// Package events publishes honor application lifecycle events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"honors_gwa/backend/internal/shared"
)

// Event types
const (
	TypeApplicationSubmitted     = "application.submitted"
	TypeApplicationStatusChanged = "application.status_changed"
)

// ApplicationEvent is the JSON value of every published message.
type ApplicationEvent struct {
	Type          string                   `json:"type"`
	ApplicationID string                   `json:"application_id"`
	StudentID     string                   `json:"student_id"`
	PeriodID      string                   `json:"period_id"`
	HonorType     shared.HonorType         `json:"honor_type"`
	Status        shared.ApplicationStatus `json:"status"`
	PreviousState shared.ApplicationStatus `json:"previous_status,omitempty"`
	GWA           string                   `json:"gwa"`
	ReviewedBy    string                   `json:"reviewed_by,omitempty"`
	OccurredAt    time.Time                `json:"occurred_at"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes application events keyed by student id, so one student's
// events stay ordered within a partition. With no brokers configured it
// drops every event.
type Publisher struct {
	writer messageWriter
	topic  string
	now    func() time.Time
}

// NewPublisher creates a Publisher for the configured brokers and topic
func NewPublisher(cfg shared.KafkaConfig) *Publisher {
	if len(cfg.Brokers) == 0 {
		return &Publisher{topic: cfg.Topic, now: time.Now}
	}
	if strings.TrimSpace(cfg.Topic) == "" {
		cfg.Topic = shared.DefaultKafkaTopic
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		BatchTimeout:           50 * time.Millisecond,
	}
	return newPublisherWithWriter(w, cfg.Topic)
}

func newPublisherWithWriter(w messageWriter, topic string) *Publisher {
	return &Publisher{writer: w, topic: topic, now: time.Now}
}

// Enabled reports whether events reach a broker
func (p *Publisher) Enabled() bool { return p.writer != nil }

// ApplicationSubmitted publishes an application.submitted event
func (p *Publisher) ApplicationSubmitted(ctx context.Context, app shared.Application) error {
	return p.publish(ctx, p.event(TypeApplicationSubmitted, app, ""))
}

// ApplicationStatusChanged publishes an application.status_changed event
func (p *Publisher) ApplicationStatusChanged(ctx context.Context, app shared.Application, from shared.ApplicationStatus) error {
	return p.publish(ctx, p.event(TypeApplicationStatusChanged, app, from))
}

func (p *Publisher) event(typ string, app shared.Application, from shared.ApplicationStatus) ApplicationEvent {
	return ApplicationEvent{
		Type:          typ,
		ApplicationID: app.ID,
		StudentID:     app.StudentID,
		PeriodID:      app.PeriodID,
		HonorType:     app.HonorType,
		Status:        app.Status,
		PreviousState: from,
		GWA:           app.GWA.StringFixed(2),
		ReviewedBy:    app.ReviewedBy,
		OccurredAt:    p.now().UTC(),
	}
}

func (p *Publisher) publish(ctx context.Context, ev ApplicationEvent) error {
	if p.writer == nil {
		return nil
	}
	value, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", ev.Type, err)
	}
	msg := kafka.Message{
		Key:     []byte(ev.StudentID),
		Value:   value,
		Headers: []kafka.Header{{Key: "event-type", Value: []byte(ev.Type)}},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write %s event: %w", ev.Type, err)
	}
	return nil
}

// Close flushes and closes the underlying writer
func (p *Publisher) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

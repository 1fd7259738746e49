// Package events publishes one event per processed query to NATS.
package events

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"airport-query-engine/internal/common/logger"
)

// Conn is the part of *nats.Conn the publisher needs.
type Conn interface {
	Publish(subject string, data []byte) error
}

// QueryEvent describes one processed query. Entities and answers are not
// included.
type QueryEvent struct {
	ID         string    `json:"id"`
	Intent     string    `json:"intent"`
	Status     string    `json:"status"`
	DurationMs int64     `json:"durationMs"`
	Timestamp  time.Time `json:"timestamp"`
}

// Publisher implements the registry observer by publishing QueryEvents on
// <prefix>.<status>.
type Publisher struct {
	conn   Conn
	prefix string
	logger logger.Logger
	now    func() time.Time
	newID  func() string
}

func NewPublisher(conn Conn, prefix string, log logger.Logger) *Publisher {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Publisher{
		conn:   conn,
		prefix: strings.TrimSuffix(prefix, "."),
		logger: log.With(map[string]interface{}{"component": "events"}),
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Subject returns the subject events with status are published on.
func (p *Publisher) Subject(status string) string {
	if status == "" {
		status = "unknown"
	}
	return p.prefix + "." + status
}

// RecordQuery publishes the event. Failures are logged and never reach the caller.
func (p *Publisher) RecordQuery(_ context.Context, intent, status string, duration time.Duration) {
	ev := QueryEvent{
		ID:         p.newID(),
		Intent:     intent,
		Status:     status,
		DurationMs: duration.Milliseconds(),
		Timestamp:  p.now().UTC(),
	}
	data, err := json.Marshal(ev)
	if err != nil {
		p.logger.Warn("query event not encoded", map[string]interface{}{"error": err.Error()})
		return
	}
	if err := p.conn.Publish(p.Subject(status), data); err != nil {
		p.logger.Warn("query event not published", map[string]interface{}{
			"subject": p.Subject(status),
			"error":   err.Error(),
		})
	}
}

// Package billing tracks processed payment-provider webhook events so
// redeliveries reconcile to no-ops.
package billing

import (
	"context"
	"fmt"
	"time"
)

// WebhookEvent is a processed provider event.
type WebhookEvent struct {
	id          uint
	eventID     string
	eventType   string
	processedAt time.Time
}

func NewWebhookEvent(eventID, eventType string) (*WebhookEvent, error) {
	if eventID == "" {
		return nil, fmt.Errorf("event ID is required")
	}
	if eventType == "" {
		return nil, fmt.Errorf("event type is required")
	}
	return &WebhookEvent{
		eventID:     eventID,
		eventType:   eventType,
		processedAt: time.Now().UTC(),
	}, nil
}

func ReconstructWebhookEvent(id uint, eventID, eventType string, processedAt time.Time) *WebhookEvent {
	return &WebhookEvent{id: id, eventID: eventID, eventType: eventType, processedAt: processedAt}
}

func (e *WebhookEvent) ID() uint               { return e.id }
func (e *WebhookEvent) EventID() string        { return e.eventID }
func (e *WebhookEvent) EventType() string      { return e.eventType }
func (e *WebhookEvent) ProcessedAt() time.Time { return e.processedAt }

// WebhookEventRepository records event IDs with a uniqueness guarantee.
type WebhookEventRepository interface {
	// MarkProcessed records the event and reports whether this was the first
	// delivery. A duplicate insert returns false with no error.
	MarkProcessed(ctx context.Context, eventID, eventType string) (bool, error)
}

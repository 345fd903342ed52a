package models

import "time"

// WebhookEventModel records processed provider event IDs. The unique index
// on EventID is what makes redelivered webhooks reconcile to no-ops.
type WebhookEventModel struct {
	ID          uint   `gorm:"primaryKey"`
	EventID     string `gorm:"uniqueIndex;size:128;not null"`
	EventType   string `gorm:"size:64;not null"`
	ProcessedAt time.Time
}

func (WebhookEventModel) TableName() string {
	return "webhook_events"
}

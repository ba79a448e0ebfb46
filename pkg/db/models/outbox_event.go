package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/dulcismaison/dulcis-backend/pkg/enums"
)

// OutboxEvent represents an append-only event emitted via the outbox pattern.
type OutboxEvent struct {
	ID            uuid.UUID                 `gorm:"column:id;type:uuid;primaryKey"`
	EventType     enums.OutboxEventType     `gorm:"column:event_type;size:50;not null"`
	AggregateType enums.OutboxAggregateType `gorm:"column:aggregate_type;size:50;not null"`
	AggregateID   string                    `gorm:"column:aggregate_id;size:64;not null"`
	Payload       json.RawMessage           `gorm:"column:payload;type:jsonb;not null"`
	CreatedAt     time.Time                 `gorm:"column:created_at;autoCreateTime;index"`
	PublishedAt   *time.Time                `gorm:"column:published_at"`
	AttemptCount  int                       `gorm:"column:attempt_count;not null;default:0"`
	LastError     *string                   `gorm:"column:last_error"`
}

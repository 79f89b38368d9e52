package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type OutboxStatus string

const (
	OutboxStatusPending   OutboxStatus = "PENDING"
	OutboxStatusProcessed OutboxStatus = "PROCESSED"
	OutboxStatusFailed    OutboxStatus = "FAILED"
)

// ChangeEvent is the payload published on a collection's change channel. The
// event id matches the staged outbox row, so a subscriber that also staged
// the write can tell its own echo from a foreign one.
type ChangeEvent struct {
	EventID    uuid.UUID       `json:"event_id"`
	Collection string          `json:"collection"`
	Action     string          `json:"action"`
	RecordID   uuid.UUID       `json:"record_id"`
	Row        json.RawMessage `json:"row,omitempty"`
}

// OutboxEvent is a change event staged in the store until the feed worker
// publishes it. Events may be delivered out of request order relative to an
// in-flight submit; the last write observed is authoritative for display.
type OutboxEvent struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	Collection   string          `db:"collection" json:"collection"`
	Action       string          `db:"action" json:"action"`
	Payload      json.RawMessage `db:"payload" json:"payload"`
	Status       OutboxStatus    `db:"status" json:"status"`
	ErrorMessage *string         `db:"error_message" json:"error_message,omitempty"`
	RetryCount   int             `db:"retry_count" json:"retry_count"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	ProcessedAt  *time.Time      `db:"processed_at" json:"processed_at,omitempty"`
}

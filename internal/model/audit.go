package model

import (
	"time"

	"github.com/google/uuid"
)

type AuditLog struct {
	ID         uuid.UUID `db:"id" json:"id"`
	ActorID    uuid.UUID `db:"actor_id" json:"actor_id"`
	Action     string    `db:"action" json:"action"`
	EntityType string    `db:"entity_type" json:"entity_type"`
	EntityID   uuid.UUID `db:"entity_id" json:"entity_id"`
	Changes    string    `db:"changes" json:"changes,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

type AuditFilters struct {
	ActorID    uuid.UUID
	EntityType string
	StartDate  time.Time
	EndDate    time.Time
}

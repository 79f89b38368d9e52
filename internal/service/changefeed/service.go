// Package changefeed stages record change events so subscribers see every
// create, update and delete on a collection. Events are written to the store
// in the same request that mutated the record; a background processor
// publishes them to the broker afterwards.
package changefeed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/odontocare/clinic-api/internal/model"
	"github.com/odontocare/clinic-api/internal/repository"
	"github.com/odontocare/clinic-api/pkg/logger"
)

const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

type Service struct {
	repo   repository.OutboxRepository
	logger *logger.Logger
	mirror *Follower
}

func NewService(repo repository.OutboxRepository, logger *logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Mirror attaches a feed follower so locally staged writes are visible on
// the mirror before their feed echo arrives.
func (s *Service) Mirror(f *Follower) {
	s.mirror = f
}

// Record stages a change event for the collection. A staging failure is
// logged but never fails the request that made the change; the record write
// already succeeded.
func (s *Service) Record(ctx context.Context, collection, action string, recordID uuid.UUID, row interface{}) {
	var rowJSON json.RawMessage
	if row != nil {
		b, err := json.Marshal(row)
		if err != nil {
			s.logger.Error(err, "Failed to marshal change event row",
				"collection", collection, "record_id", recordID.String())
			return
		}
		rowJSON = b
	}

	eventID := uuid.New()
	payload, err := json.Marshal(model.ChangeEvent{
		EventID:    eventID,
		Collection: collection,
		Action:     action,
		RecordID:   recordID,
		Row:        rowJSON,
	})
	if err != nil {
		s.logger.Error(err, "Failed to marshal change event",
			"collection", collection, "record_id", recordID.String())
		return
	}

	event := &model.OutboxEvent{
		ID:         eventID,
		Collection: collection,
		Action:     action,
		Payload:    payload,
		Status:     model.OutboxStatusPending,
	}
	if err := s.repo.Create(ctx, event); err != nil {
		s.logger.Error(fmt.Errorf("stage change event: %w", err),
			"Failed to stage change event",
			"collection", collection, "record_id", recordID.String())
		return
	}

	if s.mirror != nil && action != ActionDelete {
		s.mirror.Stage(collection, recordID, eventID, rowJSON)
	}
}

// Collections lists every collection the services record changes for.
func Collections() []string {
	return []string{
		"patients", "appointments", "attendances", "prescriptions",
		"medicines", "documents", "budgets", "anamneses", "invoices",
	}
}

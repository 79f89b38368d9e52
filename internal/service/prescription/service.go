package prescription

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/odontocare/clinic-api/internal/identity"
	"github.com/odontocare/clinic-api/internal/model"
	"github.com/odontocare/clinic-api/internal/repository"
	"github.com/odontocare/clinic-api/internal/service/audit"
	"github.com/odontocare/clinic-api/internal/service/changefeed"
	apperrors "github.com/odontocare/clinic-api/pkg/errors"
	"github.com/odontocare/clinic-api/pkg/metrics"
)

type Service struct {
	repo    repository.PrescriptionRepository
	feed    *changefeed.Service
	auditor *audit.Service
	metrics *metrics.Metrics
}

func NewService(
	repo repository.PrescriptionRepository,
	feed *changefeed.Service,
	auditor *audit.Service,
	m *metrics.Metrics,
) *Service {
	return &Service{repo: repo, feed: feed, auditor: auditor, metrics: m}
}

func (s *Service) create(ctx context.Context, p *model.Prescription) (*model.Prescription, error) {
	p.CreatedBy = identity.ActorID(ctx)
	if err := marshalLines(p); err != nil {
		return nil, apperrors.NewInternal(err)
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.metrics.DraftSubmissions.WithLabelValues("prescription", "error").Inc()
		return nil, err
	}
	s.metrics.DraftSubmissions.WithLabelValues("prescription", "success").Inc()

	s.feed.Record(ctx, "prescriptions", changefeed.ActionCreate, p.ID, p)
	s.auditor.Log(ctx, identity.ActorID(ctx), "create", "prescription", p.ID, p)
	return p, nil
}

func (s *Service) update(ctx context.Context, p *model.Prescription) (*model.Prescription, error) {
	if err := marshalLines(p); err != nil {
		return nil, apperrors.NewInternal(err)
	}

	if err := s.repo.Update(ctx, p); err != nil {
		s.metrics.DraftSubmissions.WithLabelValues("prescription", "error").Inc()
		return nil, err
	}
	s.metrics.DraftSubmissions.WithLabelValues("prescription", "success").Inc()

	s.feed.Record(ctx, "prescriptions", changefeed.ActionUpdate, p.ID, p)
	s.auditor.Log(ctx, identity.ActorID(ctx), "update", "prescription", p.ID, p)
	return p, nil
}

func (s *Service) GetPrescription(ctx context.Context, id uuid.UUID) (*model.Prescription, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := unmarshalLines(p); err != nil {
		return nil, apperrors.NewInternal(err)
	}
	return p, nil
}

// SetStatus moves the prescription to any valid status. There is no
// transition graph; the authoring doctor may set any status from any other.
func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, status model.PrescriptionStatus) (*model.Prescription, error) {
	if !status.Valid() {
		return nil, apperrors.NewValidation([]apperrors.Violation{{
			Field:   "status",
			Message: "unknown prescription status",
		}})
	}

	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Status = status

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	s.feed.Record(ctx, "prescriptions", changefeed.ActionUpdate, p.ID, p)
	s.auditor.Log(ctx, identity.ActorID(ctx), "update", "prescription", p.ID, p)
	if err := unmarshalLines(p); err != nil {
		return nil, apperrors.NewInternal(err)
	}
	return p, nil
}

func (s *Service) DeletePrescription(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.feed.Record(ctx, "prescriptions", changefeed.ActionDelete, id, nil)
	s.auditor.Log(ctx, identity.ActorID(ctx), "delete", "prescription", id, nil)
	return nil
}

func (s *Service) ListPrescriptions(ctx context.Context, filters *model.PrescriptionFilters) ([]*model.Prescription, error) {
	prescriptions, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, err
	}
	for _, p := range prescriptions {
		if err := unmarshalLines(p); err != nil {
			return nil, apperrors.NewInternal(err)
		}
	}
	return prescriptions, nil
}

func marshalLines(p *model.Prescription) error {
	b, err := json.Marshal(p.Lines)
	if err != nil {
		return err
	}
	p.LinesJSON = string(b)
	return nil
}

func unmarshalLines(p *model.Prescription) error {
	if p.LinesJSON == "" {
		return nil
	}
	return json.Unmarshal([]byte(p.LinesJSON), &p.Lines)
}

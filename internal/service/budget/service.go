package budget

import (
	"context"
	"encoding/json"
	"time"

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
	repo    repository.BudgetRepository
	feed    *changefeed.Service
	auditor *audit.Service
	metrics *metrics.Metrics
}

func NewService(
	repo repository.BudgetRepository,
	feed *changefeed.Service,
	auditor *audit.Service,
	m *metrics.Metrics,
) *Service {
	return &Service{repo: repo, feed: feed, auditor: auditor, metrics: m}
}

func (s *Service) create(ctx context.Context, b *model.Budget) (*model.Budget, error) {
	b.CreatedBy = identity.ActorID(ctx)
	if err := marshalItems(b); err != nil {
		return nil, apperrors.NewInternal(err)
	}

	if err := s.repo.Create(ctx, b); err != nil {
		s.metrics.DraftSubmissions.WithLabelValues("budget", "error").Inc()
		return nil, err
	}
	s.metrics.DraftSubmissions.WithLabelValues("budget", "success").Inc()

	s.feed.Record(ctx, "budgets", changefeed.ActionCreate, b.ID, b)
	s.auditor.Log(ctx, identity.ActorID(ctx), "create", "budget", b.ID, b)
	return b, nil
}

func (s *Service) GetBudget(ctx context.Context, id uuid.UUID) (*model.Budget, error) {
	b, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := unmarshalItems(b); err != nil {
		return nil, apperrors.NewInternal(err)
	}
	return b, nil
}

// Approve moves the budget to approved. The move is one-way and idempotent:
// approving an already approved budget keeps the original approval time and
// writes nothing.
func (s *Service) Approve(ctx context.Context, id uuid.UUID) (*model.Budget, error) {
	b, err := s.GetBudget(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status == model.BudgetStatusApproved {
		return b, nil
	}

	now := time.Now()
	b.Status = model.BudgetStatusApproved
	b.ApprovedAt = &now

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}

	s.feed.Record(ctx, "budgets", changefeed.ActionUpdate, b.ID, b)
	s.auditor.Log(ctx, identity.ActorID(ctx), "approve", "budget", b.ID, b)
	return b, nil
}

func (s *Service) DeleteBudget(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.feed.Record(ctx, "budgets", changefeed.ActionDelete, id, nil)
	s.auditor.Log(ctx, identity.ActorID(ctx), "delete", "budget", id, nil)
	return nil
}

func (s *Service) ListBudgets(ctx context.Context, filters *model.BudgetFilters) ([]*model.Budget, error) {
	budgets, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, err
	}
	for _, b := range budgets {
		if err := unmarshalItems(b); err != nil {
			return nil, apperrors.NewInternal(err)
		}
	}
	return budgets, nil
}

func marshalItems(b *model.Budget) error {
	data, err := json.Marshal(b.Items)
	if err != nil {
		return err
	}
	b.ItemsJSON = string(data)
	return nil
}

func unmarshalItems(b *model.Budget) error {
	if b.ItemsJSON == "" {
		return nil
	}
	return json.Unmarshal([]byte(b.ItemsJSON), &b.Items)
}

package medicine

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/odontocare/clinic-api/internal/identity"
	"github.com/odontocare/clinic-api/internal/model"
	"github.com/odontocare/clinic-api/internal/repository"
	"github.com/odontocare/clinic-api/internal/service/audit"
	"github.com/odontocare/clinic-api/internal/service/changefeed"
	apperrors "github.com/odontocare/clinic-api/pkg/errors"
)

const catalogCacheKey = "medicines:catalog"

// Service manages the medicine catalog. The full catalog is read on every
// prescription draft, so it is held in a short-lived cache that any write
// invalidates.
type Service struct {
	repo    repository.MedicineRepository
	feed    *changefeed.Service
	auditor *audit.Service
	cache   *gocache.Cache
}

func NewService(repo repository.MedicineRepository, feed *changefeed.Service, auditor *audit.Service) *Service {
	return &Service{
		repo:    repo,
		feed:    feed,
		auditor: auditor,
		cache:   gocache.New(5*time.Minute, 10*time.Minute),
	}
}

func (s *Service) CreateMedicine(ctx context.Context, req *model.CreateMedicineRequest) (*model.Medicine, error) {
	var violations []apperrors.Violation
	if strings.TrimSpace(req.Name) == "" {
		violations = append(violations, apperrors.Violation{Field: "name", Message: "name is required"})
	}
	if strings.TrimSpace(req.Category) == "" {
		violations = append(violations, apperrors.Violation{Field: "category", Message: "category is required"})
	}
	if req.Price < 0 {
		violations = append(violations, apperrors.Violation{Field: "price", Message: "price cannot be negative"})
	}
	if len(violations) > 0 {
		return nil, apperrors.NewValidation(violations)
	}

	m := &model.Medicine{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedBy: identity.ActorID(ctx),
		},
		Name:          strings.TrimSpace(req.Name),
		Category:      strings.TrimSpace(req.Category),
		Strength:      req.Strength,
		Form:          req.Form,
		Manufacturer:  req.Manufacturer,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		ReorderLevel:  req.ReorderLevel,
		Active:        true,
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	s.cache.Delete(catalogCacheKey)

	s.feed.Record(ctx, "medicines", changefeed.ActionCreate, m.ID, m)
	s.auditor.Log(ctx, identity.ActorID(ctx), "create", "medicine", m.ID, m)
	return m, nil
}

func (s *Service) GetMedicine(ctx context.Context, id uuid.UUID) (*model.Medicine, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) UpdateMedicine(ctx context.Context, id uuid.UUID, req *model.UpdateMedicineRequest) (*model.Medicine, error) {
	m, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		m.Name = *req.Name
	}
	if req.Category != nil {
		m.Category = *req.Category
	}
	if req.Strength != nil {
		m.Strength = *req.Strength
	}
	if req.Form != nil {
		m.Form = *req.Form
	}
	if req.Manufacturer != nil {
		m.Manufacturer = *req.Manufacturer
	}
	if req.Price != nil {
		m.Price = *req.Price
	}
	if req.StockQuantity != nil {
		m.StockQuantity = *req.StockQuantity
	}
	if req.ReorderLevel != nil {
		m.ReorderLevel = *req.ReorderLevel
	}
	if req.Active != nil {
		m.Active = *req.Active
	}

	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	s.cache.Delete(catalogCacheKey)

	s.feed.Record(ctx, "medicines", changefeed.ActionUpdate, m.ID, m)
	s.auditor.Log(ctx, identity.ActorID(ctx), "update", "medicine", m.ID, m)
	return m, nil
}

func (s *Service) DeleteMedicine(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Delete(catalogCacheKey)

	s.feed.Record(ctx, "medicines", changefeed.ActionDelete, id, nil)
	s.auditor.Log(ctx, identity.ActorID(ctx), "delete", "medicine", id, nil)
	return nil
}

func (s *Service) ListMedicines(ctx context.Context, filters *model.MedicineFilters) ([]*model.Medicine, error) {
	return s.repo.List(ctx, filters)
}

// Catalog returns the active catalog, cached between writes.
func (s *Service) Catalog(ctx context.Context) ([]*model.Medicine, error) {
	if cached, ok := s.cache.Get(catalogCacheKey); ok {
		return cached.([]*model.Medicine), nil
	}

	medicines, err := s.repo.List(ctx, &model.MedicineFilters{ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	s.cache.Set(catalogCacheKey, medicines, gocache.DefaultExpiration)
	return medicines, nil
}

// AdjustStock applies a signed stock delta and records the movement.
func (s *Service) AdjustStock(ctx context.Context, medicineID uuid.UUID, delta int, reason string) error {
	if delta == 0 {
		return apperrors.NewValidation([]apperrors.Violation{{
			Field:   "delta",
			Message: "delta cannot be zero",
		}})
	}

	m, err := s.repo.Get(ctx, medicineID)
	if err != nil {
		return err
	}
	if m.StockQuantity+delta < 0 {
		return apperrors.NewValidation([]apperrors.Violation{{
			Field:   "delta",
			Message: "stock cannot go negative",
		}})
	}

	movement := &model.StockMovement{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedBy: identity.ActorID(ctx),
		},
		MedicineID: medicineID,
		Delta:      delta,
		Reason:     reason,
	}
	if err := s.repo.AdjustStock(ctx, movement); err != nil {
		return err
	}
	s.cache.Delete(catalogCacheKey)

	s.feed.Record(ctx, "medicines", changefeed.ActionUpdate, medicineID, movement)
	s.auditor.Log(ctx, identity.ActorID(ctx), "adjust_stock", "medicine", medicineID, movement)
	return nil
}

func (s *Service) ListStockMovements(ctx context.Context, medicineID uuid.UUID) ([]*model.StockMovement, error) {
	return s.repo.ListStockMovements(ctx, medicineID)
}

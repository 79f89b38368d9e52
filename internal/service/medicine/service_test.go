package medicine

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odontocare/clinic-api/internal/model"
	"github.com/odontocare/clinic-api/internal/repository"
	"github.com/odontocare/clinic-api/internal/service/audit"
	"github.com/odontocare/clinic-api/internal/service/changefeed"
	apperrors "github.com/odontocare/clinic-api/pkg/errors"
	"github.com/odontocare/clinic-api/pkg/logger"
)

type fakeMedicineRepo struct {
	listCalls   int
	adjustCalls int
	stored      *model.Medicine
	movements   []*model.StockMovement
}

func (f *fakeMedicineRepo) Create(ctx context.Context, m *model.Medicine) error {
	f.stored = m
	return nil
}

func (f *fakeMedicineRepo) Get(ctx context.Context, id uuid.UUID) (*model.Medicine, error) {
	if f.stored == nil {
		return nil, apperrors.NewNotFound("medicine", nil)
	}
	return f.stored, nil
}

func (f *fakeMedicineRepo) Update(ctx context.Context, m *model.Medicine) error {
	f.stored = m
	return nil
}

func (f *fakeMedicineRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (f *fakeMedicineRepo) List(ctx context.Context, filters *model.MedicineFilters) ([]*model.Medicine, error) {
	f.listCalls++
	if f.stored == nil {
		return nil, nil
	}
	return []*model.Medicine{f.stored}, nil
}

func (f *fakeMedicineRepo) AdjustStock(ctx context.Context, movement *model.StockMovement) error {
	f.adjustCalls++
	f.movements = append(f.movements, movement)
	if f.stored != nil {
		f.stored.StockQuantity += movement.Delta
	}
	return nil
}

func (f *fakeMedicineRepo) ListStockMovements(ctx context.Context, medicineID uuid.UUID) ([]*model.StockMovement, error) {
	return f.movements, nil
}

type fakeOutboxRepo struct{}

func (f *fakeOutboxRepo) Create(ctx context.Context, event *model.OutboxEvent) error { return nil }
func (f *fakeOutboxRepo) GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errMessage *string) error {
	return nil
}

func (f *fakeOutboxRepo) DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

type fakeAuditRepo struct{}

func (f *fakeAuditRepo) Create(ctx context.Context, log *model.AuditLog) error { return nil }
func (f *fakeAuditRepo) List(ctx context.Context, filters *model.AuditFilters) ([]*model.AuditLog, error) {
	return nil, nil
}

var _ repository.MedicineRepository = (*fakeMedicineRepo)(nil)
var _ repository.OutboxRepository = (*fakeOutboxRepo)(nil)
var _ repository.AuditRepository = (*fakeAuditRepo)(nil)

func newTestService(repo *fakeMedicineRepo) *Service {
	l := logger.NewLogger(&logger.Config{
		Level:      logger.ErrorLevel,
		TimeFormat: time.RFC3339,
		Output:     io.Discard,
	})
	return NewService(repo, changefeed.NewService(&fakeOutboxRepo{}, l), audit.NewService(&fakeAuditRepo{}))
}

func TestCreateMedicineValidation(t *testing.T) {
	svc := newTestService(&fakeMedicineRepo{})

	_, err := svc.CreateMedicine(context.Background(), &model.CreateMedicineRequest{
		Name:     "  ",
		Category: "",
		Price:    -1,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrValidation))

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Len(t, appErr.Violations, 3)
}

func TestCatalogIsCachedBetweenWrites(t *testing.T) {
	repo := &fakeMedicineRepo{stored: &model.Medicine{
		Base:   model.Base{ID: uuid.New()},
		Name:   "Amoxicillin",
		Active: true,
	}}
	svc := newTestService(repo)

	_, err := svc.Catalog(context.Background())
	require.NoError(t, err)
	_, err = svc.Catalog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listCalls, "the second read is served from cache")

	// Any write invalidates the cached catalog.
	newPrice := 12.50
	_, err = svc.UpdateMedicine(context.Background(), repo.stored.ID, &model.UpdateMedicineRequest{
		Price: &newPrice,
	})
	require.NoError(t, err)

	_, err = svc.Catalog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, repo.listCalls)
}

func TestAdjustStock(t *testing.T) {
	repo := &fakeMedicineRepo{stored: &model.Medicine{
		Base:          model.Base{ID: uuid.New()},
		Name:          "Amoxicillin",
		StockQuantity: 10,
		Active:        true,
	}}
	svc := newTestService(repo)

	require.NoError(t, svc.AdjustStock(context.Background(), repo.stored.ID, -4, "dispensed"))
	assert.Equal(t, 6, repo.stored.StockQuantity)

	require.Len(t, repo.movements, 1)
	assert.Equal(t, -4, repo.movements[0].Delta)
	assert.Equal(t, "dispensed", repo.movements[0].Reason)
}

func TestAdjustStockRejectsZeroDelta(t *testing.T) {
	repo := &fakeMedicineRepo{stored: &model.Medicine{
		Base:          model.Base{ID: uuid.New()},
		StockQuantity: 10,
	}}
	svc := newTestService(repo)

	err := svc.AdjustStock(context.Background(), repo.stored.ID, 0, "noop")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrValidation))
	assert.Zero(t, repo.adjustCalls)
}

func TestAdjustStockRejectsNegativeResult(t *testing.T) {
	repo := &fakeMedicineRepo{stored: &model.Medicine{
		Base:          model.Base{ID: uuid.New()},
		StockQuantity: 3,
	}}
	svc := newTestService(repo)

	err := svc.AdjustStock(context.Background(), repo.stored.ID, -5, "dispensed")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrValidation))
	assert.Zero(t, repo.adjustCalls)
	assert.Equal(t, 3, repo.stored.StockQuantity)
}

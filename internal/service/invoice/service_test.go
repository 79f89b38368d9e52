package invoice

import (
	"context"
	"fmt"
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

type fakeInvoiceRepo struct {
	createCalls int
	updateCalls int
	stored      *model.Invoice
	seq         int
}

func (f *fakeInvoiceRepo) Create(ctx context.Context, inv *model.Invoice) error {
	f.createCalls++
	f.stored = inv
	return nil
}

func (f *fakeInvoiceRepo) Get(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	if f.stored == nil {
		return nil, apperrors.NewNotFound("invoice", nil)
	}
	return f.stored, nil
}

func (f *fakeInvoiceRepo) Update(ctx context.Context, inv *model.Invoice) error {
	f.updateCalls++
	f.stored = inv
	return nil
}

func (f *fakeInvoiceRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }
func (f *fakeInvoiceRepo) List(ctx context.Context, filters *model.InvoiceFilters) ([]*model.Invoice, error) {
	return nil, nil
}

func (f *fakeInvoiceRepo) NextNumber(ctx context.Context) (string, error) {
	f.seq++
	return fmt.Sprintf("INV-2026-%06d", f.seq), nil
}

type fakePatientRepo struct {
	patient *model.Patient
}

func (f *fakePatientRepo) Create(ctx context.Context, p *model.Patient) error { return nil }

func (f *fakePatientRepo) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	if f.patient == nil {
		return nil, apperrors.NewNotFound("patient", nil)
	}
	return f.patient, nil
}

func (f *fakePatientRepo) Update(ctx context.Context, p *model.Patient) error { return nil }
func (f *fakePatientRepo) Delete(ctx context.Context, id uuid.UUID) error     { return nil }
func (f *fakePatientRepo) List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error) {
	return nil, nil
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

var _ repository.InvoiceRepository = (*fakeInvoiceRepo)(nil)
var _ repository.PatientRepository = (*fakePatientRepo)(nil)
var _ repository.OutboxRepository = (*fakeOutboxRepo)(nil)
var _ repository.AuditRepository = (*fakeAuditRepo)(nil)

func newTestService(repo *fakeInvoiceRepo, patients *fakePatientRepo) *Service {
	l := logger.NewLogger(&logger.Config{
		Level:      logger.ErrorLevel,
		TimeFormat: time.RFC3339,
		Output:     io.Discard,
	})
	return NewService(repo, patients, changefeed.NewService(&fakeOutboxRepo{}, l), audit.NewService(&fakeAuditRepo{}))
}

func testPatient() *model.Patient {
	return &model.Patient{
		Base:  model.Base{ID: uuid.New()},
		Name:  "Maria Souza",
		Phone: "11 99999-0000",
	}
}

func TestCreateInvoice(t *testing.T) {
	repo := &fakeInvoiceRepo{}
	patients := &fakePatientRepo{patient: testPatient()}
	svc := newTestService(repo, patients)

	inv, err := svc.CreateInvoice(context.Background(), &CreateInvoiceRequest{
		PatientID: patients.patient.ID,
		Items: []model.InvoiceItem{
			{Description: "Limpeza", Amount: 150},
			{Description: "Restauração", Amount: 250.50},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, repo.createCalls)
	assert.Equal(t, "INV-2026-000001", inv.Number)
	assert.Equal(t, 400.50, inv.Total, "total is the sum of the item amounts")
	assert.Equal(t, model.InvoiceStatusPending, inv.Status)
	assert.Equal(t, model.PaymentMethodUnspecified, inv.PaymentMethod)
	assert.Equal(t, "Maria Souza", inv.Patient.Name)
}

func TestCreateInvoiceValidation(t *testing.T) {
	repo := &fakeInvoiceRepo{}
	svc := newTestService(repo, &fakePatientRepo{patient: testPatient()})

	_, err := svc.CreateInvoice(context.Background(), &CreateInvoiceRequest{
		PatientID: uuid.New(),
		Items: []model.InvoiceItem{
			{Description: "", Amount: -10},
		},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrValidation))
	assert.Zero(t, repo.createCalls)
	assert.Zero(t, repo.seq, "a rejected invoice must not burn a number")
}

func TestMarkPaidKeepsMethodOnRecord(t *testing.T) {
	repo := &fakeInvoiceRepo{stored: &model.Invoice{
		Base:          model.Base{ID: uuid.New()},
		Status:        model.InvoiceStatusPending,
		PaymentMethod: model.PaymentMethodUnspecified,
	}}
	svc := newTestService(repo, &fakePatientRepo{})

	inv, err := svc.MarkPaid(context.Background(), repo.stored.ID, model.PaymentMethodCard)
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusPaid, inv.Status)
	assert.Equal(t, model.PaymentMethodCard, inv.PaymentMethod)
	assert.Equal(t, 1, repo.updateCalls)
}

func TestMarkPaidRejectsUnknownMethod(t *testing.T) {
	repo := &fakeInvoiceRepo{stored: &model.Invoice{
		Base:   model.Base{ID: uuid.New()},
		Status: model.InvoiceStatusPending,
	}}
	svc := newTestService(repo, &fakePatientRepo{})

	_, err := svc.MarkPaid(context.Background(), repo.stored.ID, model.PaymentMethod("check"))
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrValidation))
	assert.Zero(t, repo.updateCalls)
}

func TestMarkOverdueRejectsPaidInvoice(t *testing.T) {
	repo := &fakeInvoiceRepo{stored: &model.Invoice{
		Base:          model.Base{ID: uuid.New()},
		Status:        model.InvoiceStatusPaid,
		PaymentMethod: model.PaymentMethodCash,
	}}
	svc := newTestService(repo, &fakePatientRepo{})

	_, err := svc.MarkOverdue(context.Background(), repo.stored.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrValidation))
	assert.Zero(t, repo.updateCalls)
}

func TestMarkOverdue(t *testing.T) {
	repo := &fakeInvoiceRepo{stored: &model.Invoice{
		Base:   model.Base{ID: uuid.New()},
		Status: model.InvoiceStatusPending,
	}}
	svc := newTestService(repo, &fakePatientRepo{})

	inv, err := svc.MarkOverdue(context.Background(), repo.stored.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusOverdue, inv.Status)
}

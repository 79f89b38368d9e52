package budget

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odontocare/clinic-api/internal/model"
	"github.com/odontocare/clinic-api/internal/repository"
	"github.com/odontocare/clinic-api/internal/service/audit"
	"github.com/odontocare/clinic-api/internal/service/changefeed"
	apperrors "github.com/odontocare/clinic-api/pkg/errors"
	"github.com/odontocare/clinic-api/pkg/logger"
	"github.com/odontocare/clinic-api/pkg/metrics"
)

var testMetrics = metrics.NewMetrics("clinic", "budget_test")

type fakeBudgetRepo struct {
	createCalls int
	updateCalls int
	stored      *model.Budget
}

func (f *fakeBudgetRepo) Create(ctx context.Context, b *model.Budget) error {
	f.createCalls++
	f.stored = b
	return nil
}

func (f *fakeBudgetRepo) Get(ctx context.Context, id uuid.UUID) (*model.Budget, error) {
	if f.stored == nil {
		return nil, apperrors.NewNotFound("budget", nil)
	}
	return f.stored, nil
}

func (f *fakeBudgetRepo) Update(ctx context.Context, b *model.Budget) error {
	f.updateCalls++
	f.stored = b
	return nil
}

func (f *fakeBudgetRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }
func (f *fakeBudgetRepo) List(ctx context.Context, filters *model.BudgetFilters) ([]*model.Budget, error) {
	return nil, nil
}

type fakeOutboxRepo struct {
	events []*model.OutboxEvent
}

func (f *fakeOutboxRepo) Create(ctx context.Context, event *model.OutboxEvent) error {
	f.events = append(f.events, event)
	return nil
}

func (f *fakeOutboxRepo) GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	return f.events, nil
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

var _ repository.BudgetRepository = (*fakeBudgetRepo)(nil)
var _ repository.OutboxRepository = (*fakeOutboxRepo)(nil)
var _ repository.AuditRepository = (*fakeAuditRepo)(nil)

func newTestService(repo *fakeBudgetRepo) *Service {
	l := logger.NewLogger(&logger.Config{
		Level:      logger.ErrorLevel,
		TimeFormat: time.RFC3339,
		Output:     io.Discard,
	})
	return NewService(repo, changefeed.NewService(&fakeOutboxRepo{}, l), audit.NewService(&fakeAuditRepo{}), testMetrics)
}

func testPatient() *model.Patient {
	return &model.Patient{
		Base:  model.Base{ID: uuid.New()},
		Name:  "Maria Souza",
		Phone: "11 99999-0000",
	}
}

func TestDraftToggleTooth(t *testing.T) {
	draft := NewDraft(testPatient())

	require.NoError(t, draft.ToggleTooth(11))
	require.NoError(t, draft.ToggleTooth(21))
	assert.Equal(t, []int{11, 21}, draft.SelectedTeeth())

	// Toggling again deselects.
	require.NoError(t, draft.ToggleTooth(11))
	assert.Equal(t, []int{21}, draft.SelectedTeeth())
}

func TestDraftToggleToothRejectsInvalidNumber(t *testing.T) {
	draft := NewDraft(testPatient())

	err := draft.ToggleTooth(19)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrValidation))
	assert.Empty(t, draft.SelectedTeeth())

	// 55 belongs to the deciduous layout only.
	require.Error(t, draft.ToggleTooth(55))
	require.NoError(t, draft.SetDentition(model.DentitionDeciduous))
	require.NoError(t, draft.ToggleTooth(55))
	require.Error(t, draft.ToggleTooth(18))
}

func TestDraftSetDentitionClearsSelectionOnly(t *testing.T) {
	draft := NewDraft(testPatient())

	require.NoError(t, draft.ToggleTooth(11))
	require.NoError(t, draft.AddTreatmentItem("Restauração", "150"))
	require.NoError(t, draft.ToggleTooth(21))

	require.NoError(t, draft.SetDentition(model.DentitionDeciduous))
	assert.Empty(t, draft.SelectedTeeth(), "selection does not survive a layout switch")
	assert.Len(t, draft.Items(), 1, "committed items keep the dentition they were built under")
	assert.Equal(t, model.DentitionPermanent, draft.Items()[0].Dentition)

	// Re-setting the current dentition keeps the selection.
	require.NoError(t, draft.ToggleTooth(51))
	require.NoError(t, draft.SetDentition(model.DentitionDeciduous))
	assert.Equal(t, []int{51}, draft.SelectedTeeth())

	require.Error(t, draft.SetDentition(model.Dentition("mixed")))
}

func TestDraftAddTreatmentItem(t *testing.T) {
	draft := NewDraft(testPatient())

	require.NoError(t, draft.ToggleTooth(21))
	require.NoError(t, draft.ToggleTooth(11))
	require.NoError(t, draft.AddTreatmentItem("Canal", "300"))

	items := draft.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Canal", items[0].Procedure)
	assert.Equal(t, 300.0, items[0].Value)
	assert.Equal(t, []int{11, 21}, items[0].Teeth, "teeth are stored sorted")
	assert.Equal(t, model.DentitionPermanent, items[0].Dentition)
	assert.Empty(t, draft.SelectedTeeth(), "committing resets the chart")

	require.NoError(t, draft.AddTreatmentItem("Limpeza", "R$ 1.300,50"))
	assert.Equal(t, 1600.50, draft.Total())
}

func TestDraftAddTreatmentItemValidation(t *testing.T) {
	draft := NewDraft(testPatient())
	require.NoError(t, draft.ToggleTooth(11))

	err := draft.AddTreatmentItem("  ", "abc")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	fields := make(map[string]bool)
	for _, v := range appErr.Violations {
		fields[v.Field] = true
	}
	assert.True(t, fields["procedure"])
	assert.True(t, fields["value"])

	assert.Empty(t, draft.Items())
	assert.Equal(t, []int{11}, draft.SelectedTeeth(), "failed commit keeps the selection")
}

func TestParseValue(t *testing.T) {
	cases := []struct {
		raw     string
		want    float64
		wantErr bool
	}{
		{raw: "300", want: 300},
		{raw: "300.50", want: 300.50},
		{raw: "300,50", want: 300.50},
		{raw: "R$ 1.300,50", want: 1300.50},
		{raw: " R$300 ", want: 300},
		{raw: "abc", wantErr: true},
		{raw: "0", wantErr: true},
		{raw: "-50", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, tc := range cases {
		got, err := parseValue(tc.raw)
		if tc.wantErr {
			assert.Error(t, err, "parseValue(%q)", tc.raw)
			continue
		}
		require.NoError(t, err, "parseValue(%q)", tc.raw)
		assert.Equal(t, tc.want, got, "parseValue(%q)", tc.raw)
	}
}

func TestDraftRemoveTreatmentItem(t *testing.T) {
	draft := NewDraft(testPatient())
	require.NoError(t, draft.AddTreatmentItem("Canal", "300"))
	require.NoError(t, draft.AddTreatmentItem("Limpeza", "100"))

	draft.RemoveTreatmentItem(5)
	assert.Len(t, draft.Items(), 2)

	draft.RemoveTreatmentItem(0)
	require.Len(t, draft.Items(), 1)
	assert.Equal(t, "Limpeza", draft.Items()[0].Procedure)
	assert.Equal(t, 100.0, draft.Total())
}

func TestDraftSubmitValidationFailurePerformsNoIO(t *testing.T) {
	repo := &fakeBudgetRepo{}
	svc := newTestService(repo)

	draft := NewDraft(testPatient())
	draft.DueDay = 40

	failures := testutil.ToFloat64(testMetrics.ValidationFailures.WithLabelValues("budget"))
	_, err := draft.Submit(context.Background(), svc)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrValidation))
	assert.Equal(t, failures+1, testutil.ToFloat64(testMetrics.ValidationFailures.WithLabelValues("budget")))

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	fields := make(map[string]bool)
	for _, v := range appErr.Violations {
		fields[v.Field] = true
	}
	assert.True(t, fields["description"])
	assert.True(t, fields["items"])
	assert.True(t, fields["due_day"])

	assert.Zero(t, repo.createCalls, "validation failure must not touch the store")
}

func TestDraftSubmit(t *testing.T) {
	repo := &fakeBudgetRepo{}
	svc := newTestService(repo)

	pat := testPatient()
	draft := NewDraft(pat)
	draft.Description = "Tratamento de canal"
	draft.Installments = 3
	draft.DueDay = 10
	require.NoError(t, draft.ToggleTooth(11))
	require.NoError(t, draft.AddTreatmentItem("Canal", "300"))
	require.NoError(t, draft.AddTreatmentItem("Limpeza", "100,50"))

	b, err := draft.Submit(context.Background(), svc)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.createCalls)
	assert.Equal(t, pat.ID, b.PatientID)
	assert.Equal(t, model.BudgetStatusDraft, b.Status)
	assert.Equal(t, 400.50, b.Total, "total is derived from the items")
	assert.NotEmpty(t, b.ItemsJSON)
	assert.Nil(t, b.ApprovedAt)
}

func TestApproveIsOneWayAndIdempotent(t *testing.T) {
	repo := &fakeBudgetRepo{}
	svc := newTestService(repo)

	draft := NewDraft(testPatient())
	draft.Description = "Tratamento de canal"
	require.NoError(t, draft.AddTreatmentItem("Canal", "300"))
	b, err := draft.Submit(context.Background(), svc)
	require.NoError(t, err)

	approved, err := svc.Approve(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BudgetStatusApproved, approved.Status)
	require.NotNil(t, approved.ApprovedAt)
	assert.Equal(t, 1, repo.updateCalls)

	firstApproval := *approved.ApprovedAt

	again, err := svc.Approve(context.Background(), b.ID)
	require.NoError(t, err)
	require.NotNil(t, again.ApprovedAt)
	assert.Equal(t, firstApproval, *again.ApprovedAt, "re-approval keeps the original approval time")
	assert.Equal(t, 1, repo.updateCalls, "re-approval writes nothing")
}

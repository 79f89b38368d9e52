package anamnesis

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

type fakeAnamnesisRepo struct {
	createCalls int
	stored      *model.Anamnesis
}

func (f *fakeAnamnesisRepo) Create(ctx context.Context, a *model.Anamnesis) error {
	f.createCalls++
	f.stored = a
	return nil
}

func (f *fakeAnamnesisRepo) Get(ctx context.Context, id uuid.UUID) (*model.Anamnesis, error) {
	if f.stored == nil {
		return nil, apperrors.NewNotFound("anamnesis", nil)
	}
	return f.stored, nil
}

func (f *fakeAnamnesisRepo) Update(ctx context.Context, a *model.Anamnesis) error { return nil }
func (f *fakeAnamnesisRepo) Delete(ctx context.Context, id uuid.UUID) error       { return nil }
func (f *fakeAnamnesisRepo) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Anamnesis, error) {
	if f.stored == nil {
		return nil, nil
	}
	return []*model.Anamnesis{f.stored}, nil
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

var _ repository.AnamnesisRepository = (*fakeAnamnesisRepo)(nil)
var _ repository.OutboxRepository = (*fakeOutboxRepo)(nil)
var _ repository.AuditRepository = (*fakeAuditRepo)(nil)

func newTestService(repo *fakeAnamnesisRepo) *Service {
	l := logger.NewLogger(&logger.Config{
		Level:      logger.ErrorLevel,
		TimeFormat: time.RFC3339,
		Output:     io.Discard,
	})
	return NewService(repo, changefeed.NewService(&fakeOutboxRepo{}, l), audit.NewService(&fakeAuditRepo{}))
}

func TestCreateAnamnesis(t *testing.T) {
	repo := &fakeAnamnesisRepo{}
	svc := newTestService(repo)

	a, err := svc.CreateAnamnesis(context.Background(), &CreateAnamnesisRequest{
		PatientID: uuid.New(),
		Answers: map[string]model.AnamnesisAnswer{
			"diabetes":           model.AnswerNo,
			"smoker":             model.AnswerYes,
			"allergy_medication": model.AnswerYes,
		},
		Elaborations: map[string]string{
			"allergy_medication": "Penicillin",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, repo.createCalls)
	assert.False(t, a.Date.IsZero(), "an omitted date defaults to now")
	assert.NotEmpty(t, a.AnswersJSON)
}

func TestCreateAnamnesisRejectsUnknownQuestion(t *testing.T) {
	repo := &fakeAnamnesisRepo{}
	svc := newTestService(repo)

	_, err := svc.CreateAnamnesis(context.Background(), &CreateAnamnesisRequest{
		PatientID: uuid.New(),
		Answers: map[string]model.AnamnesisAnswer{
			"favorite_color": model.AnswerYes,
		},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrValidation))
	assert.Zero(t, repo.createCalls)
}

func TestCreateAnamnesisRejectsBadAnswer(t *testing.T) {
	svc := newTestService(&fakeAnamnesisRepo{})

	_, err := svc.CreateAnamnesis(context.Background(), &CreateAnamnesisRequest{
		PatientID: uuid.New(),
		Answers: map[string]model.AnamnesisAnswer{
			"diabetes": "maybe",
		},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrValidation))
}

func TestCreateAnamnesisAlarmQuestionNeedsElaboration(t *testing.T) {
	repo := &fakeAnamnesisRepo{}
	svc := newTestService(repo)

	req := &CreateAnamnesisRequest{
		PatientID: uuid.New(),
		Answers: map[string]model.AnamnesisAnswer{
			"heart_condition": model.AnswerYes,
		},
	}

	_, err := svc.CreateAnamnesis(context.Background(), req)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrValidation))
	assert.Zero(t, repo.createCalls)

	// A yes on a non-alarm question needs no elaboration.
	req.Answers = map[string]model.AnamnesisAnswer{"smoker": model.AnswerYes}
	_, err = svc.CreateAnamnesis(context.Background(), req)
	require.NoError(t, err)

	// A yes on an alarm question passes once elaborated.
	req.Answers = map[string]model.AnamnesisAnswer{"heart_condition": model.AnswerYes}
	req.Elaborations = map[string]string{"heart_condition": "Mitral valve prolapse"}
	_, err = svc.CreateAnamnesis(context.Background(), req)
	require.NoError(t, err)
}

func TestCreateAnamnesisRejectsStrayElaboration(t *testing.T) {
	svc := newTestService(&fakeAnamnesisRepo{})

	_, err := svc.CreateAnamnesis(context.Background(), &CreateAnamnesisRequest{
		PatientID: uuid.New(),
		Answers: map[string]model.AnamnesisAnswer{
			"diabetes": model.AnswerNo,
		},
		Elaborations: map[string]string{
			"not_a_question": "details",
		},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrValidation))
}

func TestQuestionSetIsFixed(t *testing.T) {
	questions := model.AnamnesisQuestions()
	assert.Len(t, questions, 15)
	for _, q := range questions {
		assert.True(t, model.KnownAnamnesisQuestion(q))
	}
	assert.True(t, model.AlarmQuestion("hepatitis"))
	assert.False(t, model.AlarmQuestion("smoker"))
}

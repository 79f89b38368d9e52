package anamnesis

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/odontocare/clinic-api/internal/form"
	"github.com/odontocare/clinic-api/internal/identity"
	"github.com/odontocare/clinic-api/internal/model"
	"github.com/odontocare/clinic-api/internal/repository"
	"github.com/odontocare/clinic-api/internal/service/audit"
	"github.com/odontocare/clinic-api/internal/service/changefeed"
	apperrors "github.com/odontocare/clinic-api/pkg/errors"
)

type CreateAnamnesisRequest struct {
	PatientID    uuid.UUID                        `json:"patient_id" binding:"required"`
	ModelName    string                           `json:"model_name"`
	Date         time.Time                        `json:"date"`
	Answers      map[string]model.AnamnesisAnswer `json:"answers" binding:"required"`
	Elaborations map[string]string                `json:"elaborations"`
	Observations string                           `json:"observations"`
}

type Service struct {
	repo    repository.AnamnesisRepository
	feed    *changefeed.Service
	auditor *audit.Service
}

func NewService(repo repository.AnamnesisRepository, feed *changefeed.Service, auditor *audit.Service) *Service {
	return &Service{repo: repo, feed: feed, auditor: auditor}
}

// CreateAnamnesis records a questionnaire. Answer keys must belong to the
// fixed question set, and an affirmative answer to an alarm question must
// carry an elaboration.
func (s *Service) CreateAnamnesis(ctx context.Context, req *CreateAnamnesisRequest) (*model.Anamnesis, error) {
	var v form.Violations
	for key, answer := range req.Answers {
		if !model.KnownAnamnesisQuestion(key) {
			v.Add(key, "unknown question")
			continue
		}
		if !answer.Valid() {
			v.Add(key, "answer must be yes, no or unsure")
			continue
		}
		if answer == model.AnswerYes && model.AlarmQuestion(key) {
			if strings.TrimSpace(req.Elaborations[key]) == "" {
				v.Add(key, "an affirmative answer to this question requires details")
			}
		}
	}
	for key := range req.Elaborations {
		if !model.KnownAnamnesisQuestion(key) {
			v.Add(key, "unknown question")
		}
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	date := req.Date
	if date.IsZero() {
		date = time.Now()
	}

	a := &model.Anamnesis{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedBy: identity.ActorID(ctx),
		},
		PatientID:    req.PatientID,
		ModelName:    req.ModelName,
		Date:         date,
		Answers:      req.Answers,
		Elaborations: req.Elaborations,
		Observations: req.Observations,
	}
	if err := marshalAnswers(a); err != nil {
		return nil, apperrors.NewInternal(err)
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	s.feed.Record(ctx, "anamneses", changefeed.ActionCreate, a.ID, a)
	s.auditor.Log(ctx, identity.ActorID(ctx), "create", "anamnesis", a.ID, a)
	return a, nil
}

func (s *Service) GetAnamnesis(ctx context.Context, id uuid.UUID) (*model.Anamnesis, error) {
	a, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := unmarshalAnswers(a); err != nil {
		return nil, apperrors.NewInternal(err)
	}
	return a, nil
}

func (s *Service) DeleteAnamnesis(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.feed.Record(ctx, "anamneses", changefeed.ActionDelete, id, nil)
	s.auditor.Log(ctx, identity.ActorID(ctx), "delete", "anamnesis", id, nil)
	return nil
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Anamnesis, error) {
	records, err := s.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	for _, a := range records {
		if err := unmarshalAnswers(a); err != nil {
			return nil, apperrors.NewInternal(err)
		}
	}
	return records, nil
}

func marshalAnswers(a *model.Anamnesis) error {
	answers, err := json.Marshal(a.Answers)
	if err != nil {
		return err
	}
	a.AnswersJSON = string(answers)

	elaborations, err := json.Marshal(a.Elaborations)
	if err != nil {
		return err
	}
	a.ElaborationsJSON = string(elaborations)
	return nil
}

func unmarshalAnswers(a *model.Anamnesis) error {
	if a.AnswersJSON != "" {
		if err := json.Unmarshal([]byte(a.AnswersJSON), &a.Answers); err != nil {
			return err
		}
	}
	if a.ElaborationsJSON != "" {
		if err := json.Unmarshal([]byte(a.ElaborationsJSON), &a.Elaborations); err != nil {
			return err
		}
	}
	return nil
}

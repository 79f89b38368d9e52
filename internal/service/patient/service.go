package patient

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/odontocare/clinic-api/internal/form"
	"github.com/odontocare/clinic-api/internal/identity"
	"github.com/odontocare/clinic-api/internal/model"
	"github.com/odontocare/clinic-api/internal/repository"
	"github.com/odontocare/clinic-api/internal/service/audit"
	"github.com/odontocare/clinic-api/internal/service/changefeed"
)

type PatientService interface {
	CreatePatient(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error)
	GetPatient(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	UpdatePatient(ctx context.Context, id uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error)
	DeletePatient(ctx context.Context, id uuid.UUID) error
	ListPatients(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error)
}

type Service struct {
	repo    repository.PatientRepository
	feed    *changefeed.Service
	auditor *audit.Service
}

func NewService(repo repository.PatientRepository, feed *changefeed.Service, auditor *audit.Service) *Service {
	return &Service{repo: repo, feed: feed, auditor: auditor}
}

// CreatePatient validates the request before touching the store; a request
// that fails validation performs no I/O at all.
func (s *Service) CreatePatient(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error) {
	var v form.Violations
	if strings.TrimSpace(req.Name) == "" {
		v.Add("name", "name is required")
	}
	if strings.TrimSpace(req.Phone) == "" {
		v.Add("phone", "phone is required")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	patient := &model.Patient{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedBy: identity.ActorID(ctx),
		},
		Name:             strings.TrimSpace(req.Name),
		Phone:            strings.TrimSpace(req.Phone),
		Email:            req.Email,
		CPF:              req.CPF,
		BirthDate:        req.BirthDate,
		Address:          req.Address,
		MedicalHistory:   req.MedicalHistory,
		Allergies:        req.Allergies,
		BloodType:        req.BloodType,
		EmergencyContact: req.EmergencyContact,
	}

	if err := s.repo.Create(ctx, patient); err != nil {
		return nil, err
	}

	s.feed.Record(ctx, "patients", changefeed.ActionCreate, patient.ID, patient)
	s.auditor.Log(ctx, identity.ActorID(ctx), "create", "patient", patient.ID, patient)
	return patient, nil
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) UpdatePatient(ctx context.Context, id uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var v form.Violations
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			v.Add("name", "name is required")
		} else {
			patient.Name = strings.TrimSpace(*req.Name)
		}
	}
	if req.Phone != nil {
		if strings.TrimSpace(*req.Phone) == "" {
			v.Add("phone", "phone is required")
		} else {
			patient.Phone = strings.TrimSpace(*req.Phone)
		}
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	if req.Email != nil {
		patient.Email = *req.Email
	}
	if req.CPF != nil {
		patient.CPF = *req.CPF
	}
	if req.BirthDate != nil {
		patient.BirthDate = req.BirthDate
	}
	if req.Address != nil {
		patient.Address = *req.Address
	}
	if req.MedicalHistory != nil {
		patient.MedicalHistory = *req.MedicalHistory
	}
	if req.Allergies != nil {
		patient.Allergies = *req.Allergies
	}
	if req.BloodType != nil {
		patient.BloodType = *req.BloodType
	}
	if req.EmergencyContact != nil {
		patient.EmergencyContact = *req.EmergencyContact
	}

	if err := s.repo.Update(ctx, patient); err != nil {
		return nil, err
	}

	s.feed.Record(ctx, "patients", changefeed.ActionUpdate, patient.ID, patient)
	s.auditor.Log(ctx, identity.ActorID(ctx), "update", "patient", patient.ID, patient)
	return patient, nil
}

func (s *Service) DeletePatient(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.feed.Record(ctx, "patients", changefeed.ActionDelete, id, nil)
	s.auditor.Log(ctx, identity.ActorID(ctx), "delete", "patient", id, nil)
	return nil
}

func (s *Service) ListPatients(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error) {
	return s.repo.List(ctx, filters)
}

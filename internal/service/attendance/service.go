package attendance

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/odontocare/clinic-api/internal/form"
	"github.com/odontocare/clinic-api/internal/identity"
	"github.com/odontocare/clinic-api/internal/model"
	"github.com/odontocare/clinic-api/internal/repository"
	"github.com/odontocare/clinic-api/internal/service/audit"
	"github.com/odontocare/clinic-api/internal/service/changefeed"
)

type CreateAttendanceRequest struct {
	PatientID     uuid.UUID `json:"patient_id" binding:"required"`
	AppointmentID uuid.UUID `json:"appointment_id" binding:"required"`
	Procedures    string    `json:"procedures"`
	Notes         string    `json:"notes"`
}

type CreateDocumentRequest struct {
	PatientID   uuid.UUID `json:"patient_id" binding:"required"`
	Name        string    `json:"name" binding:"required"`
	Category    string    `json:"category"`
	ContentType string    `json:"content_type" binding:"required"`
	StorageKey  string    `json:"storage_key" binding:"required"`
}

// Service records carried-out visits and the documents attached to a
// patient's chart.
type Service struct {
	repo    repository.AttendanceRepository
	docRepo repository.DocumentRepository
	feed    *changefeed.Service
	auditor *audit.Service
}

func NewService(
	repo repository.AttendanceRepository,
	docRepo repository.DocumentRepository,
	feed *changefeed.Service,
	auditor *audit.Service,
) *Service {
	return &Service{repo: repo, docRepo: docRepo, feed: feed, auditor: auditor}
}

func (s *Service) CreateAttendance(ctx context.Context, req *CreateAttendanceRequest) (*model.Attendance, error) {
	a := &model.Attendance{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedBy: identity.ActorID(ctx),
		},
		PatientID:     req.PatientID,
		AppointmentID: req.AppointmentID,
		DoctorID:      identity.ActorID(ctx),
		Date:          time.Now(),
		Procedures:    req.Procedures,
		Notes:         req.Notes,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	s.feed.Record(ctx, "attendances", changefeed.ActionCreate, a.ID, a)
	s.auditor.Log(ctx, identity.ActorID(ctx), "create", "attendance", a.ID, a)
	return a, nil
}

func (s *Service) GetAttendance(ctx context.Context, id uuid.UUID) (*model.Attendance, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListAttendancesByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Attendance, error) {
	return s.repo.ListByPatient(ctx, patientID)
}

func (s *Service) CreateDocument(ctx context.Context, req *CreateDocumentRequest) (*model.Document, error) {
	var v form.Violations
	if strings.TrimSpace(req.Name) == "" {
		v.Add("name", "name is required")
	}
	if strings.TrimSpace(req.StorageKey) == "" {
		v.Add("storage_key", "storage key is required")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	d := &model.Document{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedBy: identity.ActorID(ctx),
		},
		PatientID:   req.PatientID,
		Name:        strings.TrimSpace(req.Name),
		Category:    req.Category,
		ContentType: req.ContentType,
		StorageKey:  req.StorageKey,
	}

	if err := s.docRepo.Create(ctx, d); err != nil {
		return nil, err
	}

	s.feed.Record(ctx, "documents", changefeed.ActionCreate, d.ID, d)
	s.auditor.Log(ctx, identity.ActorID(ctx), "create", "document", d.ID, d)
	return d, nil
}

func (s *Service) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	if err := s.docRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.feed.Record(ctx, "documents", changefeed.ActionDelete, id, nil)
	s.auditor.Log(ctx, identity.ActorID(ctx), "delete", "document", id, nil)
	return nil
}

func (s *Service) ListDocumentsByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Document, error) {
	return s.docRepo.ListByPatient(ctx, patientID)
}

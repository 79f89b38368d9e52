package appointment

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/odontocare/clinic-api/internal/email"
	"github.com/odontocare/clinic-api/internal/form"
	"github.com/odontocare/clinic-api/internal/identity"
	"github.com/odontocare/clinic-api/internal/model"
	"github.com/odontocare/clinic-api/internal/repository"
	"github.com/odontocare/clinic-api/internal/service/audit"
	"github.com/odontocare/clinic-api/internal/service/changefeed"
	apperrors "github.com/odontocare/clinic-api/pkg/errors"
	"github.com/odontocare/clinic-api/pkg/logger"
)

type AppointmentService interface {
	CreateAppointment(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error)
	GetAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	UpdateAppointment(ctx context.Context, id uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error)
	RescheduleAppointment(ctx context.Context, id uuid.UUID, req *model.RescheduleAppointmentRequest) (*model.Appointment, error)
	CancelAppointment(ctx context.Context, id uuid.UUID) error
	ListAppointments(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)
}

type Service struct {
	repo        repository.AppointmentRepository
	patientRepo repository.PatientRepository
	feed        *changefeed.Service
	auditor     *audit.Service
	mailer      email.Service
	logger      *logger.Logger
}

func NewService(
	repo repository.AppointmentRepository,
	patientRepo repository.PatientRepository,
	feed *changefeed.Service,
	auditor *audit.Service,
	mailer email.Service,
	logger *logger.Logger,
) *Service {
	return &Service{
		repo:        repo,
		patientRepo: patientRepo,
		feed:        feed,
		auditor:     auditor,
		mailer:      mailer,
		logger:      logger,
	}
}

// confirm mails the booked slot to the patient. Delivery is best effort; a
// failed send is logged and never fails the booking.
func (s *Service) confirm(ctx context.Context, appt *model.Appointment) {
	if appt.Patient.Email == "" {
		return
	}
	if err := s.mailer.SendAppointmentConfirmation(ctx, appt.Patient.Email, appt.Patient.Name, appt.Date, appt.Slot); err != nil {
		s.logger.Error(err, "Failed to send appointment confirmation",
			"appointment_id", appt.ID.String())
	}
}

// CreateAppointment books a slot on the hourly grid. The same doctor, day and
// slot can hold only one live appointment; booking an occupied slot is a
// duplicate error and writes nothing. A doctor booking for themselves may
// omit doctor_id; reception must name the doctor explicitly.
func (s *Service) CreateAppointment(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	var v form.Violations
	if !model.ValidSlot(req.Slot) {
		v.Add("slot", "slot must fall on the hourly grid between 08:00 and 17:00")
	}
	if !model.AppointmentType(req.Type).Valid() {
		v.Add("type", "unknown appointment type")
	}
	if req.Date.IsZero() {
		v.Add("date", "date is required")
	}
	doctorID := req.DoctorID
	if doctorID == uuid.Nil {
		if id, ok := identity.FromContext(ctx); ok && id.Role == model.RoleDoctor {
			doctorID = id.ID
		}
	}
	if doctorID == uuid.Nil {
		v.Add("doctor_id", "doctor is required")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	pat, err := s.patientRepo.Get(ctx, req.PatientID)
	if err != nil {
		return nil, err
	}

	taken, err := s.repo.FindBySlot(ctx, doctorID, req.Date, req.Slot)
	if err != nil {
		return nil, err
	}
	if len(taken) > 0 {
		return nil, apperrors.NewDuplicate("appointment slot")
	}

	appt := &model.Appointment{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedBy: identity.ActorID(ctx),
		},
		PatientID: pat.ID,
		Patient:   pat.Snapshot(time.Now()),
		DoctorID:  doctorID,
		Date:      req.Date,
		Slot:      req.Slot,
		Type:      model.AppointmentType(req.Type),
		Status:    model.AppointmentStatusScheduled,
		Notes:     req.Notes,
		Symptoms:  req.Symptoms,
		Vitals:    req.Vitals,
	}
	if err := marshalVitals(appt); err != nil {
		return nil, apperrors.NewInternal(err)
	}

	if err := s.repo.Create(ctx, appt); err != nil {
		return nil, err
	}

	s.feed.Record(ctx, "appointments", changefeed.ActionCreate, appt.ID, appt)
	s.auditor.Log(ctx, identity.ActorID(ctx), "create", "appointment", appt.ID, appt)
	s.confirm(ctx, appt)
	return appt, nil
}

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	appt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := unmarshalVitals(appt); err != nil {
		return nil, apperrors.NewInternal(err)
	}
	return appt, nil
}

func (s *Service) UpdateAppointment(ctx context.Context, id uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	appt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Status != nil && *req.Status != appt.Status {
		if !appt.Status.CanTransition(*req.Status) {
			return nil, apperrors.NewValidation([]apperrors.Violation{{
				Field:   "status",
				Message: fmt.Sprintf("cannot change status from %s to %s", appt.Status, *req.Status),
			}})
		}
		appt.Status = *req.Status
	}
	if req.Notes != nil {
		appt.Notes = *req.Notes
	}
	if req.Symptoms != nil {
		appt.Symptoms = *req.Symptoms
	}
	if req.Vitals != nil {
		appt.Vitals = req.Vitals
	}
	if err := marshalVitals(appt); err != nil {
		return nil, apperrors.NewInternal(err)
	}

	if err := s.repo.Update(ctx, appt); err != nil {
		return nil, err
	}

	s.feed.Record(ctx, "appointments", changefeed.ActionUpdate, appt.ID, appt)
	s.auditor.Log(ctx, identity.ActorID(ctx), "update", "appointment", appt.ID, appt)
	return appt, nil
}

// RescheduleAppointment moves a live appointment to a new day or slot. The
// slot it vacated is recorded so the history shows where the visit came from.
func (s *Service) RescheduleAppointment(ctx context.Context, id uuid.UUID, req *model.RescheduleAppointmentRequest) (*model.Appointment, error) {
	var v form.Violations
	if !model.ValidSlot(req.Slot) {
		v.Add("slot", "slot must fall on the hourly grid between 08:00 and 17:00")
	}
	if req.Date.IsZero() {
		v.Add("date", "date is required")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	appt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !appt.Status.CanTransition(model.AppointmentStatusRescheduled) {
		return nil, apperrors.NewValidation([]apperrors.Violation{{
			Field:   "status",
			Message: fmt.Sprintf("cannot reschedule a %s appointment", appt.Status),
		}})
	}

	taken, err := s.repo.FindBySlot(ctx, appt.DoctorID, req.Date, req.Slot)
	if err != nil {
		return nil, err
	}
	for _, t := range taken {
		if t.ID != appt.ID {
			return nil, apperrors.NewDuplicate("appointment slot")
		}
	}

	appt.PreviousSlot = appt.Slot
	appt.Date = req.Date
	appt.Slot = req.Slot
	appt.Status = model.AppointmentStatusRescheduled

	if err := s.repo.Update(ctx, appt); err != nil {
		return nil, err
	}

	s.feed.Record(ctx, "appointments", changefeed.ActionUpdate, appt.ID, appt)
	s.auditor.Log(ctx, identity.ActorID(ctx), "reschedule", "appointment", appt.ID, appt)
	s.confirm(ctx, appt)
	return appt, nil
}

func (s *Service) CancelAppointment(ctx context.Context, id uuid.UUID) error {
	appt, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !appt.Status.CanTransition(model.AppointmentStatusCancelled) {
		return apperrors.NewValidation([]apperrors.Violation{{
			Field:   "status",
			Message: fmt.Sprintf("cannot cancel a %s appointment", appt.Status),
		}})
	}

	appt.Status = model.AppointmentStatusCancelled
	if err := s.repo.Update(ctx, appt); err != nil {
		return err
	}

	s.feed.Record(ctx, "appointments", changefeed.ActionUpdate, appt.ID, appt)
	s.auditor.Log(ctx, identity.ActorID(ctx), "cancel", "appointment", appt.ID, nil)
	return nil
}

func (s *Service) ListAppointments(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	appts, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, err
	}
	for _, appt := range appts {
		if err := unmarshalVitals(appt); err != nil {
			return nil, apperrors.NewInternal(err)
		}
	}
	return appts, nil
}

func marshalVitals(appt *model.Appointment) error {
	if appt.Vitals == nil {
		appt.VitalsJSON = ""
		return nil
	}
	b, err := json.Marshal(appt.Vitals)
	if err != nil {
		return err
	}
	appt.VitalsJSON = string(b)
	return nil
}

func unmarshalVitals(appt *model.Appointment) error {
	if appt.VitalsJSON == "" {
		return nil
	}
	return json.Unmarshal([]byte(appt.VitalsJSON), &appt.Vitals)
}

package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/odontocare/clinic-api/internal/model"
)

// All repository interfaces in one file
type (
	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
		Update(ctx context.Context, patient *model.Patient) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error)
	}

	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		Update(ctx context.Context, appointment *model.Appointment) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)
		FindBySlot(ctx context.Context, doctorID uuid.UUID, date time.Time, slot string) ([]*model.Appointment, error)
	}

	PrescriptionRepository interface {
		Create(ctx context.Context, prescription *model.Prescription) error
		Get(ctx context.Context, id uuid.UUID) (*model.Prescription, error)
		Update(ctx context.Context, prescription *model.Prescription) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.PrescriptionFilters) ([]*model.Prescription, error)
	}

	MedicineRepository interface {
		Create(ctx context.Context, medicine *model.Medicine) error
		Get(ctx context.Context, id uuid.UUID) (*model.Medicine, error)
		Update(ctx context.Context, medicine *model.Medicine) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.MedicineFilters) ([]*model.Medicine, error)
		AdjustStock(ctx context.Context, movement *model.StockMovement) error
		ListStockMovements(ctx context.Context, medicineID uuid.UUID) ([]*model.StockMovement, error)
	}

	BudgetRepository interface {
		Create(ctx context.Context, budget *model.Budget) error
		Get(ctx context.Context, id uuid.UUID) (*model.Budget, error)
		Update(ctx context.Context, budget *model.Budget) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.BudgetFilters) ([]*model.Budget, error)
	}

	AnamnesisRepository interface {
		Create(ctx context.Context, anamnesis *model.Anamnesis) error
		Get(ctx context.Context, id uuid.UUID) (*model.Anamnesis, error)
		Update(ctx context.Context, anamnesis *model.Anamnesis) error
		Delete(ctx context.Context, id uuid.UUID) error
		ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Anamnesis, error)
	}

	InvoiceRepository interface {
		Create(ctx context.Context, invoice *model.Invoice) error
		Get(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
		Update(ctx context.Context, invoice *model.Invoice) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.InvoiceFilters) ([]*model.Invoice, error)
		NextNumber(ctx context.Context) (string, error)
	}

	AttendanceRepository interface {
		Create(ctx context.Context, attendance *model.Attendance) error
		Get(ctx context.Context, id uuid.UUID) (*model.Attendance, error)
		ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Attendance, error)
	}

	DocumentRepository interface {
		Create(ctx context.Context, document *model.Document) error
		Get(ctx context.Context, id uuid.UUID) (*model.Document, error)
		Delete(ctx context.Context, id uuid.UUID) error
		ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Document, error)
	}

	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		StoreResetToken(ctx context.Context, userID uuid.UUID, token string, expiry time.Time) error
		ValidateResetToken(ctx context.Context, token string) (uuid.UUID, error)
		UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errMessage *string) error
		DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
	}

	AuditRepository interface {
		Create(ctx context.Context, log *model.AuditLog) error
		List(ctx context.Context, filters *model.AuditFilters) ([]*model.AuditLog, error)
	}
)

package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/odontocare/clinic-api/internal/model"
	"github.com/odontocare/clinic-api/internal/repository"
)

type attendanceRepository struct {
	db *sqlx.DB
}

func NewAttendanceRepository(db *sqlx.DB) repository.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func (r *attendanceRepository) Create(ctx context.Context, a *model.Attendance) error {
	query := `
		INSERT INTO attendances (id, created_at, updated_at, created_by, patient_id,
			appointment_id, doctor_id, date, procedures, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	a.CreatedAt = time.Now()
	a.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.CreatedAt, a.UpdatedAt, a.CreatedBy, a.PatientID,
		a.AppointmentID, a.DoctorID, a.Date, a.Procedures, a.Notes,
	)
	if err != nil {
		return storeErr("attendance", err)
	}
	return nil
}

func (r *attendanceRepository) Get(ctx context.Context, id uuid.UUID) (*model.Attendance, error) {
	query := `SELECT * FROM attendances WHERE id = $1`
	var a model.Attendance
	if err := r.db.GetContext(ctx, &a, query, id); err != nil {
		return nil, storeErr("attendance", err)
	}
	return &a, nil
}

func (r *attendanceRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Attendance, error) {
	query := `SELECT * FROM attendances WHERE patient_id = $1 ORDER BY date DESC`
	var records []*model.Attendance
	if err := r.db.SelectContext(ctx, &records, query, patientID); err != nil {
		return nil, storeErr("attendances", err)
	}
	return records, nil
}

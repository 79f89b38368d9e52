package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/odontocare/clinic-api/internal/model"
	"github.com/odontocare/clinic-api/internal/repository"
)

type appointmentRepository struct {
	db *sqlx.DB
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{db: db}
}

const appointmentColumns = `
	id, created_at, updated_at, created_by, patient_id,
	patient_name AS "patient.name", patient_age AS "patient.age",
	patient_gender AS "patient.gender", patient_phone AS "patient.phone",
	patient_email AS "patient.email",
	doctor_id, date, slot, type, status, notes, symptoms, vitals, previous_slot`

func (r *appointmentRepository) Create(ctx context.Context, apt *model.Appointment) error {
	query := `
		INSERT INTO appointments (id, created_at, updated_at, created_by, patient_id,
			patient_name, patient_age, patient_gender, patient_phone, patient_email,
			doctor_id, date, slot, type, status, notes, symptoms, vitals, previous_slot)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`
	apt.CreatedAt = time.Now()
	apt.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		apt.ID, apt.CreatedAt, apt.UpdatedAt, apt.CreatedBy, apt.PatientID,
		apt.Patient.Name, apt.Patient.Age, apt.Patient.Gender, apt.Patient.Phone, apt.Patient.Email,
		apt.DoctorID, apt.Date, apt.Slot, apt.Type, apt.Status,
		apt.Notes, apt.Symptoms, apt.VitalsJSON, apt.PreviousSlot,
	)
	if err != nil {
		return storeErr("appointment", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`
	var apt model.Appointment
	if err := r.db.GetContext(ctx, &apt, query, id); err != nil {
		return nil, storeErr("appointment", err)
	}
	return &apt, nil
}

func (r *appointmentRepository) Update(ctx context.Context, apt *model.Appointment) error {
	query := `
		UPDATE appointments
		SET date = $1, slot = $2, type = $3, status = $4, notes = $5,
			symptoms = $6, vitals = $7, previous_slot = $8, updated_at = $9
		WHERE id = $10
	`
	apt.UpdatedAt = time.Now()
	_, err := r.db.ExecContext(ctx, query,
		apt.Date, apt.Slot, apt.Type, apt.Status, apt.Notes,
		apt.Symptoms, apt.VitalsJSON, apt.PreviousSlot, apt.UpdatedAt, apt.ID,
	)
	if err != nil {
		return storeErr("appointment", err)
	}
	return nil
}

func (r *appointmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM appointments WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return storeErr("appointment", err)
	}
	return nil
}

func (r *appointmentRepository) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE 1=1`
	args := []interface{}{}
	i := 1

	if filters != nil {
		if filters.PatientID != uuid.Nil {
			query += ` AND patient_id = $` + itoa(i)
			args = append(args, filters.PatientID)
			i++
		}
		if filters.DoctorID != uuid.Nil {
			query += ` AND doctor_id = $` + itoa(i)
			args = append(args, filters.DoctorID)
			i++
		}
		if filters.Status != "" {
			query += ` AND status = $` + itoa(i)
			args = append(args, filters.Status)
			i++
		}
		if !filters.StartDate.IsZero() {
			query += ` AND date >= $` + itoa(i)
			args = append(args, filters.StartDate)
			i++
		}
		if !filters.EndDate.IsZero() {
			query += ` AND date <= $` + itoa(i)
			args = append(args, filters.EndDate)
			i++
		}
	}
	query += ` ORDER BY date DESC, slot DESC`

	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, storeErr("appointments", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) FindBySlot(ctx context.Context, doctorID uuid.UUID, date time.Time, slot string) ([]*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments
		WHERE doctor_id = $1 AND date = $2 AND slot = $3 AND status IN ('scheduled', 'rescheduled')`
	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, doctorID, date, slot); err != nil {
		return nil, storeErr("appointments", err)
	}
	return appointments, nil
}

package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/odontocare/clinic-api/internal/model"
	"github.com/odontocare/clinic-api/internal/repository"
)

type prescriptionRepository struct {
	db *sqlx.DB
}

func NewPrescriptionRepository(db *sqlx.DB) repository.PrescriptionRepository {
	return &prescriptionRepository{db: db}
}

const prescriptionColumns = `
	id, created_at, updated_at, created_by, patient_id,
	patient_name AS "patient.name", patient_age AS "patient.age",
	patient_gender AS "patient.gender", patient_phone AS "patient.phone",
	patient_email AS "patient.email",
	diagnosis, symptoms, lines, instructions, follow_up_date, status,
	doctor_id, doctor_name`

func (r *prescriptionRepository) Create(ctx context.Context, p *model.Prescription) error {
	query := `
		INSERT INTO prescriptions (id, created_at, updated_at, created_by, patient_id,
			patient_name, patient_age, patient_gender, patient_phone, patient_email,
			diagnosis, symptoms, lines, instructions, follow_up_date, status,
			doctor_id, doctor_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.CreatedAt, p.UpdatedAt, p.CreatedBy, p.PatientID,
		p.Patient.Name, p.Patient.Age, p.Patient.Gender, p.Patient.Phone, p.Patient.Email,
		p.Diagnosis, p.Symptoms, p.LinesJSON, p.Instructions, p.FollowUpDate, p.Status,
		p.DoctorID, p.DoctorName,
	)
	if err != nil {
		return storeErr("prescription", err)
	}
	return nil
}

func (r *prescriptionRepository) Get(ctx context.Context, id uuid.UUID) (*model.Prescription, error) {
	query := `SELECT ` + prescriptionColumns + ` FROM prescriptions WHERE id = $1`
	var p model.Prescription
	if err := r.db.GetContext(ctx, &p, query, id); err != nil {
		return nil, storeErr("prescription", err)
	}
	return &p, nil
}

func (r *prescriptionRepository) Update(ctx context.Context, p *model.Prescription) error {
	query := `
		UPDATE prescriptions
		SET diagnosis = $1, symptoms = $2, lines = $3, instructions = $4,
			follow_up_date = $5, status = $6, updated_at = $7
		WHERE id = $8
	`
	p.UpdatedAt = time.Now()
	_, err := r.db.ExecContext(ctx, query,
		p.Diagnosis, p.Symptoms, p.LinesJSON, p.Instructions,
		p.FollowUpDate, p.Status, p.UpdatedAt, p.ID,
	)
	if err != nil {
		return storeErr("prescription", err)
	}
	return nil
}

func (r *prescriptionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM prescriptions WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return storeErr("prescription", err)
	}
	return nil
}

func (r *prescriptionRepository) List(ctx context.Context, filters *model.PrescriptionFilters) ([]*model.Prescription, error) {
	query := `SELECT ` + prescriptionColumns + ` FROM prescriptions WHERE 1=1`
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
	}
	query += ` ORDER BY created_at DESC`

	var prescriptions []*model.Prescription
	if err := r.db.SelectContext(ctx, &prescriptions, query, args...); err != nil {
		return nil, storeErr("prescriptions", err)
	}
	return prescriptions, nil
}

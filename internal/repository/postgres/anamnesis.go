package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/odontocare/clinic-api/internal/model"
	"github.com/odontocare/clinic-api/internal/repository"
)

type anamnesisRepository struct {
	db *sqlx.DB
}

func NewAnamnesisRepository(db *sqlx.DB) repository.AnamnesisRepository {
	return &anamnesisRepository{db: db}
}

func (r *anamnesisRepository) Create(ctx context.Context, a *model.Anamnesis) error {
	query := `
		INSERT INTO anamneses (id, created_at, updated_at, created_by, patient_id,
			model_name, date, answers, elaborations, observations)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	a.CreatedAt = time.Now()
	a.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.CreatedAt, a.UpdatedAt, a.CreatedBy, a.PatientID,
		a.ModelName, a.Date, a.AnswersJSON, a.ElaborationsJSON, a.Observations,
	)
	if err != nil {
		return storeErr("anamnesis", err)
	}
	return nil
}

func (r *anamnesisRepository) Get(ctx context.Context, id uuid.UUID) (*model.Anamnesis, error) {
	query := `SELECT * FROM anamneses WHERE id = $1`
	var a model.Anamnesis
	if err := r.db.GetContext(ctx, &a, query, id); err != nil {
		return nil, storeErr("anamnesis", err)
	}
	return &a, nil
}

func (r *anamnesisRepository) Update(ctx context.Context, a *model.Anamnesis) error {
	query := `
		UPDATE anamneses
		SET model_name = $1, date = $2, answers = $3, elaborations = $4,
			observations = $5, updated_at = $6
		WHERE id = $7
	`
	a.UpdatedAt = time.Now()
	_, err := r.db.ExecContext(ctx, query,
		a.ModelName, a.Date, a.AnswersJSON, a.ElaborationsJSON,
		a.Observations, a.UpdatedAt, a.ID,
	)
	if err != nil {
		return storeErr("anamnesis", err)
	}
	return nil
}

func (r *anamnesisRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM anamneses WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return storeErr("anamnesis", err)
	}
	return nil
}

func (r *anamnesisRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Anamnesis, error) {
	query := `SELECT * FROM anamneses WHERE patient_id = $1 ORDER BY date DESC`
	var records []*model.Anamnesis
	if err := r.db.SelectContext(ctx, &records, query, patientID); err != nil {
		return nil, storeErr("anamneses", err)
	}
	return records, nil
}

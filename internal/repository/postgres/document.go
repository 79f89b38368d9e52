package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/odontocare/clinic-api/internal/model"
	"github.com/odontocare/clinic-api/internal/repository"
)

type documentRepository struct {
	db *sqlx.DB
}

func NewDocumentRepository(db *sqlx.DB) repository.DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(ctx context.Context, d *model.Document) error {
	query := `
		INSERT INTO documents (id, created_at, updated_at, created_by, patient_id,
			name, category, content_type, storage_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	d.CreatedAt = time.Now()
	d.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		d.ID, d.CreatedAt, d.UpdatedAt, d.CreatedBy, d.PatientID,
		d.Name, d.Category, d.ContentType, d.StorageKey,
	)
	if err != nil {
		return storeErr("document", err)
	}
	return nil
}

func (r *documentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Document, error) {
	query := `SELECT * FROM documents WHERE id = $1`
	var d model.Document
	if err := r.db.GetContext(ctx, &d, query, id); err != nil {
		return nil, storeErr("document", err)
	}
	return &d, nil
}

func (r *documentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM documents WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return storeErr("document", err)
	}
	return nil
}

func (r *documentRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Document, error) {
	query := `SELECT * FROM documents WHERE patient_id = $1 ORDER BY created_at DESC`
	var docs []*model.Document
	if err := r.db.SelectContext(ctx, &docs, query, patientID); err != nil {
		return nil, storeErr("documents", err)
	}
	return docs, nil
}

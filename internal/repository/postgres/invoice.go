package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/odontocare/clinic-api/internal/model"
	"github.com/odontocare/clinic-api/internal/repository"
)

type invoiceRepository struct {
	db *sqlx.DB
}

func NewInvoiceRepository(db *sqlx.DB) repository.InvoiceRepository {
	return &invoiceRepository{db: db}
}

const invoiceColumns = `
	id, created_at, updated_at, created_by, number, patient_id,
	patient_name AS "patient.name", patient_age AS "patient.age",
	patient_gender AS "patient.gender", patient_phone AS "patient.phone",
	patient_email AS "patient.email",
	items, total, status, payment_method`

func (r *invoiceRepository) Create(ctx context.Context, inv *model.Invoice) error {
	query := `
		INSERT INTO invoices (id, created_at, updated_at, created_by, number, patient_id,
			patient_name, patient_age, patient_gender, patient_phone, patient_email,
			items, total, status, payment_method)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	inv.CreatedAt = time.Now()
	inv.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		inv.ID, inv.CreatedAt, inv.UpdatedAt, inv.CreatedBy, inv.Number, inv.PatientID,
		inv.Patient.Name, inv.Patient.Age, inv.Patient.Gender, inv.Patient.Phone, inv.Patient.Email,
		inv.ItemsJSON, inv.Total, inv.Status, inv.PaymentMethod,
	)
	if err != nil {
		return storeErr("invoice", err)
	}
	return nil
}

func (r *invoiceRepository) Get(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	var inv model.Invoice
	if err := r.db.GetContext(ctx, &inv, query, id); err != nil {
		return nil, storeErr("invoice", err)
	}
	return &inv, nil
}

func (r *invoiceRepository) Update(ctx context.Context, inv *model.Invoice) error {
	query := `
		UPDATE invoices
		SET items = $1, total = $2, status = $3, payment_method = $4, updated_at = $5
		WHERE id = $6
	`
	inv.UpdatedAt = time.Now()
	_, err := r.db.ExecContext(ctx, query,
		inv.ItemsJSON, inv.Total, inv.Status, inv.PaymentMethod, inv.UpdatedAt, inv.ID,
	)
	if err != nil {
		return storeErr("invoice", err)
	}
	return nil
}

func (r *invoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM invoices WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return storeErr("invoice", err)
	}
	return nil
}

func (r *invoiceRepository) List(ctx context.Context, filters *model.InvoiceFilters) ([]*model.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE 1=1`
	args := []interface{}{}
	i := 1

	if filters != nil {
		if filters.PatientID != uuid.Nil {
			query += ` AND patient_id = $` + itoa(i)
			args = append(args, filters.PatientID)
			i++
		}
		if filters.Status != "" {
			query += ` AND status = $` + itoa(i)
			args = append(args, filters.Status)
			i++
		}
	}
	query += ` ORDER BY created_at DESC`

	var invoices []*model.Invoice
	if err := r.db.SelectContext(ctx, &invoices, query, args...); err != nil {
		return nil, storeErr("invoices", err)
	}
	return invoices, nil
}

// NextNumber allocates a sequential invoice number for the current year.
func (r *invoiceRepository) NextNumber(ctx context.Context) (string, error) {
	var seq int64
	if err := r.db.GetContext(ctx, &seq, `SELECT nextval('invoice_number_seq')`); err != nil {
		return "", storeErr("invoice number", err)
	}
	return fmt.Sprintf("INV-%d-%06d", time.Now().Year(), seq), nil
}

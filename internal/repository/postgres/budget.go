package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/odontocare/clinic-api/internal/model"
	"github.com/odontocare/clinic-api/internal/repository"
)

type budgetRepository struct {
	db *sqlx.DB
}

func NewBudgetRepository(db *sqlx.DB) repository.BudgetRepository {
	return &budgetRepository{db: db}
}

func (r *budgetRepository) Create(ctx context.Context, b *model.Budget) error {
	query := `
		INSERT INTO budgets (id, created_at, updated_at, created_by, patient_id,
			description, plan_type, responsible_party, date, items, installments,
			due_day, status, approved_at, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	b.CreatedAt = time.Now()
	b.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		b.ID, b.CreatedAt, b.UpdatedAt, b.CreatedBy, b.PatientID,
		b.Description, b.PlanType, b.ResponsibleParty, b.Date, b.ItemsJSON,
		b.Installments, b.DueDay, b.Status, b.ApprovedAt, b.Total,
	)
	if err != nil {
		return storeErr("budget", err)
	}
	return nil
}

func (r *budgetRepository) Get(ctx context.Context, id uuid.UUID) (*model.Budget, error) {
	query := `SELECT * FROM budgets WHERE id = $1`
	var b model.Budget
	if err := r.db.GetContext(ctx, &b, query, id); err != nil {
		return nil, storeErr("budget", err)
	}
	return &b, nil
}

func (r *budgetRepository) Update(ctx context.Context, b *model.Budget) error {
	query := `
		UPDATE budgets
		SET description = $1, plan_type = $2, responsible_party = $3, date = $4,
			items = $5, installments = $6, due_day = $7, status = $8,
			approved_at = $9, total = $10, updated_at = $11
		WHERE id = $12
	`
	b.UpdatedAt = time.Now()
	_, err := r.db.ExecContext(ctx, query,
		b.Description, b.PlanType, b.ResponsibleParty, b.Date,
		b.ItemsJSON, b.Installments, b.DueDay, b.Status,
		b.ApprovedAt, b.Total, b.UpdatedAt, b.ID,
	)
	if err != nil {
		return storeErr("budget", err)
	}
	return nil
}

func (r *budgetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM budgets WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return storeErr("budget", err)
	}
	return nil
}

func (r *budgetRepository) List(ctx context.Context, filters *model.BudgetFilters) ([]*model.Budget, error) {
	query := `SELECT * FROM budgets WHERE 1=1`
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
	query += ` ORDER BY date DESC`

	var budgets []*model.Budget
	if err := r.db.SelectContext(ctx, &budgets, query, args...); err != nil {
		return nil, storeErr("budgets", err)
	}
	return budgets, nil
}

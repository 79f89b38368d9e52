package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/odontocare/clinic-api/internal/model"
	"github.com/odontocare/clinic-api/internal/repository"
)

type medicineRepository struct {
	db *sqlx.DB
}

func NewMedicineRepository(db *sqlx.DB) repository.MedicineRepository {
	return &medicineRepository{db: db}
}

func (r *medicineRepository) Create(ctx context.Context, m *model.Medicine) error {
	query := `
		INSERT INTO medicines (id, created_at, updated_at, created_by, name, category,
			strength, form, manufacturer, price, stock_quantity, reorder_level, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	m.CreatedAt = time.Now()
	m.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		m.ID, m.CreatedAt, m.UpdatedAt, m.CreatedBy, m.Name, m.Category,
		m.Strength, m.Form, m.Manufacturer, m.Price, m.StockQuantity, m.ReorderLevel, m.Active,
	)
	if err != nil {
		return storeErr("medicine", err)
	}
	return nil
}

func (r *medicineRepository) Get(ctx context.Context, id uuid.UUID) (*model.Medicine, error) {
	query := `SELECT * FROM medicines WHERE id = $1`
	var m model.Medicine
	if err := r.db.GetContext(ctx, &m, query, id); err != nil {
		return nil, storeErr("medicine", err)
	}
	return &m, nil
}

func (r *medicineRepository) Update(ctx context.Context, m *model.Medicine) error {
	query := `
		UPDATE medicines
		SET name = $1, category = $2, strength = $3, form = $4, manufacturer = $5,
			price = $6, stock_quantity = $7, reorder_level = $8, active = $9, updated_at = $10
		WHERE id = $11
	`
	m.UpdatedAt = time.Now()
	_, err := r.db.ExecContext(ctx, query,
		m.Name, m.Category, m.Strength, m.Form, m.Manufacturer,
		m.Price, m.StockQuantity, m.ReorderLevel, m.Active, m.UpdatedAt, m.ID,
	)
	if err != nil {
		return storeErr("medicine", err)
	}
	return nil
}

func (r *medicineRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM medicines WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return storeErr("medicine", err)
	}
	return nil
}

func (r *medicineRepository) List(ctx context.Context, filters *model.MedicineFilters) ([]*model.Medicine, error) {
	query := `SELECT * FROM medicines WHERE 1=1`
	args := []interface{}{}
	i := 1

	if filters != nil {
		if filters.Category != "" {
			query += ` AND category = $` + itoa(i)
			args = append(args, filters.Category)
			i++
		}
		if filters.ActiveOnly {
			query += ` AND active = true`
		}
	}
	query += ` ORDER BY name ASC`

	var medicines []*model.Medicine
	if err := r.db.SelectContext(ctx, &medicines, query, args...); err != nil {
		return nil, storeErr("medicines", err)
	}
	return medicines, nil
}

// AdjustStock records the movement and applies the delta in one transaction.
func (r *medicineRepository) AdjustStock(ctx context.Context, movement *model.StockMovement) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return storeErr("stock", err)
	}
	defer tx.Rollback()

	movement.CreatedAt = time.Now()
	movement.UpdatedAt = movement.CreatedAt

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO stock (id, medicine_id, delta, reason, created_at, updated_at, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		movement.ID, movement.MedicineID, movement.Delta, movement.Reason,
		movement.CreatedAt, movement.UpdatedAt, movement.CreatedBy,
	); err != nil {
		return storeErr("stock", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE medicines SET stock_quantity = stock_quantity + $1, updated_at = $2 WHERE id = $3`,
		movement.Delta, time.Now(), movement.MedicineID,
	); err != nil {
		return storeErr("stock", err)
	}

	if err := tx.Commit(); err != nil {
		return storeErr("stock", err)
	}
	return nil
}

func (r *medicineRepository) ListStockMovements(ctx context.Context, medicineID uuid.UUID) ([]*model.StockMovement, error) {
	query := `SELECT * FROM stock WHERE medicine_id = $1 ORDER BY created_at DESC`
	var movements []*model.StockMovement
	if err := r.db.SelectContext(ctx, &movements, query, medicineID); err != nil {
		return nil, storeErr("stock", err)
	}
	return movements, nil
}

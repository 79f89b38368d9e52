package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/odontocare/clinic-api/internal/model"
	"github.com/odontocare/clinic-api/internal/repository"
)

type auditRepository struct {
	db *sqlx.DB
}

func NewAuditRepository(db *sqlx.DB) repository.AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(ctx context.Context, log *model.AuditLog) error {
	query := `
		INSERT INTO audit_logs (id, actor_id, action, entity_type, entity_id, changes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	log.CreatedAt = time.Now()
	_, err := r.db.ExecContext(ctx, query,
		log.ID, log.ActorID, log.Action, log.EntityType, log.EntityID, log.Changes, log.CreatedAt,
	)
	if err != nil {
		return storeErr("audit log", err)
	}
	return nil
}

func (r *auditRepository) List(ctx context.Context, filters *model.AuditFilters) ([]*model.AuditLog, error) {
	query := `SELECT * FROM audit_logs WHERE 1=1`
	args := []interface{}{}
	i := 1

	if filters != nil {
		if filters.ActorID != uuid.Nil {
			query += ` AND actor_id = $` + itoa(i)
			args = append(args, filters.ActorID)
			i++
		}
		if filters.EntityType != "" {
			query += ` AND entity_type = $` + itoa(i)
			args = append(args, filters.EntityType)
			i++
		}
		if !filters.StartDate.IsZero() {
			query += ` AND created_at >= $` + itoa(i)
			args = append(args, filters.StartDate)
			i++
		}
		if !filters.EndDate.IsZero() {
			query += ` AND created_at <= $` + itoa(i)
			args = append(args, filters.EndDate)
			i++
		}
	}
	query += ` ORDER BY created_at DESC`

	var logs []*model.AuditLog
	if err := r.db.SelectContext(ctx, &logs, query, args...); err != nil {
		return nil, storeErr("audit logs", err)
	}
	return logs, nil
}

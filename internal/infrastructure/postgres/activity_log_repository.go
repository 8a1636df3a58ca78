package postgres

import (
	"context"
	"fmt"

	"github.com/grupoandino/bodega-core/internal/domain/entity"
	"github.com/grupoandino/bodega-core/internal/domain/repository"
)

var _ repository.ActivityLogRepository = (*ActivityLogRepo)(nil)

// ActivityLogRepo implementación de ActivityLogRepository sobre PostgreSQL.
// Las fotos previa y posterior se guardan en columnas tipadas, no en un blob:
// el esquema es el contrato de auditoría.
type ActivityLogRepo struct {
	q Querier
}

// NewActivityLogRepository construye el adaptador de la bitácora.
func NewActivityLogRepository(q Querier) *ActivityLogRepo {
	return &ActivityLogRepo{q: q}
}

// Append inserta una entrada de bitácora. La tabla no tiene UPDATE ni DELETE.
func (r *ActivityLogRepo) Append(entry *entity.ActivityLogEntry) error {
	query := `
		INSERT INTO activity_log (
			id, batch_id, action,
			prev_status, prev_available, prev_reserved, prev_consumed,
			next_status, next_available, next_reserved, next_consumed,
			summary, actor, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, now())`
	_, err := r.q.Exec(context.Background(), query,
		entry.ID, entry.BatchID, entry.Action,
		entry.Previous.Status, entry.Previous.Available, entry.Previous.Reserved, entry.Previous.Consumed,
		entry.Next.Status, entry.Next.Available, entry.Next.Reserved, entry.Next.Consumed,
		entry.Summary, entry.Actor,
	)
	if err != nil {
		return fmt.Errorf("append activity log: %w", err)
	}
	return nil
}

// ListByBatch devuelve la bitácora de un lote en orden cronológico.
func (r *ActivityLogRepo) ListByBatch(batchID string) ([]*entity.ActivityLogEntry, error) {
	query := `
		SELECT id, batch_id, action,
			prev_status, prev_available, prev_reserved, prev_consumed,
			next_status, next_available, next_reserved, next_consumed,
			summary, actor, created_at
		FROM activity_log
		WHERE batch_id = $1
		ORDER BY created_at ASC, id ASC`
	rows, err := r.q.Query(context.Background(), query, batchID)
	if err != nil {
		return nil, fmt.Errorf("list activity log: %w", err)
	}
	defer rows.Close()

	var entries []*entity.ActivityLogEntry
	for rows.Next() {
		var e entity.ActivityLogEntry
		err := rows.Scan(
			&e.ID, &e.BatchID, &e.Action,
			&e.Previous.Status, &e.Previous.Available, &e.Previous.Reserved, &e.Previous.Consumed,
			&e.Next.Status, &e.Next.Available, &e.Next.Reserved, &e.Next.Consumed,
			&e.Summary, &e.Actor, &e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan activity log entry: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list activity log: %w", err)
	}
	return entries, nil
}

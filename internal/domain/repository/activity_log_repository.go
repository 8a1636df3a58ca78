package repository

import "github.com/grupoandino/bodega-core/internal/domain/entity"

// ActivityLogRepository define el puerto de la bitácora append-only.
// Append debe ejecutarse en la misma transacción que la mutación que documenta:
// si la bitácora falla, falla la transacción completa.
type ActivityLogRepository interface {
	Append(entry *entity.ActivityLogEntry) error
	ListByBatch(batchID string) ([]*entity.ActivityLogEntry, error)
}

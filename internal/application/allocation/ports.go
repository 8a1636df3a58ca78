package allocation

import (
	"context"

	"github.com/grupoandino/bodega-core/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que la mutación de cantidades, las
// filas de asignación y la bitácora se confirmen o reviertan juntas.
//
// El runner debe acotar la espera de locks (lock_timeout) y mapear la
// contención (lock timeout, deadlock, fallo de serialización) a
// domain.ErrAllocationUnavailable para que el motor decida el reintento.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		batchRepo repository.BatchRepository,
		allocRepo repository.AllocationRepository,
		logRepo repository.ActivityLogRepository,
		orderRepo repository.OrderStateRepository,
	) error) error
}

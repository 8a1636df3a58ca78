package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	appalloc "github.com/grupoandino/bodega-core/internal/application/allocation"
	appregistry "github.com/grupoandino/bodega-core/internal/application/registry"
	appstate "github.com/grupoandino/bodega-core/internal/application/orderstate"
	"github.com/grupoandino/bodega-core/internal/domain/repository"
)

// Ensure TxRunner implementa los puertos transaccionales de la aplicación.
var _ appalloc.TxRunner = (*TxRunner)(nil)
var _ appregistry.TxRunner = (*TxRunner)(nil)
var _ appstate.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL con
// lock_timeout acotado. La espera de locks nunca es indefinida: al vencer el
// timeout la transacción falla y la contención sube mapeada como
// domain.ErrAllocationUnavailable.
type TxRunner struct {
	pool        *pgxpool.Pool
	lockTimeout time.Duration
}

// NewTxRunner construye el runner con el pool y el lock_timeout por transacción.
func NewTxRunner(pool *pgxpool.Pool, lockTimeout time.Duration) *TxRunner {
	return &TxRunner{pool: pool, lockTimeout: lockTimeout}
}

// run abre la transacción, fija lock_timeout y ejecuta fn; Commit si todo ok.
func (r *TxRunner) run(ctx context.Context, fn func(q Querier) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if r.lockTimeout > 0 {
		if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.lockTimeout.Milliseconds())); err != nil {
			return fmt.Errorf("set lock_timeout: %w", err)
		}
	}
	if err := fn(tx); err != nil {
		return mapContention(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return mapContention(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

// Run inicia una transacción con los repositorios del motor de asignación
// atados a la tx: mutación de lotes, filas de asignación y bitácora se
// confirman o revierten juntas.
func (r *TxRunner) Run(ctx context.Context, fn func(
	batchRepo repository.BatchRepository,
	allocRepo repository.AllocationRepository,
	logRepo repository.ActivityLogRepository,
	orderRepo repository.OrderStateRepository,
) error) error {
	return r.run(ctx, func(q Querier) error {
		return fn(
			NewBatchRepository(q),
			NewAllocationRepository(q),
			NewActivityLogRepository(q),
			NewOrderStateRepository(q),
		)
	})
}

// RunRegistry inicia una transacción para el alta en el registro de lotes.
func (r *TxRunner) RunRegistry(ctx context.Context, fn func(
	batchRepo repository.BatchRepository,
	registryRepo repository.RegistryRepository,
	logRepo repository.ActivityLogRepository,
) error) error {
	return r.run(ctx, func(q Querier) error {
		return fn(NewBatchRepository(q), NewRegistryRepository(q), NewActivityLogRepository(q))
	})
}

// RunOrder inicia una transacción solo con el repositorio de estado de orden.
func (r *TxRunner) RunOrder(ctx context.Context, fn func(orderRepo repository.OrderStateRepository) error) error {
	return r.run(ctx, func(q Querier) error {
		return fn(NewOrderStateRepository(q))
	})
}

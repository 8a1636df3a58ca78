package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/grupoandino/bodega-core/internal/domain"
	"github.com/grupoandino/bodega-core/internal/domain/entity"
	"github.com/grupoandino/bodega-core/internal/domain/repository"
)

var _ repository.OrderStateRepository = (*OrderStateRepo)(nil)

// OrderStateRepo implementación de OrderStateRepository sobre PostgreSQL.
type OrderStateRepo struct {
	q Querier
}

// NewOrderStateRepository construye el adaptador del estado de asignación por orden.
func NewOrderStateRepository(q Querier) *OrderStateRepo {
	return &OrderStateRepo{q: q}
}

// Get obtiene el estado de asignación de una orden.
func (r *OrderStateRepo) Get(orderID string) (*entity.OrderAllocationState, error) {
	query := `
		SELECT order_id, category, code, is_final, updated_at
		FROM order_allocation_states WHERE order_id = $1`
	return r.scanOne(query, orderID)
}

// GetForUpdate obtiene el estado y bloquea la fila para aplicar la transición.
func (r *OrderStateRepo) GetForUpdate(orderID string) (*entity.OrderAllocationState, error) {
	query := `
		SELECT order_id, category, code, is_final, updated_at
		FROM order_allocation_states WHERE order_id = $1
		FOR UPDATE`
	return r.scanOne(query, orderID)
}

// Create inserta el estado inicial de una orden. El PK de order_id hace que
// dos inits concurrentes no puedan ganar ambos: el perdedor recibe la misma
// violación de unicidad que el camino secuencial.
func (r *OrderStateRepo) Create(state *entity.OrderAllocationState) error {
	query := `
		INSERT INTO order_allocation_states (order_id, category, code, is_final, updated_at)
		VALUES ($1, $2, $3, $4, now())`
	_, err := r.q.Exec(context.Background(), query,
		state.OrderID, state.Category, state.Code, state.IsFinal,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("orden %s ya tiene estado: %w", state.OrderID, domain.ErrInvalidInput)
		}
		return fmt.Errorf("create order state: %w", err)
	}
	return nil
}

// Upsert inserta o actualiza el estado de una orden.
func (r *OrderStateRepo) Upsert(state *entity.OrderAllocationState) error {
	query := `
		INSERT INTO order_allocation_states (order_id, category, code, is_final, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (order_id)
		DO UPDATE SET category = EXCLUDED.category, code = EXCLUDED.code,
			is_final = EXCLUDED.is_final, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query,
		state.OrderID, state.Category, state.Code, state.IsFinal,
	)
	if err != nil {
		return fmt.Errorf("upsert order state: %w", err)
	}
	return nil
}

// scanOne devuelve (nil, nil) si la orden no tiene estado registrado; el
// caller decide si eso es un error.
func (r *OrderStateRepo) scanOne(query, orderID string) (*entity.OrderAllocationState, error) {
	var s entity.OrderAllocationState
	err := r.q.QueryRow(context.Background(), query, orderID).Scan(
		&s.OrderID, &s.Category, &s.Code, &s.IsFinal, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order state: %w", err)
	}
	return &s, nil
}

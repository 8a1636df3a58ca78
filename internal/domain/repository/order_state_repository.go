package repository

import "github.com/grupoandino/bodega-core/internal/domain/entity"

// OrderStateRepository define el puerto de persistencia del estado de asignación por orden.
// Get y GetForUpdate devuelven (nil, nil) si la orden no tiene estado registrado.
type OrderStateRepository interface {
	Get(orderID string) (*entity.OrderAllocationState, error)
	// GetForUpdate bloquea la fila para aplicar la transición bajo exclusión.
	GetForUpdate(orderID string) (*entity.OrderAllocationState, error)
	// Create inserta el estado inicial; una orden que ya tiene estado falla con
	// ErrInvalidInput, también bajo inits concurrentes.
	Create(state *entity.OrderAllocationState) error
	Upsert(state *entity.OrderAllocationState) error
}

package repository

import "github.com/grupoandino/bodega-core/internal/domain/entity"

// AllocationRepository define el puerto de persistencia para asignaciones.
// Las asignaciones nunca se borran: los cambios de estado se registran con
// UpdateStatus y las filas fallidas/liberadas quedan para auditoría.
type AllocationRepository interface {
	Create(alloc *entity.InventoryAllocation) error
	ListByOrder(orderID string) ([]*entity.InventoryAllocation, error)
	// ListByOrderAndStatus filtra por estado (reserved, confirmed, ...).
	ListByOrderAndStatus(orderID, status string) ([]*entity.InventoryAllocation, error)
	UpdateStatus(id, status string) error
}

package repository

import "github.com/grupoandino/bodega-core/internal/domain/entity"

// EligibleFilter restringe la búsqueda de lotes candidatos a asignación.
type EligibleFilter struct {
	PartCode string
	Kind     string // product | packaging_material
}

// BatchRepository define el puerto de persistencia para lotes.
// GetByID y GetForUpdate devuelven (nil, nil) si el lote no existe. Los métodos
// *ForUpdate bloquean la fila (SELECT ... FOR UPDATE) y solo tienen sentido
// dentro de una transacción.
type BatchRepository interface {
	Create(batch *entity.Batch) error
	GetByID(id string) (*entity.Batch, error)
	GetForUpdate(id string) (*entity.Batch, error)
	// ListEligible devuelve candidatos en orden FEFO (vencimiento ASC NULLS LAST,
	// entrada ASC, id ASC), excluyendo expired/quarantined/depleted.
	ListEligible(filter EligibleFilter) ([]*entity.Batch, error)
	// ListEligibleForUpdate es ListEligible con bloqueo de filas para reservar.
	ListEligibleForUpdate(filter EligibleFilter) ([]*entity.Batch, error)
	// Update persiste los campos mutables (cantidades y estado).
	Update(batch *entity.Batch) error
}

package orderstate

import (
	"github.com/grupoandino/bodega-core/internal/domain"
	"github.com/grupoandino/bodega-core/internal/domain/entity"
)

// Máquina de estados de asignación de orden. No prescribe qué códigos llevan a
// qué categoría — eso lo aporta la tabla de transición de cada tipo de orden —
// solo hace cumplir dos reglas: un estado final no admite salidas, y la
// secuencia de categorías no retrocede (de completion no se vuelve a processing).

// Target describe el estado destino propuesto por la tabla de transición del caller.
type Target struct {
	Category string
	Code     string
	IsFinal  bool
}

// Validate verifica que la transición current -> next sea legal.
func Validate(current *entity.OrderAllocationState, next Target) error {
	if current == nil {
		return domain.ErrNotFound
	}
	if current.IsFinal {
		return domain.ErrTerminalState
	}
	curSeq := entity.CategorySequence(current.Category)
	nextSeq := entity.CategorySequence(next.Category)
	if curSeq == 0 || nextSeq == 0 {
		return domain.ErrInvalidInput
	}
	// Se permite moverse dentro de la misma categoría (cambio de código).
	if nextSeq < curSeq {
		return domain.ErrInvalidInput
	}
	return nil
}

// Apply valida y devuelve el nuevo estado; no muta el actual.
func Apply(current *entity.OrderAllocationState, next Target) (*entity.OrderAllocationState, error) {
	if err := Validate(current, next); err != nil {
		return nil, err
	}
	return &entity.OrderAllocationState{
		OrderID:  current.OrderID,
		Category: next.Category,
		Code:     next.Code,
		IsFinal:  next.IsFinal,
	}, nil
}

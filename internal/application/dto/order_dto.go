package dto

import (
	"time"

	"github.com/grupoandino/bodega-core/internal/domain/entity"
)

// InitOrderStateRequest crea el estado inicial de una orden (categoría processing).
type InitOrderStateRequest struct {
	Code string `json:"code"`
}

// TransitionRequest transición del estado de asignación de una orden.
type TransitionRequest struct {
	Category string `json:"category"`
	Code     string `json:"code"`
	IsFinal  bool   `json:"is_final"`
}

// OrderStateResponse representación HTTP del estado de una orden.
type OrderStateResponse struct {
	OrderID   string    `json:"order_id"`
	Category  string    `json:"category"`
	Code      string    `json:"code"`
	IsFinal   bool      `json:"is_final"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FromOrderState mapea la entidad a su representación HTTP.
func FromOrderState(s *entity.OrderAllocationState) OrderStateResponse {
	return OrderStateResponse{
		OrderID:   s.OrderID,
		Category:  s.Category,
		Code:      s.Code,
		IsFinal:   s.IsFinal,
		UpdatedAt: s.UpdatedAt,
	}
}

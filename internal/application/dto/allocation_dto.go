package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/grupoandino/bodega-core/internal/application/allocation"
	"github.com/grupoandino/bodega-core/internal/domain/entity"
)

// ReserveRequest petición de reserva FEFO para las líneas de una orden.
type ReserveRequest struct {
	Actor string               `json:"actor"`
	Items []ReserveItemRequest `json:"items"`
}

// ReserveItemRequest demanda de una línea de la orden.
type ReserveItemRequest struct {
	LineItemID string          `json:"line_item_id"`
	PartCode   string          `json:"part_code"`
	Kind       string          `json:"kind"` // product | packaging_material
	Quantity   decimal.Decimal `json:"quantity"`
}

// ToRequirements materializa las demandas de dominio.
func (r *ReserveRequest) ToRequirements() []entity.LineItemRequirement {
	items := make([]entity.LineItemRequirement, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, entity.LineItemRequirement{
			LineItemID: it.LineItemID,
			PartCode:   it.PartCode,
			Kind:       it.Kind,
			Quantity:   it.Quantity,
		})
	}
	return items
}

// ConfirmReleaseRequest petición de confirmación o liberación de una orden.
type ConfirmReleaseRequest struct {
	Actor string `json:"actor"`
}

// DrawResponse toma aplicada sobre un lote.
type DrawResponse struct {
	BatchID  string          `json:"batch_id"`
	Quantity decimal.Decimal `json:"quantity"`
}

// LineResultResponse desenlace de una línea: reservada o con su causa de fallo.
type LineResultResponse struct {
	LineItemID string         `json:"line_item_id"`
	Reserved   bool           `json:"reserved"`
	Draws      []DrawResponse `json:"draws,omitempty"`
	Error      string         `json:"error,omitempty"`
}

// ReservationResponse resultado de la reserva, línea por línea.
type ReservationResponse struct {
	OrderID     string               `json:"order_id"`
	AllReserved bool                 `json:"all_reserved"`
	Lines       []LineResultResponse `json:"lines"`
}

// FromReservationResult mapea el resultado del motor a su representación HTTP.
func FromReservationResult(res *allocation.ReservationResult) ReservationResponse {
	out := ReservationResponse{
		OrderID:     res.OrderID,
		AllReserved: res.AllReserved(),
		Lines:       make([]LineResultResponse, 0, len(res.Lines)),
	}
	for _, l := range res.Lines {
		lr := LineResultResponse{LineItemID: l.LineItemID, Reserved: l.Reserved()}
		for _, d := range l.Draws {
			lr.Draws = append(lr.Draws, DrawResponse{BatchID: d.BatchID, Quantity: d.Quantity})
		}
		if l.Err != nil {
			lr.Error = l.Err.Error()
		}
		out.Lines = append(out.Lines, lr)
	}
	return out
}

// AllocationResponse representación HTTP de una asignación.
type AllocationResponse struct {
	ID         string          `json:"id"`
	OrderID    string          `json:"order_id"`
	LineItemID string          `json:"line_item_id"`
	BatchID    string          `json:"batch_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	Status     string          `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// FromAllocation mapea la entidad a su representación HTTP.
func FromAllocation(a *entity.InventoryAllocation) AllocationResponse {
	return AllocationResponse{
		ID:         a.ID,
		OrderID:    a.OrderID,
		LineItemID: a.LineItemID,
		BatchID:    a.BatchID,
		Quantity:   a.Quantity,
		Status:     a.Status,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

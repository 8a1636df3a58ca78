package dto

import (
	"github.com/shopspring/decimal"

	dombom "github.com/grupoandino/bodega-core/internal/domain/bom"
)

// PartReadinessResponse factibilidad por parte.
type PartReadinessResponse struct {
	PartCode        string          `json:"part_code"`
	Kind            string          `json:"kind"`
	QtyPerUnit      decimal.Decimal `json:"qty_per_unit"`
	Available       decimal.Decimal `json:"available"`
	ProducibleUnits int64           `json:"producible_units"`
	Shortage        decimal.Decimal `json:"shortage"`
	Exhausted       bool            `json:"exhausted"`
}

// ReadinessResponse resultado del cálculo de factibilidad de un BOM.
type ReadinessResponse struct {
	BomID              string                  `json:"bom_id"`
	MaxProducibleUnits int64                   `json:"max_producible_units"`
	Target             *int64                  `json:"target,omitempty"`
	Parts              []PartReadinessResponse `json:"parts"`
}

// FromReadinessResult mapea el resultado de dominio a su representación HTTP.
func FromReadinessResult(bomID string, target *int64, res *dombom.Result) ReadinessResponse {
	out := ReadinessResponse{
		BomID:              bomID,
		MaxProducibleUnits: res.MaxProducibleUnits,
		Target:             target,
		Parts:              make([]PartReadinessResponse, 0, len(res.Parts)),
	}
	for _, p := range res.Parts {
		out.Parts = append(out.Parts, PartReadinessResponse{
			PartCode:        p.PartCode,
			Kind:            p.Kind,
			QtyPerUnit:      p.QtyPerUnit,
			Available:       p.Available,
			ProducibleUnits: p.ProducibleUnits,
			Shortage:        p.Shortage,
			Exhausted:       p.Exhausted,
		})
	}
	return out
}

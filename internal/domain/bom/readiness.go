package bom

import (
	"github.com/shopspring/decimal"
	"github.com/grupoandino/bodega-core/internal/domain/entity"
)

// Cálculo de factibilidad de producción: para cada parte con requerimiento q
// por unidad y disponibilidad a, el techo de la parte es floor(a/q); el máximo
// producible es el mínimo de los techos. Es aritmética pura sobre un snapshot:
// la asignación concurrente puede volverlo obsoleto de inmediato, el caller lo
// trata como consultivo, no como una reserva.

// PartReadiness es el resultado por parte: techo propio y faltante frente al objetivo.
type PartReadiness struct {
	PartCode        string
	Kind            string
	QtyPerUnit      decimal.Decimal
	Available       decimal.Decimal
	ProducibleUnits int64
	Shortage        decimal.Decimal
	Exhausted       bool // sin cantidad elegible alguna
}

// Result agrega el máximo producible y el detalle por parte.
type Result struct {
	MaxProducibleUnits int64
	Parts              []PartReadiness
}

// Compute evalúa los items de un BOM contra la disponibilidad por parte.
// availability trae la cantidad disponible sumada sobre lotes elegibles.
// target opcional: si es nil, el faltante se reporta contra MaxProducibleUnits+1
// ("cuánto falta para producir una unidad más"), como diagnóstico.
func Compute(items []entity.BomItem, availability map[string]decimal.Decimal, target *int64) Result {
	res := Result{Parts: make([]PartReadiness, 0, len(items))}

	maxUnits := int64(-1) // -1 = todavía sin techo
	for _, it := range items {
		avail := availability[it.PartCode]
		pr := PartReadiness{
			PartCode:   it.PartCode,
			Kind:       it.Kind,
			QtyPerUnit: it.QtyPerUnit,
			Available:  avail,
		}
		if !it.QtyPerUnit.IsPositive() {
			// item inválido: no limita pero tampoco aporta
			res.Parts = append(res.Parts, pr)
			continue
		}
		if !avail.IsPositive() {
			pr.Exhausted = true
			pr.ProducibleUnits = 0
			maxUnits = 0
		} else {
			pr.ProducibleUnits = avail.Div(it.QtyPerUnit).Floor().IntPart()
			if maxUnits < 0 || pr.ProducibleUnits < maxUnits {
				maxUnits = pr.ProducibleUnits
			}
		}
		res.Parts = append(res.Parts, pr)
	}
	if maxUnits < 0 {
		maxUnits = 0
	}
	res.MaxProducibleUnits = maxUnits

	// Faltantes: contra el objetivo pedido o contra "una unidad más".
	goal := maxUnits + 1
	if target != nil {
		goal = *target
	}
	goalDec := decimal.NewFromInt(goal)
	for i := range res.Parts {
		pr := &res.Parts[i]
		if !pr.QtyPerUnit.IsPositive() {
			continue
		}
		needed := pr.QtyPerUnit.Mul(goalDec)
		if deficit := needed.Sub(pr.Available); deficit.IsPositive() {
			pr.Shortage = deficit
		} else {
			pr.Shortage = decimal.Zero
		}
	}
	return res
}

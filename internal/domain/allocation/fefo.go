package allocation

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/grupoandino/bodega-core/internal/domain/entity"
)

// Orden FEFO (first-expiring-first-out): primero los lotes con vencimiento más
// próximo, los sin vencimiento al final, luego fecha de entrada ascendente y
// por último el id como desempate. Determinista dado un snapshot consistente
// de los metadatos, para que asignaciones repetidas sean reproducibles.

// SortFEFO ordena los lotes in place según la regla FEFO.
func SortFEFO(batches []*entity.Batch) {
	sort.SliceStable(batches, func(i, j int) bool {
		a, b := batches[i], batches[j]
		switch {
		case a.ExpiryDate == nil && b.ExpiryDate == nil:
			// sin vencimiento: desempata entrada y luego id
		case a.ExpiryDate == nil:
			return false
		case b.ExpiryDate == nil:
			return true
		case !a.ExpiryDate.Equal(*b.ExpiryDate):
			return a.ExpiryDate.Before(*b.ExpiryDate)
		}
		if !a.InboundDate.Equal(b.InboundDate) {
			return a.InboundDate.Before(b.InboundDate)
		}
		return a.ID < b.ID
	})
}

// Draw es una toma planificada: cantidad a extraer de un lote concreto.
type Draw struct {
	Batch    *entity.Batch
	Quantity decimal.Decimal
}

// PlanDraws recorre los lotes ya ordenados FEFO y toma greedy desde el frente
// hasta cubrir required, repartiendo entre lotes si hace falta (una demanda de
// 120 puede tomar 80 del lote A y 40 del B). Devuelve las tomas y el faltante:
// shortage > 0 significa oferta insuficiente y el caller no debe aplicar nada.
func PlanDraws(batches []*entity.Batch, required decimal.Decimal) (draws []Draw, shortage decimal.Decimal) {
	remaining := required
	for _, b := range batches {
		if !remaining.IsPositive() {
			break
		}
		if !b.Available.IsPositive() {
			continue
		}
		qty := decimal.Min(b.Available, remaining)
		draws = append(draws, Draw{Batch: b, Quantity: qty})
		remaining = remaining.Sub(qty)
	}
	if remaining.IsPositive() {
		return draws, remaining
	}
	return draws, decimal.Zero
}

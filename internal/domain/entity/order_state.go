package entity

import "time"

// Categorías del ciclo de asignación de una orden, en secuencia.
const (
	OrderCategoryProcessing = "processing"
	OrderCategoryShipment   = "shipment"
	OrderCategoryPayment    = "payment"
	OrderCategoryReturn     = "return"
	OrderCategoryCompletion = "completion"
)

// categorySequence define el orden total entre categorías; no se permite saltar
// hacia atrás en la secuencia.
var categorySequence = map[string]int{
	OrderCategoryProcessing: 1,
	OrderCategoryShipment:   2,
	OrderCategoryPayment:    3,
	OrderCategoryReturn:     4,
	OrderCategoryCompletion: 5,
}

// CategorySequence devuelve la posición de la categoría en la secuencia (0 = desconocida).
func CategorySequence(category string) int {
	return categorySequence[category]
}

// OrderAllocationState es el estado de asignación de una orden: categoría actual,
// código nombrado dentro de la categoría y marca de estado final.
type OrderAllocationState struct {
	OrderID   string
	Category  string
	Code      string
	IsFinal   bool
	UpdatedAt time.Time
}

// AllocationEligible reporta si la orden puede entrar al motor de asignación:
// categoría processing y no final.
func (s *OrderAllocationState) AllocationEligible() bool {
	return s.Category == OrderCategoryProcessing && !s.IsFinal
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bom es la lista de materiales para producir una unidad de un producto.
type Bom struct {
	ID        string
	ProductID string
	Name      string
	CreatedAt time.Time
}

// BomItem es una línea de la lista de materiales: parte requerida, cantidad
// por unidad producida (racional positivo) y unidad de medida.
type BomItem struct {
	ID          string
	BomID       string
	PartCode    string
	Kind        string // product | packaging_material
	QtyPerUnit  decimal.Decimal
	UnitMeasure string
}

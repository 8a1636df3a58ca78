package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de lote. Un lote es o producto terminado o material de empaque, nunca ambos.
const (
	BatchKindProduct           = "product"
	BatchKindPackagingMaterial = "packaging_material"
)

// Estados de ciclo de vida de un lote.
const (
	BatchStatusAvailable   = "available"
	BatchStatusReserved    = "reserved"
	BatchStatusDepleted    = "depleted"
	BatchStatusExpired     = "expired"
	BatchStatusQuarantined = "quarantined"
)

// Batch representa una cantidad discreta y trazable de un SKU o material de empaque
// recibida en una fecha. Invariante: Available + Reserved == TotalReceived - Consumed,
// con Available >= 0 y Reserved >= 0 en todo momento.
type Batch struct {
	ID            string
	Kind          string // product | packaging_material
	PartCode      string // SKU del producto o código del material
	Name          string
	TotalReceived decimal.Decimal
	Available     decimal.Decimal
	Reserved      decimal.Decimal
	Consumed      decimal.Decimal
	ExpiryDate    *time.Time // nil = sin vencimiento
	InboundDate   time.Time
	Status        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ValidKind reporta si kind es uno de los dos tipos cerrados de lote.
func ValidKind(kind string) bool {
	return kind == BatchKindProduct || kind == BatchKindPackagingMaterial
}

// Eligible reporta si el lote puede participar en asignaciones: estado no excluido
// y sin fecha de vencimiento pasada respecto a now.
func (b *Batch) Eligible(now time.Time) bool {
	switch b.Status {
	case BatchStatusExpired, BatchStatusQuarantined, BatchStatusDepleted:
		return false
	}
	if b.ExpiryDate != nil && !b.ExpiryDate.After(now) {
		return false
	}
	return true
}

// CheckQuantities verifica el invariante de conservación de cantidades.
// Un resultado false indica un bug de concurrencia o de datos, nunca se corrige en silencio.
func (b *Batch) CheckQuantities() bool {
	if b.Available.IsNegative() || b.Reserved.IsNegative() || b.Consumed.IsNegative() {
		return false
	}
	return b.Available.Add(b.Reserved).Equal(b.TotalReceived.Sub(b.Consumed))
}

// Exhausted reporta si el lote quedó sin cantidad disponible ni reservada.
func (b *Batch) Exhausted() bool {
	return b.Available.IsZero() && b.Reserved.IsZero()
}

// Snapshot captura los campos mutables del lote para el registro de actividad.
func (b *Batch) Snapshot() BatchSnapshot {
	return BatchSnapshot{
		Status:    b.Status,
		Available: b.Available,
		Reserved:  b.Reserved,
		Consumed:  b.Consumed,
	}
}

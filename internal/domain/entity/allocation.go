package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una asignación de inventario.
const (
	AllocationStatusPending   = "pending"
	AllocationStatusReserved  = "reserved"
	AllocationStatusConfirmed = "confirmed"
	AllocationStatusReleased  = "released"
	AllocationStatusFailed    = "failed"
)

// InventoryAllocation liga una línea de orden con un lote y la cantidad tomada de él.
// Nunca se borra físicamente: asignaciones fallidas o liberadas se conservan para auditoría.
type InventoryAllocation struct {
	ID         string
	OrderID    string
	LineItemID string
	BatchID    string
	Quantity   decimal.Decimal
	Status     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// LineItemRequirement es la demanda de una línea de orden: cantidad de un SKU/material.
type LineItemRequirement struct {
	LineItemID string
	PartCode   string
	Kind       string // product | packaging_material
	Quantity   decimal.Decimal
}

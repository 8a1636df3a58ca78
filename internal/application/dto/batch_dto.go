package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/grupoandino/bodega-core/internal/domain/entity"
)

// RegisterBatchRequest alta de un lote en el registro unificado.
type RegisterBatchRequest struct {
	ID            string          `json:"id"`   // opcional, se genera si falta
	Kind          string          `json:"kind"` // product | packaging_material
	PartCode      string          `json:"part_code"`
	Name          string          `json:"name"`
	TotalReceived decimal.Decimal `json:"total_received"`
	ExpiryDate    *time.Time      `json:"expiry_date,omitempty"`
	InboundDate   time.Time       `json:"inbound_date"`
	Actor         string          `json:"actor"`
}

// ToBatch materializa el lote de dominio a partir de la petición.
func (r *RegisterBatchRequest) ToBatch() *entity.Batch {
	return &entity.Batch{
		ID:            r.ID,
		Kind:          r.Kind,
		PartCode:      r.PartCode,
		Name:          r.Name,
		TotalReceived: r.TotalReceived,
		ExpiryDate:    r.ExpiryDate,
		InboundDate:   r.InboundDate,
	}
}

// BatchResponse representación HTTP de un lote.
type BatchResponse struct {
	ID            string          `json:"id"`
	Kind          string          `json:"kind"`
	PartCode      string          `json:"part_code"`
	Name          string          `json:"name"`
	TotalReceived decimal.Decimal `json:"total_received"`
	Available     decimal.Decimal `json:"available"`
	Reserved      decimal.Decimal `json:"reserved"`
	Consumed      decimal.Decimal `json:"consumed"`
	ExpiryDate    *time.Time      `json:"expiry_date,omitempty"`
	InboundDate   time.Time       `json:"inbound_date"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// FromBatch mapea la entidad a su representación HTTP.
func FromBatch(b *entity.Batch) BatchResponse {
	return BatchResponse{
		ID:            b.ID,
		Kind:          b.Kind,
		PartCode:      b.PartCode,
		Name:          b.Name,
		TotalReceived: b.TotalReceived,
		Available:     b.Available,
		Reserved:      b.Reserved,
		Consumed:      b.Consumed,
		ExpiryDate:    b.ExpiryDate,
		InboundDate:   b.InboundDate,
		Status:        b.Status,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

// RegistryEntryResponse representación HTTP de una entrada de registro.
type RegistryEntryResponse struct {
	RegistryID               string    `json:"registry_id"`
	ProductBatchID           *string   `json:"product_batch_id,omitempty"`
	PackagingMaterialBatchID *string   `json:"packaging_material_batch_id,omitempty"`
	Kind                     string    `json:"kind"`
	CreatedAt                time.Time `json:"created_at"`
}

// FromRegistryEntry mapea la entidad a su representación HTTP.
func FromRegistryEntry(e *entity.BatchRegistryEntry) RegistryEntryResponse {
	return RegistryEntryResponse{
		RegistryID:               e.RegistryID,
		ProductBatchID:           e.ProductBatchID,
		PackagingMaterialBatchID: e.PackagingMaterialBatchID,
		Kind:                     e.Kind(),
		CreatedAt:                e.CreatedAt,
	}
}

// QuarantineRequest pone o saca un lote de cuarentena.
type QuarantineRequest struct {
	Quarantined bool   `json:"quarantined"`
	Actor       string `json:"actor"`
}

package entity

import "time"

// BatchRegistryEntry unifica los dos tipos físicos de lote bajo un espacio de identidad único.
// Invariante: exactamente una de las dos referencias está definida, nunca ambas ni ninguna.
type BatchRegistryEntry struct {
	RegistryID               string
	ProductBatchID           *string
	PackagingMaterialBatchID *string
	CreatedAt                time.Time
}

// Valid reporta si la entrada cumple el invariante exactamente-una-referencia.
func (e *BatchRegistryEntry) Valid() bool {
	return (e.ProductBatchID != nil) != (e.PackagingMaterialBatchID != nil)
}

// BatchID devuelve el id del lote subyacente, sin importar el tipo.
func (e *BatchRegistryEntry) BatchID() string {
	if e.ProductBatchID != nil {
		return *e.ProductBatchID
	}
	if e.PackagingMaterialBatchID != nil {
		return *e.PackagingMaterialBatchID
	}
	return ""
}

// Kind devuelve el tipo del lote referenciado.
func (e *BatchRegistryEntry) Kind() string {
	if e.ProductBatchID != nil {
		return BatchKindProduct
	}
	return BatchKindPackagingMaterial
}

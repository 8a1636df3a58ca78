package repository

import "github.com/grupoandino/bodega-core/internal/domain/entity"

// BomRepository define el puerto de lectura de listas de materiales.
// GetByID devuelve (nil, nil) si el BOM no existe.
type BomRepository interface {
	GetByID(id string) (*entity.Bom, error)
	ListItems(bomID string) ([]entity.BomItem, error)
}

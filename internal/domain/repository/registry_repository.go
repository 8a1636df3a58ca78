package repository

import "github.com/grupoandino/bodega-core/internal/domain/entity"

// RegistryRepository define el puerto del registro unificado de lotes.
// La unicidad (una entrada por lote subyacente, sin importar el tipo) la
// garantiza la base con constraints; Create mapea la violación a
// domain.ErrDuplicateRegistration. Los Get devuelven (nil, nil) si la entrada
// no existe.
type RegistryRepository interface {
	Create(entry *entity.BatchRegistryEntry) error
	GetByRegistryID(registryID string) (*entity.BatchRegistryEntry, error)
	GetByBatchID(batchID string) (*entity.BatchRegistryEntry, error)
}

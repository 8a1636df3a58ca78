package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/grupoandino/bodega-core/internal/domain"
	"github.com/grupoandino/bodega-core/internal/domain/entity"
	"github.com/grupoandino/bodega-core/internal/domain/repository"
)

var _ repository.RegistryRepository = (*RegistryRepo)(nil)

// RegistryRepo implementación de RegistryRepository sobre PostgreSQL.
// La unicidad registro-por-lote la garantizan índices únicos parciales sobre
// product_batch_id y packaging_material_batch_id.
type RegistryRepo struct {
	q Querier
}

// NewRegistryRepository construye el adaptador del registro de lotes.
func NewRegistryRepository(q Querier) *RegistryRepo {
	return &RegistryRepo{q: q}
}

// Create inserta una entrada de registro. Un lote ya registrado (en cualquiera
// de las dos columnas) produce domain.ErrDuplicateRegistration.
func (r *RegistryRepo) Create(entry *entity.BatchRegistryEntry) error {
	query := `
		INSERT INTO batch_registry (registry_id, product_batch_id, packaging_material_batch_id, created_at)
		VALUES ($1, $2, $3, now())`
	_, err := r.q.Exec(context.Background(), query,
		entry.RegistryID, entry.ProductBatchID, entry.PackagingMaterialBatchID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("registro de lote: %w", domain.ErrDuplicateRegistration)
		}
		return fmt.Errorf("create registry entry: %w", err)
	}
	return nil
}

// GetByRegistryID obtiene una entrada por su id unificado.
func (r *RegistryRepo) GetByRegistryID(registryID string) (*entity.BatchRegistryEntry, error) {
	query := `
		SELECT registry_id, product_batch_id, packaging_material_batch_id, created_at
		FROM batch_registry WHERE registry_id = $1`
	return r.scanOne(query, registryID)
}

// GetByBatchID obtiene la entrada que referencia un lote, sin importar el tipo.
func (r *RegistryRepo) GetByBatchID(batchID string) (*entity.BatchRegistryEntry, error) {
	query := `
		SELECT registry_id, product_batch_id, packaging_material_batch_id, created_at
		FROM batch_registry
		WHERE product_batch_id = $1 OR packaging_material_batch_id = $1`
	return r.scanOne(query, batchID)
}

// scanOne devuelve (nil, nil) si la entrada no existe; el caller decide si eso
// es un error.
func (r *RegistryRepo) scanOne(query, arg string) (*entity.BatchRegistryEntry, error) {
	var e entity.BatchRegistryEntry
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&e.RegistryID, &e.ProductBatchID, &e.PackagingMaterialBatchID, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get registry entry: %w", err)
	}
	return &e, nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/grupoandino/bodega-core/internal/domain/entity"
	"github.com/grupoandino/bodega-core/internal/domain/repository"
)

var _ repository.BomRepository = (*BomRepo)(nil)

// BomRepo implementación de BomRepository sobre PostgreSQL (solo lectura).
type BomRepo struct {
	q Querier
}

// NewBomRepository construye el adaptador de listas de materiales.
func NewBomRepository(q Querier) *BomRepo {
	return &BomRepo{q: q}
}

// GetByID obtiene la cabecera de una lista de materiales; (nil, nil) si no existe.
func (r *BomRepo) GetByID(id string) (*entity.Bom, error) {
	query := `SELECT id, product_id, name, created_at FROM boms WHERE id = $1`
	var b entity.Bom
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&b.ID, &b.ProductID, &b.Name, &b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get bom: %w", err)
	}
	return &b, nil
}

// ListItems devuelve las líneas de una lista de materiales.
func (r *BomRepo) ListItems(bomID string) ([]entity.BomItem, error) {
	query := `
		SELECT id, bom_id, part_code, kind, qty_per_unit, unit_measure
		FROM bom_items
		WHERE bom_id = $1
		ORDER BY part_code ASC, id ASC`
	rows, err := r.q.Query(context.Background(), query, bomID)
	if err != nil {
		return nil, fmt.Errorf("list bom items: %w", err)
	}
	defer rows.Close()

	var items []entity.BomItem
	for rows.Next() {
		var it entity.BomItem
		err := rows.Scan(&it.ID, &it.BomID, &it.PartCode, &it.Kind, &it.QtyPerUnit, &it.UnitMeasure)
		if err != nil {
			return nil, fmt.Errorf("scan bom item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list bom items: %w", err)
	}
	return items, nil
}

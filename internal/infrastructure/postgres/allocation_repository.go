package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/grupoandino/bodega-core/internal/domain"
	"github.com/grupoandino/bodega-core/internal/domain/entity"
	"github.com/grupoandino/bodega-core/internal/domain/repository"
)

var _ repository.AllocationRepository = (*AllocationRepo)(nil)

// AllocationRepo implementación de AllocationRepository sobre PostgreSQL.
type AllocationRepo struct {
	q Querier
}

// NewAllocationRepository construye el adaptador de asignaciones.
func NewAllocationRepository(q Querier) *AllocationRepo {
	return &AllocationRepo{q: q}
}

// Create inserta una asignación nueva.
func (r *AllocationRepo) Create(alloc *entity.InventoryAllocation) error {
	query := `
		INSERT INTO inventory_allocations (id, order_id, line_item_id, batch_id, quantity, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())`
	_, err := r.q.Exec(context.Background(), query,
		alloc.ID, alloc.OrderID, alloc.LineItemID, alloc.BatchID, alloc.Quantity, alloc.Status,
	)
	if err != nil {
		return fmt.Errorf("create allocation: %w", err)
	}
	return nil
}

// ListByOrder lista todas las asignaciones de una orden, las más antiguas primero.
func (r *AllocationRepo) ListByOrder(orderID string) ([]*entity.InventoryAllocation, error) {
	query := `
		SELECT id, order_id, line_item_id, batch_id, quantity, status, created_at, updated_at
		FROM inventory_allocations
		WHERE order_id = $1
		ORDER BY created_at ASC, id ASC`
	return r.list(query, orderID)
}

// ListByOrderAndStatus lista las asignaciones de una orden en un estado dado.
func (r *AllocationRepo) ListByOrderAndStatus(orderID, status string) ([]*entity.InventoryAllocation, error) {
	query := `
		SELECT id, order_id, line_item_id, batch_id, quantity, status, created_at, updated_at
		FROM inventory_allocations
		WHERE order_id = $1 AND status = $2
		ORDER BY created_at ASC, id ASC`
	return r.list(query, orderID, status)
}

// UpdateStatus cambia el estado de una asignación. Las filas nunca se borran.
func (r *AllocationRepo) UpdateStatus(id, status string) error {
	query := `UPDATE inventory_allocations SET status = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, status)
	if err != nil {
		return fmt.Errorf("update allocation status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("asignación %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *AllocationRepo) list(query string, args ...any) ([]*entity.InventoryAllocation, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list allocations: %w", err)
	}
	defer rows.Close()

	var allocs []*entity.InventoryAllocation
	for rows.Next() {
		var a entity.InventoryAllocation
		if err := scanAllocation(rows, &a); err != nil {
			return nil, fmt.Errorf("scan allocation: %w", err)
		}
		allocs = append(allocs, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list allocations: %w", err)
	}
	return allocs, nil
}

func scanAllocation(row pgx.Row, a *entity.InventoryAllocation) error {
	return row.Scan(
		&a.ID, &a.OrderID, &a.LineItemID, &a.BatchID,
		&a.Quantity, &a.Status, &a.CreatedAt, &a.UpdatedAt,
	)
}

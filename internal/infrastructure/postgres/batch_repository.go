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

var _ repository.BatchRepository = (*BatchRepo)(nil)

const batchColumns = `id, kind, part_code, name, total_received, available, reserved, consumed,
		expiry_date, inbound_date, status, created_at, updated_at`

// BatchRepo implementación de BatchRepository sobre PostgreSQL (usable con pool o tx).
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

// Create inserta un lote nuevo.
func (r *BatchRepo) Create(batch *entity.Batch) error {
	query := `
		INSERT INTO batches (id, kind, part_code, name, total_received, available, reserved,
			consumed, expiry_date, inbound_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now(), now())`
	_, err := r.q.Exec(context.Background(), query,
		batch.ID, batch.Kind, batch.PartCode, batch.Name,
		batch.TotalReceived, batch.Available, batch.Reserved, batch.Consumed,
		batch.ExpiryDate, batch.InboundDate, batch.Status,
	)
	if err != nil {
		return fmt.Errorf("create batch: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por id.
func (r *BatchRepo) GetByID(id string) (*entity.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches WHERE id = $1`
	return r.scanOne(query, id)
}

// GetForUpdate obtiene un lote y bloquea la fila (SELECT ... FOR UPDATE).
func (r *BatchRepo) GetForUpdate(id string) (*entity.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches WHERE id = $1 FOR UPDATE`
	return r.scanOne(query, id)
}

// ListEligible devuelve candidatos a asignación en orden FEFO.
func (r *BatchRepo) ListEligible(filter repository.EligibleFilter) ([]*entity.Batch, error) {
	return r.listEligible(filter, false)
}

// ListEligibleForUpdate es ListEligible con bloqueo de filas. Las filas quedan
// bloqueadas en orden FEFO, el mismo en todas las transacciones, lo que evita
// deadlocks entre reservas concurrentes del mismo SKU.
func (r *BatchRepo) ListEligibleForUpdate(filter repository.EligibleFilter) ([]*entity.Batch, error) {
	return r.listEligible(filter, true)
}

func (r *BatchRepo) listEligible(filter repository.EligibleFilter, lock bool) ([]*entity.Batch, error) {
	query := `
		SELECT ` + batchColumns + `
		FROM batches
		WHERE part_code = $1 AND kind = $2
		  AND status NOT IN ('expired', 'quarantined', 'depleted')
		  AND (expiry_date IS NULL OR expiry_date > now())
		ORDER BY expiry_date ASC NULLS LAST, inbound_date ASC, id ASC`
	if lock {
		query += `
		FOR UPDATE`
	}
	rows, err := r.q.Query(context.Background(), query, filter.PartCode, filter.Kind)
	if err != nil {
		return nil, fmt.Errorf("list eligible batches: %w", err)
	}
	defer rows.Close()

	var batches []*entity.Batch
	for rows.Next() {
		var b entity.Batch
		if err := scanBatch(rows, &b); err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		batches = append(batches, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list eligible batches: %w", err)
	}
	return batches, nil
}

// Update persiste los campos mutables del lote (cantidades y estado).
func (r *BatchRepo) Update(batch *entity.Batch) error {
	query := `
		UPDATE batches
		SET available = $2, reserved = $3, consumed = $4, status = $5, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		batch.ID, batch.Available, batch.Reserved, batch.Consumed, batch.Status,
	)
	if err != nil {
		return fmt.Errorf("update batch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update batch %s: %w", batch.ID, domain.ErrNotFound)
	}
	return nil
}

// scanOne devuelve (nil, nil) si el lote no existe; el caller decide si eso es
// un error.
func (r *BatchRepo) scanOne(query, id string) (*entity.Batch, error) {
	var b entity.Batch
	row := r.q.QueryRow(context.Background(), query, id)
	if err := scanBatch(row, &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return &b, nil
}

func scanBatch(row pgx.Row, b *entity.Batch) error {
	return row.Scan(
		&b.ID, &b.Kind, &b.PartCode, &b.Name,
		&b.TotalReceived, &b.Available, &b.Reserved, &b.Consumed,
		&b.ExpiryDate, &b.InboundDate, &b.Status,
		&b.CreatedAt, &b.UpdatedAt,
	)
}

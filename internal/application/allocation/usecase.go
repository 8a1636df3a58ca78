package allocation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/grupoandino/bodega-core/internal/domain"
	domalloc "github.com/grupoandino/bodega-core/internal/domain/allocation"
	"github.com/grupoandino/bodega-core/internal/domain/entity"
	"github.com/grupoandino/bodega-core/internal/domain/repository"
	"github.com/grupoandino/bodega-core/internal/metrics"
	"github.com/grupoandino/bodega-core/pkg/logger"
)

// RetryPolicy acota los reintentos ante contención del almacén. Solo se
// reintenta domain.ErrAllocationUnavailable; los fallos de negocio (inventario
// insuficiente) son un hecho, no un error transitorio, y nunca se reintentan.
type RetryPolicy struct {
	MaxRetries int           // reintentos adicionales tras el primer intento
	Backoff    time.Duration // espera base; crece lineal por intento
}

// Engine es el motor de asignación: reserva, confirma y libera cantidades de
// lotes contra líneas de orden. Toda mutación de cantidades ocurre dentro de
// una transacción con bloqueo de fila por lote y re-chequeo bajo lock
// (check-then-act con el lock tomado, nunca antes). No hay lock global: la
// contención se acota por lote y asignaciones sobre lotes disjuntos avanzan
// en paralelo.
type Engine struct {
	txRunner TxRunner
	retry    RetryPolicy
	log      *logger.Logger
}

// NewEngine construye el motor.
func NewEngine(txRunner TxRunner, retry RetryPolicy, log *logger.Logger) *Engine {
	if retry.MaxRetries < 0 {
		retry.MaxRetries = 0
	}
	if retry.Backoff <= 0 {
		retry.Backoff = 50 * time.Millisecond
	}
	return &Engine{txRunner: txRunner, retry: retry, log: log}
}

// DrawResult es una toma aplicada: lote y cantidad reservada de él.
type DrawResult struct {
	BatchID  string
	Quantity decimal.Decimal
}

// LineResult es el desenlace de una línea: o todas sus tomas quedaron
// reservadas, o Err explica por qué no se reservó nada (todo-o-nada por línea).
type LineResult struct {
	LineItemID string
	Draws      []DrawResult
	Err        error
}

// Reserved reporta si la línea quedó completamente reservada.
func (r LineResult) Reserved() bool { return r.Err == nil }

// ReservationResult agrega el desenlace por línea. Las líneas son
// independientes: unas pueden reservar y otras fallar, para que la capa
// superior decida el cumplimiento parcial de la orden.
type ReservationResult struct {
	OrderID string
	Lines   []LineResult
}

// AllReserved reporta si todas las líneas reservaron.
func (r *ReservationResult) AllReserved() bool {
	for _, l := range r.Lines {
		if !l.Reserved() {
			return false
		}
	}
	return true
}

// Reserve reserva cantidades para cada línea de la orden siguiendo FEFO.
// Cada línea corre en su propia transacción: bloquea los lotes elegibles
// (SELECT FOR UPDATE), re-valida disponibilidad ya con el lock, reparte la
// demanda entre lotes y mueve cantidad de available a reserved dejando una
// fila de asignación y una entrada de bitácora por toma. Si la oferta total
// no alcanza, la línea falla completa con domain.ErrInsufficientInventory y
// no se aplica ninguna toma parcial.
func (e *Engine) Reserve(ctx context.Context, orderID, actor string, items []entity.LineItemRequirement) (*ReservationResult, error) {
	if orderID == "" || len(items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, it := range items {
		if it.LineItemID == "" || it.PartCode == "" || !entity.ValidKind(it.Kind) || !it.Quantity.IsPositive() {
			return nil, domain.ErrInvalidInput
		}
	}

	if err := e.checkOrderEligible(ctx, orderID); err != nil {
		return nil, err
	}

	result := &ReservationResult{OrderID: orderID}
	for _, it := range items {
		started := time.Now()
		line := LineResult{LineItemID: it.LineItemID}
		err := e.runWithRetry(ctx, func(
			batchRepo repository.BatchRepository,
			allocRepo repository.AllocationRepository,
			logRepo repository.ActivityLogRepository,
			_ repository.OrderStateRepository,
		) error {
			draws, err := e.reserveLine(batchRepo, allocRepo, logRepo, orderID, actor, it)
			if err != nil {
				return err
			}
			line.Draws = draws
			return nil
		})
		if err != nil {
			line.Draws = nil
			line.Err = err
			if errors.Is(err, domain.ErrInvariantViolation) {
				// Bug, nunca se continúa: aborta la reserva completa.
				return nil, err
			}
			if errors.Is(err, domain.ErrInsufficientInventory) {
				// La asignación fallida se conserva para auditoría, fuera de la
				// transacción revertida.
				e.recordFailedLine(ctx, orderID, it)
			}
		}
		result.Lines = append(result.Lines, line)
		metrics.ObserveReservation(line.Err, time.Since(started))
	}

	e.log.Info().
		Str("order_id", orderID).
		Int("lines", len(result.Lines)).
		Bool("all_reserved", result.AllReserved()).
		Msg("reserva procesada")
	return result, nil
}

// reserveLine ejecuta una línea dentro de la transacción ya abierta.
func (e *Engine) reserveLine(
	batchRepo repository.BatchRepository,
	allocRepo repository.AllocationRepository,
	logRepo repository.ActivityLogRepository,
	orderID, actor string,
	it entity.LineItemRequirement,
) ([]DrawResult, error) {
	now := time.Now()

	// Bloquea los candidatos; el orden FEFO lo garantiza el repositorio, pero
	// se reordena igual para que los fakes de test cumplan el mismo contrato.
	batches, err := batchRepo.ListEligibleForUpdate(repository.EligibleFilter{
		PartCode: it.PartCode,
		Kind:     it.Kind,
	})
	if err != nil {
		return nil, err
	}
	eligible := batches[:0]
	for _, b := range batches {
		if !b.CheckQuantities() {
			return nil, fmt.Errorf("lote %s: cantidades inconsistentes: %w", b.ID, domain.ErrInvariantViolation)
		}
		if b.Eligible(now) {
			eligible = append(eligible, b)
		}
	}
	domalloc.SortFEFO(eligible)

	// Re-chequeo bajo lock: la disponibilidad pudo cambiar entre el snapshot
	// del caller y la toma del lock; un perdedor de la carrera ve el remanente.
	draws, shortage := domalloc.PlanDraws(eligible, it.Quantity)
	if shortage.IsPositive() {
		return nil, fmt.Errorf("línea %s: faltan %s de %s: %w",
			it.LineItemID, shortage.String(), it.PartCode, domain.ErrInsufficientInventory)
	}

	results := make([]DrawResult, 0, len(draws))
	for _, d := range draws {
		prev := d.Batch.Snapshot()
		d.Batch.Available = d.Batch.Available.Sub(d.Quantity)
		d.Batch.Reserved = d.Batch.Reserved.Add(d.Quantity)
		if d.Batch.Available.IsZero() {
			d.Batch.Status = entity.BatchStatusReserved
		}
		d.Batch.UpdatedAt = now
		if !d.Batch.CheckQuantities() {
			return nil, fmt.Errorf("lote %s tras reservar: %w", d.Batch.ID, domain.ErrInvariantViolation)
		}
		if err := batchRepo.Update(d.Batch); err != nil {
			return nil, err
		}

		alloc := &entity.InventoryAllocation{
			ID:         uuid.New().String(),
			OrderID:    orderID,
			LineItemID: it.LineItemID,
			BatchID:    d.Batch.ID,
			Quantity:   d.Quantity,
			Status:     entity.AllocationStatusReserved,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := allocRepo.Create(alloc); err != nil {
			return nil, err
		}
		entry := &entity.ActivityLogEntry{
			ID:       uuid.New().String(),
			BatchID:  d.Batch.ID,
			Action:   entity.ActionReserve,
			Previous: prev,
			Next:     d.Batch.Snapshot(),
			Summary:  fmt.Sprintf("reserva de %s para orden %s línea %s", d.Quantity.String(), orderID, it.LineItemID),
			Actor:    actor,
		}
		if err := logRepo.Append(entry); err != nil {
			return nil, err
		}
		results = append(results, DrawResult{BatchID: d.Batch.ID, Quantity: d.Quantity})
	}
	return results, nil
}

// Confirm convierte toda reserva de la orden en deducción permanente:
// reserved -= qty, consumed += qty, sin tocar available. Idempotente:
// confirmar sin reservas pendientes no hace nada.
func (e *Engine) Confirm(ctx context.Context, orderID, actor string) error {
	if orderID == "" {
		return domain.ErrInvalidInput
	}
	return e.runWithRetry(ctx, func(
		batchRepo repository.BatchRepository,
		allocRepo repository.AllocationRepository,
		logRepo repository.ActivityLogRepository,
		_ repository.OrderStateRepository,
	) error {
		allocs, err := allocRepo.ListByOrderAndStatus(orderID, entity.AllocationStatusReserved)
		if err != nil {
			return err
		}
		now := time.Now()
		for _, a := range allocs {
			b, err := batchRepo.GetForUpdate(a.BatchID)
			if err != nil {
				return err
			}
			if b == nil {
				return fmt.Errorf("lote %s de asignación %s: %w", a.BatchID, a.ID, domain.ErrNotFound)
			}
			prev := b.Snapshot()
			if b.Reserved.LessThan(a.Quantity) || !b.CheckQuantities() {
				return fmt.Errorf("lote %s: reservado %s menor que asignado %s: %w",
					b.ID, b.Reserved.String(), a.Quantity.String(), domain.ErrInvariantViolation)
			}
			b.Reserved = b.Reserved.Sub(a.Quantity)
			b.Consumed = b.Consumed.Add(a.Quantity)
			// la cuarentena o el vencimiento sobreviven a la confirmación
			if b.Exhausted() {
				b.Status = entity.BatchStatusDepleted
			} else if b.Status == entity.BatchStatusReserved && b.Available.IsPositive() {
				b.Status = entity.BatchStatusAvailable
			}
			b.UpdatedAt = now
			if err := batchRepo.Update(b); err != nil {
				return err
			}
			if err := allocRepo.UpdateStatus(a.ID, entity.AllocationStatusConfirmed); err != nil {
				return err
			}
			entry := &entity.ActivityLogEntry{
				ID:       uuid.New().String(),
				BatchID:  b.ID,
				Action:   entity.ActionConfirm,
				Previous: prev,
				Next:     b.Snapshot(),
				Summary:  fmt.Sprintf("confirmación de %s para orden %s", a.Quantity.String(), orderID),
				Actor:    actor,
			}
			if err := logRepo.Append(entry); err != nil {
				return err
			}
		}
		return nil
	})
}

// Release devuelve al disponible toda reserva no confirmada de la orden y marca
// las asignaciones como released. Siempre es seguro llamarlo, incluso sin
// reservas (no-op).
func (e *Engine) Release(ctx context.Context, orderID, actor string) error {
	if orderID == "" {
		return domain.ErrInvalidInput
	}
	return e.runWithRetry(ctx, func(
		batchRepo repository.BatchRepository,
		allocRepo repository.AllocationRepository,
		logRepo repository.ActivityLogRepository,
		_ repository.OrderStateRepository,
	) error {
		allocs, err := allocRepo.ListByOrderAndStatus(orderID, entity.AllocationStatusReserved)
		if err != nil {
			return err
		}
		now := time.Now()
		for _, a := range allocs {
			b, err := batchRepo.GetForUpdate(a.BatchID)
			if err != nil {
				return err
			}
			if b == nil {
				return fmt.Errorf("lote %s de asignación %s: %w", a.BatchID, a.ID, domain.ErrNotFound)
			}
			prev := b.Snapshot()
			if b.Reserved.LessThan(a.Quantity) || !b.CheckQuantities() {
				return fmt.Errorf("lote %s: reservado %s menor que asignado %s: %w",
					b.ID, b.Reserved.String(), a.Quantity.String(), domain.ErrInvariantViolation)
			}
			b.Reserved = b.Reserved.Sub(a.Quantity)
			b.Available = b.Available.Add(a.Quantity)
			// un lote en cuarentena o vencido no vuelve a available al liberar
			if b.Status == entity.BatchStatusReserved {
				b.Status = entity.BatchStatusAvailable
			}
			b.UpdatedAt = now
			if err := batchRepo.Update(b); err != nil {
				return err
			}
			if err := allocRepo.UpdateStatus(a.ID, entity.AllocationStatusReleased); err != nil {
				return err
			}
			entry := &entity.ActivityLogEntry{
				ID:       uuid.New().String(),
				BatchID:  b.ID,
				Action:   entity.ActionRelease,
				Previous: prev,
				Next:     b.Snapshot(),
				Summary:  fmt.Sprintf("liberación de %s de orden %s", a.Quantity.String(), orderID),
				Actor:    actor,
			}
			if err := logRepo.Append(entry); err != nil {
				return err
			}
		}
		return nil
	})
}

// checkOrderEligible verifica que la orden esté en estado elegible para asignación.
func (e *Engine) checkOrderEligible(ctx context.Context, orderID string) error {
	return e.txRunner.Run(ctx, func(
		_ repository.BatchRepository,
		_ repository.AllocationRepository,
		_ repository.ActivityLogRepository,
		orderRepo repository.OrderStateRepository,
	) error {
		state, err := orderRepo.Get(orderID)
		if err != nil {
			return err
		}
		if state == nil {
			return fmt.Errorf("orden %s: %w", orderID, domain.ErrNotFound)
		}
		if !state.AllocationEligible() {
			return fmt.Errorf("orden %s en %s/%s: %w", orderID, state.Category, state.Code, domain.ErrOrderNotEligible)
		}
		return nil
	})
}

// recordFailedLine deja la marca de auditoría de una línea insuficiente en su
// propia transacción (la del intento ya se revirtió).
func (e *Engine) recordFailedLine(ctx context.Context, orderID string, it entity.LineItemRequirement) {
	now := time.Now()
	err := e.txRunner.Run(ctx, func(
		_ repository.BatchRepository,
		allocRepo repository.AllocationRepository,
		_ repository.ActivityLogRepository,
		_ repository.OrderStateRepository,
	) error {
		return allocRepo.Create(&entity.InventoryAllocation{
			ID:         uuid.New().String(),
			OrderID:    orderID,
			LineItemID: it.LineItemID,
			BatchID:    "",
			Quantity:   it.Quantity,
			Status:     entity.AllocationStatusFailed,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	})
	if err != nil {
		e.log.Warn().Err(err).
			Str("order_id", orderID).
			Str("line_item_id", it.LineItemID).
			Msg("no se pudo registrar la línea fallida")
	}
}

// runWithRetry ejecuta la transacción reintentando solo la contención
// (domain.ErrAllocationUnavailable) con backoff lineal acotado.
func (e *Engine) runWithRetry(ctx context.Context, fn func(
	repository.BatchRepository,
	repository.AllocationRepository,
	repository.ActivityLogRepository,
	repository.OrderStateRepository,
) error) error {
	var err error
	for attempt := 0; attempt <= e.retry.MaxRetries; attempt++ {
		if attempt > 0 {
			metrics.LockRetries.Inc()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * e.retry.Backoff):
			}
		}
		err = e.txRunner.Run(ctx, fn)
		if err == nil || !errors.Is(err, domain.ErrAllocationUnavailable) {
			return err
		}
		e.log.Warn().Err(err).Int("attempt", attempt+1).Msg("contención en asignación, reintentando")
	}
	return err
}

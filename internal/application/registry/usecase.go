package registry

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/grupoandino/bodega-core/internal/domain"
	"github.com/grupoandino/bodega-core/internal/domain/entity"
	"github.com/grupoandino/bodega-core/internal/domain/repository"
	"github.com/grupoandino/bodega-core/pkg/logger"
)

// TxRunner ejecuta el alta de lote y su entrada de registro en una sola transacción.
type TxRunner interface {
	RunRegistry(ctx context.Context, fn func(
		batchRepo repository.BatchRepository,
		registryRepo repository.RegistryRepository,
		logRepo repository.ActivityLogRepository,
	) error) error
}

// UseCase es el registro unificado de lotes: la única vía por la que un lote
// crudo se vuelve asignable. Lotes sin registrar son invisibles para el motor
// de asignación.
type UseCase struct {
	txRunner     TxRunner
	batchRepo    repository.BatchRepository
	registryRepo repository.RegistryRepository
	log          *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner TxRunner, batchRepo repository.BatchRepository, registryRepo repository.RegistryRepository, log *logger.Logger) *UseCase {
	return &UseCase{txRunner: txRunner, batchRepo: batchRepo, registryRepo: registryRepo, log: log}
}

// Register crea el lote y su entrada de registro en una transacción. Un lote ya
// registrado bajo cualquiera de los dos tipos falla con
// domain.ErrDuplicateRegistration (lo mapea el repositorio desde la violación
// de unicidad).
func (uc *UseCase) Register(ctx context.Context, batch *entity.Batch, actor string) (*entity.BatchRegistryEntry, error) {
	if batch == nil || !entity.ValidKind(batch.Kind) || batch.PartCode == "" {
		return nil, domain.ErrInvalidInput
	}
	if !batch.TotalReceived.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	if batch.ID == "" {
		batch.ID = uuid.New().String()
	}
	// lote recién recibido: todo lo recibido queda disponible
	if batch.Available.IsZero() && batch.Reserved.IsZero() && batch.Consumed.IsZero() {
		batch.Available = batch.TotalReceived
	}
	if !batch.CheckQuantities() {
		return nil, domain.ErrInvalidInput
	}
	if batch.Status == "" {
		batch.Status = entity.BatchStatusAvailable
	}
	if batch.InboundDate.IsZero() {
		batch.InboundDate = now
	}
	batch.CreatedAt = now
	batch.UpdatedAt = now

	entry := &entity.BatchRegistryEntry{
		RegistryID: uuid.New().String(),
		CreatedAt:  now,
	}
	if batch.Kind == entity.BatchKindProduct {
		entry.ProductBatchID = &batch.ID
	} else {
		entry.PackagingMaterialBatchID = &batch.ID
	}

	err := uc.txRunner.RunRegistry(ctx, func(
		batchRepo repository.BatchRepository,
		registryRepo repository.RegistryRepository,
		logRepo repository.ActivityLogRepository,
	) error {
		if err := batchRepo.Create(batch); err != nil {
			return err
		}
		if err := registryRepo.Create(entry); err != nil {
			return err
		}
		return logRepo.Append(&entity.ActivityLogEntry{
			ID:      uuid.New().String(),
			BatchID: batch.ID,
			Action:  entity.ActionRegister,
			Next:    batch.Snapshot(),
			Summary: fmt.Sprintf("registro de lote %s (%s) con %s unidades", batch.PartCode, batch.Kind, batch.TotalReceived.String()),
			Actor:   actor,
		})
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("registry_id", entry.RegistryID).
		Str("batch_id", batch.ID).
		Str("kind", batch.Kind).
		Msg("lote registrado")
	return entry, nil
}

// Resolve devuelve el lote subyacente de una entrada de registro, sin importar
// su tipo físico.
func (uc *UseCase) Resolve(ctx context.Context, registryID string) (*entity.Batch, error) {
	if registryID == "" {
		return nil, domain.ErrInvalidInput
	}
	entry, err := uc.registryRepo.GetByRegistryID(registryID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, fmt.Errorf("registro %s: %w", registryID, domain.ErrNotFound)
	}
	if !entry.Valid() {
		return nil, fmt.Errorf("registro %s con referencias inconsistentes: %w", registryID, domain.ErrInvariantViolation)
	}
	batch, err := uc.batchRepo.GetByID(entry.BatchID())
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, fmt.Errorf("lote %s del registro %s: %w", entry.BatchID(), registryID, domain.ErrNotFound)
	}
	return batch, nil
}

// ListEligible devuelve los lotes candidatos para un requerimiento, en orden
// FEFO y sin los estados excluidos.
func (uc *UseCase) ListEligible(ctx context.Context, partCode, kind string) ([]*entity.Batch, error) {
	if partCode == "" || !entity.ValidKind(kind) {
		return nil, domain.ErrInvalidInput
	}
	return uc.batchRepo.ListEligible(repository.EligibleFilter{PartCode: partCode, Kind: kind})
}

// SetQuarantine pone o quita la cuarentena de un lote, con bitácora. Un lote en
// cuarentena deja de ser elegible sin perder sus cantidades.
func (uc *UseCase) SetQuarantine(ctx context.Context, batchID string, quarantined bool, actor string) error {
	if batchID == "" {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.RunRegistry(ctx, func(
		batchRepo repository.BatchRepository,
		_ repository.RegistryRepository,
		logRepo repository.ActivityLogRepository,
	) error {
		b, err := batchRepo.GetForUpdate(batchID)
		if err != nil {
			return err
		}
		if b == nil {
			return fmt.Errorf("lote %s: %w", batchID, domain.ErrNotFound)
		}
		prev := b.Snapshot()
		action := entity.ActionQuarantine
		if quarantined {
			b.Status = entity.BatchStatusQuarantined
		} else {
			action = entity.ActionUnquarantine
			if b.Exhausted() {
				b.Status = entity.BatchStatusDepleted
			} else {
				b.Status = entity.BatchStatusAvailable
			}
		}
		b.UpdatedAt = time.Now()
		if err := batchRepo.Update(b); err != nil {
			return err
		}
		return logRepo.Append(&entity.ActivityLogEntry{
			ID:       uuid.New().String(),
			BatchID:  b.ID,
			Action:   action,
			Previous: prev,
			Next:     b.Snapshot(),
			Summary:  fmt.Sprintf("cambio de cuarentena del lote %s", b.PartCode),
			Actor:    actor,
		})
	})
}

// MarkExpired barre un lote cuyo vencimiento ya pasó y lo marca expired, con
// bitácora. No toca cantidades: las reservas vivas se resuelven por confirm/release.
func (uc *UseCase) MarkExpired(ctx context.Context, batchID, actor string) error {
	if batchID == "" {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.RunRegistry(ctx, func(
		batchRepo repository.BatchRepository,
		_ repository.RegistryRepository,
		logRepo repository.ActivityLogRepository,
	) error {
		b, err := batchRepo.GetForUpdate(batchID)
		if err != nil {
			return err
		}
		if b == nil {
			return fmt.Errorf("lote %s: %w", batchID, domain.ErrNotFound)
		}
		if b.ExpiryDate == nil || b.ExpiryDate.After(time.Now()) {
			return fmt.Errorf("lote %s sin vencimiento cumplido: %w", batchID, domain.ErrInvalidInput)
		}
		if b.Status == entity.BatchStatusExpired {
			return nil // idempotente
		}
		prev := b.Snapshot()
		b.Status = entity.BatchStatusExpired
		b.UpdatedAt = time.Now()
		if err := batchRepo.Update(b); err != nil {
			return err
		}
		return logRepo.Append(&entity.ActivityLogEntry{
			ID:       uuid.New().String(),
			BatchID:  b.ID,
			Action:   entity.ActionExpire,
			Previous: prev,
			Next:     b.Snapshot(),
			Summary:  fmt.Sprintf("lote %s vencido el %s", b.PartCode, b.ExpiryDate.Format("2006-01-02")),
			Actor:    actor,
		})
	})
}

package audit

import (
	"context"
	"fmt"

	"github.com/grupoandino/bodega-core/internal/domain"
	"github.com/grupoandino/bodega-core/internal/domain/entity"
	"github.com/grupoandino/bodega-core/internal/domain/repository"
)

// LogExporter genera el archivo descargable de la bitácora (Excel) para el
// consumidor de auditoría. Lo implementa la infraestructura de reportes.
type LogExporter interface {
	ExportActivityLog(batchID string, entries []*entity.ActivityLogEntry) ([]byte, error)
}

// UseCase expone la bitácora y las asignaciones al consumidor de auditoría.
// Solo lectura: la bitácora la escriben el registro y el motor de asignación.
type UseCase struct {
	logRepo   repository.ActivityLogRepository
	allocRepo repository.AllocationRepository
	exporter  LogExporter
}

// NewUseCase construye el caso de uso.
func NewUseCase(logRepo repository.ActivityLogRepository, allocRepo repository.AllocationRepository, exporter LogExporter) *UseCase {
	return &UseCase{logRepo: logRepo, allocRepo: allocRepo, exporter: exporter}
}

// ListByBatch devuelve la bitácora de un lote ordenada por tiempo.
func (uc *UseCase) ListByBatch(ctx context.Context, batchID string) ([]*entity.ActivityLogEntry, error) {
	if batchID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.logRepo.ListByBatch(batchID)
}

// ListAllocationsByOrder devuelve todas las asignaciones de una orden,
// incluidas las fallidas y liberadas (se conservan para auditoría).
func (uc *UseCase) ListAllocationsByOrder(ctx context.Context, orderID string) ([]*entity.InventoryAllocation, error) {
	if orderID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.allocRepo.ListByOrder(orderID)
}

// ExportBatchLogXLSX arma el Excel de la bitácora de un lote.
func (uc *UseCase) ExportBatchLogXLSX(ctx context.Context, batchID string) ([]byte, error) {
	entries, err := uc.ListByBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("lote %s sin actividad: %w", batchID, domain.ErrNotFound)
	}
	return uc.exporter.ExportActivityLog(batchID, entries)
}

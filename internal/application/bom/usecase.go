package bom

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/grupoandino/bodega-core/internal/domain"
	dombom "github.com/grupoandino/bodega-core/internal/domain/bom"
	"github.com/grupoandino/bodega-core/internal/domain/repository"
)

// ReadinessUseCase calcula la factibilidad de producción de un BOM contra el
// inventario vivo. Es solo lectura: no toma locks ni muta lotes, así que la
// asignación concurrente puede dejar el resultado obsoleto de inmediato — el
// caller lo trata como snapshot consultivo.
type ReadinessUseCase struct {
	bomRepo   repository.BomRepository
	batchRepo repository.BatchRepository
	pdfGen    ReadinessPDFGenerator
}

// NewReadinessUseCase construye el caso de uso.
func NewReadinessUseCase(bomRepo repository.BomRepository, batchRepo repository.BatchRepository, pdfGen ReadinessPDFGenerator) *ReadinessUseCase {
	return &ReadinessUseCase{bomRepo: bomRepo, batchRepo: batchRepo, pdfGen: pdfGen}
}

// ComputeReadiness arma la disponibilidad por parte (suma de disponible sobre
// lotes elegibles) y delega la aritmética al servicio de dominio.
// target opcional: faltantes contra esa meta; nil = diagnóstico "una unidad más".
func (uc *ReadinessUseCase) ComputeReadiness(ctx context.Context, bomID string, target *int64) (*dombom.Result, error) {
	if bomID == "" {
		return nil, domain.ErrInvalidInput
	}
	if target != nil && *target <= 0 {
		return nil, domain.ErrInvalidInput
	}

	b, err := uc.bomRepo.GetByID(bomID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, fmt.Errorf("bom %s: %w", bomID, domain.ErrNotFound)
	}
	items, err := uc.bomRepo.ListItems(bomID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	availability := make(map[string]decimal.Decimal, len(items))
	for _, it := range items {
		if _, seen := availability[it.PartCode]; seen {
			continue
		}
		batches, err := uc.batchRepo.ListEligible(repository.EligibleFilter{
			PartCode: it.PartCode,
			Kind:     it.Kind,
		})
		if err != nil {
			return nil, err
		}
		total := decimal.Zero
		for _, batch := range batches {
			// Un lote vencido por fecha pero aún no barrido cuenta como no
			// disponible, igual que para el motor de asignación.
			if !batch.Eligible(now) {
				continue
			}
			total = total.Add(batch.Available)
		}
		availability[it.PartCode] = total
	}

	res := dombom.Compute(items, availability, target)
	return &res, nil
}

// ReadinessReportPDF calcula la factibilidad y la entrega como PDF imprimible.
func (uc *ReadinessUseCase) ReadinessReportPDF(ctx context.Context, bomID string, target *int64) ([]byte, error) {
	b, err := uc.bomRepo.GetByID(bomID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, fmt.Errorf("bom %s: %w", bomID, domain.ErrNotFound)
	}
	res, err := uc.ComputeReadiness(ctx, bomID, target)
	if err != nil {
		return nil, err
	}
	return uc.pdfGen.GenerateReadinessPDF(ctx, b, res)
}

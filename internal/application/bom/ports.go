package bom

import (
	"context"

	dombom "github.com/grupoandino/bodega-core/internal/domain/bom"
	"github.com/grupoandino/bodega-core/internal/domain/entity"
)

// ReadinessPDFGenerator genera el reporte imprimible de factibilidad.
// Lo implementa la infraestructura de reportes (Maroto).
type ReadinessPDFGenerator interface {
	GenerateReadinessPDF(ctx context.Context, bom *entity.Bom, result *dombom.Result) ([]byte, error)
}

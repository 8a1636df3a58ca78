// Package pdf implementa el reporte imprimible de factibilidad de producción.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre del BOM │ Máximo producible + Fecha         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Parte | Tipo | Req/Unidad | Disponible | Techo |    │
//	│         Faltante                                            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: partes limitantes y agotadas                      │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	appbom "github.com/grupoandino/bodega-core/internal/application/bom"
	dombom "github.com/grupoandino/bodega-core/internal/domain/bom"
	"github.com/grupoandino/bodega-core/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 180, Green: 30, Blue: 30}
)

var _ appbom.ReadinessPDFGenerator = (*MarotoReadinessGenerator)(nil)

// MarotoReadinessGenerator implementa bom.ReadinessPDFGenerator usando Maroto v2.
type MarotoReadinessGenerator struct{}

// NewMarotoReadinessGenerator construye el generador.
func NewMarotoReadinessGenerator() *MarotoReadinessGenerator { return &MarotoReadinessGenerator{} }

// GenerateReadinessPDF genera el PDF y devuelve sus bytes.
func (g *MarotoReadinessGenerator) GenerateReadinessPDF(
	_ context.Context,
	bom *entity.Bom,
	result *dombom.Result,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Factibilidad de Producción", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(bom, result))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	for _, r := range tablePartRows(result.Parts) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	for _, r := range summaryRows(result) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: nombre del BOM (izq) y máximo producible + fecha (der).
func headerRow(bom *entity.Bom, result *dombom.Result) core.Row {
	fecha := time.Now().Format("02/01/2006 15:04")
	return row.New(18).Add(
		col.New(7).Add(
			text.New(bom.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Producto: "+bom.ProductID, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("MÁXIMO PRODUCIBLE", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%d unidades", result.MaxProducibleUnits), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Calculado: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de partes.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Parte", 3, align.Left),
		h("Tipo", 2, align.Left),
		h("Req/Unidad", 2, align.Right),
		h("Disponible", 2, align.Right),
		h("Techo", 1, align.Right),
		h("Faltante", 2, align.Right),
	)
}

// tablePartRows: una fila por parte; las agotadas en rojo.
func tablePartRows(parts []dombom.PartReadiness) []core.Row {
	result := make([]core.Row, 0, len(parts))
	for _, p := range parts {
		color := colorGray
		if p.Exhausted || p.Shortage.IsPositive() {
			color = colorAlert
		}
		cell := func(s string, size int, a align.Type) core.Col {
			return col.New(size).Add(text.New(s, props.Text{
				Size: 8, Align: a, Top: 1, Left: 1, Right: 1, Color: color,
			}))
		}
		result = append(result, row.New(7).Add(
			cell(p.PartCode, 3, align.Left),
			cell(kindLabel(p.Kind), 2, align.Left),
			cell(p.QtyPerUnit.String(), 2, align.Right),
			cell(p.Available.String(), 2, align.Right),
			cell(fmt.Sprintf("%d", p.ProducibleUnits), 1, align.Right),
			cell(p.Shortage.String(), 2, align.Right),
		))
	}
	return result
}

// summaryRows: partes limitantes y agotadas.
func summaryRows(result *dombom.Result) []core.Row {
	var limiting, exhausted []string
	for _, p := range result.Parts {
		if p.Exhausted {
			exhausted = append(exhausted, p.PartCode)
			continue
		}
		if p.ProducibleUnits == result.MaxProducibleUnits {
			limiting = append(limiting, p.PartCode)
		}
	}

	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("RESUMEN", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
	}
	if len(exhausted) > 0 {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New("Partes sin disponibilidad: "+joinCodes(exhausted), props.Text{
				Size: 8, Color: colorAlert, Top: 1,
			}),
		)))
	}
	if len(limiting) > 0 {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New("Partes limitantes del techo: "+joinCodes(limiting), props.Text{
				Size: 8, Color: colorGray, Top: 1,
			}),
		)))
	}
	rows = append(rows, row.New(8).Add(col.New(12).Add(
		text.New(
			"El cálculo es un snapshot consultivo: la asignación concurrente puede "+
				"modificar la disponibilidad en cualquier momento.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	)))
	return rows
}

func kindLabel(kind string) string {
	if kind == entity.BatchKindPackagingMaterial {
		return "Empaque"
	}
	return "Producto"
}

func joinCodes(codes []string) string {
	out := ""
	for i, c := range codes {
		if i > 0 {
			out += ", "
		}
		out += c
	}
	return out
}

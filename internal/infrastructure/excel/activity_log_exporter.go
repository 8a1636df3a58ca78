// Package excel genera el archivo descargable de la bitácora de actividad.
package excel

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/grupoandino/bodega-core/internal/application/audit"
	"github.com/grupoandino/bodega-core/internal/domain/entity"
)

var _ audit.LogExporter = (*ActivityLogExporter)(nil)

// ActivityLogExporter implementa audit.LogExporter sobre XLSX (excelize).
type ActivityLogExporter struct{}

// NewActivityLogExporter construye el exportador.
func NewActivityLogExporter() *ActivityLogExporter { return &ActivityLogExporter{} }

// ExportActivityLog arma el XLSX con una fila por entrada de bitácora,
// fotos previa y posterior en columnas separadas.
func (e *ActivityLogExporter) ExportActivityLog(batchID string, entries []*entity.ActivityLogEntry) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := []interface{}{
		"fecha",
		"accion",
		"lote",
		"estado_previo",
		"disponible_previo",
		"reservado_previo",
		"consumido_previo",
		"estado_posterior",
		"disponible_posterior",
		"reservado_posterior",
		"consumido_posterior",
		"resumen",
		"actor",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("excel: cabecera: %w", err)
	}

	rowN := 2
	for _, entry := range entries {
		row := []interface{}{
			entry.CreatedAt.Format("2006-01-02 15:04:05"),
			entry.Action,
			entry.BatchID,
			entry.Previous.Status,
			entry.Previous.Available.String(),
			entry.Previous.Reserved.String(),
			entry.Previous.Consumed.String(),
			entry.Next.Status,
			entry.Next.Available.String(),
			entry.Next.Reserved.String(),
			entry.Next.Consumed.String(),
			entry.Summary,
			entry.Actor,
		}
		cell, err := excelize.CoordinatesToCellName(1, rowN)
		if err != nil {
			return nil, fmt.Errorf("excel: coordenadas fila %d: %w", rowN, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("excel: fila %d: %w", rowN, err)
		}
		rowN++
	}

	if err := f.SetSheetName(sheet, "Bitacora "+shortID(batchID)); err != nil {
		return nil, fmt.Errorf("excel: nombre de hoja: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("excel: escribir archivo: %w", err)
	}
	return buf.Bytes(), nil
}

// shortID recorta el id para que el nombre de hoja respete el límite de 31 caracteres.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/grupoandino/bodega-core/internal/domain/entity"
)

// SnapshotResponse foto estructurada de los campos mutables de un lote.
type SnapshotResponse struct {
	Status    string          `json:"status"`
	Available decimal.Decimal `json:"available"`
	Reserved  decimal.Decimal `json:"reserved"`
	Consumed  decimal.Decimal `json:"consumed"`
}

// ActivityLogEntryResponse entrada de bitácora con fotos previa y posterior.
type ActivityLogEntryResponse struct {
	ID        string           `json:"id"`
	BatchID   string           `json:"batch_id"`
	Action    string           `json:"action"`
	Previous  SnapshotResponse `json:"previous"`
	Next      SnapshotResponse `json:"next"`
	Summary   string           `json:"summary"`
	Actor     string           `json:"actor"`
	CreatedAt time.Time        `json:"created_at"`
}

// FromActivityLogEntry mapea la entidad a su representación HTTP.
func FromActivityLogEntry(e *entity.ActivityLogEntry) ActivityLogEntryResponse {
	snap := func(s entity.BatchSnapshot) SnapshotResponse {
		return SnapshotResponse{
			Status:    s.Status,
			Available: s.Available,
			Reserved:  s.Reserved,
			Consumed:  s.Consumed,
		}
	}
	return ActivityLogEntryResponse{
		ID:        e.ID,
		BatchID:   e.BatchID,
		Action:    e.Action,
		Previous:  snap(e.Previous),
		Next:      snap(e.Next),
		Summary:   e.Summary,
		Actor:     e.Actor,
		CreatedAt: e.CreatedAt,
	}
}

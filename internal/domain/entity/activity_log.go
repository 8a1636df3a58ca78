package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Acciones registradas en la bitácora de actividad.
const (
	ActionReserve      = "reserve"
	ActionConfirm      = "confirm"
	ActionRelease      = "release"
	ActionRegister     = "register"
	ActionQuarantine   = "quarantine"
	ActionUnquarantine = "unquarantine"
	ActionExpire       = "expire"
)

// BatchSnapshot es la foto estructurada (versión 1) de los campos mutables de un lote.
// Lista de campos explícita, no un blob opaco: el tooling de auditoría depende de este contrato.
type BatchSnapshot struct {
	Status    string
	Available decimal.Decimal
	Reserved  decimal.Decimal
	Consumed  decimal.Decimal
}

// ActivityLogEntry es un registro inmutable de una mutación sobre un lote,
// con foto previa y posterior. Se crea exactamente una vez por operación
// mutadora, en la misma transacción; nunca se actualiza ni se borra.
type ActivityLogEntry struct {
	ID        string
	BatchID   string
	Action    string
	Previous  BatchSnapshot
	Next      BatchSnapshot
	Summary   string
	Actor     string
	CreatedAt time.Time
}

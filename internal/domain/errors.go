package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound              = errors.New("recurso no encontrado")
	ErrInvalidInput          = errors.New("entrada inválida")
	ErrInsufficientInventory = errors.New("inventario insuficiente")
	ErrDuplicateRegistration = errors.New("lote ya registrado")
	ErrTerminalState         = errors.New("estado final: no admite más transiciones")
	ErrAllocationUnavailable = errors.New("asignación no disponible por contención")
	ErrInvariantViolation    = errors.New("violación de invariante de inventario")
	ErrOrderNotEligible      = errors.New("orden no elegible para asignación")
)

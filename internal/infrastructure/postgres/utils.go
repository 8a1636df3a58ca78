package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/grupoandino/bodega-core/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// isContention verifica los códigos de contención del almacén:
// 55P03 lock_not_available (lock_timeout vencido), 40001 serialization_failure,
// 40P01 deadlock_detected.
func isContention(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case "55P03", "40001", "40P01":
		return true
	}
	return false
}

// mapContention envuelve la contención como domain.ErrAllocationUnavailable
// para que el motor decida el reintento; cualquier otro error pasa intacto.
func mapContention(err error) error {
	if err == nil {
		return nil
	}
	if isContention(err) {
		return fmt.Errorf("%v: %w", err, domain.ErrAllocationUnavailable)
	}
	return err
}

package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/grupoandino/bodega-core/internal/domain"
)

// Colectores del motor de asignación, registrados en el registry por defecto
// y expuestos por el listener de métricas.
var (
	ReservationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bodega_reservations_total",
		Help: "Líneas de reserva procesadas, por resultado.",
	}, []string{"result"})

	ReservationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bodega_reservation_duration_seconds",
		Help:    "Duración del procesamiento de reserva por línea.",
		Buckets: prometheus.DefBuckets,
	})

	LockRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bodega_lock_retries_total",
		Help: "Reintentos de transacción por contención de locks.",
	})
)

// ObserveReservation clasifica el desenlace de una línea y registra su duración.
func ObserveReservation(err error, elapsed time.Duration) {
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrInsufficientInventory):
		result = "insufficient"
	case errors.Is(err, domain.ErrAllocationUnavailable):
		result = "unavailable"
	default:
		result = "error"
	}
	ReservationsTotal.WithLabelValues(result).Inc()
	ReservationDuration.Observe(elapsed.Seconds())
}

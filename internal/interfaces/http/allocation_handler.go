package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/grupoandino/bodega-core/internal/application/allocation"
	"github.com/grupoandino/bodega-core/internal/application/dto"
	"github.com/grupoandino/bodega-core/internal/domain"
)

// AllocationHandler maneja las peticiones HTTP del motor de asignación.
type AllocationHandler struct {
	engine *allocation.Engine
}

// NewAllocationHandler construye el handler.
func NewAllocationHandler(engine *allocation.Engine) *AllocationHandler {
	return &AllocationHandler{engine: engine}
}

// Reserve godoc
// @Summary      Reservar inventario FEFO para las líneas de una orden
// @Description  Cada línea es todo-o-nada; las líneas son independientes entre sí.
// @Tags         allocation
// @Accept       json
// @Produce      json
// @Param        order_id  path  string  true  "Id de la orden"
// @Param        body      body  dto.ReserveRequest  true  "items con line_item_id, part_code, kind y quantity"
// @Success      200  {object}  dto.ReservationResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/orders/{order_id}/reserve [post]
func (h *AllocationHandler) Reserve(c *fiber.Ctx) error {
	var in dto.ReserveRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res, err := h.engine.Reserve(c.Context(), c.Params("order_id"), in.Actor, in.ToRequirements())
	if err != nil {
		return mapAllocationError(c, err)
	}
	// Las líneas insuficientes viajan dentro del resultado, no como error HTTP.
	return c.JSON(dto.FromReservationResult(res))
}

// Confirm godoc
// @Summary      Confirmar las reservas de una orden (deducción permanente)
// @Tags         allocation
// @Accept       json
// @Produce      json
// @Param        order_id  path  string  true  "Id de la orden"
// @Param        body      body  dto.ConfirmReleaseRequest  false  "actor"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/orders/{order_id}/confirm [post]
func (h *AllocationHandler) Confirm(c *fiber.Ctx) error {
	var in dto.ConfirmReleaseRequest
	_ = c.BodyParser(&in)
	if err := h.engine.Confirm(c.Context(), c.Params("order_id"), in.Actor); err != nil {
		return mapAllocationError(c, err)
	}
	return c.JSON(fiber.Map{"message": "reservas confirmadas"})
}

// Release godoc
// @Summary      Liberar las reservas de una orden (devuelve cantidad a disponible)
// @Tags         allocation
// @Accept       json
// @Produce      json
// @Param        order_id  path  string  true  "Id de la orden"
// @Param        body      body  dto.ConfirmReleaseRequest  false  "actor"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/orders/{order_id}/release [post]
func (h *AllocationHandler) Release(c *fiber.Ctx) error {
	var in dto.ConfirmReleaseRequest
	_ = c.BodyParser(&in)
	if err := h.engine.Release(c.Context(), c.Params("order_id"), in.Actor); err != nil {
		return mapAllocationError(c, err)
	}
	return c.JSON(fiber.Map{"message": "reservas liberadas"})
}

// mapAllocationError traduce los errores del motor a HTTP.
func mapAllocationError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "petición inválida"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "orden o lote no encontrado"})
	case errors.Is(err, domain.ErrOrderNotEligible):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "ORDER_NOT_ELIGIBLE", Message: "la orden no admite asignación en su estado actual"})
	case errors.Is(err, domain.ErrInsufficientInventory):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_INVENTORY", Message: "inventario insuficiente"})
	case errors.Is(err, domain.ErrAllocationUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "UNAVAILABLE", Message: "contención en el almacén, reintente"})
	case errors.Is(err, domain.ErrInvariantViolation):
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INVARIANT", Message: "inconsistencia de cantidades detectada"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

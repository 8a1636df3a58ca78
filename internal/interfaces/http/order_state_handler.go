package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/grupoandino/bodega-core/internal/application/dto"
	appstate "github.com/grupoandino/bodega-core/internal/application/orderstate"
	"github.com/grupoandino/bodega-core/internal/domain"
	domstate "github.com/grupoandino/bodega-core/internal/domain/orderstate"
)

// OrderStateHandler maneja las peticiones HTTP del estado de asignación por orden.
type OrderStateHandler struct {
	uc *appstate.UseCase
}

// NewOrderStateHandler construye el handler.
func NewOrderStateHandler(uc *appstate.UseCase) *OrderStateHandler {
	return &OrderStateHandler{uc: uc}
}

// Get godoc
// @Summary      Estado de asignación de una orden
// @Tags         orders
// @Produce      json
// @Param        order_id  path  string  true  "Id de la orden"
// @Success      200  {object}  dto.OrderStateResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{order_id}/state [get]
func (h *OrderStateHandler) Get(c *fiber.Ctx) error {
	state, err := h.uc.Get(c.Context(), c.Params("order_id"))
	if err != nil {
		return mapOrderStateError(c, err)
	}
	return c.JSON(dto.FromOrderState(state))
}

// Init godoc
// @Summary      Crear el estado inicial de una orden (processing)
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        order_id  path  string  true  "Id de la orden"
// @Param        body      body  dto.InitOrderStateRequest  true  "código inicial dentro de processing"
// @Success      201  {object}  dto.OrderStateResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/orders/{order_id}/state [post]
func (h *OrderStateHandler) Init(c *fiber.Ctx) error {
	var in dto.InitOrderStateRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	state, err := h.uc.Init(c.Context(), c.Params("order_id"), in.Code)
	if err != nil {
		return mapOrderStateError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromOrderState(state))
}

// Transition godoc
// @Summary      Aplicar una transición de estado a una orden
// @Description  La secuencia de categorías solo avanza; un estado final no admite salidas.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        order_id  path  string  true  "Id de la orden"
// @Param        body      body  dto.TransitionRequest  true  "category, code, is_final"
// @Success      200  {object}  dto.OrderStateResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/orders/{order_id}/state/transition [post]
func (h *OrderStateHandler) Transition(c *fiber.Ctx) error {
	var in dto.TransitionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	target := domstate.Target{Category: in.Category, Code: in.Code, IsFinal: in.IsFinal}
	state, err := h.uc.Transition(c.Context(), c.Params("order_id"), target)
	if err != nil {
		return mapOrderStateError(c, err)
	}
	return c.JSON(dto.FromOrderState(state))
}

func mapOrderStateError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "transición inválida"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "orden sin estado registrado"})
	case errors.Is(err, domain.ErrTerminalState):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "TERMINAL_STATE", Message: "la orden está en un estado final"})
	case errors.Is(err, domain.ErrAllocationUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "UNAVAILABLE", Message: "contención en el almacén, reintente"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

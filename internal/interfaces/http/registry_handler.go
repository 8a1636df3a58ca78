package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/grupoandino/bodega-core/internal/application/dto"
	"github.com/grupoandino/bodega-core/internal/application/registry"
	"github.com/grupoandino/bodega-core/internal/domain"
	"github.com/grupoandino/bodega-core/internal/domain/entity"
)

// RegistryHandler maneja las peticiones HTTP del registro unificado de lotes.
type RegistryHandler struct {
	uc *registry.UseCase
}

// NewRegistryHandler construye el handler.
func NewRegistryHandler(uc *registry.UseCase) *RegistryHandler {
	return &RegistryHandler{uc: uc}
}

// Register godoc
// @Summary      Registrar un lote nuevo (producto o material de empaque)
// @Tags         registry
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterBatchRequest  true  "kind, part_code, total_received, inbound_date; expiry_date opcional"
// @Success      201   {object}  dto.RegistryEntryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/registry/batches [post]
func (h *RegistryHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	entry, err := h.uc.Register(c.Context(), in.ToBatch(), in.Actor)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos de lote inválidos"})
		}
		if errors.Is(err, domain.ErrDuplicateRegistration) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE_REGISTRATION", Message: "el lote ya está registrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromRegistryEntry(entry))
}

// Resolve godoc
// @Summary      Resolver un registry_id al lote subyacente
// @Tags         registry
// @Produce      json
// @Param        registry_id  path  string  true  "Id de registro"
// @Success      200  {object}  dto.BatchResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/registry/{registry_id} [get]
func (h *RegistryHandler) Resolve(c *fiber.Ctx) error {
	batch, err := h.uc.Resolve(c.Context(), c.Params("registry_id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "registro o lote no encontrado"})
		}
		if errors.Is(err, domain.ErrInvalidInput) || errors.Is(err, domain.ErrInvariantViolation) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "registro inválido"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.FromBatch(batch))
}

// ListEligible godoc
// @Summary      Lotes elegibles para asignación en orden FEFO
// @Tags         registry
// @Produce      json
// @Param        part_code  query  string  true  "SKU o código de material"
// @Param        kind       query  string  true  "product | packaging_material"
// @Success      200  {array}   dto.BatchResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/registry/batches [get]
func (h *RegistryHandler) ListEligible(c *fiber.Ctx) error {
	partCode := c.Query("part_code")
	kind := c.Query("kind")
	if partCode == "" || !entity.ValidKind(kind) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "part_code y kind son obligatorios"})
	}
	batches, err := h.uc.ListEligible(c.Context(), partCode, kind)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.BatchResponse, 0, len(batches))
	for _, b := range batches {
		out = append(out, dto.FromBatch(b))
	}
	return c.JSON(fiber.Map{"total": len(out), "batches": out})
}

// SetQuarantine godoc
// @Summary      Poner o sacar un lote de cuarentena
// @Tags         registry
// @Accept       json
// @Produce      json
// @Param        batch_id  path  string  true  "Id del lote"
// @Param        body      body  dto.QuarantineRequest  true  "quarantined + actor"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/registry/batches/{batch_id}/quarantine [put]
func (h *RegistryHandler) SetQuarantine(c *fiber.Ctx) error {
	var in dto.QuarantineRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	err := h.uc.SetQuarantine(c.Context(), c.Params("batch_id"), in.Quarantined, in.Actor)
	if err != nil {
		return mapMutationError(c, err)
	}
	return c.JSON(fiber.Map{"message": "estado de cuarentena actualizado"})
}

// MarkExpired godoc
// @Summary      Marcar como vencido un lote con fecha de vencimiento pasada
// @Tags         registry
// @Produce      json
// @Param        batch_id  path  string  true  "Id del lote"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/registry/batches/{batch_id}/expire [post]
func (h *RegistryHandler) MarkExpired(c *fiber.Ctx) error {
	err := h.uc.MarkExpired(c.Context(), c.Params("batch_id"), c.Query("actor"))
	if err != nil {
		return mapMutationError(c, err)
	}
	return c.JSON(fiber.Map{"message": "lote vencido"})
}

// mapMutationError traduce los errores comunes de mutación de lotes a HTTP.
func mapMutationError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "petición inválida"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "lote no encontrado"})
	case errors.Is(err, domain.ErrTerminalState):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "TERMINAL_STATE", Message: "el lote no admite la transición"})
	case errors.Is(err, domain.ErrAllocationUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "UNAVAILABLE", Message: "contención en el almacén, reintente"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/grupoandino/bodega-core/internal/application/audit"
	"github.com/grupoandino/bodega-core/internal/application/dto"
	"github.com/grupoandino/bodega-core/internal/domain"
)

// AuditHandler maneja las peticiones HTTP de auditoría (bitácora y asignaciones).
type AuditHandler struct {
	uc *audit.UseCase
}

// NewAuditHandler construye el handler.
func NewAuditHandler(uc *audit.UseCase) *AuditHandler {
	return &AuditHandler{uc: uc}
}

// BatchLog godoc
// @Summary      Bitácora de actividad de un lote
// @Tags         audit
// @Produce      json
// @Param        batch_id  path  string  true  "Id del lote"
// @Success      200  {array}   dto.ActivityLogEntryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/audit/batches/{batch_id}/log [get]
func (h *AuditHandler) BatchLog(c *fiber.Ctx) error {
	entries, err := h.uc.ListByBatch(c.Context(), c.Params("batch_id"))
	if err != nil {
		return mapAuditError(c, err)
	}
	out := make([]dto.ActivityLogEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.FromActivityLogEntry(e))
	}
	return c.JSON(fiber.Map{"total": len(out), "entries": out})
}

// BatchLogXLSX godoc
// @Summary      Exportar la bitácora de un lote en XLSX
// @Tags         audit
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        batch_id  path  string  true  "Id del lote"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/audit/batches/{batch_id}/log/xlsx [get]
func (h *AuditHandler) BatchLogXLSX(c *fiber.Ctx) error {
	data, err := h.uc.ExportBatchLogXLSX(c.Context(), c.Params("batch_id"))
	if err != nil {
		return mapAuditError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="bitacora-`+c.Params("batch_id")+`.xlsx"`)
	return c.Send(data)
}

// OrderAllocations godoc
// @Summary      Asignaciones de una orden, incluidas fallidas y liberadas
// @Tags         audit
// @Produce      json
// @Param        order_id  path  string  true  "Id de la orden"
// @Success      200  {array}   dto.AllocationResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/audit/orders/{order_id}/allocations [get]
func (h *AuditHandler) OrderAllocations(c *fiber.Ctx) error {
	allocs, err := h.uc.ListAllocationsByOrder(c.Context(), c.Params("order_id"))
	if err != nil {
		return mapAuditError(c, err)
	}
	out := make([]dto.AllocationResponse, 0, len(allocs))
	for _, a := range allocs {
		out = append(out, dto.FromAllocation(a))
	}
	return c.JSON(fiber.Map{"total": len(out), "allocations": out})
}

func mapAuditError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "petición inválida"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "sin datos para exportar"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

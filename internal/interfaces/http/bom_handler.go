package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	appbom "github.com/grupoandino/bodega-core/internal/application/bom"
	"github.com/grupoandino/bodega-core/internal/application/dto"
	"github.com/grupoandino/bodega-core/internal/domain"
)

// BomHandler maneja las peticiones HTTP de factibilidad de producción.
type BomHandler struct {
	uc *appbom.ReadinessUseCase
}

// NewBomHandler construye el handler.
func NewBomHandler(uc *appbom.ReadinessUseCase) *BomHandler {
	return &BomHandler{uc: uc}
}

// Readiness godoc
// @Summary      Factibilidad de producción de un BOM
// @Description  Máximo producible y faltantes; snapshot consultivo, no una reserva.
// @Tags         bom
// @Produce      json
// @Param        bom_id  path   string  true   "Id del BOM"
// @Param        target  query  int     false  "Objetivo de unidades para el cálculo de faltantes"
// @Success      200  {object}  dto.ReadinessResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/boms/{bom_id}/readiness [get]
func (h *BomHandler) Readiness(c *fiber.Ctx) error {
	bomID := c.Params("bom_id")
	target, err := parseTarget(c.Query("target"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "target debe ser un entero positivo"})
	}
	res, err := h.uc.ComputeReadiness(c.Context(), bomID, target)
	if err != nil {
		return mapBomError(c, err)
	}
	return c.JSON(dto.FromReadinessResult(bomID, target, res))
}

// ReadinessPDF godoc
// @Summary      Reporte PDF de factibilidad de un BOM
// @Tags         bom
// @Produce      application/pdf
// @Param        bom_id  path   string  true   "Id del BOM"
// @Param        target  query  int     false  "Objetivo de unidades"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/boms/{bom_id}/readiness/pdf [get]
func (h *BomHandler) ReadinessPDF(c *fiber.Ctx) error {
	bomID := c.Params("bom_id")
	target, err := parseTarget(c.Query("target"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "target debe ser un entero positivo"})
	}
	pdfBytes, err := h.uc.ReadinessReportPDF(c.Context(), bomID, target)
	if err != nil {
		return mapBomError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="factibilidad-`+bomID+`.pdf"`)
	return c.Send(pdfBytes)
}

func parseTarget(raw string) (*int64, error) {
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		return nil, domain.ErrInvalidInput
	}
	return &n, nil
}

func mapBomError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "petición inválida"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "bom no encontrado"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

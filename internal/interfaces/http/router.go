package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/grupoandino/bodega-core/internal/application/allocation"
	"github.com/grupoandino/bodega-core/internal/application/audit"
	appbom "github.com/grupoandino/bodega-core/internal/application/bom"
	appstate "github.com/grupoandino/bodega-core/internal/application/orderstate"
	"github.com/grupoandino/bodega-core/internal/application/registry"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	RegistryUC   *registry.UseCase
	Engine       *allocation.Engine
	ReadinessUC  *appbom.ReadinessUseCase
	OrderStateUC *appstate.UseCase
	AuditUC      *audit.UseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Registro unificado de lotes
	reg := api.Group("/registry")
	registryHandler := NewRegistryHandler(deps.RegistryUC)
	reg.Post("/batches", registryHandler.Register)
	reg.Get("/batches", registryHandler.ListEligible)
	reg.Put("/batches/:batch_id/quarantine", registryHandler.SetQuarantine)
	reg.Post("/batches/:batch_id/expire", registryHandler.MarkExpired)
	reg.Get("/:registry_id", registryHandler.Resolve)

	// Órdenes: estado de asignación + motor FEFO
	orders := api.Group("/orders")
	orderStateHandler := NewOrderStateHandler(deps.OrderStateUC)
	orders.Get("/:order_id/state", orderStateHandler.Get)
	orders.Post("/:order_id/state", orderStateHandler.Init)
	orders.Post("/:order_id/state/transition", orderStateHandler.Transition)

	allocationHandler := NewAllocationHandler(deps.Engine)
	orders.Post("/:order_id/reserve", allocationHandler.Reserve)
	orders.Post("/:order_id/confirm", allocationHandler.Confirm)
	orders.Post("/:order_id/release", allocationHandler.Release)

	// Factibilidad de producción
	boms := api.Group("/boms")
	bomHandler := NewBomHandler(deps.ReadinessUC)
	boms.Get("/:bom_id/readiness", bomHandler.Readiness)
	boms.Get("/:bom_id/readiness/pdf", bomHandler.ReadinessPDF)

	// Auditoría
	auditGroup := api.Group("/audit")
	auditHandler := NewAuditHandler(deps.AuditUC)
	auditGroup.Get("/batches/:batch_id/log", auditHandler.BatchLog)
	auditGroup.Get("/batches/:batch_id/log/xlsx", auditHandler.BatchLogXLSX)
	auditGroup.Get("/orders/:order_id/allocations", auditHandler.OrderAllocations)
}

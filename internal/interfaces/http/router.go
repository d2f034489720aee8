package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	appanalytics "github.com/jhoicas/dental-ops-api/internal/application/analytics"
	"github.com/jhoicas/dental-ops-api/internal/application/export"
	"github.com/jhoicas/dental-ops-api/internal/application/inventory"
	"github.com/jhoicas/dental-ops-api/internal/application/usecase"
	"github.com/jhoicas/dental-ops-api/internal/domain/entity"
	"github.com/jhoicas/dental-ops-api/internal/domain/workflow"
	"github.com/jhoicas/dental-ops-api/internal/observability"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	FacilityUC   *usecase.FacilityUseCase
	ContractUC   *usecase.ContractUseCase
	OrderUC      *usecase.OrderUseCase
	ReportUC     *usecase.ReportUseCase
	InventoryUC  *inventory.UseCase
	WithdrawalUC *inventory.WithdrawalUseCase
	AttachmentUC *usecase.AttachmentUseCase
	DashboardUC  *appanalytics.DashboardUseCase
	Exports      *export.Service
	Tables       *export.Builder
	Metrics      *observability.Metrics
	JWTSecret    string
	JWTIssuer    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Use(deps.Metrics.Middleware())
	app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))

	// Todo /api exige Bearer Token y un centro registrado (si el token trae centro).
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer), RequireKnownFacility(deps.FacilityUC))
	adminOnly := RequireRole(entity.RoleAdmin)

	facilities := api.Group("/facilities")
	facilityHandler := NewFacilityHandler(deps.FacilityUC)
	facilities.Post("/", facilityHandler.Create)
	facilities.Get("/", facilityHandler.List)
	ownFacility := RequireOwnFacility(deps.FacilityUC)
	facilities.Get("/:id", ownFacility, facilityHandler.GetByID)
	facilities.Put("/:id", ownFacility, facilityHandler.Update)
	facilities.Delete("/:id", adminOnly, ownFacility, facilityHandler.Delete)

	attachmentHandler := NewAttachmentHandler(deps.AttachmentUC)
	attachments := func(g fiber.Router, kind workflow.Kind, own fiber.Handler) {
		g.Post("/:id/attachment", own, attachmentHandler.Upload(kind))
		g.Get("/:id/attachment", own, attachmentHandler.Link(kind))
		g.Delete("/:id/attachment", adminOnly, own, attachmentHandler.Remove(kind))
	}

	// Contratos
	contracts := api.Group("/contracts")
	contractHandler := NewContractHandler(deps.ContractUC, deps.Exports, deps.Tables)
	contracts.Get("/export", contractHandler.Export)
	contracts.Post("/", contractHandler.Create)
	contracts.Get("/", contractHandler.List)
	ownContract := RequireOwnFacility(deps.ContractUC)
	contracts.Get("/:id", ownContract, contractHandler.GetByID)
	contracts.Put("/:id", ownContract, contractHandler.Update)
	contracts.Delete("/:id", adminOnly, ownContract, contractHandler.Delete)
	contracts.Get("/:id/transitions", ownContract, contractHandler.Transitions)
	contracts.Patch("/:id/status", ownContract, contractHandler.UpdateStatus)
	attachments(contracts, workflow.KindContract, ownContract)

	// Órdenes de compra directa
	orders := api.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderUC, deps.Exports, deps.Tables)
	orders.Get("/export", orderHandler.Export)
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.List)
	ownOrder := RequireOwnFacility(deps.OrderUC)
	orders.Get("/:id", ownOrder, orderHandler.GetByID)
	orders.Put("/:id", ownOrder, orderHandler.Update)
	orders.Delete("/:id", adminOnly, ownOrder, orderHandler.Delete)
	orders.Get("/:id/transitions", ownOrder, orderHandler.Transitions)
	orders.Patch("/:id/status", ownOrder, orderHandler.UpdateStatus)
	attachments(orders, workflow.KindOrder, ownOrder)

	// Reportes de falla
	reports := api.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportUC, deps.Exports, deps.Tables)
	reports.Get("/export", reportHandler.Export)
	reports.Post("/", reportHandler.Create)
	reports.Get("/", reportHandler.List)
	ownReport := RequireOwnFacility(deps.ReportUC)
	reports.Get("/:id", ownReport, reportHandler.GetByID)
	reports.Put("/:id", ownReport, reportHandler.Update)
	reports.Delete("/:id", adminOnly, ownReport, reportHandler.Delete)
	reports.Get("/:id/transitions", ownReport, reportHandler.Transitions)
	reports.Patch("/:id/status", ownReport, reportHandler.UpdateStatus)
	attachments(reports, workflow.KindReport, ownReport)

	// Inventario y órdenes de retiro
	inv := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.InventoryUC, deps.WithdrawalUC, deps.Exports, deps.Tables)
	inv.Get("/low-stock", inventoryHandler.LowStock)
	inv.Get("/summary", inventoryHandler.Summary)
	inv.Get("/export", inventoryHandler.Export)
	inv.Post("/", inventoryHandler.Create)
	inv.Get("/", inventoryHandler.List)
	ownItem := RequireOwnFacility(deps.InventoryUC)
	inv.Get("/:id", ownItem, inventoryHandler.GetByID)
	inv.Put("/:id", ownItem, inventoryHandler.Update)
	inv.Delete("/:id", adminOnly, ownItem, inventoryHandler.Delete)
	inv.Post("/:id/withdrawals", ownItem, inventoryHandler.CreateWithdrawal)
	inv.Get("/:id/withdrawals", ownItem, inventoryHandler.ListWithdrawals)
	api.Patch("/withdrawals/:id/status", RequireOwnFacility(deps.WithdrawalUC), inventoryHandler.ResolveWithdrawal)

	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	api.Get("/dashboard/summary", dashboardHandler.GetSummary)
	api.Get("/statuses/:kind", dashboardHandler.Statuses)
}

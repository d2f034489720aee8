package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/dental-ops-api/internal/application/analytics"
	"github.com/jhoicas/dental-ops-api/internal/application/dto"
	"github.com/jhoicas/dental-ops-api/internal/application/usecase"
)

// DashboardHandler maneja los endpoints del tablero y del catálogo de estados.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary godoc
// @Summary      Resumen del tablero
// @Description  Conteo por estado de contratos, órdenes y reportes, más los totales del inventario.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.Response{data=dto.DashboardSummaryDTO}
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/dashboard/summary [get]
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(summary))
}

// Statuses godoc
// @Summary      Catálogo de estados
// @Description  Estados de un tipo de registro (contract, order, report) en orden de flujo, con etiqueta y color.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Param        kind  path  string  true  "contract | order | report"
// @Success      200   {object}  dto.Response{data=dto.StatusesResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/statuses/{kind} [get]
func (h *DashboardHandler) Statuses(c *fiber.Ctx) error {
	out, err := usecase.StatusCatalog(c.Params("kind"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(out))
}

package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/dental-ops-api/internal/application/dto"
	"github.com/jhoicas/dental-ops-api/internal/application/export"
	"github.com/jhoicas/dental-ops-api/internal/application/usecase"
)

// ReportHandler maneja las peticiones HTTP de reportes de falla (protegido).
type ReportHandler struct {
	uc      *usecase.ReportUseCase
	exports *export.Service
	tables  *export.Builder
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *usecase.ReportUseCase, exports *export.Service, tables *export.Builder) *ReportHandler {
	return &ReportHandler{uc: uc, exports: exports, tables: tables}
}

// Create godoc
// @Summary      Registrar reporte de falla
// @Tags         reports
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateReportRequest  true  "Datos del reporte"
// @Success      201   {object}  dto.Response{data=dto.ReportResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/reports [post]
func (h *ReportHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateReportRequest
	if err := bindBody(c, &in); err != nil {
		return respondError(c, err)
	}
	if err := checkFacility(c, in.FacilityName); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Create(c.Context(), GetActor(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.OK(out))
}

// GetByID godoc
// @Summary      Obtener reporte
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del reporte"
// @Success      200  {object}  dto.Response{data=dto.ReportResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reports/{id} [get]
func (h *ReportHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// Update godoc
// @Summary      Editar reporte
// @Description  Edita los datos del reporte. El estado solo cambia con PATCH /status.
// @Tags         reports
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del reporte"
// @Param        body  body  dto.UpdateReportRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.Response{data=dto.ReportResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/reports/{id} [put]
func (h *ReportHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateReportRequest
	if err := bindBody(c, &in); err != nil {
		return respondError(c, err)
	}
	if in.FacilityName != nil {
		if err := checkFacility(c, *in.FacilityName); err != nil {
			return respondError(c, err)
		}
	}
	out, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// List godoc
// @Summary      Listar reportes
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        search    query  string  false  "Búsqueda libre"
// @Param        facility  query  string  false  "Centro (all = todos)"
// @Param        category  query  string  false  "Categoría"
// @Param        status    query  string  false  "Estado"
// @Param        from      query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to        query  string  false  "Hasta (YYYY-MM-DD)"
// @Param        quick     query  string  false  "Filtro rápido (open, closed, out_of_service, long_downtime)"
// @Param        page      query  int     false  "Página"  default(1)
// @Success      200  {object}  dto.Response{data=dto.ListResponse[dto.ReportResponse]}
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports [get]
func (h *ReportHandler) List(c *fiber.Ctx) error {
	q, err := bindQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.List(c.Context(), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// Export godoc
// @Summary      Exportar reportes
// @Description  Mismos filtros que el listado, sin paginar.
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        format  query  string  false  "pdf | xlsx | html | csv"  default(pdf)
// @Success      200
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/export [get]
func (h *ReportHandler) Export(c *fiber.Ctx) error {
	q, err := bindQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	items, err := h.uc.Filtered(c.Context(), q)
	if err != nil {
		return respondError(c, err)
	}
	return sendExport(c, h.exports, "reportes_falla", h.tables.Reports(items))
}

// Delete godoc
// @Summary      Eliminar reporte
// @Tags         reports
// @Security     Bearer
// @Param        id       path   string  true  "ID del reporte"
// @Param        confirm  query  bool    true  "Confirmación explícita"
// @Success      200  {object}  dto.Response
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      428  {object}  dto.ErrorResponse
// @Router       /api/reports/{id} [delete]
func (h *ReportHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id"), confirmed(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.Response{Success: true, Message: "reporte eliminado"})
}

// Transitions godoc
// @Summary      Estados disponibles
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del reporte"
// @Success      200  {object}  dto.Response{data=dto.TransitionsResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reports/{id}/transitions [get]
func (h *ReportHandler) Transitions(c *fiber.Ctx) error {
	out, err := h.uc.Transitions(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// UpdateStatus godoc
// @Summary      Cambiar estado del reporte
// @Description  Valida la transición, guarda estado e historial de forma atómica.
// @Tags         reports
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del reporte"
// @Param        body  body  dto.StatusUpdateRequest  true  "Nuevo estado, nota y fecha"
// @Success      200   {object}  dto.Response{data=dto.ReportResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/reports/{id}/status [patch]
func (h *ReportHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.StatusUpdateRequest
	if err := bindBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.UpdateStatus(c.Context(), c.Params("id"), GetActor(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.Response{Success: true, Message: "estado actualizado", Data: out})
}

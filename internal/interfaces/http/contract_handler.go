package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/dental-ops-api/internal/application/dto"
	"github.com/jhoicas/dental-ops-api/internal/application/export"
	"github.com/jhoicas/dental-ops-api/internal/application/usecase"
)

// ContractHandler maneja las peticiones HTTP de contratos (protegido).
type ContractHandler struct {
	uc      *usecase.ContractUseCase
	exports *export.Service
	tables  *export.Builder
}

// NewContractHandler construye el handler.
func NewContractHandler(uc *usecase.ContractUseCase, exports *export.Service, tables *export.Builder) *ContractHandler {
	return &ContractHandler{uc: uc, exports: exports, tables: tables}
}

// Create godoc
// @Summary      Registrar contrato
// @Tags         contracts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateContractRequest  true  "Datos del contrato"
// @Success      201   {object}  dto.Response{data=dto.ContractResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/contracts [post]
func (h *ContractHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateContractRequest
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
// @Summary      Obtener contrato
// @Tags         contracts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del contrato"
// @Success      200  {object}  dto.Response{data=dto.ContractResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/contracts/{id} [get]
func (h *ContractHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// Update godoc
// @Summary      Editar contrato
// @Description  Edita datos y cantidades. El estado solo cambia con PATCH /status.
// @Tags         contracts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del contrato"
// @Param        body  body  dto.UpdateContractRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.Response{data=dto.ContractResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/contracts/{id} [put]
func (h *ContractHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateContractRequest
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
// @Summary      Listar contratos
// @Tags         contracts
// @Security     Bearer
// @Produce      json
// @Param        search    query  string  false  "Búsqueda libre"
// @Param        facility  query  string  false  "Centro (all = todos)"
// @Param        category  query  string  false  "Categoría"
// @Param        status    query  string  false  "Estado"
// @Param        supplier  query  string  false  "Proveedor"
// @Param        from      query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to        query  string  false  "Hasta (YYYY-MM-DD)"
// @Param        quick     query  string  false  "Filtro rápido (pending, in_progress, delivered, rejected, has_remaining, with_attachment)"
// @Param        page      query  int     false  "Página"  default(1)
// @Success      200  {object}  dto.Response{data=dto.ListResponse[dto.ContractResponse]}
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/contracts [get]
func (h *ContractHandler) List(c *fiber.Ctx) error {
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
// @Summary      Exportar contratos
// @Description  Mismos filtros que el listado, sin paginar.
// @Tags         contracts
// @Security     Bearer
// @Produce      application/pdf
// @Param        format  query  string  false  "pdf | xlsx | html | csv"  default(pdf)
// @Success      200
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/contracts/export [get]
func (h *ContractHandler) Export(c *fiber.Ctx) error {
	q, err := bindQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	items, err := h.uc.Filtered(c.Context(), q)
	if err != nil {
		return respondError(c, err)
	}
	return sendExport(c, h.exports, "contratos", h.tables.Contracts(items))
}

// Delete godoc
// @Summary      Eliminar contrato
// @Tags         contracts
// @Security     Bearer
// @Param        id       path   string  true  "ID del contrato"
// @Param        confirm  query  bool    true  "Confirmación explícita"
// @Success      200  {object}  dto.Response
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      428  {object}  dto.ErrorResponse
// @Router       /api/contracts/{id} [delete]
func (h *ContractHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id"), confirmed(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.Response{Success: true, Message: "contrato eliminado"})
}

// Transitions godoc
// @Summary      Estados disponibles
// @Tags         contracts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del contrato"
// @Success      200  {object}  dto.Response{data=dto.TransitionsResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/contracts/{id}/transitions [get]
func (h *ContractHandler) Transitions(c *fiber.Ctx) error {
	out, err := h.uc.Transitions(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// UpdateStatus godoc
// @Summary      Cambiar estado del contrato
// @Description  Valida la transición, guarda estado e historial de forma atómica.
// @Tags         contracts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del contrato"
// @Param        body  body  dto.StatusUpdateRequest  true  "Nuevo estado, nota y fecha"
// @Success      200   {object}  dto.Response{data=dto.ContractResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/contracts/{id}/status [patch]
func (h *ContractHandler) UpdateStatus(c *fiber.Ctx) error {
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

package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/dental-ops-api/internal/application/dto"
	"github.com/jhoicas/dental-ops-api/internal/application/export"
	"github.com/jhoicas/dental-ops-api/internal/application/usecase"
)

// OrderHandler maneja las peticiones HTTP de órdenes de compra directa (protegido).
type OrderHandler struct {
	uc      *usecase.OrderUseCase
	exports *export.Service
	tables  *export.Builder
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *usecase.OrderUseCase, exports *export.Service, tables *export.Builder) *OrderHandler {
	return &OrderHandler{uc: uc, exports: exports, tables: tables}
}

// Create godoc
// @Summary      Registrar orden de compra directa
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "Datos de la orden"
// @Success      201   {object}  dto.Response{data=dto.OrderResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
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
// @Summary      Obtener orden
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.Response{data=dto.OrderResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// Update godoc
// @Summary      Editar orden
// @Description  Edita datos y cantidades. El estado solo cambia con PATCH /status.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID de la orden"
// @Param        body  body  dto.UpdateOrderRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.Response{data=dto.OrderResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [put]
func (h *OrderHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateOrderRequest
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
// @Summary      Listar órdenes
// @Tags         orders
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
// @Success      200  {object}  dto.Response{data=dto.ListResponse[dto.OrderResponse]}
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
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
// @Summary      Exportar órdenes
// @Description  Mismos filtros que el listado, sin paginar.
// @Tags         orders
// @Security     Bearer
// @Produce      application/pdf
// @Param        format  query  string  false  "pdf | xlsx | html | csv"  default(pdf)
// @Success      200
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/orders/export [get]
func (h *OrderHandler) Export(c *fiber.Ctx) error {
	q, err := bindQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	items, err := h.uc.Filtered(c.Context(), q)
	if err != nil {
		return respondError(c, err)
	}
	return sendExport(c, h.exports, "ordenes_compra", h.tables.Orders(items))
}

// Delete godoc
// @Summary      Eliminar orden
// @Tags         orders
// @Security     Bearer
// @Param        id       path   string  true  "ID de la orden"
// @Param        confirm  query  bool    true  "Confirmación explícita"
// @Success      200  {object}  dto.Response
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      428  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [delete]
func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id"), confirmed(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.Response{Success: true, Message: "orden eliminada"})
}

// Transitions godoc
// @Summary      Estados disponibles
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.Response{data=dto.TransitionsResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/transitions [get]
func (h *OrderHandler) Transitions(c *fiber.Ctx) error {
	out, err := h.uc.Transitions(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// UpdateStatus godoc
// @Summary      Cambiar estado de la orden (fecha obligatoria)
// @Description  Valida la transición, guarda estado e historial de forma atómica.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID de la orden"
// @Param        body  body  dto.StatusUpdateRequest  true  "Nuevo estado, nota y fecha"
// @Success      200   {object}  dto.Response{data=dto.OrderResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
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

package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/dental-ops-api/internal/application/dto"
	"github.com/jhoicas/dental-ops-api/internal/application/export"
	"github.com/jhoicas/dental-ops-api/internal/application/inventory"
)

// InventoryHandler maneja las peticiones HTTP de ítems de inventario y órdenes de retiro (protegido).
type InventoryHandler struct {
	uc          *inventory.UseCase
	withdrawals *inventory.WithdrawalUseCase
	exports     *export.Service
	tables      *export.Builder
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.UseCase, withdrawals *inventory.WithdrawalUseCase, exports *export.Service, tables *export.Builder) *InventoryHandler {
	return &InventoryHandler{uc: uc, withdrawals: withdrawals, exports: exports, tables: tables}
}

// Create godoc
// @Summary      Registrar ítem de inventario
// @Description  El disponible se calcula como recibido - despachado (nunca negativo).
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInventoryItemRequest  true  "Datos del ítem"
// @Success      201   {object}  dto.Response{data=dto.InventoryItemResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/inventory [post]
func (h *InventoryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInventoryItemRequest
	if err := bindBody(c, &in); err != nil {
		return respondError(c, err)
	}
	if err := checkFacility(c, in.FacilityName); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.OK(out))
}

// GetByID godoc
// @Summary      Obtener ítem de inventario
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del ítem"
// @Success      200  {object}  dto.Response{data=dto.InventoryItemResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/{id} [get]
func (h *InventoryHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// Update godoc
// @Summary      Editar ítem de inventario
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                          true  "ID del ítem"
// @Param        body  body  dto.UpdateInventoryItemRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.Response{data=dto.InventoryItemResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/{id} [put]
func (h *InventoryHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateInventoryItemRequest
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
// @Summary      Listar inventario
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        search    query  string  false  "Búsqueda libre"
// @Param        facility  query  string  false  "Centro (all = todos)"
// @Param        category  query  string  false  "Categoría"
// @Param        supplier  query  string  false  "Proveedor"
// @Param        quick     query  string  false  "Filtro rápido (low_stock, out_of_stock, in_stock)"
// @Param        page      query  int     false  "Página"  default(1)
// @Success      200  {object}  dto.Response{data=dto.ListResponse[dto.InventoryItemResponse]}
// @Router       /api/inventory [get]
func (h *InventoryHandler) List(c *fiber.Ctx) error {
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

// LowStock godoc
// @Summary      Ítems bajo el mínimo
// @Description  Ordenados por faltante, de mayor a menor.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        facility  query  string  false  "Centro"
// @Success      200  {object}  dto.Response{data=[]dto.InventoryItemResponse}
// @Router       /api/inventory/low-stock [get]
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	q, err := bindQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.LowStock(c.Context(), q.Facility)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// Summary godoc
// @Summary      Totales del inventario
// @Description  Valor total (Σ precio unitario * disponible) y valor de compra del conjunto filtrado.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.Response{data=dto.InventorySummaryResponse}
// @Router       /api/inventory/summary [get]
func (h *InventoryHandler) Summary(c *fiber.Ctx) error {
	q, err := bindQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Summary(c.Context(), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// Export godoc
// @Summary      Exportar inventario
// @Tags         inventory
// @Security     Bearer
// @Produce      application/pdf
// @Param        format  query  string  false  "pdf | xlsx | html | csv"  default(pdf)
// @Success      200
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/export [get]
func (h *InventoryHandler) Export(c *fiber.Ctx) error {
	q, err := bindQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	items, err := h.uc.Filtered(c.Context(), q)
	if err != nil {
		return respondError(c, err)
	}
	return sendExport(c, h.exports, "inventario", h.tables.Inventory(items))
}

// Delete godoc
// @Summary      Eliminar ítem de inventario
// @Tags         inventory
// @Security     Bearer
// @Param        id       path   string  true  "ID del ítem"
// @Param        confirm  query  bool    true  "Confirmación explícita"
// @Success      200  {object}  dto.Response
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      428  {object}  dto.ErrorResponse
// @Router       /api/inventory/{id} [delete]
func (h *InventoryHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id"), confirmed(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.Response{Success: true, Message: "ítem eliminado"})
}

// CreateWithdrawal godoc
// @Summary      Registrar orden de retiro
// @Description  La cantidad debe ser mayor que cero y no superar el disponible. El stock se descuenta al despachar.
// @Tags         withdrawals
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "ID del ítem"
// @Param        body  body  dto.CreateWithdrawalRequest  true  "Cantidad y destinatario"
// @Success      201   {object}  dto.Response{data=dto.WithdrawalResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/{id}/withdrawals [post]
func (h *InventoryHandler) CreateWithdrawal(c *fiber.Ctx) error {
	var in dto.CreateWithdrawalRequest
	if err := bindBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.withdrawals.Create(c.Context(), c.Params("id"), GetActor(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.OK(out))
}

// ListWithdrawals godoc
// @Summary      Órdenes de retiro de un ítem
// @Tags         withdrawals
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del ítem"
// @Success      200  {object}  dto.Response{data=[]dto.WithdrawalResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/{id}/withdrawals [get]
func (h *InventoryHandler) ListWithdrawals(c *fiber.Ctx) error {
	out, err := h.withdrawals.ListByItem(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// ResolveWithdrawal godoc
// @Summary      Resolver orden de retiro
// @Description  dispensed descuenta el stock en la misma transacción; rejected y cancelled solo cierran la orden.
// @Tags         withdrawals
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "ID de la orden de retiro"
// @Param        body  body  dto.WithdrawalStatusRequest  true  "Nuevo estado"
// @Success      200   {object}  dto.Response{data=dto.WithdrawalResult}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/withdrawals/{id}/status [patch]
func (h *InventoryHandler) ResolveWithdrawal(c *fiber.Ctx) error {
	var in dto.WithdrawalStatusRequest
	if err := bindBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.withdrawals.Resolve(c.Context(), c.Params("id"), GetActor(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.Response{Success: true, Message: "orden de retiro actualizada", Data: out})
}

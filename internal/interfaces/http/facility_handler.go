package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/dental-ops-api/internal/application/dto"
	"github.com/jhoicas/dental-ops-api/internal/application/usecase"
)

// FacilityHandler maneja las peticiones HTTP para centros (protegido).
type FacilityHandler struct {
	uc *usecase.FacilityUseCase
}

// NewFacilityHandler construye el handler.
func NewFacilityHandler(uc *usecase.FacilityUseCase) *FacilityHandler {
	return &FacilityHandler{uc: uc}
}

// Create godoc
// @Summary      Crear centro
// @Tags         facilities
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateFacilityRequest  true  "Datos del centro"
// @Success      201   {object}  dto.Response{data=dto.FacilityResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/facilities [post]
func (h *FacilityHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateFacilityRequest
	if err := bindBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.OK(out))
}

// GetByID godoc
// @Summary      Obtener centro por ID
// @Tags         facilities
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del centro"
// @Success      200  {object}  dto.Response{data=dto.FacilityResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/facilities/{id} [get]
func (h *FacilityHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// Update godoc
// @Summary      Actualizar centro
// @Tags         facilities
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del centro"
// @Param        body  body  dto.UpdateFacilityRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.Response{data=dto.FacilityResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/facilities/{id} [put]
func (h *FacilityHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateFacilityRequest
	if err := bindBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// List godoc
// @Summary      Listar centros
// @Tags         facilities
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.Response{data=[]dto.FacilityResponse}
// @Router       /api/facilities [get]
func (h *FacilityHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// Delete godoc
// @Summary      Eliminar centro
// @Tags         facilities
// @Security     Bearer
// @Param        id       path   string  true  "ID del centro"
// @Param        confirm  query  bool    true  "Confirmación explícita"
// @Success      200  {object}  dto.Response
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      428  {object}  dto.ErrorResponse
// @Router       /api/facilities/{id} [delete]
func (h *FacilityHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id"), confirmed(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.Response{Success: true, Message: "centro eliminado"})
}

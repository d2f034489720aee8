package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/dental-ops-api/internal/application/dto"
	"github.com/jhoicas/dental-ops-api/internal/application/usecase"
	"github.com/jhoicas/dental-ops-api/internal/domain"
	"github.com/jhoicas/dental-ops-api/internal/domain/workflow"
)

// AttachmentHandler adjunto único (imagen o PDF) de contratos, órdenes y reportes.
// Cada ruta fija el tipo de registro; el handler no lo lee de la URL.
type AttachmentHandler struct {
	uc *usecase.AttachmentUseCase
}

// NewAttachmentHandler construye el handler.
func NewAttachmentHandler(uc *usecase.AttachmentUseCase) *AttachmentHandler {
	return &AttachmentHandler{uc: uc}
}

// Upload godoc
// @Summary      Subir adjunto
// @Description  Reemplaza el adjunto anterior. Solo imágenes o PDF (detectado por contenido).
// @Tags         attachments
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        id    path      string  true  "ID del registro"
// @Param        file  formData  file    true  "Archivo"
// @Success      201   {object}  dto.Response{data=dto.AttachmentDTO}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/contracts/{id}/attachment [post]
// @Router       /api/orders/{id}/attachment [post]
// @Router       /api/reports/{id}/attachment [post]
func (h *AttachmentHandler) Upload(kind workflow.Kind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return respondError(c, domain.NewValidationError("file", "archivo requerido"))
		}
		f, err := fh.Open()
		if err != nil {
			return respondError(c, domain.NewValidationError("file", "no se pudo leer el archivo"))
		}
		defer f.Close()

		out, err := h.uc.Upload(c.Context(), string(kind), c.Params("id"), fh.Filename, f)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(dto.OK(out))
	}
}

// Link godoc
// @Summary      Enlace del adjunto
// @Description  URL firmada y temporal del archivo.
// @Tags         attachments
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del registro"
// @Success      200  {object}  dto.Response{data=dto.AttachmentDTO}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/contracts/{id}/attachment [get]
// @Router       /api/orders/{id}/attachment [get]
// @Router       /api/reports/{id}/attachment [get]
func (h *AttachmentHandler) Link(kind workflow.Kind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		out, err := h.uc.Link(c.Context(), string(kind), c.Params("id"))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(dto.OK(out))
	}
}

// Remove godoc
// @Summary      Quitar adjunto
// @Tags         attachments
// @Security     Bearer
// @Param        id       path   string  true  "ID del registro"
// @Param        confirm  query  bool    true  "Confirmación explícita"
// @Success      200  {object}  dto.Response
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      428  {object}  dto.ErrorResponse
// @Router       /api/contracts/{id}/attachment [delete]
// @Router       /api/orders/{id}/attachment [delete]
// @Router       /api/reports/{id}/attachment [delete]
func (h *AttachmentHandler) Remove(kind workflow.Kind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := h.uc.Remove(c.Context(), string(kind), c.Params("id"), confirmed(c)); err != nil {
			return respondError(c, err)
		}
		return c.JSON(dto.Response{Success: true, Message: "adjunto eliminado"})
	}
}

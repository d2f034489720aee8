package http

import (
	"bytes"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/dental-ops-api/internal/application/export"
)

// sendExport renderiza la tabla en el formato de ?format= y la envía como descarga.
func sendExport(c *fiber.Ctx, svc *export.Service, base string, table *export.Table) error {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		return respondError(c, err)
	}
	var buf bytes.Buffer
	if err := svc.Render(c.Context(), &buf, format, table); err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, format.ContentType())
	if format != export.FormatHTML {
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", format.Filename(base, time.Now())))
	}
	return c.Send(buf.Bytes())
}

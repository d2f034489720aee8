// Package printing renderiza los listados en formatos de texto: CSV y HTML imprimible.
package printing

import (
	"bufio"
	"context"
	"encoding/csv"
	"io"

	"github.com/jhoicas/dental-ops-api/internal/application/export"
)

const (
	csvFlushEvery = 200
	csvBufferSize = 32 * 1024
)

// CSVRenderer implementa export.Renderer. Escribe BOM UTF-8 para que Excel detecte la codificación.
type CSVRenderer struct{}

var _ export.Renderer = CSVRenderer{}

// Format implementa export.Renderer.
func (CSVRenderer) Format() export.Format { return export.FormatCSV }

// Render vuelca cabecera, filas y totales.
func (CSVRenderer) Render(ctx context.Context, w io.Writer, t *export.Table) error {
	buf := bufio.NewWriterSize(w, csvBufferSize)
	if _, err := buf.WriteString("\ufeff"); err != nil {
		return err
	}
	cw := csv.NewWriter(buf)
	cw.UseCRLF = true

	header := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c.Header
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for i, cells := range t.Rows {
		if err := cw.Write(plain(cells)); err != nil {
			return err
		}
		if (i+1)%csvFlushEvery == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
			cw.Flush()
			if err := cw.Error(); err != nil {
				return err
			}
		}
	}
	if t.Totals != nil {
		if err := cw.Write(plain(t.Totals)); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return buf.Flush()
}

// plain los números van sin separadores de miles para que se puedan reimportar.
func plain(cells []export.Cell) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		if c.Number != nil {
			out[i] = c.Number.String()
			continue
		}
		out[i] = c.Text
	}
	return out
}

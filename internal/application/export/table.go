// Package export arma las tablas de exportación de los listados y las entrega
// al renderizador del formato pedido (PDF, Excel, HTML imprimible o CSV).
package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/dental-ops-api/internal/application/ports"
	"github.com/jhoicas/dental-ops-api/internal/domain"
	"github.com/jhoicas/dental-ops-api/pkg/logger"
)

// Format formato de exportación.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
	FormatHTML Format = "html"
	FormatCSV  Format = "csv"
)

var contentTypes = map[Format]string{
	FormatPDF:  "application/pdf",
	FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	FormatHTML: "text/html; charset=utf-8",
	FormatCSV:  "text/csv; charset=utf-8",
}

// ParseFormat vacío = pdf.
func ParseFormat(raw string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(raw)))
	if f == "" {
		return FormatPDF, nil
	}
	if _, ok := contentTypes[f]; !ok {
		return "", domain.NewValidationError("format", fmt.Sprintf("formato no soportado: %q (pdf, xlsx, html, csv)", raw))
	}
	return f, nil
}

// ContentType tipo MIME de la respuesta.
func (f Format) ContentType() string { return contentTypes[f] }

// Filename nombre sugerido del archivo descargado.
func (f Format) Filename(base string, at time.Time) string {
	return fmt.Sprintf("%s_%s.%s", base, at.Format("20060102_1504"), f)
}

// Align alineación horizontal de una columna.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Column columna de la tabla. Width es relativo al resto de columnas.
type Column struct {
	Header string
	Width  int
	Align  Align
}

// Cell celda con su texto de presentación. Number se usa en formatos que distinguen números (xlsx).
type Cell struct {
	Text   string
	Number *decimal.Decimal
}

// Text celda de texto.
func Text(s string) Cell { return Cell{Text: s} }

// Table documento tabular independiente del formato.
type Table struct {
	Kind        string
	Title       string
	Subtitle    string
	GeneratedAt time.Time
	Columns     []Column
	Rows        [][]Cell
	// Totals fila final opcional; mismo largo que Columns.
	Totals []Cell
}

// GridSize suma de anchos de columna.
func (t *Table) GridSize() int {
	n := 0
	for _, c := range t.Columns {
		n += c.Width
	}
	return n
}

// Renderer escribe una tabla en un formato.
type Renderer interface {
	Format() Format
	Render(ctx context.Context, w io.Writer, t *Table) error
}

// Service elige el renderizador por formato y mide el tiempo de cada exportación.
type Service struct {
	renderers map[Format]Renderer
	metrics   ports.Recorder
	log       *logger.Logger
}

// NewService registra los renderizadores disponibles.
func NewService(metrics ports.Recorder, log *logger.Logger, renderers ...Renderer) *Service {
	if metrics == nil {
		metrics = ports.NopRecorder{}
	}
	if log == nil {
		log = logger.Nop()
	}
	s := &Service{renderers: make(map[Format]Renderer, len(renderers)), metrics: metrics, log: log.Component("export")}
	for _, r := range renderers {
		s.renderers[r.Format()] = r
	}
	return s
}

// Supports indica si hay renderizador para f.
func (s *Service) Supports(f Format) bool {
	_, ok := s.renderers[f]
	return ok
}

// Render escribe t en w con el formato f.
func (s *Service) Render(ctx context.Context, w io.Writer, f Format, t *Table) error {
	r, ok := s.renderers[f]
	if !ok {
		return domain.NewValidationError("format", fmt.Sprintf("formato no disponible: %s", f))
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return fmt.Errorf("export: fila %d con %d celdas, se esperaban %d", i, len(row), len(t.Columns))
		}
	}
	if t.Totals != nil && len(t.Totals) != len(t.Columns) {
		return errors.New("export: la fila de totales no coincide con las columnas")
	}
	start := time.Now()
	if err := r.Render(ctx, w, t); err != nil {
		s.log.Error().Err(err).Str("kind", t.Kind).Str("format", string(f)).Msg("no se pudo generar la exportación")
		return fmt.Errorf("export %s: %w", f, err)
	}
	d := time.Since(start)
	s.metrics.ExportRendered(t.Kind, string(f), d)
	s.log.Info().Str("kind", t.Kind).Str("format", string(f)).Int("rows", len(t.Rows)).Dur("took", d).Msg("exportación generada")
	return nil
}

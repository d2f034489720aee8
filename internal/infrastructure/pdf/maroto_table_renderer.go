// Package pdf genera los listados exportables en PDF con Maroto v2.
//
// Layout de la página A4 horizontal:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título del listado       │  Fecha de generación    │
//	│  Subtítulo (registros, filtros)                             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: cabecera con fondo + una fila por registro          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES (opcional)                                         │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"io"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/core/entity"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/johnfercher/maroto/v2/pkg/repository"

	"github.com/jhoicas/dental-ops-api/internal/application/export"
	pkgconfig "github.com/jhoicas/dental-ops-api/pkg/config"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorStripe  = &props.Color{Red: 242, Green: 245, Blue: 249}
)

const defaultFamily = "helvetica"

// ── Renderer ──────────────────────────────────────────────────────────────────

// TableRenderer implementa export.Renderer usando Maroto v2.
type TableRenderer struct {
	family   string
	fonts    []*entity.CustomFont
	pageSize pagesize.Type
}

var _ export.Renderer = (*TableRenderer)(nil)

// NewTableRenderer construye el renderizador. Con PDFFontPath se registra una fuente
// TrueType con soporte UTF-8 completo; sin ella se usa helvetica.
func NewTableRenderer(cfg pkgconfig.ExportConfig) (*TableRenderer, error) {
	r := &TableRenderer{family: defaultFamily, pageSize: pagesize.A4}
	if cfg.PaperSize == "letter" {
		r.pageSize = pagesize.Letter
	}
	if cfg.PDFFontPath != "" {
		family := cfg.PDFFontFamily
		if family == "" {
			family = "custom"
		}
		fonts, err := repository.New().
			AddUTF8Font(family, fontstyle.Normal, cfg.PDFFontPath).
			AddUTF8Font(family, fontstyle.Bold, cfg.PDFFontPath).
			Load()
		if err != nil {
			return nil, fmt.Errorf("pdf: cargar fuente %s: %w", cfg.PDFFontPath, err)
		}
		r.family = family
		r.fonts = fonts
	}
	return r, nil
}

// Format implementa export.Renderer.
func (r *TableRenderer) Format() export.Format { return export.FormatPDF }

// Render genera el PDF y lo escribe en w.
func (r *TableRenderer) Render(_ context.Context, w io.Writer, t *export.Table) error {
	builder := config.NewBuilder()
	if len(r.fonts) > 0 {
		builder = builder.WithCustomFonts(r.fonts)
	}
	cfg := builder.
		WithPageSize(r.pageSize).
		WithOrientation(orientation.Horizontal).
		WithMaxGridSize(t.GridSize()).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: r.family, Size: 8}).
		WithTitle(t.Title, true).
		WithCreationDate(t.GeneratedAt).
		Build()

	m := maroto.New(cfg)

	m.AddRows(r.headerRows(t)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(r.tableHeaderRow(t.Columns))
	m.AddRows(r.bodyRows(t)...)
	if t.Totals != nil {
		m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
		m.AddRows(r.cellsRow(t.Columns, t.Totals, true, nil))
	}
	if len(t.Rows) == 0 {
		m.AddRows(row.New(10).Add(col.New(t.GridSize()).Add(
			text.New("Sin registros para los filtros seleccionados.", props.Text{
				Size: 9, Align: align.Center, Color: colorGray, Top: 3,
			}),
		)))
	}

	doc, err := m.Generate()
	if err != nil {
		return fmt.Errorf("pdf: generar documento: %w", err)
	}
	_, err = w.Write(doc.GetBytes())
	return err
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRows: título (izq) y fecha de generación (der), más el subtítulo.
func (r *TableRenderer) headerRows(t *export.Table) []core.Row {
	grid := t.GridSize()
	left := grid * 2 / 3
	return []core.Row{
		row.New(12).Add(
			col.New(left).Add(text.New(t.Title, props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 2,
			})),
			col.New(grid-left).Add(text.New(t.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Color: colorGray, Top: 4,
			})),
		),
		row.New(6).Add(col.New(grid).Add(text.New(t.Subtitle, props.Text{
			Size: 8, Color: colorGray,
		}))),
	}
}

// tableHeaderRow: cabecera de la tabla con fondo del color primario.
func (r *TableRenderer) tableHeaderRow(cols []export.Column) core.Row {
	cells := make([]core.Col, 0, len(cols))
	for _, c := range cols {
		cells = append(cells, col.New(c.Width).Add(text.New(c.Header, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: alignOf(c.Align),
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		})))
	}
	return row.New(8).Add(cells...).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// bodyRows: una fila por registro, con franjas alternas.
func (r *TableRenderer) bodyRows(t *export.Table) []core.Row {
	rows := make([]core.Row, 0, len(t.Rows))
	for i, cells := range t.Rows {
		var style *props.Cell
		if i%2 == 1 {
			style = &props.Cell{BackgroundColor: colorStripe}
		}
		rows = append(rows, r.cellsRow(t.Columns, cells, false, style))
	}
	return rows
}

func (r *TableRenderer) cellsRow(cols []export.Column, cells []export.Cell, bold bool, style *props.Cell) core.Row {
	out := make([]core.Col, 0, len(cols))
	for i, c := range cols {
		p := props.Text{Size: 7.5, Align: alignOf(c.Align), Top: 1.5, Left: 1, Right: 1}
		if bold {
			p.Style = fontstyle.Bold
			p.Color = colorPrimary
		}
		out = append(out, col.New(c.Width).Add(text.New(cells[i].Text, p)))
	}
	rw := row.New(7).Add(out...)
	if style != nil {
		rw = rw.WithStyle(style)
	}
	return rw
}

// ── helpers ───────────────────────────────────────────────────────────────────

func alignOf(a export.Align) align.Type {
	switch a {
	case export.AlignCenter:
		return align.Center
	case export.AlignRight:
		return align.Right
	default:
		return align.Left
	}
}

package printing_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/dental-ops-api/internal/application/export"
	"github.com/jhoicas/dental-ops-api/internal/infrastructure/printing"
)

func sampleTable() *export.Table {
	total := decimal.RequireFromString("12500.5")
	return &export.Table{
		Kind:        "contract",
		Title:       "Contratos",
		Subtitle:    "2 registros",
		GeneratedAt: time.Date(2026, 7, 1, 9, 5, 0, 0, time.UTC),
		Columns: []export.Column{
			{Header: "Número", Width: 2},
			{Header: "Ítem", Width: 4},
			{Header: "Valor", Width: 2, Align: export.AlignRight},
		},
		Rows: [][]export.Cell{
			{export.Text("C-1"), export.Text(`Sillón "premium", modelo A`), {Text: "12,500.50", Number: &total}},
			{export.Text("C-2"), export.Text("<script>alert(1)</script>"), export.Text("")},
		},
		Totals: []export.Cell{export.Text("Totales"), export.Text(""), {Text: "12,500.50", Number: &total}},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// CSV
// ──────────────────────────────────────────────────────────────────────────────

func TestCSVRenderer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printing.CSVRenderer{}.Render(context.Background(), &buf, sampleTable()))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "\ufeff"), "BOM UTF-8 para Excel")
	lines := strings.Split(strings.TrimSuffix(strings.TrimPrefix(out, "\ufeff"), "\r\n"), "\r\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Número,Ítem,Valor", lines[0])
	assert.Equal(t, `C-1,"Sillón ""premium"", modelo A",12500.5`, lines[1], "números sin separador de miles")
	assert.Equal(t, "Totales,,12500.5", lines[3])
}

// ──────────────────────────────────────────────────────────────────────────────
// HTML
// ──────────────────────────────────────────────────────────────────────────────

func TestHTMLRenderer(t *testing.T) {
	r, err := printing.NewHTMLRenderer()
	require.NoError(t, err)
	assert.Equal(t, export.FormatHTML, r.Format())

	var buf bytes.Buffer
	require.NoError(t, r.Render(context.Background(), &buf, sampleTable()))
	out := buf.String()

	assert.Contains(t, out, "<title>Contratos</title>")
	assert.Contains(t, out, "01/07/2026 09:05")
	assert.Contains(t, out, `<th class="r">Valor</th>`)
	assert.NotContains(t, out, "<script>alert(1)</script>", "el contenido se escapa")
	assert.Contains(t, out, "<tfoot>")
}

func TestHTMLRenderer_SinFilas(t *testing.T) {
	r, err := printing.NewHTMLRenderer()
	require.NoError(t, err)
	tbl := sampleTable()
	tbl.Rows = nil
	tbl.Totals = nil

	var buf bytes.Buffer
	require.NoError(t, r.Render(context.Background(), &buf, tbl))
	assert.Contains(t, buf.String(), "Sin registros para los filtros seleccionados.")
	assert.NotContains(t, buf.String(), "<tfoot>")
}

package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/dental-ops-api/internal/application/export"
	"github.com/jhoicas/dental-ops-api/internal/infrastructure/pdf"
	"github.com/jhoicas/dental-ops-api/pkg/config"
)

func TestTableRenderer_GeneraPDF(t *testing.T) {
	r, err := pdf.NewTableRenderer(config.ExportConfig{PaperSize: "letter"})
	require.NoError(t, err)
	assert.Equal(t, export.FormatPDF, r.Format())

	tbl := &export.Table{
		Kind:        "report",
		Title:       "Reportes de mantenimiento",
		Subtitle:    "1 registros",
		GeneratedAt: time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC),
		Columns:     []export.Column{{Header: "Número", Width: 1}, {Header: "Equipo", Width: 3}},
		Rows:        [][]export.Cell{{export.Text("R-1"), export.Text("Compresor")}},
	}

	var buf bytes.Buffer
	require.NoError(t, r.Render(context.Background(), &buf, tbl))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestTableRenderer_FuenteInexistente(t *testing.T) {
	_, err := pdf.NewTableRenderer(config.ExportConfig{PDFFontPath: "/no/existe.ttf"})
	assert.Error(t, err)
}

package excel_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/dental-ops-api/internal/application/export"
	"github.com/jhoicas/dental-ops-api/internal/infrastructure/excel"
)

func TestXLSXRenderer_EscribeTituloCabeceraYNumeros(t *testing.T) {
	qty := decimal.NewFromInt(3)
	price := decimal.RequireFromString("1250.75")
	tbl := &export.Table{
		Kind:    "inventory",
		Title:   "Inventario: Centro/Norte",
		Columns: []export.Column{{Header: "Ítem", Width: 4}, {Header: "Cantidad", Width: 2}, {Header: "Valor", Width: 2}},
		Rows: [][]export.Cell{
			{export.Text("Guantes"), {Text: "3", Number: &qty}, {Text: "1,250.75", Number: &price}},
		},
		Totals: []export.Cell{export.Text("Totales"), export.Text(""), {Text: "1,250.75", Number: &price}},
	}

	var buf bytes.Buffer
	require.NoError(t, excel.NewXLSXRenderer().Render(context.Background(), &buf, tbl))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	sheet := "Inventario CentroNorte"
	assert.Equal(t, []string{sheet}, f.GetSheetList(), "se quitan los símbolos prohibidos")

	title, err := f.GetCellValue(sheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Inventario: Centro/Norte", title)

	header, err := f.GetCellValue(sheet, "B3")
	require.NoError(t, err)
	assert.Equal(t, "Cantidad", header)

	qtyRaw, err := f.GetCellValue(sheet, "B4", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "3", qtyRaw, "las cantidades se escriben como número")

	raw, err := f.GetCellValue(sheet, "C5", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "1250.75", raw, "fila de totales")
}

// Package excel exporta los listados a hojas de cálculo con excelize.
package excel

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/dental-ops-api/internal/application/export"
)

const (
	firstDataRow = 4 // 1: título, 2: subtítulo, 3: cabecera
	maxSheetName = 31
)

// XLSXRenderer implementa export.Renderer. Las celdas numéricas se escriben como número.
type XLSXRenderer struct{}

var _ export.Renderer = XLSXRenderer{}

func NewXLSXRenderer() XLSXRenderer { return XLSXRenderer{} }

// Format implementa export.Renderer.
func (XLSXRenderer) Format() export.Format { return export.FormatXLSX }

// Render escribe el libro en w.
func (XLSXRenderer) Render(_ context.Context, w io.Writer, t *export.Table) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := sheetName(t.Title)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("excel: nombre de hoja: %w", err)
	}

	styles, err := newStyles(f)
	if err != nil {
		return err
	}

	lastCol, _ := excelize.ColumnNumberToName(len(t.Columns))
	_ = f.SetCellValue(sheet, "A1", t.Title)
	_ = f.SetCellValue(sheet, "A2", t.Subtitle)
	_ = f.SetCellStyle(sheet, "A1", "A1", styles.title)
	if len(t.Columns) > 1 {
		_ = f.MergeCell(sheet, "A1", lastCol+"1")
		_ = f.MergeCell(sheet, "A2", lastCol+"2")
	}

	header := make([]any, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c.Header
		name, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, name, name, float64(c.Width)*5); err != nil {
			return fmt.Errorf("excel: ancho de columna: %w", err)
		}
	}
	if err := f.SetSheetRow(sheet, "A3", &header); err != nil {
		return fmt.Errorf("excel: cabecera: %w", err)
	}
	_ = f.SetCellStyle(sheet, "A3", lastCol+"3", styles.header)

	rowNo := firstDataRow
	for _, cells := range t.Rows {
		if err := writeRow(f, sheet, rowNo, cells, styles.money); err != nil {
			return err
		}
		rowNo++
	}
	if t.Totals != nil {
		if err := writeRow(f, sheet, rowNo, t.Totals, styles.money); err != nil {
			return err
		}
		start, _ := excelize.CoordinatesToCellName(1, rowNo)
		end, _ := excelize.CoordinatesToCellName(len(t.Columns), rowNo)
		_ = f.SetCellStyle(sheet, start, end, styles.totals)
	}

	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      firstDataRow - 1,
		TopLeftCell: fmt.Sprintf("A%d", firstDataRow),
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("excel: fijar cabecera: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("excel: escribir libro: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, rowNo int, cells []export.Cell, moneyStyle int) error {
	for i, c := range cells {
		ref, err := excelize.CoordinatesToCellName(i+1, rowNo)
		if err != nil {
			return fmt.Errorf("excel: celda: %w", err)
		}
		if c.Number != nil {
			if err := f.SetCellFloat(sheet, ref, c.Number.InexactFloat64(), -1, 64); err != nil {
				return fmt.Errorf("excel: celda %s: %w", ref, err)
			}
			if !c.Number.Equal(c.Number.Truncate(0)) {
				_ = f.SetCellStyle(sheet, ref, ref, moneyStyle)
			}
			continue
		}
		if err := f.SetCellStr(sheet, ref, c.Text); err != nil {
			return fmt.Errorf("excel: celda %s: %w", ref, err)
		}
	}
	return nil
}

type sheetStyles struct {
	title, header, money, totals int
}

func newStyles(f *excelize.File) (sheetStyles, error) {
	var s sheetStyles
	var err error
	if s.title, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14, Color: "00467F"}}); err != nil {
		return s, fmt.Errorf("excel: estilo: %w", err)
	}
	if s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"00467F"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	}); err != nil {
		return s, fmt.Errorf("excel: estilo: %w", err)
	}
	if s.money, err = f.NewStyle(&excelize.Style{NumFmt: 4}); err != nil { // #,##0.00
		return s, fmt.Errorf("excel: estilo: %w", err)
	}
	if s.totals, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		NumFmt: 4,
		Border: []excelize.Border{{Type: "top", Color: "00467F", Style: 2}},
	}); err != nil {
		return s, fmt.Errorf("excel: estilo: %w", err)
	}
	return s, nil
}

// sheetName Excel limita el nombre a 31 caracteres y prohíbe algunos símbolos.
func sheetName(title string) string {
	out := make([]rune, 0, len(title))
	for _, r := range title {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			continue
		}
		out = append(out, r)
	}
	if len(out) > maxSheetName {
		out = out[:maxSheetName]
	}
	if len(out) == 0 {
		return "Datos"
	}
	return string(out)
}

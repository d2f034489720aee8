package export_test

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/jhoicas/dental-ops-api/internal/application/export"
	"github.com/jhoicas/dental-ops-api/internal/domain"
	"github.com/jhoicas/dental-ops-api/internal/domain/entity"
	"github.com/jhoicas/dental-ops-api/internal/domain/workflow"
)

var now = time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)

// ──────────────────────────────────────────────────────────────────────────────
// Formatos
// ──────────────────────────────────────────────────────────────────────────────

func TestParseFormat(t *testing.T) {
	f, err := export.ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, export.FormatPDF, f, "vacío = pdf")

	f, err = export.ParseFormat(" XLSX ")
	require.NoError(t, err)
	assert.Equal(t, export.FormatXLSX, f)
	assert.Equal(t, "contratos_20260701_1200.xlsx", f.Filename("contratos", now))

	_, err = export.ParseFormat("docx")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Service
// ──────────────────────────────────────────────────────────────────────────────

type echoRenderer struct{ calls int }

func (r *echoRenderer) Format() export.Format { return export.FormatCSV }

func (r *echoRenderer) Render(_ context.Context, w io.Writer, t *export.Table) error {
	r.calls++
	_, err := io.WriteString(w, t.Title)
	return err
}

type exportRecorder struct{ kinds []string }

func (exportRecorder) TransitionApplied(string, string)  {}
func (exportRecorder) TransitionRejected(string, string) {}
func (exportRecorder) PersistenceFailed(string)          {}
func (r *exportRecorder) ExportRendered(kind, format string, _ time.Duration) {
	r.kinds = append(r.kinds, kind+"/"+format)
}

func table(rows ...[]export.Cell) *export.Table {
	return &export.Table{
		Kind:    "contract",
		Title:   "Contratos",
		Columns: []export.Column{{Header: "A", Width: 1}, {Header: "B", Width: 1}},
		Rows:    rows,
	}
}

func TestServiceRender(t *testing.T) {
	r := &echoRenderer{}
	rec := &exportRecorder{}
	svc := export.NewService(rec, nil, r)
	ctx := context.Background()

	assert.True(t, svc.Supports(export.FormatCSV))
	assert.False(t, svc.Supports(export.FormatPDF))

	var buf bytes.Buffer
	require.NoError(t, svc.Render(ctx, &buf, export.FormatCSV, table([]export.Cell{export.Text("1"), export.Text("2")})))
	assert.Equal(t, "Contratos", buf.String())
	assert.Equal(t, []string{"contract/csv"}, rec.kinds)

	err := svc.Render(ctx, &buf, export.FormatPDF, table())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = svc.Render(ctx, &buf, export.FormatCSV, table([]export.Cell{export.Text("solo una")}))
	assert.Error(t, err)

	bad := table()
	bad.Totals = []export.Cell{export.Text("x")}
	assert.Error(t, svc.Render(ctx, &buf, export.FormatCSV, bad))
	assert.Equal(t, 1, r.calls, "las tablas inválidas no llegan al renderizador")
}

// ──────────────────────────────────────────────────────────────────────────────
// Builder
// ──────────────────────────────────────────────────────────────────────────────

func contract(number string, requested, received, price int64, status workflow.Status) *entity.Contract {
	d := now.AddDate(0, 0, -3)
	return &entity.Contract{
		ContractNumber: number,
		FacilityName:   "Centro Norte",
		ItemName:       "Autoclave",
		Supplier:       "Dentaltec",
		Quantities:     entity.NewQuantities(decimal.NewFromInt(requested), decimal.NewFromInt(received), decimal.NewFromInt(price)),
		State:          workflow.State{Status: status},
		ContractDate:   &d,
	}
}

func TestBuilderContracts_FilasYTotales(t *testing.T) {
	b := export.NewBuilder(language.English).WithClock(func() time.Time { return now })

	tbl := b.Contracts([]*entity.Contract{
		contract("C-1", 2, 1, 100, workflow.StatusApproved),
		contract("C-2", 3, 0, 50, workflow.StatusNew),
	})

	assert.Equal(t, "contract", tbl.Kind)
	assert.Equal(t, now, tbl.GeneratedAt)
	require.Len(t, tbl.Rows, 2)
	for _, row := range tbl.Rows {
		assert.Len(t, row, len(tbl.Columns))
	}
	assert.Equal(t, "C-1", tbl.Rows[0][0].Text)
	assert.Equal(t, workflow.StatusStyle(workflow.StatusApproved).Label, tbl.Rows[0][4].Text)
	assert.Equal(t, "2026-06-28", tbl.Rows[0][5].Text)
	assert.Equal(t, "100.00", tbl.Rows[0][9].Text)

	require.Len(t, tbl.Totals, len(tbl.Columns))
	assert.Equal(t, "Totales", tbl.Totals[0].Text)
	total := tbl.Totals[len(tbl.Totals)-2].Number
	remaining := tbl.Totals[len(tbl.Totals)-1].Number
	require.NotNil(t, total)
	require.NotNil(t, remaining)
	assert.True(t, total.Equal(decimal.NewFromInt(350)))
	assert.True(t, remaining.Equal(decimal.NewFromInt(250)))
}

func TestBuilderInventory_MarcaStockBajo(t *testing.T) {
	b := export.NewBuilder(language.English).WithClock(func() time.Time { return now })
	item := &entity.InventoryItem{ItemName: "Agujas", MinQuantity: decimal.NewFromInt(5), PurchaseValue: decimal.NewFromInt(30)}
	item.SetStock(decimal.NewFromInt(10), decimal.NewFromInt(8))

	tbl := b.Inventory([]*entity.InventoryItem{item})

	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, "Agujas (stock bajo)", tbl.Rows[0][2].Text)
	assert.True(t, tbl.Totals[10].Number.Equal(decimal.NewFromInt(6)))
	assert.True(t, tbl.Totals[9].Number.Equal(decimal.NewFromInt(30)))
}

func TestBuilderReports_TiempoFueraDeServicio(t *testing.T) {
	b := export.NewBuilder(language.English).WithClock(func() time.Time { return now })
	r := &entity.Report{ReportNumber: "R-1", ReportDate: now.AddDate(0, 0, -2), ReportTime: "12:00", State: workflow.State{Status: workflow.StatusOpen}}

	tbl := b.Reports([]*entity.Report{r})

	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, r.Downtime(now).Label, tbl.Rows[0][len(tbl.Columns)-1].Text)
	assert.Nil(t, tbl.Totals)
}

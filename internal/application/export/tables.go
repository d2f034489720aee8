package export

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/dental-ops-api/internal/domain/calc"
	"github.com/jhoicas/dental-ops-api/internal/domain/entity"
	"github.com/jhoicas/dental-ops-api/internal/domain/inventory"
	"github.com/jhoicas/dental-ops-api/internal/domain/workflow"
)

// Builder proyecta las entidades a tablas de exportación con números localizados.
type Builder struct {
	printer *message.Printer
	now     func() time.Time
}

// NewBuilder tag define separadores de miles y decimales (ej. language.Spanish).
func NewBuilder(tag language.Tag) *Builder {
	return &Builder{printer: message.NewPrinter(tag), now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

func (b *Builder) money(v decimal.Decimal) Cell {
	r := v.Round(calc.MoneyPlaces)
	return Cell{Text: b.printer.Sprintf("%.2f", r.InexactFloat64()), Number: &r}
}

func (b *Builder) qty(v decimal.Decimal) Cell {
	return Cell{Text: b.printer.Sprint(v.InexactFloat64()), Number: &v}
}

func date(t *time.Time) Cell {
	if t == nil || t.IsZero() {
		return Text("")
	}
	return Text(t.Format("2006-01-02"))
}

func status(s workflow.Status) Cell {
	return Text(workflow.StatusStyle(s).Label)
}

func (b *Builder) subtitle(n int) string {
	return fmt.Sprintf("%d registros · generado %s", n, b.now().Format("2006-01-02 15:04"))
}

var procurementColumns = []Column{
	{Header: "Número", Width: 3},
	{Header: "Centro", Width: 4},
	{Header: "Ítem", Width: 5},
	{Header: "Proveedor", Width: 4},
	{Header: "Estado", Width: 3, Align: AlignCenter},
	{Header: "Fecha", Width: 3, Align: AlignCenter},
	{Header: "Solicitado", Width: 2, Align: AlignRight},
	{Header: "Recibido", Width: 2, Align: AlignRight},
	{Header: "Pendiente", Width: 2, Align: AlignRight},
	{Header: "P. unitario", Width: 3, Align: AlignRight},
	{Header: "Valor total", Width: 3, Align: AlignRight},
	{Header: "Valor pendiente", Width: 3, Align: AlignRight},
}

func (b *Builder) procurementRow(number, facility, item, supplier string, st workflow.Status, d *time.Time, q entity.Quantities) []Cell {
	return []Cell{
		Text(number), Text(facility), Text(item), Text(supplier), status(st), date(d),
		b.qty(q.Requested), b.qty(q.Received), b.qty(q.Remaining),
		b.money(q.UnitPrice), b.money(q.TotalValue), b.money(q.RemainingValue),
	}
}

func (b *Builder) procurementTotals(qs []entity.Quantities) []Cell {
	total, remaining := decimal.Zero, decimal.Zero
	for _, q := range qs {
		total = total.Add(q.TotalValue)
		remaining = remaining.Add(q.RemainingValue)
	}
	cells := make([]Cell, len(procurementColumns))
	cells[0] = Text("Totales")
	for i := 1; i < len(cells)-2; i++ {
		cells[i] = Text("")
	}
	cells[len(cells)-2] = b.money(total)
	cells[len(cells)-1] = b.money(remaining)
	return cells
}

// Contracts tabla de contratos con totales de valor.
func (b *Builder) Contracts(items []*entity.Contract) *Table {
	t := &Table{
		Kind:        string(workflow.KindContract),
		Title:       "Contratos",
		Subtitle:    b.subtitle(len(items)),
		GeneratedAt: b.now(),
		Columns:     procurementColumns,
	}
	qs := make([]entity.Quantities, 0, len(items))
	for _, c := range items {
		t.Rows = append(t.Rows, b.procurementRow(c.ContractNumber, c.FacilityName, c.ItemName, c.Supplier, c.Status, c.ContractDate, c.Quantities))
		qs = append(qs, c.Quantities)
	}
	t.Totals = b.procurementTotals(qs)
	return t
}

// Orders tabla de órdenes de compra directa.
func (b *Builder) Orders(items []*entity.DirectPurchaseOrder) *Table {
	t := &Table{
		Kind:        string(workflow.KindOrder),
		Title:       "Órdenes de compra directa",
		Subtitle:    b.subtitle(len(items)),
		GeneratedAt: b.now(),
		Columns:     procurementColumns,
	}
	qs := make([]entity.Quantities, 0, len(items))
	for _, o := range items {
		t.Rows = append(t.Rows, b.procurementRow(o.OrderNumber, o.FacilityName, o.ItemName, o.Supplier, o.Status, o.OrderDate, o.Quantities))
		qs = append(qs, o.Quantities)
	}
	t.Totals = b.procurementTotals(qs)
	return t
}

// Reports tabla de reportes de falla; el tiempo fuera de servicio se calcula a la fecha del reloj.
func (b *Builder) Reports(items []*entity.Report) *Table {
	now := b.now()
	t := &Table{
		Kind:        string(workflow.KindReport),
		Title:       "Reportes de mantenimiento",
		Subtitle:    b.subtitle(len(items)),
		GeneratedAt: now,
		Columns: []Column{
			{Header: "Número", Width: 3},
			{Header: "Centro", Width: 4},
			{Header: "Equipo", Width: 4},
			{Header: "Serie", Width: 3},
			{Header: "Reportado por", Width: 3},
			{Header: "Apertura", Width: 3, Align: AlignCenter},
			{Header: "Estado", Width: 3, Align: AlignCenter},
			{Header: "Resuelto", Width: 3, Align: AlignCenter},
			{Header: "Fuera de servicio", Width: 4, Align: AlignRight},
		},
	}
	for _, r := range items {
		t.Rows = append(t.Rows, []Cell{
			Text(r.ReportNumber), Text(r.FacilityName), Text(r.DeviceName), Text(r.DeviceSerial),
			Text(r.ReportedBy), Text(r.OpenedAt().Format("2006-01-02 15:04")), status(r.Status),
			date(r.ResolvedAt), Text(r.Downtime(now).Label),
		})
	}
	return t
}

// Inventory tabla de inventario con valor total y valor de compra.
func (b *Builder) Inventory(items []*entity.InventoryItem) *Table {
	t := &Table{
		Kind:        "inventory",
		Title:       "Inventario",
		Subtitle:    b.subtitle(len(items)),
		GeneratedAt: b.now(),
		Columns: []Column{
			{Header: "Código", Width: 2},
			{Header: "Centro", Width: 4},
			{Header: "Ítem", Width: 5},
			{Header: "Unidad", Width: 2, Align: AlignCenter},
			{Header: "Recibido", Width: 2, Align: AlignRight},
			{Header: "Despachado", Width: 2, Align: AlignRight},
			{Header: "Disponible", Width: 2, Align: AlignRight},
			{Header: "Mínimo", Width: 2, Align: AlignRight},
			{Header: "P. unitario", Width: 3, Align: AlignRight},
			{Header: "Valor compra", Width: 3, Align: AlignRight},
			{Header: "Valor inventario", Width: 3, Align: AlignRight},
		},
	}
	for _, i := range items {
		name := i.ItemName
		if i.LowStock() {
			name += " (stock bajo)"
		}
		t.Rows = append(t.Rows, []Cell{
			Text(i.ItemNumber), Text(i.FacilityName), Text(name), Text(i.Unit),
			b.qty(i.ReceivedQty), b.qty(i.IssuedQty), b.qty(i.AvailableQty), b.qty(i.MinQuantity),
			b.money(i.UnitPrice()), b.money(i.PurchaseValue), b.money(i.Value()),
		})
	}
	totals := inventory.Summarize(items)
	t.Totals = []Cell{
		Text("Totales"), Text(""), Text(""), Text(""), Text(""), Text(""), Text(""), Text(""), Text(""),
		b.money(totals.PurchaseValue), b.money(totals.InventoryValue),
	}
	return t
}

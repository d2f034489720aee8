package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/dental-ops-api/internal/domain/inventory"
)

type item struct{ pv, rq, aq decimal.Decimal }

func (i item) ValuationInputs() (decimal.Decimal, decimal.Decimal, decimal.Decimal) {
	return i.pv, i.rq, i.aq
}

func n(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestUnitValue_RecibidoCeroSeTomaComoUno(t *testing.T) {
	got := inventory.UnitValue(n(500), n(0), n(10))
	assert.True(t, got.Equal(n(5000)), "esperado 5000, obtenido %s", got)
}

func TestUnitValue_PrecioProrrateado(t *testing.T) {
	// 1200 gastados en 40 unidades, quedan 15 → 30 * 15
	got := inventory.UnitValue(n(1200), n(40), n(15))
	assert.True(t, got.Equal(n(450)))
}

func TestAvailableQty_NuncaNegativo(t *testing.T) {
	pairs := [][2]int64{{10, 3}, {3, 10}, {0, 0}, {0, 5}, {7, 7}}
	for _, p := range pairs {
		got := inventory.AvailableQty(n(p[0]), n(p[1]))
		assert.False(t, got.IsNegative(), "received=%d issued=%d", p[0], p[1])
	}
	assert.True(t, inventory.AvailableQty(n(10), n(3)).Equal(n(7)))
	assert.True(t, inventory.AvailableQty(n(3), n(10)).IsZero())
}

func TestIsLowStock_IncluyeElMinimo(t *testing.T) {
	assert.True(t, inventory.IsLowStock(n(5), n(5)))
	assert.True(t, inventory.IsLowStock(n(0), n(1)))
	assert.False(t, inventory.IsLowStock(n(6), n(5)))
}

func TestSummarize_MetricasDistintas(t *testing.T) {
	items := []item{
		{pv: n(1000), rq: n(100), aq: n(50)}, // 500
		{pv: n(300), rq: n(0), aq: n(2)},     // 600 (guardia de cero)
		{pv: n(90), rq: n(9), aq: n(0)},      // 0
	}
	totals := inventory.Summarize(items)
	assert.Equal(t, "1100", totals.InventoryValue.String())
	assert.Equal(t, "1390", totals.PurchaseValue.String())
}

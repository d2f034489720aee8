package calc_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/dental-ops-api/internal/domain/calc"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCalculateQuantityValues_EjemploDocumentado(t *testing.T) {
	v := calc.CalculateQuantityValues(d("100"), d("40"), d("25.5"))

	assert.True(t, v.Remaining.Equal(d("60")))
	f := v.Formatted()
	assert.Equal(t, "60", f.Remaining)
	assert.Equal(t, "2550.00", f.Total)
	assert.Equal(t, "1020.00", f.ReceivedValue)
	assert.Equal(t, "1530.00", f.RemainingValue)
}

func TestCalculateQuantityValues_Consistencia(t *testing.T) {
	cases := []struct{ req, rec, price string }{
		{"0", "0", "0"},
		{"10", "3", "0.335"},
		{"7.5", "2.25", "19.99"},
		{"1000", "1000", "1.1"},
		{"3", "12", "4"}, // sobre-recepción
	}
	for _, c := range cases {
		req, rec, price := d(c.req), d(c.rec), d(c.price)
		v := calc.CalculateQuantityValues(req, rec, price)
		assert.True(t, v.Remaining.Equal(req.Sub(rec)), "remaining %v", c)
		assert.True(t, v.Total.Equal(req.Mul(price).Round(2)), "total %v", c)
		assert.True(t, v.ReceivedValue.Equal(rec.Mul(price).Round(2)), "received %v", c)
		assert.True(t, v.RemainingValue.Equal(req.Sub(rec).Mul(price).Round(2)), "remainingValue %v", c)
	}
}

func TestCalculateQuantityValues_RemainingPuedeSerNegativo(t *testing.T) {
	v := calc.CalculateQuantityValues(d("5"), d("8"), d("2"))
	assert.Equal(t, "-3", v.Formatted().Remaining)
	assert.Equal(t, "-6.00", v.Formatted().RemainingValue)
}

func TestCalculateQuantityValuesFromInput_EntradaVaciaEsCero(t *testing.T) {
	v := calc.CalculateQuantityValuesFromInput("", "abc", "  ")
	f := v.Formatted()
	assert.Equal(t, "0", f.Remaining)
	assert.Equal(t, "0.00", f.Total)
	assert.Equal(t, "0.00", f.ReceivedValue)

	v = calc.CalculateQuantityValuesFromInput("12.50", "", "2")
	assert.Equal(t, "12.5", v.Formatted().Remaining)
	assert.Equal(t, "25.00", v.Formatted().Total)
}

// ──────────────────────────────────────────────────────────────────────────────
// Downtime
// ──────────────────────────────────────────────────────────────────────────────

var reportDay = time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

func TestCalculateDowntimePeriod_Formatos(t *testing.T) {
	cases := []struct {
		name     string
		resolved time.Time
		want     string
	}{
		{"dias y horas", time.Date(2025, 1, 12, 11, 45, 0, 0, time.UTC), "2 يوم 3 ساعة"},
		{"horas y minutos", time.Date(2025, 1, 10, 13, 20, 0, 0, time.UTC), "5 ساعة 20 دقيقة"},
		{"solo minutos", time.Date(2025, 1, 10, 8, 59, 59, 0, time.UTC), "59 دقيقة"},
		{"cero", time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC), "0 دقيقة"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			resolved := c.resolved
			got := calc.CalculateDowntimePeriod(reportDay, "08:00", &resolved, time.Time{})
			assert.Equal(t, c.want, got.Label)
		})
	}
}

func TestCalculateDowntimePeriod_AbiertoUsaAhoraYCrece(t *testing.T) {
	now := time.Date(2025, 1, 10, 9, 30, 0, 0, time.UTC)
	first := calc.CalculateDowntimePeriod(reportDay, "08:00", nil, now)
	second := calc.CalculateDowntimePeriod(reportDay, "08:00", nil, now.Add(time.Minute))

	assert.Equal(t, "1 ساعة 30 دقيقة", first.Label)
	assert.GreaterOrEqual(t, second.Elapsed(), first.Elapsed())
	assert.Equal(t, time.Minute, second.Elapsed()-first.Elapsed())
}

func TestCalculateDowntimePeriod_DuracionAbsoluta(t *testing.T) {
	before := time.Date(2025, 1, 10, 6, 0, 0, 0, time.UTC)
	got := calc.CalculateDowntimePeriod(reportDay, "08:00", &before, time.Time{})
	assert.Equal(t, "2 ساعة 0 دقيقة", got.Label)
}

func TestOpenedAt_HoraInvalidaEsMedianoche(t *testing.T) {
	assert.Equal(t, reportDay, calc.OpenedAt(reportDay.Add(5*time.Hour), "xx"))
	assert.Equal(t, reportDay.Add(8*time.Hour+15*time.Minute), calc.OpenedAt(reportDay, "08:15"))
}

func TestFitsPlaces(t *testing.T) {
	assert.True(t, calc.FitsPlaces(d("12.5"), calc.QuantityPlaces))
	assert.True(t, calc.FitsPlaces(d("1.250000"), calc.QuantityPlaces), "ceros a la derecha")
	assert.True(t, calc.FitsPlaces(d("-0.0001"), calc.QuantityPlaces))
	assert.False(t, calc.FitsPlaces(d("0.00015"), calc.QuantityPlaces))
	assert.False(t, calc.FitsPlaces(d("10.005"), calc.MoneyPlaces))
}

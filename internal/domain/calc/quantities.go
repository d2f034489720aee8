// Package calc contiene los cálculos derivados (servicios de dominio puros):
// cantidades y valores de contratos/órdenes y el tiempo fuera de servicio de reportes.
package calc

import (
	"strings"

	"github.com/shopspring/decimal"
)

// MoneyPlaces decimales de los campos monetarios.
const MoneyPlaces = 2

// QuantityPlaces decimales que se guardan para cantidades y precios unitarios.
const QuantityPlaces = 4

// FitsPlaces indica si v se guarda con places decimales sin perder dígitos.
func FitsPlaces(v decimal.Decimal, places int32) bool {
	return v.Equal(v.Truncate(places))
}

// QuantityValues campos derivados de cantidad solicitada, recibida y precio unitario.
type QuantityValues struct {
	Remaining      decimal.Decimal `json:"remaining"`
	Total          decimal.Decimal `json:"total"`
	ReceivedValue  decimal.Decimal `json:"received_value"`
	RemainingValue decimal.Decimal `json:"remaining_value"`
}

// ParseLenient convierte la entrada de formulario en decimal; vacío o no numérico = 0.
func ParseLenient(raw string) decimal.Decimal {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// CalculateQuantityValues recalcula los campos derivados.
// Remaining = requested - received (puede ser negativo, no se acota).
// Total = requested * unitPrice; ReceivedValue = received * unitPrice; RemainingValue = remaining * unitPrice.
// Los montos se redondean a 2 decimales.
func CalculateQuantityValues(requested, received, unitPrice decimal.Decimal) QuantityValues {
	remaining := requested.Sub(received)
	return QuantityValues{
		Remaining:      remaining,
		Total:          requested.Mul(unitPrice).Round(MoneyPlaces),
		ReceivedValue:  received.Mul(unitPrice).Round(MoneyPlaces),
		RemainingValue: remaining.Mul(unitPrice).Round(MoneyPlaces),
	}
}

// CalculateQuantityValuesFromInput igual que CalculateQuantityValues sobre texto de formulario.
func CalculateQuantityValuesFromInput(requested, received, unitPrice string) QuantityValues {
	return CalculateQuantityValues(ParseLenient(requested), ParseLenient(received), ParseLenient(unitPrice))
}

// FormattedQuantityValues representación de presentación (montos con 2 decimales).
type FormattedQuantityValues struct {
	Remaining      string `json:"remaining"`
	Total          string `json:"total"`
	ReceivedValue  string `json:"received_value"`
	RemainingValue string `json:"remaining_value"`
}

// Formatted devuelve los valores con formato de presentación.
// Remaining conserva la precisión de la entrada.
func (v QuantityValues) Formatted() FormattedQuantityValues {
	return FormattedQuantityValues{
		Remaining:      v.Remaining.String(),
		Total:          v.Total.StringFixed(MoneyPlaces),
		ReceivedValue:  v.ReceivedValue.StringFixed(MoneyPlaces),
		RemainingValue: v.RemainingValue.StringFixed(MoneyPlaces),
	}
}

// Money formatea un valor monetario con dos decimales.
func Money(v decimal.Decimal) string {
	return v.StringFixed(MoneyPlaces)
}

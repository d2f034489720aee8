package entity

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/dental-ops-api/internal/domain/calc"
)

// Quantities cantidades y valores de una línea de contrato u orden.
// Requested, Received y UnitPrice los captura el usuario; el resto se recalcula en SetQuantities.
type Quantities struct {
	Requested      decimal.Decimal
	Received       decimal.Decimal
	UnitPrice      decimal.Decimal
	Remaining      decimal.Decimal
	TotalValue     decimal.Decimal
	ReceivedValue  decimal.Decimal
	RemainingValue decimal.Decimal
}

// NewQuantities construye las cantidades con sus derivados ya calculados.
func NewQuantities(requested, received, unitPrice decimal.Decimal) Quantities {
	var q Quantities
	q.SetQuantities(requested, received, unitPrice)
	return q
}

// SetQuantities reemplaza los campos editables y recalcula los derivados en el mismo paso.
func (q *Quantities) SetQuantities(requested, received, unitPrice decimal.Decimal) {
	v := calc.CalculateQuantityValues(requested, received, unitPrice)
	q.Requested = requested
	q.Received = received
	q.UnitPrice = unitPrice
	q.Remaining = v.Remaining
	q.TotalValue = v.Total
	q.ReceivedValue = v.ReceivedValue
	q.RemainingValue = v.RemainingValue
}

// Values devuelve los derivados como QuantityValues.
func (q Quantities) Values() calc.QuantityValues {
	return calc.QuantityValues{
		Remaining:      q.Remaining,
		Total:          q.TotalValue,
		ReceivedValue:  q.ReceivedValue,
		RemainingValue: q.RemainingValue,
	}
}

// Balanced verifica que los derivados correspondan a los campos editables.
func (q Quantities) Balanced() bool {
	v := calc.CalculateQuantityValues(q.Requested, q.Received, q.UnitPrice)
	return v.Remaining.Equal(q.Remaining) &&
		v.Total.Equal(q.TotalValue) &&
		v.ReceivedValue.Equal(q.ReceivedValue) &&
		v.RemainingValue.Equal(q.RemainingValue)
}

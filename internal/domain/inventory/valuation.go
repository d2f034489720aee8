package inventory

import "github.com/shopspring/decimal"

// AvailableQty implementa el piso físico de existencias: max(0, recibido - despachado).
// A diferencia del saldo de contratos, nunca es negativo.
func AvailableQty(receivedQty, issuedQty decimal.Decimal) decimal.Decimal {
	avail := receivedQty.Sub(issuedQty)
	if avail.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return avail
}

// IsLowStock indica si el disponible está en o por debajo del mínimo.
func IsLowStock(availableQty, minQuantity decimal.Decimal) bool {
	return availableQty.LessThanOrEqual(minQuantity)
}

// UnitPrice precio unitario derivado: purchaseValue / receivedQty.
// Con receivedQty en cero se divide entre 1 para no propagar NaN/Infinity a los totales.
func UnitPrice(purchaseValue, receivedQty decimal.Decimal) decimal.Decimal {
	divisor := receivedQty
	if divisor.IsZero() {
		divisor = decimal.NewFromInt(1)
	}
	return purchaseValue.Div(divisor)
}

// UnitValue aporte del ítem al valor total del inventario: UnitPrice * availableQty.
func UnitValue(purchaseValue, receivedQty, availableQty decimal.Decimal) decimal.Decimal {
	return UnitPrice(purchaseValue, receivedQty).Mul(availableQty)
}

// Valuable datos mínimos para valorizar un ítem.
type Valuable interface {
	ValuationInputs() (purchaseValue, receivedQty, availableQty decimal.Decimal)
}

// Totals agregados del inventario. Son métricas distintas: no se deben confundir.
type Totals struct {
	InventoryValue decimal.Decimal `json:"total_inventory_value"` // Σ UnitValue
	PurchaseValue  decimal.Decimal `json:"total_purchase_value"`  // Σ purchaseValue
}

// Summarize calcula ambos agregados.
func Summarize[T Valuable](items []T) Totals {
	totals := Totals{InventoryValue: decimal.Zero, PurchaseValue: decimal.Zero}
	for _, it := range items {
		pv, rq, aq := it.ValuationInputs()
		totals.InventoryValue = totals.InventoryValue.Add(UnitValue(pv, rq, aq))
		totals.PurchaseValue = totals.PurchaseValue.Add(pv)
	}
	totals.InventoryValue = totals.InventoryValue.Round(2)
	totals.PurchaseValue = totals.PurchaseValue.Round(2)
	return totals
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/dental-ops-api/internal/domain/inventory"
)

// InventoryItem ítem de inventario de un centro.
// AvailableQty = max(0, ReceivedQty - IssuedQty) y solo se actualiza en SetStock.
// PurchaseValue es el total invertido en ReceivedQty unidades (no es precio unitario).
type InventoryItem struct {
	ID            string
	FacilityName  string
	ItemNumber    string
	ItemName      string
	Category      string
	Supplier      string
	Unit          string
	ReceivedQty   decimal.Decimal
	IssuedQty     decimal.Decimal
	AvailableQty  decimal.Decimal
	MinQuantity   decimal.Decimal
	PurchaseValue decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// SetStock reemplaza recibido/despachado y recalcula el disponible.
func (i *InventoryItem) SetStock(received, issued decimal.Decimal) {
	i.ReceivedQty = received
	i.IssuedQty = issued
	i.AvailableQty = inventory.AvailableQty(received, issued)
}

// LowStock indica si el ítem está en o por debajo del mínimo.
func (i *InventoryItem) LowStock() bool {
	return inventory.IsLowStock(i.AvailableQty, i.MinQuantity)
}

// UnitPrice precio unitario derivado (guardia de división por cero).
func (i *InventoryItem) UnitPrice() decimal.Decimal {
	return inventory.UnitPrice(i.PurchaseValue, i.ReceivedQty)
}

// Value aporte del ítem al valor total del inventario.
func (i *InventoryItem) Value() decimal.Decimal {
	return inventory.UnitValue(i.PurchaseValue, i.ReceivedQty, i.AvailableQty)
}

// ValuationInputs implementa inventory.Valuable.
func (i *InventoryItem) ValuationInputs() (decimal.Decimal, decimal.Decimal, decimal.Decimal) {
	return i.PurchaseValue, i.ReceivedQty, i.AvailableQty
}

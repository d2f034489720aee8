package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateInventoryItemRequest entrada para registrar un ítem de inventario.
type CreateInventoryItemRequest struct {
	FacilityName  string         `json:"facility_name" validate:"required,max=200"`
	ItemNumber    string         `json:"item_number" validate:"max=100"`
	ItemName      string         `json:"item_name" validate:"required,max=300"`
	Category      string         `json:"category" validate:"max=100"`
	Supplier      string         `json:"supplier" validate:"max=200"`
	Unit          string         `json:"unit" validate:"max=50"`
	ReceivedQty   LenientDecimal `json:"received_qty"`
	IssuedQty     LenientDecimal `json:"issued_qty"`
	MinQuantity   LenientDecimal `json:"min_quantity"`
	PurchaseValue LenientDecimal `json:"purchase_value"`
}

// UpdateInventoryItemRequest edición parcial de un ítem.
type UpdateInventoryItemRequest struct {
	FacilityName  *string         `json:"facility_name" validate:"omitempty,min=1,max=200"`
	ItemNumber    *string         `json:"item_number" validate:"omitempty,max=100"`
	ItemName      *string         `json:"item_name" validate:"omitempty,min=1,max=300"`
	Category      *string         `json:"category" validate:"omitempty,max=100"`
	Supplier      *string         `json:"supplier" validate:"omitempty,max=200"`
	Unit          *string         `json:"unit" validate:"omitempty,max=50"`
	ReceivedQty   *LenientDecimal `json:"received_qty"`
	IssuedQty     *LenientDecimal `json:"issued_qty"`
	MinQuantity   *LenientDecimal `json:"min_quantity"`
	PurchaseValue *LenientDecimal `json:"purchase_value"`
}

// InventoryItemResponse salida de un ítem con sus derivados.
type InventoryItemResponse struct {
	ID             string          `json:"id"`
	FacilityName   string          `json:"facility_name"`
	ItemNumber     string          `json:"item_number"`
	ItemName       string          `json:"item_name"`
	Category       string          `json:"category"`
	Supplier       string          `json:"supplier"`
	Unit           string          `json:"unit"`
	ReceivedQty    decimal.Decimal `json:"received_qty"`
	IssuedQty      decimal.Decimal `json:"issued_qty"`
	AvailableQty   decimal.Decimal `json:"available_qty"`
	MinQuantity    decimal.Decimal `json:"min_quantity"`
	PurchaseValue  string          `json:"purchase_value"`
	UnitPrice      string          `json:"unit_price"`
	InventoryValue string          `json:"inventory_value"`
	LowStock       bool            `json:"low_stock"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// InventorySummaryResponse totales del inventario (filtrado).
type InventorySummaryResponse struct {
	Items               int    `json:"items"`
	LowStockItems       int    `json:"low_stock_items"`
	TotalInventoryValue string `json:"total_inventory_value"`
	TotalPurchaseValue  string `json:"total_purchase_value"`
}

// CreateWithdrawalRequest entrada para una orden de retiro.
type CreateWithdrawalRequest struct {
	WithdrawQty   LenientDecimal `json:"withdraw_qty"`
	RecipientName string         `json:"recipient_name" validate:"required,max=200"`
	RecipientID   string         `json:"recipient_id" validate:"max=100"`
	Department    string         `json:"department" validate:"max=200"`
	Notes         string         `json:"notes" validate:"max=1000"`
	Date          string         `json:"date"`
}

// WithdrawalStatusRequest cambio de estado de una orden de retiro.
type WithdrawalStatusRequest struct {
	NewStatus string `json:"new_status" validate:"required,oneof=open dispensed rejected cancelled"`
}

// WithdrawalResponse salida de una orden de retiro.
type WithdrawalResponse struct {
	ID            string          `json:"id"`
	ItemID        string          `json:"item_id"`
	RequestStatus string          `json:"request_status"`
	WithdrawQty   decimal.Decimal `json:"withdraw_qty"`
	RecipientName string          `json:"recipient_name"`
	RecipientID   string          `json:"recipient_id"`
	Department    string          `json:"department"`
	Notes         string          `json:"notes"`
	Date          time.Time       `json:"date"`
	CreatedBy     string          `json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`
}

// WithdrawalResult resultado de resolver una orden: la orden y el ítem actualizado.
type WithdrawalResult struct {
	Withdrawal WithdrawalResponse    `json:"withdrawal"`
	Item       InventoryItemResponse `json:"item"`
}

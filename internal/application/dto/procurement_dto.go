package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/dental-ops-api/internal/domain/entity"
)

// QuantitiesRequest cantidades editables de contratos y órdenes.
type QuantitiesRequest struct {
	QuantityRequested LenientDecimal `json:"quantity_requested"`
	QuantityReceived  LenientDecimal `json:"quantity_received"`
	UnitPrice         LenientDecimal `json:"unit_price"`
}

// QuantitiesDTO cantidades con sus derivados.
type QuantitiesDTO struct {
	QuantityRequested decimal.Decimal `json:"quantity_requested"`
	QuantityReceived  decimal.Decimal `json:"quantity_received"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	QuantityRemaining decimal.Decimal `json:"quantity_remaining"`
	TotalValue        string          `json:"total_value"`
	ReceivedValue     string          `json:"received_value"`
	RemainingValue    string          `json:"remaining_value"`
}

// NewQuantitiesDTO formatea los valores monetarios con 2 decimales.
func NewQuantitiesDTO(q entity.Quantities) QuantitiesDTO {
	f := q.Values().Formatted()
	return QuantitiesDTO{
		QuantityRequested: q.Requested,
		QuantityReceived:  q.Received,
		UnitPrice:         q.UnitPrice,
		QuantityRemaining: q.Remaining,
		TotalValue:        f.Total,
		ReceivedValue:     f.ReceivedValue,
		RemainingValue:    f.RemainingValue,
	}
}

// CreateContractRequest entrada para registrar un contrato.
type CreateContractRequest struct {
	ContractNumber string `json:"contract_number" validate:"required,max=100"`
	FacilityName   string `json:"facility_name" validate:"required,max=200"`
	ItemName       string `json:"item_name" validate:"required,max=300"`
	Description    string `json:"description" validate:"max=2000"`
	Category       string `json:"category" validate:"max=100"`
	Supplier       string `json:"supplier" validate:"max=200"`
	ContractDate   string `json:"contract_date"`
	Note           string `json:"note" validate:"max=1000"`
	QuantitiesRequest
}

// UpdateContractRequest edición de un contrato (nunca cambia el estado).
type UpdateContractRequest struct {
	ContractNumber *string            `json:"contract_number" validate:"omitempty,min=1,max=100"`
	FacilityName   *string            `json:"facility_name" validate:"omitempty,min=1,max=200"`
	ItemName       *string            `json:"item_name" validate:"omitempty,min=1,max=300"`
	Description    *string            `json:"description" validate:"omitempty,max=2000"`
	Category       *string            `json:"category" validate:"omitempty,max=100"`
	Supplier       *string            `json:"supplier" validate:"omitempty,max=200"`
	ContractDate   *string            `json:"contract_date"`
	Quantities     *QuantitiesRequest `json:"quantities"`
}

// ContractResponse salida de un contrato.
type ContractResponse struct {
	ID             string         `json:"id"`
	ContractNumber string         `json:"contract_number"`
	FacilityName   string         `json:"facility_name"`
	ItemName       string         `json:"item_name"`
	Description    string         `json:"description"`
	Category       string         `json:"category"`
	Supplier       string         `json:"supplier"`
	ContractDate   *time.Time     `json:"contract_date,omitempty"`
	Attachment     *AttachmentDTO `json:"attachment,omitempty"`
	CreatedBy      string         `json:"created_by"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	QuantitiesDTO
	WorkflowDTO
}

// CreateOrderRequest entrada para registrar una orden de compra directa.
type CreateOrderRequest struct {
	OrderNumber  string `json:"order_number" validate:"required,max=100"`
	FacilityName string `json:"facility_name" validate:"required,max=200"`
	ItemName     string `json:"item_name" validate:"required,max=300"`
	Description  string `json:"description" validate:"max=2000"`
	Category     string `json:"category" validate:"max=100"`
	Supplier     string `json:"supplier" validate:"max=200"`
	OrderDate    string `json:"order_date"`
	Note         string `json:"note" validate:"max=1000"`
	QuantitiesRequest
}

// UpdateOrderRequest edición de una orden.
type UpdateOrderRequest struct {
	OrderNumber  *string            `json:"order_number" validate:"omitempty,min=1,max=100"`
	FacilityName *string            `json:"facility_name" validate:"omitempty,min=1,max=200"`
	ItemName     *string            `json:"item_name" validate:"omitempty,min=1,max=300"`
	Description  *string            `json:"description" validate:"omitempty,max=2000"`
	Category     *string            `json:"category" validate:"omitempty,max=100"`
	Supplier     *string            `json:"supplier" validate:"omitempty,max=200"`
	OrderDate    *string            `json:"order_date"`
	Quantities   *QuantitiesRequest `json:"quantities"`
}

// OrderResponse salida de una orden de compra directa.
type OrderResponse struct {
	ID           string         `json:"id"`
	OrderNumber  string         `json:"order_number"`
	FacilityName string         `json:"facility_name"`
	ItemName     string         `json:"item_name"`
	Description  string         `json:"description"`
	Category     string         `json:"category"`
	Supplier     string         `json:"supplier"`
	OrderDate    *time.Time     `json:"order_date,omitempty"`
	Attachment   *AttachmentDTO `json:"attachment,omitempty"`
	CreatedBy    string         `json:"created_by"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	QuantitiesDTO
	WorkflowDTO
}

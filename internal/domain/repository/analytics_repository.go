package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/dental-ops-api/internal/domain/workflow"
)

// StatusCount cantidad de registros en un estado.
type StatusCount struct {
	Status workflow.Status
	Count  int
}

// InventorySnapshot agregados del inventario calculados en la base de datos.
type InventorySnapshot struct {
	Items          int
	LowStockItems  int
	InventoryValue decimal.Decimal // Σ precio unitario * available_qty
	PurchaseValue  decimal.Decimal // Σ purchase_value
}

// AnalyticsRepository consultas read-only para el tablero.
type AnalyticsRepository interface {
	// CountByStatus agrupa los registros del tipo indicado por estado.
	// Los estados sin registros no aparecen.
	CountByStatus(ctx context.Context, kind workflow.Kind) ([]StatusCount, error)

	// InventorySnapshot totales y ítems con stock bajo.
	InventorySnapshot(ctx context.Context) (InventorySnapshot, error)
}

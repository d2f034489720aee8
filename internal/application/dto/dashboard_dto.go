package dto

// StatusCountDTO cantidad de registros en un estado.
type StatusCountDTO struct {
	Status string `json:"status"`
	Label  string `json:"label"`
	Count  int    `json:"count"`
}

// DashboardSummaryDTO resumen del tablero principal.
type DashboardSummaryDTO struct {
	Contracts           []StatusCountDTO `json:"contracts"`
	Orders              []StatusCountDTO `json:"orders"`
	Reports             []StatusCountDTO `json:"reports"`
	OpenReports         int              `json:"open_reports"`
	InventoryItems      int              `json:"inventory_items"`
	LowStockItems       int              `json:"low_stock_items"`
	TotalInventoryValue string           `json:"total_inventory_value"`
	TotalPurchaseValue  string           `json:"total_purchase_value"`
}

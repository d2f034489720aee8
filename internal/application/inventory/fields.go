package inventory

import (
	"time"

	"github.com/jhoicas/dental-ops-api/internal/domain/entity"
	"github.com/jhoicas/dental-ops-api/internal/domain/filter"
)

// Filtros rápidos del listado de inventario.
const (
	QuickLowStock   = "low_stock"
	QuickOutOfStock = "out_of_stock"
	QuickInStock    = "in_stock"
)

// Fields campos filtrables de los ítems.
func Fields() filter.Fields[*entity.InventoryItem] {
	return filter.Fields[*entity.InventoryItem]{
		Searchable: []func(*entity.InventoryItem) string{
			func(i *entity.InventoryItem) string { return i.ID },
			func(i *entity.InventoryItem) string { return i.ItemNumber },
			func(i *entity.InventoryItem) string { return i.ItemName },
			func(i *entity.InventoryItem) string { return i.Supplier },
		},
		Facility: func(i *entity.InventoryItem) string { return i.FacilityName },
		Category: func(i *entity.InventoryItem) string { return i.Category },
		Supplier: func(i *entity.InventoryItem) string { return i.Supplier },
		Date: func(i *entity.InventoryItem) *time.Time {
			d := i.CreatedAt
			return &d
		},
		Quick: filter.QuickFilters[*entity.InventoryItem]{
			QuickLowStock:   func(i *entity.InventoryItem) bool { return i.LowStock() },
			QuickOutOfStock: func(i *entity.InventoryItem) bool { return i.AvailableQty.IsZero() },
			QuickInStock:    func(i *entity.InventoryItem) bool { return !i.LowStock() },
		},
	}
}

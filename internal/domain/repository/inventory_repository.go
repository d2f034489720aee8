package repository

import (
	"context"

	"github.com/jhoicas/dental-ops-api/internal/domain/entity"
)

// InventoryItemRepository puerto de persistencia de los ítems de inventario.
type InventoryItemRepository interface {
	Create(ctx context.Context, item *entity.InventoryItem) error
	GetByID(ctx context.Context, id string) (*entity.InventoryItem, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE); solo tiene sentido dentro de una transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.InventoryItem, error)
	Update(ctx context.Context, item *entity.InventoryItem) error
	List(ctx context.Context) ([]*entity.InventoryItem, error)
	Delete(ctx context.Context, id string) error
}

// WithdrawalRepository puerto de las órdenes de retiro.
type WithdrawalRepository interface {
	Create(ctx context.Context, w *entity.WithdrawalOrder) error
	GetByID(ctx context.Context, id string) (*entity.WithdrawalOrder, error)
	ListByItem(ctx context.Context, itemID string) ([]*entity.WithdrawalOrder, error)
	UpdateStatus(ctx context.Context, id string, from, to entity.WithdrawalStatus) error
}

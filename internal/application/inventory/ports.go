package inventory

import (
	"context"

	"github.com/jhoicas/dental-ops-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad al despachar una orden de retiro.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		itemRepo repository.InventoryItemRepository,
		withdrawalRepo repository.WithdrawalRepository,
	) error) error
}

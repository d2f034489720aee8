package repository

import (
	"context"

	"github.com/jhoicas/dental-ops-api/internal/domain/attachment"
	"github.com/jhoicas/dental-ops-api/internal/domain/entity"
	"github.com/jhoicas/dental-ops-api/internal/domain/workflow"
)

// WorkflowRepository puerto común de las entidades con flujo de estados.
// GetByID devuelve domain.ErrNotFound cuando no existe.
type WorkflowRepository[T any] interface {
	Create(ctx context.Context, e T) error
	GetByID(ctx context.Context, id string) (T, error)
	Update(ctx context.Context, e T) error
	List(ctx context.Context) ([]T, error)
	Delete(ctx context.Context, id string) error

	// UpdateStatus guarda el nuevo estado y agrega la entrada al historial en una sola transacción.
	// Falla con domain.ErrConflict si el estado persistido ya no es from.
	UpdateStatus(ctx context.Context, id string, from workflow.Status, next workflow.State, entry workflow.HistoryEntry) error
	SetAttachment(ctx context.Context, id string, ref *attachment.Ref) error
}

// ContractRepository contratos.
type ContractRepository = WorkflowRepository[*entity.Contract]

// OrderRepository órdenes de compra directa.
type OrderRepository = WorkflowRepository[*entity.DirectPurchaseOrder]

// ReportRepository reportes de mantenimiento.
type ReportRepository = WorkflowRepository[*entity.Report]

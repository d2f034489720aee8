package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/dental-ops-api/internal/domain"
	"github.com/jhoicas/dental-ops-api/internal/domain/attachment"
	"github.com/jhoicas/dental-ops-api/internal/domain/entity"
	"github.com/jhoicas/dental-ops-api/internal/domain/repository"
	"github.com/jhoicas/dental-ops-api/internal/domain/workflow"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

var ordersTable = workflowTable{kind: workflow.KindOrder, table: "purchase_orders"}

// OrderRepo implementación de OrderRepository sobre PostgreSQL (pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador de órdenes de compra directa.
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

func orderSelect() string {
	return `
		SELECT o.id, o.order_number, o.facility_name, o.item_name, o.description, o.category, o.supplier,
		       o.quantity_requested, o.quantity_received, o.unit_price,
		       o.quantity_remaining, o.total_value, o.received_value, o.remaining_value,
		       o.status, ` + ordersTable.historyColumn("o") + `,
		       o.order_date, o.attachment, o.created_by, o.created_at, o.updated_at
		FROM purchase_orders o`
}

func scanOrder(row pgx.Row) (*entity.DirectPurchaseOrder, error) {
	var o entity.DirectPurchaseOrder
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.FacilityName, &o.ItemName, &o.Description, &o.Category, &o.Supplier,
		&o.Requested, &o.Received, &o.Quantities.UnitPrice,
		&o.Remaining, &o.TotalValue, &o.ReceivedValue, &o.RemainingValue,
		&o.Status, &o.History,
		&o.OrderDate, &o.Attachment, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Create inserta la orden y su historial inicial. Asigna el ID si viene vacío.
func (r *OrderRepo) Create(ctx context.Context, o *entity.DirectPurchaseOrder) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	return pgx.BeginFunc(ctx, r.q, func(tx pgx.Tx) error {
		query := `
			INSERT INTO purchase_orders (id, order_number, facility_name, item_name, description, category, supplier,
				quantity_requested, quantity_received, unit_price,
				quantity_remaining, total_value, received_value, remaining_value,
				status, order_date, attachment, created_by, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
		_, err := tx.Exec(ctx, query,
			o.ID, o.OrderNumber, o.FacilityName, o.ItemName, o.Description, o.Category, o.Supplier,
			o.Requested, o.Received, o.Quantities.UnitPrice,
			o.Remaining, o.TotalValue, o.ReceivedValue, o.RemainingValue,
			o.Status, o.OrderDate, o.Attachment, o.CreatedBy, o.CreatedAt, o.UpdatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicate
			}
			return fmt.Errorf("insert order: %w", err)
		}
		return ordersTable.insertHistoryAll(ctx, tx, o.ID, o.History)
	})
}

// GetByID obtiene una orden con su historial.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.DirectPurchaseOrder, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, orderSelect()+` WHERE o.id = $1`, id))
	if err != nil {
		return nil, notFound(err, "get order")
	}
	return o, nil
}

// Update actualiza los campos editables. El estado no se toca aquí.
func (r *OrderRepo) Update(ctx context.Context, o *entity.DirectPurchaseOrder) error {
	query := `
		UPDATE purchase_orders SET order_number = $2, facility_name = $3, item_name = $4, description = $5,
			category = $6, supplier = $7, quantity_requested = $8, quantity_received = $9, unit_price = $10,
			quantity_remaining = $11, total_value = $12, received_value = $13, remaining_value = $14,
			order_date = $15, updated_at = $16
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		o.ID, o.OrderNumber, o.FacilityName, o.ItemName, o.Description,
		o.Category, o.Supplier, o.Requested, o.Received, o.Quantities.UnitPrice,
		o.Remaining, o.TotalValue, o.ReceivedValue, o.RemainingValue,
		o.OrderDate, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List devuelve todos los órdenes de compra directa, los más recientes primero.
func (r *OrderRepo) List(ctx context.Context) ([]*entity.DirectPurchaseOrder, error) {
	rows, err := r.q.Query(ctx, orderSelect()+` ORDER BY o.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.DirectPurchaseOrder
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// Delete elimina la orden y su historial.
func (r *OrderRepo) Delete(ctx context.Context, id string) error {
	return ordersTable.delete(ctx, r.q, id)
}

// UpdateStatus ver repository.WorkflowRepository.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id string, from workflow.Status, next workflow.State, entry workflow.HistoryEntry) error {
	return ordersTable.updateStatus(ctx, r.q, id, from, next, entry)
}

// SetAttachment reemplaza la referencia del adjunto.
func (r *OrderRepo) SetAttachment(ctx context.Context, id string, ref *attachment.Ref) error {
	return ordersTable.setAttachment(ctx, r.q, id, ref)
}

package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/dental-ops-api/internal/domain"
	"github.com/jhoicas/dental-ops-api/internal/domain/entity"
	"github.com/jhoicas/dental-ops-api/internal/domain/repository"
)

var _ repository.InventoryItemRepository = (*InventoryItemRepo)(nil)

const inventoryItemColumns = `
	id, facility_name, item_number, item_name, category, supplier, unit,
	received_qty, issued_qty, available_qty, min_quantity, purchase_value, created_at, updated_at`

// InventoryItemRepo implementación sobre PostgreSQL (usable con pool o tx).
type InventoryItemRepo struct {
	q Querier
}

// NewInventoryItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryItemRepository(q Querier) *InventoryItemRepo {
	return &InventoryItemRepo{q: q}
}

func scanInventoryItem(row pgx.Row) (*entity.InventoryItem, error) {
	var i entity.InventoryItem
	err := row.Scan(
		&i.ID, &i.FacilityName, &i.ItemNumber, &i.ItemName, &i.Category, &i.Supplier, &i.Unit,
		&i.ReceivedQty, &i.IssuedQty, &i.AvailableQty, &i.MinQuantity, &i.PurchaseValue,
		&i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

// Create persiste un ítem nuevo.
func (r *InventoryItemRepo) Create(ctx context.Context, item *entity.InventoryItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	query := `INSERT INTO inventory_items (` + inventoryItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.FacilityName, item.ItemNumber, item.ItemName, item.Category, item.Supplier, item.Unit,
		item.ReceivedQty, item.IssuedQty, item.AvailableQty, item.MinQuantity, item.PurchaseValue,
		item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isCheckViolation(err) {
			return domain.NewValidationError("quantity", "las cantidades no pueden ser negativas")
		}
		return fmt.Errorf("insert inventory item: %w", err)
	}
	return nil
}

// GetByID obtiene un ítem por ID.
func (r *InventoryItemRepo) GetByID(ctx context.Context, id string) (*entity.InventoryItem, error) {
	item, err := scanInventoryItem(r.q.QueryRow(ctx, `SELECT `+inventoryItemColumns+` FROM inventory_items WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, "get inventory item")
	}
	return item, nil
}

// GetForUpdate obtiene el ítem y bloquea la fila para update (SELECT FOR UPDATE).
func (r *InventoryItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventoryItem, error) {
	item, err := scanInventoryItem(r.q.QueryRow(ctx, `SELECT `+inventoryItemColumns+` FROM inventory_items WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, notFound(err, "get inventory item for update")
	}
	return item, nil
}

// Update reemplaza todos los campos del ítem (incluido el stock ya recalculado).
func (r *InventoryItemRepo) Update(ctx context.Context, item *entity.InventoryItem) error {
	query := `
		UPDATE inventory_items SET facility_name = $2, item_number = $3, item_name = $4, category = $5,
			supplier = $6, unit = $7, received_qty = $8, issued_qty = $9, available_qty = $10,
			min_quantity = $11, purchase_value = $12, updated_at = $13
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		item.ID, item.FacilityName, item.ItemNumber, item.ItemName, item.Category,
		item.Supplier, item.Unit, item.ReceivedQty, item.IssuedQty, item.AvailableQty,
		item.MinQuantity, item.PurchaseValue, item.UpdatedAt,
	)
	if err != nil {
		if isCheckViolation(err) {
			return domain.NewValidationError("quantity", "las cantidades no pueden ser negativas")
		}
		return fmt.Errorf("update inventory item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List todos los ítems ordenados por centro y nombre.
func (r *InventoryItemRepo) List(ctx context.Context) ([]*entity.InventoryItem, error) {
	rows, err := r.q.Query(ctx, `SELECT `+inventoryItemColumns+` FROM inventory_items ORDER BY facility_name, item_name`)
	if err != nil {
		return nil, fmt.Errorf("list inventory items: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryItem
	for rows.Next() {
		item, err := scanInventoryItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory item: %w", err)
		}
		list = append(list, item)
	}
	return list, rows.Err()
}

// Delete elimina el ítem; sus órdenes de retiro caen en cascada.
func (r *InventoryItemRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM inventory_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete inventory item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

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

var _ repository.WithdrawalRepository = (*WithdrawalRepo)(nil)

const withdrawalColumns = `
	id, item_id, request_status, withdraw_qty, recipient_name, recipient_id,
	department, notes, date, created_by, created_at, updated_at`

// WithdrawalRepo órdenes de retiro sobre PostgreSQL (usable con pool o tx).
type WithdrawalRepo struct {
	q Querier
}

// NewWithdrawalRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWithdrawalRepository(q Querier) *WithdrawalRepo {
	return &WithdrawalRepo{q: q}
}

func scanWithdrawal(row pgx.Row) (*entity.WithdrawalOrder, error) {
	var w entity.WithdrawalOrder
	err := row.Scan(
		&w.ID, &w.ItemID, &w.RequestStatus, &w.WithdrawQty, &w.RecipientName, &w.RecipientID,
		&w.Department, &w.Notes, &w.Date, &w.CreatedBy, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// Create persiste una orden de retiro.
func (r *WithdrawalRepo) Create(ctx context.Context, w *entity.WithdrawalOrder) error {
	if w.ID == "" {
		w.ID = uuid.New().String()
	}
	query := `INSERT INTO withdrawal_orders (` + withdrawalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		w.ID, w.ItemID, w.RequestStatus, w.WithdrawQty, w.RecipientName, w.RecipientID,
		w.Department, w.Notes, w.Date, w.CreatedBy, w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert withdrawal order: %w", err)
	}
	return nil
}

// GetByID obtiene una orden de retiro.
func (r *WithdrawalRepo) GetByID(ctx context.Context, id string) (*entity.WithdrawalOrder, error) {
	w, err := scanWithdrawal(r.q.QueryRow(ctx, `SELECT `+withdrawalColumns+` FROM withdrawal_orders WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, "get withdrawal order")
	}
	return w, nil
}

// ListByItem órdenes de un ítem, las más recientes primero.
func (r *WithdrawalRepo) ListByItem(ctx context.Context, itemID string) ([]*entity.WithdrawalOrder, error) {
	rows, err := r.q.Query(ctx, `SELECT `+withdrawalColumns+` FROM withdrawal_orders WHERE item_id = $1 ORDER BY date DESC, created_at DESC`, itemID)
	if err != nil {
		return nil, fmt.Errorf("list withdrawal orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.WithdrawalOrder
	for rows.Next() {
		w, err := scanWithdrawal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan withdrawal order: %w", err)
		}
		list = append(list, w)
	}
	return list, rows.Err()
}

// UpdateStatus cambia el estado solo si sigue en from.
func (r *WithdrawalRepo) UpdateStatus(ctx context.Context, id string, from, to entity.WithdrawalStatus) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE withdrawal_orders SET request_status = $2, updated_at = now() WHERE id = $1 AND request_status = $3`,
		id, to, from,
	)
	if err != nil {
		return fmt.Errorf("update withdrawal status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return domain.ErrConflict
	}
	return nil
}

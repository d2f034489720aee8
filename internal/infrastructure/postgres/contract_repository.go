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

var _ repository.ContractRepository = (*ContractRepo)(nil)

var contractsTable = workflowTable{kind: workflow.KindContract, table: "contracts"}

// ContractRepo implementación de ContractRepository sobre PostgreSQL (pool o tx).
type ContractRepo struct {
	q Querier
}

// NewContractRepository construye el adaptador de contratos.
func NewContractRepository(q Querier) *ContractRepo {
	return &ContractRepo{q: q}
}

func contractSelect() string {
	return `
		SELECT c.id, c.contract_number, c.facility_name, c.item_name, c.description, c.category, c.supplier,
		       c.quantity_requested, c.quantity_received, c.unit_price,
		       c.quantity_remaining, c.total_value, c.received_value, c.remaining_value,
		       c.status, ` + contractsTable.historyColumn("c") + `,
		       c.contract_date, c.attachment, c.created_by, c.created_at, c.updated_at
		FROM contracts c`
}

func scanContract(row pgx.Row) (*entity.Contract, error) {
	var c entity.Contract
	err := row.Scan(
		&c.ID, &c.ContractNumber, &c.FacilityName, &c.ItemName, &c.Description, &c.Category, &c.Supplier,
		&c.Requested, &c.Received, &c.Quantities.UnitPrice,
		&c.Remaining, &c.TotalValue, &c.ReceivedValue, &c.RemainingValue,
		&c.Status, &c.History,
		&c.ContractDate, &c.Attachment, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserta el contrato y su historial inicial. Asigna el ID si viene vacío.
func (r *ContractRepo) Create(ctx context.Context, c *entity.Contract) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return pgx.BeginFunc(ctx, r.q, func(tx pgx.Tx) error {
		query := `
			INSERT INTO contracts (id, contract_number, facility_name, item_name, description, category, supplier,
				quantity_requested, quantity_received, unit_price,
				quantity_remaining, total_value, received_value, remaining_value,
				status, contract_date, attachment, created_by, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
		_, err := tx.Exec(ctx, query,
			c.ID, c.ContractNumber, c.FacilityName, c.ItemName, c.Description, c.Category, c.Supplier,
			c.Requested, c.Received, c.Quantities.UnitPrice,
			c.Remaining, c.TotalValue, c.ReceivedValue, c.RemainingValue,
			c.Status, c.ContractDate, c.Attachment, c.CreatedBy, c.CreatedAt, c.UpdatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicate
			}
			return fmt.Errorf("insert contract: %w", err)
		}
		return contractsTable.insertHistoryAll(ctx, tx, c.ID, c.History)
	})
}

// GetByID obtiene un contrato con su historial.
func (r *ContractRepo) GetByID(ctx context.Context, id string) (*entity.Contract, error) {
	c, err := scanContract(r.q.QueryRow(ctx, contractSelect()+` WHERE c.id = $1`, id))
	if err != nil {
		return nil, notFound(err, "get contract")
	}
	return c, nil
}

// Update actualiza los campos editables. El estado no se toca aquí.
func (r *ContractRepo) Update(ctx context.Context, c *entity.Contract) error {
	query := `
		UPDATE contracts SET contract_number = $2, facility_name = $3, item_name = $4, description = $5,
			category = $6, supplier = $7, quantity_requested = $8, quantity_received = $9, unit_price = $10,
			quantity_remaining = $11, total_value = $12, received_value = $13, remaining_value = $14,
			contract_date = $15, updated_at = $16
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		c.ID, c.ContractNumber, c.FacilityName, c.ItemName, c.Description,
		c.Category, c.Supplier, c.Requested, c.Received, c.Quantities.UnitPrice,
		c.Remaining, c.TotalValue, c.ReceivedValue, c.RemainingValue,
		c.ContractDate, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update contract: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List devuelve todos los contratos, los más recientes primero.
func (r *ContractRepo) List(ctx context.Context) ([]*entity.Contract, error) {
	rows, err := r.q.Query(ctx, contractSelect()+` ORDER BY c.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list contracts: %w", err)
	}
	defer rows.Close()
	var list []*entity.Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contract: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Delete elimina el contrato y su historial.
func (r *ContractRepo) Delete(ctx context.Context, id string) error {
	return contractsTable.delete(ctx, r.q, id)
}

// UpdateStatus ver repository.WorkflowRepository.
func (r *ContractRepo) UpdateStatus(ctx context.Context, id string, from workflow.Status, next workflow.State, entry workflow.HistoryEntry) error {
	return contractsTable.updateStatus(ctx, r.q, id, from, next, entry)
}

// SetAttachment reemplaza la referencia del adjunto.
func (r *ContractRepo) SetAttachment(ctx context.Context, id string, ref *attachment.Ref) error {
	return contractsTable.setAttachment(ctx, r.q, id, ref)
}

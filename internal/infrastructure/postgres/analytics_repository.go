package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/dental-ops-api/internal/domain/repository"
	"github.com/jhoicas/dental-ops-api/internal/domain/workflow"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

var workflowTables = map[workflow.Kind]string{
	workflow.KindContract: contractsTable.table,
	workflow.KindOrder:    ordersTable.table,
	workflow.KindReport:   reportsTable.table,
}

// AnalyticsRepo consultas de solo lectura para el tablero.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// CountByStatus agrupa por estado la tabla del tipo indicado.
func (r *AnalyticsRepo) CountByStatus(ctx context.Context, kind workflow.Kind) ([]repository.StatusCount, error) {
	table, ok := workflowTables[kind]
	if !ok {
		return nil, fmt.Errorf("analytics.CountByStatus: tipo desconocido %q", kind)
	}
	rows, err := r.q.Query(ctx, fmt.Sprintf(`SELECT status, COUNT(*) FROM %s GROUP BY status ORDER BY status`, table))
	if err != nil {
		return nil, fmt.Errorf("analytics.CountByStatus: %w", err)
	}
	defer rows.Close()

	var results []repository.StatusCount
	for rows.Next() {
		var row repository.StatusCount
		if err := rows.Scan(&row.Status, &row.Count); err != nil {
			return nil, fmt.Errorf("analytics.CountByStatus scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// InventorySnapshot totales del inventario.
// El valor de inventario prorratea purchase_value por unidad recibida (mínimo 1) sobre el disponible.
func (r *AnalyticsRepo) InventorySnapshot(ctx context.Context) (repository.InventorySnapshot, error) {
	const query = `
	SELECT
	    COUNT(*)                                                                          AS items,
	    COUNT(*) FILTER (WHERE available_qty <= min_quantity)                            AS low_stock,
	    COALESCE(ROUND(SUM(purchase_value / CASE WHEN received_qty = 0 THEN 1 ELSE received_qty END
	                       * available_qty), 2), 0)                                       AS inventory_value,
	    COALESCE(SUM(purchase_value), 0)                                                  AS purchase_value
	FROM inventory_items`

	var s repository.InventorySnapshot
	err := r.q.QueryRow(ctx, query).Scan(&s.Items, &s.LowStockItems, &s.InventoryValue, &s.PurchaseValue)
	if err != nil {
		return repository.InventorySnapshot{}, fmt.Errorf("analytics.InventorySnapshot: %w", err)
	}
	return s, nil
}

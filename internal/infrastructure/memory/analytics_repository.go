package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/dental-ops-api/internal/domain/entity"
	"github.com/jhoicas/dental-ops-api/internal/domain/inventory"
	"github.com/jhoicas/dental-ops-api/internal/domain/repository"
	"github.com/jhoicas/dental-ops-api/internal/domain/workflow"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas del tablero sobre los repositorios en memoria.
type AnalyticsRepo struct {
	counters map[workflow.Kind]func() map[workflow.Status]int
	items    *InventoryItemRepo
}

// NewAnalyticsRepository construye las consultas sobre los repositorios dados.
func NewAnalyticsRepository(
	contracts *WorkflowRepo[entity.Contract, *entity.Contract],
	orders *WorkflowRepo[entity.DirectPurchaseOrder, *entity.DirectPurchaseOrder],
	reports *WorkflowRepo[entity.Report, *entity.Report],
	items *InventoryItemRepo,
) *AnalyticsRepo {
	return &AnalyticsRepo{
		counters: map[workflow.Kind]func() map[workflow.Status]int{
			workflow.KindContract: contracts.countByStatus,
			workflow.KindOrder:    orders.countByStatus,
			workflow.KindReport:   reports.countByStatus,
		},
		items: items,
	}
}

func (r *AnalyticsRepo) CountByStatus(_ context.Context, kind workflow.Kind) ([]repository.StatusCount, error) {
	count, ok := r.counters[kind]
	if !ok {
		return nil, fmt.Errorf("count by status: tipo desconocido %q", kind)
	}
	var out []repository.StatusCount
	for status, n := range count() {
		out = append(out, repository.StatusCount{Status: status, Count: n})
	}
	return out, nil
}

func (r *AnalyticsRepo) InventorySnapshot(ctx context.Context) (repository.InventorySnapshot, error) {
	items, err := r.items.List(ctx)
	if err != nil {
		return repository.InventorySnapshot{}, err
	}
	snap := repository.InventorySnapshot{Items: len(items)}
	for _, it := range items {
		if it.LowStock() {
			snap.LowStockItems++
		}
	}
	totals := inventory.Summarize(items)
	snap.InventoryValue = totals.InventoryValue
	snap.PurchaseValue = totals.PurchaseValue
	return snap, nil
}

// Package analytics contiene el caso de uso del tablero principal.
package analytics

import (
	"context"
	"fmt"

	"github.com/jhoicas/dental-ops-api/internal/application/dto"
	"github.com/jhoicas/dental-ops-api/internal/domain/calc"
	"github.com/jhoicas/dental-ops-api/internal/domain/repository"
	"github.com/jhoicas/dental-ops-api/internal/domain/workflow"
)

// DashboardUseCase genera el resumen del tablero: conteos por estado e inventario.
//
// Fuente de datos: AnalyticsRepository (consultas read-only).
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository) *DashboardUseCase {
	return &DashboardUseCase{analyticsRepo: analyticsRepo}
}

// GetSummary construye el DashboardSummaryDTO.
//
// Cuatro llamadas en paralelo:
//  1. CountByStatus(contract)
//  2. CountByStatus(order)
//  3. CountByStatus(report)    → también OpenReports
//  4. InventorySnapshot        → ítems, stock bajo y totales
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	type countsResult struct {
		counts []repository.StatusCount
		err    error
	}
	type snapshotResult struct {
		snap repository.InventorySnapshot
		err  error
	}

	kinds := []workflow.Kind{workflow.KindContract, workflow.KindOrder, workflow.KindReport}
	countChs := make([]chan countsResult, len(kinds))
	for i, kind := range kinds {
		ch := make(chan countsResult, 1)
		countChs[i] = ch
		go func() {
			counts, err := uc.analyticsRepo.CountByStatus(ctx, kind)
			ch <- countsResult{counts, err}
		}()
	}
	snapCh := make(chan snapshotResult, 1)
	go func() {
		snap, err := uc.analyticsRepo.InventorySnapshot(ctx)
		snapCh <- snapshotResult{snap, err}
	}()

	byKind := make(map[workflow.Kind][]dto.StatusCountDTO, len(kinds))
	var firstErr error
	for i, kind := range kinds {
		res := <-countChs[i]
		if res.err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("dashboard: conteo de %s: %w", kind, res.err)
			}
			continue
		}
		byKind[kind] = statusCounts(kind, res.counts)
	}
	snap := <-snapCh
	if firstErr != nil {
		return nil, firstErr
	}
	if snap.err != nil {
		return nil, fmt.Errorf("dashboard: inventario: %w", snap.err)
	}

	out := &dto.DashboardSummaryDTO{
		Contracts:           byKind[workflow.KindContract],
		Orders:              byKind[workflow.KindOrder],
		Reports:             byKind[workflow.KindReport],
		InventoryItems:      snap.snap.Items,
		LowStockItems:       snap.snap.LowStockItems,
		TotalInventoryValue: calc.Money(snap.snap.InventoryValue),
		TotalPurchaseValue:  calc.Money(snap.snap.PurchaseValue),
	}
	for _, c := range out.Reports {
		if c.Status == string(workflow.StatusOpen) {
			out.OpenReports = c.Count
		}
	}
	return out, nil
}

// statusCounts completa con cero los estados sin registros y respeta el orden del flujo.
func statusCounts(kind workflow.Kind, counts []repository.StatusCount) []dto.StatusCountDTO {
	byStatus := make(map[workflow.Status]int, len(counts))
	for _, c := range counts {
		byStatus[c.Status] += c.Count
	}
	statuses := workflow.MustDescribe(kind).Statuses()
	out := make([]dto.StatusCountDTO, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, dto.StatusCountDTO{
			Status: string(s),
			Label:  workflow.StatusStyle(s).Label,
			Count:  byStatus[s],
		})
	}
	return out
}

package memory_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/dental-ops-api/internal/domain"
	"github.com/jhoicas/dental-ops-api/internal/domain/attachment"
	"github.com/jhoicas/dental-ops-api/internal/domain/entity"
	"github.com/jhoicas/dental-ops-api/internal/domain/repository"
	"github.com/jhoicas/dental-ops-api/internal/domain/workflow"
	"github.com/jhoicas/dental-ops-api/internal/infrastructure/memory"
)

var t0 = time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)

// ──────────────────────────────────────────────────────────────────────────────
// WorkflowRepo
// ──────────────────────────────────────────────────────────────────────────────

func newContract(number string) *entity.Contract {
	return &entity.Contract{
		ContractNumber: number,
		State:          workflow.MustDescribe(workflow.KindContract).NewState(t0, "ana", ""),
	}
}

func TestWorkflowRepo_CopiasAisladas(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewContractRepository()
	c := newContract("C-1")
	require.NoError(t, repo.Create(ctx, c))
	require.NotEmpty(t, c.ID)

	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	got.History[0].Note = "modificado fuera"
	got.ContractNumber = "X"

	again, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "C-1", again.ContractNumber)
	assert.Empty(t, again.History[0].Note)

	assert.ErrorIs(t, repo.Create(ctx, c), domain.ErrDuplicate)
}

func TestWorkflowRepo_UpdateNoTocaEstadoNiAdjunto(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewContractRepository()
	c := newContract("C-1")
	require.NoError(t, repo.Create(ctx, c))
	require.NoError(t, repo.SetAttachment(ctx, c.ID, &attachment.Ref{Key: "k", Name: "a.pdf", Kind: attachment.KindPDF}))

	edit := *c
	edit.ContractNumber = "C-1b"
	edit.Status = workflow.StatusDelivered
	edit.Attachment = nil
	require.NoError(t, repo.Update(ctx, &edit))

	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "C-1b", got.ContractNumber)
	assert.Equal(t, workflow.StatusNew, got.Status)
	require.NotNil(t, got.Attachment)
	assert.Equal(t, "k", got.Attachment.Key)
}

func TestWorkflowRepo_UpdateStatusOptimista(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewContractRepository()
	c := newContract("C-1")
	require.NoError(t, repo.Create(ctx, c))

	next, entry, err := workflow.MustDescribe(workflow.KindContract).Apply(c.State, workflow.TransitionRequest{To: workflow.StatusApproved}, t0)
	require.NoError(t, err)

	require.NoError(t, repo.UpdateStatus(ctx, c.ID, workflow.StatusNew, next, entry))
	assert.ErrorIs(t, repo.UpdateStatus(ctx, c.ID, workflow.StatusNew, next, entry), domain.ErrConflict, "otro usuario ya lo cambió")
	assert.ErrorIs(t, repo.UpdateStatus(ctx, "nada", workflow.StatusNew, next, entry), domain.ErrNotFound)

	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, workflow.StatusApproved, got.Status)
	assert.True(t, got.Consistent())
}

func TestWorkflowRepo_ListMasRecientesPrimeroYDelete(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewReportRepository()
	for _, n := range []string{"R-1", "R-2", "R-3"} {
		require.NoError(t, repo.Create(ctx, &entity.Report{ReportNumber: n}))
	}
	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "R-3", list[0].ReportNumber)

	require.NoError(t, repo.Delete(ctx, list[1].ID))
	assert.ErrorIs(t, repo.Delete(ctx, list[1].ID), domain.ErrNotFound)
	list, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

// ──────────────────────────────────────────────────────────────────────────────
// FacilityRepo
// ──────────────────────────────────────────────────────────────────────────────

func TestFacilityRepo_UnicidadSinMayusculas(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewFacilityRepository()
	require.NoError(t, repo.Create(ctx, &entity.Facility{Name: "Centro Norte", Code: "CN"}))
	require.NoError(t, repo.Create(ctx, &entity.Facility{Name: "Arrabal"}))
	require.NoError(t, repo.Create(ctx, &entity.Facility{Name: "Bosque"}), "los códigos vacíos no chocan")

	assert.ErrorIs(t, repo.Create(ctx, &entity.Facility{Name: "centro norte"}), domain.ErrDuplicate)
	assert.ErrorIs(t, repo.Create(ctx, &entity.Facility{Name: "Otro", Code: "cn"}), domain.ErrDuplicate)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Arrabal", list[0].Name)

	renamed := *list[0]
	renamed.Name = "BOSQUE"
	assert.ErrorIs(t, repo.Update(ctx, &renamed), domain.ErrDuplicate)
}

// ──────────────────────────────────────────────────────────────────────────────
// Inventario y transacciones
// ──────────────────────────────────────────────────────────────────────────────

func TestInventoryTx_DeshaceAlFallar(t *testing.T) {
	ctx := context.Background()
	inv := memory.NewInventory()
	item := &entity.InventoryItem{FacilityName: "Centro Norte", ItemName: "Agujas"}
	item.SetStock(decimal.NewFromInt(10), decimal.Zero)
	require.NoError(t, inv.Items.Create(ctx, item))

	boom := errors.New("boom")
	err := inv.Tx.Run(ctx, func(items repository.InventoryItemRepository, _ repository.WithdrawalRepository) error {
		got, err := items.GetForUpdate(ctx, item.ID)
		if err != nil {
			return err
		}
		got.SetStock(got.ReceivedQty, decimal.NewFromInt(10))
		if err := items.Update(ctx, got); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := inv.Items.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, got.AvailableQty.Equal(decimal.NewFromInt(10)), "el cambio se deshizo")
}

func TestWithdrawalRepo_ExigeItemYConflicto(t *testing.T) {
	ctx := context.Background()
	inv := memory.NewInventory()
	assert.ErrorIs(t, inv.Withdrawals.Create(ctx, &entity.WithdrawalOrder{ItemID: "nada"}), domain.ErrNotFound)

	item := &entity.InventoryItem{ItemName: "Agujas"}
	require.NoError(t, inv.Items.Create(ctx, item))
	w := &entity.WithdrawalOrder{ItemID: item.ID, RequestStatus: entity.WithdrawalOpen, Date: t0}
	require.NoError(t, inv.Withdrawals.Create(ctx, w))
	older := &entity.WithdrawalOrder{ItemID: item.ID, RequestStatus: entity.WithdrawalOpen, Date: t0.Add(-time.Hour)}
	require.NoError(t, inv.Withdrawals.Create(ctx, older))

	list, err := inv.Withdrawals.ListByItem(ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, w.ID, list[0].ID)

	require.NoError(t, inv.Withdrawals.UpdateStatus(ctx, w.ID, entity.WithdrawalOpen, entity.WithdrawalCancelled))
	assert.ErrorIs(t, inv.Withdrawals.UpdateStatus(ctx, w.ID, entity.WithdrawalOpen, entity.WithdrawalDispensed), domain.ErrConflict)
}

// ──────────────────────────────────────────────────────────────────────────────
// Analytics y adjuntos
// ──────────────────────────────────────────────────────────────────────────────

func TestAnalyticsRepo_TipoDesconocido(t *testing.T) {
	inv := memory.NewInventory()
	repo := memory.NewAnalyticsRepository(memory.NewContractRepository(), memory.NewOrderRepository(), memory.NewReportRepository(), inv.Items)

	_, err := repo.CountByStatus(context.Background(), workflow.Kind("invoice"))
	assert.Error(t, err)
}

func TestBlobStore(t *testing.T) {
	ctx := context.Background()
	s := memory.NewBlobStore()

	require.NoError(t, s.Put(ctx, "contract/1/a.pdf", "application/pdf", strings.NewReader("%PDF-1.4"), 8))
	assert.Error(t, s.Put(ctx, "contract/1/b.pdf", "application/pdf", strings.NewReader("corto"), 99), "tamaño declarado distinto")

	data, ct, ok := s.Get("contract/1/a.pdf")
	require.True(t, ok)
	assert.Equal(t, "application/pdf", ct)
	assert.Equal(t, "%PDF-1.4", string(data))

	url, err := s.PresignGet(ctx, "contract/1/a.pdf", time.Minute)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "memory:///contract/1/a.pdf?expires="))

	_, err = s.PresignGet(ctx, "nada", time.Minute)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, s.Delete(ctx, "contract/1/a.pdf"))
	assert.Zero(t, s.Len())
}

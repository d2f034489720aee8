package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/dental-ops-api/internal/application/dto"
	"github.com/jhoicas/dental-ops-api/internal/application/usecase"
	"github.com/jhoicas/dental-ops-api/internal/domain"
	"github.com/jhoicas/dental-ops-api/internal/infrastructure/lock"
	"github.com/jhoicas/dental-ops-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var clock = time.Date(2026, 5, 10, 8, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return clock }

func newContractUC() *usecase.ContractUseCase {
	return usecase.NewContractUseCase(memory.NewContractRepository(), lock.NewMemoryGuard(), nil, nil, 2).
		WithClock(fixedClock)
}

func contractReq(number, facility, item string, requested, received, price int64) dto.CreateContractRequest {
	return dto.CreateContractRequest{
		ContractNumber: number,
		FacilityName:   facility,
		ItemName:       item,
		Supplier:       "Dentaltec",
		Category:       "equipos",
		ContractDate:   "2026-05-01",
		QuantitiesRequest: dto.QuantitiesRequest{
			QuantityRequested: dto.Dec(decimal.NewFromInt(requested)),
			QuantityReceived:  dto.Dec(decimal.NewFromInt(received)),
			UnitPrice:         dto.Dec(decimal.NewFromInt(price)),
		},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Create / Update
// ──────────────────────────────────────────────────────────────────────────────

func TestContractCreate_EstadoInicialYDerivados(t *testing.T) {
	uc := newContractUC()

	got, err := uc.Create(context.Background(), "ana", contractReq("C-1", "Centro Norte", "Autoclave", 10, 4, 250))
	require.NoError(t, err)

	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "new", got.Status)
	require.Len(t, got.StatusHistory, 1)
	assert.Equal(t, "ana", got.StatusHistory[0].Actor)
	assert.Equal(t, clock, got.StatusHistory[0].Date)
	assert.True(t, got.QuantityRemaining.Equal(decimal.NewFromInt(6)))
	assert.Equal(t, "2500.00", got.TotalValue)
	assert.Equal(t, "1000.00", got.ReceivedValue)
	assert.Equal(t, "1500.00", got.RemainingValue)
	require.NotNil(t, got.ContractDate)
	assert.Equal(t, "2026-05-01", got.ContractDate.Format("2006-01-02"))
}

func TestContractCreate_CantidadNegativa(t *testing.T) {
	uc := newContractUC()

	_, err := uc.Create(context.Background(), "ana", contractReq("C-1", "Centro Norte", "Autoclave", -1, 0, 10))
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "quantity_requested", ve.Fields[0].Field)
}

func TestContractCreate_PrecioConMasDeCuatroDecimales(t *testing.T) {
	uc := newContractUC()
	in := contractReq("C-1", "Centro Norte", "Fresas", 30, 0, 0)
	in.UnitPrice = dto.Dec(decimal.RequireFromString("0.00015"))

	_, err := uc.Create(context.Background(), "ana", in)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve.Fields, 1)
	assert.Equal(t, "unit_price", ve.Fields[0].Field)

	in.UnitPrice = dto.Dec(decimal.RequireFromString("0.0002"))
	got, err := uc.Create(context.Background(), "ana", in)
	require.NoError(t, err)
	assert.Equal(t, "0.01", got.TotalValue, "el valor se calcula con el precio tal como se guarda")
}

func TestContractCreate_FechaInvalida(t *testing.T) {
	uc := newContractUC()
	in := contractReq("C-1", "Centro Norte", "Autoclave", 1, 0, 10)
	in.ContractDate = "01/05/2026"

	_, err := uc.Create(context.Background(), "ana", in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestContractUpdate_RecalculaYConservaEstado(t *testing.T) {
	uc := newContractUC()
	ctx := context.Background()
	created, err := uc.Create(ctx, "ana", contractReq("C-1", "Centro Norte", "Autoclave", 10, 0, 100))
	require.NoError(t, err)
	_, err = uc.UpdateStatus(ctx, created.ID, "jefe", dto.StatusUpdateRequest{NewStatus: "approved"})
	require.NoError(t, err)

	supplier := "Proveedor Sur"
	got, err := uc.Update(ctx, created.ID, dto.UpdateContractRequest{
		Supplier: &supplier,
		Quantities: &dto.QuantitiesRequest{
			QuantityRequested: dto.Dec(decimal.NewFromInt(10)),
			QuantityReceived:  dto.Dec(decimal.NewFromInt(12)),
			UnitPrice:         dto.Dec(decimal.NewFromInt(100)),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Proveedor Sur", got.Supplier)
	assert.Equal(t, "Autoclave", got.ItemName)
	assert.Equal(t, "approved", got.Status, "editar no cambia el estado")
	assert.True(t, got.QuantityRemaining.Equal(decimal.NewFromInt(-2)), "el restante puede ser negativo")
	assert.Equal(t, "-200.00", got.RemainingValue)
}

func TestContractUpdate_NoEncontrado(t *testing.T) {
	_, err := newContractUC().Update(context.Background(), "nada", dto.UpdateContractRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// List / Filtered
// ──────────────────────────────────────────────────────────────────────────────

func TestContractList_FiltraYPagina(t *testing.T) {
	uc := newContractUC()
	ctx := context.Background()
	for _, in := range []dto.CreateContractRequest{
		contractReq("C-1", "Centro Norte", "Autoclave", 1, 0, 10),
		contractReq("C-2", "Centro Norte", "Compresor", 1, 1, 10),
		contractReq("C-3", "Centro Norte", "Autoclave grande", 2, 0, 10),
		contractReq("C-4", "Centro Sur", "Autoclave", 1, 0, 10),
	} {
		_, err := uc.Create(ctx, "ana", in)
		require.NoError(t, err)
	}

	page, err := uc.List(ctx, dto.ListQuery{Facility: "Centro Norte", Search: "Autoclave"})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page.Total)
	assert.Equal(t, 1, page.Page.TotalPages)

	page, err = uc.List(ctx, dto.ListQuery{Facility: "Centro Norte", Page: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Page.Total)
	assert.Equal(t, 2, page.Page.TotalPages)
	assert.Len(t, page.Items, 1)

	all, err := uc.Filtered(ctx, dto.ListQuery{Quick: "has_remaining"})
	require.NoError(t, err)
	assert.Len(t, all, 3, "C-2 ya se recibió completo")
}

func TestContractList_RangoDeFechas(t *testing.T) {
	uc := newContractUC()
	ctx := context.Background()
	early := contractReq("C-1", "Centro Norte", "Autoclave", 1, 0, 10)
	early.ContractDate = "2026-04-01"
	late := contractReq("C-2", "Centro Norte", "Autoclave", 1, 0, 10)
	late.ContractDate = "2026-06-01T23:59:00Z"
	undated := contractReq("C-3", "Centro Norte", "Autoclave", 1, 0, 10)
	undated.ContractDate = ""
	for _, in := range []dto.CreateContractRequest{early, late, undated} {
		_, err := uc.Create(ctx, "ana", in)
		require.NoError(t, err)
	}

	got, err := uc.Filtered(ctx, dto.ListQuery{From: "2026-05-01", To: "2026-06-01"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "C-2", got[0].ContractNumber)

	_, err = uc.Filtered(ctx, dto.ListQuery{From: "ayer"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Estados / Delete
// ──────────────────────────────────────────────────────────────────────────────

func TestContractUpdateStatus_FlujoCompleto(t *testing.T) {
	uc := newContractUC()
	ctx := context.Background()
	c, err := uc.Create(ctx, "ana", contractReq("C-1", "Centro Norte", "Autoclave", 1, 0, 10))
	require.NoError(t, err)

	for _, next := range []string{"approved", "contracted", "delivered"} {
		c, err = uc.UpdateStatus(ctx, c.ID, "jefe", dto.StatusUpdateRequest{NewStatus: next})
		require.NoError(t, err, next)
	}
	assert.Equal(t, "delivered", c.Status)
	assert.Len(t, c.StatusHistory, 4)

	tr, err := uc.Transitions(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, tr.Available, 2)
	assert.Equal(t, "delivered", tr.Available[0].Status)
	assert.Equal(t, "rejected", tr.Available[1].Status)

	_, err = uc.UpdateStatus(ctx, c.ID, "jefe", dto.StatusUpdateRequest{NewStatus: "approved"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestContractDelete_RequiereConfirmacion(t *testing.T) {
	uc := newContractUC()
	ctx := context.Background()
	c, err := uc.Create(ctx, "ana", contractReq("C-1", "Centro Norte", "Autoclave", 1, 0, 10))
	require.NoError(t, err)

	assert.ErrorIs(t, uc.Delete(ctx, c.ID, false), domain.ErrNotConfirmed)
	_, err = uc.GetByID(ctx, c.ID)
	require.NoError(t, err, "sin confirmación no se borra")

	require.NoError(t, uc.Delete(ctx, c.ID, true))
	_, err = uc.GetByID(ctx, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, uc.Delete(ctx, c.ID, true), domain.ErrNotFound)
}

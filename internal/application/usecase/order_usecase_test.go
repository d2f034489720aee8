package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/dental-ops-api/internal/application/dto"
	"github.com/jhoicas/dental-ops-api/internal/application/usecase"
	"github.com/jhoicas/dental-ops-api/internal/domain"
	"github.com/jhoicas/dental-ops-api/internal/infrastructure/lock"
	"github.com/jhoicas/dental-ops-api/internal/infrastructure/memory"
)

func newOrderUC() *usecase.OrderUseCase {
	return usecase.NewOrderUseCase(memory.NewOrderRepository(), lock.NewMemoryGuard(), nil, nil, 10).
		WithClock(fixedClock)
}

func createOrder(t *testing.T, uc *usecase.OrderUseCase, number string) *dto.OrderResponse {
	t.Helper()
	o, err := uc.Create(context.Background(), "ana", dto.CreateOrderRequest{
		OrderNumber:  number,
		FacilityName: "Centro Sur",
		ItemName:     "Guantes de nitrilo",
		OrderDate:    "2026-05-02",
		QuantitiesRequest: dto.QuantitiesRequest{
			QuantityRequested: dto.Dec(decimal.NewFromInt(100)),
			QuantityReceived:  dto.Dec(decimal.NewFromInt(40)),
			UnitPrice:         dto.Dec(decimal.RequireFromString("0.35")),
		},
	})
	require.NoError(t, err)
	return o
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestOrderCreate_EstadoInicialYDerivados(t *testing.T) {
	o := createOrder(t, newOrderUC(), "OC-1")

	assert.Equal(t, "new", o.Status)
	require.Len(t, o.StatusHistory, 1)
	assert.Equal(t, clock, o.StatusHistory[0].Date, "la creación usa el reloj, no exige fecha")
	assert.True(t, o.QuantityRemaining.Equal(decimal.NewFromInt(60)))
	assert.Equal(t, "35.00", o.TotalValue)
	assert.Equal(t, "14.00", o.ReceivedValue)
	assert.Equal(t, "21.00", o.RemainingValue)
}

func TestOrderCreate_FechaInvalida(t *testing.T) {
	_, err := newOrderUC().Create(context.Background(), "ana", dto.CreateOrderRequest{
		OrderNumber: "OC-1", FacilityName: "Centro Sur", ItemName: "Guantes", OrderDate: "02/05/2026",
	})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "order_date", ve.Fields[0].Field)
}

// ──────────────────────────────────────────────────────────────────────────────
// Flujo de estados
// ──────────────────────────────────────────────────────────────────────────────

func TestOrderUpdateStatus_ExigeFecha(t *testing.T) {
	uc := newOrderUC()
	ctx := context.Background()
	o := createOrder(t, uc, "OC-9")

	_, err := uc.UpdateStatus(ctx, o.ID, "jefe", dto.StatusUpdateRequest{NewStatus: "approved"})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "date", ve.Fields[0].Field)

	same, err := uc.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", same.Status, "sin fecha no cambia nada")
	assert.Len(t, same.StatusHistory, 1)

	o, err = uc.UpdateStatus(ctx, o.ID, "jefe", dto.StatusUpdateRequest{NewStatus: "ordered", Date: "2026-05-09", Note: "proveedor confirmó"})
	require.NoError(t, err, "saltar estados hacia adelante está permitido")
	assert.Equal(t, "ordered", o.Status)
	require.Len(t, o.StatusHistory, 2)
	assert.Equal(t, "2026-05-09", o.StatusHistory[1].Date.Format("2006-01-02"))
	assert.Equal(t, "proveedor confirmó", o.StatusHistory[1].Note)

	page, err := uc.List(ctx, dto.ListQuery{Quick: "in_progress"})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page.Total)
}

func TestOrderUpdateStatus_RechazadaEsTerminal(t *testing.T) {
	uc := newOrderUC()
	ctx := context.Background()
	o := createOrder(t, uc, "OC-2")

	_, err := uc.UpdateStatus(ctx, o.ID, "jefe", dto.StatusUpdateRequest{NewStatus: "rejected", Date: "2026-05-03"})
	require.NoError(t, err)

	_, err = uc.UpdateStatus(ctx, o.ID, "jefe", dto.StatusUpdateRequest{NewStatus: "approved", Date: "2026-05-04"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	tr, err := uc.Transitions(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, tr.Available, 1)
	assert.Equal(t, "rejected", tr.Available[0].Status)
}

func TestOrderUpdate_ConservaEstado(t *testing.T) {
	uc := newOrderUC()
	ctx := context.Background()
	o := createOrder(t, uc, "OC-3")
	_, err := uc.UpdateStatus(ctx, o.ID, "jefe", dto.StatusUpdateRequest{NewStatus: "approved", Date: "2026-05-04"})
	require.NoError(t, err)

	supplier := "Dentaltec"
	got, err := uc.Update(ctx, o.ID, dto.UpdateOrderRequest{
		Supplier: &supplier,
		Quantities: &dto.QuantitiesRequest{
			QuantityRequested: dto.Dec(decimal.NewFromInt(10)),
			QuantityReceived:  dto.Dec(decimal.NewFromInt(10)),
			UnitPrice:         dto.Dec(decimal.NewFromInt(3)),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "approved", got.Status)
	assert.Len(t, got.StatusHistory, 2)
	assert.Equal(t, "Dentaltec", got.Supplier)
	assert.Equal(t, "30.00", got.TotalValue)
	assert.True(t, got.QuantityRemaining.IsZero())
}

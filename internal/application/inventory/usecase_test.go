package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/dental-ops-api/internal/application/dto"
	"github.com/jhoicas/dental-ops-api/internal/application/inventory"
	"github.com/jhoicas/dental-ops-api/internal/domain"
	"github.com/jhoicas/dental-ops-api/internal/domain/repository"
	"github.com/jhoicas/dental-ops-api/internal/infrastructure/lock"
	"github.com/jhoicas/dental-ops-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var clock = time.Date(2026, 6, 2, 11, 0, 0, 0, time.UTC)

func d(v string) dto.LenientDecimal { return dto.Dec(decimal.RequireFromString(v)) }

type fixture struct {
	items       *inventory.UseCase
	withdrawals *inventory.WithdrawalUseCase
}

func newFixture() fixture {
	db := memory.NewInventory()
	guard := lock.NewMemoryGuard()
	return fixture{
		items:       inventory.NewUseCase(db.Tx, db.Items, guard, nil, nil, 0).WithClock(func() time.Time { return clock }),
		withdrawals: inventory.NewWithdrawalUseCase(db.Tx, db.Items, db.Withdrawals, guard, nil, nil).WithClock(func() time.Time { return clock }),
	}
}

func createItem(t *testing.T, uc *inventory.UseCase, facility, name, received, issued, min, purchase string) *dto.InventoryItemResponse {
	t.Helper()
	item, err := uc.Create(context.Background(), dto.CreateInventoryItemRequest{
		FacilityName:  facility,
		ItemName:      name,
		Unit:          "caja",
		ReceivedQty:   d(received),
		IssuedQty:     d(issued),
		MinQuantity:   d(min),
		PurchaseValue: d(purchase),
	})
	require.NoError(t, err)
	return item
}

// ──────────────────────────────────────────────────────────────────────────────
// Ítems
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_DisponibleYValorDerivados(t *testing.T) {
	f := newFixture()
	item := createItem(t, f.items, "Centro Norte", "Guantes", "100", "20", "10", "500")

	assert.True(t, item.AvailableQty.Equal(decimal.NewFromInt(80)))
	assert.Equal(t, "5.00", item.UnitPrice)
	assert.Equal(t, "400.00", item.InventoryValue)
	assert.False(t, item.LowStock)
}

func TestCreate_DespachadoMayorQueRecibidoDejaCero(t *testing.T) {
	f := newFixture()
	item := createItem(t, f.items, "Centro Norte", "Anestesia", "5", "9", "1", "50")

	assert.True(t, item.AvailableQty.IsZero())
	assert.True(t, item.LowStock)
}

func TestCreate_CantidadesNegativas(t *testing.T) {
	f := newFixture()
	_, err := f.items.Create(context.Background(), dto.CreateInventoryItemRequest{
		FacilityName: "Centro Norte", ItemName: "Gasas", ReceivedQty: d("-1"), MinQuantity: d("-2"),
	})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve.Fields, 2)
	assert.Equal(t, "received_qty", ve.Fields[0].Field)
	assert.Equal(t, "min_quantity", ve.Fields[1].Field)
}

func TestUpdate_RecalculaDisponible(t *testing.T) {
	f := newFixture()
	item := createItem(t, f.items, "Centro Norte", "Guantes", "100", "20", "10", "500")

	issued := d("95")
	got, err := f.items.Update(context.Background(), item.ID, dto.UpdateInventoryItemRequest{IssuedQty: &issued})
	require.NoError(t, err)

	assert.True(t, got.AvailableQty.Equal(decimal.NewFromInt(5)))
	assert.True(t, got.LowStock)
	assert.Equal(t, "25.00", got.InventoryValue)
}

func TestCreate_DecimalesDeMas(t *testing.T) {
	f := newFixture()
	_, err := f.items.Create(context.Background(), dto.CreateInventoryItemRequest{
		FacilityName: "Centro Norte", ItemName: "Gasas", ReceivedQty: d("1.00005"), PurchaseValue: d("10.005"),
	})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve.Fields, 2)
	assert.Equal(t, "received_qty", ve.Fields[0].Field)
	assert.Equal(t, "purchase_value", ve.Fields[1].Field)

	item := createItem(t, f.items, "Centro Norte", "Gasas", "1.2500", "0", "0.5", "10.50")
	assert.True(t, item.AvailableQty.Equal(decimal.RequireFromString("1.25")), "ceros a la derecha no cuentan")
}

// dispenseFirst despacha una orden justo antes de abrir la transacción de la edición.
type dispenseFirst struct {
	inner    inventory.TxRunner
	dispense func()
}

func (r *dispenseFirst) Run(ctx context.Context, fn func(repository.InventoryItemRepository, repository.WithdrawalRepository) error) error {
	if r.dispense != nil {
		run := r.dispense
		r.dispense = nil
		run()
	}
	return r.inner.Run(ctx, fn)
}

func TestUpdate_NoPierdeUnDespachoConcurrente(t *testing.T) {
	ctx := context.Background()
	db := memory.NewInventory()
	guard := lock.NewMemoryGuard()
	tx := &dispenseFirst{inner: db.Tx}
	items := inventory.NewUseCase(tx, db.Items, guard, nil, nil, 0)
	withdrawals := inventory.NewWithdrawalUseCase(db.Tx, db.Items, db.Withdrawals, guard, nil, nil)

	item := createItem(t, items, "Centro Norte", "Guantes", "50", "0", "5", "100")
	w, err := withdrawals.Create(ctx, item.ID, "ana", dto.CreateWithdrawalRequest{WithdrawQty: d("5"), RecipientName: "Aux. Rahma"})
	require.NoError(t, err)

	tx.dispense = func() {
		_, err := withdrawals.Resolve(ctx, w.ID, "jefe", dto.WithdrawalStatusRequest{NewStatus: "dispensed"})
		require.NoError(t, err)
	}
	name, min := "Guantes talla M", d("8")
	got, err := items.Update(ctx, item.ID, dto.UpdateInventoryItemRequest{ItemName: &name, MinQuantity: &min})
	require.NoError(t, err)

	assert.Equal(t, "Guantes talla M", got.ItemName)
	assert.True(t, got.IssuedQty.Equal(decimal.NewFromInt(5)), "la edición lee el stock dentro de la transacción")
	assert.True(t, got.AvailableQty.Equal(decimal.NewFromInt(45)))

	stored, err := items.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, stored.IssuedQty.Equal(decimal.NewFromInt(5)))
}

func TestLowStockYResumen(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	createItem(t, f.items, "Centro Norte", "Guantes", "100", "20", "10", "500")
	createItem(t, f.items, "Centro Norte", "Agujas", "10", "8", "5", "30")
	createItem(t, f.items, "Centro Norte", "Resina", "0", "0", "1", "0")
	createItem(t, f.items, "Centro Sur", "Agujas", "0", "0", "50", "0")

	low, err := f.items.LowStock(ctx, "Centro Norte")
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, "Agujas", low[0].ItemName, "primero el mayor faltante")
	assert.Equal(t, "Resina", low[1].ItemName)

	all, err := f.items.LowStock(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	sum, err := f.items.Summary(ctx, dto.ListQuery{Facility: "Centro Norte"})
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Items)
	assert.Equal(t, 2, sum.LowStockItems)
	assert.Equal(t, "406.00", sum.TotalInventoryValue)
	assert.Equal(t, "530.00", sum.TotalPurchaseValue)
}

func TestDelete_RequiereConfirmacion(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	item := createItem(t, f.items, "Centro Norte", "Guantes", "10", "0", "1", "10")

	assert.ErrorIs(t, f.items.Delete(ctx, item.ID, false), domain.ErrNotConfirmed)
	require.NoError(t, f.items.Delete(ctx, item.ID, true))
	_, err := f.items.GetByID(ctx, item.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Órdenes de retiro
// ──────────────────────────────────────────────────────────────────────────────

func TestWithdrawalCreate_Validaciones(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	item := createItem(t, f.items, "Centro Norte", "Agujas", "10", "8", "5", "30")

	_, err := f.withdrawals.Create(ctx, item.ID, "ana", dto.CreateWithdrawalRequest{WithdrawQty: d("0"), RecipientName: "Dr. Pérez"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.withdrawals.Create(ctx, item.ID, "ana", dto.CreateWithdrawalRequest{WithdrawQty: d("3"), RecipientName: "Dr. Pérez"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "no puede superar el disponible")

	_, err = f.withdrawals.Create(ctx, item.ID, "ana", dto.CreateWithdrawalRequest{WithdrawQty: d("0.00001"), RecipientName: "Dr. Pérez"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "más de 4 decimales")

	_, err = f.withdrawals.Create(ctx, "no-existe", "ana", dto.CreateWithdrawalRequest{WithdrawQty: d("1"), RecipientName: "Dr. Pérez"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	w, err := f.withdrawals.Create(ctx, item.ID, "ana", dto.CreateWithdrawalRequest{WithdrawQty: d("2"), RecipientName: "Dr. Pérez", Date: "2026-06-01"})
	require.NoError(t, err)
	assert.Equal(t, "open", w.RequestStatus)
	assert.Equal(t, "2026-06-01", w.Date.Format("2006-01-02"))
}

func TestWithdrawalResolve_DespachoDescuentaStock(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	item := createItem(t, f.items, "Centro Norte", "Agujas", "10", "8", "5", "30")

	first, err := f.withdrawals.Create(ctx, item.ID, "ana", dto.CreateWithdrawalRequest{WithdrawQty: d("2"), RecipientName: "Dr. Pérez"})
	require.NoError(t, err)
	second, err := f.withdrawals.Create(ctx, item.ID, "ana", dto.CreateWithdrawalRequest{WithdrawQty: d("2"), RecipientName: "Dra. Ruiz"})
	require.NoError(t, err)

	res, err := f.withdrawals.Resolve(ctx, first.ID, "jefe", dto.WithdrawalStatusRequest{NewStatus: "dispensed"})
	require.NoError(t, err)
	assert.Equal(t, "dispensed", res.Withdrawal.RequestStatus)
	assert.True(t, res.Item.IssuedQty.Equal(decimal.NewFromInt(10)))
	assert.True(t, res.Item.AvailableQty.IsZero())

	_, err = f.withdrawals.Resolve(ctx, second.ID, "jefe", dto.WithdrawalStatusRequest{NewStatus: "dispensed"})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	list, err := f.withdrawals.ListByItem(ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, w := range list {
		if w.ID == second.ID {
			assert.Equal(t, "open", w.RequestStatus, "el rechazo por stock no guarda nada")
		}
	}

	res, err = f.withdrawals.Resolve(ctx, second.ID, "jefe", dto.WithdrawalStatusRequest{NewStatus: "rejected"})
	require.NoError(t, err)
	assert.True(t, res.Item.AvailableQty.IsZero(), "rechazar no toca el stock")

	_, err = f.withdrawals.Resolve(ctx, second.ID, "jefe", dto.WithdrawalStatusRequest{NewStatus: "dispensed"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = f.withdrawals.Resolve(ctx, first.ID, "jefe", dto.WithdrawalStatusRequest{NewStatus: "archived"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestWithdrawal_BorrarItemBorraSusOrdenes(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	item := createItem(t, f.items, "Centro Norte", "Agujas", "10", "0", "5", "30")
	w, err := f.withdrawals.Create(ctx, item.ID, "ana", dto.CreateWithdrawalRequest{WithdrawQty: d("1"), RecipientName: "Dr. Pérez"})
	require.NoError(t, err)

	require.NoError(t, f.items.Delete(ctx, item.ID, true))
	_, err = f.withdrawals.Resolve(ctx, w.ID, "jefe", dto.WithdrawalStatusRequest{NewStatus: "cancelled"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

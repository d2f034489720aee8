package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/dental-ops-api/internal/application/dto"
	"github.com/jhoicas/dental-ops-api/internal/application/ports"
	"github.com/jhoicas/dental-ops-api/internal/domain"
	"github.com/jhoicas/dental-ops-api/internal/domain/calc"
	"github.com/jhoicas/dental-ops-api/internal/domain/entity"
	"github.com/jhoicas/dental-ops-api/internal/domain/filter"
	"github.com/jhoicas/dental-ops-api/internal/domain/inventory"
	"github.com/jhoicas/dental-ops-api/internal/domain/repository"
	"github.com/jhoicas/dental-ops-api/pkg/logger"
)

// UseCase ítems de inventario: alta, edición, listados, stock bajo y totales.
type UseCase struct {
	txRunner TxRunner
	itemRepo repository.InventoryItemRepository
	guard    ports.InFlightGuard
	metrics  ports.Recorder
	log      *logger.Logger
	pageSize int
	now      func() time.Time
}

// NewUseCase construye el caso de uso. Las ediciones corren en txRunner con la fila bloqueada,
// igual que el despacho de una orden de retiro.
func NewUseCase(txRunner TxRunner, itemRepo repository.InventoryItemRepository, guard ports.InFlightGuard, metrics ports.Recorder, log *logger.Logger, pageSize int) *UseCase {
	if metrics == nil {
		metrics = ports.NopRecorder{}
	}
	if log == nil {
		log = logger.Nop()
	}
	if pageSize <= 0 {
		pageSize = filter.DefaultPageSize
	}
	return &UseCase{
		txRunner: txRunner,
		itemRepo: itemRepo,
		guard:    guard,
		metrics:  metrics,
		log:      log.Component("inventory"),
		pageSize: pageSize,
		now:      time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// amountPlaces decimales que se guardan por campo.
var amountPlaces = map[string]int32{
	"received_qty":   calc.QuantityPlaces,
	"issued_qty":     calc.QuantityPlaces,
	"min_quantity":   calc.QuantityPlaces,
	"purchase_value": calc.MoneyPlaces,
}

// validAmounts agrega un error por cada cantidad negativa o con más decimales de los que se guardan.
func validAmounts(values map[string]decimal.Decimal) error {
	var fields []domain.FieldError
	for _, name := range []string{"received_qty", "issued_qty", "min_quantity", "purchase_value"} {
		v, ok := values[name]
		switch {
		case !ok:
		case v.IsNegative():
			fields = append(fields, domain.FieldError{Field: name, Message: "no puede ser negativo"})
		case !calc.FitsPlaces(v, amountPlaces[name]):
			fields = append(fields, domain.FieldError{Field: name, Message: fmt.Sprintf("admite como máximo %d decimales", amountPlaces[name])})
		}
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// Create registra un ítem; el disponible se deriva de recibido y despachado.
func (uc *UseCase) Create(ctx context.Context, in dto.CreateInventoryItemRequest) (*dto.InventoryItemResponse, error) {
	if err := validAmounts(map[string]decimal.Decimal{
		"received_qty":   in.ReceivedQty.Decimal,
		"issued_qty":     in.IssuedQty.Decimal,
		"min_quantity":   in.MinQuantity.Decimal,
		"purchase_value": in.PurchaseValue.Decimal,
	}); err != nil {
		return nil, err
	}
	now := uc.now()
	item := &entity.InventoryItem{
		FacilityName:  in.FacilityName,
		ItemNumber:    in.ItemNumber,
		ItemName:      in.ItemName,
		Category:      in.Category,
		Supplier:      in.Supplier,
		Unit:          in.Unit,
		MinQuantity:   in.MinQuantity.Decimal,
		PurchaseValue: in.PurchaseValue.Decimal,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	item.SetStock(in.ReceivedQty.Decimal, in.IssuedQty.Decimal)
	if err := uc.itemRepo.Create(ctx, item); err != nil {
		uc.log.Error().Err(err).Str("item_name", item.ItemName).Msg("no se pudo crear el ítem")
		return nil, uc.persistence("inventory.create", err)
	}
	return ToItemResponse(item), nil
}

func (uc *UseCase) FacilityOf(ctx context.Context, id string) (string, error) {
	item, err := uc.itemRepo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return item.FacilityName, nil
}

// GetByID obtiene un ítem.
func (uc *UseCase) GetByID(ctx context.Context, id string) (*dto.InventoryItemResponse, error) {
	item, err := uc.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToItemResponse(item), nil
}

// Update edición parcial. Recibido y despachado se recalculan juntos.
func (uc *UseCase) Update(ctx context.Context, id string, in dto.UpdateInventoryItemRequest) (*dto.InventoryItemResponse, error) {
	var out *dto.InventoryItemResponse
	err := uc.guarded(ctx, id, "update", func() error {
		return uc.persistence("inventory.update", uc.txRunner.Run(ctx, func(items repository.InventoryItemRepository, _ repository.WithdrawalRepository) error {
			item, err := items.GetForUpdate(ctx, id)
			if err != nil {
				return err
			}
			next := *item
			setStr(&next.FacilityName, in.FacilityName)
			setStr(&next.ItemNumber, in.ItemNumber)
			setStr(&next.ItemName, in.ItemName)
			setStr(&next.Category, in.Category)
			setStr(&next.Supplier, in.Supplier)
			setStr(&next.Unit, in.Unit)
			received, issued := next.ReceivedQty, next.IssuedQty
			setDec(&received, in.ReceivedQty)
			setDec(&issued, in.IssuedQty)
			setDec(&next.MinQuantity, in.MinQuantity)
			setDec(&next.PurchaseValue, in.PurchaseValue)
			if err := validAmounts(map[string]decimal.Decimal{
				"received_qty":   received,
				"issued_qty":     issued,
				"min_quantity":   next.MinQuantity,
				"purchase_value": next.PurchaseValue,
			}); err != nil {
				return err
			}
			next.SetStock(received, issued)
			next.UpdatedAt = uc.now()
			if err := items.Update(ctx, &next); err != nil {
				return err
			}
			out = ToItemResponse(&next)
			return nil
		}))
	})
	return out, err
}

// List listado filtrado y paginado.
func (uc *UseCase) List(ctx context.Context, q dto.ListQuery) (*dto.ListResponse[dto.InventoryItemResponse], error) {
	items, err := uc.Filtered(ctx, q)
	if err != nil {
		return nil, err
	}
	p := filter.Paginate(items, q.Page, uc.pageSize)
	resp := dto.NewListResponse(p, func(i *entity.InventoryItem) dto.InventoryItemResponse { return *ToItemResponse(i) })
	return &resp, nil
}

// Filtered ítems que cumplen la consulta, sin paginar.
func (uc *UseCase) Filtered(ctx context.Context, q dto.ListQuery) ([]*entity.InventoryItem, error) {
	c, err := q.Criteria()
	if err != nil {
		return nil, err
	}
	all, err := uc.itemRepo.List(ctx)
	if err != nil {
		return nil, uc.persistence("inventory.list", err)
	}
	return filter.Filter(all, c, Fields()), nil
}

// LowStock ítems en o por debajo del mínimo, primero los de mayor faltante.
func (uc *UseCase) LowStock(ctx context.Context, facility string) ([]dto.InventoryItemResponse, error) {
	items, err := uc.Filtered(ctx, dto.ListQuery{Facility: facility, Quick: QuickLowStock})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(a, b int) bool {
		return shortage(items[a]).GreaterThan(shortage(items[b]))
	})
	out := make([]dto.InventoryItemResponse, 0, len(items))
	for _, i := range items {
		out = append(out, *ToItemResponse(i))
	}
	return out, nil
}

func shortage(i *entity.InventoryItem) decimal.Decimal {
	return i.MinQuantity.Sub(i.AvailableQty)
}

// Summary totales del inventario filtrado.
func (uc *UseCase) Summary(ctx context.Context, q dto.ListQuery) (*dto.InventorySummaryResponse, error) {
	items, err := uc.Filtered(ctx, q)
	if err != nil {
		return nil, err
	}
	t := inventory.Summarize(items)
	out := &dto.InventorySummaryResponse{
		Items:               len(items),
		TotalInventoryValue: calc.Money(t.InventoryValue),
		TotalPurchaseValue:  calc.Money(t.PurchaseValue),
	}
	for _, i := range items {
		if i.LowStock() {
			out.LowStockItems++
		}
	}
	return out, nil
}

// Delete borra el ítem y sus órdenes de retiro; requiere confirmación.
func (uc *UseCase) Delete(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return domain.ErrNotConfirmed
	}
	return uc.guarded(ctx, id, "delete", func() error {
		if err := uc.itemRepo.Delete(ctx, id); err != nil {
			return uc.persistence("inventory.delete", err)
		}
		uc.log.Info().Str("id", id).Msg("ítem eliminado")
		return nil
	})
}

func (uc *UseCase) guarded(ctx context.Context, id, action string, fn func() error) error {
	if uc.guard == nil {
		return fn()
	}
	release, err := uc.guard.Acquire(ctx, "inventory:"+id+":"+action)
	if err != nil {
		return err
	}
	defer release()
	return fn()
}

func (uc *UseCase) persistence(op string, err error) error {
	wrapped := domain.Persistence(op, err)
	if errors.Is(wrapped, domain.ErrPersistence) {
		uc.metrics.PersistenceFailed(op)
	}
	return wrapped
}

func setStr(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setDec(dst *decimal.Decimal, v *dto.LenientDecimal) {
	if v != nil {
		*dst = v.Decimal
	}
}

// ToItemResponse convierte la entidad con sus valores derivados.
func ToItemResponse(i *entity.InventoryItem) *dto.InventoryItemResponse {
	if i == nil {
		return nil
	}
	return &dto.InventoryItemResponse{
		ID:             i.ID,
		FacilityName:   i.FacilityName,
		ItemNumber:     i.ItemNumber,
		ItemName:       i.ItemName,
		Category:       i.Category,
		Supplier:       i.Supplier,
		Unit:           i.Unit,
		ReceivedQty:    i.ReceivedQty,
		IssuedQty:      i.IssuedQty,
		AvailableQty:   i.AvailableQty,
		MinQuantity:    i.MinQuantity,
		PurchaseValue:  calc.Money(i.PurchaseValue),
		UnitPrice:      calc.Money(i.UnitPrice()),
		InventoryValue: calc.Money(i.Value()),
		LowStock:       i.LowStock(),
		CreatedAt:      i.CreatedAt,
		UpdatedAt:      i.UpdatedAt,
	}
}

package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/dental-ops-api/internal/application/dto"
	"github.com/jhoicas/dental-ops-api/internal/application/ports"
	"github.com/jhoicas/dental-ops-api/internal/domain"
	"github.com/jhoicas/dental-ops-api/internal/domain/calc"
	"github.com/jhoicas/dental-ops-api/internal/domain/entity"
	"github.com/jhoicas/dental-ops-api/internal/domain/repository"
	"github.com/jhoicas/dental-ops-api/pkg/logger"
)

// WithdrawalUseCase órdenes de retiro (despacho) de ítems de inventario.
// Despachar una orden descuenta el stock del ítem en la misma transacción, con la fila bloqueada.
type WithdrawalUseCase struct {
	txRunner       TxRunner
	itemRepo       repository.InventoryItemRepository
	withdrawalRepo repository.WithdrawalRepository
	guard          ports.InFlightGuard
	metrics        ports.Recorder
	log            *logger.Logger
	now            func() time.Time
}

// NewWithdrawalUseCase construye el caso de uso.
func NewWithdrawalUseCase(
	txRunner TxRunner,
	itemRepo repository.InventoryItemRepository,
	withdrawalRepo repository.WithdrawalRepository,
	guard ports.InFlightGuard,
	metrics ports.Recorder,
	log *logger.Logger,
) *WithdrawalUseCase {
	if metrics == nil {
		metrics = ports.NopRecorder{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &WithdrawalUseCase{
		txRunner:       txRunner,
		itemRepo:       itemRepo,
		withdrawalRepo: withdrawalRepo,
		guard:          guard,
		metrics:        metrics,
		log:            log.Component("withdrawals"),
		now:            time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *WithdrawalUseCase) WithClock(now func() time.Time) *WithdrawalUseCase {
	uc.now = now
	return uc
}

// Create registra una orden abierta. La cantidad debe ser positiva y no superar el disponible actual.
func (uc *WithdrawalUseCase) Create(ctx context.Context, itemID, actor string, in dto.CreateWithdrawalRequest) (*dto.WithdrawalResponse, error) {
	qty := in.WithdrawQty.Decimal
	if !qty.IsPositive() {
		return nil, domain.NewValidationError("withdraw_qty", "debe ser mayor que cero")
	}
	if !calc.FitsPlaces(qty, calc.QuantityPlaces) {
		return nil, domain.NewValidationError("withdraw_qty", fmt.Sprintf("admite como máximo %d decimales", calc.QuantityPlaces))
	}
	date, err := dto.ParseDate("date", in.Date)
	if err != nil {
		return nil, err
	}
	item, err := uc.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if qty.GreaterThan(item.AvailableQty) {
		return nil, domain.NewValidationError("withdraw_qty",
			fmt.Sprintf("supera el disponible (%s %s)", item.AvailableQty.String(), item.Unit))
	}

	now := uc.now()
	w := &entity.WithdrawalOrder{
		ItemID:        item.ID,
		RequestStatus: entity.WithdrawalOpen,
		WithdrawQty:   qty,
		RecipientName: in.RecipientName,
		RecipientID:   in.RecipientID,
		Department:    in.Department,
		Notes:         in.Notes,
		Date:          now,
		CreatedBy:     actor,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if date != nil {
		w.Date = *date
	}
	if err := uc.withdrawalRepo.Create(ctx, w); err != nil {
		return nil, uc.persistence("withdrawal.create", err)
	}
	uc.log.Info().Str("item_id", item.ID).Str("qty", qty.String()).Str("recipient", w.RecipientName).Msg("orden de retiro creada")
	return ToWithdrawalResponse(w), nil
}

// ListByItem órdenes de retiro del ítem, más recientes primero.
func (uc *WithdrawalUseCase) ListByItem(ctx context.Context, itemID string) ([]dto.WithdrawalResponse, error) {
	if _, err := uc.itemRepo.GetByID(ctx, itemID); err != nil {
		return nil, err
	}
	list, err := uc.withdrawalRepo.ListByItem(ctx, itemID)
	if err != nil {
		return nil, uc.persistence("withdrawal.list", err)
	}
	out := make([]dto.WithdrawalResponse, 0, len(list))
	for _, w := range list {
		out = append(out, *ToWithdrawalResponse(w))
	}
	return out, nil
}

// FacilityOf centro del ítem al que pertenece la orden de retiro.
func (uc *WithdrawalUseCase) FacilityOf(ctx context.Context, id string) (string, error) {
	w, err := uc.withdrawalRepo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	item, err := uc.itemRepo.GetByID(ctx, w.ItemID)
	if err != nil {
		return "", err
	}
	return item.FacilityName, nil
}

// Resolve cambia el estado de una orden abierta.
// dispensed: bloquea el ítem (SELECT FOR UPDATE), suma withdrawQty a issuedQty y recalcula el disponible;
// si el ítem ya no alcanza devuelve domain.ErrInsufficientStock y nada se guarda.
func (uc *WithdrawalUseCase) Resolve(ctx context.Context, id, actor string, in dto.WithdrawalStatusRequest) (*dto.WithdrawalResult, error) {
	to, err := entity.ParseWithdrawalStatus(in.NewStatus)
	if err != nil {
		return nil, err
	}
	if uc.guard != nil {
		release, err := uc.guard.Acquire(ctx, "withdrawal:"+id+":status")
		if err != nil {
			return nil, err
		}
		defer release()
	}

	var (
		w    *entity.WithdrawalOrder
		item *entity.InventoryItem
	)
	err = uc.txRunner.Run(ctx, func(itemRepo repository.InventoryItemRepository, withdrawalRepo repository.WithdrawalRepository) error {
		var err error
		if w, err = withdrawalRepo.GetByID(ctx, id); err != nil {
			return err
		}
		if err := entity.CanMoveWithdrawal(w.RequestStatus, to); err != nil {
			return err
		}
		if item, err = itemRepo.GetForUpdate(ctx, w.ItemID); err != nil {
			return err
		}
		now := uc.now()
		if to == entity.WithdrawalDispensed {
			if w.WithdrawQty.GreaterThan(item.AvailableQty) {
				return domain.ErrInsufficientStock
			}
			item.SetStock(item.ReceivedQty, item.IssuedQty.Add(w.WithdrawQty))
			item.UpdatedAt = now
			if err := itemRepo.Update(ctx, item); err != nil {
				return err
			}
		}
		if err := withdrawalRepo.UpdateStatus(ctx, id, w.RequestStatus, to); err != nil {
			return err
		}
		w.RequestStatus = to
		w.UpdatedAt = now
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) || errors.Is(err, domain.ErrInvalidTransition) {
			uc.metrics.TransitionRejected("withdrawal", string(to))
		}
		return nil, uc.persistence("withdrawal.resolve", err)
	}

	uc.metrics.TransitionApplied("withdrawal", string(to))
	uc.log.Info().
		Str("id", id).
		Str("item_id", item.ID).
		Str("status", string(to)).
		Str("actor", actor).
		Str("available", item.AvailableQty.String()).
		Msg("orden de retiro resuelta")
	return &dto.WithdrawalResult{Withdrawal: *ToWithdrawalResponse(w), Item: *ToItemResponse(item)}, nil
}

func (uc *WithdrawalUseCase) persistence(op string, err error) error {
	wrapped := domain.Persistence(op, err)
	if errors.Is(wrapped, domain.ErrPersistence) {
		uc.metrics.PersistenceFailed(op)
	}
	return wrapped
}

// ToWithdrawalResponse convierte la entidad.
func ToWithdrawalResponse(w *entity.WithdrawalOrder) *dto.WithdrawalResponse {
	return &dto.WithdrawalResponse{
		ID:            w.ID,
		ItemID:        w.ItemID,
		RequestStatus: string(w.RequestStatus),
		WithdrawQty:   w.WithdrawQty,
		RecipientName: w.RecipientName,
		RecipientID:   w.RecipientID,
		Department:    w.Department,
		Notes:         w.Notes,
		Date:          w.Date,
		CreatedBy:     w.CreatedBy,
		CreatedAt:     w.CreatedAt,
	}
}

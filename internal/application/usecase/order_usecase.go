package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/dental-ops-api/internal/application/dto"
	"github.com/jhoicas/dental-ops-api/internal/application/ports"
	"github.com/jhoicas/dental-ops-api/internal/application/transition"
	"github.com/jhoicas/dental-ops-api/internal/domain/entity"
	"github.com/jhoicas/dental-ops-api/internal/domain/filter"
	"github.com/jhoicas/dental-ops-api/internal/domain/repository"
	"github.com/jhoicas/dental-ops-api/internal/domain/workflow"
	"github.com/jhoicas/dental-ops-api/pkg/logger"
)

// OrderUseCase órdenes de compra directa. Cada cambio de estado exige fecha.
type OrderUseCase struct {
	repo        repository.OrderRepository
	transitions *transition.Service[*entity.DirectPurchaseOrder]
	guard       ports.InFlightGuard
	metrics     ports.Recorder
	log         *logger.Logger
	pageSize    int
	now         func() time.Time
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(repo repository.OrderRepository, guard ports.InFlightGuard, metrics ports.Recorder, log *logger.Logger, pageSize int) *OrderUseCase {
	if metrics == nil {
		metrics = ports.NopRecorder{}
	}
	if log == nil {
		log = logger.Nop()
	}
	if pageSize <= 0 {
		pageSize = filter.DefaultPageSize
	}
	return &OrderUseCase{
		repo:        repo,
		transitions: transition.NewService[*entity.DirectPurchaseOrder](workflow.KindOrder, repo, guard, metrics, log),
		guard:       guard,
		metrics:     metrics,
		log:         log.Component("orders"),
		pageSize:    pageSize,
		now:         time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *OrderUseCase) WithClock(now func() time.Time) *OrderUseCase {
	uc.now = now
	uc.transitions.WithClock(now)
	return uc
}

// Create registra la orden en estado new.
func (uc *OrderUseCase) Create(ctx context.Context, actor string, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	date, err := dto.ParseDate("order_date", in.OrderDate)
	if err != nil {
		return nil, err
	}
	q, err := quantitiesFrom(in.QuantitiesRequest)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	o := &entity.DirectPurchaseOrder{
		OrderNumber:  in.OrderNumber,
		FacilityName: in.FacilityName,
		ItemName:     in.ItemName,
		Description:  in.Description,
		Category:     in.Category,
		Supplier:     in.Supplier,
		Quantities:   q,
		State:        uc.transitions.Descriptor().NewState(now, actor, in.Note),
		OrderDate:    date,
		CreatedBy:    actor,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, o); err != nil {
		uc.log.Error().Err(err).Str("order_number", o.OrderNumber).Msg("no se pudo crear la orden")
		return nil, persistenceErr(uc.metrics, "order.create", err)
	}
	return ToOrderResponse(o), nil
}

// FacilityOf centro que pidió la orden.
func (uc *OrderUseCase) FacilityOf(ctx context.Context, id string) (string, error) {
	o, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return o.FacilityName, nil
}

// GetByID obtiene una orden.
func (uc *OrderUseCase) GetByID(ctx context.Context, id string) (*dto.OrderResponse, error) {
	o, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToOrderResponse(o), nil
}

// Update edita la orden sin tocar su estado.
func (uc *OrderUseCase) Update(ctx context.Context, id string, in dto.UpdateOrderRequest) (*dto.OrderResponse, error) {
	var out *dto.OrderResponse
	err := guarded(ctx, uc.guard, key(string(workflow.KindOrder), id, "update"), func() error {
		o, err := uc.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		next := *o
		next.OrderNumber = strOr(in.OrderNumber, o.OrderNumber)
		next.FacilityName = strOr(in.FacilityName, o.FacilityName)
		next.ItemName = strOr(in.ItemName, o.ItemName)
		next.Description = strOr(in.Description, o.Description)
		next.Category = strOr(in.Category, o.Category)
		next.Supplier = strOr(in.Supplier, o.Supplier)
		if in.OrderDate != nil {
			if next.OrderDate, err = dto.ParseDate("order_date", *in.OrderDate); err != nil {
				return err
			}
		}
		if in.Quantities != nil {
			if next.Quantities, err = quantitiesFrom(*in.Quantities); err != nil {
				return err
			}
		}
		next.UpdatedAt = uc.now()
		if err := uc.repo.Update(ctx, &next); err != nil {
			return persistenceErr(uc.metrics, "order.update", err)
		}
		out = ToOrderResponse(&next)
		return nil
	})
	return out, err
}

func (uc *OrderUseCase) List(ctx context.Context, q dto.ListQuery) (*dto.ListResponse[dto.OrderResponse], error) {
	all, err := uc.repo.List(ctx)
	if err != nil {
		return nil, persistenceErr(uc.metrics, "order.list", err)
	}
	return listPage(all, q, orderFields(), uc.pageSize, func(o *entity.DirectPurchaseOrder) dto.OrderResponse {
		return *ToOrderResponse(o)
	})
}

// Filtered órdenes que cumplen la consulta (exportación).
func (uc *OrderUseCase) Filtered(ctx context.Context, q dto.ListQuery) ([]*entity.DirectPurchaseOrder, error) {
	all, err := uc.repo.List(ctx)
	if err != nil {
		return nil, persistenceErr(uc.metrics, "order.list", err)
	}
	return filtered(all, q, orderFields())
}

// Delete eliminación definitiva; requiere confirmación.
func (uc *OrderUseCase) Delete(ctx context.Context, id string, confirmed bool) error {
	if err := requireConfirmation(confirmed); err != nil {
		return err
	}
	return guarded(ctx, uc.guard, key(string(workflow.KindOrder), id, "delete"), func() error {
		if err := uc.repo.Delete(ctx, id); err != nil {
			return persistenceErr(uc.metrics, "order.delete", err)
		}
		uc.log.Info().Str("id", id).Msg("orden eliminada")
		return nil
	})
}

// Transitions estados disponibles desde el actual.
func (uc *OrderUseCase) Transitions(ctx context.Context, id string) (*dto.TransitionsResponse, error) {
	return uc.transitions.Available(ctx, id)
}

// UpdateStatus aplica un cambio de estado.
func (uc *OrderUseCase) UpdateStatus(ctx context.Context, id, actor string, in dto.StatusUpdateRequest) (*dto.OrderResponse, error) {
	o, err := uc.transitions.Transition(ctx, id, actor, in)
	if err != nil {
		return nil, err
	}
	return ToOrderResponse(o), nil
}

// ToOrderResponse convierte la entidad en DTO.
func ToOrderResponse(o *entity.DirectPurchaseOrder) *dto.OrderResponse {
	if o == nil {
		return nil
	}
	return &dto.OrderResponse{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		FacilityName:  o.FacilityName,
		ItemName:      o.ItemName,
		Description:   o.Description,
		Category:      o.Category,
		Supplier:      o.Supplier,
		OrderDate:     o.OrderDate,
		Attachment:    dto.NewAttachmentDTO(o.Attachment),
		CreatedBy:     o.CreatedBy,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
		QuantitiesDTO: dto.NewQuantitiesDTO(o.Quantities),
		WorkflowDTO:   dto.NewWorkflowDTO(o.State),
	}
}

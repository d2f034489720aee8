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

// ContractUseCase registro, edición, listado y flujo de estados de los contratos.
type ContractUseCase struct {
	repo        repository.ContractRepository
	transitions *transition.Service[*entity.Contract]
	guard       ports.InFlightGuard
	metrics     ports.Recorder
	log         *logger.Logger
	pageSize    int
	now         func() time.Time
}

// NewContractUseCase construye el caso de uso.
func NewContractUseCase(repo repository.ContractRepository, guard ports.InFlightGuard, metrics ports.Recorder, log *logger.Logger, pageSize int) *ContractUseCase {
	if metrics == nil {
		metrics = ports.NopRecorder{}
	}
	if log == nil {
		log = logger.Nop()
	}
	if pageSize <= 0 {
		pageSize = filter.DefaultPageSize
	}
	return &ContractUseCase{
		repo:        repo,
		transitions: transition.NewService[*entity.Contract](workflow.KindContract, repo, guard, metrics, log),
		guard:       guard,
		metrics:     metrics,
		log:         log.Component("contracts"),
		pageSize:    pageSize,
		now:         time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *ContractUseCase) WithClock(now func() time.Time) *ContractUseCase {
	uc.now = now
	uc.transitions.WithClock(now)
	return uc
}

// Create registra un contrato en estado new con su entrada de creación en el historial.
func (uc *ContractUseCase) Create(ctx context.Context, actor string, in dto.CreateContractRequest) (*dto.ContractResponse, error) {
	date, err := dto.ParseDate("contract_date", in.ContractDate)
	if err != nil {
		return nil, err
	}
	q, err := quantitiesFrom(in.QuantitiesRequest)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	c := &entity.Contract{
		ContractNumber: in.ContractNumber,
		FacilityName:   in.FacilityName,
		ItemName:       in.ItemName,
		Description:    in.Description,
		Category:       in.Category,
		Supplier:       in.Supplier,
		Quantities:     q,
		State:          uc.transitions.Descriptor().NewState(now, actor, in.Note),
		ContractDate:   date,
		CreatedBy:      actor,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		uc.log.Error().Err(err).Str("contract_number", c.ContractNumber).Msg("no se pudo crear el contrato")
		return nil, persistenceErr(uc.metrics, "contract.create", err)
	}
	return ToContractResponse(c), nil
}

// FacilityOf centro dueño del contrato.
func (uc *ContractUseCase) FacilityOf(ctx context.Context, id string) (string, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return c.FacilityName, nil
}

// GetByID obtiene un contrato.
func (uc *ContractUseCase) GetByID(ctx context.Context, id string) (*dto.ContractResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToContractResponse(c), nil
}

// Update edita los datos del contrato; cantidades y derivados se recalculan juntos.
func (uc *ContractUseCase) Update(ctx context.Context, id string, in dto.UpdateContractRequest) (*dto.ContractResponse, error) {
	var out *dto.ContractResponse
	err := guarded(ctx, uc.guard, key(string(workflow.KindContract), id, "update"), func() error {
		c, err := uc.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		next := *c
		next.ContractNumber = strOr(in.ContractNumber, c.ContractNumber)
		next.FacilityName = strOr(in.FacilityName, c.FacilityName)
		next.ItemName = strOr(in.ItemName, c.ItemName)
		next.Description = strOr(in.Description, c.Description)
		next.Category = strOr(in.Category, c.Category)
		next.Supplier = strOr(in.Supplier, c.Supplier)
		if in.ContractDate != nil {
			if next.ContractDate, err = dto.ParseDate("contract_date", *in.ContractDate); err != nil {
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
			return persistenceErr(uc.metrics, "contract.update", err)
		}
		out = ToContractResponse(&next)
		return nil
	})
	return out, err
}

// List listado filtrado y paginado.
func (uc *ContractUseCase) List(ctx context.Context, q dto.ListQuery) (*dto.ListResponse[dto.ContractResponse], error) {
	all, err := uc.repo.List(ctx)
	if err != nil {
		return nil, persistenceErr(uc.metrics, "contract.list", err)
	}
	return listPage(all, q, contractFields(), uc.pageSize, func(c *entity.Contract) dto.ContractResponse {
		return *ToContractResponse(c)
	})
}

// Filtered todos los contratos que cumplen la consulta, sin paginar.
func (uc *ContractUseCase) Filtered(ctx context.Context, q dto.ListQuery) ([]*entity.Contract, error) {
	all, err := uc.repo.List(ctx)
	if err != nil {
		return nil, persistenceErr(uc.metrics, "contract.list", err)
	}
	return filtered(all, q, contractFields())
}

// Delete eliminación definitiva; requiere confirmación.
func (uc *ContractUseCase) Delete(ctx context.Context, id string, confirmed bool) error {
	if err := requireConfirmation(confirmed); err != nil {
		return err
	}
	return guarded(ctx, uc.guard, key(string(workflow.KindContract), id, "delete"), func() error {
		if err := uc.repo.Delete(ctx, id); err != nil {
			return persistenceErr(uc.metrics, "contract.delete", err)
		}
		uc.log.Info().Str("id", id).Msg("contrato eliminado")
		return nil
	})
}

// Transitions estados disponibles desde el actual.
func (uc *ContractUseCase) Transitions(ctx context.Context, id string) (*dto.TransitionsResponse, error) {
	return uc.transitions.Available(ctx, id)
}

// UpdateStatus aplica un cambio de estado.
func (uc *ContractUseCase) UpdateStatus(ctx context.Context, id, actor string, in dto.StatusUpdateRequest) (*dto.ContractResponse, error) {
	c, err := uc.transitions.Transition(ctx, id, actor, in)
	if err != nil {
		return nil, err
	}
	return ToContractResponse(c), nil
}

// ToContractResponse convierte la entidad en DTO.
func ToContractResponse(c *entity.Contract) *dto.ContractResponse {
	if c == nil {
		return nil
	}
	return &dto.ContractResponse{
		ID:             c.ID,
		ContractNumber: c.ContractNumber,
		FacilityName:   c.FacilityName,
		ItemName:       c.ItemName,
		Description:    c.Description,
		Category:       c.Category,
		Supplier:       c.Supplier,
		ContractDate:   c.ContractDate,
		Attachment:     dto.NewAttachmentDTO(c.Attachment),
		CreatedBy:      c.CreatedBy,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
		QuantitiesDTO:  dto.NewQuantitiesDTO(c.Quantities),
		WorkflowDTO:    dto.NewWorkflowDTO(c.State),
	}
}

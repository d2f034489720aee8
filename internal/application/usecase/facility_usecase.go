package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/dental-ops-api/internal/application/dto"
	"github.com/jhoicas/dental-ops-api/internal/application/ports"
	"github.com/jhoicas/dental-ops-api/internal/domain/entity"
	"github.com/jhoicas/dental-ops-api/internal/domain/repository"
)

// FacilityUseCase casos de uso CRUD para centros.
type FacilityUseCase struct {
	repo    repository.FacilityRepository
	metrics ports.Recorder
	now     func() time.Time
}

// NewFacilityUseCase construye el caso de uso.
func NewFacilityUseCase(repo repository.FacilityRepository, metrics ports.Recorder) *FacilityUseCase {
	if metrics == nil {
		metrics = ports.NopRecorder{}
	}
	return &FacilityUseCase{repo: repo, metrics: metrics, now: time.Now}
}

// Create crea un nuevo centro. Nombre y código son únicos (domain.ErrDuplicate).
func (uc *FacilityUseCase) Create(ctx context.Context, in dto.CreateFacilityRequest) (*dto.FacilityResponse, error) {
	now := uc.now()
	facility := &entity.Facility{
		Name:      in.Name,
		Code:      in.Code,
		Region:    in.Region,
		Address:   in.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, facility); err != nil {
		return nil, persistenceErr(uc.metrics, "facility.create", err)
	}
	return toFacilityResponse(facility), nil
}

// FacilityOf nombre del centro; un usuario limitado solo edita el suyo.
func (uc *FacilityUseCase) FacilityOf(ctx context.Context, id string) (string, error) {
	facility, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return facility.Name, nil
}

// GetByID obtiene un centro por ID.
func (uc *FacilityUseCase) GetByID(ctx context.Context, id string) (*dto.FacilityResponse, error) {
	facility, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toFacilityResponse(facility), nil
}

// Update actualiza un centro.
func (uc *FacilityUseCase) Update(ctx context.Context, id string, in dto.UpdateFacilityRequest) (*dto.FacilityResponse, error) {
	facility, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	facility.Name = strOr(in.Name, facility.Name)
	facility.Code = strOr(in.Code, facility.Code)
	facility.Region = strOr(in.Region, facility.Region)
	facility.Address = strOr(in.Address, facility.Address)
	facility.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, facility); err != nil {
		return nil, persistenceErr(uc.metrics, "facility.update", err)
	}
	return toFacilityResponse(facility), nil
}

// List todos los centros (el selector de centro no pagina).
func (uc *FacilityUseCase) List(ctx context.Context) ([]dto.FacilityResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, persistenceErr(uc.metrics, "facility.list", err)
	}
	items := make([]dto.FacilityResponse, 0, len(list))
	for _, f := range list {
		items = append(items, *toFacilityResponse(f))
	}
	return items, nil
}

// Exists indica si hay un centro registrado con ese nombre (sin distinguir mayúsculas).
func (uc *FacilityUseCase) Exists(ctx context.Context, name string) (bool, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return false, persistenceErr(uc.metrics, "facility.list", err)
	}
	for _, f := range list {
		if strings.EqualFold(strings.TrimSpace(f.Name), strings.TrimSpace(name)) {
			return true, nil
		}
	}
	return false, nil
}

// Delete elimina un centro por ID; requiere confirmación.
func (uc *FacilityUseCase) Delete(ctx context.Context, id string, confirmed bool) error {
	if err := requireConfirmation(confirmed); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return persistenceErr(uc.metrics, "facility.delete", err)
	}
	return nil
}

func toFacilityResponse(f *entity.Facility) *dto.FacilityResponse {
	if f == nil {
		return nil
	}
	return &dto.FacilityResponse{
		ID:        f.ID,
		Name:      f.Name,
		Code:      f.Code,
		Region:    f.Region,
		Address:   f.Address,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

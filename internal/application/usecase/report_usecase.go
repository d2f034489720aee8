package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/dental-ops-api/internal/application/dto"
	"github.com/jhoicas/dental-ops-api/internal/application/ports"
	"github.com/jhoicas/dental-ops-api/internal/application/transition"
	"github.com/jhoicas/dental-ops-api/internal/domain"
	"github.com/jhoicas/dental-ops-api/internal/domain/entity"
	"github.com/jhoicas/dental-ops-api/internal/domain/filter"
	"github.com/jhoicas/dental-ops-api/internal/domain/repository"
	"github.com/jhoicas/dental-ops-api/internal/domain/workflow"
	"github.com/jhoicas/dental-ops-api/pkg/logger"
)

// ReportUseCase reportes de falla de equipos.
// El tiempo fuera de servicio se calcula en cada respuesta con el reloj del caso de uso.
type ReportUseCase struct {
	repo        repository.ReportRepository
	transitions *transition.Service[*entity.Report]
	guard       ports.InFlightGuard
	metrics     ports.Recorder
	log         *logger.Logger
	pageSize    int
	now         func() time.Time
}

// NewReportUseCase construye el caso de uso con el reloj del sistema.
func NewReportUseCase(repo repository.ReportRepository, guard ports.InFlightGuard, metrics ports.Recorder, log *logger.Logger, pageSize int) *ReportUseCase {
	if metrics == nil {
		metrics = ports.NopRecorder{}
	}
	if log == nil {
		log = logger.Nop()
	}
	if pageSize <= 0 {
		pageSize = filter.DefaultPageSize
	}
	return &ReportUseCase{
		repo:        repo,
		transitions: transition.NewService[*entity.Report](workflow.KindReport, repo, guard, metrics, log),
		guard:       guard,
		metrics:     metrics,
		log:         log.Component("reports"),
		pageSize:    pageSize,
		now:         time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *ReportUseCase) WithClock(now func() time.Time) *ReportUseCase {
	uc.now = now
	uc.transitions.WithClock(now)
	return uc
}

// reportDate la fecha de apertura es obligatoria.
func reportDate(raw string) (time.Time, error) {
	d, err := dto.ParseDate("report_date", raw)
	if err != nil {
		return time.Time{}, err
	}
	if d == nil {
		return time.Time{}, domain.NewValidationError("report_date", "es obligatoria")
	}
	return *d, nil
}

// Create abre un reporte en estado open.
func (uc *ReportUseCase) Create(ctx context.Context, actor string, in dto.CreateReportRequest) (*dto.ReportResponse, error) {
	date, err := reportDate(in.ReportDate)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	r := &entity.Report{
		ReportNumber: in.ReportNumber,
		FacilityName: in.FacilityName,
		DeviceName:   in.DeviceName,
		DeviceSerial: in.DeviceSerial,
		Category:     in.Category,
		Description:  in.Description,
		ReportedBy:   in.ReportedBy,
		ReportDate:   date,
		ReportTime:   in.ReportTime,
		State:        uc.transitions.Descriptor().NewState(now, actor, in.Note),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if r.ReportedBy == "" {
		r.ReportedBy = actor
	}
	if err := uc.repo.Create(ctx, r); err != nil {
		uc.log.Error().Err(err).Str("report_number", r.ReportNumber).Msg("no se pudo crear el reporte")
		return nil, persistenceErr(uc.metrics, "report.create", err)
	}
	return ToReportResponse(r, now), nil
}

// GetByID obtiene un reporte con su tiempo fuera de servicio al día.
func (uc *ReportUseCase) GetByID(ctx context.Context, id string) (*dto.ReportResponse, error) {
	r, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToReportResponse(r, uc.now()), nil
}

// FacilityOf centro donde está el equipo reportado.
func (uc *ReportUseCase) FacilityOf(ctx context.Context, id string) (string, error) {
	r, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return r.FacilityName, nil
}

// Update edita los datos del reporte. ResolvedAt solo lo cambia el flujo de estados.
func (uc *ReportUseCase) Update(ctx context.Context, id string, in dto.UpdateReportRequest) (*dto.ReportResponse, error) {
	var out *dto.ReportResponse
	err := guarded(ctx, uc.guard, key(string(workflow.KindReport), id, "update"), func() error {
		r, err := uc.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		next := *r
		next.ReportNumber = strOr(in.ReportNumber, r.ReportNumber)
		next.FacilityName = strOr(in.FacilityName, r.FacilityName)
		next.DeviceName = strOr(in.DeviceName, r.DeviceName)
		next.DeviceSerial = strOr(in.DeviceSerial, r.DeviceSerial)
		next.Category = strOr(in.Category, r.Category)
		next.Description = strOr(in.Description, r.Description)
		next.ReportedBy = strOr(in.ReportedBy, r.ReportedBy)
		next.ReportTime = strOr(in.ReportTime, r.ReportTime)
		if in.ReportDate != nil {
			if next.ReportDate, err = reportDate(*in.ReportDate); err != nil {
				return err
			}
		}
		now := uc.now()
		next.UpdatedAt = now
		if err := uc.repo.Update(ctx, &next); err != nil {
			return persistenceErr(uc.metrics, "report.update", err)
		}
		out = ToReportResponse(&next, now)
		return nil
	})
	return out, err
}

// List listado filtrado y paginado.
func (uc *ReportUseCase) List(ctx context.Context, q dto.ListQuery) (*dto.ListResponse[dto.ReportResponse], error) {
	all, err := uc.repo.List(ctx)
	if err != nil {
		return nil, persistenceErr(uc.metrics, "report.list", err)
	}
	now := uc.now()
	return listPage(all, q, reportFields(now), uc.pageSize, func(r *entity.Report) dto.ReportResponse {
		return *ToReportResponse(r, now)
	})
}

// Filtered reportes que cumplen la consulta, sin paginar.
func (uc *ReportUseCase) Filtered(ctx context.Context, q dto.ListQuery) ([]*entity.Report, error) {
	all, err := uc.repo.List(ctx)
	if err != nil {
		return nil, persistenceErr(uc.metrics, "report.list", err)
	}
	return filtered(all, q, reportFields(uc.now()))
}

// Delete borra el reporte y su historial.
func (uc *ReportUseCase) Delete(ctx context.Context, id string, confirmed bool) error {
	if err := requireConfirmation(confirmed); err != nil {
		return err
	}
	return guarded(ctx, uc.guard, key(string(workflow.KindReport), id, "delete"), func() error {
		if err := uc.repo.Delete(ctx, id); err != nil {
			return persistenceErr(uc.metrics, "report.delete", err)
		}
		uc.log.Info().Str("id", id).Msg("reporte eliminado")
		return nil
	})
}

// Transitions estados a los que puede pasar el reporte.
func (uc *ReportUseCase) Transitions(ctx context.Context, id string) (*dto.TransitionsResponse, error) {
	return uc.transitions.Available(ctx, id)
}

// UpdateStatus cerrar estampa ResolvedAt; reabrir lo limpia.
func (uc *ReportUseCase) UpdateStatus(ctx context.Context, id, actor string, in dto.StatusUpdateRequest) (*dto.ReportResponse, error) {
	r, err := uc.transitions.Transition(ctx, id, actor, in)
	if err != nil {
		return nil, err
	}
	return ToReportResponse(r, uc.now()), nil
}

// Now reloj del caso de uso (exportaciones).
func (uc *ReportUseCase) Now() time.Time { return uc.now() }

// ToReportResponse convierte la entidad; el tiempo fuera de servicio se calcula a la fecha now.
func ToReportResponse(r *entity.Report, now time.Time) *dto.ReportResponse {
	if r == nil {
		return nil
	}
	dt := r.Downtime(now)
	return &dto.ReportResponse{
		ID:           r.ID,
		ReportNumber: r.ReportNumber,
		FacilityName: r.FacilityName,
		DeviceName:   r.DeviceName,
		DeviceSerial: r.DeviceSerial,
		Category:     r.Category,
		Description:  r.Description,
		ReportedBy:   r.ReportedBy,
		ReportDate:   r.ReportDate,
		ReportTime:   r.ReportTime,
		ResolvedAt:   r.ResolvedAt,
		Downtime:     dto.DowntimeDTO{Days: dt.Days, Hours: dt.Hours, Minutes: dt.Minutes, Label: dt.Label},
		Attachment:   dto.NewAttachmentDTO(r.Attachment),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		WorkflowDTO:  dto.NewWorkflowDTO(r.State),
	}
}

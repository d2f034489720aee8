package entity

import (
	"time"

	"github.com/jhoicas/dental-ops-api/internal/domain/attachment"
	"github.com/jhoicas/dental-ops-api/internal/domain/calc"
	"github.com/jhoicas/dental-ops-api/internal/domain/workflow"
)

// Report reporte de falla de un equipo (incidente de mantenimiento).
// Estados libres: open, closed, out_of_service. ResolvedAt se estampa al cerrar.
type Report struct {
	ID           string
	ReportNumber string
	FacilityName string
	DeviceName   string
	DeviceSerial string
	Category     string
	Description  string
	ReportedBy   string
	ReportDate   time.Time
	ReportTime   string // "HH:MM"
	workflow.State
	Attachment *attachment.Ref
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (r *Report) WorkflowKind() workflow.Kind { return workflow.KindReport }
func (r *Report) EntityID() string { return r.ID }
func (r *Report) WorkflowState() workflow.State { return r.State }
func (r *Report) SetWorkflowState(s workflow.State) { r.State = s }
func (r *Report) SetAttachment(ref *attachment.Ref) { r.Attachment = ref }
func (r *Report) CurrentAttachment() *attachment.Ref { return r.Attachment }

// Downtime tiempo fuera de servicio a la fecha now (se calcula, nunca se guarda).
func (r *Report) Downtime(now time.Time) calc.Downtime {
	return calc.CalculateDowntimePeriod(r.ReportDate, r.ReportTime, r.ResolvedAt, now)
}

// OpenedAt fecha y hora de apertura combinadas.
func (r *Report) OpenedAt() time.Time {
	return calc.OpenedAt(r.ReportDate, r.ReportTime)
}

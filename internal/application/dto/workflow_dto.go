package dto

import (
	"time"

	"github.com/jhoicas/dental-ops-api/internal/domain/attachment"
	"github.com/jhoicas/dental-ops-api/internal/domain/workflow"
)

// StatusUpdateRequest cuerpo de PATCH /:id/status.
type StatusUpdateRequest struct {
	NewStatus string `json:"new_status" validate:"required"`
	Note      string `json:"note" validate:"max=1000"`
	Date      string `json:"date"` // YYYY-MM-DD o RFC3339; obligatoria para órdenes y reportes
}

// StatusStyleDTO presentación de un estado.
type StatusStyleDTO struct {
	Status     string `json:"status"`
	ColorClass string `json:"color_class"`
	Label      string `json:"label"`
}

// NewStatusStyle arma el DTO con la tabla de estilos.
func NewStatusStyle(s workflow.Status) StatusStyleDTO {
	st := workflow.StatusStyle(s)
	return StatusStyleDTO{Status: string(s), ColorClass: st.ColorClass, Label: st.Label}
}

// TransitionsResponse estados disponibles desde el actual.
type TransitionsResponse struct {
	ID        string           `json:"id"`
	Kind      string           `json:"kind"`
	Current   StatusStyleDTO   `json:"current"`
	Available []StatusStyleDTO `json:"available"`
}

// StatusesResponse catálogo de estados de un tipo de entidad.
type StatusesResponse struct {
	Kind                   string           `json:"kind"`
	Initial                string           `json:"initial"`
	RequiresTransitionDate bool             `json:"requires_transition_date"`
	Statuses               []StatusStyleDTO `json:"statuses"`
}

// HistoryEntryDTO entrada del historial.
type HistoryEntryDTO struct {
	TransitionedTo string    `json:"transitioned_to"`
	Date           time.Time `json:"date"`
	Note           string    `json:"note,omitempty"`
	Actor          string    `json:"actor,omitempty"`
}

// WorkflowDTO parte común de las respuestas con flujo de estados.
type WorkflowDTO struct {
	Status        string            `json:"status"`
	StatusStyle   StatusStyleDTO    `json:"status_style"`
	StatusHistory []HistoryEntryDTO `json:"status_history"`
}

// NewWorkflowDTO convierte el State del dominio.
func NewWorkflowDTO(s workflow.State) WorkflowDTO {
	history := make([]HistoryEntryDTO, 0, len(s.History))
	for _, h := range s.History {
		history = append(history, HistoryEntryDTO{
			TransitionedTo: string(h.TransitionedTo), Date: h.Date, Note: h.Note, Actor: h.Actor,
		})
	}
	return WorkflowDTO{Status: string(s.Status), StatusStyle: NewStatusStyle(s.Status), StatusHistory: history}
}

// AttachmentDTO adjunto con su clasificación y URL temporal de descarga.
type AttachmentDTO struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Kind        string `json:"kind"`
	Size        int64  `json:"size"`
	URL         string `json:"url,omitempty"`
}

// NewAttachmentDTO nil si no hay adjunto.
func NewAttachmentDTO(ref *attachment.Ref) *AttachmentDTO {
	if ref == nil {
		return nil
	}
	return &AttachmentDTO{Name: ref.Name, ContentType: ref.ContentType, Kind: string(attachment.KindOf(ref)), Size: ref.Size}
}

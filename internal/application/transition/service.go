// Package transition aplica los cambios de estado de contratos, órdenes y reportes.
//
// Orden de cada cambio: validar con el motor de workflow, persistir estado + historial
// en una transacción y, solo si la persistencia confirma, actualizar la entidad en memoria.
package transition

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/dental-ops-api/internal/application/dto"
	"github.com/jhoicas/dental-ops-api/internal/application/ports"
	"github.com/jhoicas/dental-ops-api/internal/domain"
	"github.com/jhoicas/dental-ops-api/internal/domain/workflow"
	"github.com/jhoicas/dental-ops-api/pkg/logger"
)

// Entity entidad con flujo de estados.
type Entity interface {
	WorkflowKind() workflow.Kind
	EntityID() string
	WorkflowState() workflow.State
	SetWorkflowState(workflow.State)
}

// Store subconjunto del repositorio que necesita el servicio.
type Store[T Entity] interface {
	GetByID(ctx context.Context, id string) (T, error)
	UpdateStatus(ctx context.Context, id string, from workflow.Status, next workflow.State, entry workflow.HistoryEntry) error
}

// Service motor de transiciones para un tipo de entidad.
type Service[T Entity] struct {
	desc    workflow.Descriptor
	store   Store[T]
	guard   ports.InFlightGuard
	metrics ports.Recorder
	log     *logger.Logger
	now     func() time.Time
}

// NewService construye el servicio. guard y metrics pueden ser nil.
func NewService[T Entity](kind workflow.Kind, store Store[T], guard ports.InFlightGuard, metrics ports.Recorder, log *logger.Logger) *Service[T] {
	if metrics == nil {
		metrics = ports.NopRecorder{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service[T]{
		desc:    workflow.MustDescribe(kind),
		store:   store,
		guard:   guard,
		metrics: metrics,
		log:     log.Component("transition"),
		now:     time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (s *Service[T]) WithClock(now func() time.Time) *Service[T] {
	s.now = now
	return s
}

// Descriptor devuelve la descripción del tipo de entidad.
func (s *Service[T]) Descriptor() workflow.Descriptor { return s.desc }

// Available estados a los que puede pasar la entidad id.
func (s *Service[T]) Available(ctx context.Context, id string) (*dto.TransitionsResponse, error) {
	e, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	current := e.WorkflowState().Status
	next, err := s.desc.AvailableTransitions(current)
	if err != nil {
		return nil, err
	}
	out := &dto.TransitionsResponse{
		ID:        id,
		Kind:      string(s.desc.Kind),
		Current:   dto.NewStatusStyle(current),
		Available: make([]dto.StatusStyleDTO, 0, len(next)),
	}
	for _, st := range next {
		out.Available = append(out.Available, dto.NewStatusStyle(st))
	}
	return out, nil
}

// Transition valida y aplica el cambio pedido por actor sobre la entidad id.
// Mientras la petición está en curso, otra igual sobre la misma entidad recibe domain.ErrInFlight.
func (s *Service[T]) Transition(ctx context.Context, id, actor string, in dto.StatusUpdateRequest) (T, error) {
	var zero T
	to, err := s.desc.Parse(in.NewStatus)
	if err != nil {
		s.metrics.TransitionRejected(string(s.desc.Kind), "invalid_status")
		return zero, err
	}
	date, err := dto.ParseDate("date", in.Date)
	if err != nil {
		return zero, err
	}

	if s.guard != nil {
		release, err := s.guard.Acquire(ctx, fmt.Sprintf("%s:%s:status", s.desc.Kind, id))
		if err != nil {
			return zero, err
		}
		defer release()
	}

	e, err := s.store.GetByID(ctx, id)
	if err != nil {
		return zero, err
	}
	req := workflow.TransitionRequest{To: to, Note: in.Note, Actor: actor, Date: date}
	if err := s.Apply(ctx, e, req); err != nil {
		return zero, err
	}
	return e, nil
}

// Apply aplica req sobre e ya cargada. Si la persistencia falla, e queda intacta.
func (s *Service[T]) Apply(ctx context.Context, e T, req workflow.TransitionRequest) error {
	current := e.WorkflowState()
	next, entry, err := s.desc.Apply(current, req, s.now())
	if err != nil {
		s.metrics.TransitionRejected(string(s.desc.Kind), reason(err))
		s.log.Warn().Err(err).
			Str("kind", string(s.desc.Kind)).
			Str("id", e.EntityID()).
			Str("from", string(current.Status)).
			Str("to", string(req.To)).
			Msg("transición rechazada")
		return err
	}

	if err := s.store.UpdateStatus(ctx, e.EntityID(), current.Status, next, entry); err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrConflict) {
			return err
		}
		s.metrics.PersistenceFailed(string(s.desc.Kind) + ".update_status")
		s.log.Error().Err(err).
			Str("kind", string(s.desc.Kind)).
			Str("id", e.EntityID()).
			Msg("no se pudo guardar el cambio de estado")
		return domain.Persistence("update_status", err)
	}

	e.SetWorkflowState(next)
	s.metrics.TransitionApplied(string(s.desc.Kind), string(next.Status))
	s.log.Info().
		Str("kind", string(s.desc.Kind)).
		Str("id", e.EntityID()).
		Str("from", string(current.Status)).
		Str("to", string(next.Status)).
		Str("actor", req.Actor).
		Msg("estado actualizado")
	return nil
}

func reason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidTransition):
		return "transition"
	case errors.Is(err, domain.ErrInvalidStatus):
		return "invalid_status"
	case errors.Is(err, domain.ErrInvalidInput):
		return "validation"
	default:
		return "other"
	}
}

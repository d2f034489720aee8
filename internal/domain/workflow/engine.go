package workflow

import (
	"time"

	"github.com/jhoicas/dental-ops-api/internal/domain"
)

// HistoryEntry entrada del historial de estados (solo se agregan, nunca se editan).
type HistoryEntry struct {
	TransitionedTo Status    `json:"transitioned_to"`
	Date           time.Time `json:"date"`
	Note           string    `json:"note,omitempty"`
	Actor          string    `json:"actor,omitempty"`
}

// State estado de flujo embebido en cada entidad con workflow.
// Invariante: len(History) >= 1 y History[len-1].TransitionedTo == Status.
type State struct {
	Status     Status
	History    []HistoryEntry
	ResolvedAt *time.Time
}

// TransitionRequest datos de un cambio de estado.
type TransitionRequest struct {
	To    Status
	Note  string
	Actor string
	Date  *time.Time
}

// AvailableTransitions calcula los estados a los que puede pasar la entidad desde current.
//
// OrderedFlow: Flow[pos(current):] + Terminal, sin duplicados y en orden de aparición.
// Desde el estado terminal solo se ofrece el propio terminal.
// FreeForm: todos los estados, sin importar el actual.
func (d Descriptor) AvailableTransitions(current Status) ([]Status, error) {
	if !d.Known(current) {
		return nil, &domain.InvalidStatusError{Kind: string(d.Kind), Status: string(current)}
	}
	if d.Policy == FreeForm {
		return d.Statuses(), nil
	}
	if current == d.Terminal {
		return []Status{d.Terminal}, nil
	}
	pos := 0
	for i, s := range d.Flow {
		if s == current {
			pos = i
			break
		}
	}
	candidates := append(append([]Status{}, d.Flow[pos:]...), d.Terminal)
	seen := make(map[Status]struct{}, len(candidates))
	out := make([]Status, 0, len(candidates))
	for _, s := range candidates {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out, nil
}

// CanTransition valida from → to sin modificar nada.
func (d Descriptor) CanTransition(from, to Status) error {
	if !d.Known(to) {
		return &domain.InvalidStatusError{Kind: string(d.Kind), Status: string(to)}
	}
	allowed, err := d.AvailableTransitions(from)
	if err != nil {
		return err
	}
	for _, s := range allowed {
		if s == to {
			return nil
		}
	}
	names := make([]string, len(allowed))
	for i, s := range allowed {
		names[i] = string(s)
	}
	return &domain.TransitionError{Kind: string(d.Kind), From: string(from), To: string(to), Allowed: names}
}

// NewState crea el estado inicial con su entrada de creación en el historial.
func (d Descriptor) NewState(at time.Time, actor, note string) State {
	return State{
		Status:  d.Initial,
		History: []HistoryEntry{{TransitionedTo: d.Initial, Date: at, Note: note, Actor: actor}},
	}
}

// Apply valida la transición y devuelve el nuevo State junto con la entrada agregada.
// El State recibido no se modifica: el llamador solo lo reemplaza cuando la persistencia confirma.
func (d Descriptor) Apply(current State, req TransitionRequest, now time.Time) (State, HistoryEntry, error) {
	if err := d.CanTransition(current.Status, req.To); err != nil {
		return current, HistoryEntry{}, err
	}
	date := now
	if req.Date != nil && !req.Date.IsZero() {
		date = *req.Date
	} else if d.RequiresTransitionDate {
		return current, HistoryEntry{}, domain.NewValidationError("date", "la fecha es requerida para cambiar el estado")
	}

	entry := HistoryEntry{TransitionedTo: req.To, Date: date, Note: req.Note, Actor: req.Actor}
	history := make([]HistoryEntry, len(current.History), len(current.History)+1)
	copy(history, current.History)

	next := State{
		Status:     req.To,
		History:    append(history, entry),
		ResolvedAt: current.ResolvedAt,
	}
	if d.ClosureStatus != "" {
		switch {
		case req.To == d.ClosureStatus && current.Status != d.ClosureStatus:
			resolved := date
			next.ResolvedAt = &resolved
		case req.To != d.ClosureStatus && current.Status == d.ClosureStatus:
			// reabierto: el tiempo fuera de servicio vuelve a contar
			next.ResolvedAt = nil
		}
	}
	return next, entry, nil
}

// Consistent verifica la invariante del historial.
func (s State) Consistent() bool {
	n := len(s.History)
	return n > 0 && s.History[n-1].TransitionedTo == s.Status
}

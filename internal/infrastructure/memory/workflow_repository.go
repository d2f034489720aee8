// Package memory implementación en memoria de los repositorios, el almacenamiento de
// adjuntos y las consultas del tablero. Sirve para tests y entornos efímeros (DB_DRIVER=memory).
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/jhoicas/dental-ops-api/internal/domain"
	"github.com/jhoicas/dental-ops-api/internal/domain/attachment"
	"github.com/jhoicas/dental-ops-api/internal/domain/entity"
	"github.com/jhoicas/dental-ops-api/internal/domain/repository"
	"github.com/jhoicas/dental-ops-api/internal/domain/workflow"
)

var (
	_ repository.ContractRepository = (*WorkflowRepo[entity.Contract, *entity.Contract])(nil)
	_ repository.OrderRepository    = (*WorkflowRepo[entity.DirectPurchaseOrder, *entity.DirectPurchaseOrder])(nil)
	_ repository.ReportRepository   = (*WorkflowRepo[entity.Report, *entity.Report])(nil)
)

// workflowEntity restricción de puntero: *E con flujo de estados y adjunto.
type workflowEntity[E any] interface {
	*E
	EntityID() string
	WorkflowState() workflow.State
	SetWorkflowState(workflow.State)
	SetAttachment(*attachment.Ref)
	CurrentAttachment() *attachment.Ref
}

// WorkflowRepo repositorio en memoria de contratos, órdenes o reportes.
// Guarda copias: lo que devuelve nunca comparte el historial con lo almacenado.
type WorkflowRepo[E any, P workflowEntity[E]] struct {
	mu    sync.RWMutex
	rows  map[string]E
	order []string
	setID func(P, string)
}

func newWorkflowRepo[E any, P workflowEntity[E]](setID func(P, string)) *WorkflowRepo[E, P] {
	return &WorkflowRepo[E, P]{rows: make(map[string]E), setID: setID}
}

// NewContractRepository contratos en memoria.
func NewContractRepository() *WorkflowRepo[entity.Contract, *entity.Contract] {
	return newWorkflowRepo(func(c *entity.Contract, id string) { c.ID = id })
}

// NewOrderRepository órdenes de compra directa en memoria.
func NewOrderRepository() *WorkflowRepo[entity.DirectPurchaseOrder, *entity.DirectPurchaseOrder] {
	return newWorkflowRepo(func(o *entity.DirectPurchaseOrder, id string) { o.ID = id })
}

// NewReportRepository reportes de falla en memoria.
func NewReportRepository() *WorkflowRepo[entity.Report, *entity.Report] {
	return newWorkflowRepo(func(r *entity.Report, id string) { r.ID = id })
}

func clone[E any, P workflowEntity[E]](e E) E {
	c := e
	p := P(&c)
	st := p.WorkflowState()
	st.History = slices.Clone(st.History)
	p.SetWorkflowState(st)
	return c
}

// Create guarda la entidad. Asigna el ID si viene vacío.
func (r *WorkflowRepo[E, P]) Create(_ context.Context, e P) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e.EntityID() == "" {
		r.setID(e, uuid.New().String())
	}
	id := e.EntityID()
	if _, ok := r.rows[id]; ok {
		return domain.ErrDuplicate
	}
	r.rows[id] = clone[E, P](*e)
	r.order = append(r.order, id)
	return nil
}

// GetByID devuelve una copia o domain.ErrNotFound.
func (r *WorkflowRepo[E, P]) GetByID(_ context.Context, id string) (P, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := clone[E, P](row)
	return &c, nil
}

// Update reemplaza los datos editables. Estado, historial y adjunto no cambian por aquí.
func (r *WorkflowRepo[E, P]) Update(_ context.Context, e P) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.rows[e.EntityID()]
	if !ok {
		return domain.ErrNotFound
	}
	old := P(&stored)
	next := clone[E, P](*e)
	p := P(&next)
	p.SetWorkflowState(old.WorkflowState())
	p.SetAttachment(old.CurrentAttachment())
	r.rows[e.EntityID()] = next
	return nil
}

// List todas las entidades, las más recientes primero.
func (r *WorkflowRepo[E, P]) List(_ context.Context) ([]P, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]P, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		c := clone[E, P](r.rows[r.order[i]])
		out = append(out, &c)
	}
	return out, nil
}

// Delete elimina la entidad y su historial.
func (r *WorkflowRepo[E, P]) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.rows, id)
	r.order = slices.DeleteFunc(r.order, func(s string) bool { return s == id })
	return nil
}

// UpdateStatus aplica next solo si el estado guardado sigue siendo from.
func (r *WorkflowRepo[E, P]) UpdateStatus(_ context.Context, id string, from workflow.Status, next workflow.State, _ workflow.HistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.rows[id]
	if !ok {
		return domain.ErrNotFound
	}
	p := P(&stored)
	if p.WorkflowState().Status != from {
		return domain.ErrConflict
	}
	next.History = slices.Clone(next.History)
	p.SetWorkflowState(next)
	r.rows[id] = stored
	return nil
}

// SetAttachment reemplaza (o quita, con nil) el adjunto.
func (r *WorkflowRepo[E, P]) SetAttachment(_ context.Context, id string, ref *attachment.Ref) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.rows[id]
	if !ok {
		return domain.ErrNotFound
	}
	P(&stored).SetAttachment(ref)
	r.rows[id] = stored
	return nil
}

// countByStatus conteo por estado para el tablero.
func (r *WorkflowRepo[E, P]) countByStatus() map[workflow.Status]int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[workflow.Status]int)
	for _, row := range r.rows {
		out[P(&row).WorkflowState().Status]++
	}
	return out
}

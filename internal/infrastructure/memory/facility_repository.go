package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/jhoicas/dental-ops-api/internal/domain"
	"github.com/jhoicas/dental-ops-api/internal/domain/entity"
	"github.com/jhoicas/dental-ops-api/internal/domain/repository"
)

var _ repository.FacilityRepository = (*FacilityRepo)(nil)

// FacilityRepo centros en memoria. Nombre y código son únicos (sin distinguir mayúsculas).
type FacilityRepo struct {
	mu    sync.RWMutex
	rows  map[string]entity.Facility
	order []string
}

// NewFacilityRepository construye el repositorio vacío.
func NewFacilityRepository() *FacilityRepo {
	return &FacilityRepo{rows: make(map[string]entity.Facility)}
}

func (r *FacilityRepo) taken(f *entity.Facility) bool {
	for id, row := range r.rows {
		if id == f.ID {
			continue
		}
		if strings.EqualFold(row.Name, f.Name) || (f.Code != "" && strings.EqualFold(row.Code, f.Code)) {
			return true
		}
	}
	return false
}

func (r *FacilityRepo) Create(_ context.Context, f *entity.Facility) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	if _, ok := r.rows[f.ID]; ok || r.taken(f) {
		return domain.ErrDuplicate
	}
	r.rows[f.ID] = *f
	r.order = append(r.order, f.ID)
	return nil
}

func (r *FacilityRepo) GetByID(_ context.Context, id string) (*entity.Facility, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &row, nil
}

func (r *FacilityRepo) Update(_ context.Context, f *entity.Facility) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[f.ID]; !ok {
		return domain.ErrNotFound
	}
	if r.taken(f) {
		return domain.ErrDuplicate
	}
	r.rows[f.ID] = *f
	return nil
}

// List centros ordenados por nombre.
func (r *FacilityRepo) List(_ context.Context) ([]*entity.Facility, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.Facility, 0, len(r.rows))
	for _, id := range r.order {
		row := r.rows[id]
		out = append(out, &row)
	}
	slices.SortFunc(out, func(a, b *entity.Facility) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func (r *FacilityRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.rows, id)
	r.order = slices.DeleteFunc(r.order, func(s string) bool { return s == id })
	return nil
}

package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/dental-ops-api/internal/application/dto"
	"github.com/jhoicas/dental-ops-api/internal/application/ports"
	"github.com/jhoicas/dental-ops-api/internal/domain"
	"github.com/jhoicas/dental-ops-api/internal/domain/filter"
)

// listPage filtra items con la consulta y devuelve la página pedida.
func listPage[E any, R any](items []E, q dto.ListQuery, fields filter.Fields[E], size int, conv func(E) R) (*dto.ListResponse[R], error) {
	c, err := q.Criteria()
	if err != nil {
		return nil, err
	}
	p := filter.Paginate(filter.Filter(items, c, fields), q.Page, size)
	resp := dto.NewListResponse(p, conv)
	return &resp, nil
}

// filtered aplica la consulta sin paginar (exportaciones).
func filtered[E any](items []E, q dto.ListQuery, fields filter.Fields[E]) ([]E, error) {
	c, err := q.Criteria()
	if err != nil {
		return nil, err
	}
	return filter.Filter(items, c, fields), nil
}

// guarded ejecuta fn con la llave tomada; guard nil = sin bloqueo.
func guarded(ctx context.Context, guard ports.InFlightGuard, key string, fn func() error) error {
	if guard == nil {
		return fn()
	}
	release, err := guard.Acquire(ctx, key)
	if err != nil {
		return err
	}
	defer release()
	return fn()
}

// requireConfirmation la eliminación es definitiva y exige confirmación explícita.
func requireConfirmation(confirmed bool) error {
	if !confirmed {
		return domain.ErrNotConfirmed
	}
	return nil
}

// persistenceErr envuelve fallos de infraestructura y los cuenta en métricas.
func persistenceErr(metrics ports.Recorder, op string, err error) error {
	wrapped := domain.Persistence(op, err)
	if errors.Is(wrapped, domain.ErrPersistence) {
		metrics.PersistenceFailed(op)
	}
	return wrapped
}

func key(kind, id, action string) string {
	return fmt.Sprintf("%s:%s:%s", kind, id, action)
}

func strOr(p *string, def string) string {
	if p == nil {
		return def
	}
	return *p
}

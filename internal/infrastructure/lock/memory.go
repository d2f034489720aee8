// Package lock implementa el bloqueo de envíos duplicados (InFlightGuard):
// en memoria para una sola instancia y con Redis cuando hay varias réplicas.
package lock

import (
	"context"
	"sync"

	"github.com/jhoicas/dental-ops-api/internal/application/ports"
	"github.com/jhoicas/dental-ops-api/internal/domain"
)

var _ ports.InFlightGuard = (*MemoryGuard)(nil)

// MemoryGuard bloqueo por llave dentro del proceso.
type MemoryGuard struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewMemoryGuard construye el guard vacío.
func NewMemoryGuard() *MemoryGuard {
	return &MemoryGuard{held: make(map[string]struct{})}
}

// Acquire toma la llave o devuelve domain.ErrInFlight. release es idempotente.
func (g *MemoryGuard) Acquire(_ context.Context, key string) (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.held[key]; ok {
		return nil, domain.ErrInFlight
	}
	g.held[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.held, key)
			g.mu.Unlock()
		})
	}, nil
}

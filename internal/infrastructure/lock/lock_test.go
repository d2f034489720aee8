package lock_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/dental-ops-api/internal/application/ports"
	"github.com/jhoicas/dental-ops-api/internal/domain"
	"github.com/jhoicas/dental-ops-api/internal/infrastructure/lock"
)

// ── helpers ──────────────────────────────────────────────────────────────────

func assertGuard(t *testing.T, g ports.InFlightGuard) {
	t.Helper()
	ctx := context.Background()

	release, err := g.Acquire(ctx, "contract:c-1:status")
	require.NoError(t, err)

	_, err = g.Acquire(ctx, "contract:c-1:status")
	assert.ErrorIs(t, err, domain.ErrInFlight, "segundo envío mientras el primero está pendiente")

	other, err := g.Acquire(ctx, "contract:c-2:status")
	require.NoError(t, err, "otra entidad no se bloquea")
	other()

	release()
	release() // idempotente

	again, err := g.Acquire(ctx, "contract:c-1:status")
	require.NoError(t, err, "tras liberar se puede volver a enviar")
	again()
}

// ── MemoryGuard ──────────────────────────────────────────────────────────────

func TestMemoryGuard(t *testing.T) {
	assertGuard(t, lock.NewMemoryGuard())
}

func TestMemoryGuard_Concurrente(t *testing.T) {
	g := lock.NewMemoryGuard()
	var wins int32
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if _, err := g.Acquire(context.Background(), "order:o-1:status"); err == nil {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	close(start)
	wg.Wait()
	assert.Equal(t, int32(1), wins, "solo una petición obtiene el bloqueo")
}

// ── RedisGuard ───────────────────────────────────────────────────────────────

func TestRedisGuard(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	assertGuard(t, lock.NewRedisGuard(rdb, 5*time.Second, nil))
}

func TestRedisGuard_ExpiraPorTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	g := lock.NewRedisGuard(rdb, time.Second, nil)

	_, err := g.Acquire(context.Background(), "report:r-1:status")
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)

	release, err := g.Acquire(context.Background(), "report:r-1:status")
	require.NoError(t, err, "una réplica caída no deja la llave tomada para siempre")
	release()
}

package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/dental-ops-api/internal/application/ports"
	"github.com/jhoicas/dental-ops-api/internal/domain"
	"github.com/jhoicas/dental-ops-api/pkg/config"
	"github.com/jhoicas/dental-ops-api/pkg/logger"
)

var _ ports.InFlightGuard = (*RedisGuard)(nil)

const keyPrefix = "dental-ops:inflight:"

// RedisGuard bloqueo distribuido con redislock. El TTL cubre el caso de una réplica
// que muere sin liberar la llave.
type RedisGuard struct {
	locker *redislock.Client
	ttl    time.Duration
	log    *logger.Logger
}

// NewRedisClient abre el cliente y verifica la conexión.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

// NewRedisGuard construye el guard sobre un cliente ya conectado.
func NewRedisGuard(rdb redis.UniversalClient, ttl time.Duration, log *logger.Logger) *RedisGuard {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if log == nil {
		log = logger.Nop()
	}
	return &RedisGuard{locker: redislock.New(rdb), ttl: ttl, log: log.Component("lock")}
}

// Acquire obtiene la llave sin reintentos: si otra petición la tiene, devuelve domain.ErrInFlight.
func (g *RedisGuard) Acquire(ctx context.Context, key string) (func(), error) {
	l, err := g.locker.Obtain(ctx, keyPrefix+key, g.ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, domain.ErrInFlight
	}
	if err != nil {
		return nil, fmt.Errorf("obtain lock %s: %w", key, err)
	}
	return func() {
		// contexto propio: la petición pudo cancelarse antes de liberar
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := l.Release(ctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			g.log.Warn().Err(err).Str("key", key).Msg("no se pudo liberar el bloqueo")
		}
	}, nil
}

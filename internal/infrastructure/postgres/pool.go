package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/dental-ops-api/pkg/config"
)

const (
	defaultPort     = "5432"
	defaultMaxConns = 25
	fallbackDNS     = "8.8.8.8:53"
	lookupTimeout   = 5 * time.Second
)

var errNoIPv4 = errors.New("sin dirección IPv4")

// NewPool abre el pool que comparten los repositorios de contratos, órdenes,
// reportes e inventario. Todas las conexiones guardan NUMERIC como decimal.Decimal
// y trabajan en UTC; las fechas de estado y de vencimiento se comparan sin zona.
func NewPool(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(dsnFor(ctx, cfg))
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}
	applyPoolLimits(poolCfg, cfg)
	poolCfg.ConnConfig.RuntimeParams["timezone"] = "UTC"
	if cfg.PreferIPv4 {
		poolCfg.ConnConfig.DialFunc = dialIPv4
	}
	poolCfg.AfterConnect = func(_ context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("crear pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping DB: %w", err)
	}
	return pool, nil
}

// dsnFor elige DATABASE_URL si viene y si no arma el DSN por campos.
func dsnFor(ctx context.Context, cfg config.DBConfig) string {
	if cfg.DatabaseURL != "" {
		if !cfg.PreferIPv4 {
			return cfg.DatabaseURL
		}
		return databaseURLWithIPv4(ctx, cfg.DatabaseURL)
	}
	if cfg.PreferIPv4 {
		if ip, err := lookupIPv4(ctx, cfg.Host); err == nil {
			cfg.Host = ip
		}
	}
	return cfg.DSN()
}

func applyPoolLimits(poolCfg *pgxpool.Config, cfg config.DBConfig) {
	poolCfg.MaxConns = defaultMaxConns
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxConns)
	}
	poolCfg.MinConns = 0
	if cfg.MinConns > 0 {
		poolCfg.MinConns = min(int32(cfg.MinConns), poolCfg.MaxConns)
	}
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConnIdleTime = 30 * time.Minute
	poolCfg.HealthCheckPeriod = time.Minute
}

// dialIPv4 conecta por tcp4 cuando el host tiene A; si no, deja el dial normal.
func dialIPv4(ctx context.Context, network, addr string) (net.Conn, error) {
	var d net.Dialer
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, err
	}
	ip, err := lookupIPv4(ctx, host)
	if err != nil {
		return d.DialContext(ctx, network, addr)
	}
	return d.DialContext(ctx, "tcp4", net.JoinHostPort(ip, port))
}

// lookupIPv4 consulta primero el resolver del sistema y luego un DNS público,
// porque en algunos contenedores el DNS interno solo responde AAAA.
func lookupIPv4(ctx context.Context, host string) (string, error) {
	if ip := net.ParseIP(host); ip != nil {
		if ip.To4() == nil {
			return "", errNoIPv4
		}
		return host, nil
	}
	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	public := &net.Resolver{
		PreferGo: true,
		Dial: func(ctx context.Context, _, _ string) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, "udp", fallbackDNS)
		},
	}
	for _, r := range []*net.Resolver{net.DefaultResolver, public} {
		ips, err := r.LookupIP(ctx, "ip4", host)
		if err == nil && len(ips) > 0 {
			return ips[0].String(), nil
		}
	}
	return "", fmt.Errorf("%s: %w", host, errNoIPv4)
}

// databaseURLWithIPv4 cambia el host de la URL por su IPv4 y completa el puerto.
// Si no hay IPv4 devuelve la URL tal cual.
func databaseURLWithIPv4(ctx context.Context, databaseURL string) string {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return databaseURL
	}
	ip, err := lookupIPv4(ctx, u.Hostname())
	if err != nil {
		return databaseURL
	}
	port := u.Port()
	if port == "" {
		port = defaultPort
	}
	u.Host = net.JoinHostPort(ip, port)
	return u.String()
}

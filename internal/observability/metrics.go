// Package observability métricas Prometheus del servicio: HTTP y eventos de negocio.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/dental-ops-api/internal/application/ports"
)

var _ ports.Recorder = (*Metrics)(nil)

// Metrics registro propio con las métricas del servicio.
type Metrics struct {
	registry            *prometheus.Registry
	handler             http.Handler
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	transitionsTotal    *prometheus.CounterVec
	transitionsRejected *prometheus.CounterVec
	persistenceFailures *prometheus.CounterVec
	exportDuration      *prometheus.HistogramVec
}

// NewMetrics inicializa el registro con métricas de proceso, Go y las del dominio.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dental_ops_http_requests_total",
			Help: "Peticiones HTTP por ruta, método y código.",
		}, []string{"route", "method", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dental_ops_http_request_duration_seconds",
			Help:    "Duración de las peticiones HTTP por ruta.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		transitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dental_ops_status_transitions_total",
			Help: "Cambios de estado aplicados por tipo de entidad y estado destino.",
		}, []string{"kind", "to"}),
		transitionsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dental_ops_status_transitions_rejected_total",
			Help: "Cambios de estado rechazados antes de persistir.",
		}, []string{"kind", "reason"}),
		persistenceFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dental_ops_persistence_failures_total",
			Help: "Fallos de persistencia notificados al usuario.",
		}, []string{"op"}),
		exportDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dental_ops_export_duration_seconds",
			Help:    "Tiempo de generación de exportaciones.",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"kind", "format"}),
	}
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requestsTotal, m.requestDuration,
		m.transitionsTotal, m.transitionsRejected, m.persistenceFailures, m.exportDuration,
	)
	m.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return m
}

// Handler http.Handler para /metrics.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registry expone el registro (tests y métricas adicionales).
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Middleware registra cada petición usando el patrón de ruta (no la URL) como etiqueta.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if m == nil {
			return c.Next()
		}
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		route := c.Route().Path
		method := c.Method()
		m.requestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
		m.requestDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
		return err
	}
}

func (m *Metrics) TransitionApplied(kind, to string) {
	m.transitionsTotal.WithLabelValues(kind, to).Inc()
}

func (m *Metrics) TransitionRejected(kind, reason string) {
	m.transitionsRejected.WithLabelValues(kind, reason).Inc()
}

func (m *Metrics) PersistenceFailed(op string) {
	m.persistenceFailures.WithLabelValues(op).Inc()
}

func (m *Metrics) ExportRendered(kind, format string, d time.Duration) {
	m.exportDuration.WithLabelValues(kind, format).Observe(d.Seconds())
}

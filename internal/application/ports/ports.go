// Package ports define los puertos de salida que la capa de aplicación necesita
// de la infraestructura (bloqueos, almacenamiento de adjuntos, métricas).
package ports

import (
	"context"
	"io"
	"time"
)

// InFlightGuard evita que la misma acción sobre la misma entidad se procese dos veces a la vez.
// Acquire devuelve domain.ErrInFlight si la llave ya está tomada.
type InFlightGuard interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// AttachmentStore almacenamiento de archivos adjuntos.
type AttachmentStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

// Recorder métricas de negocio; la implementación real usa Prometheus.
type Recorder interface {
	TransitionApplied(kind, to string)
	TransitionRejected(kind, reason string)
	PersistenceFailed(op string)
	ExportRendered(kind, format string, d time.Duration)
}

// NopRecorder descarta todas las métricas.
type NopRecorder struct{}

func (NopRecorder) TransitionApplied(string, string) {}
func (NopRecorder) TransitionRejected(string, string) {}
func (NopRecorder) PersistenceFailed(string) {}
func (NopRecorder) ExportRendered(string, string, time.Duration) {}

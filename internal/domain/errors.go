package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrInvalidStatus     = errors.New("estado desconocido")
	ErrInvalidTransition = errors.New("transición de estado no permitida")
	ErrPersistence       = errors.New("fallo de persistencia")
	ErrInFlight          = errors.New("ya hay una solicitud en curso para este registro")
	ErrNotConfirmed      = errors.New("la eliminación requiere confirmación explícita")
	ErrStorageDisabled   = errors.New("el almacenamiento de adjuntos no está configurado")
)

// FieldError describe un campo inválido de un formulario.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError agrupa los errores de formulario detectados antes de cualquier llamada a persistencia.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError construye un ValidationError con un único campo.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return ErrInvalidInput.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// InvalidStatusError se devuelve cuando un estado no pertenece a la enumeración del tipo de entidad.
type InvalidStatusError struct {
	Kind   string
	Status string
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("%s: %q no es un estado válido de %s", ErrInvalidStatus, e.Status, e.Kind)
}

func (e *InvalidStatusError) Unwrap() error { return ErrInvalidStatus }

// TransitionError se devuelve cuando el estado solicitado no está entre los siguientes permitidos.
type TransitionError struct {
	Kind    string
	From    string
	To      string
	Allowed []string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: %s de %q a %q (permitidos: %s)",
		ErrInvalidTransition, e.Kind, e.From, e.To, strings.Join(e.Allowed, ", "))
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// PersistenceError envuelve el fallo de la capa de persistencia; el estado local queda intacto.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s (%s): %v", ErrPersistence, e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() []error { return []error{ErrPersistence, e.Err} }

var passThrough = []error{
	ErrNotFound, ErrDuplicate, ErrConflict, ErrInvalidInput, ErrInsufficientStock,
	ErrInvalidStatus, ErrInvalidTransition, ErrInFlight, ErrPersistence,
}

// Persistence envuelve err como PersistenceError salvo que ya sea un error de dominio conocido.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, known := range passThrough {
		if errors.Is(err, known) {
			return err
		}
	}
	return &PersistenceError{Op: op, Err: err}
}

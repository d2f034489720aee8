// Package filter evalúa los filtros de los listados sobre datos ya cargados en memoria.
// Todo es puro: la misma lista y los mismos criterios producen siempre el mismo resultado,
// en el mismo orden relativo de la entrada.
package filter

import (
	"strings"
	"time"
)

// All valor centinela del selector "todos".
const All = "all"

// Predicate predicado sobre un elemento del listado.
type Predicate[T any] func(T) bool

// Everything predicado que acepta todo.
func Everything[T any]() Predicate[T] { return func(T) bool { return true } }

// And combina predicados; sin predicados acepta todo.
func And[T any](preds ...Predicate[T]) Predicate[T] {
	return func(v T) bool {
		for _, p := range preds {
			if p != nil && !p(v) {
				return false
			}
		}
		return true
	}
}

// Apply devuelve los elementos que cumplen p, preservando el orden.
func Apply[T any](items []T, p Predicate[T]) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if p == nil || p(it) {
			out = append(out, it)
		}
	}
	return out
}

func inactive(v string) bool {
	return v == "" || v == All
}

// Search búsqueda de texto: subcadena sensible a mayúsculas sobre los campos indicados.
func Search[T any](query string, fields ...func(T) string) Predicate[T] {
	if query == "" {
		return Everything[T]()
	}
	return func(v T) bool {
		for _, f := range fields {
			if strings.Contains(f(v), query) {
				return true
			}
		}
		return false
	}
}

// Equals selector exacto; vacío o centinela deja pasar todo.
func Equals[T any](want string, field func(T) string) Predicate[T] {
	if inactive(want) || field == nil {
		return Everything[T]()
	}
	return func(v T) bool { return field(v) == want }
}

// DateRange rango inclusivo por día calendario sobre un campo de fecha.
// Sin límites acepta todo; con algún límite, una fecha ausente no coincide.
func DateRange[T any](from, to *time.Time, field func(T) *time.Time) Predicate[T] {
	if (from == nil && to == nil) || field == nil {
		return Everything[T]()
	}
	return func(v T) bool {
		d := field(v)
		if d == nil || d.IsZero() {
			return false
		}
		day := civil(*d)
		if from != nil && day.Before(civil(*from)) {
			return false
		}
		if to != nil && day.After(civil(*to)) {
			return false
		}
		return true
	}
}

func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// QuickFilters conjunto de filtros rápidos mutuamente excluyentes (tipo radio).
type QuickFilters[T any] map[string]Predicate[T]

// Select devuelve el filtro rápido activo; vacío, centinela o desconocido acepta todo.
func (q QuickFilters[T]) Select(name string) Predicate[T] {
	if inactive(name) {
		return Everything[T]()
	}
	if p, ok := q[name]; ok {
		return p
	}
	return Everything[T]()
}

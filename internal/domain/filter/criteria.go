package filter

import "time"

// Criteria filtros activos de un listado.
type Criteria struct {
	Search   string
	Facility string
	Category string
	Status   string
	Supplier string
	From     *time.Time
	To       *time.Time
	Quick    string
}

// Fields describe cómo leer cada campo filtrable de T. Un accesor nil desactiva ese filtro.
type Fields[T any] struct {
	Searchable []func(T) string
	Facility   func(T) string
	Category   func(T) string
	Status     func(T) string
	Supplier   func(T) string
	Date       func(T) *time.Time
	Quick      QuickFilters[T]
}

// Build arma el predicado completo: filtros estructurados y al final el filtro rápido.
func Build[T any](c Criteria, f Fields[T]) Predicate[T] {
	return And(
		Search(c.Search, f.Searchable...),
		Equals(c.Facility, f.Facility),
		Equals(c.Category, f.Category),
		Equals(c.Status, f.Status),
		Equals(c.Supplier, f.Supplier),
		DateRange(c.From, c.To, f.Date),
		f.Quick.Select(c.Quick),
	)
}

// Filter aplica los criterios sobre items.
func Filter[T any](items []T, c Criteria, f Fields[T]) []T {
	return Apply(items, Build(c, f))
}

package filter

// DefaultPageSize tamaño de página de los listados.
const DefaultPageSize = 10

// Page porción visible del listado filtrado.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// Paginate corta items en páginas de size elementos (page empieza en 1).
// Una página fuera de rango devuelve Items vacío con los metadatos correctos.
func Paginate[T any](items []T, page, size int) Page[T] {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page <= 0 {
		page = 1
	}
	total := len(items)
	totalPages := (total + size - 1) / size
	if page > totalPages {
		return Page[T]{Items: []T{}, Page: page, PageSize: size, Total: total, TotalPages: totalPages}
	}
	start := (page - 1) * size
	end := min(start+size, total)
	return Page[T]{
		Items:      append([]T{}, items[start:end]...),
		Page:       page,
		PageSize:   size,
		Total:      total,
		TotalPages: totalPages,
	}
}

// ListView estado de un listado: datos cargados, criterios y página actual.
// Cambiar cualquier criterio vuelve a la página 1.
type ListView[T any] struct {
	items    []T
	fields   Fields[T]
	criteria Criteria
	page     int
	size     int
}

// NewListView construye la vista sobre los datos ya cargados.
func NewListView[T any](items []T, fields Fields[T], size int) *ListView[T] {
	if size <= 0 {
		size = DefaultPageSize
	}
	return &ListView[T]{items: items, fields: fields, page: 1, size: size}
}

// SetCriteria reemplaza los criterios y reinicia la página.
func (v *ListView[T]) SetCriteria(c Criteria) {
	v.criteria = c
	v.page = 1
}

// SetItems reemplaza los datos (p. ej. tras recargar de la API) sin tocar los criterios.
func (v *ListView[T]) SetItems(items []T) {
	v.items = items
	if v.page > v.totalPages() && v.page > 1 {
		v.page = 1
	}
}

// SetPage cambia la página actual (mínimo 1).
func (v *ListView[T]) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	v.page = page
}

// CurrentPage página actual.
func (v *ListView[T]) CurrentPage() int { return v.page }

// Criteria criterios activos.
func (v *ListView[T]) Criteria() Criteria { return v.criteria }

// Filtered lista filtrada completa (para exportación).
func (v *ListView[T]) Filtered() []T {
	return Filter(v.items, v.criteria, v.fields)
}

// Visible página actual de la lista filtrada.
func (v *ListView[T]) Visible() Page[T] {
	return Paginate(v.Filtered(), v.page, v.size)
}

func (v *ListView[T]) totalPages() int {
	n := len(v.Filtered())
	return (n + v.size - 1) / v.size
}

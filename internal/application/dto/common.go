package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/dental-ops-api/internal/domain"
	"github.com/jhoicas/dental-ops-api/internal/domain/calc"
	"github.com/jhoicas/dental-ops-api/internal/domain/filter"
)

// Response sobre común de todas las respuestas: {success, message?, data?}.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// OK respuesta exitosa con datos.
func OK(data any) Response { return Response{Success: true, Data: data} }

// ErrorResponse cuerpo de error HTTP. Success siempre es false.
type ErrorResponse struct {
	Success bool                `json:"success"`
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Fields  []domain.FieldError `json:"fields,omitempty"`
	Allowed []string            `json:"allowed,omitempty"`
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// ListResponse lista paginada genérica.
type ListResponse[T any] struct {
	Items []T          `json:"items"`
	Page  PageResponse `json:"page"`
}

// NewListResponse convierte una página del dominio en la respuesta.
func NewListResponse[E any, T any](p filter.Page[E], conv func(E) T) ListResponse[T] {
	items := make([]T, 0, len(p.Items))
	for _, e := range p.Items {
		items = append(items, conv(e))
	}
	return ListResponse[T]{
		Items: items,
		Page:  PageResponse{Page: p.Page, PageSize: p.PageSize, Total: p.Total, TotalPages: p.TotalPages},
	}
}

// ListQuery filtros de los listados (query string). Vacío o "all" desactiva cada filtro.
type ListQuery struct {
	Search   string `query:"search"`
	Facility string `query:"facility"`
	Category string `query:"category"`
	Status   string `query:"status"`
	Supplier string `query:"supplier"`
	From     string `query:"from"`
	To       string `query:"to"`
	Quick    string `query:"quick"`
	Page     int    `query:"page" validate:"omitempty,min=1"`
}

// Criteria convierte la consulta en criterios del evaluador de filtros.
func (q ListQuery) Criteria() (filter.Criteria, error) {
	from, err := ParseDate("from", q.From)
	if err != nil {
		return filter.Criteria{}, err
	}
	to, err := ParseDate("to", q.To)
	if err != nil {
		return filter.Criteria{}, err
	}
	return filter.Criteria{
		Search:   q.Search,
		Facility: q.Facility,
		Category: q.Category,
		Status:   q.Status,
		Supplier: q.Supplier,
		From:     from,
		To:       to,
		Quick:    q.Quick,
	}, nil
}

var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04"}

// ParseDate acepta "YYYY-MM-DD" o RFC3339. Vacío = nil.
func ParseDate(field, raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, domain.NewValidationError(field, fmt.Sprintf("fecha inválida: %q", raw))
}

// LenientDecimal número capturado en formulario: acepta número JSON, texto o null.
// Un valor vacío o no numérico se toma como 0.
type LenientDecimal struct {
	decimal.Decimal
}

// UnmarshalJSON implementa json.Unmarshaler.
func (d *LenientDecimal) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		d.Decimal = decimal.Zero
		return nil
	}
	var s string
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
	} else {
		s = string(b)
	}
	d.Decimal = calc.ParseLenient(s)
	return nil
}

// Dec atajo para construir LenientDecimal en código.
func Dec(v decimal.Decimal) LenientDecimal { return LenientDecimal{Decimal: v} }

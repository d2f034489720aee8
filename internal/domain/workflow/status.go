// Package workflow implementa el motor de transiciones de estado compartido por
// contratos, órdenes de compra directa y reportes de mantenimiento.
//
// Contratos y órdenes siguen un flujo ordenado con un estado absorbente:
//
//	new ──► approved ──► contracted|ordered ──► delivered
//	 │          │                │                  │
//	 └──────────┴────────────────┴──────────────────┴──► rejected
//
// Los reportes usan un conjunto libre (open, closed, out_of_service): cualquier
// estado es alcanzable desde cualquier otro.
package workflow

import (
	"github.com/jhoicas/dental-ops-api/internal/domain"
)

// Status valor de estado persistido (columna status).
type Status string

const (
	StatusNew          Status = "new"
	StatusApproved     Status = "approved"
	StatusContracted   Status = "contracted"
	StatusOrdered      Status = "ordered"
	StatusDelivered    Status = "delivered"
	StatusRejected     Status = "rejected"
	StatusOpen         Status = "open"
	StatusClosed       Status = "closed"
	StatusOutOfService Status = "out_of_service"
)

// Kind tipo de entidad con flujo de estados.
type Kind string

const (
	KindContract Kind = "contract"
	KindOrder    Kind = "order"
	KindReport   Kind = "report"
)

// Policy política de transición de un tipo de entidad.
type Policy int

const (
	// OrderedFlow solo permite avanzar (o reconfirmar) en el flujo, más el estado terminal.
	OrderedFlow Policy = iota
	// FreeForm permite cualquier estado desde cualquier otro.
	FreeForm
)

// Descriptor describe el flujo de un tipo de entidad.
type Descriptor struct {
	Kind   Kind
	Policy Policy
	// Flow: secuencia hacia adelante (OrderedFlow) o conjunto completo (FreeForm).
	Flow []Status
	// Terminal estado absorbente alcanzable desde cualquier punto (solo OrderedFlow).
	Terminal Status
	// Initial estado con el que se crea la entidad.
	Initial Status
	// RequiresTransitionDate exige fecha explícita al cambiar de estado.
	RequiresTransitionDate bool
	// ClosureStatus al entrar en este estado se estampa ResolvedAt; vacío = no aplica.
	ClosureStatus Status
}

var descriptors = map[Kind]Descriptor{
	KindContract: {
		Kind:     KindContract,
		Policy:   OrderedFlow,
		Flow:     []Status{StatusNew, StatusApproved, StatusContracted, StatusDelivered},
		Terminal: StatusRejected,
		Initial:  StatusNew,
	},
	KindOrder: {
		Kind:                   KindOrder,
		Policy:                 OrderedFlow,
		Flow:                   []Status{StatusNew, StatusApproved, StatusOrdered, StatusDelivered},
		Terminal:               StatusRejected,
		Initial:                StatusNew,
		RequiresTransitionDate: true,
	},
	KindReport: {
		Kind:                   KindReport,
		Policy:                 FreeForm,
		Flow:                   []Status{StatusOpen, StatusClosed, StatusOutOfService},
		Initial:                StatusOpen,
		RequiresTransitionDate: true,
		ClosureStatus:          StatusClosed,
	},
}

// Describe devuelve el descriptor del tipo de entidad.
func Describe(kind Kind) (Descriptor, error) {
	d, ok := descriptors[kind]
	if !ok {
		return Descriptor{}, domain.NewValidationError("kind", "tipo de entidad desconocido: "+string(kind))
	}
	return d, nil
}

// MustDescribe igual que Describe pero entra en pánico con un tipo desconocido (uso en wiring).
func MustDescribe(kind Kind) Descriptor {
	d, err := Describe(kind)
	if err != nil {
		panic(err)
	}
	return d
}

// Statuses devuelve todos los estados conocidos del tipo, en orden de presentación.
func (d Descriptor) Statuses() []Status {
	out := make([]Status, 0, len(d.Flow)+1)
	out = append(out, d.Flow...)
	if d.Terminal != "" {
		out = append(out, d.Terminal)
	}
	return out
}

// Known indica si s pertenece a la enumeración del tipo.
func (d Descriptor) Known(s Status) bool {
	for _, st := range d.Statuses() {
		if st == s {
			return true
		}
	}
	return false
}

// Parse valida un estado recibido como texto.
func (d Descriptor) Parse(raw string) (Status, error) {
	s := Status(raw)
	if !d.Known(s) {
		return "", &domain.InvalidStatusError{Kind: string(d.Kind), Status: raw}
	}
	return s, nil
}

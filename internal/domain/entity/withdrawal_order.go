package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/dental-ops-api/internal/domain"
)

// WithdrawalStatus estado de una orden de retiro (despacho).
type WithdrawalStatus string

const (
	WithdrawalOpen      WithdrawalStatus = "open"
	WithdrawalDispensed WithdrawalStatus = "dispensed"
	WithdrawalRejected  WithdrawalStatus = "rejected"
	WithdrawalCancelled WithdrawalStatus = "cancelled"
)

// withdrawalTransitions solo las órdenes abiertas se resuelven; el resto son finales.
var withdrawalTransitions = map[WithdrawalStatus][]WithdrawalStatus{
	WithdrawalOpen: {WithdrawalDispensed, WithdrawalRejected, WithdrawalCancelled},
}

// ParseWithdrawalStatus valida el texto recibido.
func ParseWithdrawalStatus(raw string) (WithdrawalStatus, error) {
	s := WithdrawalStatus(raw)
	switch s {
	case WithdrawalOpen, WithdrawalDispensed, WithdrawalRejected, WithdrawalCancelled:
		return s, nil
	}
	return "", &domain.InvalidStatusError{Kind: "withdrawal", Status: raw}
}

// CanMoveWithdrawal valida from → to.
func CanMoveWithdrawal(from, to WithdrawalStatus) error {
	for _, s := range withdrawalTransitions[from] {
		if s == to {
			return nil
		}
	}
	allowed := make([]string, 0, len(withdrawalTransitions[from]))
	for _, s := range withdrawalTransitions[from] {
		allowed = append(allowed, string(s))
	}
	return &domain.TransitionError{Kind: "withdrawal", From: string(from), To: string(to), Allowed: allowed}
}

// WithdrawalOrder orden de retiro de un ítem de inventario.
// WithdrawQty no puede superar el disponible del ítem al momento de crearla.
type WithdrawalOrder struct {
	ID            string
	ItemID        string
	RequestStatus WithdrawalStatus
	WithdrawQty   decimal.Decimal
	RecipientName string
	RecipientID   string
	Department    string
	Notes         string
	Date          time.Time
	CreatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

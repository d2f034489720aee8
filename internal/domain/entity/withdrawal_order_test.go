package entity_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/dental-ops-api/internal/domain"
	"github.com/jhoicas/dental-ops-api/internal/domain/entity"
)

func TestParseWithdrawalStatus(t *testing.T) {
	s, err := entity.ParseWithdrawalStatus("dispensed")
	require.NoError(t, err)
	assert.Equal(t, entity.WithdrawalDispensed, s)

	_, err = entity.ParseWithdrawalStatus("Dispensed")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus, "los estados distinguen mayúsculas")
}

func TestCanMoveWithdrawal_SoloDesdeAbierta(t *testing.T) {
	for _, to := range []entity.WithdrawalStatus{entity.WithdrawalDispensed, entity.WithdrawalRejected, entity.WithdrawalCancelled} {
		assert.NoError(t, entity.CanMoveWithdrawal(entity.WithdrawalOpen, to), string(to))
	}

	err := entity.CanMoveWithdrawal(entity.WithdrawalOpen, entity.WithdrawalOpen)
	var te *domain.TransitionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, []string{"dispensed", "rejected", "cancelled"}, te.Allowed)

	err = entity.CanMoveWithdrawal(entity.WithdrawalDispensed, entity.WithdrawalCancelled)
	require.True(t, errors.As(err, &te))
	assert.Empty(t, te.Allowed, "una orden despachada es final")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

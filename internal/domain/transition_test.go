package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextStatus_PendingSignature(t *testing.T) {
	next, err := NextStatus(StatusPendingSignature, EventSignAgreement)
	require.NoError(t, err)
	assert.Equal(t, StatusPendingDeposit, next)

	next, err = NextStatus(StatusPendingSignature, EventSigningDeadlinePassed)
	require.NoError(t, err)
	assert.Equal(t, StatusExpired, next)

	next, err = NextStatus(StatusPendingSignature, EventCancel)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, next)
}

func TestNextStatus_PendingDeposit(t *testing.T) {
	next, err := NextStatus(StatusPendingDeposit, EventRecordDeposit)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, next)

	next, err = NextStatus(StatusPendingDeposit, EventPaymentDeadlinePassed)
	require.NoError(t, err)
	assert.Equal(t, StatusExpired, next)

	next, err = NextStatus(StatusPendingDeposit, EventCancel)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, next)
}

func TestNextStatus_SkippingPhaseIsRejected(t *testing.T) {
	// Депозит нельзя записать до подписания договора
	_, err := NextStatus(StatusPendingSignature, EventRecordDeposit)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// Подписать можно только до перехода в фазу оплаты
	_, err = NextStatus(StatusPendingDeposit, EventSignAgreement)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestNextStatus_TerminalStatesAreFinal(t *testing.T) {
	events := []HoldEvent{
		EventSignAgreement,
		EventSigningDeadlinePassed,
		EventRecordDeposit,
		EventPaymentDeadlinePassed,
		EventCancel,
	}

	for _, status := range []HoldStatus{StatusCompleted, StatusExpired, StatusCancelled} {
		for _, event := range events {
			_, err := NextStatus(status, event)
			assert.ErrorIs(t, err, ErrInvalidTransition,
				"status=%s event=%s must be rejected", status, event)
		}
	}
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(StatusPendingSignature, EventSignAgreement))
	assert.False(t, CanTransition(StatusCompleted, EventCancel))
	assert.False(t, CanTransition(StatusExpired, EventRecordDeposit))
}

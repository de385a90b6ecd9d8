package domain

import (
	"errors"
	"fmt"
)

// HoldEvent represents an event driving the hold state machine
type HoldEvent string

const (
	EventSignAgreement         HoldEvent = "sign_agreement"
	EventSigningDeadlinePassed HoldEvent = "signing_deadline_passed"
	EventRecordDeposit         HoldEvent = "record_deposit"
	EventPaymentDeadlinePassed HoldEvent = "payment_deadline_passed"
	EventCancel                HoldEvent = "cancel"
)

// ErrInvalidTransition возвращается для недопустимой пары (статус, событие)
var ErrInvalidTransition = errors.New("domain: invalid hold transition")

// transitions таблица переходов машины состояний hold.
// Статус движется только вперёд; терминальные статусы переходов не имеют.
var transitions = map[HoldStatus]map[HoldEvent]HoldStatus{
	StatusPendingSignature: {
		EventSignAgreement:         StatusPendingDeposit,
		EventSigningDeadlinePassed: StatusExpired,
		EventCancel:                StatusCancelled,
	},
	StatusPendingDeposit: {
		EventRecordDeposit:         StatusCompleted,
		EventPaymentDeadlinePassed: StatusExpired,
		EventCancel:                StatusCancelled,
	},
}

// NextStatus возвращает следующий статус для пары (from, event).
// Функция тотальна: для любой недопустимой комбинации возвращается
// ErrInvalidTransition, а не паника или неопределённое поведение.
func NextStatus(from HoldStatus, event HoldEvent) (HoldStatus, error) {
	byEvent, ok := transitions[from]
	if !ok {
		return "", fmt.Errorf("%w: no transitions from status %q", ErrInvalidTransition, from)
	}

	next, ok := byEvent[event]
	if !ok {
		return "", fmt.Errorf("%w: event %q not allowed in status %q", ErrInvalidTransition, event, from)
	}

	return next, nil
}

// CanTransition возвращает true, если событие применимо к статусу
func CanTransition(from HoldStatus, event HoldEvent) bool {
	_, err := NextStatus(from, event)
	return err == nil
}

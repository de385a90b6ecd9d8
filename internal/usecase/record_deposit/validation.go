package record_deposit

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/CTR-HoldService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if strings.TrimSpace(req.Token) == "" {
		return fmt.Errorf("%w: token is required", ErrInvalidInput)
	}

	if !domain.IsValidPaymentMethod(req.PaymentMethod) {
		return fmt.Errorf("%w: unsupported payment method %q", ErrInvalidInput, req.PaymentMethod)
	}

	reference := strings.TrimSpace(req.PaymentReference)
	if reference == "" {
		return fmt.Errorf("%w: paymentReference is required", ErrInvalidInput)
	}
	if len(reference) > domain.MaxPaymentReferenceLen {
		return fmt.Errorf("%w: paymentReference is too long", ErrInvalidInput)
	}

	if req.AmountCents <= 0 {
		return fmt.Errorf("%w: amountCents must be positive", ErrInvalidInput)
	}

	return nil
}

// checkPayable проверяет, что hold допускает фиксацию депозита в момент now
func checkPayable(h *domain.SlotHold, now time.Time) error {
	if h.Status != domain.StatusPendingDeposit {
		return fmt.Errorf("%w: current status is %s", ErrWrongState, h.Status)
	}

	if h.PaymentDeadlineAt == nil || !now.Before(*h.PaymentDeadlineAt) {
		return ErrDeadlinePassed
	}

	return nil
}

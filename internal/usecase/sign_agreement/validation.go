package sign_agreement

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

	if strings.TrimSpace(req.SignatureData) == "" {
		return fmt.Errorf("%w: signatureData is required", ErrInvalidInput)
	}

	if strings.TrimSpace(req.SignerName) == "" {
		return fmt.Errorf("%w: signerName is required", ErrInvalidInput)
	}

	email := strings.TrimSpace(req.SignerEmail)
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("%w: valid signerEmail is required", ErrInvalidInput)
	}

	return nil
}

// checkSignable проверяет, что hold допускает подписание в момент now.
// Ошибки отражают актуальное состояние: сначала статус, затем дедлайн.
func checkSignable(h *domain.SlotHold, now time.Time) error {
	if h.Status != domain.StatusPendingSignature {
		return fmt.Errorf("%w: current status is %s", ErrWrongState, h.Status)
	}

	if !now.Before(h.SigningDeadlineAt) {
		return ErrDeadlinePassed
	}

	return nil
}

package create_hold

import (
	"fmt"
	"strings"

	"github.com/m04kA/CTR-HoldService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.StationID <= 0 {
		return fmt.Errorf("%w: stationID must be positive", ErrInvalidInput)
	}

	if req.SlotDate.IsZero() {
		return fmt.Errorf("%w: slotDate is required", ErrInvalidInput)
	}

	if req.SlotTime.IsZero() {
		return fmt.Errorf("%w: slotTime is required", ErrInvalidInput)
	}

	if err := req.SlotTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid slotTime format: %v", ErrInvalidInput, err)
	}

	name := strings.TrimSpace(req.CustomerName)
	if name == "" {
		return fmt.Errorf("%w: customerName is required", ErrInvalidInput)
	}
	if len(name) > domain.MaxCustomerNameLength {
		return fmt.Errorf("%w: customerName is too long", ErrInvalidInput)
	}

	email := strings.TrimSpace(req.CustomerEmail)
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("%w: valid customerEmail is required", ErrInvalidInput)
	}

	if req.GuestCount < domain.MinGuestCount || req.GuestCount > domain.MaxGuestCount {
		return fmt.Errorf("%w: guestCount must be between %d and %d",
			ErrInvalidInput, domain.MinGuestCount, domain.MaxGuestCount)
	}

	return nil
}

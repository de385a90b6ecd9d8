package create_hold

import (
	"context"
	"time"

	"github.com/m04kA/CTR-HoldService/internal/domain"
	"github.com/m04kA/CTR-HoldService/internal/integrations/pricing"
	"github.com/m04kA/CTR-HoldService/pkg/types"
)

// HoldRepository интерфейс репозитория hold'ов
type HoldRepository interface {
	Create(ctx context.Context, h *domain.SlotHold) (*domain.SlotHold, error)
}

// PricingClient интерфейс клиента для PricingService
type PricingClient interface {
	GetDepositQuote(ctx context.Context, stationID int64, slotDate time.Time, slotTime types.TimeString, guestCount int) (*pricing.DepositQuote, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

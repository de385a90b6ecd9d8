package holds

import (
	"context"
	"time"

	"github.com/m04kA/CTR-HoldService/internal/domain"
	"github.com/m04kA/CTR-HoldService/internal/integrations/notifier"
)

// HoldRepository интерфейс репозитория hold'ов
type HoldRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.SlotHold, error)
	GetByToken(ctx context.Context, token string) (*domain.SlotHold, error)
	GetByStationWithFilter(ctx context.Context, filter domain.StationHoldsFilter) ([]*domain.SlotHold, error)
	MarkCancelled(ctx context.Context, id, version int64, from domain.HoldStatus, reason string, now time.Time) error
}

// NotifierClient интерфейс клиента для NotificationService
type NotifierClient interface {
	Notify(ctx context.Context, holdID int64, eventType notifier.EventType) error
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

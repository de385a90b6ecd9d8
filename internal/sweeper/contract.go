package sweeper

import (
	"context"
	"time"

	"github.com/m04kA/CTR-HoldService/internal/domain"
	"github.com/m04kA/CTR-HoldService/internal/integrations/notifier"
)

// HoldRepository интерфейс репозитория hold'ов
type HoldRepository interface {
	FindSigningWarningsDue(ctx context.Context, now time.Time, warningLead time.Duration, limit uint64) ([]*domain.SlotHold, error)
	FindPaymentWarningsDue(ctx context.Context, now time.Time, warningLead time.Duration, limit uint64) ([]*domain.SlotHold, error)
	FindSigningOverdue(ctx context.Context, now time.Time, limit uint64) ([]*domain.SlotHold, error)
	FindPaymentOverdue(ctx context.Context, now time.Time, limit uint64) ([]*domain.SlotHold, error)
	StampSigningWarning(ctx context.Context, id, version int64, sentAt time.Time) error
	StampPaymentWarning(ctx context.Context, id, version int64, sentAt time.Time) error
	MarkExpired(ctx context.Context, id, version int64, from domain.HoldStatus, reason string, now time.Time) error
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

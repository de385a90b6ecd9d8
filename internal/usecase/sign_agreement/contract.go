package sign_agreement

import (
	"context"
	"time"

	"github.com/m04kA/CTR-HoldService/internal/domain"
	"github.com/m04kA/CTR-HoldService/internal/integrations/agreements"
)

// HoldRepository интерфейс репозитория hold'ов
type HoldRepository interface {
	GetByToken(ctx context.Context, token string) (*domain.SlotHold, error)
	GetByID(ctx context.Context, id int64) (*domain.SlotHold, error)
	MarkSigned(ctx context.Context, id, version, agreementID int64, signedAt, paymentDeadline time.Time) error
}

// AgreementClient интерфейс клиента для AgreementService
type AgreementClient interface {
	CreateSignedAgreement(ctx context.Context, req *agreements.CreateSignedAgreementRequest) (*agreements.SignedAgreement, error)
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

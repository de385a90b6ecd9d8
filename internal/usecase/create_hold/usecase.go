package create_hold

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/m04kA/CTR-HoldService/internal/domain"
	holdRepo "github.com/m04kA/CTR-HoldService/internal/infra/storage/hold"
	pricingClient "github.com/m04kA/CTR-HoldService/internal/integrations/pricing"
	"github.com/m04kA/CTR-HoldService/pkg/metrics"
)

// UseCase use case создания hold: допуск к слоту + фиксация депозита и дедлайна
type UseCase struct {
	holdRepo     HoldRepository
	pricing      PricingClient
	timing       domain.HoldTiming
	timeProvider TimeProvider
	metrics      *metrics.Metrics
	logger       Logger
}

// NewUseCase создает новый экземпляр use case. m может быть nil,
// если метрики отключены
func NewUseCase(
	holdRepo HoldRepository,
	pricing PricingClient,
	timing domain.HoldTiming,
	m *metrics.Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		holdRepo:     holdRepo,
		pricing:      pricing,
		timing:       timing,
		timeProvider: &RealTimeProvider{},
		metrics:      m,
		logger:       logger,
	}
}

// Execute выполняет создание hold.
// Допуск к слоту (не более одного активного hold на ключ) обеспечивает
// условная вставка в репозитории, а не проверка здесь: check-then-insert
// на уровне приложения не был бы race-free.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateHold: station=%d, date=%s, time=%s, guests=%d",
		req.StationID, req.SlotDate.Format(domain.DateFormat), req.SlotTime, req.GuestCount)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateHold: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем сумму депозита из прайсинга и фиксируем её на hold
	quote, err := uc.pricing.GetDepositQuote(ctx, req.StationID, req.SlotDate, req.SlotTime, req.GuestCount)
	if err != nil {
		if errors.Is(err, pricingClient.ErrQuoteNotFound) {
			uc.logger.Warn("CreateHold: station=%d slot not priceable", req.StationID)
			return nil, ErrStationNotFound
		}
		uc.logger.Error("CreateHold: failed to get deposit quote for station=%d: %v", req.StationID, err)
		return nil, fmt.Errorf("%w: %v", ErrPricingUnavailable, err)
	}

	// 4. Собираем hold: публичный токен отдельно от внутреннего ID
	h := &domain.SlotHold{
		Token:              uuid.NewString(),
		StationID:          req.StationID,
		SlotDate:           req.SlotDate,
		SlotTime:           req.SlotTime,
		CustomerName:       req.CustomerName,
		CustomerEmail:      req.CustomerEmail,
		CustomerPhone:      req.CustomerPhone,
		GuestCount:         req.GuestCount,
		Status:             domain.StatusPendingSignature,
		DepositAmountCents: quote.AmountCents,
		SigningDeadlineAt:  now.Add(uc.timing.SigningWindow),
		TokenExpiresAt:     now.Add(uc.timing.TokenTTL),
	}

	// 5. Условная вставка: частичный уникальный индекс - арбитр гонки допуска
	created, err := uc.holdRepo.Create(ctx, h)
	if err != nil {
		if errors.Is(err, holdRepo.ErrSlotTaken) {
			uc.logger.Warn("CreateHold: slot taken, station=%d, date=%s, time=%s",
				req.StationID, req.SlotDate.Format(domain.DateFormat), req.SlotTime)
			return nil, ErrSlotUnavailable
		}
		uc.logger.Error("CreateHold: failed to create hold: %v", err)
		return nil, fmt.Errorf("%w: failed to create hold: %v", ErrInternal, err)
	}

	if uc.metrics != nil {
		uc.metrics.IncHoldCreated(strconv.FormatInt(created.StationID, 10))
	}

	uc.logger.Info("CreateHold: successfully created hold id=%d, signing deadline %s",
		created.ID, created.SigningDeadlineAt.Format("2006-01-02 15:04:05"))

	return &Response{
		ID:                 created.ID,
		Token:              created.Token,
		Version:            created.Version,
		StationID:          created.StationID,
		SlotDate:           created.SlotDate,
		SlotTime:           created.SlotTime,
		Status:             string(created.Status),
		DepositAmountCents: created.DepositAmountCents,
		SigningDeadlineAt:  created.SigningDeadlineAt,
		TokenExpiresAt:     created.TokenExpiresAt,
		CreatedAt:          created.CreatedAt,
	}, nil
}

package sign_agreement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/CTR-HoldService/internal/domain"
	holdRepo "github.com/m04kA/CTR-HoldService/internal/infra/storage/hold"
	"github.com/m04kA/CTR-HoldService/internal/integrations/agreements"
)

// UseCase use case подписания договора: переход PENDING_SIGNATURE -> PENDING_DEPOSIT
type UseCase struct {
	holdRepo     HoldRepository
	agreements   AgreementClient
	timing       domain.HoldTiming
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	holdRepo HoldRepository,
	agreementClient AgreementClient,
	timing domain.HoldTiming,
	logger Logger,
) *UseCase {
	return &UseCase{
		holdRepo:     holdRepo,
		agreements:   agreementClient,
		timing:       timing,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет подписание договора.
// Проверки статуса и дедлайна здесь - только ранний отказ: настоящий арбитр
// гонки с sweeper'ом - условная запись MarkSigned. Проигрыш условной записи
// никогда не превращается в тихий успех: состояние перечитывается и клиенту
// возвращается актуальный результат.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("SignAgreement: token=%s, signer=%s", shortToken(req.Token), req.SignerName)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("SignAgreement: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Резолвим hold по токену
	h, err := uc.holdRepo.GetByToken(ctx, req.Token)
	if err != nil {
		if errors.Is(err, holdRepo.ErrHoldNotFound) {
			uc.logger.Warn("SignAgreement: token not found")
			return nil, ErrTokenInvalid
		}
		uc.logger.Error("SignAgreement: failed to get hold by token: %v", err)
		return nil, fmt.Errorf("%w: failed to get hold: %v", ErrInternal, err)
	}

	if h.IsTokenExpired(now) {
		uc.logger.Warn("SignAgreement: token expired for hold id=%d", h.ID)
		return nil, ErrTokenExpired
	}

	// 4. Ранние проверки статуса и дедлайна
	if err := checkSignable(h, now); err != nil {
		uc.logger.Warn("SignAgreement: hold id=%d not signable: %v", h.ID, err)
		return nil, err
	}

	// 5. Согласие проверяется после токена и состояния: по ответу
	// нельзя определить статус hold'а, не предъявив валидный токен
	if !req.ConsentChecked {
		uc.logger.Warn("SignAgreement: consent not checked for hold id=%d", h.ID)
		return nil, ErrConsentRequired
	}

	// 6. Сохраняем подписанный договор во внешнем сервисе
	agreement, err := uc.agreements.CreateSignedAgreement(ctx, &agreements.CreateSignedAgreementRequest{
		HoldID:        h.ID,
		SignerName:    req.SignerName,
		SignerEmail:   req.SignerEmail,
		SignatureData: req.SignatureData,
		SignedAt:      now,
	})
	if err != nil {
		uc.logger.Error("SignAgreement: failed to store signed agreement for hold id=%d: %v", h.ID, err)
		return nil, fmt.Errorf("%w: failed to store signed agreement: %v", ErrInternal, err)
	}

	// 7. Условная запись: подпись, дедлайн оплаты и смена статуса одним UPDATE
	paymentDeadline := now.Add(uc.timing.PaymentWindow)

	err = uc.holdRepo.MarkSigned(ctx, h.ID, h.Version, agreement.ID, now, paymentDeadline)
	if errors.Is(err, holdRepo.ErrHoldConflict) {
		// Конкурентная запись успела первой. Перечитываем и, если подписание
		// всё ещё допустимо (version мог сдвинуть штамп предупреждения),
		// повторяем условную запись ровно один раз.
		fresh, rerr := uc.holdRepo.GetByID(ctx, h.ID)
		if rerr != nil {
			uc.logger.Error("SignAgreement: failed to re-read hold id=%d: %v", h.ID, rerr)
			return nil, fmt.Errorf("%w: failed to re-read hold: %v", ErrInternal, rerr)
		}

		if serr := checkSignable(fresh, now); serr != nil {
			uc.logger.Warn("SignAgreement: lost race for hold id=%d, actual status=%s", h.ID, fresh.Status)
			return nil, serr
		}

		err = uc.holdRepo.MarkSigned(ctx, fresh.ID, fresh.Version, agreement.ID, now, paymentDeadline)
		if errors.Is(err, holdRepo.ErrHoldConflict) {
			return nil, uc.surfaceLostRace(ctx, fresh.ID, now)
		}
	}
	if err != nil {
		uc.logger.Error("SignAgreement: failed to mark hold id=%d signed: %v", h.ID, err)
		return nil, fmt.Errorf("%w: failed to mark signed: %v", ErrInternal, err)
	}

	uc.logger.Info("SignAgreement: hold id=%d signed, agreement id=%d, payment deadline %s",
		h.ID, agreement.ID, paymentDeadline.Format("2006-01-02 15:04:05"))

	return &Response{
		HoldID:             h.ID,
		Status:             string(domain.StatusPendingDeposit),
		SignedAgreementID:  agreement.ID,
		AgreementSignedAt:  now,
		PaymentDeadlineAt:  paymentDeadline,
		DepositAmountCents: h.DepositAmountCents,
	}, nil
}

// surfaceLostRace перечитывает hold после повторно проигранной условной записи
// и возвращает ошибку, отражающую его актуальное состояние
func (uc *UseCase) surfaceLostRace(ctx context.Context, id int64, now time.Time) error {
	fresh, err := uc.holdRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: failed to re-read hold: %v", ErrInternal, err)
	}

	uc.logger.Warn("SignAgreement: lost race for hold id=%d, actual status=%s", id, fresh.Status)

	if serr := checkSignable(fresh, now); serr != nil {
		return serr
	}

	return fmt.Errorf("%w: concurrent updates on hold id=%d", ErrInternal, id)
}

// shortToken обрезает токен для логов
func shortToken(token string) string {
	if len(token) <= 8 {
		return token
	}
	return token[:8] + "..."
}

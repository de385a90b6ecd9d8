package record_deposit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/CTR-HoldService/internal/domain"
	bookingRepo "github.com/m04kA/CTR-HoldService/internal/infra/storage/booking"
	holdRepo "github.com/m04kA/CTR-HoldService/internal/infra/storage/hold"
	"github.com/m04kA/CTR-HoldService/internal/integrations/notifier"
	"github.com/m04kA/CTR-HoldService/pkg/metrics"
)

// UseCase use case фиксации депозита: переход PENDING_DEPOSIT -> COMPLETED
// и атомарная конвертация hold'а в бронирование
type UseCase struct {
	holdRepo     HoldRepository
	bookingRepo  BookingRepository
	txManager    TransactionManager
	notifier     NotifierClient
	timeProvider TimeProvider
	metrics      *metrics.Metrics
	logger       Logger
}

// NewUseCase создает новый экземпляр use case. m может быть nil,
// если метрики отключены
func NewUseCase(
	holdRepository HoldRepository,
	bookingRepository BookingRepository,
	txManager TransactionManager,
	notifierClient NotifierClient,
	m *metrics.Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		holdRepo:     holdRepository,
		bookingRepo:  bookingRepository,
		txManager:    txManager,
		notifier:     notifierClient,
		timeProvider: &RealTimeProvider{},
		metrics:      m,
		logger:       logger,
	}
}

// Execute выполняет фиксацию депозита.
// Вставка бронирования и условный переход hold'а в COMPLETED выполняются в одной
// сериализуемой транзакции: крах между ними не может оставить COMPLETED hold без
// бронирования или бронирование при нетерминальном hold'е.
// Повторный вызов с тем же paymentReference возвращает прежний результат
// (защита от ретраев клиента и дубликатов webhook).
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RecordDeposit: token=%s, method=%s, amount=%d",
		shortToken(req.Token), req.PaymentMethod, req.AmountCents)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RecordDeposit: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Резолвим hold по токену
	h, err := uc.holdRepo.GetByToken(ctx, req.Token)
	if err != nil {
		if errors.Is(err, holdRepo.ErrHoldNotFound) {
			uc.logger.Warn("RecordDeposit: token not found")
			return nil, ErrTokenInvalid
		}
		uc.logger.Error("RecordDeposit: failed to get hold by token: %v", err)
		return nil, fmt.Errorf("%w: failed to get hold: %v", ErrInternal, err)
	}

	if h.IsTokenExpired(now) {
		uc.logger.Warn("RecordDeposit: token expired for hold id=%d", h.ID)
		return nil, ErrTokenExpired
	}

	// 4. Идемпотентность: платёж с этим reference уже записан - возвращаем
	// прежний результат, а не ошибку
	if resp, ok := uc.priorResult(h, req); ok {
		uc.logger.Info("RecordDeposit: duplicate reference for hold id=%d, returning prior result", h.ID)
		return resp, nil
	}

	// 5. Ранние проверки статуса, дедлайна и суммы
	if err := checkPayable(h, now); err != nil {
		uc.logger.Warn("RecordDeposit: hold id=%d not payable: %v", h.ID, err)
		return nil, err
	}

	if req.AmountCents != h.DepositAmountCents {
		uc.logger.Warn("RecordDeposit: amount mismatch for hold id=%d: got %d, required %d",
			h.ID, req.AmountCents, h.DepositAmountCents)
		return nil, fmt.Errorf("%w: required %d cents", ErrAmountMismatch, h.DepositAmountCents)
	}

	// 6. Конвертация: одна транзакция на вставку бронирования и условный переход
	resp, err := uc.complete(ctx, h, req, now)
	if err != nil {
		if errors.Is(err, holdRepo.ErrHoldConflict) || errors.Is(err, bookingRepo.ErrHoldAlreadyConverted) {
			// Проиграли гонку. Перечитываем и либо возвращаем прежний
			// результат (дубликат), либо повторяем конвертацию один раз,
			// либо актуальную ошибку состояния.
			return uc.resolveConflict(ctx, h.ID, req, now)
		}
		return nil, err
	}

	return resp, nil
}

// complete выполняет конвертацию и собирает результат фиксации депозита.
// Конфликт условной записи возвращается как есть, решение принимает вызывающий
func (uc *UseCase) complete(ctx context.Context, h *domain.SlotHold, req *Request, now time.Time) (*Response, error) {
	booking, err := uc.convert(ctx, h, req, now)
	if err != nil {
		if errors.Is(err, holdRepo.ErrHoldConflict) || errors.Is(err, bookingRepo.ErrHoldAlreadyConverted) {
			return nil, err
		}
		uc.logger.Error("RecordDeposit: conversion failed for hold id=%d: %v", h.ID, err)
		return nil, fmt.Errorf("%w: conversion failed: %v", ErrInternal, err)
	}

	// Уведомление о завершении: best-effort, переход уже зафиксирован
	if err := uc.notifier.Notify(ctx, h.ID, notifier.EventHoldCompleted); err != nil {
		uc.logger.Error("RecordDeposit: failed to notify completion for hold id=%d: %v", h.ID, err)
	}

	if uc.metrics != nil {
		uc.metrics.IncHoldCompleted(req.PaymentMethod)
	}

	uc.logger.Info("RecordDeposit: hold id=%d completed, booking id=%d", h.ID, booking.ID)

	return &Response{
		HoldID:           h.ID,
		BookingID:        booking.ID,
		Status:           string(domain.StatusCompleted),
		DepositPaidAt:    now,
		PaymentMethod:    req.PaymentMethod,
		PaymentReference: req.PaymentReference,
		AmountCents:      req.AmountCents,
	}, nil
}

// convert вставляет бронирование и переводит hold в COMPLETED одной транзакцией.
// booking_id пишется обратно на hold в той же транзакции.
func (uc *UseCase) convert(ctx context.Context, h *domain.SlotHold, req *Request, now time.Time) (*domain.Booking, error) {
	var booking *domain.Booking

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		created, err := uc.bookingRepo.Create(txCtx, &domain.Booking{
			HoldID:                  h.ID,
			StationID:               h.StationID,
			SlotDate:                h.SlotDate,
			SlotTime:                h.SlotTime,
			CustomerName:            h.CustomerName,
			CustomerEmail:           h.CustomerEmail,
			CustomerPhone:           h.CustomerPhone,
			GuestCount:              h.GuestCount,
			DepositAmountCents:      h.DepositAmountCents,
			DepositPaymentMethod:    req.PaymentMethod,
			DepositPaymentReference: req.PaymentReference,
			Status:                  domain.BookingStatusConfirmed,
		})
		if err != nil {
			return err
		}

		if err := uc.holdRepo.MarkCompleted(txCtx, h.ID, h.Version, now, req.PaymentMethod, req.PaymentReference, created.ID); err != nil {
			// Откат удаляет и вставленное бронирование
			return err
		}

		booking = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	return booking, nil
}

// resolveConflict перечитывает hold после проигранной условной записи.
// Если hold всё ещё оплачиваем (version мог сдвинуть штамп предупреждения),
// конвертация повторяется ровно один раз со свежей версией
func (uc *UseCase) resolveConflict(ctx context.Context, id int64, req *Request, now time.Time) (*Response, error) {
	fresh, err := uc.holdRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to re-read hold: %v", ErrInternal, err)
	}

	if resp, ok := uc.priorResult(fresh, req); ok {
		uc.logger.Info("RecordDeposit: duplicate reference for hold id=%d after race, returning prior result", id)
		return resp, nil
	}

	if err := checkPayable(fresh, now); err != nil {
		uc.logger.Warn("RecordDeposit: lost race for hold id=%d, actual status=%s", id, fresh.Status)
		return nil, err
	}

	resp, err := uc.complete(ctx, fresh, req, now)
	if err != nil {
		if errors.Is(err, holdRepo.ErrHoldConflict) || errors.Is(err, bookingRepo.ErrHoldAlreadyConverted) {
			return uc.surfaceLostRace(ctx, id, req, now)
		}
		return nil, err
	}

	return resp, nil
}

// surfaceLostRace перечитывает hold после повторно проигранной условной записи
// и возвращает результат, отражающий его актуальное состояние
func (uc *UseCase) surfaceLostRace(ctx context.Context, id int64, req *Request, now time.Time) (*Response, error) {
	fresh, err := uc.holdRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to re-read hold: %v", ErrInternal, err)
	}

	if resp, ok := uc.priorResult(fresh, req); ok {
		uc.logger.Info("RecordDeposit: duplicate reference for hold id=%d after race, returning prior result", id)
		return resp, nil
	}

	uc.logger.Warn("RecordDeposit: lost race for hold id=%d, actual status=%s", id, fresh.Status)

	if err := checkPayable(fresh, now); err != nil {
		return nil, err
	}

	return nil, fmt.Errorf("%w: concurrent updates on hold id=%d", ErrInternal, id)
}

// priorResult возвращает прежний успешный результат, если hold уже COMPLETED
// с тем же платёжным reference
func (uc *UseCase) priorResult(h *domain.SlotHold, req *Request) (*Response, bool) {
	if h.Status != domain.StatusCompleted {
		return nil, false
	}
	if h.DepositPaymentReference == nil || *h.DepositPaymentReference != req.PaymentReference {
		return nil, false
	}
	if h.BookingID == nil || h.DepositPaidAt == nil {
		return nil, false
	}

	method := req.PaymentMethod
	if h.DepositPaymentMethod != nil {
		method = *h.DepositPaymentMethod
	}

	return &Response{
		HoldID:           h.ID,
		BookingID:        *h.BookingID,
		Status:           string(h.Status),
		DepositPaidAt:    *h.DepositPaidAt,
		PaymentMethod:    method,
		PaymentReference: *h.DepositPaymentReference,
		AmountCents:      h.DepositAmountCents,
		AlreadyRecorded:  true,
	}, true
}

// shortToken обрезает токен для логов
func shortToken(token string) string {
	if len(token) <= 8 {
		return token
	}
	return token[:8] + "..."
}

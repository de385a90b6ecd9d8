package sweeper

import (
	"context"
	"errors"
	"time"

	"github.com/m04kA/CTR-HoldService/internal/domain"
	holdRepo "github.com/m04kA/CTR-HoldService/internal/infra/storage/hold"
	"github.com/m04kA/CTR-HoldService/internal/integrations/notifier"
	"github.com/m04kA/CTR-HoldService/pkg/metrics"
)

const (
	phaseSigning = "signing"
	phasePayment = "payment"
)

// Sweeper периодически обрабатывает дедлайны hold'ов: отправляет
// предупреждения за warningLead до дедлайна и переводит просроченные
// hold'ы в EXPIRED. Каждая запись условная (проверка версии), поэтому
// несколько инстансов сервиса могут выполнять sweep одновременно -
// каждый hold обработает ровно один из них.
type Sweeper struct {
	holdRepo     HoldRepository
	notifier     NotifierClient
	timing       domain.HoldTiming
	interval     time.Duration
	batchSize    uint64
	timeProvider TimeProvider
	metrics      *metrics.Metrics
	logger       Logger
}

// New создает новый экземпляр sweeper'а. metrics может быть nil,
// если сбор метрик отключён в конфигурации.
func New(
	holdRepo HoldRepository,
	notifier NotifierClient,
	timing domain.HoldTiming,
	interval time.Duration,
	batchSize uint64,
	timeProvider TimeProvider,
	m *metrics.Metrics,
	logger Logger,
) *Sweeper {
	return &Sweeper{
		holdRepo:     holdRepo,
		notifier:     notifier,
		timing:       timing,
		interval:     interval,
		batchSize:    batchSize,
		timeProvider: timeProvider,
		metrics:      m,
		logger:       logger,
	}
}

// Run запускает цикл sweeper'а и блокируется до отмены контекста.
// Первый tick выполняется сразу, не дожидаясь интервала.
func (s *Sweeper) Run(ctx context.Context) {
	s.logger.Info("sweeper: starting, interval=%s, batch_size=%d", s.interval, s.batchSize)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("sweeper: stopping: %v", ctx.Err())
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// tick выполняет один проход по всем четырём очередям.
// Порядок важен: сначала просрочки, потом предупреждения, чтобы hold,
// чей дедлайн прошёл между запросами, не получил предупреждение
// после истечения.
func (s *Sweeper) tick(ctx context.Context) {
	now := s.timeProvider.Now()

	failed := 0
	failed += s.expireSigning(ctx, now)
	failed += s.expirePayment(ctx, now)
	failed += s.warnSigning(ctx, now)
	failed += s.warnPayment(ctx, now)

	if s.metrics != nil {
		result := "ok"
		if failed > 0 {
			result = "error"
		}
		s.metrics.IncSweeperTick(result)
	}
}

func (s *Sweeper) expireSigning(ctx context.Context, now time.Time) int {
	due, err := s.holdRepo.FindSigningOverdue(ctx, now, s.batchSize)
	if err != nil {
		s.logger.Error("sweeper: failed to find signing overdue holds: %v", err)
		s.incError(phaseSigning)
		return 1
	}

	failed := 0
	for _, h := range due {
		err := s.holdRepo.MarkExpired(ctx, h.ID, h.Version, domain.StatusPendingSignature, domain.ReasonSigningTimeout, now)
		if errors.Is(err, holdRepo.ErrHoldConflict) {
			// Конкурирующая запись успела первой (подпись, отмена или
			// другой инстанс sweeper'а) - hold больше не наш
			continue
		}
		if err != nil {
			s.logger.Error("sweeper: failed to expire hold id=%d (signing): %v", h.ID, err)
			s.incError(phaseSigning)
			failed++
			continue
		}

		s.logger.Info("sweeper: hold id=%d expired, signing deadline passed", h.ID)
		if s.metrics != nil {
			s.metrics.IncHoldExpired(phaseSigning)
		}
		s.notify(ctx, h.ID, notifier.EventSigningExpired)
	}
	return failed
}

func (s *Sweeper) expirePayment(ctx context.Context, now time.Time) int {
	due, err := s.holdRepo.FindPaymentOverdue(ctx, now, s.batchSize)
	if err != nil {
		s.logger.Error("sweeper: failed to find payment overdue holds: %v", err)
		s.incError(phasePayment)
		return 1
	}

	failed := 0
	for _, h := range due {
		err := s.holdRepo.MarkExpired(ctx, h.ID, h.Version, domain.StatusPendingDeposit, domain.ReasonPaymentTimeout, now)
		if errors.Is(err, holdRepo.ErrHoldConflict) {
			continue
		}
		if err != nil {
			s.logger.Error("sweeper: failed to expire hold id=%d (payment): %v", h.ID, err)
			s.incError(phasePayment)
			failed++
			continue
		}

		s.logger.Info("sweeper: hold id=%d expired, payment deadline passed", h.ID)
		if s.metrics != nil {
			s.metrics.IncHoldExpired(phasePayment)
		}
		s.notify(ctx, h.ID, notifier.EventPaymentExpired)
	}
	return failed
}

func (s *Sweeper) warnSigning(ctx context.Context, now time.Time) int {
	due, err := s.holdRepo.FindSigningWarningsDue(ctx, now, s.timing.WarningLead, s.batchSize)
	if err != nil {
		s.logger.Error("sweeper: failed to find signing warnings due: %v", err)
		s.incError(phaseSigning)
		return 1
	}

	failed := 0
	for _, h := range due {
		// Штамп до отправки: выигравший условную запись инстанс
		// отправляет уведомление, проигравший молча пропускает hold
		err := s.holdRepo.StampSigningWarning(ctx, h.ID, h.Version, now)
		if errors.Is(err, holdRepo.ErrHoldConflict) {
			continue
		}
		if err != nil {
			s.logger.Error("sweeper: failed to stamp signing warning for hold id=%d: %v", h.ID, err)
			s.incError(phaseSigning)
			failed++
			continue
		}

		s.logger.Info("sweeper: signing warning sent for hold id=%d", h.ID)
		if s.metrics != nil {
			s.metrics.IncHoldWarning(phaseSigning)
		}
		s.notify(ctx, h.ID, notifier.EventSigningWarning)
	}
	return failed
}

func (s *Sweeper) warnPayment(ctx context.Context, now time.Time) int {
	due, err := s.holdRepo.FindPaymentWarningsDue(ctx, now, s.timing.WarningLead, s.batchSize)
	if err != nil {
		s.logger.Error("sweeper: failed to find payment warnings due: %v", err)
		s.incError(phasePayment)
		return 1
	}

	failed := 0
	for _, h := range due {
		err := s.holdRepo.StampPaymentWarning(ctx, h.ID, h.Version, now)
		if errors.Is(err, holdRepo.ErrHoldConflict) {
			continue
		}
		if err != nil {
			s.logger.Error("sweeper: failed to stamp payment warning for hold id=%d: %v", h.ID, err)
			s.incError(phasePayment)
			failed++
			continue
		}

		s.logger.Info("sweeper: payment warning sent for hold id=%d", h.ID)
		if s.metrics != nil {
			s.metrics.IncHoldWarning(phasePayment)
		}
		s.notify(ctx, h.ID, notifier.EventPaymentWarning)
	}
	return failed
}

func (s *Sweeper) notify(ctx context.Context, holdID int64, eventType notifier.EventType) {
	if err := s.notifier.Notify(ctx, holdID, eventType); err != nil {
		// Уведомления best-effort, переход статуса уже зафиксирован
		s.logger.Warn("sweeper: notification %s failed for hold id=%d: %v", eventType, holdID, err)
	}
}

func (s *Sweeper) incError(phase string) {
	if s.metrics != nil {
		s.metrics.IncSweeperError(phase)
	}
}

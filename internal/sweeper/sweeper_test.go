package sweeper

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/CTR-HoldService/internal/domain"
	holdRepo "github.com/m04kA/CTR-HoldService/internal/infra/storage/hold"
	"github.com/m04kA/CTR-HoldService/internal/integrations/notifier"
	"github.com/m04kA/CTR-HoldService/pkg/ptr"
)

type expiredCall struct {
	id      int64
	version int64
	from    domain.HoldStatus
	reason  string
}

type stampCall struct {
	id      int64
	version int64
}

type fakeHoldRepo struct {
	signingWarningsDue []*domain.SlotHold
	paymentWarningsDue []*domain.SlotHold
	signingOverdue     []*domain.SlotHold
	paymentOverdue     []*domain.SlotHold

	expireErrs map[int64]error
	stampErrs  map[int64]error

	expired       []expiredCall
	signingStamps []stampCall
	paymentStamps []stampCall
}

func (f *fakeHoldRepo) FindSigningWarningsDue(_ context.Context, _ time.Time, _ time.Duration, _ uint64) ([]*domain.SlotHold, error) {
	return f.signingWarningsDue, nil
}

func (f *fakeHoldRepo) FindPaymentWarningsDue(_ context.Context, _ time.Time, _ time.Duration, _ uint64) ([]*domain.SlotHold, error) {
	return f.paymentWarningsDue, nil
}

func (f *fakeHoldRepo) FindSigningOverdue(_ context.Context, _ time.Time, _ uint64) ([]*domain.SlotHold, error) {
	return f.signingOverdue, nil
}

func (f *fakeHoldRepo) FindPaymentOverdue(_ context.Context, _ time.Time, _ uint64) ([]*domain.SlotHold, error) {
	return f.paymentOverdue, nil
}

func (f *fakeHoldRepo) StampSigningWarning(_ context.Context, id, version int64, _ time.Time) error {
	if err := f.stampErrs[id]; err != nil {
		return err
	}
	f.signingStamps = append(f.signingStamps, stampCall{id: id, version: version})
	return nil
}

func (f *fakeHoldRepo) StampPaymentWarning(_ context.Context, id, version int64, _ time.Time) error {
	if err := f.stampErrs[id]; err != nil {
		return err
	}
	f.paymentStamps = append(f.paymentStamps, stampCall{id: id, version: version})
	return nil
}

func (f *fakeHoldRepo) MarkExpired(_ context.Context, id, version int64, from domain.HoldStatus, reason string, _ time.Time) error {
	if err := f.expireErrs[id]; err != nil {
		return err
	}
	f.expired = append(f.expired, expiredCall{id: id, version: version, from: from, reason: reason})
	return nil
}

type notifyCall struct {
	holdID    int64
	eventType notifier.EventType
}

type fakeNotifier struct {
	calls []notifyCall
}

func (f *fakeNotifier) Notify(_ context.Context, holdID int64, eventType notifier.EventType) error {
	f.calls = append(f.calls, notifyCall{holdID: holdID, eventType: eventType})
	return nil
}

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func newTestSweeper(repo *fakeHoldRepo, n *fakeNotifier) *Sweeper {
	return New(repo, n, domain.DefaultHoldTiming(), time.Minute, 100, &fixedClock{now: testNow}, nil, nopLogger{})
}

func signingHold(id, version int64) *domain.SlotHold {
	return &domain.SlotHold{
		ID:                id,
		Version:           version,
		Status:            domain.StatusPendingSignature,
		SigningDeadlineAt: testNow.Add(30 * time.Minute),
	}
}

func paymentHold(id, version int64) *domain.SlotHold {
	return &domain.SlotHold{
		ID:                id,
		Version:           version,
		Status:            domain.StatusPendingDeposit,
		PaymentDeadlineAt: ptr.Ptr(testNow.Add(30 * time.Minute)),
	}
}

func TestTick_ExpiresOverdueHolds(t *testing.T) {
	repo := &fakeHoldRepo{
		signingOverdue: []*domain.SlotHold{signingHold(1, 1)},
		paymentOverdue: []*domain.SlotHold{paymentHold(2, 3)},
	}
	n := &fakeNotifier{}
	s := newTestSweeper(repo, n)

	s.tick(context.Background())

	require.Len(t, repo.expired, 2)
	assert.Equal(t, expiredCall{id: 1, version: 1, from: domain.StatusPendingSignature, reason: domain.ReasonSigningTimeout}, repo.expired[0])
	assert.Equal(t, expiredCall{id: 2, version: 3, from: domain.StatusPendingDeposit, reason: domain.ReasonPaymentTimeout}, repo.expired[1])

	assert.Equal(t, []notifyCall{
		{holdID: 1, eventType: notifier.EventSigningExpired},
		{holdID: 2, eventType: notifier.EventPaymentExpired},
	}, n.calls)
}

func TestTick_SendsWarnings(t *testing.T) {
	repo := &fakeHoldRepo{
		signingWarningsDue: []*domain.SlotHold{signingHold(1, 1)},
		paymentWarningsDue: []*domain.SlotHold{paymentHold(2, 2)},
	}
	n := &fakeNotifier{}
	s := newTestSweeper(repo, n)

	s.tick(context.Background())

	// Штамп выполняется до отправки уведомления
	require.Len(t, repo.signingStamps, 1)
	assert.Equal(t, stampCall{id: 1, version: 1}, repo.signingStamps[0])
	require.Len(t, repo.paymentStamps, 1)
	assert.Equal(t, stampCall{id: 2, version: 2}, repo.paymentStamps[0])

	assert.Equal(t, []notifyCall{
		{holdID: 1, eventType: notifier.EventSigningWarning},
		{holdID: 2, eventType: notifier.EventPaymentWarning},
	}, n.calls)
}

func TestTick_ConflictMeansAnotherWriterWon(t *testing.T) {
	// Проигрыш условной записи - не ошибка: hold уже обработан конкурентом
	// (другим инстансом sweeper'а, подписанием или отменой)
	repo := &fakeHoldRepo{
		signingOverdue:     []*domain.SlotHold{signingHold(1, 1)},
		signingWarningsDue: []*domain.SlotHold{signingHold(2, 1)},
		expireErrs:         map[int64]error{1: holdRepo.ErrHoldConflict},
		stampErrs:          map[int64]error{2: holdRepo.ErrHoldConflict},
	}
	n := &fakeNotifier{}
	s := newTestSweeper(repo, n)

	s.tick(context.Background())

	// Ни переходов, ни уведомлений: выигравший конкурент уведомит сам
	assert.Empty(t, repo.expired)
	assert.Empty(t, repo.signingStamps)
	assert.Empty(t, n.calls)
}

func TestTick_ErrorOnOneHoldDoesNotStopOthers(t *testing.T) {
	repo := &fakeHoldRepo{
		signingOverdue: []*domain.SlotHold{signingHold(1, 1), signingHold(2, 1)},
		expireErrs:     map[int64]error{1: assert.AnError},
	}
	n := &fakeNotifier{}
	s := newTestSweeper(repo, n)

	s.tick(context.Background())

	require.Len(t, repo.expired, 1)
	assert.Equal(t, int64(2), repo.expired[0].id)
	assert.Equal(t, []notifyCall{{holdID: 2, eventType: notifier.EventSigningExpired}}, n.calls)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	repo := &fakeHoldRepo{}
	s := newTestSweeper(repo, &fakeNotifier{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not stop after context cancellation")
	}
}

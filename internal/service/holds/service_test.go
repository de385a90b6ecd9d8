package holds

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/CTR-HoldService/internal/domain"
	holdRepo "github.com/m04kA/CTR-HoldService/internal/infra/storage/hold"
	"github.com/m04kA/CTR-HoldService/internal/integrations/notifier"
	"github.com/m04kA/CTR-HoldService/internal/service/holds/models"
	"github.com/m04kA/CTR-HoldService/pkg/metrics"
	"github.com/m04kA/CTR-HoldService/pkg/ptr"
)

type fakeHoldRepo struct {
	holds      map[string]*domain.SlotHold
	byID       map[int64]*domain.SlotHold
	filtered   []*domain.SlotHold
	lastFilter domain.StationHoldsFilter
	cancelErrs []error
	cancels    int
	lastCancel struct {
		version int64
		from    domain.HoldStatus
		reason  string
	}
}

func newFakeHoldRepo(hs ...*domain.SlotHold) *fakeHoldRepo {
	f := &fakeHoldRepo{
		holds: make(map[string]*domain.SlotHold),
		byID:  make(map[int64]*domain.SlotHold),
	}
	for _, h := range hs {
		f.holds[h.Token] = h
		f.byID[h.ID] = h
	}
	return f
}

func (f *fakeHoldRepo) GetByToken(_ context.Context, token string) (*domain.SlotHold, error) {
	h, ok := f.holds[token]
	if !ok {
		return nil, holdRepo.ErrHoldNotFound
	}
	out := *h
	return &out, nil
}

func (f *fakeHoldRepo) GetByID(_ context.Context, id int64) (*domain.SlotHold, error) {
	h, ok := f.byID[id]
	if !ok {
		return nil, holdRepo.ErrHoldNotFound
	}
	out := *h
	return &out, nil
}

func (f *fakeHoldRepo) GetByStationWithFilter(_ context.Context, filter domain.StationHoldsFilter) ([]*domain.SlotHold, error) {
	f.lastFilter = filter
	return f.filtered, nil
}

func (f *fakeHoldRepo) MarkCancelled(_ context.Context, id, version int64, from domain.HoldStatus, reason string, now time.Time) error {
	f.cancels++
	if len(f.cancelErrs) > 0 {
		err := f.cancelErrs[0]
		f.cancelErrs = f.cancelErrs[1:]
		if err != nil {
			return err
		}
	}
	h := f.byID[id]
	h.Status = domain.StatusCancelled
	h.Version = version + 1
	h.CancellationReason = &reason
	f.lastCancel.version = version
	f.lastCancel.from = from
	f.lastCancel.reason = reason
	return nil
}

type fakeNotifier struct {
	events []notifier.EventType
}

func (f *fakeNotifier) Notify(_ context.Context, _ int64, eventType notifier.EventType) error {
	f.events = append(f.events, eventType)
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

var testNow = time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

func pendingSignatureHold() *domain.SlotHold {
	return &domain.SlotHold{
		ID:                 10,
		Token:              "tok-view",
		Version:            1,
		StationID:          7,
		SlotDate:           time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		SlotTime:           "18:00",
		CustomerName:       "Anna Petrova",
		CustomerEmail:      "anna@example.com",
		GuestCount:         40,
		Status:             domain.StatusPendingSignature,
		DepositAmountCents: 50000,
		SigningDeadlineAt:  testNow.Add(domain.DefaultSigningWindow),
		TokenExpiresAt:     testNow.Add(domain.DefaultTokenTTL),
		CreatedAt:          testNow,
		UpdatedAt:          testNow,
	}
}

func newTestService(repo *fakeHoldRepo, n *fakeNotifier, now time.Time) *Service {
	return NewService(repo, n, domain.DefaultHoldTiming(), &fixedClock{now: now}, nil, nopLogger{})
}

func TestGetByToken_Projection(t *testing.T) {
	repo := newFakeHoldRepo(pendingSignatureHold())
	svc := newTestService(repo, &fakeNotifier{}, testNow)

	view, err := svc.GetByToken(context.Background(), "tok-view")
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusPendingSignature), view.Status)
	assert.Equal(t, models.AgreementStatusPending, view.AgreementStatus)
	assert.Equal(t, models.DepositStatusAwaitingSignature, view.DepositStatus)
	assert.Equal(t, "2026-09-12", view.SlotDate)
	assert.Equal(t, "18:00", view.SlotTime)

	// Производные поля вычислены на момент запроса
	assert.True(t, view.CanSign)
	assert.False(t, view.CanPay)
	assert.False(t, view.IsSigningWarningPeriod)
	assert.Equal(t, int64(domain.DefaultSigningWindow/time.Second), view.SecondsUntilSigningDeadline)
}

func TestGetByToken_WarningPeriodProjection(t *testing.T) {
	h := pendingSignatureHold()
	repo := newFakeHoldRepo(h)
	svc := newTestService(repo, &fakeNotifier{}, h.SigningDeadlineAt.Add(-30*time.Minute))

	view, err := svc.GetByToken(context.Background(), "tok-view")
	require.NoError(t, err)

	assert.True(t, view.IsSigningWarningPeriod)
	assert.True(t, view.CanSign)
	assert.Equal(t, int64(1800), view.SecondsUntilSigningDeadline)
}

func TestGetByToken_TerminalHoldStillResolvable(t *testing.T) {
	h := pendingSignatureHold()
	h.Status = domain.StatusExpired
	h.CancellationReason = ptr.Ptr(domain.ReasonSigningTimeout)
	repo := newFakeHoldRepo(h)
	svc := newTestService(repo, &fakeNotifier{}, testNow)

	view, err := svc.GetByToken(context.Background(), "tok-view")
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusExpired), view.Status)
	assert.Equal(t, models.AgreementStatusLapsed, view.AgreementStatus)
	assert.Equal(t, models.DepositStatusLapsed, view.DepositStatus)
	assert.False(t, view.CanSign)
	assert.False(t, view.CanPay)
	require.NotNil(t, view.CancellationReason)
	assert.Equal(t, domain.ReasonSigningTimeout, *view.CancellationReason)
	assert.Equal(t, int64(0), view.SecondsUntilSigningDeadline)
}

func TestGetByToken_NotFound(t *testing.T) {
	svc := newTestService(newFakeHoldRepo(), &fakeNotifier{}, testNow)

	_, err := svc.GetByToken(context.Background(), "no-such-token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestCancelByToken(t *testing.T) {
	repo := newFakeHoldRepo(pendingSignatureHold())
	n := &fakeNotifier{}
	svc := newTestService(repo, n, testNow)

	view, err := svc.CancelByToken(context.Background(), "tok-view")
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusCancelled), view.Status)
	assert.Equal(t, domain.ReasonCustomerRequest, repo.lastCancel.reason)
	assert.Equal(t, domain.StatusPendingSignature, repo.lastCancel.from)
	assert.Equal(t, []notifier.EventType{notifier.EventHoldCancelled}, n.events)
}

func TestCancelByID_AdminReason(t *testing.T) {
	repo := newFakeHoldRepo(pendingSignatureHold())
	svc := newTestService(repo, &fakeNotifier{}, testNow)

	view, err := svc.CancelByID(context.Background(), 10)
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusCancelled), view.Status)
	assert.Equal(t, domain.ReasonAdminRequest, repo.lastCancel.reason)
}

func TestCancel_TerminalHoldRejected(t *testing.T) {
	h := pendingSignatureHold()
	h.Status = domain.StatusCompleted
	repo := newFakeHoldRepo(h)
	n := &fakeNotifier{}
	svc := newTestService(repo, n, testNow)

	_, err := svc.CancelByToken(context.Background(), "tok-view")
	assert.ErrorIs(t, err, ErrWrongState)
	assert.Zero(t, repo.cancels)
	assert.Empty(t, n.events)
}

func TestCancel_ConflictRetriesWithFreshVersion(t *testing.T) {
	// Штамп предупреждения сдвинул version между чтением и записью:
	// hold всё ещё активен, отмена повторяется со свежей версией
	h := pendingSignatureHold()
	repo := newFakeHoldRepo(h)
	repo.cancelErrs = []error{holdRepo.ErrHoldConflict}

	stamped := *h
	stamped.Version = 2
	repo.byID[h.ID] = &stamped
	repo.holds[h.Token] = &stamped

	svc := newTestService(repo, &fakeNotifier{}, testNow)

	view, err := svc.CancelByToken(context.Background(), "tok-view")
	require.NoError(t, err)

	assert.Equal(t, 2, repo.cancels)
	assert.Equal(t, int64(2), repo.lastCancel.version)
	assert.Equal(t, string(domain.StatusCancelled), view.Status)
}

func TestCancel_ConflictSurfacesTerminalState(t *testing.T) {
	// Hold успел завершиться конкурентно: отмена не воскрешает его
	h := pendingSignatureHold()
	repo := newFakeHoldRepo(h)
	repo.cancelErrs = []error{holdRepo.ErrHoldConflict}

	completed := *h
	completed.Version = 2
	completed.Status = domain.StatusCompleted
	repo.byID[h.ID] = &completed

	svc := newTestService(repo, &fakeNotifier{}, testNow)

	_, err := svc.CancelByToken(context.Background(), "tok-view")
	assert.ErrorIs(t, err, ErrWrongState)
	assert.Equal(t, 1, repo.cancels)
}

func TestGetStationHolds(t *testing.T) {
	repo := newFakeHoldRepo()
	repo.filtered = []*domain.SlotHold{pendingSignatureHold()}
	svc := newTestService(repo, &fakeNotifier{}, testNow)

	startDate := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	resp, err := svc.GetStationHolds(context.Background(), &models.StationHoldsRequest{
		StationID:       7,
		StartDate:       &startDate,
		Status:          ptr.Ptr(string(domain.StatusPendingSignature)),
		IncludeTerminal: true,
	})
	require.NoError(t, err)

	require.Len(t, resp.Holds, 1)
	assert.Equal(t, int64(7), repo.lastFilter.StationID)
	require.NotNil(t, repo.lastFilter.Status)
	assert.Equal(t, domain.StatusPendingSignature, *repo.lastFilter.Status)
	assert.True(t, repo.lastFilter.IncludeTerminal)
}

func TestGetStationHolds_InvalidStatus(t *testing.T) {
	svc := newTestService(newFakeHoldRepo(), &fakeNotifier{}, testNow)

	_, err := svc.GetStationHolds(context.Background(), &models.StationHoldsRequest{
		StationID: 7,
		Status:    ptr.Ptr("confirmed"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCancel_IncrementsCancelledMetric(t *testing.T) {
	repo := newFakeHoldRepo(pendingSignatureHold())
	m := metrics.New("hold-service-test")
	svc := NewService(repo, &fakeNotifier{}, domain.DefaultHoldTiming(), &fixedClock{now: testNow}, m, nopLogger{})

	_, err := svc.CancelByToken(context.Background(), "tok-view")
	require.NoError(t, err)

	assert.Equal(t, float64(1), counterValue(t, "holds_cancelled_total", "reason", domain.ReasonCustomerRequest))
}

func counterValue(t *testing.T, name, label, value string) float64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, mtr := range mf.GetMetric() {
			for _, lp := range mtr.GetLabel() {
				if lp.GetName() == label && lp.GetValue() == value {
					return mtr.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

package record_deposit

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
	"github.com/m04kA/CTR-HoldService/pkg/metrics"
	"github.com/m04kA/CTR-HoldService/pkg/ptr"
)

type fakeHoldRepo struct {
	holds        map[string]*domain.SlotHold
	byID         map[int64]*domain.SlotHold
	completeErrs []error
	completes    int
	lastVersion  int64
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

func (f *fakeHoldRepo) MarkCompleted(_ context.Context, id, version int64, paidAt time.Time, method, reference string, bookingID int64) error {
	f.completes++
	f.lastVersion = version
	if len(f.completeErrs) > 0 {
		err := f.completeErrs[0]
		f.completeErrs = f.completeErrs[1:]
		if err != nil {
			return err
		}
	}
	h := f.byID[id]
	h.Status = domain.StatusCompleted
	h.Version = version + 1
	h.DepositPaidAt = &paidAt
	h.DepositPaymentMethod = &method
	h.DepositPaymentReference = &reference
	h.BookingID = &bookingID
	return nil
}

type fakeBookingRepo struct {
	nextID  int64
	created []*domain.Booking
}

func (f *fakeBookingRepo) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	f.nextID++
	out := *b
	out.ID = f.nextID
	f.created = append(f.created, &out)
	return &out, nil
}

// inlineTxManager выполняет функцию транзакции напрямую
type inlineTxManager struct {
	calls int
}

func (m *inlineTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
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

var testNow = time.Date(2026, 9, 1, 14, 0, 0, 0, time.UTC)

func pendingDepositHold() *domain.SlotHold {
	signedAt := testNow.Add(-time.Hour)
	return &domain.SlotHold{
		ID:                 10,
		Token:              "tok-deposit",
		Version:            2,
		StationID:          7,
		SlotDate:           time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		SlotTime:           "18:00",
		CustomerName:       "Anna Petrova",
		CustomerEmail:      "anna@example.com",
		GuestCount:         40,
		Status:             domain.StatusPendingDeposit,
		DepositAmountCents: 50000,
		AgreementSignedAt:  &signedAt,
		PaymentDeadlineAt:  ptr.Ptr(signedAt.Add(domain.DefaultPaymentWindow)),
		TokenExpiresAt:     testNow.Add(domain.DefaultTokenTTL),
	}
}

func validRequest() *Request {
	return &Request{
		Token:            "tok-deposit",
		PaymentMethod:    domain.PaymentMethodStripe,
		PaymentReference: "pi_3NxyzABC",
		AmountCents:      50000,
	}
}

func newTestUseCase(repo *fakeHoldRepo, bookings *fakeBookingRepo, n *fakeNotifier, now time.Time) (*UseCase, *inlineTxManager) {
	tx := &inlineTxManager{}
	uc := NewUseCase(repo, bookings, tx, n, nil, nopLogger{})
	uc.timeProvider = &fixedClock{now: now}
	return uc, tx
}

func TestExecute_ConvertsHoldToBooking(t *testing.T) {
	repo := newFakeHoldRepo(pendingDepositHold())
	bookings := &fakeBookingRepo{}
	n := &fakeNotifier{}
	uc, tx := newTestUseCase(repo, bookings, n, testNow)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(10), resp.HoldID)
	assert.Equal(t, int64(1), resp.BookingID)
	assert.Equal(t, string(domain.StatusCompleted), resp.Status)
	assert.False(t, resp.AlreadyRecorded)

	// Вставка бронирования и переход hold'а прошли в одной транзакции
	assert.Equal(t, 1, tx.calls)
	require.Len(t, bookings.created, 1)

	// Бронирование наследует снимок слота и клиента с hold'а
	created := bookings.created[0]
	assert.Equal(t, int64(10), created.HoldID)
	assert.Equal(t, int64(7), created.StationID)
	assert.Equal(t, "Anna Petrova", created.CustomerName)
	assert.Equal(t, int64(50000), created.DepositAmountCents)

	assert.Equal(t, []notifier.EventType{notifier.EventHoldCompleted}, n.events)
}

func TestExecute_IdempotentByReference(t *testing.T) {
	repo := newFakeHoldRepo(pendingDepositHold())
	bookings := &fakeBookingRepo{}
	uc, tx := newTestUseCase(repo, bookings, &fakeNotifier{}, testNow)

	first, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	// Повтор с тем же reference возвращает прежний результат без новой записи
	second, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.True(t, second.AlreadyRecorded)
	assert.Equal(t, first.BookingID, second.BookingID)
	assert.Equal(t, first.PaymentReference, second.PaymentReference)
	assert.Equal(t, 1, tx.calls)
	assert.Len(t, bookings.created, 1)
}

func TestExecute_AmountMismatch(t *testing.T) {
	repo := newFakeHoldRepo(pendingDepositHold())
	uc, _ := newTestUseCase(repo, &fakeBookingRepo{}, &fakeNotifier{}, testNow)

	req := validRequest()
	req.AmountCents = 49999
	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrAmountMismatch)
}

func TestExecute_DeadlinePassed(t *testing.T) {
	h := pendingDepositHold()
	repo := newFakeHoldRepo(h)
	uc, _ := newTestUseCase(repo, &fakeBookingRepo{}, &fakeNotifier{}, h.PaymentDeadlineAt.Add(time.Minute))

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrDeadlinePassed)
}

func TestExecute_WrongState(t *testing.T) {
	h := pendingDepositHold()
	h.Status = domain.StatusPendingSignature
	h.PaymentDeadlineAt = nil
	uc, _ := newTestUseCase(newFakeHoldRepo(h), &fakeBookingRepo{}, &fakeNotifier{}, testNow)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrWrongState)
}

func TestExecute_Validation(t *testing.T) {
	uc, _ := newTestUseCase(newFakeHoldRepo(pendingDepositHold()), &fakeBookingRepo{}, &fakeNotifier{}, testNow)

	cases := []struct {
		name   string
		mutate func(r *Request)
	}{
		{"unknown method", func(r *Request) { r.PaymentMethod = "cash" }},
		{"empty reference", func(r *Request) { r.PaymentReference = "  " }},
		{"zero amount", func(r *Request) { r.AmountCents = 0 }},
		{"negative amount", func(r *Request) { r.AmountCents = -100 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(req)
			_, err := uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestExecute_ConflictResolvesToPriorResult(t *testing.T) {
	// Конкурентный дубликат успел сконвертировать hold первым: проигравший
	// запрос получает прежний результат, а не ошибку
	h := pendingDepositHold()
	repo := newFakeHoldRepo(h)
	repo.completeErrs = []error{holdRepo.ErrHoldConflict}

	converted := *h
	converted.Version = 3
	converted.Status = domain.StatusCompleted
	converted.DepositPaidAt = ptr.Ptr(testNow.Add(-time.Second))
	converted.DepositPaymentMethod = ptr.Ptr(domain.PaymentMethodStripe)
	converted.DepositPaymentReference = ptr.Ptr("pi_3NxyzABC")
	converted.BookingID = ptr.Ptr(int64(99))
	repo.byID[h.ID] = &converted

	uc, _ := newTestUseCase(repo, &fakeBookingRepo{}, &fakeNotifier{}, testNow)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.True(t, resp.AlreadyRecorded)
	assert.Equal(t, int64(99), resp.BookingID)
}

func TestExecute_ConflictSurfacesExpiredState(t *testing.T) {
	// Sweeper успел перевести hold в EXPIRED между чтением и записью
	h := pendingDepositHold()
	repo := newFakeHoldRepo(h)
	repo.completeErrs = []error{holdRepo.ErrHoldConflict}

	expired := *h
	expired.Version = 3
	expired.Status = domain.StatusExpired
	expired.CancellationReason = ptr.Ptr(domain.ReasonPaymentTimeout)
	repo.byID[h.ID] = &expired

	uc, _ := newTestUseCase(repo, &fakeBookingRepo{}, &fakeNotifier{}, testNow)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrWrongState)
}

func TestExecute_ConflictRetriesWithFreshVersion(t *testing.T) {
	// Первая конвертация проигрывает условную запись: version сдвинул штамп
	// предупреждения sweeper'а, но hold всё ещё в PENDING_DEPOSIT и в окне оплаты
	h := pendingDepositHold()
	repo := newFakeHoldRepo(h)
	repo.completeErrs = []error{holdRepo.ErrHoldConflict}

	stamped := *h
	stamped.Version = 3
	stamped.PaymentWarningSentAt = ptr.Ptr(testNow.Add(-time.Minute))
	repo.byID[h.ID] = &stamped

	n := &fakeNotifier{}
	uc, tx := newTestUseCase(repo, &fakeBookingRepo{}, n, testNow)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, 2, repo.completes)
	assert.Equal(t, int64(3), repo.lastVersion)
	assert.Equal(t, 2, tx.calls)
	assert.Equal(t, string(domain.StatusCompleted), resp.Status)
	assert.False(t, resp.AlreadyRecorded)
	assert.Equal(t, []notifier.EventType{notifier.EventHoldCompleted}, n.events)
}

func TestExecute_IncrementsCompletedMetric(t *testing.T) {
	repo := newFakeHoldRepo(pendingDepositHold())
	m := metrics.New("hold-service-test")

	uc := NewUseCase(repo, &fakeBookingRepo{}, &inlineTxManager{}, &fakeNotifier{}, m, nopLogger{})
	uc.timeProvider = &fixedClock{now: testNow}

	_, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, float64(1), counterValue(t, "holds_completed_total", "payment_method", domain.PaymentMethodStripe))
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

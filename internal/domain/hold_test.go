package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func holdAwaitingSignature(now time.Time) *SlotHold {
	return &SlotHold{
		ID:                1,
		Status:            StatusPendingSignature,
		SigningDeadlineAt: now.Add(DefaultSigningWindow),
		TokenExpiresAt:    now.Add(DefaultTokenTTL),
	}
}

func holdAwaitingDeposit(now time.Time) *SlotHold {
	signedAt := now.Add(-10 * time.Minute)
	deadline := signedAt.Add(DefaultPaymentWindow)
	return &SlotHold{
		ID:                2,
		Status:            StatusPendingDeposit,
		SigningDeadlineAt: signedAt.Add(-time.Hour),
		AgreementSignedAt: &signedAt,
		PaymentDeadlineAt: &deadline,
		TokenExpiresAt:    now.Add(DefaultTokenTTL),
	}
}

func TestCanSign(t *testing.T) {
	now := time.Date(2026, 9, 12, 12, 0, 0, 0, time.UTC)
	h := holdAwaitingSignature(now)

	assert.True(t, h.CanSign(now))

	// Ровно на дедлайне подписание уже невозможно
	assert.False(t, h.CanSign(h.SigningDeadlineAt))
	assert.True(t, h.CanSign(h.SigningDeadlineAt.Add(-time.Second)))

	h.Status = StatusPendingDeposit
	assert.False(t, h.CanSign(now))
}

func TestCanPay(t *testing.T) {
	now := time.Date(2026, 9, 12, 12, 0, 0, 0, time.UTC)
	h := holdAwaitingDeposit(now)

	assert.True(t, h.CanPay(now))
	assert.False(t, h.CanPay(*h.PaymentDeadlineAt))
	assert.True(t, h.CanPay(h.PaymentDeadlineAt.Add(-time.Second)))

	// До подписания дедлайн оплаты не установлен
	fresh := holdAwaitingSignature(now)
	assert.False(t, fresh.CanPay(now))
}

func TestIsTerminal(t *testing.T) {
	h := &SlotHold{Status: StatusPendingSignature}
	assert.False(t, h.IsTerminal())
	assert.True(t, h.IsActive())

	for _, status := range TerminalStatuses {
		h.Status = status
		assert.True(t, h.IsTerminal(), "status=%s", status)
		assert.False(t, h.IsActive(), "status=%s", status)
	}
}

func TestInSigningWarningPeriod(t *testing.T) {
	now := time.Date(2026, 9, 12, 12, 0, 0, 0, time.UTC)
	h := holdAwaitingSignature(now)

	// За два часа до дедлайна предупреждение ещё не нужно
	assert.False(t, h.InSigningWarningPeriod(now, DefaultWarningLead))

	// За 59 минут до дедлайна - нужно
	late := h.SigningDeadlineAt.Add(-59 * time.Minute)
	assert.True(t, h.InSigningWarningPeriod(late, DefaultWarningLead))

	// Ровно за warningLead до дедлайна - граница включается
	assert.True(t, h.InSigningWarningPeriod(h.SigningDeadlineAt.Add(-DefaultWarningLead), DefaultWarningLead))

	// После дедлайна период предупреждения закончился
	assert.False(t, h.InSigningWarningPeriod(h.SigningDeadlineAt, DefaultWarningLead))
}

func TestInPaymentWarningPeriod(t *testing.T) {
	now := time.Date(2026, 9, 12, 12, 0, 0, 0, time.UTC)
	h := holdAwaitingDeposit(now)

	assert.False(t, h.InPaymentWarningPeriod(now, DefaultWarningLead))
	assert.True(t, h.InPaymentWarningPeriod(h.PaymentDeadlineAt.Add(-30*time.Minute), DefaultWarningLead))
	assert.False(t, h.InPaymentWarningPeriod(*h.PaymentDeadlineAt, DefaultWarningLead))

	// В фазе подписания предупреждение об оплате не имеет смысла
	fresh := holdAwaitingSignature(now)
	assert.False(t, fresh.InPaymentWarningPeriod(now, DefaultWarningLead))
}

func TestSecondsUntilDeadlines(t *testing.T) {
	now := time.Date(2026, 9, 12, 12, 0, 0, 0, time.UTC)
	h := holdAwaitingSignature(now)

	assert.Equal(t, int64(DefaultSigningWindow/time.Second), h.SecondsUntilSigningDeadline(now))

	// После дедлайна счётчик не уходит в минус
	assert.Equal(t, int64(0), h.SecondsUntilSigningDeadline(h.SigningDeadlineAt.Add(time.Hour)))

	// Дедлайн оплаты не установлен до подписания
	assert.Equal(t, int64(0), h.SecondsUntilPaymentDeadline(now))
}

func TestIsTokenExpired(t *testing.T) {
	now := time.Date(2026, 9, 12, 12, 0, 0, 0, time.UTC)
	h := holdAwaitingSignature(now)

	assert.False(t, h.IsTokenExpired(now))
	assert.True(t, h.IsTokenExpired(h.TokenExpiresAt))
	assert.True(t, h.IsTokenExpired(h.TokenExpiresAt.Add(time.Hour)))
}

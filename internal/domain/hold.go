package domain

import (
	"time"

	"github.com/m04kA/CTR-HoldService/pkg/types"
)

// HoldStatus represents the status of a slot hold
type HoldStatus string

const (
	StatusPendingSignature HoldStatus = "pending_signature"
	StatusPendingDeposit   HoldStatus = "pending_deposit"
	StatusCompleted        HoldStatus = "completed"
	StatusExpired          HoldStatus = "expired"
	StatusCancelled        HoldStatus = "cancelled"
)

// SlotHold represents a time-bounded reservation of a slot (station + date + time)
// pending customer commitment: подписание договора, затем внесение депозита.
// Все переходы статуса выполняются условными записями с проверкой version
// (оптимистичная конкуренция) - см. infra/storage/hold.
type SlotHold struct {
	ID      int64
	Token   string // публичный непредсказуемый идентификатор, отдельный от ID
	Version int64  // монотонный счётчик, инкрементируется каждой записью

	// Ключ слота - эксклюзивно удерживаемый ресурс
	StationID int64
	SlotDate  time.Time
	SlotTime  types.TimeString

	// Снимок данных клиента на момент создания hold
	// (актуальная запись клиента живёт в CRM вне этого сервиса)
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	GuestCount    int

	Status HoldStatus

	// Требуемый депозит, зафиксированный при создании (прайсинг не пересчитывается)
	DepositAmountCents int64

	// Фаза 1: подписание договора
	SigningDeadlineAt    time.Time
	SigningWarningSentAt *time.Time
	AgreementSignedAt    *time.Time
	SignedAgreementID    *int64

	// Фаза 2: внесение депозита (поля заполняются только после подписания)
	PaymentDeadlineAt       *time.Time
	PaymentWarningSentAt    *time.Time
	DepositPaidAt           *time.Time
	DepositPaymentMethod    *string
	DepositPaymentReference *string

	// Результат: заполняется ровно одно из двух
	CancellationReason *string // только для EXPIRED / CANCELLED
	BookingID          *int64  // только для COMPLETED

	TokenExpiresAt time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsTerminal returns true if no further transition is permitted
func (h *SlotHold) IsTerminal() bool {
	return h.Status == StatusCompleted || h.Status == StatusExpired || h.Status == StatusCancelled
}

// IsActive returns true if the hold still blocks its slot key
func (h *SlotHold) IsActive() bool {
	return !h.IsTerminal()
}

// IsSigned returns true if the agreement has been signed
func (h *SlotHold) IsSigned() bool {
	return h.AgreementSignedAt != nil
}

// IsTokenExpired returns true if the public token is no longer valid
func (h *SlotHold) IsTokenExpired(now time.Time) bool {
	return !now.Before(h.TokenExpiresAt)
}

// CanSign returns true if a signature can currently be accepted.
// Чистая производная от статуса и времени - никогда не хранится отдельно.
func (h *SlotHold) CanSign(now time.Time) bool {
	return h.Status == StatusPendingSignature && now.Before(h.SigningDeadlineAt)
}

// CanPay returns true if a deposit can currently be recorded
func (h *SlotHold) CanPay(now time.Time) bool {
	return h.Status == StatusPendingDeposit &&
		h.PaymentDeadlineAt != nil &&
		now.Before(*h.PaymentDeadlineAt)
}

// InSigningWarningPeriod returns true if the hold is within warningLead of its
// signing deadline and still awaits a signature
func (h *SlotHold) InSigningWarningPeriod(now time.Time, warningLead time.Duration) bool {
	return h.Status == StatusPendingSignature &&
		now.Before(h.SigningDeadlineAt) &&
		!now.Before(h.SigningDeadlineAt.Add(-warningLead))
}

// InPaymentWarningPeriod returns true if the hold is within warningLead of its
// payment deadline and still awaits a deposit
func (h *SlotHold) InPaymentWarningPeriod(now time.Time, warningLead time.Duration) bool {
	if h.Status != StatusPendingDeposit || h.PaymentDeadlineAt == nil {
		return false
	}
	return now.Before(*h.PaymentDeadlineAt) &&
		!now.Before(h.PaymentDeadlineAt.Add(-warningLead))
}

// SecondsUntilSigningDeadline returns seconds until the signing deadline, clamped at 0
func (h *SlotHold) SecondsUntilSigningDeadline(now time.Time) int64 {
	return secondsUntil(h.SigningDeadlineAt, now)
}

// SecondsUntilPaymentDeadline returns seconds until the payment deadline,
// clamped at 0; returns 0 if the payment deadline is not set yet
func (h *SlotHold) SecondsUntilPaymentDeadline(now time.Time) int64 {
	if h.PaymentDeadlineAt == nil {
		return 0
	}
	return secondsUntil(*h.PaymentDeadlineAt, now)
}

func secondsUntil(deadline, now time.Time) int64 {
	d := deadline.Sub(now)
	if d < 0 {
		return 0
	}
	return int64(d / time.Second)
}

// StationHoldsFilter фильтр для получения hold'ов станции
type StationHoldsFilter struct {
	StationID       int64       // Обязательный параметр
	StartDate       *time.Time  // Начало периода по slot_date (опционально)
	EndDate         *time.Time  // Конец периода по slot_date (опционально)
	Status          *HoldStatus // Фильтр по статусу (опционально)
	IncludeTerminal bool        // Включать ли завершённые hold'ы (completed, expired, cancelled)
}

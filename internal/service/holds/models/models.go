package models

import (
	"time"

	"github.com/m04kA/CTR-HoldService/internal/domain"
)

// Производные статусы этапов, вычисляются из доменной модели при каждом чтении
const (
	AgreementStatusPending = "pending"
	AgreementStatusSigned  = "signed"
	AgreementStatusLapsed  = "lapsed" // договор так и не был подписан (hold в терминальном статусе)

	DepositStatusAwaitingSignature = "awaiting_signature"
	DepositStatusPending           = "pending"
	DepositStatusPaid              = "paid"
	DepositStatusLapsed            = "lapsed"
)

// Request модели

// StationHoldsRequest запрос списка hold'ов станции
type StationHoldsRequest struct {
	StationID       int64      `json:"stationId"`
	StartDate       *time.Time `json:"startDate,omitempty"`       // Начало периода по дате слота (опционально)
	EndDate         *time.Time `json:"endDate,omitempty"`         // Конец периода по дате слота (опционально)
	Status          *string    `json:"status,omitempty"`          // Фильтр по статусу (опционально)
	IncludeTerminal bool       `json:"includeTerminal,omitempty"` // Включить завершённые hold'ы
}

// Response модели

// HoldView проекция hold'а для клиентского UI.
// Поля canSign/canPay и secondsUntil* вычисляются на момент запроса
// и никогда не хранятся в базе.
type HoldView struct {
	ID      int64  `json:"id"`
	Token   string `json:"token"`
	Version int64  `json:"version"`

	StationID int64  `json:"stationId"`
	SlotDate  string `json:"slotDate"` // "2026-09-12"
	SlotTime  string `json:"slotTime"` // "18:00"

	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
	CustomerPhone string `json:"customerPhone,omitempty"`
	GuestCount    int    `json:"guestCount"`

	Status             string `json:"status"`
	AgreementStatus    string `json:"agreementStatus"`
	DepositStatus      string `json:"depositStatus"`
	DepositAmountCents int64  `json:"depositAmountCents"`

	SigningDeadlineAt           time.Time `json:"signingDeadlineAt"`
	SecondsUntilSigningDeadline int64     `json:"secondsUntilSigningDeadline"`
	IsSigningWarningPeriod      bool      `json:"isSigningWarningPeriod"`

	PaymentDeadlineAt           *time.Time `json:"paymentDeadlineAt,omitempty"`
	SecondsUntilPaymentDeadline int64      `json:"secondsUntilPaymentDeadline"`
	IsPaymentWarningPeriod      bool       `json:"isPaymentWarningPeriod"`

	AgreementSignedAt *time.Time `json:"agreementSignedAt,omitempty"`
	SignedAgreementID *int64     `json:"signedAgreementId,omitempty"`

	DepositPaidAt           *time.Time `json:"depositPaidAt,omitempty"`
	DepositPaymentMethod    *string    `json:"depositPaymentMethod,omitempty"`
	DepositPaymentReference *string    `json:"depositPaymentReference,omitempty"`

	CanSign bool `json:"canSign"`
	CanPay  bool `json:"canPay"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	BookingID          *int64  `json:"bookingId,omitempty"`

	TokenExpiresAt time.Time `json:"tokenExpiresAt"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// StationHoldsResponse список hold'ов станции
type StationHoldsResponse struct {
	Holds []*HoldView `json:"holds"`
}

// Методы конвертации

// ViewFromDomain строит проекцию hold'а на момент времени now
func ViewFromDomain(h *domain.SlotHold, now time.Time, warningLead time.Duration) *HoldView {
	if h == nil {
		return nil
	}

	return &HoldView{
		ID:      h.ID,
		Token:   h.Token,
		Version: h.Version,

		StationID: h.StationID,
		SlotDate:  h.SlotDate.Format(domain.DateFormat),
		SlotTime:  h.SlotTime.String(),

		CustomerName:  h.CustomerName,
		CustomerEmail: h.CustomerEmail,
		CustomerPhone: h.CustomerPhone,
		GuestCount:    h.GuestCount,

		Status:             string(h.Status),
		AgreementStatus:    agreementStatus(h),
		DepositStatus:      depositStatus(h),
		DepositAmountCents: h.DepositAmountCents,

		SigningDeadlineAt:           h.SigningDeadlineAt,
		SecondsUntilSigningDeadline: h.SecondsUntilSigningDeadline(now),
		IsSigningWarningPeriod:      h.InSigningWarningPeriod(now, warningLead),

		PaymentDeadlineAt:           h.PaymentDeadlineAt,
		SecondsUntilPaymentDeadline: h.SecondsUntilPaymentDeadline(now),
		IsPaymentWarningPeriod:      h.InPaymentWarningPeriod(now, warningLead),

		AgreementSignedAt: h.AgreementSignedAt,
		SignedAgreementID: h.SignedAgreementID,

		DepositPaidAt:           h.DepositPaidAt,
		DepositPaymentMethod:    h.DepositPaymentMethod,
		DepositPaymentReference: h.DepositPaymentReference,

		CanSign: h.CanSign(now),
		CanPay:  h.CanPay(now),

		CancellationReason: h.CancellationReason,
		BookingID:          h.BookingID,

		TokenExpiresAt: h.TokenExpiresAt,
		CreatedAt:      h.CreatedAt,
		UpdatedAt:      h.UpdatedAt,
	}
}

func agreementStatus(h *domain.SlotHold) string {
	if h.IsSigned() {
		return AgreementStatusSigned
	}
	if h.Status == domain.StatusPendingSignature {
		return AgreementStatusPending
	}
	return AgreementStatusLapsed
}

func depositStatus(h *domain.SlotHold) string {
	if h.DepositPaidAt != nil {
		return DepositStatusPaid
	}
	switch h.Status {
	case domain.StatusPendingSignature:
		return DepositStatusAwaitingSignature
	case domain.StatusPendingDeposit:
		return DepositStatusPending
	default:
		return DepositStatusLapsed
	}
}

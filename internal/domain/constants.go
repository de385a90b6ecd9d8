package domain

import "time"

// Default hold timing values
const (
	DefaultSigningWindow = 2 * time.Hour  // окно подписания договора от создания hold
	DefaultPaymentWindow = 4 * time.Hour  // окно оплаты депозита от момента подписания
	DefaultWarningLead   = 1 * time.Hour  // предупреждение за час до дедлайна
	DefaultTokenTTL      = 48 * time.Hour // срок жизни публичного токена
)

// Business validation constants
const (
	MinGuestCount            = 1
	MaxGuestCount            = 500
	MaxCustomerNameLength    = 200
	MaxCancellationReasonLen = 500
	MaxPaymentReferenceLen   = 200
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Cancellation reasons (закрытый набор значений cancellation_reason)
const (
	ReasonSigningTimeout  = "SIGNING_TIMEOUT"
	ReasonPaymentTimeout  = "PAYMENT_TIMEOUT"
	ReasonCustomerRequest = "CUSTOMER_REQUEST"
	ReasonAdminRequest    = "ADMIN_REQUEST"
)

// Deposit payment methods (шлюзовая обработка платежа вне сервиса,
// здесь только фиксация подтверждённого платежа)
const (
	PaymentMethodStripe = "stripe"
	PaymentMethodZelle  = "zelle"
	PaymentMethodVenmo  = "venmo"
)

// ValidPaymentMethods допустимые способы оплаты депозита
var ValidPaymentMethods = []string{
	PaymentMethodStripe,
	PaymentMethodZelle,
	PaymentMethodVenmo,
}

// IsValidPaymentMethod проверяет, что способ оплаты входит в допустимый набор
func IsValidPaymentMethod(method string) bool {
	for _, m := range ValidPaymentMethods {
		if m == method {
			return true
		}
	}
	return false
}

// ActiveStatuses список нетерминальных статусов.
// Hold в любом из них эксклюзивно блокирует свой ключ слота.
var ActiveStatuses = []HoldStatus{
	StatusPendingSignature,
	StatusPendingDeposit,
}

// TerminalStatuses список терминальных статусов
var TerminalStatuses = []HoldStatus{
	StatusCompleted,
	StatusExpired,
	StatusCancelled,
}

// HoldTiming параметры временных окон lifecycle hold'а.
// Передаётся из конфигурации в usecases, сервисы и sweeper.
type HoldTiming struct {
	SigningWindow time.Duration
	PaymentWindow time.Duration
	WarningLead   time.Duration
	TokenTTL      time.Duration
}

// DefaultHoldTiming возвращает тайминги по умолчанию
func DefaultHoldTiming() HoldTiming {
	return HoldTiming{
		SigningWindow: DefaultSigningWindow,
		PaymentWindow: DefaultPaymentWindow,
		WarningLead:   DefaultWarningLead,
		TokenTTL:      DefaultTokenTTL,
	}
}

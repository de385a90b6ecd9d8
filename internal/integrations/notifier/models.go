package notifier

// EventType тип события lifecycle hold'а для уведомления клиента
type EventType string

const (
	EventSigningWarning EventType = "signing_warning"
	EventSigningExpired EventType = "signing_expired"
	EventPaymentWarning EventType = "payment_warning"
	EventPaymentExpired EventType = "payment_expired"
	EventHoldCompleted  EventType = "hold_completed"
	EventHoldCancelled  EventType = "hold_cancelled"
)

// NotifyRequest запрос на отправку уведомления
type NotifyRequest struct {
	HoldID    int64     `json:"hold_id"`
	EventType EventType `json:"event_type"`
}

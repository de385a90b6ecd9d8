package record_deposit

import "time"

// Request модель запроса на фиксацию депозита.
// Платёж уже подтверждён платёжным коллаборатором - здесь он только записывается.
type Request struct {
	Token            string // Публичный токен hold
	PaymentMethod    string // stripe / zelle / venmo
	PaymentReference string // Идентификатор платежа в платёжной системе
	AmountCents      int64  // Сумма платежа
}

// Response модель ответа после фиксации депозита
type Response struct {
	HoldID    int64  // ID hold
	BookingID int64  // ID созданного бронирования
	Status    string // Новый статус (completed)

	DepositPaidAt    time.Time // Момент фиксации платежа
	PaymentMethod    string    // Способ оплаты
	PaymentReference string    // Идентификатор платежа
	AmountCents      int64     // Сумма

	// AlreadyRecorded true, если платёж с этим reference уже был записан ранее
	// (повтор клиента или дубликат webhook) - возвращён прежний результат
	AlreadyRecorded bool
}

package sign_agreement

import "time"

// Request модель запроса на подписание договора
type Request struct {
	Token          string // Публичный токен hold
	SignatureData  string // data-URL изображения подписи
	SignerName     string // Имя подписанта
	SignerEmail    string // Email подписанта
	ConsentChecked bool   // Подтверждение согласия с условиями
}

// Response модель ответа после успешного подписания
type Response struct {
	HoldID            int64     // ID hold
	Status            string    // Новый статус (pending_deposit)
	SignedAgreementID int64     // ID записи подписанного договора
	AgreementSignedAt time.Time // Момент подписания

	PaymentDeadlineAt  time.Time // Дедлайн внесения депозита
	DepositAmountCents int64     // Требуемая сумма депозита
}

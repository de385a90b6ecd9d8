package agreements

import "time"

// CreateSignedAgreementRequest запрос на сохранение подписанного договора
type CreateSignedAgreementRequest struct {
	HoldID        int64     `json:"hold_id"`
	SignerName    string    `json:"signer_name"`
	SignerEmail   string    `json:"signer_email"`
	SignatureData string    `json:"signature_data"` // data-URL изображения подписи
	SignedAt      time.Time `json:"signed_at"`
}

// SignedAgreement запись подписанного договора в AgreementService
type SignedAgreement struct {
	ID        int64     `json:"id"`
	HoldID    int64     `json:"hold_id"`
	CreatedAt time.Time `json:"created_at"`
}

package sign_agreement

import (
	"time"

	signAgreement "github.com/m04kA/CTR-HoldService/internal/usecase/sign_agreement"
)

// SignAgreementRequest HTTP request model
type SignAgreementRequest struct {
	SignatureData  string `json:"signatureData"` // data-URL изображения подписи
	SignerName     string `json:"signerName"`
	SignerEmail    string `json:"signerEmail"`
	ConsentChecked bool   `json:"consentChecked"`
}

// SignAgreementResponse HTTP response model
type SignAgreementResponse struct {
	HoldID            int64  `json:"holdId"`
	Status            string `json:"status"`
	SignedAgreementID int64  `json:"signedAgreementId"`
	AgreementSignedAt string `json:"agreementSignedAt"` // ISO 8601

	PaymentDeadlineAt  string `json:"paymentDeadlineAt"` // ISO 8601
	DepositAmountCents int64  `json:"depositAmountCents"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *SignAgreementRequest) ToUseCaseRequest(token string) *signAgreement.Request {
	return &signAgreement.Request{
		Token:          token,
		SignatureData:  r.SignatureData,
		SignerName:     r.SignerName,
		SignerEmail:    r.SignerEmail,
		ConsentChecked: r.ConsentChecked,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *signAgreement.Response) *SignAgreementResponse {
	return &SignAgreementResponse{
		HoldID:             resp.HoldID,
		Status:             resp.Status,
		SignedAgreementID:  resp.SignedAgreementID,
		AgreementSignedAt:  resp.AgreementSignedAt.Format(time.RFC3339),
		PaymentDeadlineAt:  resp.PaymentDeadlineAt.Format(time.RFC3339),
		DepositAmountCents: resp.DepositAmountCents,
	}
}

package record_deposit

import (
	"time"

	recordDeposit "github.com/m04kA/CTR-HoldService/internal/usecase/record_deposit"
)

// RecordDepositRequest HTTP request model
type RecordDepositRequest struct {
	PaymentMethod    string `json:"paymentMethod"`    // stripe / zelle / venmo
	PaymentReference string `json:"paymentReference"` // Идентификатор платежа в платёжной системе
	AmountCents      int64  `json:"amountCents"`
}

// RecordDepositResponse HTTP response model
type RecordDepositResponse struct {
	HoldID    int64  `json:"holdId"`
	BookingID int64  `json:"bookingId"`
	Status    string `json:"status"`

	DepositPaidAt    string `json:"depositPaidAt"` // ISO 8601
	PaymentMethod    string `json:"paymentMethod"`
	PaymentReference string `json:"paymentReference"`
	AmountCents      int64  `json:"amountCents"`

	AlreadyRecorded bool `json:"alreadyRecorded"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RecordDepositRequest) ToUseCaseRequest(token string) *recordDeposit.Request {
	return &recordDeposit.Request{
		Token:            token,
		PaymentMethod:    r.PaymentMethod,
		PaymentReference: r.PaymentReference,
		AmountCents:      r.AmountCents,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *recordDeposit.Response) *RecordDepositResponse {
	return &RecordDepositResponse{
		HoldID:           resp.HoldID,
		BookingID:        resp.BookingID,
		Status:           resp.Status,
		DepositPaidAt:    resp.DepositPaidAt.Format(time.RFC3339),
		PaymentMethod:    resp.PaymentMethod,
		PaymentReference: resp.PaymentReference,
		AmountCents:      resp.AmountCents,
		AlreadyRecorded:  resp.AlreadyRecorded,
	}
}

package create_hold

import (
	"time"

	"github.com/m04kA/CTR-HoldService/internal/domain"
	createHold "github.com/m04kA/CTR-HoldService/internal/usecase/create_hold"
	"github.com/m04kA/CTR-HoldService/pkg/types"
)

// CreateHoldRequest HTTP request model
type CreateHoldRequest struct {
	StationID     int64  `json:"stationId"`
	SlotDate      string `json:"slotDate"` // "2026-09-12"
	SlotTime      string `json:"slotTime"` // "18:00"
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
	CustomerPhone string `json:"customerPhone,omitempty"`
	GuestCount    int    `json:"guestCount"`
}

// HoldResponse HTTP response model
type HoldResponse struct {
	ID      int64  `json:"id"`
	Token   string `json:"token"`
	Version int64  `json:"version"`

	StationID int64  `json:"stationId"`
	SlotDate  string `json:"slotDate"`
	SlotTime  string `json:"slotTime"`

	Status             string `json:"status"`
	DepositAmountCents int64  `json:"depositAmountCents"`

	SigningDeadlineAt string `json:"signingDeadlineAt"` // ISO 8601
	TokenExpiresAt    string `json:"tokenExpiresAt"`    // ISO 8601

	CreatedAt string `json:"createdAt"` // ISO 8601
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateHoldRequest) ToUseCaseRequest() (*createHold.Request, error) {
	slotDate, err := time.Parse(domain.DateFormat, r.SlotDate)
	if err != nil {
		return nil, err
	}

	slotTime, err := types.NewTimeStringFromString(r.SlotTime)
	if err != nil {
		return nil, err
	}

	return &createHold.Request{
		StationID:     r.StationID,
		SlotDate:      slotDate,
		SlotTime:      slotTime,
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		CustomerPhone: r.CustomerPhone,
		GuestCount:    r.GuestCount,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createHold.Response) *HoldResponse {
	return &HoldResponse{
		ID:                 resp.ID,
		Token:              resp.Token,
		Version:            resp.Version,
		StationID:          resp.StationID,
		SlotDate:           resp.SlotDate.Format(domain.DateFormat),
		SlotTime:           resp.SlotTime.String(),
		Status:             resp.Status,
		DepositAmountCents: resp.DepositAmountCents,
		SigningDeadlineAt:  resp.SigningDeadlineAt.Format(time.RFC3339),
		TokenExpiresAt:     resp.TokenExpiresAt.Format(time.RFC3339),
		CreatedAt:          resp.CreatedAt.Format(time.RFC3339),
	}
}

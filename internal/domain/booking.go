package domain

import (
	"time"

	"github.com/m04kA/CTR-HoldService/pkg/types"
)

// BookingStatus represents the status of a confirmed booking
type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
)

// Booking represents a confirmed catering booking, materialized exactly once
// from a hold that reached COMPLETED. Данные клиента и платежа денормализованы
// из hold'а на момент конвертации.
type Booking struct {
	ID     int64
	HoldID int64

	StationID int64
	SlotDate  time.Time
	SlotTime  types.TimeString

	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	GuestCount    int

	DepositAmountCents      int64
	DepositPaymentMethod    string
	DepositPaymentReference string

	Status BookingStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

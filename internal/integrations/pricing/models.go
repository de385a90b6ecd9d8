package pricing

// DepositQuote требуемый депозит для слота из PricingService
type DepositQuote struct {
	StationID   int64  `json:"station_id"`
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
}

// ErrorResponse модель ошибки от PricingService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/m04kA/CTR-HoldService/pkg/types"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для работы с PricingService.
// Сервис прайсинга вычисляет требуемый депозит; здесь сумма только
// запрашивается при создании hold и фиксируется на нём - никогда
// не пересчитывается на последующих шагах lifecycle.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента PricingService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetDepositQuote получает требуемую сумму депозита для слота.
// Graceful degradation здесь не применяется: без суммы депозита hold создать
// нельзя, поэтому недоступность прайсинга - ошибка создания.
func (c *Client) GetDepositQuote(ctx context.Context, stationID int64, slotDate time.Time, slotTime types.TimeString, guestCount int) (*DepositQuote, error) {
	url := fmt.Sprintf("%s/internal/stations/%d/deposit-quote?date=%s&time=%s&guests=%d",
		c.baseURL, stationID, slotDate.Format("2006-01-02"), slotTime, guestCount)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		return nil, ErrQuoteNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var quote DepositQuote
	if err := json.NewDecoder(resp.Body).Decode(&quote); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	if quote.AmountCents <= 0 {
		return nil, fmt.Errorf("%w: non-positive deposit amount %d", ErrInvalidResponse, quote.AmountCents)
	}

	return &quote, nil
}

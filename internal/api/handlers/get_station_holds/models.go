package get_station_holds

import (
	"fmt"
	"strconv"
	"time"

	"github.com/m04kA/CTR-HoldService/internal/domain"
	"github.com/m04kA/CTR-HoldService/internal/service/holds/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
func ToServiceRequest(
	stationID int64,
	startDateStr string,
	endDateStr string,
	statusStr string,
	includeTerminalStr string,
) (*models.StationHoldsRequest, error) {
	req := &models.StationHoldsRequest{
		StationID:       stationID,
		IncludeTerminal: false, // По умолчанию только активные hold'ы
	}

	if startDateStr != "" {
		startDate, err := time.Parse(domain.DateFormat, startDateStr)
		if err != nil {
			return nil, fmt.Errorf("invalid startDate value: %w", err)
		}
		req.StartDate = &startDate
	}

	if endDateStr != "" {
		endDate, err := time.Parse(domain.DateFormat, endDateStr)
		if err != nil {
			return nil, fmt.Errorf("invalid endDate value: %w", err)
		}
		req.EndDate = &endDate
	}

	if statusStr != "" {
		req.Status = &statusStr
	}

	if includeTerminalStr != "" {
		includeTerminal, err := strconv.ParseBool(includeTerminalStr)
		if err != nil {
			return nil, fmt.Errorf("invalid includeTerminal value: %w", err)
		}
		req.IncludeTerminal = includeTerminal
	}

	return req, nil
}

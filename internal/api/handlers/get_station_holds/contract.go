package get_station_holds

import (
	"context"

	"github.com/m04kA/CTR-HoldService/internal/service/holds/models"
)

type HoldService interface {
	GetStationHolds(ctx context.Context, req *models.StationHoldsRequest) (*models.StationHoldsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

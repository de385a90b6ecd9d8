package admin_cancel_hold

import (
	"context"

	"github.com/m04kA/CTR-HoldService/internal/service/holds/models"
)

type HoldService interface {
	CancelByID(ctx context.Context, holdID int64) (*models.HoldView, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

package record_deposit

import (
	"context"

	recordDeposit "github.com/m04kA/CTR-HoldService/internal/usecase/record_deposit"
)

type RecordDepositUseCase interface {
	Execute(ctx context.Context, req *recordDeposit.Request) (*recordDeposit.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

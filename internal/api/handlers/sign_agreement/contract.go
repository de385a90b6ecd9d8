package sign_agreement

import (
	"context"

	signAgreement "github.com/m04kA/CTR-HoldService/internal/usecase/sign_agreement"
)

type SignAgreementUseCase interface {
	Execute(ctx context.Context, req *signAgreement.Request) (*signAgreement.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

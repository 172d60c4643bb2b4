package services

import (
	"context"
	"redsys-orders/entity"
	"time"
)

type Payments interface {
	BuildRequest(ctx context.Context, orderId, scope string, loggedIn bool) (*entity.MerchantRequest, error)
	SignedRequest(ctx context.Context, orderId, scope string, loggedIn bool) (*entity.PaymentRequest, error)
}

type Reconciler interface {
	Run(ctx context.Context, scope string) (*entity.SweepResult, error)
}

// Scheduler triggers a job at a fixed interval until the context is done.
type Scheduler interface {
	Start(ctx context.Context)
	Stop()
}

// Signer produces the signed gateway form for a parameter set.
type Signer interface {
	Sign(parameters *entity.MerchantRequest, secret string) (*entity.PaymentRequest, error)
}

type URLBuilder interface {
	GetUrl(route string, params map[string]string) string
}

type Notifier interface {
	Notify(text string) error
}

type Clock func() time.Time

type LogHandler interface {
	Debug(text string)
	Info(text string)
	Warn(text string)
	Error(text string, err error)
}

package callback

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/ShareBridge/internal/infrastructure/logging"
	"github.com/GriffinCanCode/ShareBridge/internal/share"
)

// Outcome is the terminal delivery state of an invocation.
type Outcome string

const (
	Delivered         Outcome = "delivered"
	FallbackDelivered Outcome = "fallback_delivered"
	Undeliverable     Outcome = "undeliverable"
)

// Dispatcher tries its strategies in order until one hands the link off.
type Dispatcher struct {
	strategies []Strategy
	logger     *logging.Logger
}

// NewDispatcher creates a dispatcher. The first strategy counts as the
// primary path; success on any later one is a fallback delivery.
func NewDispatcher(logger *logging.Logger, strategies ...Strategy) *Dispatcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Dispatcher{strategies: strategies, logger: logger}
}

// ForHost returns the standard two-tier dispatcher: the host's opener, then
// its responder chain.
func ForHost(host Host, logger *logging.Logger) *Dispatcher {
	return NewDispatcher(logger,
		PrimaryStrategy{Opener: host},
		ResponderChainStrategy{Source: host},
	)
}

// Dispatch delivers u. It never signals completion; that is the caller's
// Completion guard's job.
func (d *Dispatcher) Dispatch(ctx context.Context, u *url.URL) (Outcome, error) {
	var errs []error
	for i, s := range d.strategies {
		ok, err := s.Deliver(ctx, u)
		if ok {
			outcome := Delivered
			if i > 0 {
				outcome = FallbackDelivered
			}
			d.logger.Debug("callback delivered",
				zap.String("strategy", s.Name()),
				zap.String("outcome", string(outcome)),
			)
			return outcome, nil
		}
		if err == nil {
			err = ErrOpenUnavailable
		}
		d.logger.Debug("callback strategy failed",
			zap.String("strategy", s.Name()),
			zap.Error(err),
		)
		errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
	}
	return Undeliverable, fmt.Errorf("%w: %w", share.ErrDeliveryFailure, errors.Join(errs...))
}

package genai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"github.com/pvandewal/dayout/backend/internal/domain"
)

// Invoker wraps a GenerationProvider with a caller-level timeout and a
// circuit breaker. Exactly one provider call is made per Invoke; retry is a
// caller decision.
type Invoker struct {
	provider GenerationProvider
	timeout  time.Duration
	cb       *gobreaker.CircuitBreaker
}

// NewInvoker constructs an Invoker around the given provider.
// Rate-limit and payment-required responses do not count as breaker
// failures: they signal caller state, not provider health.
func NewInvoker(provider GenerationProvider, timeout time.Duration, log *slog.Logger) *Invoker {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:     "genai-" + provider.Name(),
		Interval: 60 * time.Second,
		Timeout:  30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			return errors.Is(err, domain.ErrRateLimited) || errors.Is(err, domain.ErrPaymentRequired)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("generation circuit breaker state change",
				"breaker", name, "from", from.String(), "to", to.String())
		},
	})

	return &Invoker{provider: provider, timeout: timeout, cb: cb}
}

// Invoke issues the single provider call under the configured timeout.
// An open circuit surfaces as the generic provider error.
func (inv *Invoker) Invoke(ctx context.Context, system, user string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, inv.timeout)
	defer cancel()

	out, err := inv.cb.Execute(func() (any, error) {
		return inv.provider.Generate(ctx, system, user)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", fmt.Errorf("%w: provider temporarily disabled: %v", domain.ErrProvider, err)
		}
		return "", err
	}
	return out.(string), nil
}

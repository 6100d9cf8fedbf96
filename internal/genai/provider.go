// Package genai builds the generation prompt, invokes the configured
// language-model provider, and validates the model output against the
// recommendation list contract.
package genai

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pvandewal/dayout/backend/internal/domain"
)

// GenerationProvider is the strategy interface over language-model backends.
// Two implementations exist (OpenAI, Anthropic); the active one is selected
// by configuration at startup, never by runtime string matching at call
// sites.
type GenerationProvider interface {
	Name() string
	// Generate sends one system+user prompt pair and returns the raw text
	// response. Implementations map provider failures onto the domain error
	// taxonomy via providerError.
	Generate(ctx context.Context, system, user string) (string, error)
}

// providerError maps an upstream HTTP status onto the typed provider error
// taxonomy. Rate limiting and billing problems get their own sentinels so
// callers can surface distinct messages; everything else collapses to the
// generic provider error carrying the raw status and body for diagnostics.
func providerError(status int, body string) error {
	switch status {
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w (status %d): %s", domain.ErrRateLimited, status, body)
	case http.StatusPaymentRequired:
		return fmt.Errorf("%w (status %d): %s", domain.ErrPaymentRequired, status, body)
	default:
		return fmt.Errorf("%w (status %d): %s", domain.ErrProvider, status, body)
	}
}

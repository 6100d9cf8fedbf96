package service_test

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pvandewal/dayout/backend/internal/domain"
	"github.com/pvandewal/dayout/backend/internal/service"
)

// stubCollector is a test double for the source aggregator.
type stubCollector struct {
	candidates []domain.ActivityCandidate
}

func (s *stubCollector) Collect(_ context.Context) ([]domain.ActivityCandidate, map[string]int) {
	return s.candidates, map[string]int{"static": len(s.candidates)}
}

// stubInvoker is a test double for the generation invoker.
type stubInvoker struct {
	response string
	err      error

	gotSystem string
	gotUser   string
	calls     int
}

func (s *stubInvoker) Invoke(_ context.Context, system, user string) (string, error) {
	s.calls++
	s.gotSystem = system
	s.gotUser = user
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

const stubResponse = `[
  {
    "id": "static-zoo",
    "title": "City Zoo",
    "description": "Big cats and a petting corner.",
    "location": {"address": "1 Zoo Lane", "coordinates": {"lat": 52.37, "lon": 4.89}},
    "date": "2025-12-06",
    "time": "10:00 - 16:00",
    "price": "$24",
    "matchReason": "The kids asked for animals."
  }
]`

func TestRecommendationService_Recommend_OK(t *testing.T) {
	collector := &stubCollector{
		candidates: []domain.ActivityCandidate{
			{ID: "static-zoo", Name: "City Zoo", SourceKind: domain.SourceStaticCatalog},
		},
	}
	invoker := &stubInvoker{response: stubResponse}
	svc := service.NewRecommendationService(collector, invoker, discard())

	items, err := svc.Recommend(context.Background(), domain.RecommendationRequest{
		FreeTextInterests: "animals",
		ReferenceDate:     time.Date(2025, 11, 29, 9, 0, 0, 0, time.UTC),
	})

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "City Zoo", items[0].Title)
	assert.Equal(t, 1, invoker.calls)
	assert.Contains(t, invoker.gotUser, "static-zoo", "candidate pool reaches the prompt")
	assert.True(t, strings.Contains(invoker.gotSystem, "2025-11-29"), "reference date reaches the prompt")
}

func TestRecommendationService_Recommend_ProviderErrorPropagates(t *testing.T) {
	invoker := &stubInvoker{err: domain.ErrRateLimited}
	svc := service.NewRecommendationService(&stubCollector{}, invoker, discard())

	_, err := svc.Recommend(context.Background(), domain.RecommendationRequest{})

	assert.ErrorIs(t, err, domain.ErrRateLimited)
}

func TestRecommendationService_Recommend_InvalidOutput(t *testing.T) {
	invoker := &stubInvoker{response: "I could not find anything suitable, sorry!"}
	svc := service.NewRecommendationService(&stubCollector{}, invoker, discard())

	_, err := svc.Recommend(context.Background(), domain.RecommendationRequest{})

	assert.ErrorIs(t, err, domain.ErrInvalidOutput)
}

func TestRecommendationService_Recommend_EmptyListIsValid(t *testing.T) {
	invoker := &stubInvoker{response: "[]"}
	svc := service.NewRecommendationService(&stubCollector{}, invoker, discard())

	items, err := svc.Recommend(context.Background(), domain.RecommendationRequest{})

	require.NoError(t, err)
	assert.Empty(t, items)
}

// Package service contains the business logic for the day planner backend.
// Services validate inputs, enforce state rules, and orchestrate source,
// generation, and repo calls. No SQL and no HTTP lives here.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pvandewal/dayout/backend/internal/domain"
	"github.com/pvandewal/dayout/backend/internal/genai"
)

// candidateCollector is the slice of the source aggregator the recommendation
// flow needs.
type candidateCollector interface {
	Collect(ctx context.Context) ([]domain.ActivityCandidate, map[string]int)
}

// generationInvoker is the slice of the genai invoker the recommendation flow
// needs.
type generationInvoker interface {
	Invoke(ctx context.Context, system, user string) (string, error)
}

// RecommendationService runs the full generation pipeline: aggregate the
// candidate pool, build the prompt, make the single provider call, and
// validate the response into a recommendation list.
type RecommendationService struct {
	sources candidateCollector
	invoker generationInvoker
	log     *slog.Logger
}

// NewRecommendationService constructs a RecommendationService.
func NewRecommendationService(sources candidateCollector, invoker generationInvoker, log *slog.Logger) *RecommendationService {
	return &RecommendationService{sources: sources, invoker: invoker, log: log}
}

// Recommend produces the validated shortlist for the given request.
// A zero ReferenceDate is resolved to the current instant. An empty result
// list is a valid outcome, not an error; the session layer turns it into the
// no-recommendations state.
func (s *RecommendationService) Recommend(ctx context.Context, req domain.RecommendationRequest) ([]domain.RecommendationItem, error) {
	if req.ReferenceDate.IsZero() {
		req.ReferenceDate = time.Now().UTC()
	}

	candidates, counts := s.sources.Collect(ctx)
	s.log.Info("candidate pool aggregated", "total", len(candidates), "perSource", counts)

	system, user, err := genai.BuildPrompt(req, candidates)
	if err != nil {
		return nil, fmt.Errorf("service.RecommendationService.Recommend: %w", err)
	}

	raw, err := s.invoker.Invoke(ctx, system, user)
	if err != nil {
		return nil, fmt.Errorf("service.RecommendationService.Recommend: %w", err)
	}

	items, err := genai.ParseRecommendations(raw)
	if err != nil {
		return nil, fmt.Errorf("service.RecommendationService.Recommend: %w", err)
	}

	s.log.Info("recommendations generated", "count", len(items))
	return items, nil
}

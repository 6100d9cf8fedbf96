// Package source fetches activity catalogs from heterogeneous upstreams and
// normalizes them into the common domain.ActivityCandidate shape.
// Each source has its own file with a fetcher and a normalizer; the
// Aggregator fans out to all of them concurrently.
package source

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/pvandewal/dayout/backend/internal/domain"
)

// Source is one activity catalog. Fetch returns normalized candidates with
// ids already namespaced "<name>-<raw id>" so merged pools never collide.
type Source interface {
	Name() string
	Kind() domain.SourceKind
	Fetch(ctx context.Context) ([]domain.ActivityCandidate, error)
}

// Aggregator fans out to every configured source and concatenates the
// results. A failing or malformed source is dropped with a logged warning;
// it never fails the whole aggregation.
type Aggregator struct {
	sources []Source
	timeout time.Duration
	log     *slog.Logger
}

// NewAggregator constructs an Aggregator. timeout bounds each individual
// source fetch so one slow upstream cannot stall the whole aggregation.
func NewAggregator(sources []Source, timeout time.Duration, log *slog.Logger) *Aggregator {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Aggregator{sources: sources, timeout: timeout, log: log}
}

// Collect fetches all sources concurrently and returns the concatenation of
// every successfully normalized candidate plus a per-source count for
// observability. Sources run with no ordering guarantee among them, but the
// output preserves each source's internal record order and concatenates in
// configured source order.
func (a *Aggregator) Collect(ctx context.Context) ([]domain.ActivityCandidate, map[string]int) {
	results := make([][]domain.ActivityCandidate, len(a.sources))

	var wg sync.WaitGroup
	for i, src := range a.sources {
		wg.Add(1)
		go func(i int, src Source) {
			defer wg.Done()

			fetchCtx, cancel := context.WithTimeout(ctx, a.timeout)
			defer cancel()

			candidates, err := src.Fetch(fetchCtx)
			if err != nil {
				a.log.Warn("source fetch failed, dropping source",
					"source", src.Name(), "error", err)
				return
			}
			results[i] = candidates
		}(i, src)
	}
	wg.Wait()

	var all []domain.ActivityCandidate
	counts := make(map[string]int, len(a.sources))
	for i, src := range a.sources {
		counts[src.Name()] = len(results[i])
		all = append(all, results[i]...)
	}
	return all, counts
}

package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/pvandewal/dayout/backend/internal/domain"
)

const ticketingSourceName = "tix"

// TicketingConfig configures the live events feed source.
type TicketingConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// ticketingEvent is the raw record shape of the live feed. The feed is not
// under our control, so optional fields are pointers and the envelope is
// parsed leniently.
type ticketingEvent struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Venue       string   `json:"venue"`
	Address     string   `json:"address"`
	Lat         *float64 `json:"lat,omitempty"`
	Lon         *float64 `json:"lon,omitempty"`
	PriceMin    *float64 `json:"price_min,omitempty"`
	PriceMax    *float64 `json:"price_max,omitempty"`
	StartsAt    string   `json:"starts_at"`
	EndsAt      string   `json:"ends_at"`
	Category    string   `json:"category"`
	ImageURL    string   `json:"image_url"`
}

// ticketingEnvelope covers the two response shapes the feed is known to
// return: {"events": [...]} and a bare top-level array.
type ticketingEnvelope struct {
	Events []ticketingEvent `json:"events"`
}

// TicketingFeed fetches the external live events/ticketing feed over HTTP.
type TicketingFeed struct {
	cfg    TicketingConfig
	client *http.Client
	log    *slog.Logger
}

// NewTicketingFeed constructs the live feed source with its own HTTP client.
func NewTicketingFeed(cfg TicketingConfig, log *slog.Logger) *TicketingFeed {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &TicketingFeed{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
		log:    log,
	}
}

func (s *TicketingFeed) Name() string            { return ticketingSourceName }
func (s *TicketingFeed) Kind() domain.SourceKind { return domain.SourceLiveTicketing }

// Fetch GETs the feed with a small bounded retry on transient failures
// (network errors and 5xx), then normalizes every record. Non-retryable
// upstream errors (4xx) fail the source immediately; the aggregator drops it.
func (s *TicketingFeed) Fetch(ctx context.Context) ([]domain.ActivityCandidate, error) {
	url := strings.TrimRight(s.cfg.BaseURL, "/") + "/events"

	var raw []byte
	backoff := retry.WithMaxRetries(2, retry.NewExponential(500*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		if s.cfg.APIKey != "" {
			req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
		}

		resp, err := s.client.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return retry.RetryableError(err)
		}
		if resp.StatusCode >= 500 {
			return retry.RetryableError(fmt.Errorf("ticketing feed %d: %s",
				resp.StatusCode, strings.TrimSpace(string(body))))
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("ticketing feed %d: %s",
				resp.StatusCode, strings.TrimSpace(string(body)))
		}
		raw = body
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("source.TicketingFeed.Fetch: %w", err)
	}

	events, err := parseTicketingBody(raw)
	if err != nil {
		return nil, fmt.Errorf("source.TicketingFeed.Fetch: %w", err)
	}

	candidates := make([]domain.ActivityCandidate, 0, len(events))
	for _, ev := range events {
		c, err := s.normalize(ev)
		if err != nil {
			s.log.Warn("dropping malformed feed record",
				"source", ticketingSourceName, "id", ev.ID, "error", err)
			continue
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

// parseTicketingBody accepts both the enveloped and bare-array shapes.
func parseTicketingBody(raw []byte) ([]ticketingEvent, error) {
	var env ticketingEnvelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Events != nil {
		return env.Events, nil
	}
	var events []ticketingEvent
	if err := json.Unmarshal(raw, &events); err != nil {
		return nil, fmt.Errorf("unrecognized feed shape: %w", err)
	}
	return events, nil
}

func (s *TicketingFeed) normalize(ev ticketingEvent) (domain.ActivityCandidate, error) {
	name := ev.Name
	if name == "" {
		name = ev.Title
	}
	if ev.ID == "" || name == "" {
		return domain.ActivityCandidate{}, fmt.Errorf("%w: id and name are required", domain.ErrValidation)
	}

	address := ev.Address
	if address == "" {
		address = ev.Venue
	}

	c := domain.ActivityCandidate{
		ID:          ticketingSourceName + "-" + ev.ID,
		Name:        name,
		Description: ev.Description,
		Address:     address,
		ImageURL:    ev.ImageURL,
		SourceKind:  domain.SourceLiveTicketing,
	}

	if ev.Category != "" {
		tag, err := domain.ParseTag(ev.Category)
		if err != nil {
			return domain.ActivityCandidate{}, err
		}
		c.Tags = []domain.Tag{tag}
	}
	if ev.Lat != nil && ev.Lon != nil {
		c.Coordinates = &domain.Coordinates{Lat: *ev.Lat, Lon: *ev.Lon}
	}
	if ev.PriceMin != nil && ev.PriceMax != nil {
		c.PriceRange = &domain.PriceRange{Min: *ev.PriceMin, Max: *ev.PriceMax}
	}
	if ev.StartsAt != "" {
		if t, err := time.Parse(time.RFC3339, ev.StartsAt); err == nil {
			t = t.UTC()
			c.StartTime = &t
		}
	}
	if ev.EndsAt != "" {
		if t, err := time.Parse(time.RFC3339, ev.EndsAt); err == nil {
			t = t.UTC()
			c.EndTime = &t
		}
	}
	return c, nil
}

package source

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/pvandewal/dayout/backend/internal/domain"
)

// catalogFS holds the built-in activity catalog embedded at compile time,
// so the static source works with zero configuration and no network.
//
//go:embed catalog.json
var catalogFS embed.FS

const staticSourceName = "static"

// catalogItem is the raw record shape of the embedded catalog file.
type catalogItem struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Address     string   `json:"address"`
	Lat         *float64 `json:"lat,omitempty"`
	Lon         *float64 `json:"lon,omitempty"`
	PriceMin    *float64 `json:"priceMin,omitempty"`
	PriceMax    *float64 `json:"priceMax,omitempty"`
	Tags        []string `json:"tags"`
	ImageURL    string   `json:"imageUrl,omitempty"`
}

// StaticCatalog serves the catalog shipped with the binary.
type StaticCatalog struct {
	log *slog.Logger
}

// NewStaticCatalog constructs the embedded-catalog source.
func NewStaticCatalog(log *slog.Logger) *StaticCatalog {
	return &StaticCatalog{log: log}
}

func (s *StaticCatalog) Name() string            { return staticSourceName }
func (s *StaticCatalog) Kind() domain.SourceKind { return domain.SourceStaticCatalog }

// Fetch decodes and normalizes the embedded catalog. Records that fail
// normalization are logged and dropped individually rather than failing the
// source.
func (s *StaticCatalog) Fetch(_ context.Context) ([]domain.ActivityCandidate, error) {
	raw, err := catalogFS.ReadFile("catalog.json")
	if err != nil {
		return nil, fmt.Errorf("source.StaticCatalog.Fetch: read catalog: %w", err)
	}

	var items []catalogItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("source.StaticCatalog.Fetch: decode catalog: %w", err)
	}

	candidates := make([]domain.ActivityCandidate, 0, len(items))
	for _, item := range items {
		c, err := s.normalize(item)
		if err != nil {
			s.log.Warn("dropping malformed catalog record",
				"source", staticSourceName, "id", item.ID, "error", err)
			continue
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

func (s *StaticCatalog) normalize(item catalogItem) (domain.ActivityCandidate, error) {
	if item.ID == "" || item.Name == "" {
		return domain.ActivityCandidate{}, fmt.Errorf("%w: id and name are required", domain.ErrValidation)
	}

	tags := make([]domain.Tag, 0, len(item.Tags))
	for _, raw := range item.Tags {
		tag, err := domain.ParseTag(raw)
		if err != nil {
			return domain.ActivityCandidate{}, err
		}
		tags = append(tags, tag)
	}

	c := domain.ActivityCandidate{
		ID:          staticSourceName + "-" + item.ID,
		Name:        item.Name,
		Description: item.Description,
		Address:     item.Address,
		Tags:        tags,
		ImageURL:    item.ImageURL,
		SourceKind:  domain.SourceStaticCatalog,
	}
	if item.Lat != nil && item.Lon != nil {
		c.Coordinates = &domain.Coordinates{Lat: *item.Lat, Lon: *item.Lon}
	}
	if item.PriceMin != nil && item.PriceMax != nil {
		c.PriceRange = &domain.PriceRange{Min: *item.PriceMin, Max: *item.PriceMax}
	}
	return c, nil
}

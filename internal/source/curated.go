package source

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pvandewal/dayout/backend/internal/domain"
)

const curatedSourceName = "curated"

// curatedDB is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn,
// and pgx.Tx, mirroring the repo layer's convention so integration tests can
// pass a rolled-back transaction.
type curatedDB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// CuratedStore reads the editor-maintained activities table.
type CuratedStore struct {
	db  curatedDB
	log *slog.Logger
}

// NewCuratedStore constructs the curated Postgres source.
func NewCuratedStore(db curatedDB, log *slog.Logger) *CuratedStore {
	return &CuratedStore{db: db, log: log}
}

func (s *CuratedStore) Name() string            { return curatedSourceName }
func (s *CuratedStore) Kind() domain.SourceKind { return domain.SourceCuratedDB }

// Fetch returns every curated activity, normalized. Rows that fail
// normalization (e.g. a tag outside the closed set) are logged and dropped
// individually.
func (s *CuratedStore) Fetch(ctx context.Context) ([]domain.ActivityCandidate, error) {
	const q = `
		SELECT id, name, description, address, lat, lon, price_min, price_max, tags, image_url
		FROM activities
		ORDER BY name`

	rows, err := s.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("source.CuratedStore.Fetch: %w", err)
	}
	defer rows.Close()

	var candidates []domain.ActivityCandidate
	for rows.Next() {
		c, err := scanActivity(rows)
		if err != nil {
			s.log.Warn("dropping malformed curated record",
				"source", curatedSourceName, "error", err)
			continue
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("source.CuratedStore.Fetch: rows: %w", err)
	}
	return candidates, nil
}

// scanActivity maps one activities row into a namespaced candidate.
func scanActivity(rows pgx.Rows) (domain.ActivityCandidate, error) {
	var (
		c                  domain.ActivityCandidate
		id                 string
		lat, lon           pgtype.Float8
		priceMin, priceMax pgtype.Float8
		rawTags            []string
		imageURL           pgtype.Text
	)

	err := rows.Scan(&id, &c.Name, &c.Description, &c.Address,
		&lat, &lon, &priceMin, &priceMax, &rawTags, &imageURL)
	if err != nil {
		return domain.ActivityCandidate{}, err
	}

	tags := make([]domain.Tag, 0, len(rawTags))
	for _, raw := range rawTags {
		tag, err := domain.ParseTag(raw)
		if err != nil {
			return domain.ActivityCandidate{}, err
		}
		tags = append(tags, tag)
	}

	c.ID = curatedSourceName + "-" + id
	c.Tags = tags
	c.SourceKind = domain.SourceCuratedDB
	if lat.Valid && lon.Valid {
		c.Coordinates = &domain.Coordinates{Lat: lat.Float64, Lon: lon.Float64}
	}
	if priceMin.Valid && priceMax.Valid {
		c.PriceRange = &domain.PriceRange{Min: priceMin.Float64, Max: priceMax.Float64}
	}
	if imageURL.Valid {
		c.ImageURL = imageURL.String
	}
	return c, nil
}

package source_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pvandewal/dayout/backend/internal/domain"
	"github.com/pvandewal/dayout/backend/internal/source"
)

func TestStaticCatalog_Fetch(t *testing.T) {
	src := source.NewStaticCatalog(discard())

	got, err := src.Fetch(context.Background())

	require.NoError(t, err)
	require.NotEmpty(t, got)

	for _, c := range got {
		assert.True(t, strings.HasPrefix(c.ID, "static-"), "id %q must be namespaced", c.ID)
		assert.Equal(t, domain.SourceStaticCatalog, c.SourceKind)
		assert.NotEmpty(t, c.Name)
	}
}

func TestStaticCatalog_TagsAreClosedSet(t *testing.T) {
	src := source.NewStaticCatalog(discard())

	got, err := src.Fetch(context.Background())

	require.NoError(t, err)
	for _, c := range got {
		for _, tag := range c.Tags {
			_, err := domain.ParseTag(string(tag))
			assert.NoError(t, err, "catalog tag %q outside closed set", tag)
		}
	}
}

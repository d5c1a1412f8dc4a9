package services

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"lingoboard/internal/datasource"
	"lingoboard/internal/models"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newFixtureSource(t *testing.T) *datasource.MockSource {
	t.Helper()
	src, err := datasource.NewMockSource(0)
	require.NoError(t, err)
	return src
}

func loadFixtures(t *testing.T) (*datasource.Snapshot, *Enricher) {
	t.Helper()
	snap, err := newFixtureSource(t).Load(context.Background())
	require.NoError(t, err)
	return snap, NewEnricher(snap)
}

// brokenSource fails every call.
type brokenSource struct{}

func (brokenSource) Load(context.Context) (*datasource.Snapshot, error) {
	return nil, errors.Wrap(datasource.ErrBackend, "503 Service Unavailable")
}

func (brokenSource) Apply(context.Context, datasource.Action) error {
	return errors.Wrap(datasource.ErrBackend, "503 Service Unavailable")
}

func ids[T any](items []T, id func(T) string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, id(it))
	}
	return out
}

func postIDs(posts []models.PostWithUser) []string {
	return ids(posts, func(p models.PostWithUser) string { return p.ID })
}

func commentIDs(nodes []*models.CommentWithUser) []string {
	return ids(nodes, func(c *models.CommentWithUser) string { return c.ID })
}

func ptr[T any](v T) *T { return &v }

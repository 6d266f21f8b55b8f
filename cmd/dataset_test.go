package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adalundhe/mentor/core/config"
	"github.com/adalundhe/mentor/core/recommend"
)

const datasetFixture = `
users:
  - id: user_1
    interests: [python]
    skill_level: beginner
    preferred_categories: [programming]
    preferred_format: video
content:
  - id: course_1
    title: Python Fundamentals
    category: programming
    difficulty: beginner
    tags: [python, basics]
    content_type: video
    view_count: 500
    avg_rating: 4.4
  - id: course_2
    title: Watercolor Basics
    category: art
    difficulty: intermediate
    tags: [painting]
    content_type: interactive
interactions:
  - user_id: user_1
    item_id: course_1
    type: lesson_complete
    rating: 5
`

func TestLoadDatasetAndSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.yaml")
	require.NoError(t, os.WriteFile(path, []byte(datasetFixture), 0o644))

	ds, err := LoadDataset(path)
	require.NoError(t, err)
	require.Len(t, ds.Users, 1)
	require.Len(t, ds.Content, 2)
	require.Len(t, ds.Interactions, 1)

	cfg := config.DefaultConfig()
	cfg.Models.Dir = t.TempDir()
	engine := recommend.NewEngine(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, ds.Seed(context.Background(), engine))

	status := engine.Status()
	assert.Equal(t, 1, status.Users)
	assert.Equal(t, 2, status.ContentItems)
	assert.Equal(t, 1, status.Interactions)
}

func TestLoadDatasetMissingFile(t *testing.T) {
	_, err := LoadDataset(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadDatasetEventIDsDeterministic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.yaml")
	require.NoError(t, os.WriteFile(path, []byte(datasetFixture), 0o644))

	first, err := LoadDataset(path)
	require.NoError(t, err)
	second, err := LoadDataset(path)
	require.NoError(t, err)

	require.Len(t, first.Interactions, 1)
	assert.NotEmpty(t, first.Interactions[0].ID)
	assert.Equal(t, first.Interactions[0].ID, second.Interactions[0].ID)
}

func TestSeedEngineReseedIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.yaml")
	require.NoError(t, os.WriteFile(path, []byte(datasetFixture), 0o644))
	t.Setenv("MENTOR_EVENT_DB", filepath.Join(dir, "events.db"))

	ctx := context.Background()
	first, err := seedEngine(ctx, path)
	require.NoError(t, err)
	require.Equal(t, 1, first.Status().Interactions)

	// A second run replays the persisted events and re-seeds the same
	// dataset; the log and the event DB must not grow.
	second, err := seedEngine(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 1, second.Status().Interactions)
	assert.Equal(t, 1, second.Status().Users)
}

package models

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollaborativeSnapshotRoundTrip(t *testing.T) {
	dir := t.TempDir()
	users := []string{"user_1", "user_2", "user_3", "user_4"}
	items := []string{"item_1", "item_2", "item_3", "item_4"}

	trained, err := TrainCollaborative(testMatrix(), users, items, DefaultNMFConfig())
	require.NoError(t, err)
	require.NoError(t, SaveCollaborative(dir, trained))

	loaded, err := LoadCollaborative(dir)
	require.NoError(t, err)

	ratings := map[string]float64{"item_1": 5, "item_2": 4}
	want, err := trained.ScoreUser("user_1", ratings)
	require.NoError(t, err)
	got, err := loaded.ScoreUser("user_1", ratings)
	require.NoError(t, err)

	require.Len(t, got, len(want))
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-12,
			"restored model must reproduce identical scores")
	}
}

func TestContentSnapshotRoundTrip(t *testing.T) {
	dir := t.TempDir()
	docs := []string{"go concurrency channels", "go generics", "rust borrow checker"}
	items := []string{"c1", "c2", "c3"}

	trained, err := TrainContent(docs, items, 0)
	require.NoError(t, err)
	require.NoError(t, SaveContent(dir, trained))

	loaded, err := LoadContent(dir)
	require.NoError(t, err)

	wantRow, ok := trained.ItemRow("c1")
	require.True(t, ok)
	gotRow, ok := loaded.ItemRow("c1")
	require.True(t, ok)

	require.Len(t, gotRow, len(wantRow))
	for i := range wantRow {
		assert.InDelta(t, wantRow[i], gotRow[i], 1e-12)
	}
}

func TestHybridSnapshotRoundTrip(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, SaveHybrid(dir, &Hybrid{CollaborativeWeight: 0.6, ContentWeight: 0.4}))

	loaded, err := LoadHybrid(dir)
	require.NoError(t, err)
	assert.Equal(t, 0.6, loaded.CollaborativeWeight)
	assert.Equal(t, 0.4, loaded.ContentWeight)
}

func TestLoadMissingSnapshot(t *testing.T) {
	_, err := LoadCollaborative(t.TempDir())
	assert.Error(t, err, "missing snapshot is an error the caller degrades on")
}

func TestLoadCorruptSnapshot(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ContentSnapshotFile), []byte("not a gob"), 0o644))

	_, err := LoadContent(dir)
	assert.Error(t, err)
}

func TestSaveUntrained(t *testing.T) {
	dir := t.TempDir()
	assert.ErrorIs(t, SaveCollaborative(dir, nil), ErrNotTrained)
	assert.ErrorIs(t, SaveContent(dir, nil), ErrNotTrained)
	assert.ErrorIs(t, SaveHybrid(dir, nil), ErrNotTrained)
}

func TestWatcherFiresOnSnapshotWrite(t *testing.T) {
	dir := t.TempDir()
	reloaded := make(chan struct{}, 1)

	w, err := NewWatcher(dir, func() {
		select {
		case reloaded <- struct{}{}:
		default:
		}
	}, nil)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, SaveHybrid(dir, &Hybrid{CollaborativeWeight: 0.6, ContentWeight: 0.4}))

	select {
	case <-reloaded:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not fire after snapshot write")
	}
}

func TestWatcherIgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	reloaded := make(chan struct{}, 1)

	w, err := NewWatcher(dir, func() {
		select {
		case reloaded <- struct{}{}:
		default:
		}
	}, nil)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	select {
	case <-reloaded:
		t.Fatal("watcher fired for a non-snapshot file")
	case <-time.After(1 * time.Second):
	}
}

package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adalundhe/mentor/core/domain"
)

func TestUserRegistryUpsertIdempotent(t *testing.T) {
	reg := NewUserRegistry()

	profile := &domain.UserProfile{ID: "user_1", SkillLevel: domain.SkillBeginner}
	require.NoError(t, reg.Upsert(profile))
	require.NoError(t, reg.Upsert(profile))

	assert.Equal(t, 1, reg.Len())
	assert.Equal(t, []string{"user_1"}, reg.IDs())
}

func TestUserRegistryRejectsInvalid(t *testing.T) {
	reg := NewUserRegistry()
	err := reg.Upsert(&domain.UserProfile{})
	assert.Error(t, err)
	assert.Equal(t, 0, reg.Len())
}

func TestCatalogInsertionOrder(t *testing.T) {
	catalog := NewCatalog()

	for _, id := range []string{"course_2", "course_1", "course_3"} {
		require.NoError(t, catalog.Upsert(&domain.ContentItem{ID: id}))
	}
	// Upserting an existing id must not disturb iteration order.
	require.NoError(t, catalog.Upsert(&domain.ContentItem{ID: "course_1", Title: "updated"}))

	assert.Equal(t, []string{"course_2", "course_1", "course_3"}, catalog.IDs())
	assert.Equal(t, 3, catalog.Len())
	assert.Equal(t, "updated", catalog.Get("course_1").Title)
}

func TestInteractionLogAppendAndIndexes(t *testing.T) {
	log := NewInteractionLog()

	require.NoError(t, log.Append(domain.NewInteraction("user_1", "course_1", domain.InteractionView)))
	require.NoError(t, log.Append(domain.NewInteraction("user_1", "course_2", domain.InteractionLessonComplete)))
	require.NoError(t, log.Append(domain.NewInteraction("user_2", "course_1", domain.InteractionView)))

	assert.Equal(t, 3, log.Len())
	assert.Equal(t, 2, log.UserCount("user_1"))
	assert.Len(t, log.ForItem("course_1"), 2)
	assert.Equal(t, []string{"user_1", "user_2"}, log.UserIDs())
	assert.Equal(t, []string{"course_1", "course_2"}, log.ItemIDs())

	consumed := log.ConsumedItems("user_1")
	_, ok := consumed["course_2"]
	assert.True(t, ok)
}

func TestInteractionLogAppendDedupesByID(t *testing.T) {
	log := NewInteractionLog()

	event := domain.NewInteraction("user_1", "course_1", domain.InteractionView)
	require.NoError(t, log.Append(event))
	require.NoError(t, log.Append(event))
	replay := *event
	require.NoError(t, log.Append(&replay))

	assert.Equal(t, 1, log.Len())
	assert.Equal(t, 1, log.UserCount("user_1"))
}

func TestInteractionLogRatingsKeepStrongestSignal(t *testing.T) {
	log := NewInteractionLog()

	view := domain.NewInteraction("user_1", "course_1", domain.InteractionView)
	complete := domain.NewInteraction("user_1", "course_1", domain.InteractionLessonComplete)
	require.NoError(t, log.Append(view))
	require.NoError(t, log.Append(complete))

	ratings := log.Ratings()
	assert.Equal(t, 5.0, ratings["user_1"]["course_1"])
}

func TestEventStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")
	es, err := OpenEventStore(path)
	require.NoError(t, err)
	defer es.Close()

	ctx := context.Background()
	score := 85.0
	event := domain.NewInteraction("user_1", "course_1", domain.InteractionQuizAttempt)
	event.Score = &score
	event.Timestamp = time.Date(2026, 3, 14, 15, 9, 2, 0, time.UTC)

	require.NoError(t, es.Append(ctx, event))
	// Replays must not duplicate rows.
	require.NoError(t, es.Append(ctx, event))

	n, err := es.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	loaded, err := es.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)

	got := loaded[0]
	assert.Equal(t, event.ID, got.ID)
	assert.Equal(t, domain.InteractionQuizAttempt, got.Type)
	require.NotNil(t, got.Score)
	assert.Equal(t, 85.0, *got.Score)
	assert.Nil(t, got.Rating)
	assert.True(t, got.Timestamp.Equal(event.Timestamp))
}

package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adalundhe/mentor/core/domain"
)

func testIndex(t *testing.T) *CatalogIndex {
	t.Helper()
	idx, err := NewCatalogIndex(0)
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })

	items := []*domain.ContentItem{
		{
			ID:          "course_1",
			Title:       "Python Fundamentals",
			Description: "Learn the basics of Python programming",
			Category:    "programming",
			Tags:        []string{"python", "data-science"},
		},
		{
			ID:          "course_2",
			Title:       "Web Development with Python",
			Description: "Build web applications",
			Category:    "programming",
			Tags:        []string{"python", "web"},
		},
		{
			ID:          "course_3",
			Title:       "Watercolor Painting",
			Description: "Brushes, pigment, and paper",
			Category:    "art",
			Tags:        []string{"painting"},
		},
	}
	for _, item := range items {
		require.NoError(t, idx.Index(item))
	}
	return idx
}

func TestCatalogSearchMatch(t *testing.T) {
	idx := testIndex(t)

	hits, err := idx.Search("python", 10)
	require.NoError(t, err)
	require.Len(t, hits, 2)

	ids := []string{hits[0].ID, hits[1].ID}
	assert.Contains(t, ids, "course_1")
	assert.Contains(t, ids, "course_2")
	assert.NotContains(t, ids, "course_3")
}

func TestCatalogSearchLimit(t *testing.T) {
	idx := testIndex(t)

	hits, err := idx.Search("python", 1)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestCatalogSearchTagFilter(t *testing.T) {
	idx := testIndex(t)

	hits, err := idx.Search("python", 10, TagPattern("web*"))
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "course_2", hits[0].ID)
}

func TestCatalogSearchCategoryFilter(t *testing.T) {
	idx := testIndex(t)

	hits, err := idx.Search("painting", 10, CategoryPattern("art"))
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "course_3", hits[0].ID)

	hits, err = idx.Search("painting", 10, CategoryPattern("programming"))
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestCatalogSearchEmptyQuery(t *testing.T) {
	idx := testIndex(t)

	hits, err := idx.Search("   ", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestCatalogIndexUpsert(t *testing.T) {
	idx := testIndex(t)
	require.Equal(t, 3, idx.Len())

	require.NoError(t, idx.Index(&domain.ContentItem{
		ID:    "course_1",
		Title: "Python Fundamentals, Second Edition",
		Tags:  []string{"python"},
	}))
	assert.Equal(t, 3, idx.Len(), "re-indexing an id must not grow the index")
}

func TestCatalogIndexRejectsMissingID(t *testing.T) {
	idx := testIndex(t)
	assert.Error(t, idx.Index(&domain.ContentItem{}))
}

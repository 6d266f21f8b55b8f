// Package search provides full-text search over the content catalog,
// backed by an in-memory Bleve index with a Ristretto query cache and
// optional glob filters on tags and categories.
package search

import (
	"fmt"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/dgraph-io/ristretto"
	"github.com/gobwas/glob"

	"github.com/adalundhe/mentor/core/domain"
)

// DefaultQueryCacheCost bounds the query cache to ~1MB of cached result
// lists.
const DefaultQueryCacheCost = 1 << 20

// catalogDocument is the shape indexed in Bleve.
type catalogDocument struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
}

// Hit is one scored search result.
type Hit struct {
	ID    string
	Score float64
}

// Filter narrows search results after scoring.
type Filter func(item *domain.ContentItem) bool

// TagPattern filters to items with at least one tag matching the glob
// pattern. An invalid pattern matches nothing.
func TagPattern(pattern string) Filter {
	g, err := glob.Compile(pattern)
	return func(item *domain.ContentItem) bool {
		if err != nil {
			return false
		}
		for _, tag := range item.Tags {
			if g.Match(tag) {
				return true
			}
		}
		return false
	}
}

// CategoryPattern filters to items whose category matches the glob
// pattern.
func CategoryPattern(pattern string) Filter {
	g, err := glob.Compile(pattern)
	return func(item *domain.ContentItem) bool {
		if err != nil {
			return false
		}
		return g.Match(item.Category)
	}
}

// CatalogIndex indexes content items for full-text search. Items are
// kept by id so filters can inspect the full record after Bleve scores
// the text match.
type CatalogIndex struct {
	index bleve.Index
	cache *ristretto.Cache

	mu    sync.RWMutex
	items map[string]*domain.ContentItem
}

// NewCatalogIndex builds an empty in-memory catalog index. maxCacheCost
// <= 0 selects DefaultQueryCacheCost.
func NewCatalogIndex(maxCacheCost int64) (*CatalogIndex, error) {
	if maxCacheCost <= 0 {
		maxCacheCost = DefaultQueryCacheCost
	}

	index, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create catalog index: %w", err)
	}

	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e5,
		MaxCost:     maxCacheCost,
		BufferItems: 64,
	})
	if err != nil {
		index.Close()
		return nil, fmt.Errorf("create query cache: %w", err)
	}

	return &CatalogIndex{
		index: index,
		cache: cache,
		items: make(map[string]*domain.ContentItem),
	}, nil
}

// Index adds or replaces an item. Any cached query results are
// invalidated.
func (c *CatalogIndex) Index(item *domain.ContentItem) error {
	if item == nil || item.ID == "" {
		return fmt.Errorf("catalog index: %w", domain.ErrMissingID)
	}

	doc := catalogDocument{
		Title:       item.Title,
		Description: item.Description,
		Category:    item.Category,
		Tags:        item.Tags,
	}
	if err := c.index.Index(item.ID, doc); err != nil {
		return fmt.Errorf("index item %s: %w", item.ID, err)
	}

	c.mu.Lock()
	c.items[item.ID] = item
	c.mu.Unlock()

	c.cache.Clear()
	return nil
}

// Len returns the number of indexed items.
func (c *CatalogIndex) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Search runs a match query over titles, descriptions, categories, and
// tags, applies any filters, and returns up to limit hits in descending
// score order. Filtered searches bypass the cache key of the bare
// query.
func (c *CatalogIndex) Search(query string, limit int, filters ...Filter) ([]Hit, error) {
	if limit <= 0 || strings.TrimSpace(query) == "" {
		return nil, nil
	}

	cacheKey := fmt.Sprintf("%s|%d|%d", query, limit, len(filters))
	if len(filters) == 0 {
		if cached, ok := c.cache.Get(cacheKey); ok {
			if hits, ok := cached.([]Hit); ok {
				return hits, nil
			}
		}
	}

	// Over-fetch so post-scoring filters still have candidates to keep.
	fetch := limit
	if len(filters) > 0 {
		fetch = limit * 4
	}

	req := bleve.NewSearchRequestOptions(bleve.NewMatchQuery(query), fetch, 0, false)
	result, err := c.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	c.mu.RLock()
	hits := make([]Hit, 0, len(result.Hits))
	for _, match := range result.Hits {
		item := c.items[match.ID]
		if item == nil {
			continue
		}
		if !passes(item, filters) {
			continue
		}
		hits = append(hits, Hit{ID: match.ID, Score: match.Score})
		if len(hits) == limit {
			break
		}
	}
	c.mu.RUnlock()

	if len(filters) == 0 {
		c.cache.Set(cacheKey, hits, int64(len(hits)+1))
	}
	return hits, nil
}

func passes(item *domain.ContentItem, filters []Filter) bool {
	for _, filter := range filters {
		if !filter(item) {
			return false
		}
	}
	return true
}

// Close releases the index and cache.
func (c *CatalogIndex) Close() error {
	c.cache.Close()
	return c.index.Close()
}

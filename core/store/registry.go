// Package store holds the in-memory registries the engine reads from:
// user profiles, the content catalog, and the append-only interaction
// log, plus optional sqlite persistence for interaction events.
package store

import (
	"sync"

	"github.com/adalundhe/mentor/core/domain"
)

// =============================================================================
// UserRegistry
// =============================================================================

// UserRegistry holds user profiles keyed by id with upsert semantics.
// Iteration order is insertion order, kept stable across upserts so
// derived matrices map back to the same rows between rebuilds.
type UserRegistry struct {
	mu    sync.RWMutex
	users map[string]*domain.UserProfile
	order []string
}

func NewUserRegistry() *UserRegistry {
	return &UserRegistry{
		users: make(map[string]*domain.UserProfile),
	}
}

// Upsert adds or replaces a profile. Re-adding an existing id replaces
// the stored profile without growing the registry.
func (r *UserRegistry) Upsert(profile *domain.UserProfile) error {
	if err := profile.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[profile.ID]; !exists {
		r.order = append(r.order, profile.ID)
	}
	r.users[profile.ID] = profile
	return nil
}

// Get returns the profile for id, or nil when unknown.
func (r *UserRegistry) Get(id string) *domain.UserProfile {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.users[id]
}

func (r *UserRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}

// IDs returns user ids in insertion order.
func (r *UserRegistry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, len(r.order))
	copy(ids, r.order)
	return ids
}

// =============================================================================
// Catalog
// =============================================================================

// Catalog holds content items keyed by id with upsert semantics and
// stable insertion-order iteration.
type Catalog struct {
	mu    sync.RWMutex
	items map[string]*domain.ContentItem
	order []string
}

func NewCatalog() *Catalog {
	return &Catalog{
		items: make(map[string]*domain.ContentItem),
	}
}

// Upsert adds or replaces a content item.
func (c *Catalog) Upsert(item *domain.ContentItem) error {
	if err := item.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[item.ID]; !exists {
		c.order = append(c.order, item.ID)
	}
	c.items[item.ID] = item
	return nil
}

// Get returns the item for id, or nil when unknown.
func (c *Catalog) Get(id string) *domain.ContentItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.items[id]
}

func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// IDs returns item ids in insertion order.
func (c *Catalog) IDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]string, len(c.order))
	copy(ids, c.order)
	return ids
}

// Items returns the items in insertion order.
func (c *Catalog) Items() []*domain.ContentItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	items := make([]*domain.ContentItem, 0, len(c.order))
	for _, id := range c.order {
		items = append(items, c.items[id])
	}
	return items
}

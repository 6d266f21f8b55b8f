package store

import (
	"sync"

	"github.com/adalundhe/mentor/core/domain"
)

// InteractionLog is the append-only engagement event log. Events are
// never mutated or deleted once appended; retention is an external
// concern.
type InteractionLog struct {
	mu     sync.RWMutex
	events []*domain.Interaction
	ids    map[string]struct{}
	byUser map[string][]*domain.Interaction
	byItem map[string][]*domain.Interaction
}

func NewInteractionLog() *InteractionLog {
	return &InteractionLog{
		ids:    make(map[string]struct{}),
		byUser: make(map[string][]*domain.Interaction),
		byItem: make(map[string][]*domain.Interaction),
	}
}

// Append records an event. Missing ids and timestamps are filled in.
// An event id already present in the log is a no-op, mirroring the
// dedupe in the on-disk event store so replays stay idempotent.
func (l *InteractionLog) Append(event *domain.Interaction) error {
	if err := event.Validate(); err != nil {
		return err
	}
	event.Fill()

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.ids[event.ID]; ok {
		return nil
	}
	l.ids[event.ID] = struct{}{}
	l.events = append(l.events, event)
	l.byUser[event.UserID] = append(l.byUser[event.UserID], event)
	l.byItem[event.ItemID] = append(l.byItem[event.ItemID], event)
	return nil
}

func (l *InteractionLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.events)
}

// ForUser returns the user's events in append order.
func (l *InteractionLog) ForUser(userID string) []*domain.Interaction {
	l.mu.RLock()
	defer l.mu.RUnlock()
	events := make([]*domain.Interaction, len(l.byUser[userID]))
	copy(events, l.byUser[userID])
	return events
}

// ForItem returns the item's events in append order.
func (l *InteractionLog) ForItem(itemID string) []*domain.Interaction {
	l.mu.RLock()
	defer l.mu.RUnlock()
	events := make([]*domain.Interaction, len(l.byItem[itemID]))
	copy(events, l.byItem[itemID])
	return events
}

// UserCount returns how many events a user has logged.
func (l *InteractionLog) UserCount(userID string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.byUser[userID])
}

// ConsumedItems returns the set of item ids the user has interacted with.
func (l *InteractionLog) ConsumedItems(userID string) map[string]struct{} {
	l.mu.RLock()
	defer l.mu.RUnlock()

	consumed := make(map[string]struct{})
	for _, event := range l.byUser[userID] {
		consumed[event.ItemID] = struct{}{}
	}
	return consumed
}

// Ratings aggregates the log into per-user per-item engagement ratings.
// Repeated interactions on the same item keep the strongest signal.
func (l *InteractionLog) Ratings() map[string]map[string]float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	ratings := make(map[string]map[string]float64, len(l.byUser))
	for userID, events := range l.byUser {
		row := make(map[string]float64)
		for _, event := range events {
			r := event.EffectiveRating()
			if r > row[event.ItemID] {
				row[event.ItemID] = r
			}
		}
		ratings[userID] = row
	}
	return ratings
}

// UserIDs returns every user id present in the log, in first-seen order.
func (l *InteractionLog) UserIDs() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	seen := make(map[string]struct{}, len(l.byUser))
	var ids []string
	for _, event := range l.events {
		if _, ok := seen[event.UserID]; ok {
			continue
		}
		seen[event.UserID] = struct{}{}
		ids = append(ids, event.UserID)
	}
	return ids
}

// ItemIDs returns every item id present in the log, in first-seen order.
func (l *InteractionLog) ItemIDs() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	seen := make(map[string]struct{}, len(l.byItem))
	var ids []string
	for _, event := range l.events {
		if _, ok := seen[event.ItemID]; ok {
			continue
		}
		seen[event.ItemID] = struct{}{}
		ids = append(ids, event.ItemID)
	}
	return ids
}

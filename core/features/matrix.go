// Package features converts raw registry and log records into the
// numeric structures the models train on: the user-item rating matrix
// and the TF-IDF content feature matrix.
package features

import (
	"gonum.org/v1/gonum/mat"

	"github.com/adalundhe/mentor/core/store"
)

// BuildUserItemMatrix produces a dense matrix with one row per user and
// one column per item appearing in the interaction log. Cell values are
// effective ratings; absent pairs are zero. The returned id slices give
// the row and column orderings so scores map back to identifiers.
//
// An empty log returns a nil matrix and empty orderings; callers must
// treat that as "cannot train collaboratively yet".
func BuildUserItemMatrix(log *store.InteractionLog) (*mat.Dense, []string, []string) {
	userIDs := log.UserIDs()
	itemIDs := log.ItemIDs()
	if len(userIDs) == 0 || len(itemIDs) == 0 {
		return nil, nil, nil
	}

	itemIndex := make(map[string]int, len(itemIDs))
	for i, id := range itemIDs {
		itemIndex[id] = i
	}

	ratings := log.Ratings()
	m := mat.NewDense(len(userIDs), len(itemIDs), nil)
	for row, userID := range userIDs {
		for itemID, rating := range ratings[userID] {
			m.Set(row, itemIndex[itemID], rating)
		}
	}
	return m, userIDs, itemIDs
}

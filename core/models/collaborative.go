package models

import (
	"gonum.org/v1/gonum/mat"

	"github.com/adalundhe/mentor/core/features"
)

// Collaborative is the fitted collaborative-filtering model: a scaled
// user-item matrix factorized by NMF, plus the id orderings and fitted
// scaler needed to score any user later without retraining, and a
// user-user cosine similarity matrix for introspection.
type Collaborative struct {
	Factorization *NMF
	Scaler        *features.ColumnScaler
	UserIDs       []string
	ItemIDs       []string
	UserSim       *mat.Dense

	userIndex map[string]int
}

// TrainCollaborative fits the model from the raw user-item rating
// matrix and its id orderings.
func TrainCollaborative(m *mat.Dense, userIDs, itemIDs []string, cfg NMFConfig) (*Collaborative, error) {
	if m == nil {
		return nil, ErrEmptyMatrix
	}

	scaler := features.FitColumnScaler(m)
	scaled := scaler.Transform(m)

	factorization, err := FitNMF(scaled, cfg)
	if err != nil {
		return nil, err
	}

	model := &Collaborative{
		Factorization: factorization,
		Scaler:        scaler,
		UserIDs:       userIDs,
		ItemIDs:       itemIDs,
	}
	model.UserSim = userSimilarity(factorization.W)
	model.buildIndex()
	return model, nil
}

func (c *Collaborative) buildIndex() {
	c.userIndex = make(map[string]int, len(c.UserIDs))
	for i, id := range c.UserIDs {
		c.userIndex[id] = i
	}
}

// KnowsUser reports whether the user was present at training time. Users
// not in the trained ordering are on the cold-start side of the boundary
// and cannot be scored collaboratively.
func (c *Collaborative) KnowsUser(userID string) bool {
	_, ok := c.userIndex[userID]
	return ok
}

// ScoreUser scores every trained item for the user. ratings is the
// user's current per-item engagement; entries for items outside the
// trained column ordering are ignored. Returns raw scores aligned with
// ItemIDs.
func (c *Collaborative) ScoreUser(userID string, ratings map[string]float64) ([]float64, error) {
	if c.Factorization == nil {
		return nil, ErrNotTrained
	}
	if !c.KnowsUser(userID) {
		return nil, ErrNotTrained
	}

	row := make([]float64, len(c.ItemIDs))
	for j, itemID := range c.ItemIDs {
		row[j] = ratings[itemID]
	}

	scaled := c.Scaler.TransformRow(row)
	factors := c.Factorization.TransformRow(scaled, 0)
	return c.Factorization.Score(factors), nil
}

// SimilarUsers returns (user id, similarity) pairs for every other
// trained user with similarity strictly above threshold, unsorted.
func (c *Collaborative) SimilarUsers(userID string, threshold float64) []Neighbor {
	idx, ok := c.userIndex[userID]
	if !ok || c.UserSim == nil {
		return nil
	}

	var neighbors []Neighbor
	for i, other := range c.UserIDs {
		if i == idx {
			continue
		}
		sim := c.UserSim.At(idx, i)
		if sim > threshold {
			neighbors = append(neighbors, Neighbor{ID: other, Similarity: sim})
		}
	}
	return neighbors
}

// Neighbor is one (id, similarity) introspection result.
type Neighbor struct {
	ID         string
	Similarity float64
}

// userSimilarity computes the pairwise cosine similarity of the latent
// user factor rows.
func userSimilarity(w *mat.Dense) *mat.Dense {
	rows, _ := w.Dims()
	sim := mat.NewDense(rows, rows, nil)
	for i := 0; i < rows; i++ {
		sim.Set(i, i, 1)
		for j := i + 1; j < rows; j++ {
			s := cosine(w.RawRowView(i), w.RawRowView(j))
			sim.Set(i, j, s)
			sim.Set(j, i, s)
		}
	}
	return sim
}

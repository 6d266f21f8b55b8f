package models

import (
	"github.com/viterin/vek"
	"gonum.org/v1/gonum/mat"

	"github.com/adalundhe/mentor/core/features"
)

// Content is the fitted content-based model: the TF-IDF vectorizer and
// the full pairwise cosine similarity matrix across catalog items.
type Content struct {
	Vectorizer *features.Vectorizer
	ItemIDs    []string
	Sim        *mat.Dense

	itemIndex map[string]int
}

// TrainContent vectorizes the item texts and computes the pairwise
// similarity matrix. docs and itemIDs are parallel, in catalog order.
func TrainContent(docs []string, itemIDs []string, maxFeatures int) (*Content, error) {
	if len(docs) == 0 {
		return nil, ErrEmptyMatrix
	}

	vectorizer, err := features.NewVectorizer(maxFeatures)
	if err != nil {
		return nil, err
	}

	featureMatrix := vectorizer.FitTransform(docs)
	if featureMatrix == nil {
		return nil, ErrEmptyMatrix
	}

	model := &Content{
		Vectorizer: vectorizer,
		ItemIDs:    itemIDs,
		Sim:        pairwiseCosine(featureMatrix),
	}
	model.buildIndex()
	return model, nil
}

func (c *Content) buildIndex() {
	c.itemIndex = make(map[string]int, len(c.ItemIDs))
	for i, id := range c.ItemIDs {
		c.itemIndex[id] = i
	}
}

// ItemRow returns the similarity row for an item id. ok is false when
// the item was not part of training.
func (c *Content) ItemRow(itemID string) (row []float64, ok bool) {
	idx, ok := c.itemIndex[itemID]
	if !ok || c.Sim == nil {
		return nil, false
	}
	return c.Sim.RawRowView(idx), true
}

// SimilarContent returns (item id, similarity) pairs for every other
// trained item with similarity strictly above threshold, unsorted.
func (c *Content) SimilarContent(itemID string, threshold float64) []Neighbor {
	row, ok := c.ItemRow(itemID)
	if !ok {
		return nil
	}

	var neighbors []Neighbor
	for i, other := range c.ItemIDs {
		if other == itemID {
			continue
		}
		if row[i] > threshold {
			neighbors = append(neighbors, Neighbor{ID: other, Similarity: row[i]})
		}
	}
	return neighbors
}

// pairwiseCosine computes the symmetric cosine similarity matrix of the
// feature rows. Rows are already L2-normalized, so this is a dot
// product, but cosine keeps the result correct for restored snapshots
// regardless of normalization.
func pairwiseCosine(m *mat.Dense) *mat.Dense {
	rows, _ := m.Dims()
	sim := mat.NewDense(rows, rows, nil)
	for i := 0; i < rows; i++ {
		sim.Set(i, i, 1)
		for j := i + 1; j < rows; j++ {
			s := cosine(m.RawRowView(i), m.RawRowView(j))
			sim.Set(i, j, s)
			sim.Set(j, i, s)
		}
	}
	return sim
}

// cosine is vek cosine similarity with a zero-vector guard: all-zero
// rows (items whose text contributed no vocabulary terms) similarity 0
// instead of NaN.
func cosine(a, b []float64) float64 {
	if vek.Norm(a) == 0 || vek.Norm(b) == 0 {
		return 0
	}
	return vek.CosineSimilarity(a, b)
}

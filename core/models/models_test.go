package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func testMatrix() *mat.Dense {
	// Two taste clusters: users 0-1 like items 0-1, users 2-3 like items 2-3.
	return mat.NewDense(4, 4, []float64{
		5, 4, 0, 0,
		4, 5, 1, 0,
		0, 0, 5, 4,
		0, 1, 4, 5,
	})
}

func TestFitNMFShapesAndNonNegativity(t *testing.T) {
	cfg := DefaultNMFConfig()
	n, err := FitNMF(testMatrix(), cfg)
	require.NoError(t, err)

	wRows, wCols := n.W.Dims()
	hRows, hCols := n.H.Dims()
	assert.Equal(t, 4, wRows)
	assert.Equal(t, n.Rank, wCols)
	assert.Equal(t, n.Rank, hRows)
	assert.Equal(t, 4, hCols)
	assert.Equal(t, 4, n.Rank, "rank capped at min matrix dimension")

	for i := 0; i < wRows; i++ {
		for k := 0; k < wCols; k++ {
			assert.GreaterOrEqual(t, n.W.At(i, k), 0.0)
		}
	}
	for k := 0; k < hRows; k++ {
		for j := 0; j < hCols; j++ {
			assert.GreaterOrEqual(t, n.H.At(k, j), 0.0)
		}
	}
}

func TestFitNMFDeterministic(t *testing.T) {
	cfg := DefaultNMFConfig()
	a, err := FitNMF(testMatrix(), cfg)
	require.NoError(t, err)
	b, err := FitNMF(testMatrix(), cfg)
	require.NoError(t, err)

	assert.True(t, mat.EqualApprox(a.W, b.W, 1e-12), "same seed must reproduce factors")
	assert.True(t, mat.EqualApprox(a.H, b.H, 1e-12))
}

func TestFitNMFReducesReconstructionError(t *testing.T) {
	v := testMatrix()
	cfg := DefaultNMFConfig()
	n, err := FitNMF(v, cfg)
	require.NoError(t, err)

	var approx mat.Dense
	approx.Mul(n.W, n.H)
	var diff mat.Dense
	diff.Sub(v, &approx)

	assert.Less(t, mat.Norm(&diff, 2), mat.Norm(v, 2)*0.5,
		"factorization should capture most of the matrix structure")
}

func TestFitNMFEmptyMatrix(t *testing.T) {
	_, err := FitNMF(nil, DefaultNMFConfig())
	assert.ErrorIs(t, err, ErrEmptyMatrix)
}

func TestTrainCollaborativeScoring(t *testing.T) {
	users := []string{"user_1", "user_2", "user_3", "user_4"}
	items := []string{"item_1", "item_2", "item_3", "item_4"}

	model, err := TrainCollaborative(testMatrix(), users, items, DefaultNMFConfig())
	require.NoError(t, err)

	assert.True(t, model.KnowsUser("user_1"))
	assert.False(t, model.KnowsUser("stranger"))

	scores, err := model.ScoreUser("user_1", map[string]float64{"item_1": 5, "item_2": 4})
	require.NoError(t, err)
	require.Len(t, scores, 4)

	// A cluster-1 user should score cluster-1 items above cluster-2 items.
	assert.Greater(t, scores[1], scores[2])
	assert.Greater(t, scores[1], scores[3])

	_, err = model.ScoreUser("stranger", nil)
	assert.ErrorIs(t, err, ErrNotTrained)
}

func TestCollaborativeSimilarUsersThreshold(t *testing.T) {
	users := []string{"user_1", "user_2", "user_3", "user_4"}
	items := []string{"item_1", "item_2", "item_3", "item_4"}

	model, err := TrainCollaborative(testMatrix(), users, items, DefaultNMFConfig())
	require.NoError(t, err)

	neighbors := model.SimilarUsers("user_1", 0.3)
	for _, n := range neighbors {
		assert.Greater(t, n.Similarity, 0.3)
		assert.NotEqual(t, "user_1", n.ID, "a user is not their own neighbor")
	}

	assert.Empty(t, model.SimilarUsers("stranger", 0.3), "unknown user fails closed")
}

func TestTrainContentSharedTag(t *testing.T) {
	docs := []string{
		"Python Fundamentals learn programming python data-science",
		"Python for the Web python web",
		"Watercolor Painting brushes pigment",
	}
	items := []string{"course_1", "course_2", "course_3"}

	model, err := TrainContent(docs, items, 0)
	require.NoError(t, err)

	row, ok := model.ItemRow("course_1")
	require.True(t, ok)
	assert.Greater(t, row[1], 0.0, "shared term 'python' must drive similarity")
	assert.Greater(t, row[1], row[2])

	_, ok = model.ItemRow("course_99")
	assert.False(t, ok)
}

func TestTrainContentEmpty(t *testing.T) {
	_, err := TrainContent(nil, nil, 0)
	assert.ErrorIs(t, err, ErrEmptyMatrix)
}

func TestTrainHybridPrerequisites(t *testing.T) {
	_, err := TrainHybrid(nil, nil, 0.6, 0.4)
	assert.ErrorIs(t, err, ErrPrerequisiteNotTrained)

	_, err = TrainHybrid(&Collaborative{}, nil, 0.6, 0.4)
	assert.ErrorIs(t, err, ErrPrerequisiteNotTrained)
}

func TestHybridBlendPartialTerms(t *testing.T) {
	h := &Hybrid{CollaborativeWeight: 0.6, ContentWeight: 0.4}

	assert.InDelta(t, 0.6*2+0.4*1, h.Blend(2, 1), 1e-12)
	// An item present in only one list still contributes its term.
	assert.InDelta(t, 0.4, h.Blend(0, 1), 1e-12)
}

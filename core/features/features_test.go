package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/adalundhe/mentor/core/domain"
	"github.com/adalundhe/mentor/core/store"
)

func ratedInteraction(user, item string, rating float64) *domain.Interaction {
	event := domain.NewInteraction(user, item, domain.InteractionView)
	event.Rating = &rating
	return event
}

func TestBuildUserItemMatrix(t *testing.T) {
	log := store.NewInteractionLog()
	require.NoError(t, log.Append(ratedInteraction("user_1", "course_1", 5)))
	require.NoError(t, log.Append(ratedInteraction("user_1", "course_2", 3)))
	require.NoError(t, log.Append(ratedInteraction("user_2", "course_2", 4)))

	m, users, items := BuildUserItemMatrix(log)
	require.NotNil(t, m)
	assert.Equal(t, []string{"user_1", "user_2"}, users)
	assert.Equal(t, []string{"course_1", "course_2"}, items)

	rows, cols := m.Dims()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 2, cols)
	assert.Equal(t, 5.0, m.At(0, 0))
	assert.Equal(t, 3.0, m.At(0, 1))
	assert.Equal(t, 0.0, m.At(1, 0), "absent pair must be zero")
	assert.Equal(t, 4.0, m.At(1, 1))
}

func TestBuildUserItemMatrixEmptyLog(t *testing.T) {
	m, users, items := BuildUserItemMatrix(store.NewInteractionLog())
	assert.Nil(t, m)
	assert.Empty(t, users)
	assert.Empty(t, items)
}

func TestColumnScaler(t *testing.T) {
	m := mat.NewDense(3, 2, []float64{
		1, 7,
		2, 7,
		3, 7,
	})

	scaler := FitColumnScaler(m)
	scaled := scaler.Transform(m)

	// First column scaled by its std dev; constant column untouched.
	assert.Equal(t, 1.0, scaler.Scale[1])
	assert.InDelta(t, 1.0, scaler.Scale[0], 1e-12)
	assert.Equal(t, 7.0, scaled.At(0, 1))

	row := scaler.TransformRow([]float64{2, 7})
	assert.InDelta(t, 2.0, row[0], 1e-12)
	assert.Equal(t, 7.0, row[1])

	// Scaled values stay non-negative for non-negative input.
	rows, cols := scaled.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			assert.GreaterOrEqual(t, scaled.At(i, j), 0.0)
		}
	}
}

func TestVectorizerTokenize(t *testing.T) {
	v, err := NewVectorizer(0)
	require.NoError(t, err)

	terms := v.Tokenize("The Python Basics")
	assert.Contains(t, terms, "python")
	assert.Contains(t, terms, "basics")
	assert.NotContains(t, terms, "the", "stopwords must be removed")
}

func TestVectorizerSharedTermSimilarity(t *testing.T) {
	v, err := NewVectorizer(0)
	require.NoError(t, err)

	docs := []string{
		"Python Fundamentals learn python basics python data-science",
		"Web Development with Python python web",
		"Watercolor Painting brushes pigment paper",
	}
	m := v.FitTransform(docs)
	require.NotNil(t, m)

	rows, _ := m.Dims()
	require.Equal(t, 3, rows)

	dot := func(a, b int) float64 {
		var s float64
		_, cols := m.Dims()
		for j := 0; j < cols; j++ {
			s += m.At(a, j) * m.At(b, j)
		}
		return s
	}

	assert.Greater(t, dot(0, 1), 0.0, "documents sharing 'python' must have positive similarity")
	assert.Greater(t, dot(0, 1), dot(0, 2), "shared-term pair must outscore disjoint pair")

	// Rows are L2-normalized.
	assert.InDelta(t, 1.0, dot(0, 0), 1e-9)
}

func TestVectorizerMaxFeaturesCap(t *testing.T) {
	v, err := NewVectorizer(3)
	require.NoError(t, err)

	v.Fit([]string{
		"alpha beta gamma delta epsilon",
		"alpha beta gamma",
		"alpha beta",
	})
	assert.Equal(t, 3, v.VocabularySize())
}

func TestVectorizerTransformUnfitted(t *testing.T) {
	v, err := NewVectorizer(0)
	require.NoError(t, err)
	assert.Nil(t, v.Transform([]string{"anything"}))
}

func TestVectorizerStateRestore(t *testing.T) {
	v, err := NewVectorizer(0)
	require.NoError(t, err)
	docs := []string{"go concurrency channels", "go generics"}
	original := v.FitTransform(docs)
	require.NotNil(t, original)

	terms, idf := v.State()
	restored, err := NewVectorizer(0)
	require.NoError(t, err)
	restored.Restore(terms, idf)

	again := restored.Transform(docs)
	require.NotNil(t, again)
	assert.True(t, mat.EqualApprox(original, again, 1e-12))
}

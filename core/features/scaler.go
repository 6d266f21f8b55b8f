package features

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// ColumnScaler rescales each matrix column to unit standard deviation.
// It deliberately does not center: the scaled matrix feeds non-negative
// factorization, which cannot accept the negative entries centering
// would introduce. Constant columns are left untouched.
type ColumnScaler struct {
	Scale []float64
}

// FitColumnScaler computes per-column standard deviations for m.
func FitColumnScaler(m *mat.Dense) *ColumnScaler {
	rows, cols := m.Dims()
	scale := make([]float64, cols)

	col := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mat.Col(col, j, m)
		sd := stat.StdDev(col, nil)
		if sd == 0 || math.IsNaN(sd) {
			sd = 1
		}
		scale[j] = sd
	}
	return &ColumnScaler{Scale: scale}
}

// Transform returns a new matrix with each column divided by its fitted
// standard deviation.
func (s *ColumnScaler) Transform(m *mat.Dense) *mat.Dense {
	rows, cols := m.Dims()
	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out.Set(i, j, m.At(i, j)/s.Scale[j])
		}
	}
	return out
}

// TransformRow scales a single user row in place-compatible fashion,
// returning a new slice.
func (s *ColumnScaler) TransformRow(row []float64) []float64 {
	out := make([]float64, len(row))
	for j, v := range row {
		out[j] = v / s.Scale[j]
	}
	return out
}

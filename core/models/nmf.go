package models

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// epsilon guards the multiplicative update denominators against division
// by zero.
const epsilon = 1e-10

// NMFConfig bounds the factorization.
type NMFConfig struct {
	// MaxComponents caps the latent rank; the effective rank is
	// min(MaxComponents, rows, cols).
	MaxComponents int

	// MaxIterations bounds the update loop.
	MaxIterations int

	// Tolerance stops iteration once the relative improvement of the
	// reconstruction error drops below it.
	Tolerance float64

	// Seed makes factor initialization reproducible.
	Seed int64
}

// DefaultNMFConfig returns the training defaults.
func DefaultNMFConfig() NMFConfig {
	return NMFConfig{
		MaxComponents: 20,
		MaxIterations: 200,
		Tolerance:     1e-4,
		Seed:          42,
	}
}

// NMF is a fitted non-negative matrix factorization V ~= W*H. W holds
// one latent row per input row (users), H one latent column per input
// column (items). Non-negativity keeps the latent factors interpretable
// for engagement data, which is non-negative by construction.
type NMF struct {
	W *mat.Dense
	H *mat.Dense

	Rank int
}

// FitNMF factorizes v by multiplicative updates (Lee & Seung). All
// entries of v must be non-negative.
func FitNMF(v *mat.Dense, cfg NMFConfig) (*NMF, error) {
	rows, cols := v.Dims()
	if rows == 0 || cols == 0 {
		return nil, ErrEmptyMatrix
	}

	rank := cfg.MaxComponents
	if rows < rank {
		rank = rows
	}
	if cols < rank {
		rank = cols
	}
	if rank < 1 {
		rank = 1
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	w := mat.NewDense(rows, rank, nil)
	h := mat.NewDense(rank, cols, nil)
	for i := 0; i < rows; i++ {
		for k := 0; k < rank; k++ {
			w.Set(i, k, rng.Float64()+epsilon)
		}
	}
	for k := 0; k < rank; k++ {
		for j := 0; j < cols; j++ {
			h.Set(k, j, rng.Float64()+epsilon)
		}
	}

	prevErr := math.Inf(1)
	var (
		wtv  mat.Dense
		wtw  mat.Dense
		wtwh mat.Dense
		vht  mat.Dense
		hht  mat.Dense
		whht mat.Dense
	)

	for iter := 0; iter < cfg.MaxIterations; iter++ {
		// H <- H .* (W^T V) ./ (W^T W H)
		wtv.Mul(w.T(), v)
		wtw.Mul(w.T(), w)
		wtwh.Mul(&wtw, h)
		for k := 0; k < rank; k++ {
			for j := 0; j < cols; j++ {
				h.Set(k, j, h.At(k, j)*wtv.At(k, j)/(wtwh.At(k, j)+epsilon))
			}
		}

		// W <- W .* (V H^T) ./ (W H H^T)
		vht.Mul(v, h.T())
		hht.Mul(h, h.T())
		whht.Mul(w, &hht)
		for i := 0; i < rows; i++ {
			for k := 0; k < rank; k++ {
				w.Set(i, k, w.At(i, k)*vht.At(i, k)/(whht.At(i, k)+epsilon))
			}
		}

		err := reconstructionError(v, w, h)
		if prevErr-err < cfg.Tolerance*prevErr {
			break
		}
		prevErr = err
	}

	return &NMF{W: w, H: h, Rank: rank}, nil
}

// reconstructionError computes the Frobenius norm of V - W*H.
func reconstructionError(v, w, h *mat.Dense) float64 {
	var approx mat.Dense
	approx.Mul(w, h)

	var diff mat.Dense
	diff.Sub(v, &approx)
	return mat.Norm(&diff, 2)
}

// TransformRow solves for the latent factors of a single row with the
// fitted H held fixed, using the same multiplicative update restricted
// to the row. The input row must be non-negative and have one entry per
// fitted column.
func (n *NMF) TransformRow(row []float64, iterations int) []float64 {
	_, cols := n.H.Dims()
	if len(row) != cols {
		return nil
	}
	if iterations <= 0 {
		iterations = 50
	}

	v := mat.NewDense(1, cols, row)
	w := mat.NewDense(1, n.Rank, nil)
	for k := 0; k < n.Rank; k++ {
		w.Set(0, k, 1.0/float64(n.Rank))
	}

	var (
		vht  mat.Dense
		hht  mat.Dense
		whht mat.Dense
	)
	hht.Mul(n.H, n.H.T())

	for iter := 0; iter < iterations; iter++ {
		vht.Mul(v, n.H.T())
		whht.Mul(w, &hht)
		for k := 0; k < n.Rank; k++ {
			w.Set(0, k, w.At(0, k)*vht.At(0, k)/(whht.At(0, k)+epsilon))
		}
	}

	out := make([]float64, n.Rank)
	copy(out, w.RawRowView(0))
	return out
}

// Score multiplies latent user factors by the item factor matrix,
// producing one raw score per fitted item column.
func (n *NMF) Score(userFactors []float64) []float64 {
	_, cols := n.H.Dims()
	scores := make([]float64, cols)
	for j := 0; j < cols; j++ {
		var s float64
		for k := 0; k < n.Rank; k++ {
			s += userFactors[k] * n.H.At(k, j)
		}
		scores[j] = s
	}
	return scores
}

package models

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/mat"

	"github.com/adalundhe/mentor/core/features"
)

// Snapshot file names, one per model type.
const (
	CollaborativeSnapshotFile = "collaborative.gob"
	ContentSnapshotFile       = "content.gob"
	HybridSnapshotFile        = "hybrid.gob"
)

// =============================================================================
// Snapshot wire types
// =============================================================================

type denseSnapshot struct {
	Rows, Cols int
	Data       []float64
}

func snapshotDense(m *mat.Dense) denseSnapshot {
	if m == nil {
		return denseSnapshot{}
	}
	rows, cols := m.Dims()
	data := make([]float64, rows*cols)
	for i := 0; i < rows; i++ {
		copy(data[i*cols:], m.RawRowView(i))
	}
	return denseSnapshot{Rows: rows, Cols: cols, Data: data}
}

func (s denseSnapshot) restore() *mat.Dense {
	if s.Rows == 0 || s.Cols == 0 {
		return nil
	}
	return mat.NewDense(s.Rows, s.Cols, s.Data)
}

type collaborativeSnapshot struct {
	W       denseSnapshot
	H       denseSnapshot
	Rank    int
	Scale   []float64
	UserIDs []string
	ItemIDs []string
	UserSim denseSnapshot
}

type contentSnapshot struct {
	ItemIDs     []string
	Sim         denseSnapshot
	Terms       []string
	IDF         []float64
	MaxFeatures int
}

type hybridSnapshot struct {
	CollaborativeWeight float64
	ContentWeight       float64
}

// =============================================================================
// Save / Load
// =============================================================================

// SaveCollaborative writes the model snapshot into dir.
func SaveCollaborative(dir string, model *Collaborative) error {
	if model == nil || model.Factorization == nil {
		return ErrNotTrained
	}
	snap := collaborativeSnapshot{
		W:       snapshotDense(model.Factorization.W),
		H:       snapshotDense(model.Factorization.H),
		Rank:    model.Factorization.Rank,
		Scale:   model.Scaler.Scale,
		UserIDs: model.UserIDs,
		ItemIDs: model.ItemIDs,
		UserSim: snapshotDense(model.UserSim),
	}
	return writeSnapshot(dir, CollaborativeSnapshotFile, snap)
}

// LoadCollaborative reads a model snapshot from dir.
func LoadCollaborative(dir string) (*Collaborative, error) {
	var snap collaborativeSnapshot
	if err := readSnapshot(dir, CollaborativeSnapshotFile, &snap); err != nil {
		return nil, err
	}

	model := &Collaborative{
		Factorization: &NMF{W: snap.W.restore(), H: snap.H.restore(), Rank: snap.Rank},
		Scaler:        &features.ColumnScaler{Scale: snap.Scale},
		UserIDs:       snap.UserIDs,
		ItemIDs:       snap.ItemIDs,
		UserSim:       snap.UserSim.restore(),
	}
	if model.Factorization.W == nil || model.Factorization.H == nil {
		return nil, fmt.Errorf("collaborative snapshot: missing factors")
	}
	model.buildIndex()
	return model, nil
}

// SaveContent writes the model snapshot into dir.
func SaveContent(dir string, model *Content) error {
	if model == nil || model.Sim == nil {
		return ErrNotTrained
	}
	terms, idf := model.Vectorizer.State()
	snap := contentSnapshot{
		ItemIDs:     model.ItemIDs,
		Sim:         snapshotDense(model.Sim),
		Terms:       terms,
		IDF:         idf,
		MaxFeatures: model.Vectorizer.MaxFeatures,
	}
	return writeSnapshot(dir, ContentSnapshotFile, snap)
}

// LoadContent reads a model snapshot from dir.
func LoadContent(dir string) (*Content, error) {
	var snap contentSnapshot
	if err := readSnapshot(dir, ContentSnapshotFile, &snap); err != nil {
		return nil, err
	}

	vectorizer, err := features.NewVectorizer(snap.MaxFeatures)
	if err != nil {
		return nil, err
	}
	vectorizer.Restore(snap.Terms, snap.IDF)

	model := &Content{
		Vectorizer: vectorizer,
		ItemIDs:    snap.ItemIDs,
		Sim:        snap.Sim.restore(),
	}
	if model.Sim == nil {
		return nil, fmt.Errorf("content snapshot: missing similarity matrix")
	}
	model.buildIndex()
	return model, nil
}

// SaveHybrid writes the blend weights into dir.
func SaveHybrid(dir string, model *Hybrid) error {
	if model == nil {
		return ErrNotTrained
	}
	return writeSnapshot(dir, HybridSnapshotFile, hybridSnapshot{
		CollaborativeWeight: model.CollaborativeWeight,
		ContentWeight:       model.ContentWeight,
	})
}

// LoadHybrid reads the blend weights from dir.
func LoadHybrid(dir string) (*Hybrid, error) {
	var snap hybridSnapshot
	if err := readSnapshot(dir, HybridSnapshotFile, &snap); err != nil {
		return nil, err
	}
	return &Hybrid{
		CollaborativeWeight: snap.CollaborativeWeight,
		ContentWeight:       snap.ContentWeight,
	}, nil
}

func writeSnapshot(dir, name string, snap any) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create model dir: %w", err)
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(snap); err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func readSnapshot(dir, name string, snap any) error {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(snap); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

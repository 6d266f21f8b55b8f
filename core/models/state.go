// Package models holds the trainable recommendation models: NMF-based
// collaborative filtering, TF-IDF content similarity, and the weighted
// hybrid blend, together with gob snapshot persistence and a model-dir
// hot-reload watcher.
package models

import "errors"

// ModelState tags whether a model has been fitted.
type ModelState int

const (
	StateUntrained ModelState = iota
	StateTrained
)

func (s ModelState) String() string {
	switch s {
	case StateUntrained:
		return "untrained"
	case StateTrained:
		return "trained"
	default:
		return "unknown"
	}
}

var (
	// ErrPrerequisiteNotTrained signals that hybrid training was invoked
	// before both the collaborative and content models were fitted.
	// Training order is the caller's responsibility:
	// content -> collaborative -> hybrid.
	ErrPrerequisiteNotTrained = errors.New("prerequisite model not trained")

	// ErrNotTrained signals scoring against an unfitted model.
	ErrNotTrained = errors.New("model not trained")

	// ErrEmptyMatrix signals training input with no rows or columns.
	ErrEmptyMatrix = errors.New("empty training matrix")
)

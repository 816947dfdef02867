package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"ticket-triage/backend/internal/classify"
	"ticket-triage/backend/internal/feature"
)

// Artifact filenames inside the models directory.
const (
	CategoryFile = "category_model.json"
	PriorityFile = "priority_model.json"
)

// Bundle algorithms.
const (
	AlgorithmSoftmax = "softmax"
	AlgorithmSVMRBF  = "svm_rbf"
)

var (
	// ErrMissing marks an absent artifact file; resolving it requires
	// running the trainer, not a retry.
	ErrMissing = errors.New("model artifact missing")
	// ErrCorrupt marks an artifact that fails to decode or whose classifier
	// dimensionality disagrees with its bundled vectorizer.
	ErrCorrupt = errors.New("model artifact corrupt")
)

// Bundle pairs a fitted vectorizer with the classifier trained against it.
// Predictions must only ever flow through the bundled vectorizer; the pair
// is persisted together so the pairing cannot drift.
type Bundle struct {
	Task       string              `json:"task"`
	Algorithm  string              `json:"algorithm"`
	TrainedAt  time.Time           `json:"trained_at"`
	Samples    int                 `json:"samples"`
	Vectorizer *feature.Vectorizer `json:"vectorizer"`
	Softmax    *classify.Softmax   `json:"softmax,omitempty"`
	SVM        *classify.KernelSVM `json:"svm,omitempty"`
}

// Classes returns the label set in the classifier's stable order.
func (b *Bundle) Classes() []string {
	switch b.Algorithm {
	case AlgorithmSoftmax:
		return b.Softmax.Classes
	case AlgorithmSVMRBF:
		return b.SVM.Classes
	}
	return nil
}

// Transform vectorizes normalized text with the bundled vectorizer.
func (b *Bundle) Transform(normalized string) []float64 {
	return b.Vectorizer.Transform(normalized)
}

// Predict returns the top label and its probability for the vector.
func (b *Bundle) Predict(vec []float64) (string, float64) {
	switch b.Algorithm {
	case AlgorithmSoftmax:
		return b.Softmax.Predict(vec)
	case AlgorithmSVMRBF:
		return b.SVM.Predict(vec)
	}
	return "", 0
}

// Probabilities returns the full class distribution for the vector.
func (b *Bundle) Probabilities(vec []float64) []float64 {
	switch b.Algorithm {
	case AlgorithmSoftmax:
		return b.Softmax.Probabilities(vec)
	case AlgorithmSVMRBF:
		return b.SVM.Probabilities(vec)
	}
	return nil
}

// Validate checks the vectorizer/classifier pairing. Failures are corrupt
// artifacts, not recoverable states.
func (b *Bundle) Validate() error {
	if b.Vectorizer == nil {
		return fmt.Errorf("%w: bundle has no vectorizer", ErrCorrupt)
	}
	if err := b.Vectorizer.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	switch b.Algorithm {
	case AlgorithmSoftmax:
		if err := b.Softmax.Validate(b.Vectorizer.Dims); err != nil {
			return fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
	case AlgorithmSVMRBF:
		if err := b.SVM.Validate(b.Vectorizer.Dims); err != nil {
			return fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
	default:
		return fmt.Errorf("%w: unknown algorithm %q", ErrCorrupt, b.Algorithm)
	}
	return nil
}

// Save writes the bundle as JSON at path, creating parent directories.
func Save(path string, b *Bundle) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create models directory: %w", err)
	}
	payload, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("marshal bundle: %w", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("write bundle: %w", err)
	}
	return nil
}

// Load reads and validates a bundle. An absent file yields ErrMissing with
// an actionable message; undecodable or inconsistent content yields
// ErrCorrupt.
func Load(path string) (*Bundle, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s not found, run the trainer first (go run ./cmd/train)", ErrMissing, path)
		}
		return nil, fmt.Errorf("read bundle %s: %w", path, err)
	}
	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrCorrupt, path, err)
	}
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &b, nil
}

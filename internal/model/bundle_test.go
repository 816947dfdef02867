package model

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"ticket-triage/backend/internal/classify"
	"ticket-triage/backend/internal/feature"
)

func fittedBundle(t *testing.T) *Bundle {
	t.Helper()
	corpus := []string{
		"cannot connect network", "wifi drop network",
		"unable login portal", "password reset login",
	}
	labels := []string{"Network", "Network", "Access", "Access"}

	v := feature.Fit(corpus)
	vectors := make([][]float64, len(corpus))
	for i, doc := range corpus {
		vectors[i] = v.Transform(doc)
	}
	m, err := classify.TrainSoftmax(vectors, labels, v.Dims)
	if err != nil {
		t.Fatalf("train: %v", err)
	}
	return &Bundle{
		Task:       "category",
		Algorithm:  AlgorithmSoftmax,
		Samples:    len(corpus),
		Vectorizer: v,
		Softmax:    m,
	}
}

func TestBundleRoundTrip(t *testing.T) {
	b := fittedBundle(t)
	path := filepath.Join(t.TempDir(), CategoryFile)
	if err := Save(path, b); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	vec := loaded.Transform("cannot connect network")
	label, conf := loaded.Predict(vec)
	if label != "Network" {
		t.Errorf("predicted %q, want Network", label)
	}
	if conf <= 0 || conf > 1 {
		t.Errorf("confidence %v outside (0,1]", conf)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), CategoryFile))
	if !errors.Is(err, ErrMissing) {
		t.Fatalf("err = %v, want ErrMissing", err)
	}
	if errors.Is(err, ErrCorrupt) {
		t.Fatal("missing artifact must not also report corrupt")
	}
}

func TestLoadCorruptPayload(t *testing.T) {
	path := filepath.Join(t.TempDir(), CategoryFile)
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := Load(path)
	if !errors.Is(err, ErrCorrupt) {
		t.Fatalf("err = %v, want ErrCorrupt", err)
	}
	if errors.Is(err, ErrMissing) {
		t.Fatal("corrupt artifact must not also report missing")
	}
}

func TestLoadDimensionMismatch(t *testing.T) {
	b := fittedBundle(t)
	// drop a weight column so classifier dims disagree with the vectorizer
	for i := range b.Softmax.Weights {
		b.Softmax.Weights[i] = b.Softmax.Weights[i][:10]
	}
	path := filepath.Join(t.TempDir(), CategoryFile)
	if err := Save(path, b); err != nil {
		t.Fatalf("save: %v", err)
	}
	_, err := Load(path)
	if !errors.Is(err, ErrCorrupt) {
		t.Fatalf("err = %v, want ErrCorrupt", err)
	}
}

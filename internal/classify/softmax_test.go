package classify

import (
	"math"
	"testing"
)

func clusterData() ([][]float64, []string) {
	vectors := [][]float64{
		{0.1, 0.0}, {0.0, 0.1}, {0.1, 0.1},
		{1.0, 0.0}, {0.9, 0.1}, {1.1, 0.0},
		{0.0, 1.0}, {0.1, 0.9}, {0.0, 1.1},
	}
	labels := []string{
		"alpha", "alpha", "alpha",
		"beta", "beta", "beta",
		"gamma", "gamma", "gamma",
	}
	return vectors, labels
}

func TestTrainSoftmaxSeparatesClusters(t *testing.T) {
	vectors, labels := clusterData()
	model, err := TrainSoftmax(vectors, labels, 2)
	if err != nil {
		t.Fatalf("train: %v", err)
	}
	for i, vec := range vectors {
		label, conf := model.Predict(vec)
		if label != labels[i] {
			t.Errorf("sample %d predicted %q, want %q", i, label, labels[i])
		}
		if conf < 0 || conf > 1 {
			t.Errorf("sample %d confidence %v outside [0,1]", i, conf)
		}
	}
}

func TestSoftmaxProbabilitiesSumToOne(t *testing.T) {
	vectors, labels := clusterData()
	model, err := TrainSoftmax(vectors, labels, 2)
	if err != nil {
		t.Fatalf("train: %v", err)
	}
	for _, vec := range [][]float64{{0.5, 0.5}, {0, 0}, {2, -1}} {
		probs := model.Probabilities(vec)
		var sum float64
		for _, p := range probs {
			if p < 0 || p > 1 {
				t.Fatalf("probability %v outside [0,1]", p)
			}
			sum += p
		}
		if math.Abs(sum-1) > 1e-6 {
			t.Fatalf("probabilities sum to %v, want 1", sum)
		}
	}
}

func TestSoftmaxClassOrderingStable(t *testing.T) {
	vectors, labels := clusterData()
	model, err := TrainSoftmax(vectors, labels, 2)
	if err != nil {
		t.Fatalf("train: %v", err)
	}
	want := []string{"alpha", "beta", "gamma"}
	for i, c := range want {
		if model.Classes[i] != c {
			t.Fatalf("classes %v, want %v", model.Classes, want)
		}
	}
}

func TestTrainSoftmaxRejectsDegenerateInput(t *testing.T) {
	if _, err := TrainSoftmax(nil, nil, 2); err == nil {
		t.Fatal("expected error for empty training set")
	}
	if _, err := TrainSoftmax([][]float64{{1}}, []string{"only"}, 1); err == nil {
		t.Fatal("expected error for single-class training set")
	}
}

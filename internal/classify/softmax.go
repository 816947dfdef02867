package classify

import (
	"errors"
	"math"
	"sort"
)

const (
	softmaxEpochs = 500
	softmaxRate   = 0.5
	softmaxL2     = 1e-4
)

// Softmax is a multinomial logistic regression model with native class
// probabilities. Classes are kept in sorted order so prediction ties resolve
// stably.
type Softmax struct {
	Classes []string    `json:"classes"`
	Weights [][]float64 `json:"weights"`
	Bias    []float64   `json:"bias"`
}

// TrainSoftmax fits a multinomial model by full-batch gradient descent.
// Zero initialization and a fixed schedule make the result deterministic.
func TrainSoftmax(vectors [][]float64, labels []string, dims int) (*Softmax, error) {
	if len(vectors) == 0 || len(vectors) != len(labels) {
		return nil, errors.New("training vectors and labels must be non-empty and aligned")
	}
	classes := uniqueSorted(labels)
	if len(classes) < 2 {
		return nil, errors.New("need at least two distinct labels")
	}
	classIdx := make(map[string]int, len(classes))
	for i, c := range classes {
		classIdx[c] = i
	}
	targets := make([]int, len(labels))
	for i, l := range labels {
		targets[i] = classIdx[l]
	}

	k := len(classes)
	n := float64(len(vectors))
	weights := make([][]float64, k)
	for c := range weights {
		weights[c] = make([]float64, dims)
	}
	bias := make([]float64, k)

	gradW := make([][]float64, k)
	for c := range gradW {
		gradW[c] = make([]float64, dims)
	}
	gradB := make([]float64, k)

	for epoch := 0; epoch < softmaxEpochs; epoch++ {
		for c := 0; c < k; c++ {
			for d := range gradW[c] {
				gradW[c][d] = 0
			}
			gradB[c] = 0
		}
		for i, x := range vectors {
			probs := softmaxScores(weights, bias, x)
			for c := 0; c < k; c++ {
				diff := probs[c]
				if c == targets[i] {
					diff -= 1
				}
				for d, xd := range x {
					if xd != 0 {
						gradW[c][d] += diff * xd
					}
				}
				gradB[c] += diff
			}
		}
		for c := 0; c < k; c++ {
			for d := range weights[c] {
				weights[c][d] -= softmaxRate * (gradW[c][d]/n + softmaxL2*weights[c][d])
			}
			bias[c] -= softmaxRate * gradB[c] / n
		}
	}

	return &Softmax{Classes: classes, Weights: weights, Bias: bias}, nil
}

// Probabilities returns the class distribution for the vector, aligned with
// Classes. Components sum to 1.
func (m *Softmax) Probabilities(vec []float64) []float64 {
	return softmaxScores(m.Weights, m.Bias, vec)
}

// Predict returns the most probable class and its probability. Ties resolve
// to the lower class index.
func (m *Softmax) Predict(vec []float64) (string, float64) {
	probs := m.Probabilities(vec)
	best := argmax(probs)
	return m.Classes[best], probs[best]
}

// Dims reports the feature dimensionality the model was trained against.
func (m *Softmax) Dims() int {
	if len(m.Weights) == 0 {
		return 0
	}
	return len(m.Weights[0])
}

// Validate checks structural consistency after deserialization.
func (m *Softmax) Validate(dims int) error {
	if m == nil {
		return errors.New("softmax model is nil")
	}
	if len(m.Classes) < 2 {
		return errors.New("softmax model needs at least two classes")
	}
	if len(m.Weights) != len(m.Classes) || len(m.Bias) != len(m.Classes) {
		return errors.New("softmax weights misaligned with classes")
	}
	for _, row := range m.Weights {
		if len(row) != dims {
			return errors.New("softmax weight row does not match vectorizer dims")
		}
	}
	return nil
}

func softmaxScores(weights [][]float64, bias []float64, x []float64) []float64 {
	k := len(weights)
	logits := make([]float64, k)
	maxLogit := math.Inf(-1)
	for c := 0; c < k; c++ {
		z := bias[c]
		for d, xd := range x {
			if xd != 0 {
				z += weights[c][d] * xd
			}
		}
		logits[c] = z
		if z > maxLogit {
			maxLogit = z
		}
	}
	var sum float64
	for c := 0; c < k; c++ {
		logits[c] = math.Exp(logits[c] - maxLogit)
		sum += logits[c]
	}
	for c := 0; c < k; c++ {
		logits[c] /= sum
	}
	return logits
}

func uniqueSorted(labels []string) []string {
	seen := make(map[string]struct{}, len(labels))
	var out []string
	for _, l := range labels {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

func argmax(vals []float64) int {
	best := 0
	for i := 1; i < len(vals); i++ {
		if vals[i] > vals[best] {
			best = i
		}
	}
	return best
}

package classify

import (
	"errors"
	"math"
)

const (
	svmC      = 1.0
	svmEpochs = 100
)

// Machine is one binary one-vs-rest classifier inside a KernelSVM. Coeffs
// holds alpha_i * y_i per training vector; the bias term is folded into the
// kernel (K+1). PlattA/PlattB parameterize the calibrated sigmoid mapping
// decision values to probabilities.
type Machine struct {
	Class  string    `json:"class"`
	Coeffs []float64 `json:"coeffs"`
	PlattA float64   `json:"platt_a"`
	PlattB float64   `json:"platt_b"`
}

// KernelSVM is a one-vs-rest RBF-kernel support vector classifier with
// Platt-calibrated probabilities normalized over all classes.
type KernelSVM struct {
	Classes []string    `json:"classes"`
	Gamma   float64     `json:"gamma"`
	Vectors [][]float64 `json:"vectors"`
	Machine []Machine   `json:"machines"`
}

// TrainKernelSVM fits one binary machine per class by deterministic dual
// coordinate descent on the hinge loss, then calibrates each machine's
// decision values with a Platt sigmoid.
func TrainKernelSVM(vectors [][]float64, labels []string, dims int) (*KernelSVM, error) {
	if len(vectors) == 0 || len(vectors) != len(labels) {
		return nil, errors.New("training vectors and labels must be non-empty and aligned")
	}
	classes := uniqueSorted(labels)
	if len(classes) < 2 {
		return nil, errors.New("need at least two distinct labels")
	}

	gamma := scaleGamma(vectors, dims)
	n := len(vectors)
	kernel := make([][]float64, n)
	for i := 0; i < n; i++ {
		kernel[i] = make([]float64, n)
		for j := 0; j <= i; j++ {
			// +1 embeds the bias term in the kernel
			k := rbf(vectors[i], vectors[j], gamma) + 1
			kernel[i][j] = k
			kernel[j][i] = k
		}
	}

	model := &KernelSVM{
		Classes: classes,
		Gamma:   gamma,
		Vectors: vectors,
	}
	for _, class := range classes {
		y := make([]float64, n)
		for i, l := range labels {
			if l == class {
				y[i] = 1
			} else {
				y[i] = -1
			}
		}
		coeffs := trainBinary(kernel, y)

		decisions := make([]float64, n)
		for i := 0; i < n; i++ {
			var f float64
			for j, c := range coeffs {
				if c != 0 {
					f += c * kernel[i][j]
				}
			}
			decisions[i] = f
		}
		a, b := fitPlatt(decisions, y)
		model.Machine = append(model.Machine, Machine{Class: class, Coeffs: coeffs, PlattA: a, PlattB: b})
	}
	return model, nil
}

// trainBinary runs dual coordinate descent for a single one-vs-rest machine.
// The fixed sweep order keeps training deterministic.
func trainBinary(kernel [][]float64, y []float64) []float64 {
	n := len(y)
	alpha := make([]float64, n)
	coeffs := make([]float64, n)
	for epoch := 0; epoch < svmEpochs; epoch++ {
		for i := 0; i < n; i++ {
			var f float64
			for j := 0; j < n; j++ {
				if coeffs[j] != 0 {
					f += coeffs[j] * kernel[i][j]
				}
			}
			grad := y[i]*f - 1
			next := alpha[i] - grad/kernel[i][i]
			if next < 0 {
				next = 0
			} else if next > svmC {
				next = svmC
			}
			alpha[i] = next
			coeffs[i] = next * y[i]
		}
	}
	return coeffs
}

// Probabilities returns the normalized per-class probability estimates,
// aligned with Classes. Components sum to 1.
func (m *KernelSVM) Probabilities(vec []float64) []float64 {
	kcol := make([]float64, len(m.Vectors))
	for i, sv := range m.Vectors {
		kcol[i] = rbf(sv, vec, m.Gamma) + 1
	}
	probs := make([]float64, len(m.Machine))
	var sum float64
	for mi, machine := range m.Machine {
		var f float64
		for i, c := range machine.Coeffs {
			if c != 0 {
				f += c * kcol[i]
			}
		}
		p := plattProbability(f, machine.PlattA, machine.PlattB)
		probs[mi] = p
		sum += p
	}
	if sum <= 0 {
		for i := range probs {
			probs[i] = 1 / float64(len(probs))
		}
		return probs
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}

// Predict returns the most probable class and its calibrated probability.
// Ties resolve to the lower class index.
func (m *KernelSVM) Predict(vec []float64) (string, float64) {
	probs := m.Probabilities(vec)
	best := argmax(probs)
	return m.Classes[best], probs[best]
}

// Dims reports the feature dimensionality the model was trained against.
func (m *KernelSVM) Dims() int {
	if len(m.Vectors) == 0 {
		return 0
	}
	return len(m.Vectors[0])
}

// Validate checks structural consistency after deserialization.
func (m *KernelSVM) Validate(dims int) error {
	if m == nil {
		return errors.New("svm model is nil")
	}
	if len(m.Classes) < 2 {
		return errors.New("svm model needs at least two classes")
	}
	if len(m.Machine) != len(m.Classes) {
		return errors.New("svm machines misaligned with classes")
	}
	if m.Gamma <= 0 {
		return errors.New("svm gamma not positive")
	}
	for _, sv := range m.Vectors {
		if len(sv) != dims {
			return errors.New("svm support vector does not match vectorizer dims")
		}
	}
	for _, machine := range m.Machine {
		if len(machine.Coeffs) != len(m.Vectors) {
			return errors.New("svm coefficients misaligned with support vectors")
		}
	}
	return nil
}

// scaleGamma mirrors the "scale" heuristic: 1 / (dims * variance of all
// feature values), falling back to 1/dims for constant input.
func scaleGamma(vectors [][]float64, dims int) float64 {
	var sum, sumSq, count float64
	for _, v := range vectors {
		for _, x := range v {
			sum += x
			sumSq += x * x
			count++
		}
	}
	if count == 0 || dims == 0 {
		return 1
	}
	mean := sum / count
	variance := sumSq/count - mean*mean
	if variance <= 1e-12 {
		return 1 / float64(dims)
	}
	return 1 / (float64(dims) * variance)
}

func rbf(a, b []float64, gamma float64) float64 {
	var dist float64
	for i := range a {
		d := a[i] - b[i]
		dist += d * d
	}
	return math.Exp(-gamma * dist)
}

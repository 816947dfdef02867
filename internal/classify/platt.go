package classify

import "math"

const (
	plattMaxIter = 100
	plattMinStep = 1e-10
	plattSigma   = 1e-12
)

// fitPlatt fits the sigmoid P(y=1|f) = 1/(1+exp(A*f+B)) to decision values
// by Newton's method with backtracking, using the prior-corrected targets
// from Platt's method. Deterministic for fixed inputs.
func fitPlatt(decisions, y []float64) (float64, float64) {
	n := len(decisions)
	var prior1, prior0 float64
	for _, yi := range y {
		if yi > 0 {
			prior1++
		} else {
			prior0++
		}
	}
	hiTarget := (prior1 + 1) / (prior1 + 2)
	loTarget := 1 / (prior0 + 2)

	targets := make([]float64, n)
	for i, yi := range y {
		if yi > 0 {
			targets[i] = hiTarget
		} else {
			targets[i] = loTarget
		}
	}

	a := 0.0
	b := math.Log((prior0 + 1) / (prior1 + 1))
	fval := 0.0
	for i := 0; i < n; i++ {
		fApB := decisions[i]*a + b
		if fApB >= 0 {
			fval += targets[i]*fApB + math.Log1p(math.Exp(-fApB))
		} else {
			fval += (targets[i]-1)*fApB + math.Log1p(math.Exp(fApB))
		}
	}

	for iter := 0; iter < plattMaxIter; iter++ {
		h11, h22 := plattSigma, plattSigma
		var h21, g1, g2 float64
		for i := 0; i < n; i++ {
			fApB := decisions[i]*a + b
			var p, q float64
			if fApB >= 0 {
				p = math.Exp(-fApB) / (1 + math.Exp(-fApB))
				q = 1 / (1 + math.Exp(-fApB))
			} else {
				p = 1 / (1 + math.Exp(fApB))
				q = math.Exp(fApB) / (1 + math.Exp(fApB))
			}
			d2 := p * q
			h11 += decisions[i] * decisions[i] * d2
			h22 += d2
			h21 += decisions[i] * d2
			d1 := targets[i] - p
			g1 += decisions[i] * d1
			g2 += d1
		}
		if math.Abs(g1) < 1e-5 && math.Abs(g2) < 1e-5 {
			break
		}

		det := h11*h22 - h21*h21
		dA := -(h22*g1 - h21*g2) / det
		dB := -(-h21*g1 + h11*g2) / det
		gd := g1*dA + g2*dB

		stepsize := 1.0
		for stepsize >= plattMinStep {
			newA := a + stepsize*dA
			newB := b + stepsize*dB
			newf := 0.0
			for i := 0; i < n; i++ {
				fApB := decisions[i]*newA + newB
				if fApB >= 0 {
					newf += targets[i]*fApB + math.Log1p(math.Exp(-fApB))
				} else {
					newf += (targets[i]-1)*fApB + math.Log1p(math.Exp(fApB))
				}
			}
			if newf < fval+1e-4*stepsize*gd {
				a, b, fval = newA, newB, newf
				break
			}
			stepsize /= 2
		}
		if stepsize < plattMinStep {
			break
		}
	}
	return a, b
}

// plattProbability evaluates the calibrated sigmoid, numerically stable for
// large magnitudes.
func plattProbability(f, a, b float64) float64 {
	fApB := f*a + b
	if fApB >= 0 {
		return math.Exp(-fApB) / (1 + math.Exp(-fApB))
	}
	return 1 / (1 + math.Exp(fApB))
}

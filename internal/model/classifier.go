package model

import (
	"fmt"
	"math"
)

// LogisticClassifier is a multinomial logistic regression: the probability
// of class k is softmax(Coef[k]·x + Intercept[k]).
type LogisticClassifier struct {
	Labels    []string    `json:"classes"`
	Coef      [][]float64 `json:"coef"`
	Intercept []float64   `json:"intercept"`
}

func (lc *LogisticClassifier) Validate() error {
	if len(lc.Labels) == 0 {
		return fmt.Errorf("classifier has no classes")
	}
	seen := make(map[string]struct{}, len(lc.Labels))
	for _, l := range lc.Labels {
		if _, dup := seen[l]; dup {
			return fmt.Errorf("classifier lists class %q twice", l)
		}
		seen[l] = struct{}{}
	}
	if len(lc.Coef) != len(lc.Labels) || len(lc.Intercept) != len(lc.Labels) {
		return fmt.Errorf("classifier has %d classes, %d coefficient rows and %d intercepts",
			len(lc.Labels), len(lc.Coef), len(lc.Intercept))
	}
	width := len(lc.Coef[0])
	for k, row := range lc.Coef {
		if len(row) != width {
			return fmt.Errorf("classifier coefficient row %d has %d features, want %d", k, len(row), width)
		}
	}
	return nil
}

// Width is the number of features each input row must have.
func (lc *LogisticClassifier) Width() int {
	if len(lc.Coef) == 0 {
		return 0
	}
	return len(lc.Coef[0])
}

func (lc *LogisticClassifier) Classes() []string {
	return append([]string(nil), lc.Labels...)
}

func (lc *LogisticClassifier) PredictProba(x Matrix) (Matrix, error) {
	out := make(Matrix, 0, len(x))
	for i, row := range x {
		if len(row) != lc.Width() {
			return nil, fmt.Errorf("row %d has %d features, classifier expects %d", i, len(row), lc.Width())
		}
		out = append(out, softmax(lc.scores(row)))
	}
	return out, nil
}

func (lc *LogisticClassifier) scores(x []float64) []float64 {
	s := make([]float64, len(lc.Labels))
	for k, w := range lc.Coef {
		z := lc.Intercept[k]
		for j, v := range x {
			z += w[j] * v
		}
		s[k] = z
	}
	return s
}

func softmax(z []float64) []float64 {
	max := math.Inf(-1)
	for _, v := range z {
		if v > max {
			max = v
		}
	}
	var sum float64
	p := make([]float64, len(z))
	for i, v := range z {
		p[i] = math.Exp(v - max)
		sum += p[i]
	}
	for i := range p {
		p[i] /= sum
	}
	return p
}

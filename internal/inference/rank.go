package inference

import "sort"

// Rank returns the n most probable labels, highest first. Equal
// probabilities keep the classifier's label order.
func Rank(classes []string, probs []float64, n int) []Recommendation {
	idx := make([]int, len(probs))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return probs[idx[a]] > probs[idx[b]]
	})
	if n > len(idx) {
		n = len(idx)
	}

	out := make([]Recommendation, 0, n)
	for _, i := range idx[:n] {
		out = append(out, Recommendation{
			Label:       classes[i],
			Probability: probs[i],
			Confidence:  probs[i] * ConfidenceScale,
		})
	}
	return out
}

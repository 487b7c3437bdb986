package nn

import "math"

// Argmax returns the most likely digit. Ties go to the lower digit.
func (p Probabilities) Argmax() int {
	best := 0
	for i, v := range p {
		if v > p[best] {
			best = i
		}
	}
	return best
}

// TopK returns the k most likely digits, most likely first.
func (p Probabilities) TopK(k int) []int {
	if k > len(p) {
		k = len(p)
	}
	if k < 0 {
		k = 0
	}
	indices := make([]int, k)
	used := make(map[int]bool)
	for i := 0; i < k; i++ {
		maxIdx, maxVal := -1, math.Inf(-1)
		for j, v := range p {
			if !used[j] && v > maxVal {
				maxVal, maxIdx = v, j
			}
		}
		indices[i] = maxIdx
		used[maxIdx] = true
	}
	return indices
}

// Sum returns the total probability mass (1 up to rounding).
func (p Probabilities) Sum() float64 {
	sum := 0.0
	for _, v := range p {
		sum += v
	}
	return sum
}

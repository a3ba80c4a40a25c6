package analyzer

import "gonum.org/v1/gonum/floats"

// accumulate adds an activation (true = 1) into dst.
func accumulate(dst []float64, act *BoolMap) {
	for i, v := range act.Pix {
		if v {
			dst[i]++
		}
	}
}

// average divides the summed activations by the threshold count n, not by the
// number of maps.
func average(att *Attention, n int) {
	for i := range att.Pix {
		att.Pix[i] /= float64(n)
	}
}

// merge adds per-worker partial sums into att.
func merge(att *Attention, partials [][]float64) {
	for _, p := range partials {
		if p != nil {
			floats.Add(att.Pix, p)
		}
	}
}

package scale

import "math"

// Quantile returns the p-quantile of sorted using linear interpolation
// between order statistics (the common "type 7" estimator): for
// h = (n-1)*p, the result is x[floor(h)] plus the fractional part of h
// times the gap to the next order statistic.
//
// sorted must be ascending and free of NaN. An empty input returns NaN.
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}
	h := float64(n-1) * p
	i := int(math.Floor(h))
	frac := h - float64(i)
	if i+1 >= n {
		return sorted[n-1]
	}
	return sorted[i] + frac*(sorted[i+1]-sorted[i])
}

// Quantiles evaluates Quantile at each probability in probs.
func Quantiles(sorted []float64, probs []float64) []float64 {
	out := make([]float64, len(probs))
	for i, p := range probs {
		out[i] = Quantile(sorted, p)
	}
	return out
}

package scale

import (
	"math"

	"github.com/tilewright/tilewright/pkg/errors"
)

// PrettyBreaks computes human-friendly round-number tick positions spanning
// [lo, hi]. The step size is a power of ten scaled by 1, 2 or 5, chosen so
// the number of resulting intervals is as close to n as possible. On a tie
// the larger step wins, producing fewer, rounder ticks.
//
// The returned breaks are integer multiples of the step and cover the full
// range (first break <= lo, last break >= hi). Callers that need breaks
// inside the data range clip the result themselves.
func PrettyBreaks(lo, hi float64, n int) []float64 {
	if lo > hi {
		lo, hi = hi, lo
	}
	if n < 1 {
		n = 1
	}
	span := hi - lo
	if span == 0 || math.IsNaN(span) || math.IsInf(span, 0) {
		return []float64{lo}
	}

	cell := span / float64(n)
	base := math.Pow(10, math.Floor(math.Log10(cell)))

	step := base
	bestScore := math.Inf(1)
	for _, m := range []float64{1, 2, 5, 10} {
		cand := m * base
		score := math.Abs(span/cand - float64(n))
		// <= prefers the larger step on equal scores
		if score <= bestScore {
			bestScore = score
			step = cand
		}
	}

	// Enumerate integer multiples of the step to avoid accumulation drift.
	k0 := math.Floor(lo / step)
	k1 := math.Ceil(hi / step)
	breaks := make([]float64, 0, int(k1-k0)+1)
	for k := k0; k <= k1; k++ {
		breaks = append(breaks, k*step)
	}
	return breaks
}

// ClipBreaks returns the subset of breaks falling inside [lo, hi].
func ClipBreaks(breaks []float64, lo, hi float64) []float64 {
	out := breaks[:0:0]
	for _, b := range breaks {
		if b >= lo && b <= hi {
			out = append(out, b)
		}
	}
	return out
}

// CheckEquallySpaced verifies that an explicit break vector has at least
// three entries and is equally spaced. Spacing is checked via second
// differences with a tolerance of machine epsilon scaled by the magnitude
// of the values, so breaks produced by repeated float addition still pass.
func CheckEquallySpaced(breaks []float64) error {
	if len(breaks) < 3 {
		return errors.New(errors.ErrCodeInvalidBreaks,
			"at least 3 breaks are required, got %d", len(breaks))
	}

	mag := math.Max(math.Abs(breaks[0]), math.Abs(breaks[len(breaks)-1]))
	tol := 8 * epsilon * math.Max(mag, 1)

	for i := 0; i+2 < len(breaks); i++ {
		d2 := (breaks[i+2] - breaks[i+1]) - (breaks[i+1] - breaks[i])
		if math.Abs(d2) > tol {
			return errors.New(errors.ErrCodeInvalidBreaks,
				"breaks must be equally spaced: spacing changes at index %d (%g)", i+1, breaks[i+1])
		}
	}
	return nil
}

// epsilon is the double-precision machine epsilon.
var epsilon = math.Nextafter(1, 2) - 1

package scale

import (
	"math"
	"testing"
)

func TestPrettyBreaksRoundRange(t *testing.T) {
	got := PrettyBreaks(0, 100, 5)
	want := []float64{0, 20, 40, 60, 80, 100}
	if len(got) != len(want) {
		t.Fatalf("PrettyBreaks(0, 100, 5) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("break[%d] = %g, want %g", i, got[i], want[i])
		}
	}
}

func TestPrettyBreaksStepIsRound(t *testing.T) {
	tests := []struct {
		lo, hi float64
		n      int
	}{
		{0, 1, 5},
		{0.003, 0.017, 4},
		{-40, 260, 7},
		{1e6, 9e6, 5},
		{2.5, 97.3, 5},
	}
	for _, tt := range tests {
		breaks := PrettyBreaks(tt.lo, tt.hi, tt.n)
		if len(breaks) < 2 {
			t.Errorf("PrettyBreaks(%g, %g, %d) produced %d breaks", tt.lo, tt.hi, tt.n, len(breaks))
			continue
		}
		if breaks[0] > tt.lo || breaks[len(breaks)-1] < tt.hi {
			t.Errorf("PrettyBreaks(%g, %g, %d) = %v does not cover the range", tt.lo, tt.hi, tt.n, breaks)
		}

		// The step must be 1, 2 or 5 times a power of ten.
		step := breaks[1] - breaks[0]
		mant := step / math.Pow(10, math.Floor(math.Log10(step)))
		ok := false
		for _, m := range []float64{1, 2, 5, 10} {
			if math.Abs(mant-m) < 1e-9 {
				ok = true
			}
		}
		if !ok {
			t.Errorf("PrettyBreaks(%g, %g, %d): step %g is not a 1/2/5 multiple of a power of ten",
				tt.lo, tt.hi, tt.n, step)
		}

		if err := CheckEquallySpaced(breaks); err != nil {
			t.Errorf("PrettyBreaks(%g, %g, %d) = %v not equally spaced: %v", tt.lo, tt.hi, tt.n, breaks, err)
		}
	}
}

func TestPrettyBreaksDegenerate(t *testing.T) {
	got := PrettyBreaks(7, 7, 5)
	if len(got) != 1 || got[0] != 7 {
		t.Errorf("PrettyBreaks on zero span = %v, want [7]", got)
	}

	// Reversed endpoints are swapped, not an error.
	got = PrettyBreaks(100, 0, 5)
	if got[0] > 0 || got[len(got)-1] < 100 {
		t.Errorf("PrettyBreaks with reversed endpoints = %v", got)
	}
}

func TestClipBreaks(t *testing.T) {
	breaks := []float64{0, 20, 40, 60, 80, 100}
	got := ClipBreaks(breaks, 15, 85)
	want := []float64{20, 40, 60, 80}
	if len(got) != len(want) {
		t.Fatalf("ClipBreaks = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("clipped[%d] = %g, want %g", i, got[i], want[i])
		}
	}
}

func TestCheckEquallySpaced(t *testing.T) {
	accept := [][]float64{
		{0, 10, 20},
		{0, 20, 40, 60, 80, 100},
		{-5, 0, 5, 10},
		{1e9, 2e9, 3e9},
	}
	for _, b := range accept {
		if err := CheckEquallySpaced(b); err != nil {
			t.Errorf("CheckEquallySpaced(%v) unexpected error: %v", b, err)
		}
	}

	// Spacing produced by repeated addition accumulates a few ulps; it must
	// still pass.
	drift := make([]float64, 0, 11)
	for x := 0.0; len(drift) < 11; x += 0.1 {
		drift = append(drift, x)
	}
	if err := CheckEquallySpaced(drift); err != nil {
		t.Errorf("CheckEquallySpaced with float drift: %v", err)
	}

	reject := [][]float64{
		{0, 10},
		{0, 10, 30},
		{0, 1, 2, 4},
		{1, 2, 4, 8},
	}
	for _, b := range reject {
		if err := CheckEquallySpaced(b); err == nil {
			t.Errorf("CheckEquallySpaced(%v) should fail", b)
		}
	}
}

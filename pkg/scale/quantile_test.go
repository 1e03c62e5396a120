package scale

import (
	"math"
	"testing"
)

func TestQuantileDeciles(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	tests := []struct {
		p    float64
		want float64
	}{
		{0, 1},
		{0.25, 3.25},
		{0.5, 5.5},
		{0.75, 7.75},
		{1, 10},
	}
	for _, tt := range tests {
		got := Quantile(sorted, tt.p)
		if math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Quantile(p=%g) = %g, want %g", tt.p, got, tt.want)
		}
	}
}

func TestQuantileEdgeCases(t *testing.T) {
	if !math.IsNaN(Quantile(nil, 0.5)) {
		t.Error("Quantile of empty input should be NaN")
	}
	if got := Quantile([]float64{42}, 0.9); got != 42 {
		t.Errorf("Quantile of single value = %g, want 42", got)
	}
	sorted := []float64{1, 2, 3}
	if got := Quantile(sorted, -0.5); got != 1 {
		t.Errorf("Quantile(p<0) = %g, want 1", got)
	}
	if got := Quantile(sorted, 1.5); got != 3 {
		t.Errorf("Quantile(p>1) = %g, want 3", got)
	}
}

func TestQuantiles(t *testing.T) {
	sorted := []float64{0, 100}
	got := Quantiles(sorted, []float64{0, 0.5, 1})
	want := []float64{0, 50, 100}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Quantiles[%d] = %g, want %g", i, got[i], want[i])
		}
	}
}

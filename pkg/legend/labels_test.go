package legend

import "testing"

func TestNumberFormatting(t *testing.T) {
	f := NewLabelFormat()

	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{5, "5"},
		{5.25, "5.25"},
		{1234, "1,230"},       // 3 significant digits, thousands separator
		{1234567, "1,230,000"},
		{-9876, "-9,880"},
		{0.012345, "0.0123"},
	}
	for _, tt := range tests {
		if got := f.Number(tt.in); got != tt.want {
			t.Errorf("Number(%g) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNumberPrefixSuffixDigits(t *testing.T) {
	f := &LabelFormat{Prefix: "$", Suffix: "M", Between: "–", Digits: 2, BigMark: ""}
	if got := f.Number(1234); got != "$1200M" {
		t.Errorf("Number = %q, want $1200M", got)
	}
}

func TestNumberTransform(t *testing.T) {
	f := NewLabelFormat()
	f.Transform = func(v float64) float64 { return v * 100 }
	if got := f.Number(0.5); got != "50" {
		t.Errorf("Number with transform = %q, want 50", got)
	}
}

func TestBinLabelsUseEnDash(t *testing.T) {
	f := NewLabelFormat()
	got := f.Bin([]float64{0, 10, 20})
	if len(got) != 2 {
		t.Fatalf("Bin produced %d labels", len(got))
	}
	if got[0] != "0 – 10" || got[1] != "10 – 20" {
		t.Errorf("Bin = %v", got)
	}
}

func TestQuantileLabelsCarryHoverText(t *testing.T) {
	f := NewLabelFormat()
	got := f.Quantile([]float64{1, 5.5, 10}, []float64{0, 0.5, 1})
	if len(got) != 2 {
		t.Fatalf("Quantile produced %d labels", len(got))
	}
	want0 := `<span title="1 – 5.5">0% – 50%</span>`
	if got[0] != want0 {
		t.Errorf("Quantile[0] = %q, want %q", got[0], want0)
	}
}

func TestFactorCopiesLevels(t *testing.T) {
	f := NewLabelFormat()
	levels := []string{"a", "b"}
	got := f.Factor(levels)
	got[0] = "mutated"
	if levels[0] != "a" {
		t.Error("Factor should not alias the input slice")
	}
}

func TestInsertBigMark(t *testing.T) {
	tests := []struct{ in, want string }{
		{"1", "1"},
		{"123", "123"},
		{"1234", "1,234"},
		{"1234567.89", "1,234,567.89"},
		{"-1234", "-1,234"},
	}
	for _, tt := range tests {
		if got := insertBigMark(tt.in, ","); got != tt.want {
			t.Errorf("insertBigMark(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

package legend

import (
	"math"
	"strings"
	"testing"

	"github.com/tilewright/tilewright/pkg/errors"
	"github.com/tilewright/tilewright/pkg/scale"
)

func grayscale(t *testing.T) scale.Palette {
	t.Helper()
	return scale.MustPalette("#000000", "#ffffff")
}

func TestBuildNumericPrettyBreaks(t *testing.T) {
	s, err := scale.NewNumeric(grayscale(t), 0, 100)
	if err != nil {
		t.Fatalf("NewNumeric: %v", err)
	}
	values := []float64{0, 25, 50, 75, 100}

	p, err := Build(s, values, Options{Bins: 5})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if p.Type != "numeric" {
		t.Errorf("Type = %q", p.Type)
	}
	// Breaks {0,20,...,100}: 6 labels, 6 positioned stops plus 2 endpoint
	// anchors.
	if len(p.Labels) != 6 {
		t.Fatalf("labels = %v", p.Labels)
	}
	if p.Labels[1] != "20" || p.Labels[5] != "100" {
		t.Errorf("labels = %v", p.Labels)
	}
	if len(p.Colors) != 8 {
		t.Fatalf("colors = %v", p.Colors)
	}
	if !strings.HasSuffix(p.Colors[1], " 0%") {
		t.Errorf("first stop = %q, want suffix ' 0%%'", p.Colors[1])
	}
	if !strings.HasSuffix(p.Colors[6], " 100%") {
		t.Errorf("last stop = %q, want suffix ' 100%%'", p.Colors[6])
	}
	if p.Extra == nil || p.Extra.P1 != 0 || p.Extra.PN != 1 {
		t.Errorf("extra = %+v, want p_1=0 p_n=1", p.Extra)
	}
}

func TestBuildNumericClipsBreaksToValueRange(t *testing.T) {
	s, _ := scale.NewNumeric(grayscale(t), 0, 100)
	// Values span [15, 85]; the pretty breaks 0 and 100 must be clipped.
	p, err := Build(s, []float64{15, 40, 85}, Options{Bins: 5})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for _, l := range p.Labels {
		if l == "0" || l == "100" {
			t.Errorf("break outside value range survived clipping: labels = %v", p.Labels)
		}
	}
	if p.Extra.P1 < 0 || p.Extra.PN > 1 {
		t.Errorf("extra out of range: %+v", p.Extra)
	}
}

func TestBuildNumericExplicitBreaks(t *testing.T) {
	s, _ := scale.NewNumeric(grayscale(t), 0, 100)
	values := []float64{0, 100}

	p, err := Build(s, values, Options{Breaks: []float64{0, 25, 50, 75, 100}})
	if err != nil {
		t.Fatalf("Build with explicit breaks: %v", err)
	}
	if len(p.Labels) != 5 {
		t.Errorf("labels = %v", p.Labels)
	}

	// Unequally spaced breaks are rejected before any output exists.
	_, err = Build(s, values, Options{Breaks: []float64{0, 10, 50, 100}})
	if err == nil {
		t.Fatal("unequally spaced breaks should fail")
	}
	if errors.GetCode(err) != errors.ErrCodeInvalidBreaks {
		t.Errorf("wrong code: %s", errors.GetCode(err))
	}

	// Fewer than 3 explicit breaks are rejected.
	if _, err := Build(s, values, Options{Breaks: []float64{0, 100}}); err == nil {
		t.Error("short break vector should fail")
	}
}

func TestBuildBin(t *testing.T) {
	s, err := scale.NewBin(grayscale(t), []float64{0, 10, 20, 30})
	if err != nil {
		t.Fatalf("NewBin: %v", err)
	}

	p, err := Build(s, []float64{5, 15, 25}, Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if p.Type != "bin" {
		t.Errorf("Type = %q", p.Type)
	}
	// One fewer label than edges.
	if len(p.Labels) != 3 || len(p.Colors) != 3 {
		t.Fatalf("labels = %v, colors = %v", p.Labels, p.Colors)
	}
	if p.Labels[0] != "0 – 10" {
		t.Errorf("label[0] = %q, want \"0 – 10\"", p.Labels[0])
	}
	// Swatch color equals the scale evaluated at the bucket midpoint.
	if p.Colors[1] != s.Color(15).Hex() {
		t.Errorf("colors[1] = %q, want %q", p.Colors[1], s.Color(15).Hex())
	}
}

func TestBuildQuantile(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	probs := []float64{0, 0.25, 0.5, 0.75, 1}
	s, err := scale.NewQuantile(grayscale(t), values, probs)
	if err != nil {
		t.Fatalf("NewQuantile: %v", err)
	}

	p, err := Build(s, values, Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(p.Labels) != len(probs)-1 {
		t.Fatalf("label count = %d, want %d", len(p.Labels), len(probs)-1)
	}

	// Each label shows the percentile range and carries the underlying
	// value interval as hover text.
	wantTitles := []string{"1 – 3.25", "3.25 – 5.5", "5.5 – 7.75", "7.75 – 10"}
	wantRanges := []string{"0% – 25%", "25% – 50%", "50% – 75%", "75% – 100%"}
	for i, l := range p.Labels {
		if !strings.Contains(l, `title="`+wantTitles[i]+`"`) {
			t.Errorf("label[%d] = %q, want title %q", i, l, wantTitles[i])
		}
		if !strings.Contains(l, wantRanges[i]) {
			t.Errorf("label[%d] = %q, want range %q", i, l, wantRanges[i])
		}
	}
}

func TestBuildFactorSortedDeterministic(t *testing.T) {
	s, err := scale.NewFactor(grayscale(t), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("NewFactor: %v", err)
	}

	p, err := BuildFactor(s, []string{"c", "a", "b", "a"}, Options{})
	if err != nil {
		t.Fatalf("BuildFactor: %v", err)
	}
	if len(p.Colors) != 3 || len(p.Labels) != 3 {
		t.Fatalf("colors = %v, labels = %v", p.Colors, p.Labels)
	}
	want := []string{"a", "b", "c"}
	for i := range want {
		if p.Labels[i] != want[i] {
			t.Fatalf("labels = %v, want sorted %v", p.Labels, want)
		}
	}

	// Colors are deterministic per value.
	p2, _ := BuildFactor(s, []string{"b", "c", "a"}, Options{})
	for i := range p.Colors {
		if p.Colors[i] != p2.Colors[i] {
			t.Errorf("colors differ across input orders: %v vs %v", p.Colors, p2.Colors)
		}
	}
}

func TestMissingValueSwatch(t *testing.T) {
	s, _ := scale.NewNumeric(grayscale(t), 0, 100)

	// Missing entry + opaque NA color: swatch present.
	p, err := Build(s, []float64{0, math.NaN(), 100}, Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !p.HasMissingSwatch() {
		t.Error("swatch should appear for missing values with an opaque NA color")
	}
	if p.NALabel != "NA" {
		t.Errorf("NALabel = %q", p.NALabel)
	}

	// No missing entries: no swatch.
	p, _ = Build(s, []float64{0, 100}, Options{})
	if p.HasMissingSwatch() {
		t.Error("swatch should not appear without missing values")
	}

	// Missing entries but fully transparent NA color: no swatch.
	s.SetNAColor(scale.Color{})
	p, _ = Build(s, []float64{0, math.NaN(), 100}, Options{})
	if p.HasMissingSwatch() {
		t.Error("swatch should not appear for a transparent NA color")
	}
}

func TestConflictingArguments(t *testing.T) {
	s, _ := scale.NewNumeric(grayscale(t), 0, 100)

	_, err := Build(s, []float64{0, 100}, Options{Colors: []string{"#ff0000"}})
	if err == nil {
		t.Fatal("scale plus explicit colors should fail")
	}
	if errors.GetCode(err) != errors.ErrCodeConflictingArgs {
		t.Errorf("wrong code: %s", errors.GetCode(err))
	}
}

func TestRawColorsRequireMatchingLabels(t *testing.T) {
	_, err := Build(nil, nil, Options{
		Colors: []string{"#ff0000", "#00ff00"},
		Labels: []string{"low"},
	})
	if err == nil {
		t.Fatal("mismatched lengths should fail")
	}
	if errors.GetCode(err) != errors.ErrCodeLengthMismatch {
		t.Errorf("wrong code: %s", errors.GetCode(err))
	}

	p, err := Build(nil, nil, Options{
		Colors: []string{"#ff0000", "#00ff00"},
		Labels: []string{"low", "high"},
	})
	if err != nil {
		t.Fatalf("Build raw: %v", err)
	}
	if p.Type != "unknown" {
		t.Errorf("Type = %q, want unknown", p.Type)
	}
}

func TestBuildRejectsFactorScale(t *testing.T) {
	s, _ := scale.NewFactor(grayscale(t), []string{"a", "b"})
	if _, err := Build(s, nil, Options{}); err == nil {
		t.Error("Build with a factor scale should direct callers to BuildFactor")
	}
}

func TestBuildValidatesPosition(t *testing.T) {
	s, _ := scale.NewNumeric(grayscale(t), 0, 1)
	_, err := Build(s, []float64{0, 1}, Options{Position: "middle"})
	if err == nil {
		t.Fatal("invalid position should fail")
	}
	if errors.GetCode(err) != errors.ErrCodeInvalidPosition {
		t.Errorf("wrong code: %s", errors.GetCode(err))
	}
}

func TestPayloadDefaults(t *testing.T) {
	s, _ := scale.NewNumeric(grayscale(t), 0, 1)
	p, err := Build(s, []float64{0, 1}, Options{Title: "Density", Group: "overlay", LayerID: "leg"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if p.Position != "topright" || p.Opacity != 0.5 || p.ClassName != "info legend" {
		t.Errorf("defaults not applied: %+v", p)
	}
	if p.Title == nil || *p.Title != "Density" {
		t.Error("title not carried through")
	}
	if p.Group == nil || *p.Group != "overlay" {
		t.Error("group not carried through")
	}
	if p.LayerID == nil || *p.LayerID != "leg" {
		t.Error("layerId not carried through")
	}
}

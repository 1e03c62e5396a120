// Package scale implements color scales for map symbology and legends.
//
// A Scale is a closed tagged variant over four generation kinds:
//
//   - numeric: continuous gradient over a [min, max] domain
//   - bin: fixed bucket edges, one color per bucket
//   - quantile: equal-population buckets over a value set
//   - factor: categorical, one color per distinct level
//
// Each constructor records the arguments the scale was built from (domain,
// bucket edges, probability cut points, levels) so downstream consumers such
// as the legend formatter can recover them. Every scale carries a dedicated
// missing-value color, defaulting to opaque gray.
package scale

import (
	"math"
	"sort"

	"github.com/tilewright/tilewright/pkg/errors"
)

// Kind identifies how a scale was generated. The set is closed; consumers
// must match all four kinds exhaustively and reject anything else.
type Kind string

// The four scale kinds.
const (
	KindNumeric  Kind = "numeric"
	KindBin      Kind = "bin"
	KindQuantile Kind = "quantile"
	KindFactor   Kind = "factor"
)

// Valid reports whether k is one of the four known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindNumeric, KindBin, KindQuantile, KindFactor:
		return true
	}
	return false
}

// DefaultNAColor is the missing-value color scales start with.
var DefaultNAColor = Color{R: 0x80, G: 0x80, B: 0x80, A: 0xff}

// Scale maps domain values to display colors. Use the New* constructors;
// the zero value is not usable.
type Scale struct {
	kind    Kind
	pal     Palette
	naColor Color

	// Construction arguments, populated per kind.
	lo, hi float64   // numeric domain
	breaks []float64 // bin edges, ascending
	probs  []float64 // quantile cut points, ascending in [0, 1]
	values []float64 // quantile source values, sorted, NaN removed
	levels []string  // factor levels, sorted distinct
}

// NewNumeric builds a continuous scale over the domain [lo, hi].
func NewNumeric(pal Palette, lo, hi float64) (*Scale, error) {
	if pal.Empty() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "numeric scale requires a palette")
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	return &Scale{kind: KindNumeric, pal: pal, naColor: DefaultNAColor, lo: lo, hi: hi}, nil
}

// NewBin builds a bucketed scale from ascending bucket edges. Each of the
// len(breaks)-1 buckets is colored at its midpoint position on the palette.
func NewBin(pal Palette, breaks []float64) (*Scale, error) {
	if pal.Empty() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "bin scale requires a palette")
	}
	if len(breaks) < 2 {
		return nil, errors.New(errors.ErrCodeInvalidBreaks,
			"bin scale requires at least 2 bucket edges, got %d", len(breaks))
	}
	for i := 1; i < len(breaks); i++ {
		if breaks[i] <= breaks[i-1] {
			return nil, errors.New(errors.ErrCodeInvalidBreaks,
				"bucket edges must be strictly ascending at index %d (%g)", i, breaks[i])
		}
	}
	s := &Scale{kind: KindBin, pal: pal, naColor: DefaultNAColor}
	s.breaks = append(s.breaks, breaks...)
	s.lo, s.hi = breaks[0], breaks[len(breaks)-1]
	return s, nil
}

// NewQuantile builds an equal-population scale: values are divided into
// buckets at the given probability cut points. probs must be ascending,
// start at 0 and end at 1. NaN entries in values are dropped.
func NewQuantile(pal Palette, values []float64, probs []float64) (*Scale, error) {
	if pal.Empty() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "quantile scale requires a palette")
	}
	if len(probs) < 2 {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"quantile scale requires at least 2 probability cut points, got %d", len(probs))
	}
	if probs[0] != 0 || probs[len(probs)-1] != 1 {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"probability cut points must start at 0 and end at 1")
	}
	for i := 1; i < len(probs); i++ {
		if probs[i] <= probs[i-1] {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"probability cut points must be strictly ascending at index %d (%g)", i, probs[i])
		}
	}
	clean, _ := CleanValues(values)
	if len(clean) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"quantile scale requires at least one non-missing value")
	}
	s := &Scale{kind: KindQuantile, pal: pal, naColor: DefaultNAColor, values: clean}
	s.probs = append(s.probs, probs...)
	s.lo, s.hi = clean[0], clean[len(clean)-1]
	return s, nil
}

// NewFactor builds a categorical scale over the given levels. Levels are
// deduplicated and sorted, so colors are deterministic per value regardless
// of input order.
func NewFactor(pal Palette, levels []string) (*Scale, error) {
	if pal.Empty() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "factor scale requires a palette")
	}
	distinct := make(map[string]bool, len(levels))
	var sorted []string
	for _, l := range levels {
		if l == "" || distinct[l] {
			continue
		}
		distinct[l] = true
		sorted = append(sorted, l)
	}
	if len(sorted) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"factor scale requires at least one non-missing level")
	}
	sort.Strings(sorted)
	return &Scale{kind: KindFactor, pal: pal, naColor: DefaultNAColor, levels: sorted}, nil
}

// Kind returns the scale's generation kind.
func (s *Scale) Kind() Kind { return s.kind }

// NAColor returns the missing-value color.
func (s *Scale) NAColor() Color { return s.naColor }

// SetNAColor replaces the missing-value color. A fully transparent color
// suppresses the missing-value legend swatch.
func (s *Scale) SetNAColor(c Color) { s.naColor = c }

// Domain returns the numeric domain endpoints. For factor scales both are 0.
func (s *Scale) Domain() (lo, hi float64) { return s.lo, s.hi }

// Breaks returns the bin scale's bucket edges. Nil for other kinds.
func (s *Scale) Breaks() []float64 { return s.breaks }

// Probs returns the quantile scale's probability cut points. Nil otherwise.
func (s *Scale) Probs() []float64 { return s.probs }

// Values returns the quantile scale's sorted source values. Nil otherwise.
func (s *Scale) Values() []float64 { return s.values }

// Levels returns the factor scale's sorted distinct levels. Nil otherwise.
func (s *Scale) Levels() []string { return s.levels }

// Color maps a numeric value to its display color. NaN maps to the
// missing-value color. Calling Color on a factor scale is a programming
// error and returns the missing-value color.
func (s *Scale) Color(v float64) Color {
	if math.IsNaN(v) {
		return s.naColor
	}
	switch s.kind {
	case KindNumeric:
		if s.hi == s.lo {
			return s.pal.At(0)
		}
		return s.pal.At((v - s.lo) / (s.hi - s.lo))
	case KindBin:
		nb := len(s.breaks) - 1
		i := bucketIndex(s.breaks, v)
		return s.pal.At((float64(i) + 0.5) / float64(nb))
	case KindQuantile:
		i := bucketIndex(Quantiles(s.values, s.probs), v)
		return s.pal.At((s.probs[i] + s.probs[i+1]) / 2)
	default:
		return s.naColor
	}
}

// ColorLevel maps a factor level to its display color. Unknown or empty
// levels map to the missing-value color.
func (s *Scale) ColorLevel(level string) Color {
	if s.kind != KindFactor || level == "" {
		return s.naColor
	}
	i := sort.SearchStrings(s.levels, level)
	if i >= len(s.levels) || s.levels[i] != level {
		return s.naColor
	}
	if len(s.levels) == 1 {
		return s.pal.At(0)
	}
	return s.pal.At(float64(i) / float64(len(s.levels)-1))
}

// bucketIndex returns the index of the bucket containing v given ascending
// edges. Values below the first edge land in bucket 0, values at or above
// the last edge in the final bucket.
func bucketIndex(edges []float64, v float64) int {
	nb := len(edges) - 1
	i := sort.SearchFloat64s(edges, v)
	// SearchFloat64s returns the insertion point; shift to the bucket index.
	if i > 0 && (i >= len(edges) || edges[i] != v) {
		i--
	}
	if i >= nb {
		i = nb - 1
	}
	return i
}

// CleanValues returns values sorted ascending with NaN entries removed, and
// reports whether any were missing.
func CleanValues(values []float64) (clean []float64, hadMissing bool) {
	clean = make([]float64, 0, len(values))
	for _, v := range values {
		if math.IsNaN(v) {
			hadMissing = true
			continue
		}
		clean = append(clean, v)
	}
	sort.Float64s(clean)
	return clean, hadMissing
}

package legend

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// LabelFormat renders break and probability data into display strings for
// legend swatches. The zero value is not usable; use NewLabelFormat or set
// every field.
type LabelFormat struct {
	// Prefix and Suffix wrap every rendered number.
	Prefix string
	Suffix string

	// Between joins interval endpoints. Defaults to an en dash with
	// surrounding spaces.
	Between string

	// Digits is the number of significant digits numbers are rounded to.
	Digits int

	// BigMark is the thousands separator inserted into the integer part.
	BigMark string

	// Transform is applied to every numeric value before formatting.
	// Optional; useful for unit conversion.
	Transform func(float64) float64
}

// NewLabelFormat returns the default formatter: 3 significant digits, comma
// thousands separator, en-dash interval glyph.
func NewLabelFormat() *LabelFormat {
	return &LabelFormat{
		Between: " – ",
		Digits:  3,
		BigMark: ",",
	}
}

// Number renders a single value: transformed, rounded to significant
// digits, thousands-separated, wrapped in prefix/suffix.
func (f *LabelFormat) Number(v float64) string {
	if f.Transform != nil {
		v = f.Transform(v)
	}
	return f.Prefix + formatSignif(v, f.Digits, f.BigMark) + f.Suffix
}

// Numeric renders one label per break for continuous legends.
func (f *LabelFormat) Numeric(cuts []float64) []string {
	out := make([]string, len(cuts))
	for i, c := range cuts {
		out[i] = f.Number(c)
	}
	return out
}

// Bin renders "lower – upper" interval labels, one fewer than cuts.
func (f *LabelFormat) Bin(cuts []float64) []string {
	out := make([]string, len(cuts)-1)
	for i := range out {
		out[i] = f.Number(cuts[i]) + f.Between + f.Number(cuts[i+1])
	}
	return out
}

// Quantile renders percentile-range labels, one fewer than probs, with the
// underlying value interval as hover text (an HTML span title attribute).
// cuts must hold the quantile of the value set at each probability.
func (f *LabelFormat) Quantile(cuts, probs []float64) []string {
	out := make([]string, len(probs)-1)
	for i := range out {
		rng := f.Number(cuts[i]) + f.Between + f.Number(cuts[i+1])
		pct := formatPercent(probs[i]) + f.Between + formatPercent(probs[i+1])
		out[i] = fmt.Sprintf("<span title=%q>%s</span>", rng, pct)
	}
	return out
}

// Factor renders categorical labels verbatim.
func (f *LabelFormat) Factor(levels []string) []string {
	out := make([]string, len(levels))
	copy(out, levels)
	return out
}

// formatSignif rounds v to n significant digits and inserts the thousands
// separator into the integer part.
func formatSignif(v float64, n int, bigMark string) string {
	if math.IsNaN(v) {
		return "NaN"
	}

	s := ""
	if n <= 0 || v == 0 || math.IsInf(v, 0) {
		s = strconv.FormatFloat(v, 'f', -1, 64)
	} else {
		mag := int(math.Floor(math.Log10(math.Abs(v))))
		decimals := n - 1 - mag
		if decimals < 0 {
			decimals = 0
		}
		factor := math.Pow(10, float64(n-1-mag))
		v = math.Round(v*factor) / factor
		// Fixed decimal places absorb division artifacts; trailing zeros
		// are stripped afterwards.
		s = strconv.FormatFloat(v, 'f', decimals, 64)
		if strings.ContainsRune(s, '.') {
			s = strings.TrimRight(s, "0")
			s = strings.TrimRight(s, ".")
		}
	}

	if bigMark == "" {
		return s
	}
	return insertBigMark(s, bigMark)
}

// formatPercent renders a probability as a percentage without trailing
// zeros ("25%", "12.5%").
func formatPercent(p float64) string {
	// Round away float noise from percentage arithmetic.
	v := math.Round(p*100*1e6) / 1e6
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}

// insertBigMark inserts the separator every three digits in the integer
// part of a formatted number.
func insertBigMark(s, mark string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, fracPart := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i:]
	}

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteString(mark)
		}
		b.WriteRune(r)
	}

	out := b.String() + fracPart
	if neg {
		out = "-" + out
	}
	return out
}

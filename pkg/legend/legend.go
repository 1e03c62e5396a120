// Package legend formats color scales into legend payloads for the
// rendering host.
//
// A legend is derived on demand from a color scale's construction metadata
// and the value set it was built from; nothing is stored on the map handle
// beyond the finished payload. Each of the four scale kinds has its own
// formatting rule, matched exhaustively:
//
//   - numeric: gradient color stops at pretty (or explicit equally spaced)
//     breaks, with percentage layout hints for tick alignment
//   - bin: one swatch per bucket, colored at the bucket midpoint
//   - quantile: one swatch per probability interval, labeled with the
//     percentile range and the underlying value range as hover text
//   - factor: one swatch per sorted distinct level
package legend

import (
	"math"
	"sort"

	"github.com/tilewright/tilewright/pkg/errors"
	"github.com/tilewright/tilewright/pkg/scale"
)

// Default display parameters.
const (
	DefaultPosition  = "topright"
	DefaultOpacity   = 0.5
	DefaultBins      = 7
	DefaultNALabel   = "NA"
	DefaultClassName = "info legend"
)

// Payload is the wire form of a legend, interpreted by the rendering host.
// Field names and types are part of the builder/renderer contract.
type Payload struct {
	Colors    []string `json:"colors"`
	Labels    []string `json:"labels"`
	NAColor   *string  `json:"na_color"`
	NALabel   string   `json:"na_label"`
	Opacity   float64  `json:"opacity"`
	Position  string   `json:"position"`
	Type      string   `json:"type"`
	Title     *string  `json:"title"`
	Extra     *Extra   `json:"extra"`
	LayerID   *string  `json:"layerId"`
	ClassName string   `json:"className"`
	Group     *string  `json:"group"`
}

// Extra carries layout hints for numeric gradient legends: the fractional
// positions of the first and last break within the value span. The renderer
// needs them to align gradient tick marks.
type Extra struct {
	P1 float64 `json:"p_1"`
	PN float64 `json:"p_n"`
}

// Options are the display parameters for a legend.
type Options struct {
	// Position is the map corner the legend docks to. One of topright,
	// bottomright, bottomleft, topleft. Defaults to topright.
	Position string

	// Title is the legend heading. Empty means no title.
	Title string

	// Opacity of the swatches, in [0, 1]. Defaults to 0.5.
	Opacity float64

	// Bins is the requested break count for numeric scales. Ignored when
	// Breaks is set. Defaults to 7.
	Bins int

	// Breaks is an explicit break vector for numeric scales. Must have at
	// least 3 entries and be equally spaced.
	Breaks []float64

	// Colors and Labels supply raw swatches directly, bypassing any scale.
	// Mutually exclusive with passing a scale; lengths must match.
	Colors []string
	Labels []string

	// NALabel is the label of the missing-value swatch. Defaults to "NA".
	NALabel string

	// LayerID, Group and ClassName are passed through to the payload.
	LayerID   string
	Group     string
	ClassName string

	// LabelFormat overrides the default label formatter.
	LabelFormat *LabelFormat
}

func (o *Options) setDefaults() error {
	if o.Position == "" {
		o.Position = DefaultPosition
	}
	if err := errors.ValidatePosition(o.Position); err != nil {
		return err
	}
	if o.Opacity == 0 {
		o.Opacity = DefaultOpacity
	}
	if o.Bins <= 0 {
		o.Bins = DefaultBins
	}
	if o.NALabel == "" {
		o.NALabel = DefaultNALabel
	}
	if o.ClassName == "" {
		o.ClassName = DefaultClassName
	}
	if o.LabelFormat == nil {
		o.LabelFormat = NewLabelFormat()
	}
	return nil
}

// Build derives a legend payload from a numeric, bin or quantile scale and
// the value set it was built from. Pass a nil scale with Options.Colors and
// Options.Labels to supply raw swatches directly. Factor scales use
// BuildFactor.
//
// All validation happens before any output is constructed: conflicting
// arguments (scale plus raw colors), mismatched color/label lengths and
// unequally spaced explicit breaks fail fast.
func Build(s *scale.Scale, values []float64, opts Options) (*Payload, error) {
	if err := opts.setDefaults(); err != nil {
		return nil, err
	}

	if s != nil && len(opts.Colors) > 0 {
		return nil, errors.New(errors.ErrCodeConflictingArgs,
			"a color scale and explicit colors are mutually exclusive")
	}

	if s == nil {
		return buildRaw(opts)
	}

	clean, hadMissing := scale.CleanValues(values)

	p := newPayload(string(s.Kind()), opts)
	setNASwatch(p, s, hadMissing)

	switch s.Kind() {
	case scale.KindNumeric:
		return buildNumeric(p, s, clean, opts)
	case scale.KindBin:
		return buildBin(p, s, opts)
	case scale.KindQuantile:
		return buildQuantile(p, s, clean, opts)
	case scale.KindFactor:
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"factor scales take string values; use BuildFactor")
	default:
		return nil, errors.New(errors.ErrCodeUnsupportedScale,
			"unsupported scale kind: %q", s.Kind())
	}
}

// BuildFactor derives a legend payload from a factor scale and the string
// value set it describes. Swatches cover the sorted distinct non-missing
// values; missing entries are empty strings.
func BuildFactor(s *scale.Scale, values []string, opts Options) (*Payload, error) {
	if err := opts.setDefaults(); err != nil {
		return nil, err
	}
	if s == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "BuildFactor requires a scale")
	}
	if len(opts.Colors) > 0 {
		return nil, errors.New(errors.ErrCodeConflictingArgs,
			"a color scale and explicit colors are mutually exclusive")
	}
	if s.Kind() != scale.KindFactor {
		return nil, errors.New(errors.ErrCodeUnsupportedScale,
			"BuildFactor requires a factor scale, got %q", s.Kind())
	}

	distinct := make(map[string]bool, len(values))
	hadMissing := false
	var levels []string
	for _, v := range values {
		if v == "" {
			hadMissing = true
			continue
		}
		if !distinct[v] {
			distinct[v] = true
			levels = append(levels, v)
		}
	}
	sort.Strings(levels)

	p := newPayload(string(scale.KindFactor), opts)
	setNASwatch(p, s, hadMissing)

	p.Colors = make([]string, len(levels))
	for i, l := range levels {
		p.Colors[i] = s.ColorLevel(l).Hex()
	}
	p.Labels = opts.LabelFormat.Factor(levels)
	return p, nil
}

// buildRaw constructs a payload from explicit colors and labels.
func buildRaw(opts Options) (*Payload, error) {
	if len(opts.Colors) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"either a color scale or explicit colors are required")
	}
	if len(opts.Labels) != len(opts.Colors) {
		return nil, errors.New(errors.ErrCodeLengthMismatch,
			"colors and labels must have the same length (%d colors, %d labels)",
			len(opts.Colors), len(opts.Labels))
	}
	for _, c := range opts.Colors {
		if err := errors.ValidateHexColor(c); err != nil {
			return nil, err
		}
	}
	p := newPayload("unknown", opts)
	p.Colors = append(p.Colors, opts.Colors...)
	p.Labels = append(p.Labels, opts.Labels...)
	return p, nil
}

// buildNumeric constructs a gradient legend. Breaks come from the explicit
// vector when supplied (validated for equal spacing) or from the pretty
// break algorithm. Breaks are clipped to the value range; each break's
// fractional position within the span becomes a CSS gradient stop.
func buildNumeric(p *Payload, s *scale.Scale, clean []float64, opts Options) (*Payload, error) {
	lo, hi := s.Domain()
	if len(clean) > 0 {
		lo, hi = clean[0], clean[len(clean)-1]
	}

	var cuts []float64
	if len(opts.Breaks) > 0 {
		if err := scale.CheckEquallySpaced(opts.Breaks); err != nil {
			return nil, err
		}
		cuts = opts.Breaks
	} else {
		cuts = scale.PrettyBreaks(lo, hi, opts.Bins)
	}
	cuts = scale.ClipBreaks(cuts, lo, hi)
	if len(cuts) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidBreaks,
			"no breaks fall inside the value range [%g, %g]", lo, hi)
	}

	span := hi - lo
	fractions := make([]float64, len(cuts))
	for i, c := range cuts {
		if span > 0 {
			fractions[i] = (c - lo) / span
		}
	}
	p.Extra = &Extra{P1: fractions[0], PN: fractions[len(fractions)-1]}

	// Gradient stops: the range endpoints anchor the gradient, each break
	// contributes a positioned stop.
	p.Colors = make([]string, 0, len(cuts)+2)
	p.Colors = append(p.Colors, s.Color(lo).Hex())
	for i, c := range cuts {
		p.Colors = append(p.Colors, s.Color(c).Hex()+" "+formatPercent(fractions[i]))
	}
	p.Colors = append(p.Colors, s.Color(hi).Hex())

	p.Labels = opts.LabelFormat.Numeric(cuts)
	return p, nil
}

// buildBin constructs one swatch per bucket, colored at the bucket midpoint.
func buildBin(p *Payload, s *scale.Scale, opts Options) (*Payload, error) {
	cuts := s.Breaks()
	p.Colors = make([]string, len(cuts)-1)
	for i := range p.Colors {
		mid := (cuts[i] + cuts[i+1]) / 2
		p.Colors[i] = s.Color(mid).Hex()
	}
	p.Labels = opts.LabelFormat.Bin(cuts)
	return p, nil
}

// buildQuantile constructs one swatch per probability interval. The
// representative color is taken at the value of the midpoint probability
// between adjacent cut points.
func buildQuantile(p *Payload, s *scale.Scale, clean []float64, opts Options) (*Payload, error) {
	if len(clean) == 0 {
		clean = s.Values()
	}
	probs := s.Probs()
	cuts := scale.Quantiles(clean, probs)

	p.Colors = make([]string, len(probs)-1)
	for i := range p.Colors {
		mid := scale.Quantile(clean, (probs[i]+probs[i+1])/2)
		p.Colors[i] = s.Color(mid).Hex()
	}
	p.Labels = opts.LabelFormat.Quantile(cuts, probs)
	return p, nil
}

// newPayload builds the payload shell shared by every kind.
func newPayload(kind string, opts Options) *Payload {
	p := &Payload{
		NALabel:   opts.NALabel,
		Opacity:   opts.Opacity,
		Position:  opts.Position,
		Type:      kind,
		ClassName: opts.ClassName,
	}
	if opts.Title != "" {
		p.Title = &opts.Title
	}
	if opts.LayerID != "" {
		p.LayerID = &opts.LayerID
	}
	if opts.Group != "" {
		p.Group = &opts.Group
	}
	return p
}

// setNASwatch fills the missing-value swatch fields. The swatch appears iff
// the value set contained a missing entry and the scale's missing color has
// non-zero opacity.
func setNASwatch(p *Payload, s *scale.Scale, hadMissing bool) {
	if !hadMissing || !s.NAColor().Opaque() {
		return
	}
	hex := s.NAColor().Hex()
	p.NAColor = &hex
}

// HasMissingSwatch reports whether the payload carries a missing-value
// swatch.
func (p *Payload) HasMissingSwatch() bool {
	return p.NAColor != nil
}

// SpanFraction is a convenience for tests and renderers: the fractional
// position of value v within [lo, hi], clamped to [0, 1].
func SpanFraction(v, lo, hi float64) float64 {
	if hi <= lo {
		return 0
	}
	f := (v - lo) / (hi - lo)
	return math.Max(0, math.Min(1, f))
}

package mapwidget

import (
	"github.com/tilewright/tilewright/pkg/errors"
	"github.com/tilewright/tilewright/pkg/expr"
)

// MarkerOptions configure a marker layer.
type MarkerOptions struct {
	// Popup supplies per-marker popup HTML; resolved against the attached
	// dataset at build time.
	Popup expr.Expr `json:"-"`

	// Label supplies per-marker hover labels.
	Label expr.Expr `json:"-"`

	// Icon names a registered icon set entry. Empty means the default pin.
	Icon string `json:"icon,omitempty"`

	// Cluster enables client-side marker clustering for the layer.
	Cluster bool `json:"cluster"`
}

// AddMarkers appends a marker layer. Coordinates are deferred expressions
// resolved once, here, against the attached dataset; the operation log only
// holds concrete values. Latitude and longitude vectors must have equal
// length, as must popups and labels when supplied.
func (m *Map) AddMarkers(lat, lng expr.Expr, layerID, group string, opts MarkerOptions) *Map {
	if m.err != nil {
		return m
	}
	if err := validateOptionalLayerID(layerID); err != nil {
		return m.fail(err)
	}
	if err := errors.ValidateGroup(group); err != nil {
		return m.fail(err)
	}

	lats, err := expr.ResolveNumbers(lat, m.dataset)
	if err != nil {
		return m.fail(err)
	}
	lngs, err := expr.ResolveNumbers(lng, m.dataset)
	if err != nil {
		return m.fail(err)
	}
	if len(lats) != len(lngs) {
		return m.fail(errors.New(errors.ErrCodeLengthMismatch,
			"lat and lng must have the same length (%d vs %d)", len(lats), len(lngs)))
	}

	popups, err := resolveParallelStrings(opts.Popup, m.dataset, len(lats), "popup")
	if err != nil {
		return m.fail(err)
	}
	labels, err := resolveParallelStrings(opts.Label, m.dataset, len(lats), "label")
	if err != nil {
		return m.fail(err)
	}

	return m.append(categoryOps[CategoryMarker].Add, layerID, group, lats, lngs, popups, labels, opts)
}

// RemoveMarker removes the marker layer with the given ID.
func (m *Map) RemoveMarker(layerID string) *Map {
	return m.removeOp(CategoryMarker, layerID)
}

// ClearMarkers removes every marker layer regardless of ID or group.
func (m *Map) ClearMarkers() *Map {
	return m.append(categoryOps[CategoryMarker].Clear)
}

// resolveParallelStrings resolves an optional string expression and checks
// it runs parallel to the coordinate vectors.
func resolveParallelStrings(e expr.Expr, ds *expr.Dataset, want int, what string) ([]string, error) {
	if e.IsZero() {
		return nil, nil
	}
	vals, err := expr.ResolveStrings(e, ds)
	if err != nil {
		return nil, err
	}
	if len(vals) != want {
		return nil, errors.New(errors.ErrCodeLengthMismatch,
			"%s vector must match coordinate length (%d vs %d)", what, len(vals), want)
	}
	return vals, nil
}

package mapwidget

import (
	"github.com/tilewright/tilewright/pkg/errors"
	"github.com/tilewright/tilewright/pkg/expr"
)

// ShapeOptions configure vector shape styling.
type ShapeOptions struct {
	Stroke      *bool    `json:"stroke,omitempty"`
	Color       string   `json:"color,omitempty"`
	Weight      float64  `json:"weight,omitempty"`
	Opacity     *float64 `json:"opacity,omitempty"`
	Fill        *bool    `json:"fill,omitempty"`
	FillColor   string   `json:"fillColor,omitempty"`
	FillOpacity *float64 `json:"fillOpacity,omitempty"`
}

func (o ShapeOptions) validate() error {
	if o.Color != "" {
		if err := errors.ValidateHexColor(o.Color); err != nil {
			return err
		}
	}
	if o.FillColor != "" {
		if err := errors.ValidateHexColor(o.FillColor); err != nil {
			return err
		}
	}
	return nil
}

// AddCircles appends a circle layer. Coordinates and radii (meters) are
// deferred expressions; radii may be a single value applied to every
// circle.
func (m *Map) AddCircles(lat, lng, radius expr.Expr, layerID, group string, opts ShapeOptions) *Map {
	if m.err != nil {
		return m
	}
	if err := m.validateShapeArgs(layerID, group, opts); err != nil {
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

	radii, err := expr.ResolveNumbers(radius, m.dataset)
	if err != nil {
		return m.fail(err)
	}
	if len(radii) != len(lats) && len(radii) != 1 {
		return m.fail(errors.New(errors.ErrCodeLengthMismatch,
			"radius must be a single value or match coordinate length (%d vs %d)", len(radii), len(lats)))
	}

	return m.append(categoryOps[CategoryShape].Add, layerID, group, "circle", lats, lngs, radii, opts)
}

// AddRectangles appends a rectangle layer from explicit bounds.
func (m *Map) AddRectangles(rects []Bounds, layerID, group string, opts ShapeOptions) *Map {
	if m.err != nil {
		return m
	}
	if err := m.validateShapeArgs(layerID, group, opts); err != nil {
		return m.fail(err)
	}
	if len(rects) == 0 {
		return m.fail(errors.New(errors.ErrCodeInvalidInput, "at least one rectangle is required"))
	}
	return m.append(categoryOps[CategoryShape].Add, layerID, group, "rectangle", rects, opts)
}

// AddPolygons appends a polygon layer. Each polygon is a list of rings and
// each ring a closed list of coordinates; the first ring is the outer
// boundary, later rings are holes.
func (m *Map) AddPolygons(polygons [][][]LatLng, layerID, group string, opts ShapeOptions) *Map {
	if m.err != nil {
		return m
	}
	if err := m.validateShapeArgs(layerID, group, opts); err != nil {
		return m.fail(err)
	}
	if len(polygons) == 0 {
		return m.fail(errors.New(errors.ErrCodeInvalidInput, "at least one polygon is required"))
	}
	for i, rings := range polygons {
		if len(rings) == 0 || len(rings[0]) < 3 {
			return m.fail(errors.New(errors.ErrCodeInvalidInput,
				"polygon %d needs an outer ring with at least 3 points", i))
		}
	}
	return m.append(categoryOps[CategoryShape].Add, layerID, group, "polygon", polygons, opts)
}

// AddPolylines appends a polyline layer, one list of coordinates per line.
func (m *Map) AddPolylines(lines [][]LatLng, layerID, group string, opts ShapeOptions) *Map {
	if m.err != nil {
		return m
	}
	if err := m.validateShapeArgs(layerID, group, opts); err != nil {
		return m.fail(err)
	}
	if len(lines) == 0 {
		return m.fail(errors.New(errors.ErrCodeInvalidInput, "at least one polyline is required"))
	}
	for i, line := range lines {
		if len(line) < 2 {
			return m.fail(errors.New(errors.ErrCodeInvalidInput,
				"polyline %d needs at least 2 points", i))
		}
	}
	return m.append(categoryOps[CategoryShape].Add, layerID, group, "polyline", lines, opts)
}

// RemoveShape removes the shape layer with the given ID.
func (m *Map) RemoveShape(layerID string) *Map {
	return m.removeOp(CategoryShape, layerID)
}

// ClearShapes removes every shape layer regardless of ID or group.
func (m *Map) ClearShapes() *Map {
	return m.append(categoryOps[CategoryShape].Clear)
}

func (m *Map) validateShapeArgs(layerID, group string, opts ShapeOptions) error {
	if err := validateOptionalLayerID(layerID); err != nil {
		return err
	}
	if err := errors.ValidateGroup(group); err != nil {
		return err
	}
	return opts.validate()
}

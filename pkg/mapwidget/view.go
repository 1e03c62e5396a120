package mapwidget

import "github.com/tilewright/tilewright/pkg/errors"

// SetView recenters the map on a coordinate at the given zoom level.
func (m *Map) SetView(center LatLng, zoom int) *Map {
	if m.err != nil {
		return m
	}
	if err := validateLatLng(center); err != nil {
		return m.fail(err)
	}
	if zoom < 0 {
		return m.fail(errors.New(errors.ErrCodeInvalidInput, "zoom cannot be negative: %d", zoom))
	}
	return m.append(opSetView, center, zoom)
}

// FitBounds zooms and pans the map so the given extent is fully visible.
func (m *Map) FitBounds(b Bounds) *Map {
	if m.err != nil {
		return m
	}
	if err := validateBounds(b); err != nil {
		return m.fail(err)
	}
	return m.append(opFitBounds, b)
}

// SetMaxBounds restricts panning to the given extent.
func (m *Map) SetMaxBounds(b Bounds) *Map {
	if m.err != nil {
		return m
	}
	if err := validateBounds(b); err != nil {
		return m.fail(err)
	}
	return m.append(opSetMaxBounds, b)
}

func validateLatLng(c LatLng) error {
	if c.Lat < -90 || c.Lat > 90 {
		return errors.New(errors.ErrCodeInvalidInput, "latitude out of range: %g", c.Lat)
	}
	if c.Lng < -180 || c.Lng > 180 {
		return errors.New(errors.ErrCodeInvalidInput, "longitude out of range: %g", c.Lng)
	}
	return nil
}

func validateBounds(b Bounds) error {
	if err := validateLatLng(LatLng{Lat: b.North, Lng: b.East}); err != nil {
		return err
	}
	if err := validateLatLng(LatLng{Lat: b.South, Lng: b.West}); err != nil {
		return err
	}
	if b.South > b.North {
		return errors.New(errors.ErrCodeInvalidInput,
			"south (%g) cannot exceed north (%g)", b.South, b.North)
	}
	return nil
}

package event

import (
	"encoding/json"

	"github.com/tilewright/tilewright/pkg/errors"
	"github.com/tilewright/tilewright/pkg/mapwidget"
)

// Point is the payload of marker and shape events: the interaction
// coordinate plus the layer ID of the hit object. An anonymous object
// reports an empty ID.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
	ID  string  `json:"id,omitempty"`
}

// Feature is the payload of geojson and topojson events. FeatureID and
// Properties come from the hit feature; absent fields stay zero.
type Feature struct {
	Lat        float64        `json:"lat"`
	Lng        float64        `json:"lng"`
	ID         string         `json:"id,omitempty"`
	FeatureID  string         `json:"featureId,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
}

// View is the payload of map-level bounds, zoom and center events.
type View struct {
	Bounds *mapwidget.Bounds `json:"bounds,omitempty"`
	Zoom   *int              `json:"zoom,omitempty"`
	Center *mapwidget.LatLng `json:"center,omitempty"`
}

// DecodePoint parses a marker or shape event payload.
func DecodePoint(data []byte) (Point, error) {
	var p Point
	if err := json.Unmarshal(data, &p); err != nil {
		return Point{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decoding point event")
	}
	return p, nil
}

// DecodeFeature parses a geojson or topojson event payload.
func DecodeFeature(data []byte) (Feature, error) {
	var f Feature
	if err := json.Unmarshal(data, &f); err != nil {
		return Feature{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decoding feature event")
	}
	return f, nil
}

// DecodeView parses a map-level event payload.
func DecodeView(data []byte) (View, error) {
	var v View
	if err := json.Unmarshal(data, &v); err != nil {
		return View{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decoding view event")
	}
	return v, nil
}

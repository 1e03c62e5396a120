package mapwidget

import (
	"encoding/json"

	"github.com/tilewright/tilewright/pkg/errors"
)

// GeoJSONOptions configure a GeoJSON or TopoJSON layer.
type GeoJSONOptions struct {
	// Style is applied to every feature without an inline style.
	Style ShapeOptions `json:"style"`

	// PopupProperty names the feature property rendered as popup HTML.
	PopupProperty string `json:"popupProperty,omitempty"`

	// LabelProperty names the feature property rendered as a hover label.
	LabelProperty string `json:"labelProperty,omitempty"`
}

// AddGeoJSON appends a GeoJSON layer from raw document bytes. The document
// is validated to be well-formed JSON but its feature schema is interpreted
// by the rendering host.
func (m *Map) AddGeoJSON(data json.RawMessage, layerID, group string, opts GeoJSONOptions) *Map {
	return m.addJSONLayer(CategoryGeoJSON, data, layerID, group, opts)
}

// RemoveGeoJSON removes the GeoJSON layer with the given ID.
func (m *Map) RemoveGeoJSON(layerID string) *Map {
	return m.removeOp(CategoryGeoJSON, layerID)
}

// ClearGeoJSON removes every GeoJSON layer regardless of ID or group.
func (m *Map) ClearGeoJSON() *Map {
	return m.append(categoryOps[CategoryGeoJSON].Clear)
}

// AddTopoJSON appends a TopoJSON layer from raw document bytes.
func (m *Map) AddTopoJSON(data json.RawMessage, layerID, group string, opts GeoJSONOptions) *Map {
	return m.addJSONLayer(CategoryTopoJSON, data, layerID, group, opts)
}

// RemoveTopoJSON removes the TopoJSON layer with the given ID.
func (m *Map) RemoveTopoJSON(layerID string) *Map {
	return m.removeOp(CategoryTopoJSON, layerID)
}

// ClearTopoJSON removes every TopoJSON layer regardless of ID or group.
func (m *Map) ClearTopoJSON() *Map {
	return m.append(categoryOps[CategoryTopoJSON].Clear)
}

func (m *Map) addJSONLayer(cat Category, data json.RawMessage, layerID, group string, opts GeoJSONOptions) *Map {
	if m.err != nil {
		return m
	}
	if err := validateOptionalLayerID(layerID); err != nil {
		return m.fail(err)
	}
	if err := errors.ValidateGroup(group); err != nil {
		return m.fail(err)
	}
	if err := opts.Style.validate(); err != nil {
		return m.fail(err)
	}
	if !json.Valid(data) {
		return m.fail(errors.New(errors.ErrCodeInvalidInput,
			"%s layer %q: document is not valid JSON", cat, layerID))
	}
	return m.append(categoryOps[cat].Add, layerID, group, data, opts)
}

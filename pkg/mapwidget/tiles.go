package mapwidget

import (
	"encoding/json"

	"github.com/tilewright/tilewright/pkg/errors"
)

// TileOptions configure a raster tile layer.
type TileOptions struct {
	MinZoom      int     `json:"minZoom,omitempty"`
	MaxZoom      int     `json:"maxZoom,omitempty"`
	ErrorTileURL string  `json:"errorTileUrl,omitempty"`
	NoWrap       bool    `json:"noWrap"`
	Opacity      *float64 `json:"opacity,omitempty"`
	ZIndex       *int    `json:"zIndex,omitempty"`
	Attribution  string  `json:"attribution,omitempty"`
	DetectRetina bool    `json:"detectRetina"`
}

// ProviderOptions configure a named-provider tile layer. The schema mirrors
// the provider plugin's option object; Extras carries free-form options the
// plugin understands but this binding does not model.
type ProviderOptions struct {
	ErrorTileURL   string         `json:"errorTileUrl"`
	NoWrap         bool           `json:"noWrap"`
	Opacity        *float64       `json:"opacity"`
	ZIndex         *int           `json:"zIndex"`
	UpdateWhenIdle *bool          `json:"updateWhenIdle"`
	DetectRetina   bool           `json:"detectRetina"`
	Extras         map[string]any `json:"-"`

	// NoCheck appends the operation without validating the provider name
	// against the registry. Useful when the registry is stale relative to
	// newly released providers.
	NoCheck bool `json:"-"`
}

// MarshalJSON flattens Extras into the option object. Modeled fields win on
// key collisions.
func (o ProviderOptions) MarshalJSON() ([]byte, error) {
	type plain ProviderOptions
	base, err := json.Marshal(plain(o))
	if err != nil {
		return nil, err
	}
	if len(o.Extras) == 0 {
		return base, nil
	}
	merged := make(map[string]any, len(o.Extras)+6)
	for k, v := range o.Extras {
		merged[k] = v
	}
	var modeled map[string]any
	if err := json.Unmarshal(base, &modeled); err != nil {
		return nil, err
	}
	for k, v := range modeled {
		merged[k] = v
	}
	return json.Marshal(merged)
}

// TileProvider describes one entry of a provider registry: the canonical
// provider name plus the plugin asset bundle its tiles require.
type TileProvider struct {
	Name   string
	Plugin Dependency
}

// ProviderCatalog validates provider names and supplies the plugin
// dependency. Implemented by the provider package's Registry; defined here
// so the registry can be refreshed independently without touching builder
// logic.
type ProviderCatalog interface {
	// Resolve returns the provider descriptor for name, or a coded
	// UNKNOWN_PROVIDER error naming the offending string.
	Resolve(name string) (TileProvider, error)
}

// AddTiles appends a raster tile layer from an explicit URL template.
// An existing layer with the same ID in the tile category is replaced.
func (m *Map) AddTiles(urlTemplate, layerID, group string, opts TileOptions) *Map {
	if m.err != nil {
		return m
	}
	if err := errors.ValidateURL(urlTemplate); err != nil {
		return m.fail(err)
	}
	if err := validateOptionalLayerID(layerID); err != nil {
		return m.fail(err)
	}
	if err := errors.ValidateGroup(group); err != nil {
		return m.fail(err)
	}
	return m.append(categoryOps[CategoryTile].Add, layerID, group, urlTemplate, opts)
}

// AddProviderTiles appends a tile layer for a named provider after
// validating the name against the catalog, and registers the provider
// plugin's asset dependency exactly once per distinct dependency. With
// opts.NoCheck the name is not validated and the operation is appended
// unchecked, for registries that are stale relative to newly released
// providers; the plugin dependency is still registered when the catalog
// can resolve the name.
func (m *Map) AddProviderTiles(cat ProviderCatalog, name, layerID, group string, opts ProviderOptions) *Map {
	if m.err != nil {
		return m
	}
	if err := validateOptionalLayerID(layerID); err != nil {
		return m.fail(err)
	}
	if err := errors.ValidateGroup(group); err != nil {
		return m.fail(err)
	}

	p, err := cat.Resolve(name)
	if err != nil {
		if !opts.NoCheck {
			return m.fail(err)
		}
		return m.append(categoryOps[CategoryTile].Add, layerID, group, name, opts)
	}

	m.RegisterDependency(p.Plugin)
	return m.append(categoryOps[CategoryTile].Add, layerID, group, p.Name, opts)
}

// RemoveTiles removes the tile layer with the given ID.
func (m *Map) RemoveTiles(layerID string) *Map {
	return m.removeOp(CategoryTile, layerID)
}

// ClearTiles removes every tile layer regardless of ID or group.
func (m *Map) ClearTiles() *Map {
	return m.append(categoryOps[CategoryTile].Clear)
}

// removeOp appends a remove operation for one category after validating the
// ID.
func (m *Map) removeOp(cat Category, layerID string) *Map {
	if m.err != nil {
		return m
	}
	if err := errors.ValidateLayerID(layerID); err != nil {
		return m.fail(err)
	}
	return m.append(categoryOps[cat].Remove, layerID)
}

// validateOptionalLayerID accepts an empty ID (anonymous layer) and
// otherwise applies the layer ID rules.
func validateOptionalLayerID(id string) error {
	if id == "" {
		return nil
	}
	return errors.ValidateLayerID(id)
}

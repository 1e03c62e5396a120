// Package event defines the input-event contract between rendered maps and
// server code.
//
// A rendering host reports user interaction under composite names built
// from the map ID. Layer events are named "{mapId}_{category}_{event}",
// for example "map1_marker_click"; map-level events are "{mapId}_click",
// "{mapId}_bounds", "{mapId}_zoom" and "{mapId}_center". Server handlers
// register under these names and decode the JSON payloads defined here.
package event

import (
	"strings"

	"github.com/tilewright/tilewright/pkg/errors"
	"github.com/tilewright/tilewright/pkg/mapwidget"
)

// Layer event names.
const (
	Click     = "click"
	MouseOver = "mouseover"
	MouseOut  = "mouseout"
)

// Map-level event names.
const (
	MapClick  = "click"
	MapBounds = "bounds"
	MapZoom   = "zoom"
	MapCenter = "center"
)

// interactive lists the categories that emit layer events. Tiles and
// controls do not.
var interactive = map[mapwidget.Category]bool{
	mapwidget.CategoryMarker:   true,
	mapwidget.CategoryShape:    true,
	mapwidget.CategoryGeoJSON:  true,
	mapwidget.CategoryTopoJSON: true,
}

var layerEvents = map[string]bool{
	Click:     true,
	MouseOver: true,
	MouseOut:  true,
}

var mapEvents = map[string]bool{
	MapClick:  true,
	MapBounds: true,
	MapZoom:   true,
	MapCenter: true,
}

// LayerName builds the composite name a layer event is reported under.
func LayerName(mapID string, cat mapwidget.Category, event string) (string, error) {
	if mapID == "" {
		return "", errors.New(errors.ErrCodeInvalidInput, "event names need a map ID")
	}
	if !interactive[cat] {
		return "", errors.New(errors.ErrCodeUnsupportedCategory,
			"category %q does not emit input events", cat)
	}
	if !layerEvents[event] {
		return "", errors.New(errors.ErrCodeInvalidInput, "unknown layer event %q", event)
	}
	return mapID + "_" + string(cat) + "_" + event, nil
}

// MapName builds the composite name a map-level event is reported under.
func MapName(mapID, event string) (string, error) {
	if mapID == "" {
		return "", errors.New(errors.ErrCodeInvalidInput, "event names need a map ID")
	}
	if !mapEvents[event] {
		return "", errors.New(errors.ErrCodeInvalidInput, "unknown map event %q", event)
	}
	return mapID + "_" + event, nil
}

// Name is a parsed composite event name.
type Name struct {
	MapID    string
	Category mapwidget.Category // empty for map-level events
	Event    string
}

// IsMapLevel reports whether the name carries no layer category.
func (n Name) IsMapLevel() bool { return n.Category == "" }

// Parse splits a composite event name back into its parts. The map ID is
// everything before the recognized suffix, so IDs containing underscores
// parse correctly.
func Parse(name string) (Name, error) {
	// Layer suffixes are longer and checked first: "x_marker_click" must
	// not parse as map event "click" on ID "x_marker".
	for cat := range interactive {
		for ev := range layerEvents {
			suffix := "_" + string(cat) + "_" + ev
			if id, ok := strings.CutSuffix(name, suffix); ok && id != "" {
				return Name{MapID: id, Category: cat, Event: ev}, nil
			}
		}
	}
	for ev := range mapEvents {
		if id, ok := strings.CutSuffix(name, "_"+ev); ok && id != "" {
			return Name{MapID: id, Event: ev}, nil
		}
	}
	return Name{}, errors.New(errors.ErrCodeInvalidInput, "unrecognized event name %q", name)
}

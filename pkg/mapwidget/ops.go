package mapwidget

import "github.com/tilewright/tilewright/pkg/errors"

// Category is one of the six layer namespaces. Each category maintains an
// independent mapping from layer ID to live object on the rendering side;
// IDs in different categories never collide.
type Category string

// The six layer categories.
const (
	CategoryTile     Category = "tile"
	CategoryMarker   Category = "marker"
	CategoryShape    Category = "shape"
	CategoryGeoJSON  Category = "geojson"
	CategoryTopoJSON Category = "topojson"
	CategoryControl  Category = "control"
)

// Valid reports whether c is one of the six known categories.
func (c Category) Valid() bool {
	_, ok := categoryOps[c]
	return ok
}

// OpNames is a category's add/remove/clear operation-name triplet. The
// names are the wire contract between builder and renderer: adding new
// optional trailing arguments is safe, renaming or reordering is a breaking
// change.
type OpNames struct {
	Add    string
	Remove string
	Clear  string
}

// categoryOps is the category → operation-name table. Must be preserved
// exactly.
var categoryOps = map[Category]OpNames{
	CategoryTile:     {Add: "addTiles", Remove: "removeTiles", Clear: "clearTiles"},
	CategoryMarker:   {Add: "addMarkers", Remove: "removeMarker", Clear: "clearMarkers"},
	CategoryShape:    {Add: "addShapes", Remove: "removeShape", Clear: "clearShapes"},
	CategoryGeoJSON:  {Add: "addGeoJSON", Remove: "removeGeoJSON", Clear: "clearGeoJSON"},
	CategoryTopoJSON: {Add: "addTopoJSON", Remove: "removeTopoJSON", Clear: "clearTopoJSON"},
	CategoryControl:  {Add: "addControl", Remove: "removeControl", Clear: "clearControls"},
}

// Group visibility operations. Groups cut across categories and are used
// for bulk show/hide/clear only.
const (
	opShowGroup  = "showGroup"
	opHideGroup  = "hideGroup"
	opClearGroup = "clearGroup"
)

// View operations.
const (
	opSetView      = "setView"
	opFitBounds    = "fitBounds"
	opSetMaxBounds = "setMaxBounds"
)

// opAddLegend attaches a formatted legend payload. The renderer files the
// legend under the control category using the payload's layerId.
const opAddLegend = "addLegend"

// Ops returns the operation-name triplet for a category.
func Ops(c Category) (OpNames, error) {
	names, ok := categoryOps[c]
	if !ok {
		return OpNames{}, errors.New(errors.ErrCodeUnsupportedCategory,
			"unsupported layer category: %q", c)
	}
	return names, nil
}

// CategoryForMethod returns the category an operation name belongs to and
// whether the method is an add, remove or clear. Methods outside the table
// (view, group, legend ops) return ok=false.
func CategoryForMethod(method string) (cat Category, action Action, ok bool) {
	for c, names := range categoryOps {
		switch method {
		case names.Add:
			return c, ActionAdd, true
		case names.Remove:
			return c, ActionRemove, true
		case names.Clear:
			return c, ActionClear, true
		}
	}
	return "", 0, false
}

// Action classifies a category operation.
type Action int

// The three category actions.
const (
	ActionAdd Action = iota
	ActionRemove
	ActionClear
)

// Package mapwidget builds interactive web-map widgets as operation logs.
//
// A Map is an opaque handle over an ordered, append-only sequence of
// operation descriptors plus a de-duplicated list of external asset
// dependencies. Builder calls never talk to a live map: each call validates
// its arguments, appends exactly one descriptor, and returns the handle for
// chaining. The finished log is handed to a rendering host that interprets
// descriptors by operation name.
//
// Validation failures are sticky: the first error is recorded before any
// log mutation, subsequent builder calls become no-ops, and Err or Widget
// surface the error. This keeps chains readable without silently dropping
// bad operations:
//
//	m := mapwidget.New(mapwidget.Options{Zoom: 4}).
//	    AddTiles("https://{s}.tile.example.org/{z}/{x}/{y}.png", "base", "", mapwidget.TileOptions{}).
//	    AddMarkers(expr.Col("lat"), expr.Col("lng"), "stations", "overlay", mapwidget.MarkerOptions{})
//	if err := m.Err(); err != nil {
//	    return err
//	}
package mapwidget

import (
	"github.com/google/uuid"

	"github.com/tilewright/tilewright/pkg/expr"
)

// LatLng is a WGS84 coordinate.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Bounds is a rectangular geographic extent.
type Bounds struct {
	North float64 `json:"north"`
	East  float64 `json:"east"`
	South float64 `json:"south"`
	West  float64 `json:"west"`
}

// Options are the map-level initialization options included in the widget
// payload.
type Options struct {
	Center    *LatLng `json:"center,omitempty"`
	Zoom      int     `json:"zoom,omitempty"`
	MinZoom   *int    `json:"minZoom,omitempty"`
	MaxZoom   *int    `json:"maxZoom,omitempty"`
	MaxBounds *Bounds `json:"maxBounds,omitempty"`
}

// Operation is one entry of the build log: an operation name plus
// already-evaluated arguments. Immutable once appended.
//
// Argument layout is part of the wire contract: every category add
// operation starts with (layerId, group), every remove operation carries
// (layerId), clear operations carry no arguments.
type Operation struct {
	Method string `json:"method"`
	Args   []any  `json:"args"`
}

// Map is the builder handle. Create with New; the zero value is not usable.
type Map struct {
	id      string
	options Options
	dataset *expr.Dataset

	ops     []Operation
	deps    []Dependency
	depSeen map[string]bool

	err error
}

// New creates a map handle with a fresh unique ID.
func New(opts Options) *Map {
	return &Map{
		id:      uuid.NewString(),
		options: opts,
		depSeen: make(map[string]bool),
	}
}

// NewWithID creates a map handle with a caller-chosen ID. IDs appear in
// event names and dispatch channels, so they follow layer ID rules.
func NewWithID(id string, opts Options) *Map {
	m := New(opts)
	m.id = id
	return m
}

// ID returns the handle's unique identifier.
func (m *Map) ID() string { return m.id }

// Err returns the first builder error, or nil. Once set, all later builder
// calls are no-ops.
func (m *Map) Err() error { return m.err }

// BindData attaches a dataset that column-reference expressions resolve
// against. Returns the handle for chaining.
func (m *Map) BindData(ds *expr.Dataset) *Map {
	m.dataset = ds
	return m
}

// Operations returns a copy of the operation log.
func (m *Map) Operations() []Operation {
	out := make([]Operation, len(m.ops))
	copy(out, m.ops)
	return out
}

// TakeOperations drains the operation log, returning the accumulated
// descriptors in order. Registered dependencies and the sticky error are
// untouched. Live-update proxies use this to flush batches.
func (m *Map) TakeOperations() []Operation {
	ops := m.ops
	m.ops = nil
	return ops
}

// append adds one operation descriptor to the log. No-op after an error.
func (m *Map) append(method string, args ...any) *Map {
	if m.err != nil {
		return m
	}
	if args == nil {
		args = []any{}
	}
	m.ops = append(m.ops, Operation{Method: method, Args: args})
	return m
}

// fail records the first builder error. All validation runs before any log
// mutation, so a failed call leaves the log untouched.
func (m *Map) fail(err error) *Map {
	if m.err == nil {
		m.err = err
	}
	return m
}

package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/tilewright/tilewright/pkg/errors"
	"github.com/tilewright/tilewright/pkg/expr"
	"github.com/tilewright/tilewright/pkg/legend"
	"github.com/tilewright/tilewright/pkg/mapwidget"
	"github.com/tilewright/tilewright/pkg/scale"
)

// Document is the TOML map document the render command consumes. Layer
// coordinates are either inline arrays or references into the [data]
// tables, mirroring the builder's literal/column expressions.
type Document struct {
	ID       string            `toml:"id"`
	Title    string            `toml:"title"`
	Options  mapwidget.Options `toml:"options"`
	Data     dataDoc           `toml:"data"`
	View     *viewDoc          `toml:"view"`
	Tiles    []tileDoc         `toml:"tiles"`
	Markers  []markerDoc       `toml:"markers"`
	Circles  []circleDoc       `toml:"circles"`
	GeoJSON  []jsonLayerDoc    `toml:"geojson"`
	TopoJSON []jsonLayerDoc    `toml:"topojson"`
	Legends  []legendDoc       `toml:"legends"`
}

type dataDoc struct {
	Numbers map[string][]float64 `toml:"numbers"`
	Strings map[string][]string  `toml:"strings"`
}

type viewDoc struct {
	Lat  float64 `toml:"lat"`
	Lng  float64 `toml:"lng"`
	Zoom int     `toml:"zoom"`
}

type tileDoc struct {
	URL      string   `toml:"url"`
	Provider string   `toml:"provider"`
	NoCheck  bool     `toml:"no_check"`
	LayerID  string   `toml:"layer_id"`
	Group    string   `toml:"group"`
	Opacity  *float64 `toml:"opacity"`
}

type markerDoc struct {
	LayerID string    `toml:"layer_id"`
	Group   string    `toml:"group"`
	Lat     columnRef `toml:"lat"`
	Lng     columnRef `toml:"lng"`
	Popup   columnRef `toml:"popup"`
	Label   columnRef `toml:"label"`
	Cluster bool      `toml:"cluster"`
}

type circleDoc struct {
	LayerID string    `toml:"layer_id"`
	Group   string    `toml:"group"`
	Lat     columnRef `toml:"lat"`
	Lng     columnRef `toml:"lng"`
	Radius  columnRef `toml:"radius"`
	Color   string    `toml:"color"`
	Weight  float64   `toml:"weight"`
}

type jsonLayerDoc struct {
	LayerID string `toml:"layer_id"`
	Group   string `toml:"group"`
	File    string `toml:"file"`
}

type legendDoc struct {
	Kind     string    `toml:"kind"`
	Palette  []string  `toml:"palette"`
	Domain   []float64 `toml:"domain"`
	Breaks   []float64 `toml:"breaks"`
	Probs    []float64 `toml:"probs"`
	Values   columnRef `toml:"values"`
	Levels   []string  `toml:"levels"`
	Title    string    `toml:"title"`
	Position string    `toml:"position"`
	Bins     int       `toml:"bins"`
	LayerID  string    `toml:"layer_id"`
	Group    string    `toml:"group"`
}

// columnRef is a TOML value that is either a column name ("lat"), a number
// array, or a string array. It maps onto the builder's deferred
// expressions.
type columnRef struct {
	col  string
	nums []float64
	strs []string
}

// UnmarshalTOML implements toml.Unmarshaler.
func (c *columnRef) UnmarshalTOML(v any) error {
	switch val := v.(type) {
	case string:
		c.col = val
		return nil
	case []any:
		for _, item := range val {
			switch x := item.(type) {
			case int64:
				c.nums = append(c.nums, float64(x))
			case float64:
				c.nums = append(c.nums, x)
			case string:
				c.strs = append(c.strs, x)
			default:
				return errors.New(errors.ErrCodeInvalidDocument,
					"array values must be all numbers or all strings")
			}
		}
		if len(c.nums) > 0 && len(c.strs) > 0 {
			return errors.New(errors.ErrCodeInvalidDocument,
				"array values must be all numbers or all strings")
		}
		return nil
	default:
		return errors.New(errors.ErrCodeInvalidDocument,
			"expected a column name or an array, got %T", v)
	}
}

func (c columnRef) isZero() bool {
	return c.col == "" && c.nums == nil && c.strs == nil
}

// numberExpr converts the reference to a numeric expression.
func (c columnRef) numberExpr() expr.Expr {
	if c.col != "" {
		return expr.Col(c.col)
	}
	if c.nums != nil {
		return expr.Lit(c.nums)
	}
	return expr.Expr{}
}

// stringExpr converts the reference to a string expression.
func (c columnRef) stringExpr() expr.Expr {
	if c.col != "" {
		return expr.Col(c.col)
	}
	if c.strs != nil {
		return expr.LitStrings(c.strs)
	}
	return expr.Expr{}
}

// ParseDocument parses a TOML map document.
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "parsing map document")
	}
	if len(doc.Tiles) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "map document needs at least one tile layer")
	}
	return &doc, nil
}

// LoadDocument reads and parses a TOML map document from disk.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "reading %s", path)
	}
	return ParseDocument(data)
}

// Build assembles the document into a map handle. GeoJSON file references
// are resolved relative to baseDir.
func (d *Document) Build(catalog mapwidget.ProviderCatalog, baseDir string) (*mapwidget.Map, error) {
	var m *mapwidget.Map
	if d.ID != "" {
		m = mapwidget.NewWithID(d.ID, d.Options)
	} else {
		m = mapwidget.New(d.Options)
	}

	if len(d.Data.Numbers) > 0 || len(d.Data.Strings) > 0 {
		ds := expr.NewDataset()
		for name, vals := range d.Data.Numbers {
			ds.SetNumbers(name, vals)
		}
		for name, vals := range d.Data.Strings {
			ds.SetStrings(name, vals)
		}
		m.BindData(ds)
	}

	for _, t := range d.Tiles {
		switch {
		case t.Provider != "":
			m.AddProviderTiles(catalog, t.Provider, t.LayerID, t.Group,
				mapwidget.ProviderOptions{Opacity: t.Opacity, NoCheck: t.NoCheck})
		case t.URL != "":
			m.AddTiles(t.URL, t.LayerID, t.Group, mapwidget.TileOptions{Opacity: t.Opacity})
		default:
			return nil, errors.New(errors.ErrCodeInvalidDocument,
				"tile layer %q needs a url or a provider", t.LayerID)
		}
	}

	for _, mk := range d.Markers {
		m.AddMarkers(mk.Lat.numberExpr(), mk.Lng.numberExpr(), mk.LayerID, mk.Group,
			mapwidget.MarkerOptions{
				Popup:   mk.Popup.stringExpr(),
				Label:   mk.Label.stringExpr(),
				Cluster: mk.Cluster,
			})
	}

	for _, c := range d.Circles {
		m.AddCircles(c.Lat.numberExpr(), c.Lng.numberExpr(), c.Radius.numberExpr(),
			c.LayerID, c.Group,
			mapwidget.ShapeOptions{Color: c.Color, Weight: c.Weight})
	}

	for _, g := range d.GeoJSON {
		data, err := readJSONLayer(baseDir, g)
		if err != nil {
			return nil, err
		}
		m.AddGeoJSON(data, g.LayerID, g.Group, mapwidget.GeoJSONOptions{})
	}
	for _, g := range d.TopoJSON {
		data, err := readJSONLayer(baseDir, g)
		if err != nil {
			return nil, err
		}
		m.AddTopoJSON(data, g.LayerID, g.Group, mapwidget.GeoJSONOptions{})
	}

	for _, l := range d.Legends {
		payload, err := d.buildLegend(l)
		if err != nil {
			return nil, err
		}
		m.AddLegend(payload)
	}

	if d.View != nil {
		m.SetView(mapwidget.LatLng{Lat: d.View.Lat, Lng: d.View.Lng}, d.View.Zoom)
	}

	if err := m.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

func readJSONLayer(baseDir string, g jsonLayerDoc) ([]byte, error) {
	if g.File == "" {
		return nil, errors.New(errors.ErrCodeInvalidDocument,
			"json layer %q needs a file", g.LayerID)
	}
	path := g.File
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "reading %s", path)
	}
	return data, nil
}

// buildLegend constructs the scale named by the legend entry and formats
// it.
func (d *Document) buildLegend(l legendDoc) (*legend.Payload, error) {
	pal, err := scale.NewPalette(l.Palette...)
	if err != nil {
		return nil, err
	}
	opts := legend.Options{
		Position: l.Position,
		Title:    l.Title,
		Bins:     l.Bins,
		Breaks:   l.Breaks,
		LayerID:  l.LayerID,
		Group:    l.Group,
	}

	switch l.Kind {
	case "numeric":
		if len(l.Domain) != 2 {
			return nil, errors.New(errors.ErrCodeInvalidDocument,
				"numeric legend needs a two-element domain")
		}
		s, err := scale.NewNumeric(pal, l.Domain[0], l.Domain[1])
		if err != nil {
			return nil, err
		}
		return legend.Build(s, d.legendNumbers(l), opts)
	case "bin":
		s, err := scale.NewBin(pal, l.Breaks)
		if err != nil {
			return nil, err
		}
		// Breaks define the scale here, not an override grid.
		opts.Breaks = nil
		return legend.Build(s, d.legendNumbers(l), opts)
	case "quantile":
		values := d.legendNumbers(l)
		probs := l.Probs
		if len(probs) == 0 {
			probs = []float64{0, 0.25, 0.5, 0.75, 1}
		}
		s, err := scale.NewQuantile(pal, values, probs)
		if err != nil {
			return nil, err
		}
		return legend.Build(s, values, opts)
	case "factor":
		values := d.legendStrings(l)
		levels := l.Levels
		if len(levels) == 0 {
			levels = values
		}
		s, err := scale.NewFactor(pal, levels)
		if err != nil {
			return nil, err
		}
		return legend.BuildFactor(s, values, opts)
	default:
		return nil, errors.New(errors.ErrCodeUnsupportedScale,
			"unknown legend kind %q", l.Kind)
	}
}

func (d *Document) legendNumbers(l legendDoc) []float64 {
	if l.Values.col != "" {
		return d.Data.Numbers[l.Values.col]
	}
	return l.Values.nums
}

func (d *Document) legendStrings(l legendDoc) []string {
	if l.Values.col != "" {
		return d.Data.Strings[l.Values.col]
	}
	return l.Values.strs
}

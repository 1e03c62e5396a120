package event

import (
	"testing"

	"github.com/tilewright/tilewright/pkg/mapwidget"
)

func TestLayerName(t *testing.T) {
	got, err := LayerName("map1", mapwidget.CategoryMarker, Click)
	if err != nil {
		t.Fatalf("LayerName: %v", err)
	}
	if got != "map1_marker_click" {
		t.Errorf("got %q", got)
	}

	if _, err := LayerName("map1", mapwidget.CategoryTile, Click); err == nil {
		t.Error("tiles do not emit input events")
	}
	if _, err := LayerName("map1", mapwidget.CategoryMarker, "dblclick"); err == nil {
		t.Error("unknown event should fail")
	}
	if _, err := LayerName("", mapwidget.CategoryMarker, Click); err == nil {
		t.Error("empty map ID should fail")
	}
}

func TestMapName(t *testing.T) {
	got, err := MapName("map1", MapBounds)
	if err != nil {
		t.Fatalf("MapName: %v", err)
	}
	if got != "map1_bounds" {
		t.Errorf("got %q", got)
	}
	if _, err := MapName("map1", "drag"); err == nil {
		t.Error("unknown map event should fail")
	}
}

func TestParseRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		want Name
	}{
		{"map1_marker_click", Name{MapID: "map1", Category: mapwidget.CategoryMarker, Event: Click}},
		{"map1_geojson_mouseover", Name{MapID: "map1", Category: mapwidget.CategoryGeoJSON, Event: MouseOver}},
		{"map1_zoom", Name{MapID: "map1", Event: MapZoom}},
		// Map IDs may contain underscores.
		{"my_map_shape_mouseout", Name{MapID: "my_map", Category: mapwidget.CategoryShape, Event: MouseOut}},
		{"my_map_center", Name{MapID: "my_map", Event: MapCenter}},
	}
	for _, tc := range tests {
		got, err := Parse(tc.name)
		if err != nil {
			t.Errorf("Parse(%q): %v", tc.name, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Parse(%q) = %+v, want %+v", tc.name, got, tc.want)
		}
		if got.IsMapLevel() != (tc.want.Category == "") {
			t.Errorf("Parse(%q).IsMapLevel() = %v", tc.name, got.IsMapLevel())
		}
	}

	for _, bad := range []string{"", "click", "_click", "map1_drag"} {
		if _, err := Parse(bad); err == nil {
			t.Errorf("Parse(%q) should fail", bad)
		}
	}
}

func TestDecodePayloads(t *testing.T) {
	p, err := DecodePoint([]byte(`{"lat": 52.5, "lng": 13.4, "id": "hq"}`))
	if err != nil {
		t.Fatalf("DecodePoint: %v", err)
	}
	if p.Lat != 52.5 || p.ID != "hq" {
		t.Errorf("point = %+v", p)
	}

	// Absent fields stay zero.
	p, err = DecodePoint([]byte(`{"lat": 1, "lng": 2}`))
	if err != nil {
		t.Fatalf("DecodePoint: %v", err)
	}
	if p.ID != "" {
		t.Errorf("ID = %q", p.ID)
	}

	f, err := DecodeFeature([]byte(`{"lat": 1, "lng": 2, "featureId": "DE", "properties": {"name": "Germany"}}`))
	if err != nil {
		t.Fatalf("DecodeFeature: %v", err)
	}
	if f.FeatureID != "DE" || f.Properties["name"] != "Germany" {
		t.Errorf("feature = %+v", f)
	}

	v, err := DecodeView([]byte(`{"zoom": 8, "center": {"lat": 50, "lng": 10}}`))
	if err != nil {
		t.Fatalf("DecodeView: %v", err)
	}
	if v.Zoom == nil || *v.Zoom != 8 || v.Center == nil || v.Bounds != nil {
		t.Errorf("view = %+v", v)
	}

	if _, err := DecodePoint([]byte(`{`)); err == nil {
		t.Error("malformed payload should fail")
	}
}

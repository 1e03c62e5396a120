package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tilewright/tilewright/pkg/dispatch"
	"github.com/tilewright/tilewright/pkg/event"
	"github.com/tilewright/tilewright/pkg/expr"
	"github.com/tilewright/tilewright/pkg/mapwidget"
	"github.com/tilewright/tilewright/pkg/store"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server, *dispatch.MemoryBus) {
	t.Helper()
	bus := dispatch.NewMemoryBus()
	srv := New(store.NewMemoryStore(), bus, log.New(io.Discard))
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(func() {
		ts.Close()
		bus.Close()
	})
	return srv, ts, bus
}

func storeDemoMap(t *testing.T, ts *httptest.Server, id string) {
	t.Helper()
	m := mapwidget.NewWithID(id, mapwidget.Options{Zoom: 4}).
		AddTiles("https://tiles.example.org/{z}/{x}/{y}.png", "base", "", mapwidget.TileOptions{}).
		AddMarkers(expr.Lit([]float64{52.52}), expr.Lit([]float64{13.405}),
			"hq", "overlay", mapwidget.MarkerOptions{})
	m.RegisterDependency(mapwidget.Dependency{
		Name:    "tile-providers",
		Version: "2.0.0",
		Scripts: []string{"https://unpkg.com/leaflet-providers@2.0.0/leaflet-providers.js"},
	})
	payload, err := m.MarshalPayload()
	if err != nil {
		t.Fatalf("MarshalPayload: %v", err)
	}

	body, _ := json.Marshal(map[string]any{"title": "Demo", "widget": json.RawMessage(payload)})
	resp, err := http.Post(ts.URL+"/maps", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /maps: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST /maps status = %d", resp.StatusCode)
	}
}

func TestCreateAndFetchPayload(t *testing.T) {
	_, ts, _ := newTestServer(t)
	storeDemoMap(t, ts, "demo")

	resp, err := http.Get(ts.URL + "/maps/demo/payload")
	if err != nil {
		t.Fatalf("GET payload: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var w mapwidget.Widget
	if err := json.NewDecoder(resp.Body).Decode(&w); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if w.MapID != "demo" || len(w.Calls) != 2 {
		t.Errorf("widget = %+v", w)
	}
}

func TestMapPageEmbedsPayloadAndDependencies(t *testing.T) {
	_, ts, _ := newTestServer(t)
	storeDemoMap(t, ts, "demo")

	resp, err := http.Get(ts.URL + "/maps/demo")
	if err != nil {
		t.Fatalf("GET page: %v", err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read body: %v", err)
	}
	page := buf.String()

	for _, want := range []string{
		`<div id="demo">`,
		`leaflet-providers@2.0.0`,
		`"mapId":"demo"`,
		`addTiles`,
	} {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestMissingMapIs404(t *testing.T) {
	_, ts, _ := newTestServer(t)
	for _, path := range []string{"/maps/nope", "/maps/nope/payload", "/maps/nope/layers"} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("GET %s status = %d", path, resp.StatusCode)
		}
	}
}

func TestOpsUpdateLayersAndReachTheBus(t *testing.T) {
	_, ts, bus := newTestServer(t)
	storeDemoMap(t, ts, "demo")

	var mu sync.Mutex
	var got []dispatch.Message
	done := make(chan struct{})
	cancel, err := bus.Subscribe(t.Context(), "demo", func(msg dispatch.Message) {
		mu.Lock()
		got = append(got, msg)
		if len(got) == 2 {
			close(done)
		}
		mu.Unlock()
	})
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer cancel()

	ops := `[
	  {"method": "clearGroup", "args": ["overlay"]},
	  {"method": "addMarkers", "args": ["hq2", "overlay", [1], [2]]}
	]`
	resp, err := http.Post(ts.URL+"/maps/demo/ops", "application/json", strings.NewReader(ops))
	if err != nil {
		t.Fatalf("POST ops: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("bus delivery timed out")
	}
	mu.Lock()
	if got[0].Method != "clearGroup" || got[1].Method != "addMarkers" {
		t.Errorf("messages = %v", got)
	}
	mu.Unlock()

	// Layer model reflects the replayed log plus the live batch: the seeded
	// "hq" marker was cleared with its group, "hq2" replaced it.
	resp, err = http.Get(ts.URL + "/maps/demo/layers")
	if err != nil {
		t.Fatalf("GET layers: %v", err)
	}
	defer resp.Body.Close()
	var counts map[string]int
	if err := json.NewDecoder(resp.Body).Decode(&counts); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if counts["marker"] != 1 || counts["tile"] != 1 {
		t.Errorf("counts = %v", counts)
	}
}

func TestOpsRejectMalformedBatch(t *testing.T) {
	_, ts, _ := newTestServer(t)
	storeDemoMap(t, ts, "demo")

	resp, err := http.Post(ts.URL+"/maps/demo/ops", "application/json",
		strings.NewReader(`[{"method": "addMarkers", "args": [42]}]`))
	if err != nil {
		t.Fatalf("POST ops: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestEventsRouteToRegisteredHandlers(t *testing.T) {
	srv, ts, _ := newTestServer(t)
	storeDemoMap(t, ts, "demo")

	var mu sync.Mutex
	var seen []event.Name
	if err := srv.OnEvent("demo_marker_click", func(n event.Name, payload json.RawMessage) {
		p, err := event.DecodePoint(payload)
		if err != nil {
			t.Errorf("DecodePoint: %v", err)
		}
		if p.ID != "hq" {
			t.Errorf("point = %+v", p)
		}
		mu.Lock()
		seen = append(seen, n)
		mu.Unlock()
	}); err != nil {
		t.Fatalf("OnEvent: %v", err)
	}

	body := `{"name": "demo_marker_click", "payload": {"lat": 52.5, "lng": 13.4, "id": "hq"}}`
	resp, err := http.Post(ts.URL+"/maps/demo/events", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST events: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 1 || seen[0].Event != event.Click {
		t.Errorf("seen = %v", seen)
	}
}

func TestEventsForOtherMapsAreRejected(t *testing.T) {
	_, ts, _ := newTestServer(t)
	storeDemoMap(t, ts, "demo")

	body := `{"name": "other_marker_click", "payload": {}}`
	resp, err := http.Post(ts.URL+"/maps/demo/events", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST events: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestOnEventRejectsMalformedNames(t *testing.T) {
	srv, _, _ := newTestServer(t)
	if err := srv.OnEvent("not-an-event", func(event.Name, json.RawMessage) {}); err == nil {
		t.Error("malformed event name should fail")
	}
}

func TestDeleteRemovesMap(t *testing.T) {
	_, ts, _ := newTestServer(t)
	storeDemoMap(t, ts, "demo")

	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/maps/demo", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	resp, err = http.Get(ts.URL + "/maps/demo/payload")
	if err != nil {
		t.Fatalf("GET payload: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d after delete", resp.StatusCode)
	}
}

func TestListMaps(t *testing.T) {
	_, ts, _ := newTestServer(t)
	storeDemoMap(t, ts, "a")
	storeDemoMap(t, ts, "b")

	resp, err := http.Get(ts.URL + "/maps")
	if err != nil {
		t.Fatalf("GET /maps: %v", err)
	}
	defer resp.Body.Close()

	var out []mapSummary
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 2 || out[0].ID != "a" || out[1].ID != "b" {
		t.Errorf("summaries = %v", out)
	}
	if out[0].Title != "Demo" {
		t.Errorf("Title = %q", out[0].Title)
	}
}

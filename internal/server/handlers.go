package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tilewright/tilewright/pkg/dispatch"
	"github.com/tilewright/tilewright/pkg/errors"
	"github.com/tilewright/tilewright/pkg/event"
	"github.com/tilewright/tilewright/pkg/mapwidget"
	"github.com/tilewright/tilewright/pkg/store"
)

// mapSummary is one row of the map listing.
type mapSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	docs, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]mapSummary, 0, len(docs))
	for _, doc := range docs {
		out = append(out, mapSummary{ID: doc.ID, Title: doc.Title, UpdatedAt: doc.UpdatedAt})
	}
	writeJSON(w, http.StatusOK, out)
}

// createRequest is the POST /maps body: a widget payload plus an optional
// display title.
type createRequest struct {
	Title  string          `json:"title"`
	Widget json.RawMessage `json:"widget"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decoding request body"))
		return
	}
	widget, err := mapwidget.UnmarshalPayload(req.Widget)
	if err != nil {
		writeError(w, err)
		return
	}
	doc, err := store.NewDocument(widget, req.Title)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.store.Put(r.Context(), doc); err != nil {
		writeError(w, err)
		return
	}

	// Seed the live layer model from the stored log so later live updates
	// see the rendered state.
	x := s.layerIndex(doc.ID)
	for _, op := range widget.Calls {
		if err := x.Apply(op); err != nil {
			s.logger.Warn("skipping unreplayable operation", "map", doc.ID, "method", op.Method, "err", err)
		}
	}

	s.logger.Info("stored map", "id", doc.ID, "calls", len(widget.Calls))
	writeJSON(w, http.StatusCreated, mapSummary{ID: doc.ID, Title: doc.Title, UpdatedAt: doc.UpdatedAt})
}

func (s *Server) handlePayload(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc.Widget)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	s.dropLayerIndex(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLayers(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.store.Get(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	x := s.layerIndex(id)

	counts := make(map[string]int)
	for _, cat := range []mapwidget.Category{
		mapwidget.CategoryTile,
		mapwidget.CategoryMarker,
		mapwidget.CategoryShape,
		mapwidget.CategoryGeoJSON,
		mapwidget.CategoryTopoJSON,
		mapwidget.CategoryControl,
	} {
		counts[string(cat)] = x.Count(cat)
	}
	writeJSON(w, http.StatusOK, counts)
}

// handleOps accepts a batch of live-update operations, applies them to the
// server's layer model, and relays them to viewers over the bus.
func (s *Server) handleOps(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.store.Get(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	var ops []mapwidget.Operation
	if err := json.NewDecoder(r.Body).Decode(&ops); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decoding operations"))
		return
	}

	x := s.layerIndex(id)
	for _, op := range ops {
		if err := x.Apply(op); err != nil {
			writeError(w, err)
			return
		}
	}
	for _, op := range ops {
		msg := dispatch.Message{MapID: id, Method: op.Method, Args: op.Args}
		if err := s.bus.Publish(r.Context(), msg); err != nil {
			writeError(w, err)
			return
		}
	}
	w.WriteHeader(http.StatusAccepted)
}

// eventRequest is the POST body viewers send when the user interacts with
// a map.
type eventRequest struct {
	Name    string          `json:"name"`
	Payload json.RawMessage `json:"payload"`
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decoding event"))
		return
	}
	name, err := event.Parse(req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	if name.MapID != id {
		writeError(w, errors.New(errors.ErrCodeInvalidInput,
			"event %q does not belong to map %q", req.Name, id))
		return
	}

	s.mu.Lock()
	handlers := append([]EventHandler(nil), s.handlers[req.Name]...)
	s.mu.Unlock()

	for _, h := range handlers {
		h(name, req.Payload)
	}
	w.WriteHeader(http.StatusAccepted)
}

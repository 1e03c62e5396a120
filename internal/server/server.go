// Package server implements the preview server: it stores widget
// documents, serves them as embeddable pages, relays live-update
// operations over the dispatch bus, and routes reported input events to
// registered Go handlers.
package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/tilewright/tilewright/pkg/dispatch"
	"github.com/tilewright/tilewright/pkg/errors"
	"github.com/tilewright/tilewright/pkg/event"
	"github.com/tilewright/tilewright/pkg/mapwidget"
	"github.com/tilewright/tilewright/pkg/observability"
	"github.com/tilewright/tilewright/pkg/store"
)

// EventHandler receives a parsed event name plus its raw JSON payload.
type EventHandler func(name event.Name, payload json.RawMessage)

// Server wires storage, dispatch and event routing behind an HTTP API.
type Server struct {
	store  store.Store
	bus    dispatch.Bus
	logger *log.Logger

	mu       sync.Mutex
	layers   map[string]*mapwidget.LayerIndex
	handlers map[string][]EventHandler
}

// New creates a server. A nil logger falls back to the default logger.
func New(st store.Store, bus dispatch.Bus, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		store:    st,
		bus:      bus,
		logger:   logger,
		layers:   make(map[string]*mapwidget.LayerIndex),
		handlers: make(map[string][]EventHandler),
	}
}

// OnEvent registers h for the composite event name. Multiple handlers per
// name run in registration order.
func (s *Server) OnEvent(name string, h EventHandler) error {
	if _, err := event.Parse(name); err != nil {
		return err
	}
	s.mu.Lock()
	s.handlers[name] = append(s.handlers[name], h)
	s.mu.Unlock()
	return nil
}

// Router builds the HTTP routing table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	r.Route("/maps", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Post("/", s.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handlePage)
			r.Delete("/", s.handleDelete)
			r.Get("/payload", s.handlePayload)
			r.Get("/layers", s.handleLayers)
			r.Post("/ops", s.handleOps)
			r.Post("/events", s.handleEvents)
		})
	})

	return r
}

// logRequests is request logging middleware in the house style.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		elapsed := time.Since(start)
		observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path, rec.status, elapsed)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", elapsed.Round(time.Microsecond))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// layerIndex returns the live layer model for a map, creating it on first
// use.
func (s *Server) layerIndex(mapID string) *mapwidget.LayerIndex {
	s.mu.Lock()
	defer s.mu.Unlock()
	x, ok := s.layers[mapID]
	if !ok {
		x = mapwidget.NewLayerIndex()
		s.layers[mapID] = x
	}
	return x
}

func (s *Server) dropLayerIndex(mapID string) {
	s.mu.Lock()
	delete(s.layers, mapID)
	s.mu.Unlock()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps error codes to HTTP status and emits the user-facing
// message.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeNetwork:
		status = http.StatusBadGateway
	case errors.ErrCodeInternal, "":
		status = http.StatusInternalServerError
	default:
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]string{
		"code":  string(errors.GetCode(err)),
		"error": errors.UserMessage(err),
	})
}

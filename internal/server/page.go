package server

import (
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tilewright/tilewright/pkg/errors"
)

// Core map assets every page loads before widget dependencies.
var coreAssets = struct {
	Scripts     []string
	Stylesheets []string
}{
	Scripts:     []string{"https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"},
	Stylesheets: []string{"https://unpkg.com/leaflet@1.9.4/dist/leaflet.css"},
}

var pageTemplate = template.Must(template.New("map").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
{{range .Stylesheets}}<link rel="stylesheet" href="{{.}}">
{{end}}{{range .Scripts}}<script src="{{.}}"></script>
{{end}}<style>html, body, #{{.MapID}} { height: 100%; margin: 0; }</style>
</head>
<body>
<div id="{{.MapID}}"></div>
<script type="application/json" data-for="{{.MapID}}">{{.Payload}}</script>
<script>
(function() {
  var el = document.querySelector('script[data-for="{{.MapID}}"]');
  var payload = JSON.parse(el.textContent);
  if (window.tilewright && window.tilewright.render) {
    window.tilewright.render(payload);
  }
})();
</script>
</body>
</html>
`))

type pageData struct {
	MapID       string
	Title       string
	Scripts     []string
	Stylesheets []string
	Payload     template.JS
}

// handlePage serves the standalone HTML page for a stored map: core assets
// first, then the widget's registered dependencies in order, then the
// payload for the rendering host to replay.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	payload, err := json.Marshal(doc.Widget)
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "marshaling widget payload"))
		return
	}

	data := pageData{
		MapID:       doc.ID,
		Title:       doc.Title,
		Scripts:     append([]string(nil), coreAssets.Scripts...),
		Stylesheets: append([]string(nil), coreAssets.Stylesheets...),
		Payload:     template.JS(payload),
	}
	if data.Title == "" {
		data.Title = doc.ID
	}
	for _, dep := range doc.Widget.Dependencies {
		data.Scripts = append(data.Scripts, dep.Scripts...)
		data.Stylesheets = append(data.Stylesheets, dep.Stylesheets...)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		s.logger.Error("rendering map page", "id", doc.ID, "err", err)
	}
}

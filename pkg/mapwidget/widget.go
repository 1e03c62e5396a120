package mapwidget

import (
	"encoding/json"

	"github.com/tilewright/tilewright/pkg/errors"
)

// Widget is the finished payload handed to the rendering host: the map's
// initialization options, the ordered operation log, and the asset
// dependencies the page must load.
type Widget struct {
	MapID        string       `json:"mapId"`
	Options      Options      `json:"options"`
	Calls        []Operation  `json:"calls"`
	Dependencies []Dependency `json:"dependencies"`
}

// Widget finalizes the handle into a payload. A sticky builder error
// surfaces here.
func (m *Map) Widget() (*Widget, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &Widget{
		MapID:        m.id,
		Options:      m.options,
		Calls:        m.Operations(),
		Dependencies: m.Dependencies(),
	}, nil
}

// MarshalPayload finalizes the handle and serializes the widget payload.
func (m *Map) MarshalPayload() ([]byte, error) {
	w, err := m.Widget()
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(w, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "marshaling widget payload")
	}
	return data, nil
}

// UnmarshalPayload parses a serialized widget payload.
func UnmarshalPayload(data []byte) (*Widget, error) {
	var w Widget
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "parsing widget payload")
	}
	if w.MapID == "" {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "widget payload has no mapId")
	}
	return &w, nil
}

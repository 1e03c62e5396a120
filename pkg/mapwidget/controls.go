package mapwidget

import (
	"github.com/tilewright/tilewright/pkg/errors"
	"github.com/tilewright/tilewright/pkg/legend"
)

// AddControl appends a custom HTML control docked to a map corner.
func (m *Map) AddControl(html, position, layerID, group string, className string) *Map {
	if m.err != nil {
		return m
	}
	if position == "" {
		position = legend.DefaultPosition
	}
	if err := errors.ValidatePosition(position); err != nil {
		return m.fail(err)
	}
	if err := validateOptionalLayerID(layerID); err != nil {
		return m.fail(err)
	}
	if err := errors.ValidateGroup(group); err != nil {
		return m.fail(err)
	}
	return m.append(categoryOps[CategoryControl].Add, layerID, group, html, position, className)
}

// AddLegend appends a formatted legend. The payload is produced by the
// legend package; the renderer files it under the control category using
// the payload's layerId, so re-adding a legend with the same ID replaces
// the prior one.
func (m *Map) AddLegend(p *legend.Payload) *Map {
	if m.err != nil {
		return m
	}
	if p == nil {
		return m.fail(errors.New(errors.ErrCodeInvalidInput, "legend payload is required"))
	}
	return m.append(opAddLegend, p)
}

// RemoveControl removes the control with the given ID.
func (m *Map) RemoveControl(layerID string) *Map {
	return m.removeOp(CategoryControl, layerID)
}

// ClearControls removes every control regardless of ID or group.
func (m *Map) ClearControls() *Map {
	return m.append(categoryOps[CategoryControl].Clear)
}

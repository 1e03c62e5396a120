package mapwidget

import "github.com/tilewright/tilewright/pkg/errors"

// ShowGroup makes every object carrying the group label visible.
func (m *Map) ShowGroup(group string) *Map {
	return m.groupOp(opShowGroup, group)
}

// HideGroup hides every object carrying the group label without removing
// it.
func (m *Map) HideGroup(group string) *Map {
	return m.groupOp(opHideGroup, group)
}

// ClearGroup removes every object carrying the group label across all
// categories. The objects are removed from the map entirely, not merely
// hidden; the group label itself remains usable for future additions.
func (m *Map) ClearGroup(group string) *Map {
	return m.groupOp(opClearGroup, group)
}

func (m *Map) groupOp(method, group string) *Map {
	if m.err != nil {
		return m
	}
	if group == "" {
		return m.fail(errors.New(errors.ErrCodeInvalidInput, "group label is required"))
	}
	if err := errors.ValidateGroup(group); err != nil {
		return m.fail(err)
	}
	return m.append(method, group)
}

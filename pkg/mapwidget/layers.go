package mapwidget

import "github.com/tilewright/tilewright/pkg/errors"

// LayerIndex models the rendering host's layer bookkeeping: six independent
// ID → live-object maps, one per category. The preview server applies
// operations to an index to mirror what the remote surface will show.
//
// Semantics:
//   - Adding an object whose ID already exists in its category replaces the
//     prior object atomically; at most one live object per (category, ID).
//   - Anonymous adds (empty ID) accumulate and can only be removed by
//     category clear or group clear.
//   - Clearing a category removes every object in it regardless of ID or
//     group. Clearing a group removes every object carrying the label
//     across all categories; the label stays usable afterwards.
type LayerIndex struct {
	live map[Category]map[string]liveObject
	anon map[Category][]liveObject
}

type liveObject struct {
	id    string
	group string
}

// NewLayerIndex creates an empty index.
func NewLayerIndex() *LayerIndex {
	x := &LayerIndex{
		live: make(map[Category]map[string]liveObject, len(categoryOps)),
		anon: make(map[Category][]liveObject, len(categoryOps)),
	}
	for c := range categoryOps {
		x.live[c] = make(map[string]liveObject)
	}
	return x
}

// Apply interprets one operation descriptor. Category operations mutate the
// index; view, group-visibility and legend operations that do not affect
// object lifetimes are ignored. Unknown methods are ignored too: the wire
// contract allows new operations to appear before this model learns them.
func (x *LayerIndex) Apply(op Operation) error {
	if op.Method == opClearGroup {
		if len(op.Args) != 1 {
			return errors.New(errors.ErrCodeInvalidInput, "clearGroup expects 1 argument")
		}
		group, ok := op.Args[0].(string)
		if !ok {
			return errors.New(errors.ErrCodeInvalidInput, "clearGroup group must be a string")
		}
		x.ClearGroup(group)
		return nil
	}

	cat, action, ok := CategoryForMethod(op.Method)
	if !ok {
		return nil
	}

	switch action {
	case ActionAdd:
		// Add operations lead with (layerId, group).
		if len(op.Args) < 2 {
			return errors.New(errors.ErrCodeInvalidInput,
				"%s expects at least (layerId, group) arguments", op.Method)
		}
		id, ok1 := op.Args[0].(string)
		group, ok2 := op.Args[1].(string)
		if !ok1 || !ok2 {
			return errors.New(errors.ErrCodeInvalidInput,
				"%s layerId and group must be strings", op.Method)
		}
		x.Add(cat, id, group)
	case ActionRemove:
		if len(op.Args) != 1 {
			return errors.New(errors.ErrCodeInvalidInput, "%s expects 1 argument", op.Method)
		}
		id, ok := op.Args[0].(string)
		if !ok {
			return errors.New(errors.ErrCodeInvalidInput, "%s layerId must be a string", op.Method)
		}
		x.Remove(cat, id)
	case ActionClear:
		x.ClearCategory(cat)
	}
	return nil
}

// Add inserts a live object, replacing any prior object with the same ID in
// the category. Replacement is remove-then-insert under one map write, so
// observers never see both objects.
func (x *LayerIndex) Add(cat Category, id, group string) {
	if id == "" {
		x.anon[cat] = append(x.anon[cat], liveObject{group: group})
		return
	}
	x.live[cat][id] = liveObject{id: id, group: group}
}

// Remove deletes the object with the given ID from the category, if any.
func (x *LayerIndex) Remove(cat Category, id string) {
	delete(x.live[cat], id)
}

// ClearCategory removes every object in the category regardless of ID or
// group.
func (x *LayerIndex) ClearCategory(cat Category) {
	x.live[cat] = make(map[string]liveObject)
	x.anon[cat] = nil
}

// ClearGroup removes every object carrying the group label across all
// categories. The group label itself keeps working for future additions.
func (x *LayerIndex) ClearGroup(group string) {
	for cat, objs := range x.live {
		for id, obj := range objs {
			if obj.group == group {
				delete(x.live[cat], id)
			}
		}
	}
	for cat, objs := range x.anon {
		kept := objs[:0]
		for _, obj := range objs {
			if obj.group != group {
				kept = append(kept, obj)
			}
		}
		x.anon[cat] = kept
	}
}

// Has reports whether an object with the given ID is live in the category.
func (x *LayerIndex) Has(cat Category, id string) bool {
	_, ok := x.live[cat][id]
	return ok
}

// Count returns the number of live objects in the category, anonymous ones
// included.
func (x *LayerIndex) Count(cat Category) int {
	return len(x.live[cat]) + len(x.anon[cat])
}

// GroupCount returns the number of live objects carrying the group label
// across all categories.
func (x *LayerIndex) GroupCount(group string) int {
	n := 0
	for _, objs := range x.live {
		for _, obj := range objs {
			if obj.group == group {
				n++
			}
		}
	}
	for _, objs := range x.anon {
		for _, obj := range objs {
			if obj.group == group {
				n++
			}
		}
	}
	return n
}

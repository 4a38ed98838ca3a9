package implication

import "github.com/stateworks/go-implied/pkg/model"

// ContextDiff is the context portion of a PATCH payload: values to write and
// names to remove, computed structurally rather than by comparing serialized
// text.
type ContextDiff struct {
	Updates map[string]any `json:"contextUpdates,omitempty"`
	Removed []string       `json:"removedFields,omitempty"`
}

// Empty reports whether the diff carries no work.
func (d ContextDiff) Empty() bool {
	return len(d.Updates) == 0 && len(d.Removed) == 0
}

// DiffContext compares a loaded baseline against the edited set. Fields whose
// values differ structurally, and fields new in next, land in Updates; fields
// present only in base land in Removed, in base order.
func DiffContext(base, next *model.ContextSet) ContextDiff {
	diff := ContextDiff{Updates: make(map[string]any)}

	for _, field := range next.Fields() {
		baseValue, existed := base.Get(field.Name)
		if existed && model.Equal(baseValue, field.Value) {
			continue
		}
		diff.Updates[field.Name] = field.Value
	}
	for _, name := range base.Names() {
		if !next.Has(name) {
			diff.Removed = append(diff.Removed, name)
		}
	}

	if len(diff.Updates) == 0 {
		diff.Updates = nil
	}
	return diff
}

// Package editor implements the interactive lifecycle around a context set:
// one field editable at a time through a PendingEdit, an add flow with name
// validation and typed defaults, and a ChangeSet accumulated for the
// persistence collaborator. Destructive operations hand back a Confirmation
// the caller resolves, keeping the model free of any dialog modality.
package editor

import (
	"errors"
	"fmt"

	"github.com/stateworks/go-implied/pkg/model"
)

var (
	// ErrEditPending is returned when an operation requires the active edit
	// to be saved or cancelled first.
	ErrEditPending = errors.New("editor: another field edit is pending")
	// ErrAddPending is returned when an operation conflicts with an open add
	// form.
	ErrAddPending = errors.New("editor: add form is open")
	// ErrNoPendingEdit is returned by SaveEdit and UpdateDraft when no field
	// is being edited.
	ErrNoPendingEdit = errors.New("editor: no pending edit")
	// ErrUnknownField is returned when the named field does not exist.
	ErrUnknownField = errors.New("editor: unknown field")
)

// PendingEdit is the transient state of the single field being edited:
// unparsed user input plus the last coercion failure, if any.
type PendingEdit struct {
	Field   string
	RawText string
	Err     error
}

// Session owns one editing pass over a context set. It keeps the loaded
// baseline for change elision, a working copy that mutates only after
// successful coercion or validation, and the accumulated change set. Sessions
// are not safe for concurrent use; each editor instance owns its own.
type Session struct {
	baseline *model.ContextSet
	working  *model.ContextSet
	changes  map[string]any
	removed  map[string]struct{}
	pending  *PendingEdit
	adding   bool
}

// NewSession starts an edit session over the given fields. The session clones
// the set; the caller's copy is never mutated.
func NewSession(loaded *model.ContextSet) *Session {
	return &Session{
		baseline: loaded.Clone(),
		working:  loaded.Clone(),
		changes:  make(map[string]any),
		removed:  make(map[string]struct{}),
	}
}

// Fields returns the working fields in display order.
func (s *Session) Fields() []model.Field {
	return s.working.Fields()
}

// Set returns the working context set. Callers must treat it as read-only.
func (s *Session) Set() *model.ContextSet {
	return s.working
}

// Pending returns the active edit, if any.
func (s *Session) Pending() (*PendingEdit, bool) {
	if s.pending == nil {
		return nil, false
	}
	return s.pending, true
}

// BeginEdit moves a field into the editing state, seeding the draft text from
// the field's formatted value. Only one field may be editing at a time;
// callers must save or cancel the active edit before starting another.
func (s *Session) BeginEdit(name string) error {
	if s.pending != nil {
		if s.pending.Field == name {
			return nil
		}
		return fmt.Errorf("%w: %s", ErrEditPending, s.pending.Field)
	}
	if s.adding {
		return ErrAddPending
	}
	value, ok := s.working.Get(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	s.pending = &PendingEdit{Field: name, RawText: model.Format(value)}
	return nil
}

// UpdateDraft replaces the pending edit's raw text.
func (s *Session) UpdateDraft(rawText string) error {
	if s.pending == nil {
		return ErrNoPendingEdit
	}
	s.pending.RawText = rawText
	s.pending.Err = nil
	return nil
}

// SaveEdit coerces the draft text under the field's current declared type and
// commits it. On coercion failure the field stays in edit mode with the error
// recorded on the pending edit, and the working set is unchanged.
func (s *Session) SaveEdit() error {
	if s.pending == nil {
		return ErrNoPendingEdit
	}
	current, ok := s.working.Get(s.pending.Field)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, s.pending.Field)
	}

	value, err := model.Coerce(s.pending.RawText, model.Infer(current))
	if err != nil {
		s.pending.Err = err
		return err
	}

	s.working.Set(s.pending.Field, value)
	s.recordChange(s.pending.Field, value)
	s.pending = nil
	return nil
}

// CancelEdit discards the pending edit unconditionally.
func (s *Session) CancelEdit() {
	s.pending = nil
}

// BeginAdd opens the add form. Adding is mutually exclusive with editing.
func (s *Session) BeginAdd() error {
	if s.pending != nil {
		return fmt.Errorf("%w: %s", ErrEditPending, s.pending.Field)
	}
	s.adding = true
	return nil
}

// Adding reports whether the add form is open.
func (s *Session) Adding() bool {
	return s.adding
}

// SubmitAdd validates the proposed name and inserts a field with the declared
// type's default value, closing the add form. Validation failures leave the
// form open and the set untouched.
func (s *Session) SubmitAdd(name string, declared model.ValueType) error {
	if !s.adding {
		return errors.New("editor: add form is not open")
	}
	if err := model.ValidateName(name, s.working.Names()); err != nil {
		return err
	}
	value := model.DefaultValue(declared)
	s.working.Set(name, value)
	s.recordChange(name, value)
	s.adding = false
	return nil
}

// CancelAdd closes the add form unconditionally.
func (s *Session) CancelAdd() {
	s.adding = false
}

// Delete stages removal of a field behind a Confirmation. Nothing changes
// until the caller accepts it.
func (s *Session) Delete(name string) (*Confirmation, error) {
	if !s.working.Has(name) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	return &Confirmation{
		prompt: fmt.Sprintf("Delete context field %q?", name),
		apply: func() {
			if s.pending != nil && s.pending.Field == name {
				s.pending = nil
			}
			s.working.Delete(name)
			delete(s.changes, name)
			if s.baseline.Has(name) {
				s.removed[name] = struct{}{}
			}
		},
	}, nil
}

// Discard stages dropping every pending change. With a clean session it
// returns nil and there is nothing to confirm.
func (s *Session) Discard() *Confirmation {
	if !s.Dirty() && s.pending == nil && !s.adding {
		return nil
	}
	return &Confirmation{
		prompt: "Discard unsaved context changes?",
		apply: func() {
			s.working = s.baseline.Clone()
			s.changes = make(map[string]any)
			s.removed = make(map[string]struct{})
			s.pending = nil
			s.adding = false
		},
	}
}

// Dirty reports whether the session holds unflushed changes.
func (s *Session) Dirty() bool {
	return len(s.changes) > 0 || len(s.removed) > 0
}

// Changes returns a copy of the accumulated change set: field name to new
// value for the persistence collaborator's update call.
func (s *Session) Changes() map[string]any {
	out := make(map[string]any, len(s.changes))
	for name, value := range s.changes {
		out[name] = value
	}
	return out
}

// Removed lists baseline fields deleted during the session.
func (s *Session) Removed() []string {
	out := make([]string, 0, len(s.removed))
	for _, name := range s.baseline.Names() {
		if _, ok := s.removed[name]; ok {
			out = append(out, name)
		}
	}
	return out
}

// MarkFlushed clears the change set after the caller has confirmed the
// collaborator accepted the write, and promotes the working set to the new
// baseline. On a failed write callers simply do not call it; the session
// stays in its pre-flush state.
func (s *Session) MarkFlushed() {
	s.baseline = s.working.Clone()
	s.changes = make(map[string]any)
	s.removed = make(map[string]struct{})
}

// recordChange stores a value in the change set, eliding writes that restore
// the baseline value. Equality is structural, not textual. Setting a name
// always cancels a staged removal; the working set shows the field present,
// so the flush must not delete it.
func (s *Session) recordChange(name string, value any) {
	delete(s.removed, name)
	if base, ok := s.baseline.Get(name); ok && model.Equal(base, value) {
		delete(s.changes, name)
		return
	}
	s.changes[name] = value
}

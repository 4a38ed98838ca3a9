package editor_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/stateworks/go-implied/pkg/editor"
	"github.com/stateworks/go-implied/pkg/model"
)

func newSession() *editor.Session {
	return editor.NewSession(model.NewContextSet(
		model.Field{Name: "status", Value: "pending"},
		model.Field{Name: "count", Value: 3.0},
	))
}

func TestEditSaveCommits(t *testing.T) {
	session := newSession()

	if err := session.BeginEdit("count"); err != nil {
		t.Fatalf("begin edit: %v", err)
	}
	pending, ok := session.Pending()
	if !ok || pending.RawText != "3" {
		t.Fatalf("pending = %+v, want raw text 3", pending)
	}

	if err := session.UpdateDraft("42"); err != nil {
		t.Fatalf("update draft: %v", err)
	}
	if err := session.SaveEdit(); err != nil {
		t.Fatalf("save edit: %v", err)
	}

	value, _ := session.Set().Get("count")
	if value != 42.0 {
		t.Fatalf("count = %v, want 42", value)
	}
	if diff := cmp.Diff(map[string]any{"count": 42.0}, session.Changes()); diff != "" {
		t.Fatalf("changes mismatch (-want +got):\n%s", diff)
	}
	if _, stillEditing := session.Pending(); stillEditing {
		t.Fatal("pending edit survived save")
	}
}

// Editing count with text that is not a number fails coercion, leaves the
// field in edit mode with the error attached, and never touches the set.
func TestEditSaveCoercionFailure(t *testing.T) {
	session := newSession()

	if err := session.BeginEdit("count"); err != nil {
		t.Fatalf("begin edit: %v", err)
	}
	if err := session.UpdateDraft("abc"); err != nil {
		t.Fatalf("update draft: %v", err)
	}

	err := session.SaveEdit()
	var coercionErr *model.CoercionError
	if !errors.As(err, &coercionErr) {
		t.Fatalf("save edit: got %v, want *CoercionError", err)
	}

	value, _ := session.Set().Get("count")
	if value != 3.0 {
		t.Fatalf("count mutated to %v on failed save", value)
	}
	pending, ok := session.Pending()
	if !ok {
		t.Fatal("field left edit mode after failed save")
	}
	if pending.Err == nil {
		t.Fatal("pending edit lost the coercion error")
	}
	if session.Dirty() {
		t.Fatal("failed save dirtied the change set")
	}
}

func TestSingleEditAtATime(t *testing.T) {
	session := newSession()

	if err := session.BeginEdit("status"); err != nil {
		t.Fatalf("begin edit: %v", err)
	}
	if err := session.BeginEdit("count"); !errors.Is(err, editor.ErrEditPending) {
		t.Fatalf("second edit: got %v, want ErrEditPending", err)
	}
	// Re-entering the same field is a no-op, not an error.
	if err := session.BeginEdit("status"); err != nil {
		t.Fatalf("re-enter same field: %v", err)
	}

	session.CancelEdit()
	if err := session.BeginEdit("count"); err != nil {
		t.Fatalf("edit after cancel: %v", err)
	}
}

func TestCancelEditDiscards(t *testing.T) {
	session := newSession()
	if err := session.BeginEdit("status"); err != nil {
		t.Fatalf("begin edit: %v", err)
	}
	if err := session.UpdateDraft("changed"); err != nil {
		t.Fatalf("update draft: %v", err)
	}
	session.CancelEdit()

	value, _ := session.Set().Get("status")
	if value != "pending" {
		t.Fatalf("status = %v after cancel, want pending", value)
	}
	if session.Dirty() {
		t.Fatal("cancel left the session dirty")
	}
}

// Scenario from the model contract: context {status: "pending"}, add "token"
// with the null declared type, and the set becomes {status, token:null}.
func TestAddFlow(t *testing.T) {
	session := editor.NewSession(model.NewContextSet(
		model.Field{Name: "status", Value: "pending"},
	))

	if err := session.BeginAdd(); err != nil {
		t.Fatalf("begin add: %v", err)
	}
	if err := session.SubmitAdd("token", model.TypeNull); err != nil {
		t.Fatalf("submit add: %v", err)
	}

	if diff := cmp.Diff([]string{"status", "token"}, session.Set().Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	value, ok := session.Set().Get("token")
	if !ok || value != nil {
		t.Fatalf("token = %v, want null", value)
	}
	if session.Adding() {
		t.Fatal("add form still open after submit")
	}
}

func TestAddValidation(t *testing.T) {
	session := newSession()
	if err := session.BeginAdd(); err != nil {
		t.Fatalf("begin add: %v", err)
	}

	err := session.SubmitAdd("status", model.TypeString)
	var validationErr *model.ValidationError
	if !errors.As(err, &validationErr) || validationErr.Code != model.DuplicateName {
		t.Fatalf("duplicate add: got %v, want DuplicateName", err)
	}
	if !session.Adding() {
		t.Fatal("add form closed on validation failure")
	}
	if session.Set().Len() != 2 {
		t.Fatal("failed add mutated the set")
	}

	session.CancelAdd()
	if session.Adding() {
		t.Fatal("cancel did not close the add form")
	}
}

func TestAddTypedDefaults(t *testing.T) {
	session := editor.NewSession(model.NewContextSet())
	cases := []struct {
		name     string
		declared model.ValueType
		want     any
	}{
		{"s", model.TypeString, ""},
		{"n", model.TypeNumber, 0.0},
		{"b", model.TypeBoolean, false},
	}
	for _, tc := range cases {
		if err := session.BeginAdd(); err != nil {
			t.Fatalf("begin add: %v", err)
		}
		if err := session.SubmitAdd(tc.name, tc.declared); err != nil {
			t.Fatalf("submit add %s: %v", tc.name, err)
		}
		value, _ := session.Set().Get(tc.name)
		if value != tc.want {
			t.Fatalf("%s default = %v, want %v", tc.declared, value, tc.want)
		}
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	session := newSession()

	confirmation, err := session.Delete("status")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !session.Set().Has("status") {
		t.Fatal("field removed before confirmation")
	}

	confirmation.Accept()
	if session.Set().Has("status") {
		t.Fatal("field survived accepted delete")
	}
	if diff := cmp.Diff([]string{"status"}, session.Removed()); diff != "" {
		t.Fatalf("removed mismatch (-want +got):\n%s", diff)
	}

	// Accepting twice is harmless.
	confirmation.Accept()

	if _, err := session.Delete("missing"); !errors.Is(err, editor.ErrUnknownField) {
		t.Fatalf("delete missing: got %v, want ErrUnknownField", err)
	}
}

// Re-adding a deleted baseline field cancels its staged removal; the flush
// payload must never delete a field the working set shows present.
func TestDeleteThenReAdd(t *testing.T) {
	session := newSession()

	confirmation, err := session.Delete("count")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	confirmation.Accept()

	if err := session.BeginAdd(); err != nil {
		t.Fatalf("begin add: %v", err)
	}
	if err := session.SubmitAdd("count", model.TypeNumber); err != nil {
		t.Fatalf("submit add: %v", err)
	}

	if diff := cmp.Diff([]string{}, session.Removed()); diff != "" {
		t.Fatalf("removed mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]any{"count": 0.0}, session.Changes()); diff != "" {
		t.Fatalf("changes mismatch (-want +got):\n%s", diff)
	}

	// Editing the value back to the baseline empties the flush entirely.
	if err := session.BeginEdit("count"); err != nil {
		t.Fatalf("begin edit: %v", err)
	}
	if err := session.UpdateDraft("3"); err != nil {
		t.Fatalf("update draft: %v", err)
	}
	if err := session.SaveEdit(); err != nil {
		t.Fatalf("save edit: %v", err)
	}
	if session.Dirty() {
		t.Fatalf("restored baseline still dirty: changes=%v removed=%v",
			session.Changes(), session.Removed())
	}
}

func TestDiscardGuard(t *testing.T) {
	session := newSession()
	if confirmation := session.Discard(); confirmation != nil {
		t.Fatal("clean session demanded a discard confirmation")
	}

	if err := session.BeginEdit("status"); err != nil {
		t.Fatalf("begin edit: %v", err)
	}
	if err := session.UpdateDraft("done"); err != nil {
		t.Fatalf("update draft: %v", err)
	}
	if err := session.SaveEdit(); err != nil {
		t.Fatalf("save edit: %v", err)
	}

	confirmation := session.Discard()
	if confirmation == nil {
		t.Fatal("dirty session discarded without confirmation")
	}
	confirmation.Accept()

	value, _ := session.Set().Get("status")
	if value != "pending" {
		t.Fatalf("status = %v after discard, want pending", value)
	}
	if session.Dirty() {
		t.Fatal("discard left changes behind")
	}
}

// A save that restores the baseline value drops the field from the change set
// by structural comparison.
func TestChangeElision(t *testing.T) {
	session := newSession()

	edit := func(raw string) {
		t.Helper()
		if err := session.BeginEdit("count"); err != nil {
			t.Fatalf("begin edit: %v", err)
		}
		if err := session.UpdateDraft(raw); err != nil {
			t.Fatalf("update draft: %v", err)
		}
		if err := session.SaveEdit(); err != nil {
			t.Fatalf("save edit: %v", err)
		}
	}

	edit("42")
	if !session.Dirty() {
		t.Fatal("change not recorded")
	}
	edit("3")
	if session.Dirty() {
		t.Fatalf("restoring the baseline kept changes: %v", session.Changes())
	}
}

func TestMarkFlushed(t *testing.T) {
	session := newSession()
	if err := session.BeginEdit("count"); err != nil {
		t.Fatalf("begin edit: %v", err)
	}
	if err := session.UpdateDraft("10"); err != nil {
		t.Fatalf("update draft: %v", err)
	}
	if err := session.SaveEdit(); err != nil {
		t.Fatalf("save edit: %v", err)
	}

	session.MarkFlushed()
	if session.Dirty() {
		t.Fatal("flushed session still dirty")
	}

	// The flushed value is the new baseline, so re-saving it records nothing.
	if err := session.BeginEdit("count"); err != nil {
		t.Fatalf("begin edit: %v", err)
	}
	if err := session.SaveEdit(); err != nil {
		t.Fatalf("save edit: %v", err)
	}
	if session.Dirty() {
		t.Fatal("identical save after flush dirtied the session")
	}
}

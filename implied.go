// Package implied re-exports the core context-field model and the editing
// session so embedders can depend on one import path for the common flow:
// load a context, run a session, reconcile suggestions, flush changes.
package implied

import (
	"github.com/stateworks/go-implied/pkg/editor"
	"github.com/stateworks/go-implied/pkg/implication"
	"github.com/stateworks/go-implied/pkg/model"
	"github.com/stateworks/go-implied/pkg/suggest"
)

// ContextSet aliases the ordered field collection at the heart of an
// implication's context block.
type ContextSet = model.ContextSet

// Field is one named context value.
type Field = model.Field

// ValueType tags a context value's JSON shape.
type ValueType = model.ValueType

// Document is a parsed implication metadata file.
type Document = implication.Document

// Session drives the one-field-at-a-time editing lifecycle.
type Session = editor.Session

// SuggestedField is a context field derived from an external analyzer.
type SuggestedField = suggest.SuggestedField

// NewContextSet returns an empty ordered context set.
func NewContextSet() *ContextSet {
	return model.NewContextSet()
}

// NewSession starts an editing session over loaded fields. The input is
// cloned; the caller's copy never mutates.
func NewSession(loaded *ContextSet) *Session {
	return editor.NewSession(loaded)
}

// Reconcile drops suggestions already satisfied by current, preserving order.
func Reconcile(suggestions []SuggestedField, current *ContextSet) []SuggestedField {
	return suggest.Reconcile(suggestions, current)
}

// Package model owns the in-memory representation of a state's context
// fields: the JSON-shaped value domain with its derived type tags, the
// Format/Coerce pair that moves values through an editable text box, name
// validation for the add flow, and the insertion-ordered ContextSet the
// editor and persistence layers exchange. All functions here are pure or
// single-object-mutating; the set only changes after validation or coercion
// has fully succeeded, so callers can surface errors inline without any
// rollback bookkeeping.
package model

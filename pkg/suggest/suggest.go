// Package suggest reconciles externally derived context-field suggestions
// against the fields a state already carries, so editors never offer a field
// that is already satisfied.
package suggest

import "github.com/stateworks/go-implied/pkg/model"

// SourceUISpec tags suggestions mined from a UI specification's variable
// references.
const SourceUISpec = "derived-from-ui-spec"

// SuggestedField is a context field an external analyzer believes the state
// should carry but does not yet.
type SuggestedField struct {
	Name   string  `json:"name"`
	Reason string  `json:"reason,omitempty"`
	Source string  `json:"source,omitempty"`
	Score  float64 `json:"score,omitempty"`
}

// Confidence buckets a suggestion score for display grouping.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Confidence classifies the suggestion's score. Scores at or above 0.75 are
// high, at or above 0.4 medium, everything below low.
func (s SuggestedField) Confidence() Confidence {
	switch {
	case s.Score >= 0.75:
		return ConfidenceHigh
	case s.Score >= 0.4:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// Reconcile filters out suggestions whose name is already a key of current.
// It preserves input order and mutates neither argument. Callers re-run it
// whenever current changes so displayed suggestions never include satisfied
// fields.
func Reconcile(suggestions []SuggestedField, current *model.ContextSet) []SuggestedField {
	out := make([]SuggestedField, 0, len(suggestions))
	for _, suggestion := range suggestions {
		if current.Has(suggestion.Name) {
			continue
		}
		out = append(out, suggestion)
	}
	return out
}

// ApplyAll returns a copy of current with every not-yet-present suggestion
// inserted as an untyped (null) field, in suggestion order. The insertion is
// one logical step; partial-failure handling on persistence is the caller's
// concern.
func ApplyAll(suggestions []SuggestedField, current *model.ContextSet) *model.ContextSet {
	next := current.Clone()
	for _, suggestion := range Reconcile(suggestions, current) {
		next.Set(suggestion.Name, nil)
	}
	return next
}

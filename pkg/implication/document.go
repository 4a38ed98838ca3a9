// Package implication models one state's metadata file for the
// test-automation framework: its context schema, UI screen coverage,
// transitions, and linked test data. Documents round-trip through JSON with
// context field order preserved.
package implication

import (
	"encoding/json"
	"fmt"

	"github.com/stateworks/go-implied/pkg/model"
)

// Screen records whether a UI screen is covered by the state and where it
// sits in display order.
type Screen struct {
	ID      string `json:"id"`
	Title   string `json:"title,omitempty"`
	Covered bool   `json:"covered"`
	Order   int    `json:"order,omitempty"`
}

// Transition is an outgoing edge of the state machine.
type Transition struct {
	Event  string `json:"event"`
	Target string `json:"target"`
	Guard  string `json:"guard,omitempty"`
}

// Datum links a context field to a concrete test-data value and its origin.
type Datum struct {
	Field  string `json:"field"`
	Value  any    `json:"value"`
	Source string `json:"source,omitempty"`
}

// Document is one implication file's content.
type Document struct {
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Context     *model.ContextSet `json:"context"`
	Screens     []Screen          `json:"screens,omitempty"`
	Transitions []Transition      `json:"transitions,omitempty"`
	TestData    []Datum           `json:"testData,omitempty"`
}

// New returns an empty document with an initialized context set.
func New(name string) *Document {
	return &Document{Name: name, Context: model.NewContextSet()}
}

// Decode parses a document from JSON, guaranteeing a non-nil context set.
func Decode(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("implication: decode: %w", err)
	}
	if doc.Context == nil {
		doc.Context = model.NewContextSet()
	}
	return &doc, nil
}

// Encode serializes the document as indented JSON suitable for on-disk
// storage.
func (d *Document) Encode() ([]byte, error) {
	out, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("implication: encode %q: %w", d.Name, err)
	}
	return append(out, '\n'), nil
}

// Clone deep-copies the document.
func (d *Document) Clone() *Document {
	clone := *d
	clone.Context = d.Context.Clone()
	clone.Screens = append([]Screen(nil), d.Screens...)
	clone.Transitions = append([]Transition(nil), d.Transitions...)
	clone.TestData = append([]Datum(nil), d.TestData...)
	return &clone
}

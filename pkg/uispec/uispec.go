// Package uispec mines mirrorsOn UI specifications for context-variable
// references. Screens interpolate state context with {{name}} placeholders;
// collecting those placeholders and comparing them with a state's context set
// yields the suggested-fields list the editor surfaces.
package uispec

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/stateworks/go-implied/pkg/suggest"
)

// Spec is a parsed mirrorsOn UI specification.
type Spec struct {
	Name    string   `json:"name" yaml:"name"`
	Screens []Screen `json:"screens" yaml:"screens"`
}

// Screen is one UI screen definition. Element values are free-form; any
// string anywhere inside them may reference context variables.
type Screen struct {
	ID       string           `json:"id" yaml:"id"`
	Title    string           `json:"title,omitempty" yaml:"title,omitempty"`
	Elements []map[string]any `json:"elements,omitempty" yaml:"elements,omitempty"`
}

// Parse reads a UI specification from YAML or JSON bytes. YAML is a superset
// of JSON here, so one decoder covers both on-disk formats.
func Parse(data []byte, source string) (*Spec, error) {
	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("uispec: parse %s: %w", source, err)
	}
	if spec.Name == "" {
		spec.Name = strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	}
	return &spec, nil
}

// variableRef matches {{name}} placeholders with identifier-shaped names.
// Surrounding whitespace inside the braces is tolerated.
var variableRef = regexp.MustCompile(`\{\{\s*([A-Za-z$_][A-Za-z0-9$_]*)\s*\}\}`)

// Variables collects every context-variable reference in the spec, in first
// appearance order, with occurrence counts.
func (s *Spec) Variables() ([]string, map[string]int) {
	var order []string
	counts := make(map[string]int)

	record := func(text string) {
		for _, match := range variableRef.FindAllStringSubmatch(text, -1) {
			name := match[1]
			if counts[name] == 0 {
				order = append(order, name)
			}
			counts[name]++
		}
	}

	for _, screen := range s.Screens {
		record(screen.Title)
		for _, element := range screen.Elements {
			walkStrings(element, record)
		}
	}
	return order, counts
}

// Suggestions converts the spec's variable references into suggested context
// fields. Scores grow with reference count: a variable used once scores 0.5,
// each further reference adds 0.1 up to 1.0. Callers reconcile the result
// against the state's current context before display.
func (s *Spec) Suggestions() []suggest.SuggestedField {
	order, counts := s.Variables()
	out := make([]suggest.SuggestedField, 0, len(order))
	for _, name := range order {
		count := counts[name]
		out = append(out, suggest.SuggestedField{
			Name:   name,
			Reason: referenceReason(count, s.Name),
			Source: suggest.SourceUISpec,
			Score:  scoreFor(count),
		})
	}
	return out
}

func scoreFor(count int) float64 {
	score := 0.5 + 0.1*float64(count-1)
	if score > 1.0 {
		return 1.0
	}
	return score
}

func referenceReason(count int, specName string) string {
	if count == 1 {
		return fmt.Sprintf("referenced once in UI spec %q", specName)
	}
	return fmt.Sprintf("referenced %d times in UI spec %q", count, specName)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func walkStrings(value any, visit func(string)) {
	switch v := value.(type) {
	case string:
		visit(v)
	case []any:
		for _, item := range v {
			walkStrings(item, visit)
		}
	case map[string]any:
		for _, key := range sortedKeys(v) {
			walkStrings(v[key], visit)
		}
	case map[any]any:
		// YAML mappings with non-string keys decode into this shape.
		normalized := make(map[string]any, len(v))
		for key, item := range v {
			normalized[fmt.Sprint(key)] = item
		}
		for _, key := range sortedKeys(normalized) {
			walkStrings(normalized[key], visit)
		}
	}
}

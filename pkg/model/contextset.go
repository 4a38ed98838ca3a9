package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ContextSet holds a state's context fields keyed by name. Insertion order is
// preserved for display; it carries no semantic weight. Keys are unique.
//
// The zero value is an empty, usable set.
type ContextSet struct {
	names  []string
	values map[string]any
}

// NewContextSet builds a set from fields in order. Later duplicates overwrite
// earlier values without changing position.
func NewContextSet(fields ...Field) *ContextSet {
	set := &ContextSet{}
	for _, field := range fields {
		set.Set(field.Name, field.Value)
	}
	return set
}

// Len reports the number of fields.
func (s *ContextSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.names)
}

// Has reports whether name is present.
func (s *ContextSet) Has(name string) bool {
	if s == nil || s.values == nil {
		return false
	}
	_, ok := s.values[name]
	return ok
}

// Get returns the value stored under name.
func (s *ContextSet) Get(name string) (any, bool) {
	if s == nil || s.values == nil {
		return nil, false
	}
	value, ok := s.values[name]
	return value, ok
}

// Set inserts or replaces a field. New names append; existing names keep
// their position.
func (s *ContextSet) Set(name string, value any) {
	if s.values == nil {
		s.values = make(map[string]any)
	}
	if _, ok := s.values[name]; !ok {
		s.names = append(s.names, name)
	}
	s.values[name] = value
}

// Delete removes a field, reporting whether it was present.
func (s *ContextSet) Delete(name string) bool {
	if s == nil || s.values == nil {
		return false
	}
	if _, ok := s.values[name]; !ok {
		return false
	}
	delete(s.values, name)
	for i, existing := range s.names {
		if existing == name {
			s.names = append(s.names[:i], s.names[i+1:]...)
			break
		}
	}
	return true
}

// Names returns the field names in insertion order.
func (s *ContextSet) Names() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Fields returns the fields in insertion order.
func (s *ContextSet) Fields() []Field {
	if s == nil {
		return nil
	}
	out := make([]Field, 0, len(s.names))
	for _, name := range s.names {
		out = append(out, Field{Name: name, Value: s.values[name]})
	}
	return out
}

// Clone returns a deep copy; mutations on either side stay independent.
func (s *ContextSet) Clone() *ContextSet {
	if s == nil {
		return NewContextSet()
	}
	clone := &ContextSet{
		names:  make([]string, len(s.names)),
		values: make(map[string]any, len(s.values)),
	}
	copy(clone.names, s.names)
	for name, value := range s.values {
		clone.values[name] = cloneValue(value)
	}
	return clone
}

// MarshalJSON serializes the set as a JSON object in insertion order.
func (s *ContextSet) MarshalJSON() ([]byte, error) {
	if s == nil || len(s.names) == 0 {
		return []byte("{}"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range s.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(s.values[name])
		if err != nil {
			return nil, fmt.Errorf("context set: marshal field %q: %w", name, err)
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON parses a JSON object preserving key order.
func (s *ContextSet) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("context set: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("context set: expected object, got %v", tok)
	}

	s.names = nil
	s.values = make(map[string]any)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("context set: %w", err)
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("context set: expected key, got %v", keyTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("context set: field %q: %w", name, err)
		}
		var value any
		if err := json.Unmarshal(raw, &value); err != nil {
			return fmt.Errorf("context set: field %q: %w", name, err)
		}
		s.Set(name, value)
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("context set: %w", err)
	}
	return nil
}

func cloneValue(value any) any {
	switch v := value.(type) {
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = cloneValue(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

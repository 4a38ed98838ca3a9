package model

// ValueType is the derived tag for a context-field value. It is always
// recomputed from the value via Infer and never stored independently.
type ValueType string

const (
	TypeNull    ValueType = "null"
	TypeBoolean ValueType = "boolean"
	TypeNumber  ValueType = "number"
	TypeString  ValueType = "string"
	TypeArray   ValueType = "array"
	TypeObject  ValueType = "object"
	TypeUnknown ValueType = "unknown"
)

// Field pairs a context-field name with its current value. Values carry the
// JSON-shaped domain documented on Infer.
type Field struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// Type reports the derived tag for the field's value.
func (f Field) Type() ValueType {
	return Infer(f.Value)
}

// Infer classifies a value into its derived type tag. The domain is the set
// of JSON-shaped Go values: nil, bool, numeric kinds, string, []any, and
// map[string]any. Anything outside that domain reports TypeUnknown; Infer
// never panics.
func Infer(value any) ValueType {
	switch value.(type) {
	case nil:
		return TypeNull
	case bool:
		return TypeBoolean
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return TypeNumber
	case string:
		return TypeString
	case []any:
		return TypeArray
	case map[string]any:
		return TypeObject
	default:
		return TypeUnknown
	}
}

// DefaultValue reports the value a freshly added field receives for a
// declared type.
func DefaultValue(t ValueType) any {
	switch t {
	case TypeString:
		return ""
	case TypeNumber:
		return float64(0)
	case TypeBoolean:
		return false
	case TypeArray:
		return []any{}
	case TypeObject:
		return map[string]any{}
	default:
		return nil
	}
}

// DeclaredTypes lists the types a caller may declare when adding a field, in
// the order editors present them.
func DeclaredTypes() []ValueType {
	return []ValueType{TypeString, TypeNumber, TypeBoolean, TypeArray, TypeObject, TypeNull}
}

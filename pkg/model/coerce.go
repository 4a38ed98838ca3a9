package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Format renders a value as the editable text presented when a field enters
// edit mode. Null renders as the literal "null", arrays and objects as
// indented JSON, everything else as its natural string form. Coerce reverses
// Format for every representable value.
func Format(value any) string {
	switch Infer(value) {
	case TypeNull:
		return "null"
	case TypeArray, TypeObject:
		out, err := json.MarshalIndent(value, "", "  ")
		if err != nil {
			return fmt.Sprint(value)
		}
		return string(out)
	case TypeBoolean:
		if value.(bool) {
			return "true"
		}
		return "false"
	case TypeNumber:
		return formatNumber(value)
	case TypeString:
		return value.(string)
	default:
		return fmt.Sprint(value)
	}
}

// Coerce parses user-entered text back into a typed value according to the
// declared type. On failure it returns a *CoercionError and no value; callers
// must leave their context set unchanged until coercion succeeds.
//
// The "null" declared type means "not yet typed" and performs best-effort
// inference: boolean literals first, then numbers, then a string fallback.
// That sniffing mirrors the editor this model replaces and is intentionally
// preserved, quirks included: typing "42" into an untyped field yields a
// number, not a string.
func Coerce(rawText string, declared ValueType) (any, error) {
	switch declared {
	case TypeNumber:
		trimmed := strings.TrimSpace(rawText)
		if trimmed == "" || trimmed == "null" {
			return nil, nil
		}
		number, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return nil, &CoercionError{Declared: declared, Cause: fmt.Errorf("%q is not a number", rawText)}
		}
		return number, nil

	case TypeBoolean:
		return rawText == "true", nil

	case TypeNull:
		return coerceUntyped(rawText), nil

	case TypeArray:
		var value any
		if err := json.Unmarshal([]byte(rawText), &value); err != nil {
			return nil, &CoercionError{Declared: declared, Cause: err}
		}
		list, ok := value.([]any)
		if !ok {
			return nil, &CoercionError{Declared: declared, Cause: errors.New("value is not a JSON array")}
		}
		return list, nil

	case TypeObject:
		var value any
		if err := json.Unmarshal([]byte(rawText), &value); err != nil {
			return nil, &CoercionError{Declared: declared, Cause: err}
		}
		object, ok := value.(map[string]any)
		if !ok || object == nil {
			return nil, &CoercionError{Declared: declared, Cause: errors.New("value is not a JSON object")}
		}
		return object, nil

	default:
		// string and anything unrecognized: raw text verbatim.
		return rawText, nil
	}
}

func coerceUntyped(rawText string) any {
	trimmed := strings.TrimSpace(rawText)
	switch trimmed {
	case "", "null":
		return nil
	case "true":
		return true
	case "false":
		return false
	}
	if number, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return number
	}
	return rawText
}

func formatNumber(value any) string {
	switch n := value.(type) {
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(n), 'f', -1, 32)
	default:
		return fmt.Sprint(n)
	}
}

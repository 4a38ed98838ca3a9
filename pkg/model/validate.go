package model

import "strings"

// reservedWords is the fixed set of names a context field may not take.
// The implication files these fields land in are JavaScript sources, so the
// list matches the ECMAScript keyword set (plus the literal values that parse
// as expressions).
var reservedWords = map[string]struct{}{
	"break": {}, "case": {}, "catch": {}, "class": {}, "const": {},
	"continue": {}, "debugger": {}, "default": {}, "delete": {}, "do": {},
	"else": {}, "enum": {}, "export": {}, "extends": {}, "false": {},
	"finally": {}, "for": {}, "function": {}, "if": {}, "import": {},
	"in": {}, "instanceof": {}, "new": {}, "null": {}, "return": {},
	"super": {}, "switch": {}, "this": {}, "throw": {}, "true": {},
	"try": {}, "typeof": {}, "var": {}, "void": {}, "while": {},
	"with": {}, "yield": {}, "let": {}, "static": {}, "await": {},
}

// ValidateName checks a proposed field name against the add-flow rules, in
// order: non-empty after trimming, identifier syntax, not already present,
// not a reserved word. The first failing check wins. A nil return means the
// name is acceptable.
func ValidateName(name string, existing []string) *ValidationError {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return &ValidationError{Code: EmptyName, Name: name, Message: "name is empty"}
	}
	if !isIdentifier(trimmed) {
		return &ValidationError{Code: InvalidIdentifier, Name: name, Message: "not a valid identifier"}
	}
	for _, used := range existing {
		if used == trimmed {
			return &ValidationError{Code: DuplicateName, Name: name, Message: "name already in use"}
		}
	}
	if _, reserved := reservedWords[trimmed]; reserved {
		return &ValidationError{Code: ReservedWord, Name: name, Message: "name is a reserved word"}
	}
	return nil
}

func isIdentifier(name string) bool {
	for i, r := range name {
		if isIdentStart(r) {
			continue
		}
		if i > 0 && r >= '0' && r <= '9' {
			continue
		}
		return false
	}
	return name != ""
}

func isIdentStart(r rune) bool {
	return r == '$' || r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z')
}

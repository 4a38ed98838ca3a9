package model_test

import (
	"testing"

	"github.com/stateworks/go-implied/pkg/model"
)

func TestValidateName(t *testing.T) {
	existing := []string{"status", "count"}

	cases := []struct {
		name     string
		input    string
		wantCode model.ValidationCode
	}{
		{"empty", "", model.EmptyName},
		{"whitespace only", "   ", model.EmptyName},
		{"leading digit", "123abc", model.InvalidIdentifier},
		{"embedded space", "session token", model.InvalidIdentifier},
		{"hyphenated", "session-token", model.InvalidIdentifier},
		{"duplicate", "status", model.DuplicateName},
		{"reserved class", "class", model.ReservedWord},
		{"reserved function", "function", model.ReservedWord},
		{"reserved return", "return", model.ReservedWord},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := model.ValidateName(tc.input, existing)
			if err == nil {
				t.Fatalf("ValidateName(%q) accepted, want %s", tc.input, tc.wantCode)
			}
			if err.Code != tc.wantCode {
				t.Fatalf("ValidateName(%q) code = %s, want %s", tc.input, err.Code, tc.wantCode)
			}
		})
	}

	for _, name := range []string{"sessionToken", "_id", "$meta", "a1", "token"} {
		if err := model.ValidateName(name, existing); err != nil {
			t.Fatalf("ValidateName(%q) rejected: %v", name, err)
		}
	}
}

// Ordering: an empty name wins over everything, and syntax wins over the
// duplicate check, so a malformed duplicate reports InvalidIdentifier.
func TestValidateNameShortCircuit(t *testing.T) {
	err := model.ValidateName("1bad", []string{"1bad"})
	if err == nil || err.Code != model.InvalidIdentifier {
		t.Fatalf("got %v, want InvalidIdentifier", err)
	}
}

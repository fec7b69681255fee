package fieldprofile

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/fieldprofile/fieldprofile-go/canonicaljson"
)

func mustCanonical(t *testing.T, v any) string {
	t.Helper()
	b, err := canonicaljson.Marshal(v)
	if err != nil {
		t.Fatalf("canonical: %v", err)
	}
	return string(b)
}

// assertProfileJSON compares the exported profile with a JSON literal,
// ignoring key order.
func assertProfileJSON(t *testing.T, m *Manipulator, want string) {
	t.Helper()
	got := mustCanonical(t, m.Profile())
	exp := mustCanonical(t, json.RawMessage(want))
	if got != exp {
		t.Fatalf("profile mismatch\n got: %s\nwant: %s", got, exp)
	}
}

func assertFields(t *testing.T, label string, got, want []string) {
	t.Helper()
	if len(got) == 0 && len(want) == 0 {
		return
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("%s: got %q, want %q", label, got, want)
	}
}

// sampleProfile mirrors a wide, schema-derived profile.
func sampleProfile() map[string]any {
	return map[string]any{
		"required": []any{"email", "name", "password"},
		"optional": []any{"phone", "company", "notes"},
		"defaults": map[string]any{"company": "independent", "notes": ""},
		"field_filters": map[string]any{
			"email": "lc",
			"name":  []any{"trim", "strip"},
			"phone": "digit",
		},
		"constraint_methods": map[string]any{
			"email":    "email",
			"password": "min=8",
			"phone":    "numeric",
		},
		"msgs": map[string]any{
			"constraints": map[string]any{"email": "not an email address"},
			"format":      "<span>%s</span>",
		},
		"dependencies":           map[string]any{"phone": []any{"country"}},
		"require_some":           map[string]any{"contact": []any{1, "email", "phone"}},
		"missing_optional_valid": true,
	}
}

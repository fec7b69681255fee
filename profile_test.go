package fieldprofile

import (
	"encoding/json"
	"testing"
)

func TestFromMap_FieldListShapes(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want []string
	}{
		{"typed", []string{"a", "b"}, []string{"a", "b"}},
		{"decoded", []any{"a", "b"}, []string{"a", "b"}},
		{"single name", "a", []string{"a"}},
		{"empty", []any{}, []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := FromMap(map[string]any{AttrRequired: tc.in})
			assertFields(t, "required", p.Required, tc.want)
			if p.Required == nil {
				t.Fatalf("present attribute decoded as absent")
			}
			if _, ok := p.Extra[AttrRequired]; ok {
				t.Fatalf("well-formed attribute kept in Extra")
			}
		})
	}
}

func TestFromMap_MalformedAttributesPassThrough(t *testing.T) {
	in := map[string]any{
		"required":           []any{"a", 3},
		"defaults":           "nope",
		"constraint_methods": map[string]string{"a": "email"},
		"custom":             map[string]any{"k": "v"},
	}
	p := FromMap(in)
	if p.Required != nil || p.Defaults != nil {
		t.Fatalf("malformed attributes should not decode: %#v", p)
	}
	if p.ConstraintMethods["a"] != "email" {
		t.Fatalf("map[string]string should decode: %#v", p.ConstraintMethods)
	}
	out := p.Map()
	if mustCanonical(t, out) != `{"constraint_methods":{"a":"email"},"custom":{"k":"v"},"defaults":"nope","required":["a",3]}` {
		t.Fatalf("unexpected export %s", mustCanonical(t, out))
	}
}

func TestProfile_CloneKeepsPresence(t *testing.T) {
	p := FromMap(map[string]any{"required": []any{}, "defaults": map[string]any{}})
	c := p.Clone()
	if c.Required == nil || c.Defaults == nil {
		t.Fatalf("clone turned empty attributes into absent ones: %#v", c)
	}
	if c.Optional != nil || c.FieldFilters != nil {
		t.Fatalf("clone invented attributes: %#v", c)
	}
	c.Defaults["x"] = 1
	if len(p.Defaults) != 0 {
		t.Fatalf("clone shares maps")
	}
}

func TestProfile_Fields(t *testing.T) {
	p := FromMap(map[string]any{
		"required":           []any{"b", "a"},
		"optional":           []any{"c", "a"},
		"defaults":           map[string]any{"z": 1},
		"constraint_methods": map[string]any{"y": "x", "b": "x"},
		"dependencies":       map[string]any{"dep_only": []any{"q"}},
	})
	assertFields(t, "fields", p.Fields(), []string{"b", "a", "c", "y", "z"})
}

func TestProfile_JSONRoundTrip(t *testing.T) {
	in := `{"required":["email"],"optional":[],"defaults":{"n":10},"msgs":{"constraints":{"email":"bad"}},"x-owner":"billing"}`
	var p Profile
	if err := json.Unmarshal([]byte(in), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.Optional == nil || len(p.Optional) != 0 {
		t.Fatalf("optional should be present and empty: %#v", p.Optional)
	}
	if p.Extra["x-owner"] != "billing" {
		t.Fatalf("unknown attribute lost: %#v", p.Extra)
	}
	if p.Defaults["n"] != json.Number("10") {
		t.Fatalf("numbers should decode as json.Number: %#v", p.Defaults["n"])
	}

	out, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if mustCanonical(t, json.RawMessage(out)) != mustCanonical(t, json.RawMessage(in)) {
		t.Fatalf("round trip changed profile\n in: %s\nout: %s", in, out)
	}
}

func TestProfile_UnmarshalRejectsTrailingData(t *testing.T) {
	var p Profile
	if err := p.UnmarshalJSON([]byte(`{"required":["a"]} {}`)); err == nil {
		t.Fatalf("expected error")
	}
}

func TestProfile_Canonical(t *testing.T) {
	a := New(nil).MakeRequired("a", "b").Snapshot()
	b := FromMap(map[string]any{"required": []any{"a", "b"}})
	ca, err := a.Canonical()
	if err != nil {
		t.Fatalf("canonical: %v", err)
	}
	cb, err := b.Canonical()
	if err != nil {
		t.Fatalf("canonical: %v", err)
	}
	if string(ca) != string(cb) || string(ca) != `{"required":["a","b"]}` {
		t.Fatalf("got %s and %s", ca, cb)
	}
}

func TestTruthyBasic(t *testing.T) {
	for _, v := range []any{true, 1, "yes", 2.5, json.Number("1"), []any{}} {
		if !truthy(v) {
			t.Errorf("expected %#v to be truthy", v)
		}
	}
	for _, v := range []any{nil, false, 0, "", "0", 0.0, json.Number("0")} {
		if truthy(v) {
			t.Errorf("expected %#v to be falsy", v)
		}
	}
}

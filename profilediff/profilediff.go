// Package profilediff compares a derived validation profile with the base it
// was cut from.
//
// The comparison is directional. A derived profile is a projection of its base
// when it only drops fields: every field it keeps has the same requiredness and
// the same per-field attributes, and the remaining top-level attributes are
// unchanged. Values are compared by their RFC 8785 canonical encoding.
package profilediff

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/fieldprofile/fieldprofile-go"
	"github.com/fieldprofile/fieldprofile-go/canonicaljson"
)

// keyedAttributes hold one entry per field name.
var keyedAttributes = []string{
	fieldprofile.AttrConstraintMethods,
	fieldprofile.AttrDefaults,
	fieldprofile.AttrDependencies,
	fieldprofile.AttrFieldFilters,
}

// Report describes how derived differs from base. All lists are sorted.
type Report struct {
	// Added lists fields declared only by the derived profile.
	Added []string
	// Dropped lists fields declared only by the base profile.
	Dropped []string
	// Promoted lists fields optional in base and required in derived.
	Promoted []string
	// Demoted lists fields required in base and optional in derived.
	Demoted []string
	// Changed maps a field kept by both profiles to the keyed attributes
	// whose entry for it differs.
	Changed map[string][]string
	// Attributes lists other top-level attributes whose value differs.
	Attributes []string
}

// Compare reports how derived differs from base. Neither profile is modified.
func Compare(base, derived fieldprofile.Profile) *Report {
	r := &Report{Changed: map[string][]string{}}

	baseReq, baseOpt := newSet(base.Required), newSet(base.Optional)
	derReq, derOpt := newSet(derived.Required), newSet(derived.Optional)
	inBase := func(f string) bool { return baseReq[f] || baseOpt[f] }
	inDerived := func(f string) bool { return derReq[f] || derOpt[f] }

	var kept []string
	for _, f := range base.Fields() {
		if !inBase(f) {
			continue
		}
		if !inDerived(f) {
			r.Dropped = append(r.Dropped, f)
			continue
		}
		kept = append(kept, f)
		switch {
		case !baseReq[f] && derReq[f]:
			r.Promoted = append(r.Promoted, f)
		case baseReq[f] && !derReq[f]:
			r.Demoted = append(r.Demoted, f)
		}
	}
	for _, f := range derived.Fields() {
		if inDerived(f) && !inBase(f) {
			r.Added = append(r.Added, f)
		}
	}

	bm, dm := base.Map(), derived.Map()
	for _, attr := range keyedAttributes {
		bv, dv := bm[attr], dm[attr]
		ba, bok := bv.(map[string]any)
		da, dok := dv.(map[string]any)
		if (bv != nil && !bok) || (dv != nil && !dok) {
			// Not a per-field mapping on one side; compare it whole.
			if !sameEntry(bm, dm, attr) {
				r.Attributes = append(r.Attributes, attr)
			}
			continue
		}
		for _, f := range kept {
			if !sameEntry(ba, da, f) {
				r.Changed[f] = append(r.Changed[f], attr)
			}
		}
	}

	skip := map[string]bool{fieldprofile.AttrRequired: true, fieldprofile.AttrOptional: true}
	for _, attr := range keyedAttributes {
		skip[attr] = true
	}
	for _, attr := range unionKeys(bm, dm) {
		if !skip[attr] && !sameEntry(bm, dm, attr) {
			r.Attributes = append(r.Attributes, attr)
		}
	}

	sort.Strings(r.Added)
	sort.Strings(r.Dropped)
	sort.Strings(r.Promoted)
	sort.Strings(r.Demoted)
	sort.Strings(r.Attributes)
	return r
}

// IsProjection reports whether derived could have been produced from base by
// dropping fields alone.
func (r *Report) IsProjection() bool {
	return r != nil &&
		len(r.Added) == 0 &&
		len(r.Promoted) == 0 &&
		len(r.Demoted) == 0 &&
		len(r.Changed) == 0 &&
		len(r.Attributes) == 0
}

// IsIdentical reports whether the two profiles describe the same rules.
func (r *Report) IsIdentical() bool {
	return r.IsProjection() && len(r.Dropped) == 0
}

// String renders the report one section per line, omitting empty sections.
func (r *Report) String() string {
	if r == nil {
		return "<nil>"
	}
	if r.IsIdentical() {
		return "identical"
	}
	var b strings.Builder
	section := func(name string, items []string) {
		if len(items) == 0 {
			return
		}
		fmt.Fprintf(&b, "%s: %s\n", name, strings.Join(items, ", "))
	}
	section("added", r.Added)
	section("dropped", r.Dropped)
	section("promoted", r.Promoted)
	section("demoted", r.Demoted)
	if len(r.Changed) > 0 {
		fields := make([]string, 0, len(r.Changed))
		for f := range r.Changed {
			fields = append(fields, fmt.Sprintf("%s (%s)", f, strings.Join(r.Changed[f], ", ")))
		}
		sort.Strings(fields)
		section("changed", fields)
	}
	section("attributes", r.Attributes)
	return strings.TrimSuffix(b.String(), "\n")
}

func newSet(fields []string) map[string]bool {
	set := make(map[string]bool, len(fields))
	for _, f := range fields {
		set[f] = true
	}
	return set
}

func sameEntry(a, b map[string]any, key string) bool {
	av, aok := a[key]
	bv, bok := b[key]
	if aok != bok {
		return false
	}
	if !aok {
		return true
	}
	eq, err := canonicaljson.Equal(av, bv)
	if err != nil {
		// Not encodable as JSON; fall back to structural equality.
		return reflect.DeepEqual(av, bv)
	}
	return eq
}

func unionKeys(a, b map[string]any) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, m := range []map[string]any{a, b} {
		for k := range m {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

package fieldprofile

import (
	"sort"

	"github.com/mohae/deepcopy"

	"github.com/fieldprofile/fieldprofile-go/canonicaljson"
)

// Attribute names understood by the external validation engine. They are part
// of the exported profile shape and must not be renamed.
const (
	AttrRequired          = "required"
	AttrOptional          = "optional"
	AttrDefaults          = "defaults"
	AttrFieldFilters      = "field_filters"
	AttrConstraintMethods = "constraint_methods"
	AttrMsgs              = "msgs"

	// AttrDependencies is not modeled by Profile; Add writes it into Extra.
	AttrDependencies = "dependencies"

	// MsgsConstraints is the key of the constraint-name -> message mapping
	// nested under msgs.
	MsgsConstraints = "constraints"
)

// Profile is the typed view of a validation profile.
//
// A nil slice or map means the attribute is absent; a non-nil empty one means
// it is present with no entries. Every top-level attribute other than the six
// modeled ones is kept in Extra and passed through untouched. A modeled
// attribute whose value has an unexpected shape is also kept in Extra until a
// mutation replaces it; on export the typed value wins.
type Profile struct {
	Required          []string
	Optional          []string
	Defaults          map[string]any
	FieldFilters      map[string]any
	ConstraintMethods map[string]any
	Msgs              map[string]any

	Extra map[string]any
}

// FromMap builds a Profile from a profile-shaped mapping. The input is deep
// copied, so later changes to m do not affect the result. No shape validation
// is performed; see Profile.Validate.
func FromMap(m map[string]any) Profile {
	if len(m) == 0 {
		return Profile{}
	}
	owned, _ := deepcopy.Copy(m).(map[string]any)
	return fromOwnedMap(owned)
}

func fromOwnedMap(m map[string]any) Profile {
	var p Profile
	for k, v := range m {
		p.assign(k, v)
	}
	return p
}

// Map returns the profile in the shape the external validation engine
// expects. The result shares storage with p; callers that need to mutate it
// should Clone first.
func (p Profile) Map() map[string]any {
	out := make(map[string]any, len(p.Extra)+6)
	for k, v := range p.Extra {
		out[k] = v
	}
	if p.Required != nil {
		out[AttrRequired] = p.Required
	}
	if p.Optional != nil {
		out[AttrOptional] = p.Optional
	}
	if p.Defaults != nil {
		out[AttrDefaults] = p.Defaults
	}
	if p.FieldFilters != nil {
		out[AttrFieldFilters] = p.FieldFilters
	}
	if p.ConstraintMethods != nil {
		out[AttrConstraintMethods] = p.ConstraintMethods
	}
	if p.Msgs != nil {
		out[AttrMsgs] = p.Msgs
	}
	return out
}

// Clone returns a deep copy of p. Absent and empty attributes are preserved
// as such.
func (p Profile) Clone() Profile {
	c, _ := deepcopy.Copy(p).(Profile)
	return c
}

// Fields returns every field name the profile knows about: required and
// optional fields in stored order, followed by fields that only appear as keys
// of defaults, field_filters or constraint_methods, sorted.
func (p Profile) Fields() []string {
	seen := map[string]struct{}{}
	var out []string
	add := func(f string) {
		if _, ok := seen[f]; ok {
			return
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	for _, f := range p.Required {
		add(f)
	}
	for _, f := range p.Optional {
		add(f)
	}
	var rest []string
	for _, m := range []map[string]any{p.Defaults, p.FieldFilters, p.ConstraintMethods} {
		for k := range m {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				rest = append(rest, k)
			}
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

// ConstraintMsgs returns msgs.constraints, or nil when it is absent or not a
// mapping.
func (p Profile) ConstraintMsgs() map[string]any {
	m, _ := toMapping(p.Msgs[MsgsConstraints])
	return m
}

// Canonical returns the RFC 8785 encoding of Map. Two profiles with the same
// canonical bytes are interchangeable for the validation engine.
func (p Profile) Canonical() ([]byte, error) {
	return canonicaljson.Marshal(p.Map())
}

// assign overwrites the top-level attribute key with v.
func (p *Profile) assign(key string, v any) {
	if _, ok := modeledSet[key]; !ok {
		p.setExtra(key, v)
		return
	}
	p.clearAttr(key)
	if p.decodeAttr(key, v) {
		delete(p.Extra, key)
		return
	}
	p.setExtra(key, v)
}

func (p *Profile) decodeAttr(key string, v any) bool {
	if key == AttrRequired || key == AttrOptional {
		list, ok := decodeFieldList(v)
		if !ok {
			return false
		}
		if key == AttrRequired {
			p.Required = list
		} else {
			p.Optional = list
		}
		return true
	}

	var m map[string]any
	if v != nil {
		var ok bool
		if m, ok = toMapping(v); !ok {
			return false
		}
	}
	switch key {
	case AttrDefaults:
		p.Defaults = m
	case AttrFieldFilters:
		p.FieldFilters = m
	case AttrConstraintMethods:
		p.ConstraintMethods = m
	case AttrMsgs:
		p.Msgs = m
	default:
		return false
	}
	return true
}

func (p *Profile) clearAttr(key string) {
	switch key {
	case AttrRequired:
		p.Required = nil
	case AttrOptional:
		p.Optional = nil
	case AttrDefaults:
		p.Defaults = nil
	case AttrFieldFilters:
		p.FieldFilters = nil
	case AttrConstraintMethods:
		p.ConstraintMethods = nil
	case AttrMsgs:
		p.Msgs = nil
	}
}

func (p *Profile) setExtra(key string, v any) {
	if p.Extra == nil {
		p.Extra = map[string]any{}
	}
	p.Extra[key] = v
}

// touch records that a modeled attribute was written by a mutation, dropping
// any malformed value it shadowed.
func (p *Profile) touch(key string) {
	delete(p.Extra, key)
}

// extraMapping returns the pass-through attribute key as a mapping so a
// mutation can write into it. An absent attribute yields nil.
func (p *Profile) extraMapping(key string) (map[string]any, error) {
	v, ok := p.Extra[key]
	if !ok || v == nil {
		return nil, nil
	}
	m, ok := toMapping(v)
	if !ok {
		return nil, &AttributeError{Attribute: key, Message: "must be a mapping of field name to value"}
	}
	return m, nil
}

package fieldprofile

import (
	"fmt"
	"sort"
	"strings"
)

type validateOptions struct {
	rejectUnknownAttributes bool
	requireDeclaredFields   bool
}

// ValidateOption configures Profile.Validate.
type ValidateOption func(*validateOptions)

// WithRejectUnknownAttributes treats top-level attributes the validation
// engine does not understand as problems. By default they are passed through.
func WithRejectUnknownAttributes() ValidateOption {
	return func(o *validateOptions) { o.rejectUnknownAttributes = true }
}

// WithRequireDeclaredFields requires every key of defaults, field_filters,
// constraint_methods and dependencies to be declared in required or optional.
// By default such entries are allowed and simply ignored by the engine.
func WithRequireDeclaredFields() ValidateOption {
	return func(o *validateOptions) { o.requireDeclaredFields = true }
}

// Validate performs shape-level checks on the profile. It does not validate
// any data. Problems are reported in a deterministic order.
func (p Profile) Validate(opts ...ValidateOption) error {
	var o validateOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	var errs []string

	// Modeled attributes that could not be decoded sit in Extra.
	for _, key := range []string{AttrRequired, AttrOptional, AttrDefaults, AttrFieldFilters, AttrConstraintMethods, AttrMsgs} {
		if _, ok := p.Extra[key]; !ok {
			continue
		}
		if key == AttrRequired || key == AttrOptional {
			errs = append(errs, fmt.Sprintf("%s: must be a field name or a list of field names", key))
		} else {
			errs = append(errs, fmt.Sprintf("%s: must be a mapping", key))
		}
	}

	validateFieldList(&errs, AttrRequired, p.Required)
	validateFieldList(&errs, AttrOptional, p.Optional)

	required := fieldSet(p.Required)
	var both []string
	for _, f := range uniqueFields(p.Optional) {
		if _, ok := required[f]; ok {
			both = append(both, f)
		}
	}
	if len(both) > 0 {
		errs = append(errs, fmt.Sprintf("fields both required and optional: %s", strings.Join(both, ", ")))
	}

	if v, ok := p.Msgs[MsgsConstraints]; ok && v != nil {
		if cm, ok := toMapping(v); !ok {
			errs = append(errs, "msgs.constraints: must be a mapping of constraint name to message")
		} else {
			for _, name := range sortedKeys(cm) {
				if _, ok := cm[name].(string); !ok {
					errs = append(errs, fmt.Sprintf("msgs.constraints[%q]: message must be a string", name))
				}
			}
		}
	}

	if o.requireDeclaredFields {
		declared := fieldSet(append(copyStrings(p.Required), p.Optional...))
		deps, _ := toMapping(p.Extra[AttrDependencies])
		for _, attr := range []struct {
			name string
			m    map[string]any
		}{
			{AttrDefaults, p.Defaults},
			{AttrFieldFilters, p.FieldFilters},
			{AttrConstraintMethods, p.ConstraintMethods},
			{AttrDependencies, deps},
		} {
			for _, k := range sortedKeys(attr.m) {
				if _, ok := declared[k]; !ok {
					errs = append(errs, fmt.Sprintf("%s[%q]: field is not declared in required or optional", attr.name, k))
				}
			}
		}
	}

	if o.rejectUnknownAttributes {
		var unknown []string
		for k := range p.Extra {
			if _, ok := engineVocabularySet[k]; !ok {
				unknown = append(unknown, k)
			}
		}
		if len(unknown) > 0 {
			sort.Strings(unknown)
			errs = append(errs, fmt.Sprintf("unknown attributes: %s", strings.Join(unknown, ", ")))
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Problems: errs}
}

func validateFieldList(errs *[]string, attr string, list []string) {
	seen := map[string]struct{}{}
	for i, f := range list {
		if strings.TrimSpace(f) == "" {
			*errs = append(*errs, fmt.Sprintf("%s[%d]: field name must be non-empty", attr, i))
			continue
		}
		if _, dup := seen[f]; dup {
			*errs = append(*errs, fmt.Sprintf("%s[%d]: duplicate field %q", attr, i, f))
			continue
		}
		seen[f] = struct{}{}
	}
}

func uniqueFields(list []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(list))
	for _, f := range list {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

// ValidationError is a deterministic, multi-problem profile shape error.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Problems) == 0 {
		return "invalid profile"
	}
	return "invalid profile: " + strings.Join(e.Problems, "; ")
}

// Package playground provides a fieldprofile.Engine backed by
// github.com/go-playground/validator/v10.
//
// constraint_methods values are validator tag expressions ("email",
// "min=8,max=64") or lists of them. field_filters values name filters
// registered on the Engine, applied in order to string values before
// defaults and constraints.
package playground

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/fieldprofile/fieldprofile-go"
)

// FilterFunc transforms a string field value before constraint checking.
type FilterFunc func(string) string

// Engine checks records against profiles. Register filters before first use;
// after that an Engine is safe for concurrent use.
type Engine struct {
	validate *validator.Validate
	filters  map[string]FilterFunc
}

var _ fieldprofile.Engine = (*Engine)(nil)

// New constructs an Engine. If v is nil, a new validator instance is created.
func New(v *validator.Validate) *Engine {
	if v == nil {
		v = validator.New()
	}
	return &Engine{
		validate: v,
		filters: map[string]FilterFunc{
			"trim":  strings.TrimSpace,
			"lc":    strings.ToLower,
			"uc":    strings.ToUpper,
			"strip": func(s string) string { return strings.Join(strings.Fields(s), " ") },
			"digit": func(s string) string {
				return strings.Map(func(r rune) rune {
					if unicode.IsDigit(r) {
						return r
					}
					return -1
				}, s)
			},
		},
	}
}

// Validator exposes the underlying validator instance, e.g. to register
// custom tags.
func (e *Engine) Validator() *validator.Validate {
	if e == nil {
		return nil
	}
	return e.validate
}

// RegisterFilter makes fn available to field_filters under name, replacing any
// filter of the same name.
func (e *Engine) RegisterFilter(name string, fn FilterFunc) {
	e.filters[name] = fn
}

// Check implements fieldprofile.Engine. data must be a map[string]any; the
// result is a *Results.
func (e *Engine) Check(data any, profile map[string]any) (any, error) {
	record, ok := data.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("playground: data must be map[string]any, got %T", data)
	}
	return e.Validate(record, fieldprofile.FromMap(profile))
}

// Validate checks record against p. record is not modified.
func (e *Engine) Validate(record map[string]any, p fieldprofile.Profile) (*Results, error) {
	declared := declaredFields(p)
	required := make(map[string]struct{}, len(p.Required))
	for _, f := range p.Required {
		required[f] = struct{}{}
	}

	res := &Results{
		Valid:    map[string]any{},
		Invalid:  map[string][]string{},
		Messages: map[string]string{},
	}
	known := make(map[string]struct{}, len(declared))
	for _, f := range declared {
		known[f] = struct{}{}
	}
	for k := range record {
		if _, ok := known[k]; !ok {
			res.Unknown = append(res.Unknown, k)
		}
	}
	sort.Strings(res.Unknown)

	values := make(map[string]any, len(declared))
	for _, f := range declared {
		v, present := record[f]
		if present {
			filtered, err := e.applyFilters(f, v, p.FieldFilters[f])
			if err != nil {
				return nil, err
			}
			v = filtered
		}
		if isEmpty(v) {
			if def, ok := p.Defaults[f]; ok {
				v = def
			}
		}
		if !isEmpty(v) {
			values[f] = v
		}
	}

	// Presence is decided here; validator's required and omitempty tags
	// treat 0 and false as absent.
	rules := make(map[string]any, len(values))
	for _, f := range declared {
		constraint, err := constraintTags(f, p.ConstraintMethods[f])
		if err != nil {
			return nil, err
		}
		if _, present := values[f]; present && constraint != "" {
			rules[f] = constraint
		}
	}

	failures, err := e.validateMap(values, rules)
	if err != nil {
		return nil, err
	}

	msgs := p.ConstraintMsgs()
	for _, f := range declared {
		v, present := values[f]
		if !present {
			if _, ok := required[f]; ok {
				res.Missing = append(res.Missing, f)
				res.Messages[f] = messageFor(msgs, "required", "missing")
			}
			continue
		}
		fe, failed := failures[f]
		if !failed {
			res.Valid[f] = v
			continue
		}
		tags, err := failedTags(f, fe)
		if err != nil {
			return nil, err
		}
		res.Invalid[f] = tags
		res.Messages[f] = messageFor(msgs, tags[0], "invalid")
	}
	return res, nil
}

// validateMap runs the validator, turning its panics on undefined tags into
// errors.
func (e *Engine) validateMap(values, rules map[string]any) (failures map[string]any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("playground: %v", r)
		}
	}()
	return e.validate.ValidateMap(values, rules), nil
}

func (e *Engine) applyFilters(field string, v, spec any) (any, error) {
	if spec == nil {
		return v, nil
	}
	names, ok := stringList(spec)
	if !ok {
		return nil, fmt.Errorf("playground: field_filters[%q]: must be a filter name or list of names", field)
	}
	s, isString := v.(string)
	if !isString {
		return v, nil
	}
	for _, name := range names {
		fn, ok := e.filters[name]
		if !ok {
			return nil, fmt.Errorf("playground: field_filters[%q]: unknown filter %q", field, name)
		}
		s = fn(s)
	}
	return s, nil
}

func constraintTags(field string, spec any) (string, error) {
	if spec == nil {
		return "", nil
	}
	tags, ok := stringList(spec)
	if !ok {
		return "", fmt.Errorf("playground: constraint_methods[%q]: must be a tag expression or list of them", field)
	}
	return strings.Join(tags, ","), nil
}

func failedTags(field string, v any) ([]string, error) {
	verrs, ok := v.(validator.ValidationErrors)
	if !ok {
		if err, isErr := v.(error); isErr {
			return nil, fmt.Errorf("playground: field %q: %w", field, err)
		}
		return nil, fmt.Errorf("playground: field %q: unexpected validator result %T", field, v)
	}
	tags := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		tags = append(tags, fe.Tag())
	}
	return tags, nil
}

func declaredFields(p fieldprofile.Profile) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, list := range [][]string{p.Required, p.Optional} {
		for _, f := range list {
			if _, ok := seen[f]; ok {
				continue
			}
			seen[f] = struct{}{}
			out = append(out, f)
		}
	}
	return out
}

func stringList(v any) ([]string, bool) {
	switch x := v.(type) {
	case string:
		return []string{x}, true
	case []string:
		return x, true
	case []any:
		out := make([]string, 0, len(x))
		for _, it := range x {
			s, ok := it.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

func messageFor(msgs map[string]any, tag, fallback string) string {
	if m, ok := msgs[tag].(string); ok {
		return m
	}
	return fallback
}

package fieldprofile

// fieldSpec is the resolved option set of a single Add call.
type fieldSpec struct {
	required bool

	def        any
	hasDefault bool

	dependencies    any
	hasDependencies bool

	filters    any
	hasFilters bool

	constraints    any
	hasConstraints bool

	// constraint name -> message, merged into msgs.constraints
	msgs map[string]any
}

func (s *fieldSpec) setMsg(name string, msg any) {
	if s.msgs == nil {
		s.msgs = map[string]any{}
	}
	s.msgs[name] = msg
}

// FieldOption configures a field inserted by Manipulator.Add.
type FieldOption func(*fieldSpec)

// AsRequired adds the field to required instead of optional.
func AsRequired() FieldOption {
	return func(s *fieldSpec) { s.required = true }
}

// WithDefault sets defaults[field]. A nil value is still recorded.
func WithDefault(v any) FieldOption {
	v = copyValue(v)
	return func(s *fieldSpec) {
		s.def = v
		s.hasDefault = true
	}
}

// WithDependencies sets dependencies[field].
func WithDependencies(v any) FieldOption {
	v = copyValue(v)
	return func(s *fieldSpec) {
		s.dependencies = v
		s.hasDependencies = true
	}
}

// WithFilters sets field_filters[field].
func WithFilters(v any) FieldOption {
	v = copyValue(v)
	return func(s *fieldSpec) {
		s.filters = v
		s.hasFilters = true
	}
}

// WithConstraints sets constraint_methods[field].
func WithConstraints(v any) FieldOption {
	v = copyValue(v)
	return func(s *fieldSpec) {
		s.constraints = v
		s.hasConstraints = true
	}
}

// WithMsgs merges message definitions into msgs.constraints. Only values shaped
// as {"constraints": {name: message, ...}} contribute; anything else is
// ignored.
func WithMsgs(v any) FieldOption {
	outer, ok := toMapping(v)
	if !ok {
		return func(*fieldSpec) {}
	}
	inner, ok := toMapping(outer[MsgsConstraints])
	if !ok {
		return func(*fieldSpec) {}
	}
	inner, _ = copyValue(inner).(map[string]any)
	return func(s *fieldSpec) {
		for name, msg := range inner {
			s.setMsg(name, msg)
		}
	}
}

// WithConstraintMsg merges a single msgs.constraints entry.
func WithConstraintMsg(constraint, msg string) FieldOption {
	return func(s *fieldSpec) { s.setMsg(constraint, msg) }
}

// OptionsFromMap translates a flat option set, as found in configuration
// files, into field options. Recognized keys are required, default,
// dependencies, filters, constraints and msgs; others are ignored. The
// presence of a key, not its value, decides whether default and friends are
// set.
func OptionsFromMap(opts map[string]any) []FieldOption {
	var out []FieldOption
	if truthy(opts["required"]) {
		out = append(out, AsRequired())
	}
	if v, ok := opts["default"]; ok {
		out = append(out, WithDefault(v))
	}
	if v, ok := opts["dependencies"]; ok {
		out = append(out, WithDependencies(v))
	}
	if v, ok := opts["filters"]; ok {
		out = append(out, WithFilters(v))
	}
	if v, ok := opts["constraints"]; ok {
		out = append(out, WithConstraints(v))
	}
	if v, ok := opts["msgs"]; ok {
		out = append(out, WithMsgs(v))
	}
	return out
}

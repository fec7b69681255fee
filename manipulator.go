package fieldprofile

// Manipulator owns a single Profile and narrows or extends it in place.
// Mutating methods return the receiver so calls can be chained; they apply
// immediately and in call order.
//
// A Manipulator is not safe for concurrent use. Create a separate instance per
// request, or protect access with external synchronization.
type Manipulator struct {
	// Engine is optional. If nil, Check returns ErrNoEngine.
	Engine Engine

	p Profile
}

// New returns a Manipulator over an independent copy of initial. The input is
// not validated; malformed attributes are carried along untouched.
func New(initial map[string]any) *Manipulator {
	return &Manipulator{p: FromMap(initial)}
}

// NewFromProfile returns a Manipulator over a deep copy of p.
func NewFromProfile(p Profile) *Manipulator {
	return &Manipulator{p: p.Clone()}
}

// Clone returns an independent Manipulator with the same profile and Engine.
func (m *Manipulator) Clone() *Manipulator {
	return &Manipulator{Engine: m.Engine, p: m.p.Clone()}
}

// Required returns the required fields in stored order.
func (m *Manipulator) Required() []string {
	return copyStrings(m.p.Required)
}

// Optional returns the optional fields in stored order.
func (m *Manipulator) Optional() []string {
	return copyStrings(m.p.Optional)
}

// Fields returns every field name known to the profile. See Profile.Fields.
func (m *Manipulator) Fields() []string {
	return m.p.Fields()
}

// Profile returns the profile in the shape the validation engine expects.
// The result is a view: do not mutate it. Use Snapshot for an isolated copy.
func (m *Manipulator) Profile() map[string]any {
	return m.p.Map()
}

// Snapshot returns a deep copy of the typed profile.
func (m *Manipulator) Snapshot() Profile {
	return m.p.Clone()
}

// Only drops every field not named in fields from required, optional,
// defaults, field_filters and constraint_methods. Relative order is kept.
//
// msgs, dependencies and other pass-through attributes are never pruned.
func (m *Manipulator) Only(fields ...string) *Manipulator {
	keep := fieldSet(fields)
	m.update(func(f string) bool {
		_, ok := keep[f]
		return ok
	})
	return m
}

// Remove drops the named fields from the same attributes Only filters.
// Unknown names are ignored.
func (m *Manipulator) Remove(fields ...string) *Manipulator {
	drop := fieldSet(fields)
	m.update(func(f string) bool {
		_, ok := drop[f]
		return !ok
	})
	return m
}

func (m *Manipulator) update(keep func(string) bool) {
	m.p.Required = filterFields(m.p.Required, keep)
	m.p.Optional = filterFields(m.p.Optional, keep)
	filterKeys(m.p.Defaults, keep)
	filterKeys(m.p.FieldFilters, keep)
	filterKeys(m.p.ConstraintMethods, keep)
}

// MakeOptional moves the named fields to optional, adding fields the profile
// did not know about.
func (m *Manipulator) MakeOptional(fields ...string) *Manipulator {
	for _, f := range fields {
		m.p.Required = withoutField(m.p.Required, f)
		if !containsField(m.p.Optional, f) {
			m.p.Optional = append(m.p.Optional, f)
			m.p.touch(AttrOptional)
		}
	}
	return m
}

// MakeRequired moves the named fields to required, adding fields the profile
// did not know about.
func (m *Manipulator) MakeRequired(fields ...string) *Manipulator {
	for _, f := range fields {
		m.p.Optional = withoutField(m.p.Optional, f)
		if !containsField(m.p.Required, f) {
			m.p.Required = append(m.p.Required, f)
			m.p.touch(AttrRequired)
		}
	}
	return m
}

// Set overwrites top-level attributes wholesale; nothing is deep merged.
// It is the escape hatch for attributes the Manipulator does not model, such
// as dependencies or regexp maps.
func (m *Manipulator) Set(attrs map[string]any) *Manipulator {
	for k, v := range attrs {
		m.p.assign(k, copyValue(v))
	}
	return m
}

// Add inserts a new field. Without options the field becomes optional with no
// other attributes.
//
// Add never updates an existing field: if field is already in required or
// optional it returns a *DuplicateFieldError. If an attribute it must merge
// into has an unusable shape it returns an *AttributeError. On error the
// profile is left unchanged.
func (m *Manipulator) Add(field string, opts ...FieldOption) (*Manipulator, error) {
	var spec fieldSpec
	for _, opt := range opts {
		if opt != nil {
			opt(&spec)
		}
	}

	if containsField(m.p.Required, field) {
		return m, &DuplicateFieldError{Field: field, Attribute: AttrRequired}
	}
	if containsField(m.p.Optional, field) {
		return m, &DuplicateFieldError{Field: field, Attribute: AttrOptional}
	}

	// Resolve every merge target before writing anything.
	var deps map[string]any
	if spec.hasDependencies {
		var err error
		if deps, err = m.p.extraMapping(AttrDependencies); err != nil {
			return m, err
		}
	}
	var msgs, constraintMsgs map[string]any
	if len(spec.msgs) > 0 {
		if _, malformed := m.p.Extra[AttrMsgs]; malformed && m.p.Msgs == nil {
			return m, &AttributeError{Attribute: AttrMsgs, Message: "must be a mapping"}
		}
		msgs = m.p.Msgs
		if v, ok := msgs[MsgsConstraints]; ok && v != nil {
			var isMap bool
			if constraintMsgs, isMap = toMapping(v); !isMap {
				return m, &AttributeError{Attribute: AttrMsgs + "." + MsgsConstraints, Message: "must be a mapping of constraint name to message"}
			}
		}
	}

	if spec.required {
		m.p.Required = append(m.p.Required, field)
		m.p.touch(AttrRequired)
	} else {
		m.p.Optional = append(m.p.Optional, field)
		m.p.touch(AttrOptional)
	}
	if spec.hasDefault {
		m.p.Defaults = setReplace(m.p.Defaults, field, spec.def)
		m.p.touch(AttrDefaults)
	}
	if spec.hasDependencies {
		m.p.setExtra(AttrDependencies, setReplace(deps, field, spec.dependencies))
	}
	if spec.hasFilters {
		m.p.FieldFilters = setReplace(m.p.FieldFilters, field, spec.filters)
		m.p.touch(AttrFieldFilters)
	}
	if spec.hasConstraints {
		m.p.ConstraintMethods = setReplace(m.p.ConstraintMethods, field, spec.constraints)
		m.p.touch(AttrConstraintMethods)
	}
	if len(spec.msgs) > 0 {
		msgs = setReplace(msgs, MsgsConstraints, mergeOneLevel(constraintMsgs, spec.msgs))
		m.p.Msgs = msgs
		m.p.touch(AttrMsgs)
	}
	return m, nil
}

// Check hands data and the exported profile to the configured Engine and
// returns its result and error unchanged.
func (m *Manipulator) Check(data any) (any, error) {
	if m.Engine == nil {
		return nil, ErrNoEngine
	}
	return m.Engine.Check(data, m.Profile())
}

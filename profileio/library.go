// Package profileio loads named validation profiles from YAML or JSON
// library documents.
//
// A library holds shared base profiles, typically mirroring a database schema,
// and views derived from them for individual operations:
//
//	version: 0.2.0
//	profiles:
//	  account:
//	    required: [email, name, password]
//	    optional: [phone]
//	    constraint_methods: {email: email, password: min=8}
//	views:
//	  login:
//	    base: account
//	    only: [email, password]
//
// Views are applied at load time with fieldprofile.Manipulator, in the order
// only, remove, make_required, make_optional, set, add.
//
// A loaded Library is read-only and safe for concurrent use.
package profileio

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/fieldprofile/fieldprofile-go"
)

//go:embed library.schema.json
var librarySchemaJSON string

var librarySchema = jsonschema.MustCompileString("library.schema.json", librarySchemaJSON)

type loadOptions struct {
	skipSchemaCheck bool
	anyVersion      bool
}

// Option configures Parse and Load.
type Option func(*loadOptions)

// WithoutSchemaCheck skips checking the document against the embedded library
// schema. Profiles are then taken as-is, malformed attributes included.
func WithoutSchemaCheck() Option {
	return func(o *loadOptions) { o.skipSchemaCheck = true }
}

// WithAnyVersion accepts documents whose version is outside the supported
// range.
func WithAnyVersion() Option {
	return func(o *loadOptions) { o.anyVersion = true }
}

// Library is a set of named profiles loaded from one document.
type Library struct {
	// Version is the document version, or MaxTestedVersion when the document
	// does not declare one.
	Version     string
	Description string

	profiles map[string]fieldprofile.Profile
	views    map[string]struct{}
}

type document struct {
	Version     string                    `yaml:"version"`
	Description string                    `yaml:"description"`
	Profiles    map[string]map[string]any `yaml:"profiles"`
	Views       map[string]viewSpec       `yaml:"views"`
}

type viewSpec struct {
	Base         string                    `yaml:"base"`
	Only         []string                  `yaml:"only"`
	Remove       []string                  `yaml:"remove"`
	MakeRequired []string                  `yaml:"make_required"`
	MakeOptional []string                  `yaml:"make_optional"`
	Set          map[string]any            `yaml:"set"`
	Add          map[string]map[string]any `yaml:"add"`
}

// Load reads and parses the library document at path.
func Load(path string, opts ...Option) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile library: %w", err)
	}
	lib, err := Parse(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lib, nil
}

// Parse parses a library document. YAML and JSON are both accepted.
func Parse(data []byte, opts ...Option) (*Library, error) {
	var o loadOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	if !o.skipSchemaCheck {
		if err := checkShape(data); err != nil {
			return nil, err
		}
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding profile library: %w", err)
	}

	lib := &Library{
		Version:     doc.Version,
		Description: doc.Description,
		profiles:    make(map[string]fieldprofile.Profile, len(doc.Profiles)+len(doc.Views)),
		views:       make(map[string]struct{}, len(doc.Views)),
	}
	if lib.Version == "" {
		lib.Version = MaxTestedVersion
	}
	ok, err := IsSupportedVersion(lib.Version)
	if err != nil {
		return nil, err
	}
	if !ok && !o.anyVersion {
		return nil, fmt.Errorf("unsupported library version %q (supported %s-%s)", lib.Version, MinSupportedVersion, MaxTestedVersion)
	}

	for name, raw := range doc.Profiles {
		lib.profiles[name] = fieldprofile.FromMap(raw)
	}

	for name := range doc.Views {
		if _, clash := lib.profiles[name]; clash {
			return nil, &ViewError{View: name, Err: errors.New("name already used by a profile")}
		}
		lib.views[name] = struct{}{}
	}
	for _, name := range sortedNames(doc.Views) {
		p, err := lib.applyView(doc.Views[name])
		if err != nil {
			return nil, &ViewError{View: name, Err: err}
		}
		lib.profiles[name] = p
	}
	return lib, nil
}

// checkShape validates the document against the embedded library schema.
// The validator works on JSON values, so the YAML tree is converted first.
func checkShape(data []byte) error {
	var tree any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("decoding profile library: %w", err)
	}
	b, err := json.Marshal(tree)
	if err != nil {
		return fmt.Errorf("profile library is not JSON-compatible: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	if err := librarySchema.Validate(v); err != nil {
		return &ShapeError{Err: err}
	}
	return nil
}

func (l *Library) applyView(spec viewSpec) (fieldprofile.Profile, error) {
	if _, isView := l.views[spec.Base]; isView {
		return fieldprofile.Profile{}, fmt.Errorf("base %q is a view; views must derive from a profile", spec.Base)
	}
	base, ok := l.profiles[spec.Base]
	if !ok {
		return fieldprofile.Profile{}, &NotFoundError{Name: spec.Base}
	}

	m := fieldprofile.NewFromProfile(base)
	if spec.Only != nil {
		m.Only(spec.Only...)
	}
	m.Remove(spec.Remove...).
		MakeRequired(spec.MakeRequired...).
		MakeOptional(spec.MakeOptional...)
	if spec.Set != nil {
		m.Set(spec.Set)
	}
	for _, field := range sortedNames(spec.Add) {
		if _, err := m.Add(field, fieldprofile.OptionsFromMap(spec.Add[field])...); err != nil {
			return fieldprofile.Profile{}, err
		}
	}
	return m.Snapshot(), nil
}

// Names returns the names of all profiles and views, sorted.
func (l *Library) Names() []string {
	return sortedNames(l.profiles)
}

// IsView reports whether name was declared as a view.
func (l *Library) IsView(name string) bool {
	_, ok := l.views[name]
	return ok
}

// Profile returns a copy of the named profile or view.
func (l *Library) Profile(name string) (fieldprofile.Profile, bool) {
	p, ok := l.profiles[name]
	if !ok {
		return fieldprofile.Profile{}, false
	}
	return p.Clone(), true
}

// Manipulator returns an independent Manipulator over the named profile or
// view. Changes made through it never affect the Library.
func (l *Library) Manipulator(name string) (*fieldprofile.Manipulator, error) {
	p, ok := l.profiles[name]
	if !ok {
		return nil, &NotFoundError{Name: name}
	}
	return fieldprofile.NewFromProfile(p), nil
}

func sortedNames[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

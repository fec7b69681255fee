package fieldprofile

import (
	"bytes"
	"encoding/json"
	"errors"
)

// knownSet builds a map for constant-time attribute name checks.
func knownSet(keys ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		out[k] = struct{}{}
	}
	return out
}

// Pre-computed attribute name sets, built once at package init.
var (
	modeledSet = knownSet(
		AttrRequired, AttrOptional, AttrDefaults,
		AttrFieldFilters, AttrConstraintMethods, AttrMsgs,
	)

	// engineVocabularySet is every top-level attribute the external engine
	// accepts. Attributes outside it are still passed through; Validate only
	// reports them under WithRejectUnknownAttributes.
	engineVocabularySet = knownSet(
		AttrRequired, AttrOptional, AttrDefaults,
		AttrFieldFilters, AttrConstraintMethods, AttrMsgs,
		AttrDependencies, "dependency_groups", "require_some",
		"required_regexp", "optional_regexp", "defaults_regexp_map",
		"filters", "field_filter_regexp_map",
		"constraints", "constraint_regexp_map", "constraint_method_regexp_map",
		"untaint_all_constraints", "untaint_constraint_fields",
		"missing_optional_valid", "validator_packages", "debug",
	)
)

// MarshalJSON encodes the exported profile shape. Extra attributes are
// included; modeled attributes win over colliding Extra keys.
func (p Profile) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Map())
}

// UnmarshalJSON decodes a profile object, keeping unknown attributes in Extra.
// Numbers are decoded as json.Number to preserve their literal form.
func (p *Profile) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("fieldprofile: invalid JSON: trailing data")
	}
	*p = fromOwnedMap(raw)
	return nil
}

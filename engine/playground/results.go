package playground

import (
	"fmt"
	"sort"
	"strings"
)

// Results is the outcome of checking one record.
type Results struct {
	// Valid holds the filtered, defaulted values of fields that passed.
	Valid map[string]any `json:"valid"`
	// Missing lists required fields with no value, in profile order.
	Missing []string `json:"missing,omitempty"`
	// Invalid maps a field to the validator tags it failed.
	Invalid map[string][]string `json:"invalid,omitempty"`
	// Unknown lists record keys not declared by the profile, sorted.
	Unknown []string `json:"unknown,omitempty"`
	// Messages maps each missing or invalid field to a message resolved
	// through msgs.constraints.
	Messages map[string]string `json:"messages,omitempty"`
}

// Success reports whether no field is missing or invalid.
func (r *Results) Success() bool {
	return r != nil && len(r.Missing) == 0 && len(r.Invalid) == 0
}

// String renders a deterministic one-line summary.
func (r *Results) String() string {
	if r == nil {
		return "<nil>"
	}
	if r.Success() {
		return fmt.Sprintf("valid (%d fields)", len(r.Valid))
	}
	var parts []string
	if len(r.Missing) > 0 {
		parts = append(parts, "missing: "+strings.Join(r.Missing, ", "))
	}
	if len(r.Invalid) > 0 {
		fields := make([]string, 0, len(r.Invalid))
		for f := range r.Invalid {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		for i, f := range fields {
			fields[i] = fmt.Sprintf("%s (%s)", f, r.Messages[f])
		}
		parts = append(parts, "invalid: "+strings.Join(fields, ", "))
	}
	return strings.Join(parts, "; ")
}

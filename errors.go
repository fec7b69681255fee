package fieldprofile

import (
	"errors"
	"fmt"
)

// ErrNoEngine is returned by Manipulator.Check when no Engine is configured.
var ErrNoEngine = errors.New("fieldprofile: no validation engine configured")

// DuplicateFieldError is returned by Add when the field is already declared.
type DuplicateFieldError struct {
	Field string
	// Attribute is the list the field was found in: "required" or "optional".
	Attribute string
}

func (e *DuplicateFieldError) Error() string {
	if e == nil {
		return "duplicate field"
	}
	if e.Attribute == "" {
		return fmt.Sprintf("duplicate field %q", e.Field)
	}
	return fmt.Sprintf("duplicate field %q: already present in %s", e.Field, e.Attribute)
}

// AttributeError indicates a mutation had to write into an attribute whose
// existing value has an unusable shape.
type AttributeError struct {
	Attribute string
	Message   string
}

func (e *AttributeError) Error() string {
	if e == nil {
		return "attribute error"
	}
	return fmt.Sprintf("attribute %s: %s", e.Attribute, e.Message)
}

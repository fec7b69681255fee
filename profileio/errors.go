package profileio

import "fmt"

// NotFoundError indicates a profile name that is not in the library.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	if e == nil {
		return "profile not found"
	}
	return fmt.Sprintf("profile %q not found", e.Name)
}

// ViewError indicates a view that could not be derived from its base.
type ViewError struct {
	View string
	Err  error
}

func (e *ViewError) Error() string {
	if e == nil {
		return "view error"
	}
	return fmt.Sprintf("view %q: %v", e.View, e.Err)
}

func (e *ViewError) Unwrap() error { return e.Err }

// ShapeError indicates the document does not match the library schema.
type ShapeError struct {
	Err error
}

func (e *ShapeError) Error() string {
	if e == nil {
		return "invalid profile library"
	}
	return fmt.Sprintf("invalid profile library: %v", e.Err)
}

func (e *ShapeError) Unwrap() error { return e.Err }

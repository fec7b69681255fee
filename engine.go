package fieldprofile

// Engine performs validation of data against an exported profile. The result
// is opaque to this package and is handed back to the caller unchanged, as is
// any error.
type Engine interface {
	Check(data any, profile map[string]any) (any, error)
}

// EngineFunc adapts a function to the Engine interface.
type EngineFunc func(data any, profile map[string]any) (any, error)

// Check calls f(data, profile).
func (f EngineFunc) Check(data any, profile map[string]any) (any, error) {
	return f(data, profile)
}

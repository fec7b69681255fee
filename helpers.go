package fieldprofile

import (
	"reflect"
	"sort"

	"github.com/mohae/deepcopy"
)

// decodeFieldList accepts the shapes a field list takes in the wild: a list of
// strings (typed or decoded from JSON/YAML) or a single bare field name.
// A nil value decodes to an absent list.
func decodeFieldList(v any) ([]string, bool) {
	switch x := v.(type) {
	case nil:
		return nil, true
	case string:
		return []string{x}, true
	case []string:
		out := make([]string, len(x))
		copy(out, x)
		return out, true
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

// toMapping returns v as a map[string]any. map[string]string is converted so
// that hand-built Go literals and decoded documents behave the same.
func toMapping(v any) (map[string]any, bool) {
	switch x := v.(type) {
	case map[string]any:
		return x, true
	case map[string]string:
		out := make(map[string]any, len(x))
		for k, s := range x {
			out[k] = s
		}
		return out, true
	default:
		return nil, false
	}
}

func copyValue(v any) any {
	if v == nil {
		return nil
	}
	return deepcopy.Copy(v)
}

func copyStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func fieldSet(fields []string) map[string]struct{} {
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

func containsField(list []string, field string) bool {
	for _, f := range list {
		if f == field {
			return true
		}
	}
	return false
}

// filterFields keeps list entries accepted by keep, preserving order.
// An absent list stays absent.
func filterFields(list []string, keep func(string) bool) []string {
	if list == nil {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, f := range list {
		if keep(f) {
			out = append(out, f)
		}
	}
	return out
}

func withoutField(list []string, field string) []string {
	return filterFields(list, func(f string) bool { return f != field })
}

func filterKeys(m map[string]any, keep func(string) bool) {
	for k := range m {
		if !keep(k) {
			delete(m, k)
		}
	}
}

// setReplace stores v under key, replacing any previous value wholesale.
func setReplace(dst map[string]any, key string, v any) map[string]any {
	if dst == nil {
		dst = map[string]any{}
	}
	dst[key] = v
	return dst
}

// mergeOneLevel copies every entry of src into dst. Colliding keys are
// overwritten; nested values are not merged.
func mergeOneLevel(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func sortedKeys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// truthy mirrors the loose boolean reading of flat option sets: false, zero,
// "", "0" and nil are false.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != "" && x != "0"
	case interface{ String() string }:
		s := x.String()
		return s != "" && s != "0"
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return !rv.IsZero()
	default:
		return true
	}
}

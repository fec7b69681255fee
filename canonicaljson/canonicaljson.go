// Package canonicaljson produces RFC 8785 (JCS) canonical JSON.
//
// Profiles are compared and fingerprinted by their canonical bytes, so two
// profiles built through different call sequences but describing the same
// validation rules encode identically.
package canonicaljson

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"
	"unicode/utf16"
)

var (
	errNonFinite   = errors.New("canonicaljson: NaN or Infinity is not valid JSON")
	errTrailing    = errors.New("canonicaljson: trailing data after JSON value")
	errUnsupported = errors.New("canonicaljson: unsupported value type")
)

// Marshal returns the canonical encoding of v. v is first encoded with
// encoding/json, so any value json.Marshal accepts is accepted here; raw JSON
// may be passed as json.RawMessage or []byte.
//
// Object members are ordered by UTF-16 code units, arrays keep their order,
// numbers use the ECMAScript shortest form and the output has no whitespace.
func Marshal(v any) ([]byte, error) {
	raw, err := toJSON(v)
	if err != nil {
		return nil, err
	}
	tree, err := decodeOne(raw)
	if err != nil {
		return nil, err
	}
	return appendValue(make([]byte, 0, len(raw)), tree)
}

// Equal reports whether a and b have the same canonical encoding.
func Equal(a, b any) (bool, error) {
	ca, err := Marshal(a)
	if err != nil {
		return false, err
	}
	cb, err := Marshal(b)
	if err != nil {
		return false, err
	}
	return bytes.Equal(ca, cb), nil
}

func toJSON(v any) ([]byte, error) {
	switch x := v.(type) {
	case json.RawMessage:
		return x, nil
	case []byte:
		return x, nil
	default:
		return json.Marshal(v)
	}
}

func decodeOne(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var tree any
	if err := dec.Decode(&tree); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			return nil, errTrailing
		}
		return nil, err
	}
	return tree, nil
}

func appendValue(dst []byte, v any) ([]byte, error) {
	switch x := v.(type) {
	case nil:
		return append(dst, "null"...), nil
	case bool:
		return strconv.AppendBool(dst, x), nil
	case string:
		return appendString(dst, x), nil
	case json.Number:
		f, err := strconv.ParseFloat(string(x), 64)
		if err != nil {
			return nil, err
		}
		return appendNumber(dst, f)
	case float64:
		return appendNumber(dst, x)
	case []any:
		dst = append(dst, '[')
		for i, item := range x {
			if i > 0 {
				dst = append(dst, ',')
			}
			var err error
			if dst, err = appendValue(dst, item); err != nil {
				return nil, err
			}
		}
		return append(dst, ']'), nil
	case map[string]any:
		return appendObject(dst, x)
	default:
		return nil, errUnsupported
	}
}

func appendObject(dst []byte, obj map[string]any) ([]byte, error) {
	type member struct {
		name  string
		units []uint16
	}
	members := make([]member, 0, len(obj))
	for name := range obj {
		members = append(members, member{name: name, units: utf16.Encode([]rune(name))})
	}
	slices.SortFunc(members, func(a, b member) int {
		return slices.Compare(a.units, b.units)
	})

	dst = append(dst, '{')
	for i, m := range members {
		if i > 0 {
			dst = append(dst, ',')
		}
		dst = appendString(dst, m.name)
		dst = append(dst, ':')
		var err error
		if dst, err = appendValue(dst, obj[m.name]); err != nil {
			return nil, err
		}
	}
	return append(dst, '}'), nil
}

const hexDigits = "0123456789abcdef"

func appendString(dst []byte, s string) []byte {
	dst = append(dst, '"')
	for _, r := range s {
		switch r {
		case '"':
			dst = append(dst, '\\', '"')
		case '\\':
			dst = append(dst, '\\', '\\')
		case '\b':
			dst = append(dst, '\\', 'b')
		case '\f':
			dst = append(dst, '\\', 'f')
		case '\n':
			dst = append(dst, '\\', 'n')
		case '\r':
			dst = append(dst, '\\', 'r')
		case '\t':
			dst = append(dst, '\\', 't')
		default:
			if r < 0x20 {
				dst = append(dst, '\\', 'u', '0', '0', hexDigits[r>>4], hexDigits[r&0xf])
				continue
			}
			dst = append(dst, string(r)...)
		}
	}
	return append(dst, '"')
}

// appendNumber follows the ECMAScript Number.prototype.toString algorithm
// RFC 8785 mandates.
func appendNumber(dst []byte, f float64) ([]byte, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, errNonFinite
	}
	if f == 0 {
		return append(dst, '0'), nil
	}
	if abs := math.Abs(f); abs < 1e21 && abs >= 1e-6 {
		return strconv.AppendFloat(dst, f, 'f', -1, 64), nil
	}
	// Go pads the exponent to two digits (1e-07); ECMAScript does not.
	s := strconv.FormatFloat(f, 'e', -1, 64)
	mant, exp, _ := strings.Cut(s, "e")
	sign := exp[0]
	digits := exp[1:]
	for len(digits) > 1 && digits[0] == '0' {
		digits = digits[1:]
	}
	dst = append(dst, mant...)
	dst = append(dst, 'e', sign)
	return append(dst, digits...), nil
}

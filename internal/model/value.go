package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RefKey marks an object as a Reference: {"$ref": "<scope>.<dotted.path>"}.
const RefKey = "$ref"

type Ref string

// AsRef reports whether v is a Reference object. Objects whose $ref is not a
// string are plain mappings.
func AsRef(v any) (Ref, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return "", false
	}
	s, ok := m[RefKey].(string)
	if !ok {
		return "", false
	}
	return Ref(s), true
}

// NewRef builds the object form of a reference.
func NewRef(path string) map[string]any {
	return map[string]any{RefKey: path}
}

func (r Ref) Scope() string {
	scope, _, _ := strings.Cut(string(r), ".")
	return scope
}

// Path returns the segments after the scope. A bare scope ("item") has no
// segments; a trailing dot ("item.") has one empty segment.
func (r Ref) Path() []string {
	_, rest, ok := strings.Cut(string(r), ".")
	if !ok {
		return nil
	}
	return strings.Split(rest, ".")
}

// Truthy applies the fallback rules documents are written against: nil,
// false, "", 0 and NaN are falsy; everything else, including empty
// containers, is truthy.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0 && !math.IsNaN(t)
	case int:
		return t != 0
	case int64:
		return t != 0
	default:
		return true
	}
}

// Or returns the first truthy value, or the last value when none is.
func Or(vs ...any) any {
	for _, v := range vs {
		if Truthy(v) {
			return v
		}
	}
	if len(vs) == 0 {
		return nil
	}
	return vs[len(vs)-1]
}

// Display renders a resolved value as text.
func Display(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		if t == math.Trunc(t) && math.Abs(t) < 1e15 {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(b)
	}
}

// OrderedMap is a JSON object that remembers key order. Page state is seeded
// in document order, which matters when keys overlap ("a" then "a.b").
type OrderedMap struct {
	keys []string
	vals map[string]any
}

func NewOrderedMap() *OrderedMap {
	return &OrderedMap{vals: map[string]any{}}
}

func (m *OrderedMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

func (m *OrderedMap) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

func (m *OrderedMap) Get(k string) (any, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.vals[k]
	return v, ok
}

// Set keeps the first position of a repeated key and the last value.
func (m *OrderedMap) Set(k string, v any) {
	if m.vals == nil {
		m.vals = map[string]any{}
	}
	if _, ok := m.vals[k]; !ok {
		m.keys = append(m.keys, k)
	}
	m.vals[k] = v
}

// Map returns an unordered copy.
func (m *OrderedMap) Map() map[string]any {
	out := make(map[string]any, m.Len())
	if m == nil {
		return out
	}
	for k, v := range m.vals {
		out[k] = v
	}
	return out
}

func (m *OrderedMap) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New("expected object")
	}
	m.keys = nil
	m.vals = map[string]any{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		k, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("key %q: %w", k, err)
		}
		m.Set(k, v)
	}
	_, err = dec.Token()
	return err
}

func (m *OrderedMap) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(m.vals[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

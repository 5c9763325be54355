package namespace

import (
	"bytes"
	"fmt"
	"iter"
	"maps"
	"reflect"
	"slices"
	"strconv"
)

// Map is an insertion-ordered mapping from string keys to values. The JSON
// and YAML decoders produce it so that populated namespaces keep document
// order; callers may build one directly for the same reason.
type Map struct {
	keys []string
	vals map[string]any
}

// NewMap creates an empty Map.
func NewMap() *Map { return &Map{vals: make(map[string]any)} }

// MapOf builds a Map from alternating key/value arguments.
func MapOf(kv ...any) *Map {
	m := NewMap()
	for i := 0; i+1 < len(kv); i += 2 {
		m.Set(keyString(kv[i]), kv[i+1])
	}
	return m
}

// Set stores v under key. Replacing a key keeps its original position.
func (m *Map) Set(key string, v any) {
	if m.vals == nil {
		m.vals = make(map[string]any)
	}
	if _, ok := m.vals[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.vals[key] = v
}

func (m *Map) Get(key string) (any, bool) {
	v, ok := m.vals[key]
	return v, ok
}

func (m *Map) Delete(key string) {
	if _, ok := m.vals[key]; !ok {
		return
	}
	delete(m.vals, key)
	m.keys = slices.DeleteFunc(m.keys, func(k string) bool { return k == key })
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string { return slices.Clone(m.keys) }

func (m *Map) Len() int { return len(m.keys) }

// All iterates key/value pairs in insertion order.
func (m *Map) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, k := range m.keys {
			if !yield(k, m.vals[k]) {
				return
			}
		}
	}
}

// Plain converts the Map, and any Map nested in it or in its slices, into
// map[string]any.
func (m *Map) Plain() map[string]any {
	out := make(map[string]any, len(m.keys))
	for _, k := range m.keys {
		out[k] = plainValue(m.vals[k])
	}
	return out
}

func plainValue(v any) any {
	switch t := v.(type) {
	case *Map:
		return t.Plain()
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = plainValue(e)
		}
		return out
	default:
		return v
	}
}

// keyString normalizes mapping keys: strings as-is, integers in decimal.
func keyString(k any) string {
	switch t := k.(type) {
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case fmt.Stringer:
		return t.String()
	}
	rv := reflect.ValueOf(k)
	switch rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10)
	}
	return fmt.Sprint(k)
}

// indexOf is the single coercion from a key or path segment to a sequence
// index. Integer kinds and decimal strings are accepted.
func indexOf(k any) (int, bool) {
	switch t := k.(type) {
	case int:
		return t, true
	case string:
		i, err := strconv.Atoi(t)
		return i, err == nil
	}
	rv := reflect.ValueOf(k)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int(rv.Uint()), true
	}
	return 0, false
}

// toMap converts a mapping value into a *Map. Go maps have no order, so their
// keys are visited in sorted order to keep population deterministic.
func toMap(v any) (*Map, bool) {
	switch t := v.(type) {
	case *Map:
		if t == nil {
			return nil, false
		}
		return t, true
	case map[string]any:
		m := NewMap()
		for _, k := range slices.Sorted(maps.Keys(t)) {
			m.Set(k, t[k])
		}
		return m, true
	case *Namespace, nil:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map {
		return nil, false
	}
	keys := make([]string, 0, rv.Len())
	byKey := make(map[string]any, rv.Len())
	it := rv.MapRange()
	for it.Next() {
		k := keyString(it.Key().Interface())
		if _, dup := byKey[k]; !dup {
			keys = append(keys, k)
		}
		byKey[k] = it.Value().Interface()
	}
	slices.Sort(keys)
	m := NewMap()
	for _, k := range keys {
		m.Set(k, byKey[k])
	}
	return m, true
}

// seqOf returns v as []any when v is a slice or array. []any is returned as
// is; other slice types are copied. Byte slices are treated as scalars.
func seqOf(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case []byte, string, nil:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if rv.Kind() == reflect.Slice && rv.IsNil() {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// MarshalJSON encodes the Map as a JSON object in insertion order.
func (m *Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeJSON(&buf, m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalYAML returns the Map as an ordered mapping node.
func (m *Map) MarshalYAML() (any, error) { return yamlNode(m) }

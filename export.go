package namespace

import (
	"fmt"
	"iter"
	"slices"

	gojson "github.com/goccy/go-json"
)

// Items yields (dotted path, value) pairs for every leaf below n, in field
// insertion order at each level. Empty child nodes yield nothing. Each call
// starts a fresh walk; each level is snapshotted when the walk reaches it,
// but mutating the tree during a walk is not supported.
func (n *Namespace) Items(prefix string) iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		n.walk(prefix, yield)
	}
}

// All is Items without a prefix.
func (n *Namespace) All() iter.Seq2[string, any] { return n.Items("") }

func (n *Namespace) walk(base string, yield func(string, any) bool) bool {
	for _, name := range slices.Clone(n.names) {
		raw, ok := n.fields[name]
		if !ok {
			continue
		}
		v := resolve(raw)
		key := name
		if base != "" {
			key = base + Separator + name
		}
		if child, ok := v.(*Namespace); ok {
			if !child.walk(key, yield) {
				return false
			}
			continue
		}
		if !yield(key, v) {
			return false
		}
	}
	return true
}

// AsDict flattens n into a single-level map keyed by dotted paths. Sequences
// are copied; nodes inside them are flattened on their own, so nesting within
// a sequence stays structural. A non-empty prefix is prepended to every key.
// n is not modified.
func (n *Namespace) AsDict(prefix string) map[string]any {
	return n.Flat(prefix).Plain()
}

// Flat is AsDict as an insertion-ordered *Map.
func (n *Namespace) Flat(prefix string) *Map {
	out := NewMap()
	for k, v := range n.Items(prefix) {
		out.Set(k, flatValue(v))
	}
	return out
}

func flatValue(v any) any {
	if _, ok := v.(*Namespace); ok {
		return v
	}
	seq, ok := seqOf(v)
	if !ok {
		return v
	}
	out := make([]any, len(seq))
	for i, e := range seq {
		if c, ok := e.(*Namespace); ok {
			out[i] = c.Flat("")
			continue
		}
		out[i] = flatValue(e)
	}
	return out
}

// ForJSON returns n as nested plain maps suitable for JSON encoding. Nodes
// inside sequences and raw maps are converted as well; empty child nodes are
// left out. A non-empty prefix wraps the result one level deeper.
func (n *Namespace) ForJSON(prefix string) map[string]any {
	out := n.ordered().Plain()
	if prefix != "" {
		return map[string]any{prefix: out}
	}
	return out
}

// ordered is the nested export as an insertion-ordered *Map.
func (n *Namespace) ordered() *Map {
	out := NewMap()
	for _, name := range n.names {
		v := resolve(n.fields[name])
		if c, ok := v.(*Namespace); ok && c.Empty() {
			continue
		}
		out.Set(name, nestedValue(v))
	}
	return out
}

func nestedValue(v any) any {
	switch t := v.(type) {
	case *Namespace:
		return t.ordered()
	case *Map:
		out := NewMap()
		for k, e := range t.All() {
			out.Set(k, nestedValue(resolve(e)))
		}
		return out
	case map[string]any:
		m, _ := toMap(t)
		return nestedValue(m)
	}
	if seq, ok := seqOf(v); ok {
		out := make([]any, len(seq))
		for i, e := range seq {
			out[i] = nestedValue(resolve(e))
		}
		return out
	}
	return v
}

// Copy returns an independent deep copy of n, made by exporting with AsDict
// and populating a fresh node of the same Kind. Computed fields are copied as
// their current values.
func (n *Namespace) Copy() (*Namespace, error) {
	c := n.spawn()
	if err := c.FromDict(n.Flat("")); err != nil {
		return nil, err
	}
	return c, nil
}

// Clone is Copy for trees known to round-trip; it panics if Copy fails.
func (n *Namespace) Clone() *Namespace {
	c, err := n.Copy()
	if err != nil {
		panic(err)
	}
	return c
}

func renderFlat(m map[string]any) string {
	b, err := gojson.Marshal(m)
	if err != nil {
		return fmt.Sprint(m)
	}
	return string(b)
}

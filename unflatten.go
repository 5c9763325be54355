package namespace

import (
	"slices"
	"strings"
)

// populator runs the population algorithm: dot-key expansion, list coercion,
// then name validation while building nodes. In collect mode it records every
// issue and keeps going; otherwise it stops at the first.
type populator struct {
	kind    Kind
	collect bool
	issues  Issues
}

func (p *populator) fail(e *Error) error {
	if p.collect {
		p.issues = append(p.issues, e)
		return nil
	}
	return e
}

// Unflatten expands dotted keys of src into nested maps and turns list-like
// maps (keys exactly 0..N-1, as ints or decimal strings) into []any. It is the
// first half of FromDict, returned as plain Go values.
func Unflatten(src any) (map[string]any, error) {
	p := &populator{}
	m, err := p.prepare(src)
	if err != nil {
		return nil, err
	}
	return m.Plain(), nil
}

// Check runs the population algorithm for kind against src without building
// anything and returns every issue found. It returns nil when src would
// populate cleanly.
func Check(kind Kind, src any) Issues {
	if kind == nil {
		kind = NamespaceKind
	}
	p := &populator{kind: kind, collect: true}
	m, err := p.prepare(src)
	if err != nil {
		if e, ok := err.(*Error); ok {
			return append(p.issues, e)
		}
		return append(p.issues, &Error{Code: CodeInvalidInput, Cause: err})
	}
	_ = p.build(m, NewKind(kind), Root())
	if len(p.issues) == 0 {
		return nil
	}
	return p.issues
}

// FromDict populates n from src, which must be a mapping: map[string]any,
// map[any]any, any other Go map with string or integer keys, or *Map. Slices,
// scalars, strings and *Namespace values fail with ErrInvalidInput.
//
// Dotted keys are expanded ("a.b": 1 becomes a child a with field b), maps
// whose keys are exactly 0..N-1 become sequences, every name is checked
// against the node's Kind, maps become child nodes of the same Kind and maps
// inside sequences become nodes too. Top-level fields replace existing fields
// of the same name; on error n is left unchanged.
func (n *Namespace) FromDict(src any) error {
	p := &populator{kind: n.Kind()}
	m, err := p.prepare(src)
	if err != nil {
		return err
	}
	staged := n.spawn()
	if err := p.build(m, staged, Root()); err != nil {
		return err
	}
	for _, name := range staged.names {
		n.put(name, staged.fields[name])
	}
	return nil
}

// prepare validates the top-level shape and runs expansion and coercion.
func (p *populator) prepare(src any) (*Map, error) {
	m, ok := toMap(src)
	if !ok {
		return nil, &Error{Code: CodeInvalidInput, Message: describeInput(src) + " is not a mapping"}
	}
	expanded, err := p.expand(m, Root())
	if err != nil {
		return nil, err
	}
	coerced := coerce(expanded)
	out, ok := coerced.(*Map)
	if !ok {
		return nil, &Error{Code: CodeInvalidInput, Message: "top-level mapping has list-like keys 0..N-1"}
	}
	return out, nil
}

func describeInput(v any) string {
	switch v.(type) {
	case nil:
		return "nil"
	case *Namespace:
		return "a *Namespace"
	case string:
		return "a string"
	}
	if _, ok := seqOf(v); ok {
		return "a sequence"
	}
	return "a scalar"
}

// expand performs dot-key expansion on one mapping, recursing into values.
func (p *populator) expand(src *Map, at Path) (*Map, error) {
	out := NewMap()
	for key, raw := range src.All() {
		v, err := p.expandValue(raw, at.Field(key))
		if err != nil {
			return nil, err
		}
		parts := strings.Split(key, Separator)
		cur := out
		where := at
		conflict := false
		for _, part := range parts[:len(parts)-1] {
			where = where.Field(part)
			existing, ok := cur.Get(part)
			if !ok {
				next := NewMap()
				cur.Set(part, next)
				cur = next
				continue
			}
			next, isMap := existing.(*Map)
			if !isMap {
				if err := p.fail(errorAt(CodeConflict, where, "%q needs a mapping here but a value is already assigned", key)); err != nil {
					return nil, err
				}
				conflict = true
				break
			}
			cur = next
		}
		if conflict {
			continue
		}
		last := parts[len(parts)-1]
		if err := p.assign(cur, last, v, where.Field(last)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// assign binds v at key, merging mappings that meet at the same path. Two
// plain values at one path resolve to the later one.
func (p *populator) assign(dst *Map, key string, v any, at Path) error {
	existing, ok := dst.Get(key)
	if !ok {
		dst.Set(key, v)
		return nil
	}
	em, existingIsMap := existing.(*Map)
	vm, valueIsMap := v.(*Map)
	switch {
	case existingIsMap && valueIsMap:
		for k, e := range vm.All() {
			if err := p.assign(em, k, e, at.Field(k)); err != nil {
				return err
			}
		}
		return nil
	case existingIsMap || valueIsMap:
		return p.fail(errorAt(CodeConflict, at, "a mapping and a value are both assigned here"))
	default:
		dst.Set(key, v)
		return nil
	}
}

func (p *populator) expandValue(v any, at Path) (any, error) {
	if ns, ok := v.(*Namespace); ok {
		return p.expand(ns.ordered(), at)
	}
	if m, ok := toMap(v); ok {
		return p.expand(m, at)
	}
	if seq, ok := seqOf(v); ok {
		out := make([]any, len(seq))
		for i, e := range seq {
			ev, err := p.expandValue(e, at.Index(i))
			if err != nil {
				return nil, err
			}
			out[i] = ev
		}
		return out, nil
	}
	return v, nil
}

// coerce turns list-like mappings into sequences, depth first.
func coerce(v any) any {
	switch t := v.(type) {
	case *Map:
		for k, e := range t.All() {
			t.vals[k] = coerce(e)
		}
		if seq, ok := listLike(t); ok {
			return seq
		}
		return t
	case []any:
		for i, e := range t {
			t[i] = coerce(e)
		}
		return t
	default:
		return v
	}
}

// listLike reports whether m's keys are exactly 0..N-1 and, if so, returns
// the values in index order.
func listLike(m *Map) ([]any, bool) {
	if m.Len() == 0 {
		return nil, false
	}
	idx := make([]int, 0, m.Len())
	for _, k := range m.keys {
		i, ok := indexOf(k)
		if !ok {
			return nil, false
		}
		idx = append(idx, i)
	}
	sorted := slices.Clone(idx)
	slices.Sort(sorted)
	for want, got := range sorted {
		if got != want {
			return nil, false
		}
	}
	out := make([]any, len(idx))
	for pos, k := range m.keys {
		out[idx[pos]] = m.vals[k]
	}
	return out, true
}

// build validates names and materializes nodes into dst.
func (p *populator) build(m *Map, dst *Namespace, at Path) error {
	for name, v := range m.All() {
		where := at.Field(name)
		if !p.kind.ValidName(name) {
			if err := p.fail(errorAt(CodeInvalidName, where, "%q is not a valid %s field name", name, p.kind.Name())); err != nil {
				return err
			}
			continue
		}
		bv, err := p.buildValue(v, dst, where)
		if err != nil {
			return err
		}
		dst.put(name, bv)
	}
	return nil
}

func (p *populator) buildValue(v any, parent *Namespace, at Path) (any, error) {
	switch t := v.(type) {
	case *Map:
		child := parent.spawn()
		if err := p.build(t, child, at); err != nil {
			return nil, err
		}
		return child, nil
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			ev, err := p.buildValue(e, parent, at.Index(i))
			if err != nil {
				return nil, err
			}
			out[i] = ev
		}
		return out, nil
	default:
		return v, nil
	}
}

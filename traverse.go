package namespace

import "strings"

// Item is key-style access. A key containing the separator is split and
// resolved with Traverse; otherwise it behaves like Get, except that an unset
// name must be a valid field name for the node's Kind. Bound fields are
// always returned, whatever their name.
func (n *Namespace) Item(key string) (any, error) {
	if strings.Contains(key, Separator) {
		return n.Traverse(ParsePath(key).Segments()...)
	}
	return n.item(key, Root())
}

func (n *Namespace) item(name string, at Path) (any, error) {
	if v, ok := n.Lookup(name); ok {
		return v, nil
	}
	if err := n.nameError(name, at); err != nil {
		return nil, err
	}
	return n.Get(name), nil
}

// Traverse resolves path segment by segment starting at n. Segments are
// strings or integers.
//
//   - On a node, a string segment reads the field like Item (unset fields are
//     created); an integer segment is a type mismatch.
//   - On a sequence, integer segments and decimal strings index it; other
//     strings fail with ErrTypeMismatch and indexes outside the sequence fail
//     with ErrIndexOutOfRange. Sequences never grow.
//   - On a map[string]any, a missing key fails with ErrMissingKey.
//
// Anything else cannot be traversed and fails with ErrTypeMismatch.
func (n *Namespace) Traverse(path ...any) (any, error) {
	var cur any = n
	at := Root()
	for _, seg := range path {
		next, where, err := step(cur, seg, at)
		if err != nil {
			return nil, err
		}
		cur, at = next, where
	}
	return cur, nil
}

func step(cur, seg any, at Path) (any, Path, error) {
	switch c := cur.(type) {
	case *Namespace:
		name, ok := seg.(string)
		if !ok {
			return nil, at, errorAt(CodeTypeMismatch, at, "namespace fields are addressed by name, got %T", seg)
		}
		v, err := c.item(name, at)
		return v, at.Field(name), err
	case map[string]any:
		name := keyString(seg)
		v, ok := c[name]
		if !ok {
			return nil, at, errorAt(CodeMissingKey, at.Field(name), "key %q not found", name)
		}
		return resolve(v), at.Field(name), nil
	}
	seq, ok := seqOf(cur)
	if !ok {
		return nil, at, errorAt(CodeTypeMismatch, at, "%T cannot be traversed", cur)
	}
	i, ok := indexOf(seg)
	if !ok {
		return nil, at, errorAt(CodeTypeMismatch, at, "sequence indices must be integers, not %q", keyString(seg))
	}
	if i < 0 || i >= len(seq) {
		return nil, at, errorAt(CodeIndexOutOfRange, at.Index(i), "index %d out of range for length %d", i, len(seq))
	}
	return resolve(seq[i]), at.Index(i), nil
}

// Contains reports whether a dotted path holds data. It never creates
// fields: the walk stops at the first absent segment. A path ending on a node
// is contained only when that node is not Empty.
func (n *Namespace) Contains(dotted string) bool {
	v, ok := n.peek(dotted)
	if !ok {
		return false
	}
	if c, isNode := v.(*Namespace); isNode {
		return !c.Empty()
	}
	return true
}

// peek resolves a dotted path strictly, without creating fields.
func (n *Namespace) peek(dotted string) (any, bool) {
	var cur any = n
	for _, part := range strings.Split(dotted, Separator) {
		switch c := cur.(type) {
		case *Namespace:
			v, ok := c.Lookup(part)
			if !ok {
				return nil, false
			}
			cur = v
			continue
		case map[string]any:
			v, ok := c[part]
			if !ok {
				return nil, false
			}
			cur = resolve(v)
			continue
		}
		seq, ok := seqOf(cur)
		if !ok {
			return nil, false
		}
		i, ok := indexOf(part)
		if !ok || i < 0 || i >= len(seq) {
			return nil, false
		}
		cur = resolve(seq[i])
	}
	return cur, true
}

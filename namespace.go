package namespace

import (
	"fmt"
	"slices"
	"strings"
)

// Computed is a stored value that is evaluated on every read, the way a
// property is. Reading a field holding a Computed returns its result.
type Computed func() any

// Namespace is one node of a nested namespace tree: an insertion-ordered set
// of fields. Reading an unset field through Get, Child, Item or Traverse
// creates and attaches an empty child node; Lookup and Contains never do.
//
// The zero value is an empty node of NamespaceKind. A Namespace is not safe
// for concurrent use.
type Namespace struct {
	kind   Kind
	names  []string
	fields map[string]any

	// parent is the node holding this one as a field, nil when detached.
	parent *Namespace
	field  string
}

// New returns an empty node that accepts word-like field names.
func New() *Namespace { return &Namespace{kind: NamespaceKind} }

// NewKeyspace returns an empty node that accepts arbitrary field names and
// key-style assignment.
func NewKeyspace() *Namespace { return &Namespace{kind: KeyspaceKind} }

// NewKind returns an empty node governed by k. A nil k selects NamespaceKind.
func NewKind(k Kind) *Namespace {
	if k == nil {
		k = NamespaceKind
	}
	return &Namespace{kind: k}
}

// From returns a Namespace populated from src. See FromDict.
func From(src any) (*Namespace, error) { return FromKind(NamespaceKind, src) }

// FromKeyspace returns a Keyspace node populated from src. See FromDict.
func FromKeyspace(src any) (*Namespace, error) { return FromKind(KeyspaceKind, src) }

// FromKind returns a node of kind k populated from src. See FromDict.
func FromKind(k Kind, src any) (*Namespace, error) {
	n := NewKind(k)
	if err := n.FromDict(src); err != nil {
		return nil, err
	}
	return n, nil
}

// Kind returns the strategy governing this node.
func (n *Namespace) Kind() Kind {
	if n.kind == nil {
		return NamespaceKind
	}
	return n.kind
}

// spawn creates an empty node of the same Kind.
func (n *Namespace) spawn() *Namespace { return &Namespace{kind: n.Kind()} }

func (n *Namespace) put(name string, v any) {
	if n.fields == nil {
		n.fields = make(map[string]any)
	}
	old, ok := n.fields[name]
	if !ok {
		n.names = append(n.names, name)
	}
	detach(old)
	if c, isNode := v.(*Namespace); isNode {
		c.parent, c.field = n, name
	}
	n.fields[name] = v
}

func detach(v any) {
	if c, ok := v.(*Namespace); ok {
		c.parent, c.field = nil, ""
	}
}

// nameError is the error for binding name as a new field of n, or nil.
func (n *Namespace) nameError(name string, at Path) *Error {
	k := n.Kind()
	if (!k.KeyAssignable() && strings.Contains(name, Separator)) || !k.ValidName(name) {
		return errorAt(CodeInvalidName, at.Field(name), "%q is not a valid %s field name", name, k.Name())
	}
	return nil
}

// attachError rejects a node that is already a field of another node, or of
// another field of n. Nodes have exactly one parent.
func (n *Namespace) attachError(name string, v any) *Error {
	c, ok := v.(*Namespace)
	if !ok || c.parent == nil || (c.parent == n && c.field == name) {
		return nil
	}
	return errorAt(CodeConflict, Root().Field(name), "node is already bound as field %q; Delete it there first", c.field)
}

func resolve(v any) any {
	if c, ok := v.(Computed); ok && c != nil {
		return c()
	}
	return v
}

// Get is attribute-style access. An unset name is bound to a new empty child
// of the same Kind, which is returned. Get panics with an *Error matching
// ErrInvalidName if an unset name is not a valid field name for the Kind;
// Item and ChildOf report the error instead.
func (n *Namespace) Get(name string) any {
	if v, ok := n.fields[name]; ok {
		return resolve(v)
	}
	if err := n.nameError(name, Root()); err != nil {
		panic(err)
	}
	child := n.spawn()
	n.put(name, child)
	return child
}

// Lookup returns the value bound to name without creating anything.
func (n *Namespace) Lookup(name string) (any, bool) {
	v, ok := n.fields[name]
	if !ok {
		return nil, false
	}
	return resolve(v), true
}

// Child returns the child node bound to name, creating it when unset. It
// panics with an *Error matching ErrTypeMismatch if name holds another value,
// or ErrInvalidName if an unset name is invalid; use ChildOf to get the error
// instead.
func (n *Namespace) Child(name string) *Namespace {
	c, err := n.ChildOf(name)
	if err != nil {
		panic(err)
	}
	return c
}

// ChildOf is Child with an error instead of a panic.
func (n *Namespace) ChildOf(name string) (*Namespace, error) {
	if _, ok := n.fields[name]; !ok {
		if err := n.nameError(name, Root()); err != nil {
			return nil, err
		}
	}
	v := n.Get(name)
	c, ok := v.(*Namespace)
	if !ok {
		return nil, errorAt(CodeTypeMismatch, Root().Field(name), "field holds %T, not a namespace", v)
	}
	return c, nil
}

// Set is attribute-style assignment. The name must be valid for the node's
// Kind and must not contain the path separator. A *Namespace value must not
// already be a field of another node.
func (n *Namespace) Set(name string, v any) error {
	if name == "" || strings.Contains(name, Separator) || !n.Kind().ValidName(name) {
		return errorAt(CodeInvalidName, Root().Field(name), "%q is not a valid %s field name", name, n.Kind().Name())
	}
	return n.assign(name, v)
}

func (n *Namespace) assign(name string, v any) error {
	if containsNode(v, n) {
		return errorAt(CodeConflict, Root().Field(name), "assignment would create a cycle")
	}
	if err := n.attachError(name, v); err != nil {
		return err
	}
	n.put(name, v)
	return nil
}

// SetKey is key-style assignment: the name is stored verbatim, dots included.
// Only kinds whose KeyAssignable reports true allow it.
func (n *Namespace) SetKey(name string, v any) error {
	if !n.Kind().KeyAssignable() {
		return errorAt(CodeUnsupported, Root().Field(name), "%s does not support key assignment", n.Kind().Name())
	}
	return n.assign(name, v)
}

// SetPath assigns v at a dotted path, creating intermediate nodes. Every
// segment is checked before anything is created, so on error n is unchanged.
func (n *Namespace) SetPath(dotted string, v any) error {
	parts := strings.Split(dotted, Separator)
	leaf, inner := parts[len(parts)-1], parts[:len(parts)-1]
	dst, at, err := n.checkPath(inner)
	if err != nil {
		return err
	}
	if leaf == "" || !dst.Kind().ValidName(leaf) {
		return errorAt(CodeInvalidName, at.Field(leaf), "%q is not a valid %s field name", leaf, dst.Kind().Name())
	}
	if containsNode(v, n) || containsNode(v, dst) {
		return errorAt(CodeConflict, at.Field(leaf), "assignment would create a cycle")
	}
	if e := dst.attachError(leaf, v); e != nil {
		e.Path = at.Field(leaf).String()
		return e
	}
	cur := n
	for _, part := range inner {
		cur = cur.Child(part)
	}
	return cur.Set(leaf, v)
}

// checkPath verifies that parts can be descended from n: bound segments must
// hold nodes and unbound ones must be valid names. It returns the node the
// walk ends on, which is a detached stand-in once a segment is unbound.
func (n *Namespace) checkPath(parts []string) (*Namespace, Path, error) {
	cur := n
	at := Root()
	for _, part := range parts {
		v, ok := cur.fields[part]
		if !ok {
			if err := cur.nameError(part, at); err != nil {
				return nil, at, err
			}
			cur = cur.spawn()
		} else {
			c, isNode := v.(*Namespace)
			if !isNode {
				return nil, at, errorAt(CodeTypeMismatch, at.Field(part), "cannot descend into %T", v)
			}
			cur = c
		}
		at = at.Field(part)
	}
	return cur, at, nil
}

// Delete removes name and reports whether it was bound. A removed node is
// detached and may be bound elsewhere.
func (n *Namespace) Delete(name string) bool {
	v, ok := n.fields[name]
	if !ok {
		return false
	}
	detach(v)
	delete(n.fields, name)
	n.names = slices.DeleteFunc(n.names, func(s string) bool { return s == name })
	return true
}

// Names returns the bound field names in insertion order, including empty
// auto-created children.
func (n *Namespace) Names() []string { return slices.Clone(n.names) }

// Len is the number of bound fields.
func (n *Namespace) Len() int { return len(n.names) }

// Empty reports whether the node holds no data: it has no fields, or every
// field is itself an empty node. Auto-created paths stay empty until a leaf
// is assigned below them.
func (n *Namespace) Empty() bool {
	if n == nil {
		return true
	}
	for _, name := range n.names {
		c, ok := n.fields[name].(*Namespace)
		if !ok || !c.Empty() {
			return false
		}
	}
	return true
}

// reaches reports whether target is n or a node below n.
func (n *Namespace) reaches(target *Namespace) bool {
	if n == target {
		return true
	}
	for _, v := range n.fields {
		if containsNode(v, target) {
			return true
		}
	}
	return false
}

func containsNode(v any, target *Namespace) bool {
	switch t := v.(type) {
	case *Namespace:
		return t.reaches(target)
	case map[string]any:
		for _, e := range t {
			if containsNode(e, target) {
				return true
			}
		}
		return false
	}
	if seq, ok := seqOf(v); ok {
		for _, e := range seq {
			if containsNode(e, target) {
				return true
			}
		}
	}
	return false
}

// String renders the flattened content, e.g. <Namespace({"foo.bar":1})>.
func (n *Namespace) String() string {
	return fmt.Sprintf("<%s(%s)>", n.Kind().Name(), renderFlat(n.AsDict("")))
}

package namespace

import "regexp"

// Kind decides which field names a node accepts and how the node renders
// itself. Every node creates its children with its own Kind.
type Kind interface {
	// Name is the type name used by String, e.g. "Namespace".
	Name() string
	// ValidName reports whether name may be used as a single field name.
	ValidName(name string) bool
	// KeyAssignable reports whether SetKey is permitted.
	KeyAssignable() bool
}

var wordName = regexp.MustCompile(`^[A-Za-z0-9_.]+$`)

type namespaceKind struct{}

func (namespaceKind) Name() string               { return "Namespace" }
func (namespaceKind) ValidName(name string) bool { return wordName.MatchString(name) }
func (namespaceKind) KeyAssignable() bool        { return false }

type keyspaceKind struct{}

func (keyspaceKind) Name() string          { return "Keyspace" }
func (keyspaceKind) ValidName(string) bool { return true }
func (keyspaceKind) KeyAssignable() bool   { return true }

var (
	// NamespaceKind accepts word-like names (letters, digits, underscore).
	NamespaceKind Kind = namespaceKind{}
	// KeyspaceKind accepts any string and allows key-style assignment.
	KeyspaceKind Kind = keyspaceKind{}
)

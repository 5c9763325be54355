package namespace

import (
	"strconv"
	"strings"
)

// Separator joins path segments in dotted keys.
const Separator = "."

// Path addresses a value inside a namespace tree. Paths are immutable: Field
// and Index return extended copies, so a Path can be shared between branches.
type Path struct {
	parts []string
}

// Root returns the empty path.
func Root() Path { return Path{} }

// ParsePath splits a dotted key into a Path. The empty string is the root.
func ParsePath(dotted string) Path {
	if dotted == "" {
		return Root()
	}
	return Path{parts: strings.Split(dotted, Separator)}
}

// ParsePointer converts an RFC 6901 JSON Pointer into a Path.
func ParsePointer(ptr string) Path {
	if ptr == "" || ptr == "/" {
		return Root()
	}
	raw := strings.Split(strings.TrimPrefix(ptr, "/"), "/")
	parts := make([]string, len(raw))
	for i, p := range raw {
		parts[i] = strings.ReplaceAll(strings.ReplaceAll(p, "~1", "/"), "~0", "~")
	}
	return Path{parts: parts}
}

func (p Path) Field(name string) Path {
	return Path{parts: append(append(make([]string, 0, len(p.parts)+1), p.parts...), name)}
}

func (p Path) Index(i int) Path { return p.Field(strconv.Itoa(i)) }

// Parts returns a copy of the segments.
func (p Path) Parts() []string { return append([]string(nil), p.parts...) }

func (p Path) Len() int { return len(p.parts) }

// String renders the dotted form; the root renders as "".
func (p Path) String() string { return strings.Join(p.parts, Separator) }

// Pointer renders the path as an RFC 6901 JSON Pointer; the root is "".
func (p Path) Pointer() string {
	if len(p.parts) == 0 {
		return ""
	}
	b := &strings.Builder{}
	for _, part := range p.parts {
		b.WriteByte('/')
		// escape '~' -> '~0', '/' -> '~1'
		b.WriteString(strings.ReplaceAll(strings.ReplaceAll(part, "~", "~0"), "/", "~1"))
	}
	return b.String()
}

// Segments returns the parts as traversal segments for Traverse.
func (p Path) Segments() []any {
	out := make([]any, len(p.parts))
	for i, part := range p.parts {
		out[i] = part
	}
	return out
}

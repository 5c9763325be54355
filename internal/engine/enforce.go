package engine

import (
	"strconv"
	"strings"
)

// Enforcement wrapper for TokenSource to apply duplicate key handling,
// max depth checks, and max bytes truncation in a streaming fashion.

// DuplicateStrictness controls duplicate key handling.
type DuplicateStrictness int

const (
	DupIgnore DuplicateStrictness = iota
	DupWarn
	DupError
)

// SimpleIssue is a minimal issue representation used by internal helpers.
// Path is dotted (for example: servers.0.name); the root is "".
type SimpleIssue struct {
	Code    string
	Path    string
	Message string
}

// IssueError is a lightweight error carrying a SimpleIssue.
type IssueError struct{ SimpleIssue }

func (e IssueError) Error() string { return e.SimpleIssue.Message }

// EnforceOptions controls runtime enforcement behavior.
type EnforceOptions struct {
	OnDuplicate DuplicateStrictness
	MaxDepth    int
	MaxBytes    int64
	// IssueSink is an optional callback receiving every issue, fatal or not.
	IssueSink func(SimpleIssue)
}

// Enabled reports whether any check is switched on.
func (o EnforceOptions) Enabled() bool {
	return o.OnDuplicate != DupIgnore || o.MaxDepth > 0 || o.MaxBytes > 0
}

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type frame struct {
	kind      containerKind
	keys      map[string]struct{}
	segment   string // path segment of this container within its parent
	key       string // pending member name (objects)
	nextIndex int    // next element index (arrays)
}

// WrapWithEnforcement returns a TokenSource that enforces duplicate key policy,
// maximum nesting depth, and maximum consumed bytes.
func WrapWithEnforcement(inner TokenSource, opt EnforceOptions) TokenSource {
	if !opt.Enabled() {
		return inner
	}
	return &enforcingTokenSource{inner: inner, opt: opt}
}

type enforcingTokenSource struct {
	inner TokenSource
	opt   EnforceOptions
	stack []frame
}

func (e *enforcingTokenSource) NextToken() (Token, error) {
	tok, err := e.inner.NextToken()
	if err != nil {
		return Token{}, err
	}

	switch tok.Kind {
	case KindBeginObject, KindBeginArray:
		seg := e.claimSegment()
		f := frame{kind: kindArray, segment: seg}
		if tok.Kind == KindBeginObject {
			f.kind = kindObject
			f.keys = make(map[string]struct{})
		}
		e.stack = append(e.stack, f)
		if e.opt.MaxDepth > 0 && len(e.stack) > e.opt.MaxDepth {
			if err := e.report(SimpleIssue{Code: "parse_error", Path: e.path(), Message: "max depth exceeded"}, true); err != nil {
				return Token{}, err
			}
		}
	case KindEndObject, KindEndArray:
		if n := len(e.stack); n > 0 {
			e.stack = e.stack[:n-1]
		}
	case KindKey:
		if n := len(e.stack); n > 0 && e.stack[n-1].kind == kindObject {
			top := &e.stack[n-1]
			top.key = tok.String
			if _, dup := top.keys[tok.String]; dup && e.opt.OnDuplicate != DupIgnore {
				si := SimpleIssue{Code: "duplicate_key", Path: e.path(), Message: "key '" + tok.String + "' duplicated"}
				if err := e.report(si, e.opt.OnDuplicate == DupError); err != nil {
					return Token{}, err
				}
			}
			top.keys[tok.String] = struct{}{}
		}
	default:
		e.claimSegment()
	}

	if e.opt.MaxBytes > 0 {
		if off := e.Location(); off >= 0 && off > e.opt.MaxBytes {
			if err := e.report(SimpleIssue{Code: "truncated", Path: e.path(), Message: "max bytes exceeded"}, true); err != nil {
				return Token{}, err
			}
		}
	}

	return tok, nil
}

// claimSegment returns the path segment of the value that starts now and
// advances the parent container.
func (e *enforcingTokenSource) claimSegment() string {
	n := len(e.stack)
	if n == 0 {
		return ""
	}
	top := &e.stack[n-1]
	if top.kind == kindArray {
		seg := strconv.Itoa(top.nextIndex)
		top.nextIndex++
		return seg
	}
	return top.key
}

// path renders the dotted location of the current token.
func (e *enforcingTokenSource) path() string {
	parts := make([]string, 0, len(e.stack)+1)
	for i, f := range e.stack {
		if i > 0 {
			parts = append(parts, f.segment)
		}
	}
	if n := len(e.stack); n > 0 && e.stack[n-1].kind == kindObject && e.stack[n-1].key != "" {
		parts = append(parts, e.stack[n-1].key)
	}
	return strings.Join(parts, ".")
}

func (e *enforcingTokenSource) report(si SimpleIssue, fatal bool) error {
	if e.opt.IssueSink != nil {
		e.opt.IssueSink(si)
	}
	if fatal {
		return IssueError{si}
	}
	return nil
}

func (e *enforcingTokenSource) Location() int64 { return e.inner.Location() }

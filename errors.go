package namespace

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes (exported consts for IDE completion and switch statements).
const (
	CodeInvalidInput    = "invalid_input"
	CodeInvalidName     = "invalid_name"
	CodeConflict        = "conflict"
	CodeIndexOutOfRange = "index_out_of_range"
	CodeTypeMismatch    = "type_mismatch"
	CodeMissingKey      = "missing_key"
	CodeUnsupported     = "unsupported"
	CodeDuplicateKey    = "duplicate_key"
	CodeParseError      = "parse_error"
	CodeTruncated       = "truncated"
	CodePatchFailed     = "patch_failed"
)

// Sentinel errors. Every *Error matches the sentinel of its Code with errors.Is.
var (
	ErrInvalidInput    = errors.New("namespace: invalid input")
	ErrInvalidName     = errors.New("namespace: invalid name")
	ErrConflict        = errors.New("namespace: conflict")
	ErrIndexOutOfRange = errors.New("namespace: index out of range")
	ErrTypeMismatch    = errors.New("namespace: type mismatch")
	ErrMissingKey      = errors.New("namespace: missing key")
	ErrUnsupported     = errors.New("namespace: unsupported operation")
	ErrDuplicateKey    = errors.New("namespace: duplicate key")
	ErrParse           = errors.New("namespace: parse error")
	ErrTruncated       = errors.New("namespace: input too large")
	ErrPatchFailed     = errors.New("namespace: patch failed")
)

var sentinels = map[string]error{
	CodeInvalidInput:    ErrInvalidInput,
	CodeInvalidName:     ErrInvalidName,
	CodeConflict:        ErrConflict,
	CodeIndexOutOfRange: ErrIndexOutOfRange,
	CodeTypeMismatch:    ErrTypeMismatch,
	CodeMissingKey:      ErrMissingKey,
	CodeUnsupported:     ErrUnsupported,
	CodeDuplicateKey:    ErrDuplicateKey,
	CodeParseError:      ErrParse,
	CodeTruncated:       ErrTruncated,
	CodePatchFailed:     ErrPatchFailed,
}

// Error is a single failure with the dotted path where it happened.
type Error struct {
	Code    string // One of the codes listed above.
	Path    string // Dotted path (for example: servers.2.name); empty at the root.
	Message string
	Cause   error // Optional: underlying error.
}

func (e *Error) Error() string {
	b := &strings.Builder{}
	b.WriteString("namespace: ")
	b.WriteString(e.Code)
	if e.Path != "" {
		fmt.Fprintf(b, " at %s", e.Path)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target is the sentinel for e.Code.
func (e *Error) Is(target error) bool {
	s, ok := sentinels[e.Code]
	return ok && s == target
}

func errorAt(code string, p Path, format string, args ...any) *Error {
	return &Error{Code: code, Path: p.String(), Message: fmt.Sprintf(format, args...)}
}

// Issues is a collection of errors that implements error.
type Issues []*Error

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		if it.Path == "" {
			b.WriteString(it.Code)
			continue
		}
		// e.g. invalid_name at servers.key-name
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Is reports whether any contained issue matches target.
func (iss Issues) Is(target error) bool {
	for _, it := range iss {
		if errors.Is(it, target) {
			return true
		}
	}
	return false
}

// AsIssues extracts Issues from an error using errors.As internally. A lone
// *Error is returned as a single-element collection.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	var e *Error
	if errors.As(err, &e) {
		return Issues{e}, true
	}
	return nil, false
}

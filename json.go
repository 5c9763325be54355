package namespace

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"iter"
	"maps"
	"slices"
	"strconv"

	gojson "github.com/goccy/go-json"

	eng "github.com/reoring/namespace/internal/engine"
	"github.com/reoring/namespace/internal/stream"
)

// FromJSON decodes a JSON object into a new Namespace with default options.
func FromJSON(data []byte) (*Namespace, error) {
	return DecodeJSON(bytes.NewReader(data), DecodeOpt{})
}

// DecodeJSON decodes one JSON object from r into a new node of opt.Kind.
// Object member order is kept. The top-level value must be an object.
func DecodeJSON(r io.Reader, opt DecodeOpt) (*Namespace, error) {
	m, err := decodeJSONMap(r, opt)
	if err != nil {
		return nil, err
	}
	return FromKind(opt.kind(), m)
}

// DecodeJSONSeq decodes a stream of JSON objects, such as JSON Lines, yielding
// one node of opt.Kind per object. Iteration stops after the first error.
// opt.MaxBytes bounds the whole stream; the other options apply per object.
func DecodeJSONSeq(r io.Reader, opt DecodeOpt) iter.Seq2[*Namespace, error] {
	return func(yield func(*Namespace, error) bool) {
		cr := &countingReader{r: r}
		if opt.MaxBytes > 0 {
			cr.r = io.LimitReader(r, opt.MaxBytes+1)
		}
		truncated := func() bool { return opt.MaxBytes > 0 && cr.n > opt.MaxBytes }
		fail := func(err error) {
			if truncated() {
				e := &Error{Code: CodeTruncated, Message: "max bytes exceeded"}
				opt.report(e)
				err = e
			}
			yield(nil, err)
		}

		src := engineTokenSource(CurrentJSONDriver().NewReader(cr))
		for {
			doc, err := stream.Next(src)
			if errors.Is(err, io.EOF) {
				if truncated() {
					fail(nil)
				}
				return
			}
			if err != nil {
				fail(&Error{Code: CodeParseError, Message: "invalid JSON", Cause: err})
				return
			}
			m, err := decodeObject(doc, opt, 0)
			if err != nil {
				fail(err)
				return
			}
			ns, err := FromKind(opt.kind(), m)
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(ns, nil) {
				return
			}
		}
	}
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// MarshalJSON encodes the nested form (see ForJSON) keeping field order.
func (n *Namespace) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeJSON(&buf, n.ordered()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalJSON populates n from a JSON object, as FromDict does.
func (n *Namespace) UnmarshalJSON(data []byte) error {
	m, err := decodeJSONMap(bytes.NewReader(data), DecodeOpt{Kind: n.Kind()})
	if err != nil {
		return err
	}
	return n.FromDict(m)
}

func decodeJSONMap(r io.Reader, opt DecodeOpt) (*Map, error) {
	if opt.MaxBytes > 0 {
		data, err := io.ReadAll(io.LimitReader(r, opt.MaxBytes+1))
		if err != nil {
			return nil, &Error{Code: CodeParseError, Message: "reading input", Cause: err}
		}
		if int64(len(data)) > opt.MaxBytes {
			e := &Error{Code: CodeTruncated, Message: "max bytes exceeded"}
			opt.report(e)
			return nil, e
		}
		r = bytes.NewReader(data)
	}

	return decodeObject(engineTokenSource(CurrentJSONDriver().NewReader(r)), opt, opt.MaxBytes)
}

// decodeObject decodes the single value of src, which must be an object.
func decodeObject(src eng.TokenSource, opt DecodeOpt, maxBytes int64) (*Map, error) {
	src = eng.WrapWithEnforcement(src, eng.EnforceOptions{
		OnDuplicate: toEngineDup(opt.Strictness.OnDuplicateKey),
		MaxDepth:    opt.MaxDepth,
		MaxBytes:    maxBytes,
		IssueSink: func(si eng.SimpleIssue) {
			if si.Code == CodeDuplicateKey && opt.Strictness.OnDuplicateKey == Warn {
				opt.report(fromEngineIssue(si))
			}
		},
	})

	v, err := eng.DecodeDocument(src, numberConv(opt.Numbers))
	if err != nil {
		var ie eng.IssueError
		if errors.As(err, &ie) {
			return nil, fromEngineIssue(ie.SimpleIssue)
		}
		return nil, &Error{Code: CodeParseError, Message: "invalid JSON", Cause: err}
	}
	obj, ok := v.(*eng.Object)
	if !ok {
		return nil, &Error{Code: CodeInvalidInput, Message: "top-level JSON value is not an object"}
	}
	return fromEngineObject(obj), nil
}

func (o DecodeOpt) report(e *Error) {
	if o.OnIssue != nil {
		o.OnIssue(e)
	}
}

func toEngineDup(s Severity) eng.DuplicateStrictness {
	switch s {
	case Reject:
		return eng.DupError
	case Warn:
		return eng.DupWarn
	default:
		return eng.DupIgnore
	}
}

func fromEngineIssue(si eng.SimpleIssue) *Error {
	return &Error{Code: si.Code, Path: si.Path, Message: si.Message}
}

// fromEngineObject converts decoded objects into *Map; later duplicates win.
func fromEngineObject(obj *eng.Object) *Map {
	m := NewMap()
	for i, k := range obj.Keys {
		m.Set(k, fromEngineValue(obj.Values[i]))
	}
	return m
}

func fromEngineValue(v any) any {
	switch t := v.(type) {
	case *eng.Object:
		return fromEngineObject(t)
	case []any:
		for i, e := range t {
			t[i] = fromEngineValue(e)
		}
		return t
	default:
		return v
	}
}

func numberConv(mode NumberMode) eng.NumberConv {
	switch mode {
	case NumberJSONNumber:
		return func(s string) (any, error) { return json.Number(s), nil }
	case NumberFloat64:
		return func(s string) (any, error) { return strconv.ParseFloat(s, 64) }
	default:
		return func(s string) (any, error) {
			if i, err := strconv.Atoi(s); err == nil {
				return i, nil
			}
			return strconv.ParseFloat(s, 64)
		}
	}
}

// encodeJSON writes v with object members in order: *Map in insertion order,
// map[string]any sorted by key. Leaves are encoded by go-json.
func encodeJSON(buf *bytes.Buffer, v any) error {
	switch t := v.(type) {
	case *Namespace:
		return encodeJSON(buf, t.ordered())
	case *Map:
		buf.WriteByte('{')
		first := true
		for k, e := range t.All() {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			if err := encodeMember(buf, k, e); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	case map[string]any:
		buf.WriteByte('{')
		for i, k := range slices.Sorted(maps.Keys(t)) {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeMember(buf, k, t[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	case Computed:
		return encodeJSON(buf, resolve(t))
	}
	if seq, ok := seqOf(v); ok {
		buf.WriteByte('[')
		for i, e := range seq {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeJSON(buf, e); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	}
	b, err := gojson.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

func encodeMember(buf *bytes.Buffer, key string, v any) error {
	kb, err := gojson.Marshal(key)
	if err != nil {
		return err
	}
	buf.Write(kb)
	buf.WriteByte(':')
	return encodeJSON(buf, v)
}

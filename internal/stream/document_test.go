package stream

import (
	"errors"
	"io"
	"testing"

	eng "github.com/reoring/namespace/internal/engine"
)

type tokens struct {
	toks []eng.Token
	pos  int
}

func (s *tokens) NextToken() (eng.Token, error) {
	if s.pos >= len(s.toks) {
		return eng.Token{}, io.EOF
	}
	s.pos++
	return s.toks[s.pos-1], nil
}

func (s *tokens) Location() int64 { return int64(s.pos) }

func TestNext_SplitsConcatenatedValues(t *testing.T) {
	src := &tokens{toks: []eng.Token{
		{Kind: eng.KindBeginObject}, {Kind: eng.KindKey, String: "a"}, {Kind: eng.KindBeginArray}, {Kind: eng.KindEndArray}, {Kind: eng.KindEndObject},
		{Kind: eng.KindNumber, Number: "1"},
		{Kind: eng.KindBeginObject}, {Kind: eng.KindEndObject},
	}}
	conv := func(s string) (any, error) { return s, nil }

	var got []any
	for {
		doc, err := Next(src)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		v, err := eng.DecodeDocument(doc, conv)
		if err != nil {
			t.Fatalf("DecodeDocument: %v", err)
		}
		got = append(got, v)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 values, got %d: %v", len(got), got)
	}
	if o, ok := got[0].(*eng.Object); !ok || len(o.Keys) != 1 || o.Keys[0] != "a" {
		t.Fatalf("first value: %#v", got[0])
	}
	if got[1] != "1" {
		t.Fatalf("second value: %#v", got[1])
	}
	if o, ok := got[2].(*eng.Object); !ok || len(o.Keys) != 0 {
		t.Fatalf("third value: %#v", got[2])
	}
}

func TestDocument_TruncatedValue(t *testing.T) {
	src := &tokens{toks: []eng.Token{{Kind: eng.KindBeginObject}, {Kind: eng.KindKey, String: "a"}}}
	doc, err := Next(src)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if _, err := eng.DecodeDocument(doc, func(s string) (any, error) { return s, nil }); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected io.ErrUnexpectedEOF, got %v", err)
	}
}

package gojson

import (
	"io"
	"testing"

	eng "github.com/reoring/namespace/internal/engine"
)

func TestTokens(t *testing.T) {
	src := NewBytes([]byte(`{"a":"x","b":[1.5,true,null,{"c":"d"}],"e":{}}`))
	want := []eng.Kind{
		eng.KindBeginObject,
		eng.KindKey, eng.KindString,
		eng.KindKey, eng.KindBeginArray, eng.KindNumber, eng.KindBool, eng.KindNull,
		eng.KindBeginObject, eng.KindKey, eng.KindString, eng.KindEndObject, eng.KindEndArray,
		eng.KindKey, eng.KindBeginObject, eng.KindEndObject,
		eng.KindEndObject,
	}
	for i, k := range want {
		tok, err := src.NextToken()
		if err != nil {
			t.Fatalf("token %d: %v", i, err)
		}
		if tok.Kind != k {
			t.Fatalf("token %d: kind %d, want %d (%+v)", i, tok.Kind, k, tok)
		}
		if tok.Offset != -1 {
			t.Fatalf("token %d: go-json offsets are unknown, got %d", i, tok.Offset)
		}
		if k == eng.KindNumber && tok.Number != "1.5" {
			t.Fatalf("number text: %q", tok.Number)
		}
	}
	if _, err := src.NextToken(); err != io.EOF {
		t.Fatalf("expected io.EOF, got %v", err)
	}
	if src.Location() != -1 {
		t.Fatalf("Location: %d", src.Location())
	}
}

// Package gojson adapts goccy/go-json's streaming decoder into an
// engine.TokenSource. It is the default JSON driver of the namespace package.
package gojson

import (
	"bytes"
	"io"
	"strconv"

	j "github.com/goccy/go-json"

	eng "github.com/reoring/namespace/internal/engine"
)

type source struct {
	dec  *j.Decoder
	keys eng.KeyTracker
}

// NewReader wraps an io.Reader into an engine.TokenSource for JSON using go-json.
func NewReader(r io.Reader) eng.TokenSource {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	return &source{dec: dec}
}

// NewBytes wraps a byte slice into an engine.TokenSource for JSON using go-json.
func NewBytes(b []byte) eng.TokenSource { return NewReader(bytes.NewReader(b)) }

func (s *source) NextToken() (eng.Token, error) {
	tok, err := s.dec.Token()
	if err != nil {
		return eng.Token{}, err
	}
	t := eng.Token{Offset: -1}
	switch v := tok.(type) {
	case j.Delim:
		switch v {
		case '{':
			s.keys.Open(true)
			t.Kind = eng.KindBeginObject
		case '[':
			s.keys.Open(false)
			t.Kind = eng.KindBeginArray
		case '}':
			s.keys.Close()
			t.Kind = eng.KindEndObject
		case ']':
			s.keys.Close()
			t.Kind = eng.KindEndArray
		}
		return t, nil
	case string:
		t.Kind = s.keys.String()
		t.String = v
		return t, nil
	case bool:
		t.Kind, t.Bool = eng.KindBool, v
	case j.Number:
		t.Kind, t.Number = eng.KindNumber, string(v)
	case float64:
		t.Kind, t.Number = eng.KindNumber, strconv.FormatFloat(v, 'g', -1, 64)
	default:
		t.Kind = eng.KindNull
	}
	s.keys.Value()
	return t, nil
}

// Location is unknown: go-json's Decoder does not report input offsets.
func (s *source) Location() int64 { return -1 }

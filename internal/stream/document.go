// Package stream splits a token stream holding several concatenated JSON
// values (JSON Lines, or values separated by whitespace) into one
// engine.TokenSource per value.
package stream

import (
	"io"

	eng "github.com/reoring/namespace/internal/engine"
)

// Document exposes exactly one top-level value of an underlying source and
// reports io.EOF once it is complete. Tokens after the value stay unread.
type Document struct {
	inner eng.TokenSource
	first *eng.Token
	depth int
	done  bool
}

// NewDocument returns a view over the value that starts with first, a token
// already taken from inner.
func NewDocument(inner eng.TokenSource, first eng.Token) *Document {
	return &Document{inner: inner, first: &first}
}

func (d *Document) NextToken() (eng.Token, error) {
	if d.done {
		return eng.Token{}, io.EOF
	}
	var tok eng.Token
	if d.first != nil {
		tok, d.first = *d.first, nil
	} else {
		var err error
		if tok, err = d.inner.NextToken(); err != nil {
			return eng.Token{}, err
		}
	}
	switch tok.Kind {
	case eng.KindBeginObject, eng.KindBeginArray:
		d.depth++
	case eng.KindEndObject, eng.KindEndArray:
		d.depth--
	}
	// A scalar at depth 0, or the end of the outermost container.
	if d.depth <= 0 {
		d.done = true
	}
	return tok, nil
}

func (d *Document) Location() int64 { return d.inner.Location() }

// Next reads the first token of the following value in src and returns a
// Document for it. It returns io.EOF when src is exhausted.
func Next(src eng.TokenSource) (*Document, error) {
	first, err := src.NextToken()
	if err != nil {
		return nil, err
	}
	return NewDocument(src, first), nil
}

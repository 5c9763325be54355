package namespace

import (
	"io"
	"sync"

	eng "github.com/reoring/namespace/internal/engine"
	gojsonsrc "github.com/reoring/namespace/source/gojson"
	jsonsrc "github.com/reoring/namespace/source/json"
)

// TokenKind enumerates JSON token kinds.
type TokenKind int

const (
	TokenBeginObject TokenKind = iota
	TokenEndObject
	TokenBeginArray
	TokenEndArray
	TokenKey
	TokenString
	TokenNumber
	TokenBool
	TokenNull
)

// Token describes a token in the input stream. Offset records the byte position
// when known (-1 otherwise).
type Token struct {
	Kind   TokenKind
	String string // Stored for key/string tokens.
	Number string // Stored as text; NumberMode controls downstream interpretation.
	Bool   bool
	Offset int64
}

// Source is a stream of JSON tokens. NextToken returns io.EOF after the last
// token.
type Source interface {
	NextToken() (Token, error)
	Location() int64 // byte offset; -1 if unknown
}

// JSONDriver converts JSON input into a Source via a pluggable SPI. The default
// implementation is based on goccy/go-json and may be swapped with
// SetJSONDriver.
type JSONDriver interface {
	NewReader(r io.Reader) Source
	Name() string
}

var (
	jsonDriverMu      sync.RWMutex
	currentJSONDriver JSONDriver = goJSONDriver{}
)

// SetJSONDriver replaces the global JSON driver; nil values are ignored.
func SetJSONDriver(d JSONDriver) {
	if d == nil {
		return
	}
	jsonDriverMu.Lock()
	currentJSONDriver = d
	jsonDriverMu.Unlock()
}

// UseDefaultJSONDriver restores the default go-json driver.
func UseDefaultJSONDriver() { SetJSONDriver(goJSONDriver{}) }

// CurrentJSONDriver returns the driver used by the decoding functions.
func CurrentJSONDriver() JSONDriver {
	jsonDriverMu.RLock()
	d := currentJSONDriver
	jsonDriverMu.RUnlock()
	return d
}

// GoJSONDriver returns the goccy/go-json driver (the default).
func GoJSONDriver() JSONDriver { return goJSONDriver{} }

// StdJSONDriver returns a driver backed by encoding/json. It reports byte
// offsets, which go-json does not.
func StdJSONDriver() JSONDriver { return stdJSONDriver{} }

type goJSONDriver struct{}

func (goJSONDriver) NewReader(r io.Reader) Source {
	return &engineSourceAdapter{inner: gojsonsrc.NewReader(r)}
}
func (goJSONDriver) Name() string { return "go-json" }

type stdJSONDriver struct{}

func (stdJSONDriver) NewReader(r io.Reader) Source {
	return &engineSourceAdapter{inner: jsonsrc.NewReader(r)}
}
func (stdJSONDriver) Name() string { return "encoding/json" }

// engineTokenSource exposes a Source to the internal engine, unwrapping the
// built-in adapters.
func engineTokenSource(s Source) eng.TokenSource {
	if ea, ok := s.(*engineSourceAdapter); ok {
		return ea.inner
	}
	return &sourceEngineAdapter{inner: s}
}

type engineSourceAdapter struct {
	inner eng.TokenSource
}

func (s *engineSourceAdapter) NextToken() (Token, error) {
	t, err := s.inner.NextToken()
	if err != nil {
		return Token{}, err
	}
	return Token{Kind: TokenKind(t.Kind), String: t.String, Number: t.Number, Bool: t.Bool, Offset: t.Offset}, nil
}
func (s *engineSourceAdapter) Location() int64 { return s.inner.Location() }

type sourceEngineAdapter struct {
	inner Source
}

func (s *sourceEngineAdapter) NextToken() (eng.Token, error) {
	t, err := s.inner.NextToken()
	if err != nil {
		return eng.Token{}, err
	}
	return eng.Token{Kind: eng.Kind(t.Kind), String: t.String, Number: t.Number, Bool: t.Bool, Offset: t.Offset}, nil
}
func (s *sourceEngineAdapter) Location() int64 { return s.inner.Location() }

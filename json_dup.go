package namespace

import (
	"bytes"
	"errors"
	"io"

	eng "github.com/reoring/namespace/internal/engine"
)

// DuplicateKeys scans the JSON document in r and returns one duplicate_key
// issue per repeated object member, with the member's dotted path. Nothing is
// decoded. Scanning stops after maxIssues issues; maxIssues <= 0 means no
// limit. Malformed input is an ErrParse error.
func DuplicateKeys(r io.Reader, maxIssues int) (Issues, error) {
	var iss Issues
	src := eng.WrapWithEnforcement(engineTokenSource(CurrentJSONDriver().NewReader(r)), eng.EnforceOptions{
		OnDuplicate: eng.DupWarn,
		IssueSink:   func(si eng.SimpleIssue) { iss = append(iss, fromEngineIssue(si)) },
	})
	depth, seen := 0, false
	for maxIssues <= 0 || len(iss) < maxIssues {
		tok, err := src.NextToken()
		if errors.Is(err, io.EOF) && seen && depth == 0 {
			break
		}
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		if err != nil {
			return iss, &Error{Code: CodeParseError, Message: "invalid JSON", Cause: err}
		}
		seen = true
		switch tok.Kind {
		case eng.KindBeginObject, eng.KindBeginArray:
			depth++
		case eng.KindEndObject, eng.KindEndArray:
			depth--
		}
	}
	if maxIssues > 0 && len(iss) > maxIssues {
		iss = iss[:maxIssues]
	}
	return iss, nil
}

// DuplicateKeysBytes is DuplicateKeys over a byte slice.
func DuplicateKeysBytes(data []byte, maxIssues int) (Issues, error) {
	return DuplicateKeys(bytes.NewReader(data), maxIssues)
}

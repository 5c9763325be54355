package namespace

import (
	"bytes"
	"strings"

	jsonpatch "github.com/evanphx/json-patch/v5"
)

// Patch applies an RFC 6902 JSON Patch to the nested form of n and returns
// the result as a new node of n's Kind. n is not modified.
func (n *Namespace) Patch(ops []byte) (*Namespace, error) {
	patch, err := jsonpatch.DecodePatch(ops)
	if err != nil {
		return nil, &Error{Code: CodeParseError, Message: "invalid JSON patch", Cause: err}
	}
	doc, err := n.MarshalJSON()
	if err != nil {
		return nil, &Error{Code: CodePatchFailed, Message: "encoding document", Cause: err}
	}
	out, err := patch.Apply(doc)
	if err != nil {
		return nil, &Error{Code: CodePatchFailed, Message: "applying JSON patch", Cause: err}
	}
	return n.fromPatched(out)
}

// MergePatch applies an RFC 7386 JSON Merge Patch to the nested form of n and
// returns the result as a new node of n's Kind. n is not modified.
func (n *Namespace) MergePatch(doc []byte) (*Namespace, error) {
	base, err := n.MarshalJSON()
	if err != nil {
		return nil, &Error{Code: CodePatchFailed, Message: "encoding document", Cause: err}
	}
	out, err := jsonpatch.MergePatch(base, doc)
	if err != nil {
		return nil, &Error{Code: CodePatchFailed, Message: "applying merge patch", Cause: err}
	}
	return n.fromPatched(out)
}

func (n *Namespace) fromPatched(doc []byte) (*Namespace, error) {
	m, err := decodeJSONMap(bytes.NewReader(doc), DecodeOpt{Kind: n.Kind()})
	if err != nil {
		return nil, err
	}
	out := n.spawn()
	if err := out.FromDict(m); err != nil {
		return nil, err
	}
	return out, nil
}

// Merge returns a new node of n's Kind holding n's leaves overridden by
// other's, compared by dotted path. A leaf in other replaces any subtree of n
// at the same path and the other way round, so the result never conflicts.
// Neither input is modified.
func (n *Namespace) Merge(other *Namespace) (*Namespace, error) {
	flat := n.Flat("")
	for k, v := range other.Flat("").All() {
		for _, existing := range flat.Keys() {
			if overlaps(existing, k) {
				flat.Delete(existing)
			}
		}
		flat.Set(k, v)
	}
	out := n.spawn()
	if err := out.FromDict(flat); err != nil {
		return nil, err
	}
	return out, nil
}

// overlaps reports whether a and b are the same path or one lies under the
// other.
func overlaps(a, b string) bool {
	return a == b || strings.HasPrefix(a, b+Separator) || strings.HasPrefix(b, a+Separator)
}

// Package namespace provides a nested store addressed by dotted paths:
//
// - Namespace nodes with attribute-style access that creates missing children on read
// - Population from flat or nested mappings (dotted keys expanded, 0..N-1 keys turned into sequences)
// - Non-mutating membership checks (Contains) and strict traversal through nodes, maps and sequences
// - Export as flat dotted maps (AsDict), nested maps (ForJSON), JSON and YAML
// - JSON decoding through a pluggable token driver with duplicate-key/depth/size enforcement
// - JSON Lines streams (DecodeJSONSeq) and a decode-free duplicate-key scan (DuplicateKeys)
// - RFC 6902 / RFC 7386 patches and expr-lang expressions over a tree
//
// Two kinds ship with the package: NamespaceKind accepts word-like field names,
// KeyspaceKind accepts any string and key-style assignment.
//
// Design policy:
// - Keep only public APIs in the root package; put token decoding under internal/ and source/.
// - The CLI lives under cmd/nsq.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	ns, err := namespace.From(map[string]any{"foo.bar": 1, "items": map[string]any{"0": "a", "1": "b"}})
//	ns.Child("foo").Get("bar")   // 1
//	ns.Contains("foo.baz")       // false, and nothing is created
//	ns.AsDict("")                // {"foo.bar": 1, "items": ["a", "b"]}
//
//	ns, err = namespace.DecodeJSON(r, namespace.DecodeOpt{Strictness: namespace.Strictness{OnDuplicateKey: namespace.Reject}})
//	out, err := ns.Eval(`has("foo.bar") && get("items.1") == "b"`)
package namespace

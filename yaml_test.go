package namespace_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/reoring/namespace"
)

const anchoredYAML = `
base: &base
  host: localhost
  port: 80
prod:
  <<: *base
  port: 443
list:
  0: a
  1: b
dotted.key: 1
`

func TestFromYAML_AnchorsMergeAndCoercion(t *testing.T) {
	ns, err := namespace.FromYAML([]byte(anchoredYAML))
	if err != nil {
		t.Fatalf("FromYAML: %v", err)
	}
	want := map[string]any{
		"base":   map[string]any{"host": "localhost", "port": 80},
		"prod":   map[string]any{"host": "localhost", "port": 443},
		"list":   []any{"a", "b"},
		"dotted": map[string]any{"key": 1},
	}
	if diff := cmp.Diff(want, ns.ForJSON("")); diff != "" {
		t.Fatalf("ForJSON (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"host", "port"}, ns.Child("prod").Names()); diff != "" {
		t.Fatalf("prod names (-want +got):\n%s", diff)
	}
}

func TestDecodeYAML_Options(t *testing.T) {
	data := "a: 1\na: 2\n"
	ns, err := namespace.DecodeYAML(strings.NewReader(data), namespace.DecodeOpt{})
	if err != nil {
		t.Fatalf("ignore: %v", err)
	}
	if ns.Get("a") != 2 {
		t.Fatalf("later duplicate should win, got %v", ns.Get("a"))
	}

	_, err = namespace.DecodeYAML(strings.NewReader(data), namespace.DecodeOpt{
		Strictness: namespace.Strictness{OnDuplicateKey: namespace.Reject},
	})
	if !errors.Is(err, namespace.ErrDuplicateKey) {
		t.Fatalf("reject: expected ErrDuplicateKey, got %v", err)
	}

	ks, err := namespace.DecodeYAML(strings.NewReader("key-name: {n: 1.5}\n"), namespace.DecodeOpt{
		Kind:    namespace.KeyspaceKind,
		Numbers: namespace.NumberFloat64,
	})
	if err != nil {
		t.Fatalf("keyspace: %v", err)
	}
	if v, _ := ks.Traverse("key-name", "n"); v != 1.5 {
		t.Fatalf("key-name.n = %v", v)
	}

	_, err = namespace.DecodeYAML(strings.NewReader("a:\n  b:\n    c: 1\n"), namespace.DecodeOpt{MaxDepth: 2})
	if !errors.Is(err, namespace.ErrParse) {
		t.Fatalf("max depth: expected ErrParse, got %v", err)
	}
}

func TestDecodeYAML_Errors(t *testing.T) {
	if _, err := namespace.FromYAML([]byte("- a\n- b\n")); !errors.Is(err, namespace.ErrInvalidInput) {
		t.Fatalf("sequence: expected ErrInvalidInput, got %v", err)
	}
	if _, err := namespace.FromYAML([]byte("a: [1\n")); !errors.Is(err, namespace.ErrParse) {
		t.Fatalf("syntax: expected ErrParse, got %v", err)
	}
	ns, err := namespace.FromYAML(nil)
	if err != nil || !ns.Empty() {
		t.Fatalf("empty document: %v %v", ns, err)
	}
}

func TestToYAML_KeepsOrder(t *testing.T) {
	ns := namespace.New()
	_ = ns.Set("z", 1)
	_ = ns.SetPath("a.b", "x")
	_ = ns.Set("l", []any{1, 2})
	ns.Get("empty")

	out, err := ns.ToYAML()
	if err != nil {
		t.Fatalf("ToYAML: %v", err)
	}
	var back map[string]any
	if err := yaml.Unmarshal(out, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	want := map[string]any{"z": 1, "a": map[string]any{"b": "x"}, "l": []any{1, 2}}
	if diff := cmp.Diff(want, back); diff != "" {
		t.Fatalf("ToYAML content (-want +got):\n%s", diff)
	}
	text := string(out)
	if !(strings.Index(text, "z:") < strings.Index(text, "a:") && strings.Index(text, "a:") < strings.Index(text, "l:")) {
		t.Fatalf("ToYAML lost field order:\n%s", text)
	}
}

func TestYAML_UnmarshalInterop(t *testing.T) {
	var doc struct {
		Config *namespace.Namespace `yaml:"config"`
	}
	doc.Config = namespace.NewKeyspace()
	if err := yaml.Unmarshal([]byte("config:\n  a-b: 1\n  c.d: 2\n"), &doc); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"a-b": 1, "c.d": 2}, doc.Config.AsDict("")); diff != "" {
		t.Fatalf("AsDict (-want +got):\n%s", diff)
	}
}

func TestDecodeYAML_KeyTypes(t *testing.T) {
	for _, doc := range []string{"x:\n  1.5: a\n", "true: a\n", "~: a\n"} {
		_, err := namespace.DecodeYAML(strings.NewReader(doc), namespace.DecodeOpt{Kind: namespace.KeyspaceKind})
		if !errors.Is(err, namespace.ErrInvalidName) {
			t.Fatalf("%q: expected ErrInvalidName, got %v", doc, err)
		}
	}
	var e *namespace.Error
	if _, err := namespace.FromYAML([]byte("x:\n  1.5: a\n")); !errors.As(err, &e) || e.Path != "x.1.5" {
		t.Fatalf("error path: %v", err)
	}

	ns, err := namespace.FromYAML([]byte("x:\n  0: a\n  1: b\n\"1.5\": c\n"))
	if err != nil {
		t.Fatalf("integer and quoted keys: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"x": []any{"a", "b"}, "1.5": "c"}, ns.AsDict("")); diff != "" {
		t.Fatalf("AsDict (-want +got):\n%s", diff)
	}
}

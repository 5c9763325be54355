package namespace_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/reoring/namespace"
)

func TestPatch(t *testing.T) {
	ns := mustFrom(t, map[string]any{"a": map[string]any{"b": 1}, "l": []any{1}})
	out, err := ns.Patch([]byte(`[
		{"op":"replace","path":"/a/b","value":2},
		{"op":"add","path":"/l/-","value":3},
		{"op":"add","path":"/c","value":{"0":"x","1":"y"}}
	]`))
	if err != nil {
		t.Fatalf("Patch: %v", err)
	}
	want := map[string]any{"a": map[string]any{"b": 2}, "l": []any{1, 3}, "c": []any{"x", "y"}}
	if diff := cmp.Diff(want, out.ForJSON("")); diff != "" {
		t.Fatalf("patched (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]any{"a.b": 1, "l": []any{1}}, ns.AsDict("")); diff != "" {
		t.Fatalf("receiver modified (-want +got):\n%s", diff)
	}
}

func TestPatch_Errors(t *testing.T) {
	ns := mustFrom(t, map[string]any{"a": 1})
	if _, err := ns.Patch([]byte(`{"op":`)); !errors.Is(err, namespace.ErrParse) {
		t.Fatalf("invalid patch: expected ErrParse, got %v", err)
	}
	if _, err := ns.Patch([]byte(`[{"op":"remove","path":"/missing"}]`)); !errors.Is(err, namespace.ErrPatchFailed) {
		t.Fatalf("failed op: expected ErrPatchFailed, got %v", err)
	}
	if _, err := ns.Patch([]byte(`[{"op":"add","path":"/bad-name","value":1}]`)); !errors.Is(err, namespace.ErrInvalidName) {
		t.Fatalf("invalid result: expected ErrInvalidName, got %v", err)
	}
}

func TestMergePatch(t *testing.T) {
	ks, err := namespace.FromKeyspace(map[string]any{"a": map[string]any{"b": 1, "c": 2}, "key-name": true})
	if err != nil {
		t.Fatalf("FromKeyspace: %v", err)
	}
	out, err := ks.MergePatch([]byte(`{"a":{"b":null,"d":4},"key-name":false}`))
	if err != nil {
		t.Fatalf("MergePatch: %v", err)
	}
	if out.Kind() != namespace.KeyspaceKind {
		t.Fatalf("kind: %s", out.Kind().Name())
	}
	want := map[string]any{"a.c": 2, "a.d": 4, "key-name": false}
	if diff := cmp.Diff(want, out.AsDict("")); diff != "" {
		t.Fatalf("merged (-want +got):\n%s", diff)
	}
	if _, err := ks.MergePatch([]byte(`{`)); !errors.Is(err, namespace.ErrPatchFailed) {
		t.Fatalf("invalid merge patch: expected ErrPatchFailed, got %v", err)
	}
}

func TestMerge(t *testing.T) {
	a := mustFrom(t, map[string]any{"x": map[string]any{"y": 1, "z": 2}, "k": 1, "s": map[string]any{"t": 1}})
	b := mustFrom(t, map[string]any{"x": map[string]any{"y": 5}, "k": map[string]any{"n": 1}, "s": 9})

	out, err := a.Merge(b)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	want := map[string]any{"x.y": 5, "x.z": 2, "k.n": 1, "s": 9}
	if diff := cmp.Diff(want, out.AsDict("")); diff != "" {
		t.Fatalf("merged (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]any{"x.y": 1, "x.z": 2, "k": 1, "s.t": 1}, a.AsDict("")); diff != "" {
		t.Fatalf("receiver modified (-want +got):\n%s", diff)
	}
}

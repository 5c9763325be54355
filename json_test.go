package namespace_test

import (
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/reoring/namespace"
)

func TestFromJSON_KeepsOrderAndExpands(t *testing.T) {
	ns, err := namespace.FromJSON([]byte(`{"z":1,"a.b":2,"a":{"c":3},"list":{"0":"x","1":"y"}}`))
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if diff := cmp.Diff([]string{"z", "a", "list"}, ns.Names()); diff != "" {
		t.Fatalf("names (-want +got):\n%s", diff)
	}
	out, err := ns.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	if want := `{"z":1,"a":{"b":2,"c":3},"list":["x","y"]}`; string(out) != want {
		t.Fatalf("MarshalJSON:\n got %s\nwant %s", out, want)
	}
}

func TestDecodeJSON_NumberModes(t *testing.T) {
	data := `{"i":1,"f":1.5}`
	cases := []struct {
		mode  namespace.NumberMode
		wantI any
		wantF any
	}{
		{namespace.NumberAuto, 1, 1.5},
		{namespace.NumberFloat64, float64(1), 1.5},
		{namespace.NumberJSONNumber, json.Number("1"), json.Number("1.5")},
	}
	for _, c := range cases {
		ns, err := namespace.DecodeJSON(strings.NewReader(data), namespace.DecodeOpt{Numbers: c.mode})
		if err != nil {
			t.Fatalf("mode %d: %v", c.mode, err)
		}
		if got := ns.Get("i"); got != c.wantI {
			t.Fatalf("mode %d: i = %#v, want %#v", c.mode, got, c.wantI)
		}
		if got := ns.Get("f"); got != c.wantF {
			t.Fatalf("mode %d: f = %#v, want %#v", c.mode, got, c.wantF)
		}
	}
}

func TestDecodeJSON_DuplicateKeys(t *testing.T) {
	data := `{"x":{"a":1,"a":2}}`

	ns, err := namespace.DecodeJSON(strings.NewReader(data), namespace.DecodeOpt{})
	if err != nil {
		t.Fatalf("ignore: %v", err)
	}
	if v, _ := ns.Item("x.a"); v != 2 {
		t.Fatalf("later duplicate should win, got %v", v)
	}

	var seen []*namespace.Error
	_, err = namespace.DecodeJSON(strings.NewReader(data), namespace.DecodeOpt{
		Strictness: namespace.Strictness{OnDuplicateKey: namespace.Warn},
		OnIssue:    func(e *namespace.Error) { seen = append(seen, e) },
	})
	if err != nil {
		t.Fatalf("warn: %v", err)
	}
	if len(seen) != 1 || seen[0].Code != namespace.CodeDuplicateKey || seen[0].Path != "x.a" {
		t.Fatalf("expected one duplicate_key issue at x.a, got %v", seen)
	}

	_, err = namespace.DecodeJSON(strings.NewReader(data), namespace.DecodeOpt{
		Strictness: namespace.Strictness{OnDuplicateKey: namespace.Reject},
	})
	if !errors.Is(err, namespace.ErrDuplicateKey) {
		t.Fatalf("reject: expected ErrDuplicateKey, got %v", err)
	}
}

func TestDecodeJSON_Limits(t *testing.T) {
	_, err := namespace.DecodeJSON(strings.NewReader(`{"a":{"b":{"c":1}}}`), namespace.DecodeOpt{MaxDepth: 2})
	if !errors.Is(err, namespace.ErrParse) {
		t.Fatalf("max depth: expected ErrParse, got %v", err)
	}
	if _, err := namespace.DecodeJSON(strings.NewReader(`{"a":{"b":1}}`), namespace.DecodeOpt{MaxDepth: 2}); err != nil {
		t.Fatalf("within depth: %v", err)
	}

	_, err = namespace.DecodeJSON(strings.NewReader(`{"a":"0123456789"}`), namespace.DecodeOpt{MaxBytes: 8})
	if !errors.Is(err, namespace.ErrTruncated) {
		t.Fatalf("max bytes: expected ErrTruncated, got %v", err)
	}
}

func TestDecodeJSON_Errors(t *testing.T) {
	cases := []struct {
		in   string
		want error
	}{
		{`[1,2]`, namespace.ErrInvalidInput},
		{`"str"`, namespace.ErrInvalidInput},
		{`{"a":`, namespace.ErrParse},
		{`{} {}`, namespace.ErrParse},
		{``, namespace.ErrParse},
		{`{"bad-name":1}`, namespace.ErrInvalidName},
	}
	for _, c := range cases {
		if _, err := namespace.FromJSON([]byte(c.in)); !errors.Is(err, c.want) {
			t.Fatalf("%q: expected %v, got %v", c.in, c.want, err)
		}
	}
}

func TestStdJSONDriver(t *testing.T) {
	namespace.SetJSONDriver(namespace.StdJSONDriver())
	defer namespace.UseDefaultJSONDriver()

	if got := namespace.CurrentJSONDriver().Name(); got != "encoding/json" {
		t.Fatalf("driver: %s", got)
	}
	ns, err := namespace.DecodeJSON(strings.NewReader(`{"b":1,"a":[true,null,"s"]}`), namespace.DecodeOpt{MaxBytes: 1 << 10})
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"b": 1, "a": []any{true, nil, "s"}}, ns.ForJSON("")); diff != "" {
		t.Fatalf("ForJSON (-want +got):\n%s", diff)
	}
}

type countingDriver struct{ tokens *int }

func (d countingDriver) NewReader(r io.Reader) namespace.Source {
	return &countingSource{inner: namespace.GoJSONDriver().NewReader(r), tokens: d.tokens}
}
func (countingDriver) Name() string { return "counting" }

type countingSource struct {
	inner  namespace.Source
	tokens *int
}

func (s *countingSource) NextToken() (namespace.Token, error) {
	tok, err := s.inner.NextToken()
	if err == nil {
		*s.tokens++
	}
	return tok, err
}
func (s *countingSource) Location() int64 { return s.inner.Location() }

func TestSetJSONDriver_CustomSource(t *testing.T) {
	var n int
	namespace.SetJSONDriver(countingDriver{tokens: &n})
	defer namespace.UseDefaultJSONDriver()
	namespace.SetJSONDriver(nil)

	ns, err := namespace.FromJSON([]byte(`{"a":{"b":1}}`))
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if v, _ := ns.Item("a.b"); v != 1 {
		t.Fatalf("a.b = %v", v)
	}
	if n != 7 {
		t.Fatalf("expected 7 tokens through the custom source, got %d", n)
	}
}

func TestJSON_StdlibInterop(t *testing.T) {
	ks := namespace.NewKeyspace()
	if err := json.Unmarshal([]byte(`{"a-b":{"c":1}}`), ks); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if k := ks.Child("a-b").Kind(); k != namespace.KeyspaceKind {
		t.Fatalf("kind: %s", k.Name())
	}

	_ = ks.Set("lazy", namespace.Computed(func() any { return "v" }))
	ks.Get("empty")
	out, err := json.Marshal(map[string]any{"doc": ks})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if want := `{"doc":{"a-b":{"c":1},"lazy":"v"}}`; string(out) != want {
		t.Fatalf("Marshal:\n got %s\nwant %s", out, want)
	}
}

func TestDecodeJSONSeq(t *testing.T) {
	in := "{\"a.b\":1}\n{\"a\":{\"b\":2}}\n\n  {\"c\":[3]}\n"
	var got []map[string]any
	for ns, err := range namespace.DecodeJSONSeq(strings.NewReader(in), namespace.DecodeOpt{}) {
		if err != nil {
			t.Fatalf("DecodeJSONSeq: %v", err)
		}
		got = append(got, ns.AsDict(""))
	}
	want := []map[string]any{{"a.b": 1}, {"a.b": 2}, {"c": []any{3}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("documents (-want +got):\n%s", diff)
	}
}

func TestDecodeJSONSeq_StopsAtFirstError(t *testing.T) {
	cases := []struct {
		name string
		in   string
		opt  namespace.DecodeOpt
		want error
	}{
		{"not an object", `{"a":1} [1]`, namespace.DecodeOpt{}, namespace.ErrInvalidInput},
		{"malformed", `{"a":1} {"b":`, namespace.DecodeOpt{}, namespace.ErrParse},
		{"duplicate", `{"a":1} {"b":1,"b":2}`, namespace.DecodeOpt{Strictness: namespace.Strictness{OnDuplicateKey: namespace.Reject}}, namespace.ErrDuplicateKey},
		{"too large", `{"a":1} {"b":2} {"c":3}`, namespace.DecodeOpt{MaxBytes: 10}, namespace.ErrTruncated},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var docs int
			var errs []error
			for ns, err := range namespace.DecodeJSONSeq(strings.NewReader(c.in), c.opt) {
				if err != nil {
					errs = append(errs, err)
					continue
				}
				if ns == nil {
					t.Fatalf("nil node without error")
				}
				docs++
			}
			if docs != 1 {
				t.Fatalf("expected 1 document before the error, got %d", docs)
			}
			if len(errs) != 1 || !errors.Is(errs[0], c.want) {
				t.Fatalf("expected one %v, got %v", c.want, errs)
			}
		})
	}
}

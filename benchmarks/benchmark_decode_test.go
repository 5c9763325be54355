// Package benchmarks_test measures decoding and population. Run with
// -tags stdjson to decode through encoding/json instead of go-json.
package benchmarks_test

import (
	"bytes"
	"strconv"
	"testing"

	"github.com/reoring/namespace"
)

// Micro: small object with numeric fields
var smallDoc = []byte(`{"a":1,"b":2.5,"c":-3.75,"d.e":"x"}`)

func benchmarkDecode(b *testing.B, data []byte, opt namespace.DecodeOpt) {
	b.Helper()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := namespace.DecodeJSON(bytes.NewReader(data), opt); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_Decode_Small_Auto(b *testing.B) {
	benchmarkDecode(b, smallDoc, namespace.DecodeOpt{})
}

func Benchmark_Decode_Small_Float64(b *testing.B) {
	benchmarkDecode(b, smallDoc, namespace.DecodeOpt{Numbers: namespace.NumberFloat64})
}

func Benchmark_Decode_Small_JSONNumber(b *testing.B) {
	benchmarkDecode(b, smallDoc, namespace.DecodeOpt{Numbers: namespace.NumberJSONNumber})
}

func Benchmark_Decode_Small_DuplicateCheck(b *testing.B) {
	benchmarkDecode(b, smallDoc, namespace.DecodeOpt{
		Strictness: namespace.Strictness{OnDuplicateKey: namespace.Reject},
		MaxDepth:   32,
	})
}

// Macro: large sequence of small numeric objects
func generateItems(num int) []byte {
	var buf bytes.Buffer
	buf.Grow(num * 48)
	buf.WriteString(`{"items":[`)
	for i := 0; i < num; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		// oscillate values to avoid trivial constant folding
		buf.WriteString(`{"x":`)
		buf.WriteString(strconv.Itoa(i))
		buf.WriteString(`,"y":`)
		if i%2 == 0 {
			buf.WriteString("1.5")
		} else {
			buf.WriteString("2.5")
		}
		buf.WriteString(`,"p.q":-3.75}`)
	}
	buf.WriteString(`]}`)
	return buf.Bytes()
}

const hugeN = 20000

func Benchmark_Decode_Huge_Auto(b *testing.B) {
	benchmarkDecode(b, generateItems(hugeN), namespace.DecodeOpt{})
}

func Benchmark_Decode_Huge_JSONNumber(b *testing.B) {
	benchmarkDecode(b, generateItems(hugeN), namespace.DecodeOpt{Numbers: namespace.NumberJSONNumber})
}

func Benchmark_DuplicateKeys_Huge(b *testing.B) {
	data := generateItems(hugeN)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := namespace.DuplicateKeysBytes(data, 0); err != nil {
			b.Fatal(err)
		}
	}
}

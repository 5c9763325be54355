//go:build stdjson

package benchmarks_test

import "github.com/reoring/namespace"

func init() {
	namespace.SetJSONDriver(namespace.StdJSONDriver())
}

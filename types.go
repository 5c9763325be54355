package namespace

// NumberMode dictates how decoded JSON numbers are represented.
type NumberMode int

const (
	NumberAuto       NumberMode = iota // int when the literal is an integer that fits, float64 otherwise.
	NumberFloat64                      // Always float64 (with potential precision loss).
	NumberJSONNumber                   // Preserve json.Number text.
)

// Severity expresses how a decoding issue is handled.
type Severity int

const (
	Ignore Severity = iota // Accept silently.
	Warn                   // Accept and report through DecodeOpt.OnIssue.
	Reject                 // Fail decoding.
)

// Strictness configures enforcement for duplicate keys.
type Strictness struct {
	OnDuplicateKey Severity // Later duplicates win unless Reject.
}

// DecodeOpt bundles decoding options for DecodeJSON and DecodeYAML.
type DecodeOpt struct {
	Kind       Kind // Kind of the produced node; nil means NamespaceKind.
	Numbers    NumberMode
	Strictness Strictness
	MaxDepth   int   // 0 disables the nesting limit.
	MaxBytes   int64 // 0 disables the size limit.
	// OnIssue receives non-fatal issues (for example duplicate keys under Warn).
	OnIssue func(*Error)
}

func (o DecodeOpt) kind() Kind {
	if o.Kind == nil {
		return NamespaceKind
	}
	return o.Kind
}

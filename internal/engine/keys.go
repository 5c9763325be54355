package engine

// KeyTracker tells object keys apart from string values for decoders that
// only report delimiters and scalars (encoding/json and go-json Token APIs).
type KeyTracker struct {
	stack []keyFrame
}

type keyFrame struct {
	object       bool
	expectingKey bool
}

// Open records the start of an object or array.
func (k *KeyTracker) Open(object bool) {
	k.stack = append(k.stack, keyFrame{object: object, expectingKey: object})
}

// Close records the end of the innermost container, which is itself a value
// of its parent.
func (k *KeyTracker) Close() {
	if n := len(k.stack); n > 0 {
		k.stack = k.stack[:n-1]
	}
	k.Value()
}

// String classifies a string token as a key or a string value.
func (k *KeyTracker) String() Kind {
	if n := len(k.stack); n > 0 {
		top := &k.stack[n-1]
		if top.object && top.expectingKey {
			top.expectingKey = false
			return KindKey
		}
	}
	k.Value()
	return KindString
}

// Value records that a member value completed.
func (k *KeyTracker) Value() {
	if n := len(k.stack); n > 0 {
		top := &k.stack[n-1]
		if top.object && !top.expectingKey {
			top.expectingKey = true
		}
	}
}

package namespace

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"
)

const yamlMergeTag = "!!merge"

// FromYAML decodes the first YAML document of data into a new Namespace.
func FromYAML(data []byte) (*Namespace, error) {
	return DecodeYAML(bytes.NewReader(data), DecodeOpt{})
}

// DecodeYAML decodes the first YAML document from r into a new node of
// opt.Kind. Mapping order is kept, aliases are resolved and merge keys (<<)
// are applied; integer keys are kept in decimal form so that sequences written
// as {0: a, 1: b} coerce like their JSON counterparts. An empty document
// yields an empty node.
func DecodeYAML(r io.Reader, opt DecodeOpt) (*Namespace, error) {
	if opt.MaxBytes > 0 {
		data, err := io.ReadAll(io.LimitReader(r, opt.MaxBytes+1))
		if err != nil {
			return nil, &Error{Code: CodeParseError, Message: "reading input", Cause: err}
		}
		if int64(len(data)) > opt.MaxBytes {
			e := &Error{Code: CodeTruncated, Message: "max bytes exceeded"}
			opt.report(e)
			return nil, e
		}
		r = bytes.NewReader(data)
	}
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return NewKind(opt.kind()), nil
		}
		return nil, &Error{Code: CodeParseError, Message: "invalid YAML", Cause: err}
	}
	m, err := yamlMapping(&doc, opt)
	if err != nil {
		return nil, err
	}
	return FromKind(opt.kind(), m)
}

// UnmarshalYAML populates n from a YAML mapping node, as FromDict does.
func (n *Namespace) UnmarshalYAML(value *yaml.Node) error {
	m, err := yamlMapping(value, DecodeOpt{Kind: n.Kind()})
	if err != nil {
		return err
	}
	return n.FromDict(m)
}

// MarshalYAML returns the nested form (see ForJSON) as an ordered mapping
// node.
func (n *Namespace) MarshalYAML() (any, error) {
	return yamlNode(n.ordered())
}

// ToYAML encodes n as a YAML document.
func (n *Namespace) ToYAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(n); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func yamlMapping(node *yaml.Node, opt DecodeOpt) (*Map, error) {
	d := &yamlDecoder{opt: opt}
	v, err := d.value(node, Root(), 0)
	if err != nil {
		return nil, err
	}
	switch t := v.(type) {
	case *Map:
		return t, nil
	case nil:
		return NewMap(), nil
	default:
		return nil, &Error{Code: CodeInvalidInput, Message: "top-level YAML value is not a mapping"}
	}
}

func isMergeKey(k *yaml.Node) bool {
	return k.Kind == yaml.ScalarNode && (k.Tag == yamlMergeTag || (k.Tag == "" && k.Value == "<<"))
}

type yamlDecoder struct {
	opt DecodeOpt
}

func (d *yamlDecoder) value(node *yaml.Node, at Path, depth int) (any, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return d.value(node.Content[0], at, depth)
	case yaml.AliasNode:
		return d.value(node.Alias, at, depth)
	case yaml.MappingNode:
		if err := d.enter(at, depth); err != nil {
			return nil, err
		}
		return d.mapping(node, at, depth+1)
	case yaml.SequenceNode:
		if err := d.enter(at, depth); err != nil {
			return nil, err
		}
		out := make([]any, 0, len(node.Content))
		for i, c := range node.Content {
			v, err := d.value(c, at.Index(i), depth+1)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.ScalarNode:
		return d.scalar(node, at)
	}
	return nil, errorAt(CodeParseError, at, "unexpected YAML node kind %d", node.Kind)
}

func (d *yamlDecoder) enter(at Path, depth int) error {
	if d.opt.MaxDepth > 0 && depth >= d.opt.MaxDepth {
		return errorAt(CodeParseError, at, "max depth exceeded")
	}
	return nil
}

func (d *yamlDecoder) mapping(node *yaml.Node, at Path, depth int) (*Map, error) {
	out := NewMap()
	explicit := make(map[string]bool, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]
		if isMergeKey(k) {
			if err := d.merge(out, v, at, depth); err != nil {
				return nil, err
			}
			continue
		}
		var kv any
		if err := k.Decode(&kv); err != nil {
			return nil, &Error{Code: CodeParseError, Path: at.String(), Message: "invalid mapping key", Cause: err}
		}
		switch kv.(type) {
		case string, int, int64, uint64:
		default:
			// A float key such as 1.5 would be split on its dot.
			return nil, errorAt(CodeInvalidName, at.Field(k.Value), "mapping key %q (%s) is neither a string nor an integer", k.Value, k.ShortTag())
		}
		key := keyString(kv)
		if explicit[key] {
			if err := d.duplicate(at.Field(key), key); err != nil {
				return nil, err
			}
		}
		explicit[key] = true
		val, err := d.value(v, at.Field(key), depth)
		if err != nil {
			return nil, err
		}
		out.Set(key, val)
	}
	return out, nil
}

// merge applies a << value: a mapping or a sequence of mappings. Keys already
// present are kept, and earlier mappings in a sequence take precedence.
func (d *yamlDecoder) merge(dst *Map, node *yaml.Node, at Path, depth int) error {
	if node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	sources := []*yaml.Node{node}
	if node.Kind == yaml.SequenceNode {
		sources = node.Content
	}
	for _, src := range sources {
		v, err := d.value(src, at, depth)
		if err != nil {
			return err
		}
		m, ok := v.(*Map)
		if !ok {
			return errorAt(CodeInvalidInput, at, "merge key value must be a mapping")
		}
		for k, e := range m.All() {
			if _, exists := dst.Get(k); !exists {
				dst.Set(k, e)
			}
		}
	}
	return nil
}

func (d *yamlDecoder) duplicate(at Path, key string) error {
	e := errorAt(CodeDuplicateKey, at, "key '%s' duplicated", key)
	switch d.opt.Strictness.OnDuplicateKey {
	case Reject:
		return e
	case Warn:
		d.opt.report(e)
	}
	return nil
}

func (d *yamlDecoder) scalar(node *yaml.Node, at Path) (any, error) {
	var v any
	if err := node.Decode(&v); err != nil {
		return nil, &Error{Code: CodeParseError, Path: at.String(), Message: "invalid scalar " + strconv.Quote(node.Value), Cause: err}
	}
	switch t := v.(type) {
	case int:
		switch d.opt.Numbers {
		case NumberFloat64:
			return float64(t), nil
		case NumberJSONNumber:
			return json.Number(strconv.Itoa(t)), nil
		}
	case float64:
		if d.opt.Numbers == NumberJSONNumber {
			return json.Number(strconv.FormatFloat(t, 'g', -1, 64)), nil
		}
	}
	return v, nil
}

// yamlNode converts exported values into YAML nodes keeping *Map order.
func yamlNode(v any) (*yaml.Node, error) {
	switch t := v.(type) {
	case *Map:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for k, e := range t.All() {
			vn, err := yamlNode(e)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}, vn)
		}
		return node, nil
	case *Namespace:
		return yamlNode(t.ordered())
	case map[string]any:
		m, _ := toMap(t)
		return yamlNode(m)
	case Computed:
		return yamlNode(resolve(t))
	case json.Number:
		tag := "!!float"
		if _, err := t.Int64(); err == nil {
			tag = "!!int"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: t.String()}, nil
	}
	if seq, ok := seqOf(v); ok {
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, e := range seq {
			en, err := yamlNode(e)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, en)
		}
		return node, nil
	}
	node := &yaml.Node{}
	if err := node.Encode(v); err != nil {
		return nil, err
	}
	return node, nil
}

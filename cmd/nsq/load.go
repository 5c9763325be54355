package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	gojson "github.com/goccy/go-json"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/reoring/namespace"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

// load reads a document from name ("-" for stdin) and populates a namespace.
func (a *app) load(name string) (*namespace.Namespace, error) {
	data, err := a.read(name)
	if err != nil {
		return nil, err
	}
	opt := a.decodeOpt(name)

	format, err := a.inputFormat(name, data)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("loading document", zap.String("file", name), zap.String("format", format), zap.Int("bytes", len(data)))

	var ns *namespace.Namespace
	switch format {
	case formatYAML:
		ns, err = namespace.DecodeYAML(bytes.NewReader(data), opt)
	default:
		ns, err = namespace.DecodeJSON(bytes.NewReader(data), opt)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return ns, nil
}

// decodeOpt maps the global flags onto decode options. Issues are logged.
func (a *app) decodeOpt(name string) namespace.DecodeOpt {
	opt := namespace.DecodeOpt{
		Strictness: namespace.Strictness{OnDuplicateKey: namespace.Warn},
		OnIssue: func(e *namespace.Error) {
			a.logger.Warn("input issue", zap.String("file", name), zap.String("code", e.Code), zap.String("path", e.Path), zap.String("message", e.Message))
		},
	}
	opt.Kind = a.kind()
	if a.strict {
		opt.Strictness.OnDuplicateKey = namespace.Reject
	}
	return opt
}

func (a *app) kind() namespace.Kind {
	if a.keyspace {
		return namespace.KeyspaceKind
	}
	return namespace.NamespaceKind
}

func (a *app) read(name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(a.stdin)
	}
	return os.ReadFile(name)
}

// inputFormat honours --format, then the file extension, then sniffs the
// first non-space byte.
func (a *app) inputFormat(name string, data []byte) (string, error) {
	switch strings.ToLower(a.format) {
	case formatJSON:
		return formatJSON, nil
	case formatYAML, "yml":
		return formatYAML, nil
	case "":
	default:
		return "", fmt.Errorf("unknown input format %q", a.format)
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return formatJSON, nil
	case ".yaml", ".yml":
		return formatYAML, nil
	}
	if t := bytes.TrimSpace(data); len(t) > 0 && (t[0] == '{' || t[0] == '[') {
		return formatJSON, nil
	}
	return formatYAML, nil
}

// write encodes v in the --output format followed by a newline.
func (a *app) write(v any) error {
	switch strings.ToLower(a.output) {
	case formatYAML, "yml":
		enc := yaml.NewEncoder(a.stdout)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case formatJSON:
		b, err := gojson.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(a.stdout, "%s\n", b)
		return err
	default:
		return fmt.Errorf("unknown output format %q", a.output)
	}
}

package main

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
	"strings"

	gojson "github.com/goccy/go-json"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/reoring/namespace"
)

func newFlattenCmd(a *app) *cobra.Command {
	var (
		prefix string
		seq    bool
	)
	cmd := &cobra.Command{
		Use:   "flatten FILE",
		Short: "Print the document as a single-level mapping of dotted keys",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if seq {
				return a.flattenSeq(args[0], prefix)
			}
			ns, err := a.load(args[0])
			if err != nil {
				return err
			}
			return a.write(ns.Flat(prefix))
		},
	}
	cmd.Flags().StringVar(&prefix, "prefix", "", "Prefix prepended to every key")
	cmd.Flags().BoolVar(&seq, "seq", false, "Read a stream of JSON objects (JSON Lines) and print one flat object per line")
	return cmd
}

func (a *app) flattenSeq(name, prefix string) error {
	data, err := a.read(name)
	if err != nil {
		return err
	}
	var n int
	for ns, err := range namespace.DecodeJSONSeq(bytes.NewReader(data), a.decodeOpt(name)) {
		if err != nil {
			return fmt.Errorf("%s: document %d: %w", name, n+1, err)
		}
		b, err := gojson.Marshal(ns.Flat(prefix))
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "%s\n", b)
		n++
	}
	a.logger.Debug("flattened stream", zap.String("file", name), zap.Int("documents", n))
	return nil
}

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE",
		Short: "Report every problem that would stop the document from loading",
		Long: `Report invalid field names, conflicting dotted keys and, for JSON,
duplicate object members. Exits with status 1 when any issue is found.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := a.read(args[0])
			if err != nil {
				return err
			}
			format, err := a.inputFormat(args[0], data)
			if err != nil {
				return err
			}
			var (
				iss namespace.Issues
				raw any
			)
			switch format {
			case formatYAML:
				err = yaml.Unmarshal(data, &raw)
			default:
				if iss, err = namespace.DuplicateKeysBytes(data, 0); err != nil {
					return fmt.Errorf("%s: %w", args[0], err)
				}
				err = gojson.Unmarshal(data, &raw)
			}
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			iss = append(iss, namespace.Check(a.kind(), raw)...)
			for _, e := range iss {
				fmt.Fprintln(a.stdout, e.Error())
			}
			if len(iss) > 0 {
				a.logger.Debug("check failed", zap.String("file", args[0]), zap.Int("issues", len(iss)))
				return exitError{code: 1}
			}
			return nil
		},
	}
}

func newNestCmd(a *app) *cobra.Command {
	var prefix string
	cmd := &cobra.Command{
		Use:   "nest FILE",
		Short: "Print the document fully nested, expanding dotted keys",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ns, err := a.load(args[0])
			if err != nil {
				return err
			}
			if prefix == "" {
				return a.write(ns)
			}
			return a.write(namespace.MapOf(prefix, ns))
		},
	}
	cmd.Flags().StringVar(&prefix, "prefix", "", "Wrap the output under this key")
	return cmd
}

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get FILE PATH",
		Short: "Print the value at a dotted path",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ns, err := a.load(args[0])
			if err != nil {
				return err
			}
			v, err := ns.Item(args[1])
			if err != nil {
				return err
			}
			return a.write(v)
		},
	}
}

func newHasCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "has FILE PATH",
		Short: "Exit with status 0 when the dotted path holds data, 1 otherwise",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ns, err := a.load(args[0])
			if err != nil {
				return err
			}
			ok := ns.Contains(args[1])
			fmt.Fprintln(a.stdout, ok)
			if !ok {
				return exitError{code: 1}
			}
			return nil
		},
	}
}

func newPatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "patch FILE PATCH",
		Short: "Apply a JSON Patch (array) or JSON Merge Patch (object)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ns, err := a.load(args[0])
			if err != nil {
				return err
			}
			patch, err := a.read(args[1])
			if err != nil {
				return err
			}
			var out *namespace.Namespace
			if t := bytes.TrimSpace(patch); len(t) > 0 && t[0] == '[' {
				a.logger.Debug("applying JSON patch", zap.String("patch", args[1]))
				out, err = ns.Patch(patch)
			} else {
				a.logger.Debug("applying merge patch", zap.String("patch", args[1]))
				out, err = ns.MergePatch(patch)
			}
			if err != nil {
				return err
			}
			return a.write(out)
		},
	}
}

func newMergeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "merge FILE...",
		Short: "Merge documents left to right; later leaves win",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			acc, err := a.load(args[0])
			if err != nil {
				return err
			}
			for _, name := range args[1:] {
				next, err := a.load(name)
				if err != nil {
					return err
				}
				if acc, err = acc.Merge(next); err != nil {
					return fmt.Errorf("%s: %w", name, err)
				}
			}
			return a.write(acc)
		},
	}
}

func newEvalCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "eval FILE EXPR",
		Short: "Evaluate an expression against the document",
		Long: `Evaluate an expr-lang expression. Top-level fields are variables;
get("a.b.0") reads a dotted path and has("a.b") tests for data.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ns, err := a.load(args[0])
			if err != nil {
				return err
			}
			v, err := ns.Eval(args[1])
			if err != nil {
				return err
			}
			return a.write(v)
		},
	}
}

func newDiffCmd(a *app) *cobra.Command {
	var color bool
	cmd := &cobra.Command{
		Use:   "diff A B",
		Short: "Compare two documents by their flattened, sorted keys",
		Long:  "Compare two documents by their flattened keys. Exits with status 1 when they differ.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			left, err := a.load(args[0])
			if err != nil {
				return err
			}
			right, err := a.load(args[1])
			if err != nil {
				return err
			}
			lt, err := flatLines(left)
			if err != nil {
				return err
			}
			rt, err := flatLines(right)
			if err != nil {
				return err
			}
			diffs := lineDiff(lt, rt)
			if color {
				fmt.Fprint(a.stdout, diffmatchpatch.New().DiffPrettyText(diffs))
			} else {
				fmt.Fprint(a.stdout, renderDiff(diffs))
			}
			if changed(diffs) {
				return exitError{code: 1}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&color, "color", false, "Colorize the output with ANSI escapes")
	return cmd
}

// flatLines renders one "key = value" line per leaf, sorted by key.
func flatLines(ns *namespace.Namespace) (string, error) {
	flat := ns.AsDict("")
	b := &strings.Builder{}
	for _, k := range slices.Sorted(maps.Keys(flat)) {
		v, err := gojson.Marshal(flat[k])
		if err != nil {
			return "", fmt.Errorf("%s: %w", k, err)
		}
		fmt.Fprintf(b, "%s = %s\n", k, v)
	}
	return b.String(), nil
}

func lineDiff(a, b string) []diffmatchpatch.Diff {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0
	ca, cb, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffMain(ca, cb, false)
	return dmp.DiffCharsToLines(diffs, lines)
}

func renderDiff(diffs []diffmatchpatch.Diff) string {
	b := &strings.Builder{}
	for _, d := range diffs {
		mark := " "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			mark = "-"
		case diffmatchpatch.DiffInsert:
			mark = "+"
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			b.WriteString(mark)
			b.WriteString(line)
		}
	}
	return b.String()
}

func changed(diffs []diffmatchpatch.Diff) bool {
	for _, d := range diffs {
		if d.Type != diffmatchpatch.DiffEqual {
			return true
		}
	}
	return false
}

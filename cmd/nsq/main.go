// Command nsq inspects and edits JSON or YAML documents as namespaces:
// flattening to dotted keys, nesting, path queries, patches, merges,
// expressions, diffs and load checks.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// app holds the global flags and I/O of one invocation.
type app struct {
	keyspace bool
	format   string // input format: json, yaml or "" for detection
	output   string // output format: json or yaml
	strict   bool
	verbose  bool

	logger *zap.Logger
	stdin  io.Reader
	stdout io.Writer
}

// exitError carries a process exit status without a message.
type exitError struct{ code int }

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "nsq",
		Short: "Query and edit JSON/YAML documents as dotted-path namespaces",
		Long: `nsq loads a JSON or YAML mapping into a namespace and works on it:

  nsq flatten config.yaml          # dotted keys
  nsq get config.json servers.0.host
  nsq has config.json tls.cert || echo "no cert"
  nsq eval config.yaml 'len(get("servers")) > 1'

A file name of "-" reads standard input.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.logger != nil {
				return nil
			}
			config := zap.NewProductionConfig()
			if a.verbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			logger, err := config.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().BoolVar(&a.keyspace, "keyspace", false, "Load documents as keyspaces (any field name allowed)")
	root.PersistentFlags().StringVarP(&a.format, "format", "f", "", "Input format: json or yaml (default: from file extension)")
	root.PersistentFlags().StringVarP(&a.output, "output", "o", "json", "Output format: json or yaml")
	root.PersistentFlags().BoolVar(&a.strict, "strict", false, "Reject duplicate keys instead of warning")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")

	root.AddCommand(
		newFlattenCmd(a),
		newNestCmd(a),
		newGetCmd(a),
		newHasCmd(a),
		newPatchCmd(a),
		newMergeCmd(a),
		newEvalCmd(a),
		newDiffCmd(a),
		newCheckCmd(a),
	)
	return root
}

func main() {
	a := &app{stdin: os.Stdin, stdout: os.Stdout}
	if err := newRootCmd(a).Execute(); err != nil {
		var ee exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

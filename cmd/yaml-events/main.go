// Copyright 2025 The go-yaml Project Contributors
// SPDX-License-Identifier: Apache-2.0

// This binary reads YAML from files or stdin and prints the stream of parse
// events, one event per line in the yaml-test-suite notation or as a list
// of YAML or JSON records.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"go.yaml.in/yamlevents"
)

// version is the current version of the yaml-events tool.
const version = "0.1.0"

// cliOptions holds the parsed command line flags.
type cliOptions struct {
	format     string
	marks      bool
	color      string
	verbosity  int
	maxDepth   int
	bufferSize int
	options    string
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	opts := &cliOptions{}

	cmd := &cobra.Command{
		Use:   "yaml-events [file...]",
		Short: "Print the parse events of YAML streams",
		Long: `Print the parse events of YAML streams.

Each file is parsed in turn; with no file, or with "-", stdin is read.
The default format prints one event per line in the yaml-test-suite
notation (+STR, +DOC, =VAL, ...). The yaml and json formats print a
list of event records instead.`,
		Example: `  yaml-events config.yaml
  cat config.yaml | yaml-events --marks
  yaml-events --format json --max-depth 64 a.yaml b.yaml`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args)
		},
	}
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.Flags()
	flags.StringVarP(&opts.format, "format", "f", formatEvents, "Output format: events, yaml or json")
	flags.BoolVarP(&opts.marks, "marks", "m", false, "Append the start and end position of each event (events format)")
	flags.StringVar(&opts.color, "color", colorAuto, "Colorize the events format: auto, always or never")
	flags.CountVarP(&opts.verbosity, "verbose", "v", "Log parser activity to stderr; repeat to log every event")
	flags.IntVar(&opts.maxDepth, "max-depth", 0, "Maximum collection nesting depth (default 10000)")
	flags.IntVar(&opts.bufferSize, "buffer-size", 0, "Size in bytes of the raw input buffer (default 512)")
	flags.StringVar(&opts.options, "options", "", "Parser options as a YAML mapping, e.g. '{max-depth: 64}'")
	return cmd
}

func main() {
	cmd := newRootCmd(os.Stdin, os.Stdout, os.Stderr)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "yaml-events: %v\n", err)
		os.Exit(1)
	}
}

// parserOptions turns the flags into parser options. Explicit flags win
// over --options.
func (o *cliOptions) parserOptions() ([]yamlevents.Option, error) {
	var opts []yamlevents.Option
	if o.options != "" {
		opt, err := yamlevents.OptsYAML(o.options)
		if err != nil {
			return nil, err
		}
		opts = append(opts, opt)
	}
	if o.maxDepth != 0 {
		opts = append(opts, yamlevents.WithMaxDepth(o.maxDepth))
	}
	if o.bufferSize != 0 {
		opts = append(opts, yamlevents.WithBufferSize(o.bufferSize))
	}
	return opts, nil
}

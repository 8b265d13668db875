// Copyright 2025 The go-yaml Project Contributors
// SPDX-License-Identifier: Apache-2.0

// Package main provides YAML event formatting utilities for the yaml-events
// tool.

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-logr/logr"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"go.yaml.in/yamlevents"
)

const (
	formatEvents = "events"
	formatYAML   = "yaml"
	formatJSON   = "json"
)

// position is a one-based location in the input.
type position struct {
	Line   int `json:"line" yaml:"line"`
	Column int `json:"column" yaml:"column"`
	Index  int `json:"index" yaml:"index"`
}

func newPosition(m yamlevents.Mark) position {
	return position{Line: m.Line + 1, Column: m.Column + 1, Index: m.Index}
}

// eventRecord is the yaml and json rendering of an event.
type eventRecord struct {
	Event    string   `json:"event" yaml:"event"`
	Value    *string  `json:"value,omitempty" yaml:"value,omitempty"`
	Style    string   `json:"style,omitempty" yaml:"style,omitempty"`
	Tag      string   `json:"tag,omitempty" yaml:"tag,omitempty"`
	Anchor   string   `json:"anchor,omitempty" yaml:"anchor,omitempty"`
	Implicit *bool    `json:"implicit,omitempty" yaml:"implicit,omitempty"`
	Version  string   `json:"version,omitempty" yaml:"version,omitempty"`
	Start    position `json:"start" yaml:"start,flow"`
	End      position `json:"end" yaml:"end,flow"`
}

// eventName turns a kind such as "mapping start" into "MAPPING-START".
func eventName(kind yamlevents.EventKind) string {
	return strings.ToUpper(strings.ReplaceAll(kind.String(), " ", "-"))
}

func newEventRecord(event *yamlevents.Event) eventRecord {
	rec := eventRecord{
		Event: eventName(event.Kind()),
		Start: newPosition(event.StartMark()),
		End:   newPosition(event.EndMark()),
	}
	implicit := event.Implicit()
	switch data := event.Data().(type) {
	case yamlevents.DocumentStartData:
		rec.Implicit = &implicit
		if data.Version != nil {
			rec.Version = data.Version.String()
		}
	case yamlevents.DocumentEndData:
		rec.Implicit = &implicit
	case yamlevents.AliasData:
		rec.Anchor = data.Anchor
	case yamlevents.ScalarData:
		value := string(data.Value)
		rec.Value = &value
		rec.Style = data.Style.String()
		rec.Tag = data.Tag
		rec.Anchor = data.Anchor
	case yamlevents.SequenceStartData:
		rec.Style = data.Style.String()
		rec.Tag = data.Tag
		rec.Anchor = data.Anchor
	case yamlevents.MappingStartData:
		rec.Style = data.Style.String()
		rec.Tag = data.Tag
		rec.Anchor = data.Anchor
	}
	return rec
}

// input is one named stream to parse.
type input struct {
	name   string
	source yamlevents.Source
}

func run(cmd *cobra.Command, opts *cliOptions, args []string) error {
	switch opts.format {
	case formatEvents, formatYAML, formatJSON:
	default:
		return errors.Errorf("unknown format %q", opts.format)
	}
	parserOpts, err := opts.parserOptions()
	if err != nil {
		return errors.Wrap(err, "invalid --options")
	}

	logger, flush := newLogger(cmd.ErrOrStderr(), opts.verbosity)
	defer flush()
	parserOpts = append(parserOpts, yamlevents.WithLogger(logger))

	out := cmd.OutOrStdout()
	colors, err := newPalette(opts.color, out)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		args = []string{"-"}
	}
	for _, name := range args {
		if err := processArg(cmd, name, out, opts, colors, parserOpts, logger); err != nil {
			return err
		}
	}
	return nil
}

func processArg(cmd *cobra.Command, name string, out io.Writer, opts *cliOptions,
	colors *palette, parserOpts []yamlevents.Option, logger logr.Logger,
) error {
	if name == "-" {
		return processInput(input{"<stdin>", yamlevents.FromReader(cmd.InOrStdin())}, out, opts, colors, parserOpts)
	}
	f, err := yamlevents.OpenFile(name)
	if err != nil {
		return errors.WithStack(err)
	}
	defer func() {
		if err := yamlevents.CloseFile(f); err != nil {
			logger.Error(err, "close failed", "file", name)
		}
	}()
	return processInput(input{name, yamlevents.FromFile(f)}, out, opts, colors, parserOpts)
}

// processInput pulls every event of in and writes it to out. The events
// format streams each event as soon as it is parsed; the list formats are
// written once the stream ends.
func processInput(in input, out io.Writer, opts *cliOptions, colors *palette, parserOpts []yamlevents.Option) error {
	p, err := yamlevents.Open(in.source, parserOpts...)
	if err != nil {
		return errors.Wrap(err, in.name)
	}
	defer p.Close()

	var records []eventRecord
	for {
		event, err := p.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return diagnose(in.name, err)
		}
		if opts.format == formatEvents {
			line := colors.notation(event)
			if opts.marks {
				line += " " + formatMarks(event.StartMark(), event.EndMark())
			}
			if _, err := fmt.Fprintln(out, line); err != nil {
				return errors.Wrap(err, "write failed")
			}
		} else {
			records = append(records, newEventRecord(event))
		}
		event.Release()
	}

	switch opts.format {
	case formatYAML:
		return writeYAML(out, records)
	case formatJSON:
		return writeJSON(out, records)
	}
	return nil
}

// formatMarks renders a one-based "@line:col-line:col" range.
func formatMarks(start, end yamlevents.Mark) string {
	return fmt.Sprintf("@%d:%d-%d:%d", start.Line+1, start.Column+1, end.Line+1, end.Column+1)
}

// diagnose renders parse failures as "name:line:col: message".
func diagnose(name string, err error) error {
	var perr *yamlevents.ParseError
	if errors.As(err, &perr) {
		msg := fmt.Sprintf("%s:%d:%d: %s", name, perr.Mark.Line+1, perr.Mark.Column+1, perr.Message)
		if perr.Context != "" {
			msg += fmt.Sprintf(" (%s started at %d:%d)", perr.Context, perr.ContextMark.Line+1, perr.ContextMark.Column+1)
		}
		return errors.New(msg)
	}
	var rerr *yamlevents.ReadError
	if errors.As(err, &rerr) {
		return errors.Wrapf(rerr.Err, "%s: byte %d", name, rerr.Offset)
	}
	return errors.Wrap(err, name)
}

// Copyright 2025 The go-yaml Project Contributors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"

	"go.yaml.in/yamlevents"
)

const (
	colorAuto   = "auto"
	colorAlways = "always"
	colorNever  = "never"
)

// palette colors the events notation by event prefix.
type palette struct {
	enabled    bool
	stream     *color.Color
	document   *color.Color
	collection *color.Color
	scalar     *color.Color
	alias      *color.Color
}

func newPalette(mode string, out io.Writer) (*palette, error) {
	p := &palette{
		stream:     color.New(color.FgHiBlack),
		document:   color.New(color.FgMagenta, color.Bold),
		collection: color.New(color.FgBlue),
		scalar:     color.New(color.FgGreen),
		alias:      color.New(color.FgYellow),
	}
	switch mode {
	case colorAlways:
		p.enabled = true
	case colorNever:
	case colorAuto:
		p.enabled = isTerminal(out)
	default:
		return nil, errors.Errorf("unknown color mode %q", mode)
	}
	for _, c := range []*color.Color{p.stream, p.document, p.collection, p.scalar, p.alias} {
		if p.enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p, nil
}

// isTerminal reports whether w is an interactive terminal that accepts
// escape sequences.
func isTerminal(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// notation returns the one-line test-suite form of event.
func (p *palette) notation(event *yamlevents.Event) string {
	line := event.String()
	if !p.enabled {
		return line
	}
	var c *color.Color
	switch {
	case strings.HasPrefix(line, "+STR"), strings.HasPrefix(line, "-STR"):
		c = p.stream
	case strings.HasPrefix(line, "+DOC"), strings.HasPrefix(line, "-DOC"):
		c = p.document
	case strings.HasPrefix(line, "=VAL"):
		c = p.scalar
	case strings.HasPrefix(line, "=ALI"):
		c = p.alias
	default:
		c = p.collection
	}
	return c.Sprint(line)
}

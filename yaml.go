// Copyright 2011-2019 Canonical Ltd
// Copyright 2025 The go-yaml Project Contributors
// SPDX-License-Identifier: Apache-2.0

// Package yamlevents implements a streaming, pull-based YAML event parser.
//
// A [Parser] is bound to exactly one [Source] when it is opened. Each call
// to [Parser.Next] returns the next structural [Event] of the stream:
//
//	p, err := yamlevents.OpenBytes(data)
//	if err != nil {
//		return err
//	}
//	defer p.Close()
//	for {
//		event, err := p.Next()
//		if err == io.EOF {
//			break
//		}
//		if err != nil {
//			return err
//		}
//		if event.Kind() == yamlevents.ScalarEvent {
//			fmt.Printf("%s\n", event.ScalarValue())
//		}
//		event.Release()
//	}
//
// This file contains:
// - Options API (WithMaxDepth, WithBufferSize, WithEncoding, WithLogger)
// - Type and constant re-exports from internal/libyaml
// - The yaml-test-suite event notation helpers

package yamlevents

import (
	"fmt"
	"strings"

	"go.yaml.in/yamlevents/internal/libyaml"
	"go.yaml.in/yamlevents/option"
)

//-----------------------------------------------------------------------------
// Options
//-----------------------------------------------------------------------------

// Option allows configuring a Parser.
type Option = option.Option

// Option configuration functions
var (
	// WithMaxDepth limits the nesting of collections. The limit applies to
	// flow collections and to block indentation levels. The default is
	// 10000.
	WithMaxDepth = option.WithMaxDepth

	// WithBufferSize sets the size in bytes of the raw input buffer. The
	// default is 512 and the smallest accepted size is 4.
	WithBufferSize = option.WithBufferSize

	// WithEncoding forces the input encoding. By default it is detected
	// from the byte order mark and falls back to UTF-8.
	WithEncoding = option.WithEncoding

	// WithLogger sets the logger the parser reports its lifecycle and
	// failures to. Every event is logged at verbosity 2. The default logger
	// discards everything.
	WithLogger = option.WithLogger
)

// Options combines multiple options into a single Option.
//
// Example:
//
//	opts := yamlevents.Options(yamlevents.WithMaxDepth(100), logging)
//	p, err := yamlevents.OpenBytes(data, opts)
func Options(opts ...Option) Option {
	return option.Combine(opts...)
}

// OptsYAML parses a YAML string containing option settings and returns
// an Option that can be combined with other options using Options().
//
// The YAML string can specify any of these fields:
// - max-depth (int)
// - buffer-size (int)
// - encoding (string: any, utf-8, utf-16le, utf-16be)
//
// Example:
//
//	opts, err := yamlevents.OptsYAML(`
//	  max-depth: 64
//	  encoding: utf-16le
//	`)
func OptsYAML(yamlStr string) (Option, error) {
	doc, err := libyaml.LoadYAML([]byte(yamlStr))
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return Options(), nil
	}
	fields, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("yaml: options must be a mapping, got %T", doc)
	}

	var opts []Option
	for key, value := range fields {
		switch key {
		case "max-depth", "buffer-size":
			n, ok := value.(int)
			if !ok {
				return nil, fmt.Errorf("yaml: option %s must be an integer, got %v", key, value)
			}
			if key == "max-depth" {
				opts = append(opts, WithMaxDepth(n))
			} else {
				opts = append(opts, WithBufferSize(n))
			}
		case "encoding":
			name, _ := value.(string)
			enc, ok := encodingNames[strings.ToLower(name)]
			if !ok {
				return nil, fmt.Errorf("yaml: unknown encoding %v", value)
			}
			opts = append(opts, WithEncoding(enc))
		default:
			return nil, fmt.Errorf("yaml: unknown option %q", key)
		}
	}
	return Options(opts...), nil
}

var encodingNames = map[string]Encoding{
	"any":      EncodingAny,
	"utf-8":    EncodingUTF8,
	"utf-16le": EncodingUTF16LE,
	"utf-16be": EncodingUTF16BE,
}

//-----------------------------------------------------------------------------
// Type and constant re-exports
//-----------------------------------------------------------------------------

type (
	// Mark is a position in the input. All fields are zero-based: Index is
	// a byte offset into the stream decoded to UTF-8, not counting a
	// leading byte order mark. Its String method renders the one-based
	// "line L, column C" form used in error messages.
	Mark = libyaml.Mark

	// Encoding represents the character encoding of a YAML stream.
	Encoding = libyaml.Encoding

	// ScalarStyle is the surface syntax a scalar was written in.
	ScalarStyle = libyaml.ScalarStyle

	// EventKind identifies the variant of an Event.
	EventKind = libyaml.EventType
)

// Encoding constants for YAML stream encoding
const (
	// EncodingAny lets the parser choose the encoding.
	EncodingAny = libyaml.ANY_ENCODING

	// EncodingUTF8 is the default UTF-8 encoding.
	EncodingUTF8 = libyaml.UTF8_ENCODING

	// EncodingUTF16LE is UTF-16-LE encoding with BOM.
	EncodingUTF16LE = libyaml.UTF16LE_ENCODING

	// EncodingUTF16BE is UTF-16-BE encoding with BOM.
	EncodingUTF16BE = libyaml.UTF16BE_ENCODING
)

// Scalar styles
const (
	PlainStyle        = libyaml.PLAIN_SCALAR_STYLE
	SingleQuotedStyle = libyaml.SINGLE_QUOTED_SCALAR_STYLE
	DoubleQuotedStyle = libyaml.DOUBLE_QUOTED_SCALAR_STYLE
	LiteralStyle      = libyaml.LITERAL_SCALAR_STYLE
	FoldedStyle       = libyaml.FOLDED_SCALAR_STYLE
)

// Event kinds, in the order a document can produce them.
const (
	StreamStartEvent   = libyaml.STREAM_START_EVENT
	StreamEndEvent     = libyaml.STREAM_END_EVENT
	DocumentStartEvent = libyaml.DOCUMENT_START_EVENT
	DocumentEndEvent   = libyaml.DOCUMENT_END_EVENT
	AliasEvent         = libyaml.ALIAS_EVENT
	ScalarEvent        = libyaml.SCALAR_EVENT
	SequenceStartEvent = libyaml.SEQUENCE_START_EVENT
	SequenceEndEvent   = libyaml.SEQUENCE_END_EVENT
	MappingStartEvent  = libyaml.MAPPING_START_EVENT
	MappingEndEvent    = libyaml.MAPPING_END_EVENT
)

// CollectionStyle is the surface syntax of a sequence or a mapping.
type CollectionStyle int8

// Collection styles.
const (
	AnyCollectionStyle CollectionStyle = iota
	BlockStyle                         // Indentation based.
	FlowStyle                          // Bracketed with [] or {}.
)

func (s CollectionStyle) String() string {
	switch s {
	case BlockStyle:
		return "Block"
	case FlowStyle:
		return "Flow"
	}
	return ""
}

// VersionDirective is the content of a %YAML directive.
type VersionDirective struct {
	Major, Minor int
}

func (v VersionDirective) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// TagDirective is the content of a %TAG directive.
type TagDirective struct {
	Handle string
	Prefix string
}

//-----------------------------------------------------------------------------
// Event notation
//-----------------------------------------------------------------------------

// ParserGetEvents parses in and returns its event stream in the
// yaml-test-suite notation, one event per line.
func ParserGetEvents(in []byte) (string, error) {
	events, err := libyaml.ParserGetEvents(in)
	if err != nil {
		return "", convertError(err)
	}
	return events, nil
}

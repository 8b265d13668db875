// Copyright 2025 The go-yaml Project Contributors
// SPDX-License-Identifier: Apache-2.0

// Error types for the reader, scanner and parser stages.
// Provides structured error reporting with line/column information.

package libyaml

import (
	"fmt"
	"strings"
)

// MarkedYAMLError is a problem found at a position of the input, optionally
// reported together with the position of the construct that was being
// processed when it happened.
type MarkedYAMLError struct {
	// optional context
	ContextMark    Mark
	ContextMessage string

	Mark    Mark
	Message string
}

func (e MarkedYAMLError) Error() string {
	var builder strings.Builder
	builder.WriteString("yaml: ")
	if len(e.ContextMessage) > 0 {
		fmt.Fprintf(&builder, "%s at %s: ", e.ContextMessage, e.ContextMark)
	}
	if len(e.ContextMessage) == 0 || e.ContextMark != e.Mark {
		fmt.Fprintf(&builder, "%s: ", e.Mark)
	}
	builder.WriteString(e.Message)
	return builder.String()
}

// ParserError is a grammar error detected while turning tokens into events.
type ParserError MarkedYAMLError

func (e ParserError) Error() string {
	return MarkedYAMLError(e).Error()
}

// ScannerError is a lexical error detected while turning characters into
// tokens.
type ScannerError MarkedYAMLError

func (e ScannerError) Error() string {
	return MarkedYAMLError(e).Error()
}

// ReaderError is a failure to read or decode the input stream. Offset is the
// byte offset in the raw input and Value the offending byte or code point,
// or -1 when the failure came from the underlying reader.
type ReaderError struct {
	Offset int
	Value  int
	Err    error
}

func (e ReaderError) Error() string {
	return fmt.Sprintf("yaml: offset %d: %s", e.Offset, e.Err)
}

func (e ReaderError) Unwrap() error {
	return e.Err
}

// ErrorTypeOf classifies an error returned by the engine.
func ErrorTypeOf(err error) ErrorType {
	switch err.(type) {
	case nil:
		return NO_ERROR
	case ScannerError:
		return SCANNER_ERROR
	case ParserError:
		return PARSER_ERROR
	}
	return READER_ERROR
}

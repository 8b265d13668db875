// Copyright 2025 The go-yaml Project Contributors
// SPDX-License-Identifier: Apache-2.0

package yamlevents

import (
	"errors"

	"go.yaml.in/yamlevents/internal/libyaml"
)

var (
	// ErrInit is wrapped by every error Open returns. It marks a parser
	// that could not be set up, as opposed to input that could not be
	// parsed.
	ErrInit = errors.New("yamlevents: cannot initialize parser")

	// ErrClosed is returned by Next once the parser has been closed.
	ErrClosed = errors.New("yamlevents: parser is closed")
)

// ParseError is a grammar error: the input is not well-formed YAML.
//
// Mark is where the problem was detected. When Context is set, ContextMark
// is where the construct that could not be completed started, for example
// the '[' of an unterminated flow sequence.
type ParseError struct {
	Message     string
	Mark        Mark
	Context     string
	ContextMark Mark

	// Scanner is true for problems found while splitting the input into
	// tokens, such as an unterminated quoted scalar.
	Scanner bool
}

func (e *ParseError) Error() string {
	return libyaml.MarkedYAMLError{
		ContextMark:    e.ContextMark,
		ContextMessage: e.Context,
		Mark:           e.Mark,
		Message:        e.Message,
	}.Error()
}

// ReadError is a failure to read or decode the input: an I/O error of the
// underlying reader, an invalid UTF-8 or UTF-16 sequence or a character
// that YAML does not allow.
type ReadError struct {
	// Offset is the byte offset in the raw input.
	Offset int
	// Value is the offending byte or code point, or -1 when there is none.
	Value int
	// Err describes the problem.
	Err error
}

func (e *ReadError) Error() string {
	return libyaml.ReaderError{Offset: e.Offset, Value: e.Value, Err: e.Err}.Error()
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// convertError maps engine errors onto the public error types. Other errors,
// io.EOF included, are returned unchanged.
func convertError(err error) error {
	switch e := err.(type) {
	case libyaml.ScannerError:
		return &ParseError{
			Message:     e.Message,
			Mark:        e.Mark,
			Context:     e.ContextMessage,
			ContextMark: e.ContextMark,
			Scanner:     true,
		}
	case libyaml.ParserError:
		return &ParseError{
			Message:     e.Message,
			Mark:        e.Mark,
			Context:     e.ContextMessage,
			ContextMark: e.ContextMark,
		}
	case libyaml.ReaderError:
		return &ReadError{Offset: e.Offset, Value: e.Value, Err: e.Err}
	}
	return err
}

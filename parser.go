// Copyright 2025 The go-yaml Project Contributors
// SPDX-License-Identifier: Apache-2.0

package yamlevents

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-logr/logr"

	"go.yaml.in/yamlevents/internal/libyaml"
	"go.yaml.in/yamlevents/option"
)

// Parser reads a YAML stream one event at a time.
//
// A Parser is bound to one Source for its whole life and is not safe for
// concurrent use. Independent Parsers share no state.
type Parser struct {
	parser libyaml.Parser
	logger logr.Logger
	err    error
	closed bool
}

// Open returns a Parser reading src. Errors wrap ErrInit: they report a
// missing source or an invalid option, never a problem with the input.
func Open(src Source, opts ...Option) (*Parser, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: no source", ErrInit)
	}
	cfg := option.NewConfig(opts...)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInit, err)
	}

	p := &Parser{
		parser: libyaml.NewParser(),
		logger: cfg.GetLogger(),
	}
	p.parser.SetBufferSize(cfg.GetBufferSize())
	p.parser.SetMaxDepth(cfg.GetMaxDepth())
	if enc := cfg.GetEncoding(); enc != libyaml.ANY_ENCODING {
		p.parser.SetEncoding(enc)
	}
	if err := src.bind(&p.parser); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInit, err)
	}

	p.logger.V(1).Info("opened parser",
		"source", src.kind(),
		"bufferSize", cfg.GetBufferSize(),
		"maxDepth", cfg.GetMaxDepth())
	return p, nil
}

// OpenBytes returns a Parser reading data. The Parser borrows data: it must
// not be modified until the Parser is closed.
func OpenBytes(data []byte, opts ...Option) (*Parser, error) {
	return Open(FromBytes(data), opts...)
}

// OpenReader returns a Parser reading through r. The Parser never closes r.
func OpenReader(r io.Reader, opts ...Option) (*Parser, error) {
	return Open(FromReader(r), opts...)
}

// Next returns the next event of the stream.
//
// The first event is a StreamStartEvent and the last a StreamEndEvent.
// After it, Next returns io.EOF. Malformed input yields a *ParseError and
// unreadable input a *ReadError; both are terminal and every later call
// returns the same error. Once the Parser is closed, Next returns ErrClosed.
func (p *Parser) Next() (*Event, error) {
	if p.closed {
		return nil, ErrClosed
	}
	if p.err != nil {
		return nil, p.err
	}

	var raw libyaml.Event
	if err := p.parser.Parse(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		p.err = convertError(err)
		p.logFailure()
		return nil, p.err
	}

	event := newEvent(&raw)
	if log := p.logger.V(2); log.Enabled() {
		log.Info("event",
			"kind", event.kind.String(),
			"line", event.start.Line,
			"column", event.start.Column)
	}
	return event, nil
}

func (p *Parser) logFailure() {
	var parseErr *ParseError
	var readErr *ReadError
	switch {
	case errors.As(p.err, &parseErr):
		p.logger.V(1).Info("parse failed",
			"problem", parseErr.Message,
			"line", parseErr.Mark.Line+1,
			"column", parseErr.Mark.Column+1)
	case errors.As(p.err, &readErr):
		p.logger.V(1).Info("read failed",
			"problem", readErr.Err.Error(),
			"offset", readErr.Offset)
	}
}

// Close releases the buffers of the Parser. It does not close the source.
// Events returned earlier stay valid. Closing twice is a no-op.
func (p *Parser) Close() error {
	if p.closed {
		return nil
	}
	p.parser.Delete()
	p.closed = true
	p.logger.V(1).Info("closed parser")
	return nil
}

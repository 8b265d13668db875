// Copyright 2006-2010 Kirill Simonov
// Copyright 2011-2019 Canonical Ltd
// Copyright 2025 The go-yaml Project Contributors
// SPDX-License-Identifier: Apache-2.0 AND MIT

// Parser initialization and configuration.
// Provides the input source bindings and the token queue helper.

package libyaml

import (
	"io"
)

func (parser *Parser) insertToken(pos int, token *Token) {
	// Check if we can move the queue at the beginning of the buffer.
	if parser.tokens_head > 0 && len(parser.tokens) == cap(parser.tokens) {
		if parser.tokens_head != len(parser.tokens) {
			copy(parser.tokens, parser.tokens[parser.tokens_head:])
		}
		parser.tokens = parser.tokens[:len(parser.tokens)-parser.tokens_head]
		parser.tokens_head = 0
	}
	parser.tokens = append(parser.tokens, *token)
	if pos < 0 {
		return
	}
	copy(parser.tokens[parser.tokens_head+pos+1:], parser.tokens[parser.tokens_head+pos:])
	parser.tokens[parser.tokens_head+pos] = *token
}

// NewParser creates a new parser object.
func NewParser() Parser {
	return Parser{
		raw_buffer: make([]byte, 0, input_raw_buffer_size),
		buffer:     make([]byte, 0, input_buffer_size),
		max_depth:  default_max_depth,
	}
}

// Delete a parser object.
func (parser *Parser) Delete() {
	*parser = Parser{}
}

// String read handler.
func yamlStringReadHandler(parser *Parser, buffer []byte) (n int, err error) {
	if parser.input_pos == len(parser.input) {
		return 0, io.EOF
	}
	n = copy(buffer, parser.input[parser.input_pos:])
	parser.input_pos += n
	return n, nil
}

// Reader read handler.
func yamlReaderReadHandler(parser *Parser, buffer []byte) (n int, err error) {
	return parser.input_reader.Read(buffer)
}

// SetInputString sets a string input. The parser borrows the slice: it must
// not be modified until the parser is deleted.
func (parser *Parser) SetInputString(input []byte) {
	if parser.read_handler != nil {
		panic("must set the input source only once")
	}
	parser.read_handler = yamlStringReadHandler
	parser.input = input
	parser.input_pos = 0
}

// SetInputReader sets a file input.
func (parser *Parser) SetInputReader(r io.Reader) {
	if parser.read_handler != nil {
		panic("must set the input source only once")
	}
	parser.read_handler = yamlReaderReadHandler
	parser.input_reader = r
}

// SetEncoding sets the source encoding.
func (parser *Parser) SetEncoding(encoding Encoding) {
	if parser.encoding != ANY_ENCODING {
		panic("must set the encoding only once")
	}
	parser.encoding = encoding
}

// SetBufferSize sets the size of the raw input buffer. The raw buffer must
// hold a BOM or a UTF-16 surrogate pair, so a size below 4 restores the
// default. The decoded buffer is sized so that a full raw
// buffer always fits next to the longest lookahead.
func (parser *Parser) SetBufferSize(size int) {
	if parser.stream_start_produced || parser.offset > 0 {
		panic("must set the buffer size before reading")
	}
	if size < 4 {
		size = input_raw_buffer_size
	}
	parser.raw_buffer = make([]byte, 0, size)
	parser.buffer = make([]byte, 0, size*3+input_lookahead_size)
}

// SetMaxDepth limits both the flow level and the number of nested block
// indentation levels. A value below 1 restores the default.
func (parser *Parser) SetMaxDepth(depth int) {
	if depth < 1 {
		depth = default_max_depth
	}
	parser.max_depth = depth
}

// Encoding returns the detected input encoding, or ANY_ENCODING before the
// first character has been read.
func (parser *Parser) Encoding() Encoding {
	return parser.encoding
}

// Copyright 2025 The go-yaml Project Contributors
// SPDX-License-Identifier: Apache-2.0

package yamlevents

import (
	"errors"
	"fmt"
	"io"
	"os"

	"go.yaml.in/yamlevents/internal/libyaml"
)

// Source is the input a Parser is bound to. It is created by FromBytes,
// FromReader or FromFile.
type Source interface {
	bind(parser *libyaml.Parser) error
	kind() string
}

// FromBytes returns a Source reading data. The Parser borrows data: it must
// not be modified until the Parser is closed.
func FromBytes(data []byte) Source {
	return bytesSource(data)
}

// FromReader returns a Source reading through r. The Parser never closes r.
func FromReader(r io.Reader) Source {
	return readerSource{r}
}

// FromFile returns a Source reading through f. The Parser never closes f;
// see CloseFile.
func FromFile(f *os.File) Source {
	return fileSource{f}
}

type bytesSource []byte

func (s bytesSource) bind(parser *libyaml.Parser) error {
	parser.SetInputString(s)
	return nil
}

func (bytesSource) kind() string { return "bytes" }

type readerSource struct {
	r io.Reader
}

func (s readerSource) bind(parser *libyaml.Parser) error {
	if s.r == nil {
		return errors.New("nil reader")
	}
	parser.SetInputReader(s.r)
	return nil
}

func (readerSource) kind() string { return "reader" }

type fileSource struct {
	f *os.File
}

func (s fileSource) bind(parser *libyaml.Parser) error {
	if s.f == nil {
		return errors.New("nil file")
	}
	parser.SetInputReader(s.f)
	return nil
}

func (fileSource) kind() string { return "file" }

// OpenFile opens the named file for reading. It is a thin wrapper over
// os.Open for callers that pair it with CloseFile.
func OpenFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("yamlevents: %w", err)
	}
	return f, nil
}

// CloseFile closes a file opened with OpenFile. It must only be called once
// every Parser reading the file has been closed.
func CloseFile(f *os.File) error {
	if f == nil {
		return nil
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("yamlevents: %w", err)
	}
	return nil
}

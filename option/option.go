// Copyright 2025 The go-yaml Project Contributors
// SPDX-License-Identifier: Apache-2.0

// Package option holds the configuration shared by the parser and its
// command line front end.
package option

import (
	"fmt"

	"github.com/go-logr/logr"

	"go.yaml.in/yamlevents/internal/libyaml"
)

// Config holds configuration options for event parsing
type Config struct {
	maxDepth   *int
	bufferSize *int
	encoding   *libyaml.Encoding
	logger     *logr.Logger
}

const (
	defaultMaxDepth   = 10000
	defaultBufferSize = 512
	minBufferSize     = 4
)

// Option represents a functional option for configuring event parsing
type Option func(*Config)

// WithMaxDepth returns an Option that limits the nesting of collections.
// The limit applies to flow collections and block indentation alike.
func WithMaxDepth(depth int) Option {
	return func(c *Config) {
		c.maxDepth = &depth
	}
}

// WithBufferSize returns an Option that sets the size in bytes of the raw
// input buffer. It must hold a byte order mark or a UTF-16 surrogate pair,
// so the smallest accepted size is 4.
func WithBufferSize(size int) Option {
	return func(c *Config) {
		c.bufferSize = &size
	}
}

// WithEncoding returns an Option that forces the input encoding instead of
// detecting it from the byte order mark.
func WithEncoding(encoding libyaml.Encoding) Option {
	return func(c *Config) {
		c.encoding = &encoding
	}
}

// WithLogger returns an Option that sets the logger the parser reports to
func WithLogger(logger logr.Logger) Option {
	return func(c *Config) {
		c.logger = &logger
	}
}

// Combine returns an Option that applies opts in order
func Combine(opts ...Option) Option {
	return func(c *Config) {
		c.Apply(opts...)
	}
}

// GetMaxDepth returns the Config's max depth if set or the default value
func (c *Config) GetMaxDepth() int {
	if c.maxDepth != nil {
		return *c.maxDepth
	}
	return defaultMaxDepth
}

// GetBufferSize returns the Config's buffer size if set or the default value
func (c *Config) GetBufferSize() int {
	if c.bufferSize != nil {
		return *c.bufferSize
	}
	return defaultBufferSize
}

// GetEncoding returns the Config's forced encoding, or ANY_ENCODING when
// the encoding is detected from the input.
func (c *Config) GetEncoding() libyaml.Encoding {
	if c.encoding != nil {
		return *c.encoding
	}
	return libyaml.ANY_ENCODING
}

// GetLogger returns the Config's logger if set or a logger that discards
// everything.
func (c *Config) GetLogger() logr.Logger {
	if c.logger != nil {
		return *c.logger
	}
	return logr.Discard()
}

// Validate reports the first option value that cannot be used.
func (c *Config) Validate() error {
	if depth := c.GetMaxDepth(); depth < 1 {
		return fmt.Errorf("max depth must be positive, got %d", depth)
	}
	if size := c.GetBufferSize(); size < minBufferSize {
		return fmt.Errorf("buffer size must be at least %d bytes, got %d", minBufferSize, size)
	}
	switch enc := c.GetEncoding(); enc {
	case libyaml.ANY_ENCODING, libyaml.UTF8_ENCODING, libyaml.UTF16LE_ENCODING, libyaml.UTF16BE_ENCODING:
	default:
		return fmt.Errorf("unknown encoding %d", int(enc))
	}
	return nil
}

// NewConfig creates a new Config with the provided options
func NewConfig(opts ...Option) *Config {
	cfg := &Config{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Apply applies additional options to an existing Config
func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
}

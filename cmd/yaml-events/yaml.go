// Copyright 2025 The go-yaml Project Contributors
// SPDX-License-Identifier: Apache-2.0

// Package main provides YAML output of event records for the yaml-events
// tool.

package main

import (
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// writeYAML prints records as a YAML sequence, one mapping per event.
func writeYAML(w io.Writer, records []eventRecord) error {
	if records == nil {
		records = []eventRecord{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(records); err != nil {
		return errors.Wrap(err, "yaml encoding failed")
	}
	return errors.Wrap(enc.Close(), "yaml encoding failed")
}

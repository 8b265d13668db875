// Copyright 2025 The go-yaml Project Contributors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"io"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var jsonAPI = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
}.Froze()

// writeJSON prints records as an indented JSON array.
func writeJSON(w io.Writer, records []eventRecord) error {
	if records == nil {
		records = []eventRecord{}
	}
	data, err := jsonAPI.MarshalIndent(records, "", "  ")
	if err != nil {
		return errors.Wrap(err, "json encoding failed")
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return errors.Wrap(err, "write failed")
}

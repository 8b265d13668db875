// Copyright 2025 The go-yaml Project Contributors
// SPDX-License-Identifier: Apache-2.0

package libyaml

import (
	"fmt"
	"strings"
)

// coerceScalar converts a plain YAML scalar to an appropriate Go type
func coerceScalar(value string) any {
	switch value {
	case "true":
		return true
	case "false":
		return false
	case "null", "~":
		return nil
	}

	// Hex ints spell out raw bytes in test data.
	var intVal int
	if strings.HasPrefix(strings.ToLower(value), "0x") {
		if _, err := fmt.Sscanf(strings.ToLower(value), "0x%x", &intVal); err == nil {
			return intVal
		}
	}

	if strings.Contains(value, ".") {
		var floatVal float64
		if n, err := fmt.Sscanf(value, "%g", &floatVal); err == nil && n == 1 && fmt.Sprint(floatVal) == value {
			return floatVal
		}
	}

	var rest string
	if n, _ := fmt.Sscanf(value, "%d%s", &intVal, &rest); n == 1 {
		return intVal
	}
	return value
}

// LoadYAML builds a generic value out of the event stream of data. It is
// used to load data-driven test files with the parser they are testing.
// The result is made of:
//   - map[string]any for mappings,
//   - []any for sequences,
//   - bool, nil, int or float64 for plain scalars that look like one
//     (see coerceScalar),
//   - string for every other scalar. Quoted and block scalars are never
//     coerced, and neither are mapping keys.
//
// Aliases are not resolved and only the first document is loaded.
func LoadYAML(data []byte) (any, error) {
	parser := NewParser()
	parser.SetInputString(data)
	defer parser.Delete()

	type frame struct {
		container any // map[string]any or []any
		key       string
		hasKey    bool
	}
	var stack []frame
	var root any

	// add attaches a finished value to the innermost open collection.
	add := func(v any) {
		if len(stack) == 0 {
			root = v
			return
		}
		top := &stack[len(stack)-1]
		switch c := top.container.(type) {
		case map[string]any:
			c[top.key] = v
			top.key, top.hasKey = "", false
		case []any:
			top.container = append(c, v)
		}
	}

	for {
		var event Event
		if err := parser.Parse(&event); err != nil {
			return nil, fmt.Errorf("parse error: %w", err)
		}

		switch event.Type {
		case STREAM_END_EVENT, DOCUMENT_END_EVENT:
			return root, nil

		case MAPPING_START_EVENT:
			stack = append(stack, frame{container: map[string]any{}})

		case SEQUENCE_START_EVENT:
			stack = append(stack, frame{container: []any{}})

		case MAPPING_END_EVENT, SEQUENCE_END_EVENT:
			done := stack[len(stack)-1].container
			stack = stack[:len(stack)-1]
			add(done)

		case SCALAR_EVENT:
			value := string(event.Value)
			if len(stack) > 0 {
				top := &stack[len(stack)-1]
				if _, ok := top.container.(map[string]any); ok && !top.hasKey {
					top.key, top.hasKey = value, true
					continue
				}
			}
			if event.ScalarStyle() == PLAIN_SCALAR_STYLE && len(event.Tag) == 0 {
				add(coerceScalar(value))
			} else {
				add(value)
			}

		case ALIAS_EVENT:
			add(nil)
		}
	}
}

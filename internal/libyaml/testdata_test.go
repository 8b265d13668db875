// Copyright 2025 The go-yaml Project Contributors
// SPDX-License-Identifier: Apache-2.0

// Data-driven test harness.
// Loads the cases in testdata/*.yaml with LoadYAML, so the test data is read
// by the very parser under test, and dispatches them to per-type handlers.

package libyaml

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"testing"

	"go.yaml.in/yamlevents/internal/testutil/assert"
	"go.yaml.in/yamlevents/internal/testutil/datatest"
)

// TestCase represents a single test case loaded from YAML.
type TestCase struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`

	// Common fields
	Yaml     string `yaml:"yaml"`
	Generate any    `yaml:"generate"` // Generator spec used instead of yaml
	Want     any    `yaml:"want"`
	Like     string `yaml:"like"` // Regex pattern to match error message

	WantSpecs  []EventSpec // Populated from Want for detailed event tests
	WantTokens []TokenSpec // Populated from Want for detailed token tests

	// Error location checks
	Mark        *MarkSpec `yaml:"mark"`
	ContextMark *MarkSpec `yaml:"context_mark"`
	Context     string    `yaml:"context"`

	// Parser configuration
	MaxDepth   int `yaml:"max_depth"`
	BufferSize int `yaml:"buffer_size"`

	// Raw input for reader tests, a string or a sequence of bytes
	Input ByteInput `yaml:"data"`
}

// EventSpec specifies an event in YAML format. Unset fields are not checked.
type EventSpec struct {
	Type             string                `yaml:"type"`
	Encoding         string                `yaml:"encoding"`
	Implicit         *bool                 `yaml:"implicit"`
	QuotedImplicit   *bool                 `yaml:"quoted_implicit"`
	Anchor           string                `yaml:"anchor"`
	Tag              string                `yaml:"tag"`
	Value            *string               `yaml:"value"`
	Style            string                `yaml:"style"`
	Start            *MarkSpec             `yaml:"start"`
	End              *MarkSpec             `yaml:"end"`
	VersionDirective *VersionDirectiveSpec `yaml:"version-directive"`
	TagDirectives    []TagDirectiveSpec    `yaml:"tag-directives"`
}

// TokenSpec specifies a token in YAML format. Unset fields are not checked.
type TokenSpec struct {
	Type   string    `yaml:"type"`
	Value  *string   `yaml:"value"`
	Style  string    `yaml:"style"`
	Start  *MarkSpec `yaml:"start"`
	End    *MarkSpec `yaml:"end"`
	Prefix string    `yaml:"prefix"`
}

// MarkSpec specifies a zero-based position.
type MarkSpec struct {
	Index  *int `yaml:"index"`
	Line   int  `yaml:"line"`
	Column int  `yaml:"column"`
}

// VersionDirectiveSpec specifies a version directive
type VersionDirectiveSpec struct {
	Major int `yaml:"major"`
	Minor int `yaml:"minor"`
}

// TagDirectiveSpec specifies a tag directive
type TagDirectiveSpec struct {
	Handle string `yaml:"handle"`
	Prefix string `yaml:"prefix"`
}

// ByteInput is an alias to the shared datatest.ByteInput
type ByteInput = datatest.ByteInput

var (
	eventTypes  = map[string]EventType{}
	tokenTypes  = map[string]TokenType{}
	scalarStyle = map[string]ScalarStyle{
		"PLAIN_SCALAR_STYLE":         PLAIN_SCALAR_STYLE,
		"SINGLE_QUOTED_SCALAR_STYLE": SINGLE_QUOTED_SCALAR_STYLE,
		"DOUBLE_QUOTED_SCALAR_STYLE": DOUBLE_QUOTED_SCALAR_STYLE,
		"LITERAL_SCALAR_STYLE":       LITERAL_SCALAR_STYLE,
		"FOLDED_SCALAR_STYLE":        FOLDED_SCALAR_STYLE,
	}
	collectionStyle = map[string]Style{
		"BLOCK_SEQUENCE_STYLE": Style(BLOCK_SEQUENCE_STYLE),
		"FLOW_SEQUENCE_STYLE":  Style(FLOW_SEQUENCE_STYLE),
		"BLOCK_MAPPING_STYLE":  Style(BLOCK_MAPPING_STYLE),
		"FLOW_MAPPING_STYLE":   Style(FLOW_MAPPING_STYLE),
	}
	encodings = map[string]Encoding{
		"ANY_ENCODING":     ANY_ENCODING,
		"UTF8_ENCODING":    UTF8_ENCODING,
		"UTF16LE_ENCODING": UTF16LE_ENCODING,
		"UTF16BE_ENCODING": UTF16BE_ENCODING,
	}
)

func init() {
	for tt, name := range tokenStrings {
		tokenTypes[name] = TokenType(tt)
	}
	for _, et := range []EventType{
		STREAM_START_EVENT, STREAM_END_EVENT,
		DOCUMENT_START_EVENT, DOCUMENT_END_EVENT,
		ALIAS_EVENT, SCALAR_EVENT,
		SEQUENCE_START_EVENT, SEQUENCE_END_EVENT,
		MAPPING_START_EVENT, MAPPING_END_EVENT,
	} {
		eventTypes[eventConstant(et)] = et
	}
}

// eventConstant turns "sequence start" into "SEQUENCE_START_EVENT".
func eventConstant(et EventType) string {
	b := []byte(et.String())
	for i, c := range b {
		switch {
		case c == ' ':
			b[i] = '_'
		case c >= 'a' && c <= 'z':
			b[i] = c - 'a' + 'A'
		}
	}
	return string(b) + "_EVENT"
}

// ParseEventType converts a constant name to an EventType
func ParseEventType(t *testing.T, s string) EventType {
	t.Helper()
	et, ok := eventTypes[s]
	if !ok {
		t.Fatalf("unknown event type: %s", s)
	}
	return et
}

// ParseTokenType converts a constant name to a TokenType
func ParseTokenType(t *testing.T, s string) TokenType {
	t.Helper()
	tt, ok := tokenTypes[s]
	if !ok {
		t.Fatalf("unknown token type: %s", s)
	}
	return tt
}

// ParseScalarStyle converts a constant name to a ScalarStyle
func ParseScalarStyle(t *testing.T, s string) ScalarStyle {
	t.Helper()
	style, ok := scalarStyle[s]
	if !ok {
		t.Fatalf("unknown scalar style: %s", s)
	}
	return style
}

// ParseEncoding converts a constant name to an Encoding
func ParseEncoding(t *testing.T, s string) Encoding {
	t.Helper()
	enc, ok := encodings[s]
	if !ok {
		t.Fatalf("unknown encoding: %s", s)
	}
	return enc
}

// parseStyle resolves a scalar or collection style constant.
func parseStyle(t *testing.T, s string) Style {
	t.Helper()
	if style, ok := collectionStyle[s]; ok {
		return style
	}
	return Style(ParseScalarStyle(t, s))
}

// LoadTestCases reads testdata/<filename> and converts it to TestCase values.
func LoadTestCases(filename string) ([]TestCase, error) {
	raw, err := datatest.LoadTestCasesFromFile(filepath.Join("testdata", filename), LoadYAML)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", filename, err)
	}

	cases := make([]TestCase, 0, len(raw))
	for i, m := range raw {
		var tc TestCase
		if err := datatest.UnmarshalStruct(&tc, m); err != nil {
			return nil, fmt.Errorf("%s: test case %d: %w", filename, i, err)
		}
		switch tc.Type {
		case "parse-events-detailed":
			tc.WantSpecs = make([]EventSpec, 0)
			err = unmarshalSpecs(tc.Want, func(m map[string]any) error {
				var spec EventSpec
				if err := datatest.UnmarshalStruct(&spec, m); err != nil {
					return err
				}
				tc.WantSpecs = append(tc.WantSpecs, spec)
				return nil
			})
		case "scan-tokens-detailed":
			tc.WantTokens = make([]TokenSpec, 0)
			err = unmarshalSpecs(tc.Want, func(m map[string]any) error {
				var spec TokenSpec
				if err := datatest.UnmarshalStruct(&spec, m); err != nil {
					return err
				}
				tc.WantTokens = append(tc.WantTokens, spec)
				return nil
			})
		}
		if err != nil {
			return nil, fmt.Errorf("%s: test %s: %w", filename, tc.Name, err)
		}
		cases = append(cases, tc)
	}
	return cases, nil
}

// unmarshalSpecs walks a want sequence whose items are either a bare type
// name or a (possibly type-as-key) map.
func unmarshalSpecs(want any, add func(map[string]any) error) error {
	items, ok := want.([]any)
	if !ok {
		return fmt.Errorf("want should be a sequence, got %T", want)
	}
	for j, item := range items {
		var m map[string]any
		switch v := item.(type) {
		case string:
			m = map[string]any{"type": v}
		case map[string]any:
			m = datatest.NormalizeTypeAsKey(v)
		default:
			return fmt.Errorf("want[%d] should be a map or string, got %T", j, item)
		}
		if err := add(m); err != nil {
			return fmt.Errorf("want[%d]: %w", j, err)
		}
	}
	return nil
}

// input returns the YAML input of a test case.
func (tc TestCase) input(t *testing.T) []byte {
	t.Helper()
	if tc.Generate != nil {
		data, err := datatest.GenerateData(tc.Generate)
		assert.NoErrorf(t, err, "generate")
		return data
	}
	if len(tc.Input) > 0 {
		return tc.Input
	}
	return []byte(tc.Yaml)
}

// newParser builds a parser over the test case input and configuration.
func (tc TestCase) newParser(t *testing.T) *Parser {
	t.Helper()
	parser := NewParser()
	if tc.BufferSize > 0 {
		parser.SetBufferSize(tc.BufferSize)
	}
	if tc.MaxDepth > 0 {
		parser.SetMaxDepth(tc.MaxDepth)
	}
	parser.SetInputString(tc.input(t))
	return &parser
}

// checkMark compares a mark with its spec. The index is only checked when
// the spec sets it.
func checkMark(t *testing.T, what string, spec *MarkSpec, got Mark) {
	t.Helper()
	if spec == nil {
		return
	}
	assert.Equalf(t, spec.Line, got.Line, "%s line", what)
	assert.Equalf(t, spec.Column, got.Column, "%s column", what)
	if spec.Index != nil {
		assert.Equalf(t, *spec.Index, got.Index, "%s index", what)
	}
}

// checkError verifies the shared error expectations of a test case.
func checkError(t *testing.T, tc TestCase, err error) {
	t.Helper()
	assert.NotNilf(t, err, "expected an error")
	if tc.Like != "" {
		assert.ErrorMatches(t, tc.Like, err)
	}
	if tc.Mark == nil && tc.ContextMark == nil && tc.Context == "" {
		return
	}
	var marked MarkedYAMLError
	switch e := err.(type) {
	case ScannerError:
		marked = MarkedYAMLError(e)
	case ParserError:
		marked = MarkedYAMLError(e)
	default:
		t.Fatalf("got %T; want a scanner or parser error", err)
	}
	checkMark(t, "problem mark", tc.Mark, marked.Mark)
	checkMark(t, "context mark", tc.ContextMark, marked.ContextMark)
	if tc.Context != "" {
		assert.Equal(t, tc.Context, marked.ContextMessage)
	}
}

// parseAll drives the parser to the end of the stream or the first error.
func parseAll(parser *Parser) ([]Event, error) {
	var events []Event
	for {
		var event Event
		if err := parser.Parse(&event); err != nil {
			if errors.Is(err, io.EOF) {
				return events, nil
			}
			return events, err
		}
		events = append(events, event)
		if event.Type == STREAM_END_EVENT {
			return events, nil
		}
	}
}

// scanAll drives the scanner to the end of the stream or the first error.
func scanAll(parser *Parser) ([]Token, error) {
	var tokens []Token
	for {
		var token Token
		if err := parser.Scan(&token); err != nil {
			if errors.Is(err, io.EOF) {
				return tokens, nil
			}
			return tokens, err
		}
		tokens = append(tokens, token)
		if token.Type == STREAM_END_TOKEN {
			return tokens, nil
		}
	}
}

// parseEvents is a helper to parse input and return event types
func parseEvents(input string) ([]EventType, error) {
	parser := NewParser()
	parser.SetInputString([]byte(input))
	events, err := parseAll(&parser)
	if err != nil {
		return nil, err
	}
	types := make([]EventType, len(events))
	for i := range events {
		types[i] = events[i].Type
	}
	return types, nil
}

// scanTokens is a helper to scan input and return token types
func scanTokens(input string) ([]TokenType, error) {
	parser := NewParser()
	parser.SetInputString([]byte(input))
	tokens, err := scanAll(&parser)
	if err != nil {
		return nil, err
	}
	types := make([]TokenType, len(tokens))
	for i := range tokens {
		types[i] = tokens[i].Type
	}
	return types, nil
}

// wantStrings converts a want sequence of strings.
func wantStrings(t *testing.T, want any) []string {
	t.Helper()
	items := datatest.WantSlice(t, want)
	out := make([]string, len(items))
	for i, item := range items {
		s, ok := item.(string)
		assert.Truef(t, ok, "want[%d] should be a string, got %T", i, item)
		out[i] = s
	}
	return out
}

// TestHandler is a function that runs a specific test type
type TestHandler func(*testing.T, TestCase)

// RunTestCases loads test cases from a YAML file and runs them using the provided handlers
func RunTestCases(t *testing.T, filename string, handlers map[string]TestHandler) {
	t.Helper()
	cases, err := LoadTestCases(filename)
	assert.NoErrorf(t, err, "Failed to load test cases")

	for _, tc := range cases {
		tc := tc
		t.Run(tc.Name, func(t *testing.T) {
			handler, ok := handlers[tc.Type]
			if !ok {
				t.Fatalf("unknown test type: %s", tc.Type)
			}
			handler(t, tc)
		})
	}
}

// WantBool is provided by the shared datatest package
var WantBool = datatest.WantBool

// Copyright 2025 The go-yaml Project Contributors
// SPDX-License-Identifier: Apache-2.0

// Tests for the parser stage.
// Verifies token stream to event stream transformation, event payloads,
// event positions and parse errors.

package libyaml

import (
	"io"
	"strings"
	"testing"

	"go.yaml.in/yamlevents/internal/testutil/assert"
	"go.yaml.in/yamlevents/internal/testutil/datatest"
)

func TestParser(t *testing.T) {
	RunTestCases(t, "parser.yaml", map[string]TestHandler{
		"parse-events":          runParseEventsTest,
		"parse-events-detailed": runParseEventsDetailedTest,
		"parse-notation":        runParseNotationTest,
		"parse-error":           runParseErrorTest,
	})
}

// runParseEventsTest checks the sequence of event types.
//
//nolint:thelper // because this function is the real test
func runParseEventsTest(t *testing.T, tc TestCase) {
	events, err := parseAll(tc.newParser(t))
	assert.NoErrorf(t, err, "parse %q", tc.Yaml)

	want := wantStrings(t, tc.Want)
	got := make([]string, len(events))
	for i := range events {
		got[i] = eventConstant(events[i].Type)
	}
	assert.NoDiff(t, want, got)
}

// runParseEventsDetailedTest checks every field an event spec sets.
//
//nolint:thelper // because this function is the real test
func runParseEventsDetailedTest(t *testing.T, tc TestCase) {
	events, err := parseAll(tc.newParser(t))
	assert.NoErrorf(t, err, "parse %q", tc.Yaml)
	assert.Equalf(t, len(tc.WantSpecs), len(events), "got %d events, want %d", len(events), len(tc.WantSpecs))

	for i, spec := range tc.WantSpecs {
		event := &events[i]
		assert.Equalf(t, ParseEventType(t, spec.Type), event.Type, "event[%d].Type", i)

		if spec.Encoding != "" {
			assert.Equalf(t, ParseEncoding(t, spec.Encoding), event.Encoding(), "event[%d].Encoding", i)
		}
		if spec.Implicit != nil {
			assert.Equalf(t, *spec.Implicit, event.Implicit, "event[%d].Implicit", i)
		}
		if spec.QuotedImplicit != nil {
			assert.Equalf(t, *spec.QuotedImplicit, event.QuotedImplicit, "event[%d].QuotedImplicit", i)
		}
		if spec.Anchor != "" {
			assert.Equalf(t, spec.Anchor, string(event.Anchor), "event[%d].Anchor", i)
		}
		if spec.Tag != "" {
			assert.Equalf(t, spec.Tag, string(event.Tag), "event[%d].Tag", i)
		}
		if spec.Value != nil {
			assert.Equalf(t, *spec.Value, string(event.Value), "event[%d].Value", i)
		}
		if spec.Style != "" {
			assert.Equalf(t, parseStyle(t, spec.Style), event.Style, "event[%d].Style", i)
		}
		if spec.VersionDirective != nil {
			vd := event.VersionDirective()
			assert.NotNilf(t, vd, "event[%d].VersionDirective", i)
			assert.Equalf(t, spec.VersionDirective.Major, vd.Major(), "event[%d] major version", i)
			assert.Equalf(t, spec.VersionDirective.Minor, vd.Minor(), "event[%d] minor version", i)
		}
		if spec.TagDirectives != nil {
			got := event.TagDirectives()
			assert.Equalf(t, len(spec.TagDirectives), len(got), "event[%d] tag directives", i)
			for j, td := range spec.TagDirectives {
				assert.Equalf(t, td.Handle, got[j].Handle(), "event[%d].TagDirectives[%d] handle", i, j)
				assert.Equalf(t, td.Prefix, got[j].Prefix(), "event[%d].TagDirectives[%d] prefix", i, j)
			}
		}
		checkMark(t, "start", spec.Start, event.StartMark)
		checkMark(t, "end", spec.End, event.EndMark)
	}
}

// runParseNotationTest compares the stream against the yaml-test-suite
// event notation.
//
//nolint:thelper // because this function is the real test
func runParseNotationTest(t *testing.T, tc TestCase) {
	got, err := ParserGetEvents(tc.input(t))
	assert.NoErrorf(t, err, "parse %q", tc.Yaml)

	want := datatest.WantString(t, tc.Want, "")
	assert.NoDiff(t, strings.Split(strings.TrimSuffix(want, "\n"), "\n"), strings.Split(got, "\n"))
}

// runParseErrorTest parses until the end of the stream and checks the error.
// want: false turns the case into a check that the input parses cleanly.
//
//nolint:thelper // because this function is the real test
func runParseErrorTest(t *testing.T, tc TestCase) {
	parser := tc.newParser(t)
	_, err := parseAll(parser)

	if !WantBool(t, tc.Want, true) {
		assert.NoErrorf(t, err, "parse %q", tc.Yaml)
		return
	}
	checkError(t, tc, err)

	// The parser stays in its failed state.
	var event Event
	again := parser.Parse(&event)
	assert.Equalf(t, err, again, "error after failure")
	assert.Equal(t, NO_EVENT, event.Type)
}

func TestParseErrorTypes(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want ErrorType
	}{
		{"scanner", "'unterminated", SCANNER_ERROR},
		{"parser", "[a, b", PARSER_ERROR},
		{"reader", "a: \x01", READER_ERROR},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseEvents(tt.yaml)
			assert.NotNil(t, err)
			assert.Equal(t, tt.want, ErrorTypeOf(err))
		})
	}
}

func TestParseAfterStreamEnd(t *testing.T) {
	parser := NewParser()
	parser.SetInputString([]byte("a"))
	events, err := parseAll(&parser)
	assert.NoError(t, err)
	assert.Equal(t, STREAM_END_EVENT, events[len(events)-1].Type)

	for i := 0; i < 2; i++ {
		var event Event
		assert.ErrorIs(t, parser.Parse(&event), io.EOF)
		assert.Equal(t, NO_EVENT, event.Type)
	}
}

func TestParseFromReader(t *testing.T) {
	parser := NewParser()
	parser.SetBufferSize(8)
	parser.SetInputReader(strings.NewReader("list:\n- one\n- two\n"))

	var values []string
	events, err := parseAll(&parser)
	assert.NoError(t, err)
	for _, event := range events {
		if event.Type == SCALAR_EVENT {
			values = append(values, string(event.Value))
		}
	}
	assert.NoDiff(t, []string{"list", "one", "two"}, values)
}

func TestParsePositionsAreMonotonic(t *testing.T) {
	inputs := []string{
		"a",
		"key: value\nlist:\n- a\n- [b, {c: d}]\n",
		"--- &a !!map\n? x\n: *a\n...\n--- |\n  text\n",
		"[a: b, ? c, d]",
		"{a, b: , c: d}",
	}
	for _, input := range inputs {
		parser := NewParser()
		parser.SetInputString([]byte(input))
		events, err := parseAll(&parser)
		assert.NoErrorf(t, err, "parse %q", input)

		last := 0
		for i, event := range events {
			assert.Truef(t, event.StartMark.Index >= last,
				"%q: event[%d] %v starts at %d before %d", input, i, event.Type, event.StartMark.Index, last)
			assert.Truef(t, event.EndMark.Index >= event.StartMark.Index,
				"%q: event[%d] %v ends before it starts", input, i, event.Type)
			last = event.EndMark.Index
		}
	}
}

func TestParserGetEvents(t *testing.T) {
	got, err := ParserGetEvents([]byte("- !!int 3\n- &k \"v\"\n"))
	assert.NoError(t, err)
	want := []string{
		"+STR",
		"+DOC",
		"+SEQ",
		"=VAL <tag:yaml.org,2002:int> :3",
		`=VAL &k "v`,
		"-SEQ",
		"-DOC",
		"-STR",
	}
	assert.NoDiff(t, want, strings.Split(got, "\n"))

	_, err = ParserGetEvents([]byte("{a"))
	assert.ErrorMatches(t, `did not find expected ',' or '}'`, err)
}

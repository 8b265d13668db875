// Copyright 2025 The go-yaml Project Contributors
// SPDX-License-Identifier: Apache-2.0

package yamlevents_test

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing/iotest"

	"github.com/go-logr/logr/funcr"
	. "gopkg.in/check.v1"

	"go.yaml.in/yamlevents"
)

// parseAll pulls events until the end of the stream or the first error.
func parseAll(c *C, p *yamlevents.Parser) ([]*yamlevents.Event, error) {
	var events []*yamlevents.Event
	for {
		event, err := p.Next()
		if errors.Is(err, io.EOF) {
			return events, nil
		}
		if err != nil {
			return events, err
		}
		events = append(events, event)
		if len(events) > 10000 {
			c.Fatalf("runaway event stream")
		}
	}
}

func parseString(c *C, input string, opts ...yamlevents.Option) ([]*yamlevents.Event, error) {
	p, err := yamlevents.OpenBytes([]byte(input), opts...)
	c.Assert(err, IsNil)
	defer p.Close()
	return parseAll(c, p)
}

func kinds(events []*yamlevents.Event) []yamlevents.EventKind {
	out := make([]yamlevents.EventKind, len(events))
	for i, e := range events {
		out[i] = e.Kind()
	}
	return out
}

func (s *S) TestScalarDocument(c *C) {
	events, err := parseString(c, "value")
	c.Assert(err, IsNil)
	c.Assert(kinds(events), DeepEquals, []yamlevents.EventKind{
		yamlevents.StreamStartEvent,
		yamlevents.DocumentStartEvent,
		yamlevents.ScalarEvent,
		yamlevents.DocumentEndEvent,
		yamlevents.StreamEndEvent,
	})

	scalar := events[2]
	c.Assert(string(scalar.ScalarValue()), Equals, "value")
	c.Assert(scalar.ScalarStyle(), Equals, yamlevents.PlainStyle)
	c.Assert(scalar.ScalarTag(), Equals, "")
	c.Assert(scalar.ScalarAnchor(), Equals, "")
	c.Assert(scalar.Implicit(), Equals, true)
	c.Assert(scalar.StartMark(), Equals, yamlevents.Mark{Index: 0, Line: 0, Column: 0})
	c.Assert(scalar.EndMark(), Equals, yamlevents.Mark{Index: 5, Line: 0, Column: 5})

	c.Assert(events[0].Encoding(), Equals, yamlevents.EncodingUTF8)
	c.Assert(events[1].Implicit(), Equals, true)
	c.Assert(events[1].VersionDirective(), IsNil)
	c.Assert(events[3].Implicit(), Equals, true)
	c.Assert(events[4].Data(), IsNil)
}

func (s *S) TestFlowMapping(c *C) {
	events, err := parseString(c, "{a: 1, b: 2}")
	c.Assert(err, IsNil)
	c.Assert(kinds(events), DeepEquals, []yamlevents.EventKind{
		yamlevents.StreamStartEvent,
		yamlevents.DocumentStartEvent,
		yamlevents.MappingStartEvent,
		yamlevents.ScalarEvent,
		yamlevents.ScalarEvent,
		yamlevents.ScalarEvent,
		yamlevents.ScalarEvent,
		yamlevents.MappingEndEvent,
		yamlevents.DocumentEndEvent,
		yamlevents.StreamEndEvent,
	})

	c.Assert(events[2].MappingStartStyle(), Equals, yamlevents.FlowStyle)
	c.Assert(events[2].MappingStartTag(), Equals, "")
	c.Assert(events[2].MappingStartAnchor(), Equals, "")
	var values []string
	for _, e := range events[3:7] {
		values = append(values, string(e.ScalarValue()))
	}
	c.Assert(values, DeepEquals, []string{"a", "1", "b", "2"})
}

func (s *S) TestAlias(c *C) {
	events, err := parseString(c, "- &x 1\n- *x\n")
	c.Assert(err, IsNil)
	c.Assert(kinds(events), DeepEquals, []yamlevents.EventKind{
		yamlevents.StreamStartEvent,
		yamlevents.DocumentStartEvent,
		yamlevents.SequenceStartEvent,
		yamlevents.ScalarEvent,
		yamlevents.AliasEvent,
		yamlevents.SequenceEndEvent,
		yamlevents.DocumentEndEvent,
		yamlevents.StreamEndEvent,
	})

	c.Assert(events[2].SequenceStartStyle(), Equals, yamlevents.BlockStyle)
	c.Assert(events[3].ScalarAnchor(), Equals, "x")
	c.Assert(string(events[3].ScalarValue()), Equals, "1")

	alias := events[4]
	c.Assert(alias.AliasAnchor(), Equals, "x")
	c.Assert(alias.Data(), DeepEquals, yamlevents.AliasData{Anchor: "x"})
	c.Assert(alias.StartMark(), Equals, yamlevents.Mark{Index: 9, Line: 1, Column: 2})
	c.Assert(alias.EndMark(), Equals, yamlevents.Mark{Index: 11, Line: 1, Column: 4})
}

func (s *S) TestWrongVariantAccessors(c *C) {
	events, err := parseString(c, "- *x")
	c.Assert(err, IsNil)
	alias := events[3]
	c.Assert(alias.Kind(), Equals, yamlevents.AliasEvent)

	c.Assert(alias.ScalarValue(), IsNil)
	c.Assert(alias.ScalarStyle(), Equals, yamlevents.ScalarStyle(0))
	c.Assert(alias.ScalarTag(), Equals, "")
	c.Assert(alias.SequenceStartStyle(), Equals, yamlevents.AnyCollectionStyle)
	c.Assert(alias.MappingStartTag(), Equals, "")
	c.Assert(alias.Implicit(), Equals, false)
	c.Assert(alias.TagDirectives(), IsNil)
	c.Assert(alias.Encoding(), Equals, yamlevents.EncodingAny)

	seq := events[2]
	c.Assert(seq.AliasAnchor(), Equals, "")
	c.Assert(seq.MappingStartStyle(), Equals, yamlevents.AnyCollectionStyle)
}

func (s *S) TestScalarRoundTrip(c *C) {
	events, err := parseString(c, "\"a\\0b é 中\U0001F600\"")
	c.Assert(err, IsNil)

	scalar := events[2]
	want := []byte("a\x00b é 中\U0001F600")
	c.Assert(scalar.ScalarValue(), DeepEquals, want)
	c.Assert(len(scalar.ScalarValue()), Equals, len(want))
	c.Assert(scalar.ScalarStyle(), Equals, yamlevents.DoubleQuotedStyle)

	// The accessor returns a copy.
	value := scalar.ScalarValue()
	value[0] = 'z'
	c.Assert(scalar.ScalarValue(), DeepEquals, want)

	events, err = parseString(c, "''")
	c.Assert(err, IsNil)
	c.Assert(events[2].ScalarValue(), NotNil)
	c.Assert(len(events[2].ScalarValue()), Equals, 0)
}

func (s *S) TestAbsenceIsStable(c *C) {
	events, err := parseString(c, "plain")
	c.Assert(err, IsNil)
	scalar := events[2]
	for i := 0; i < 3; i++ {
		c.Assert(scalar.ScalarTag(), Equals, "")
		c.Assert(scalar.ScalarAnchor(), Equals, "")
	}
}

func (s *S) TestDirectives(c *C) {
	events, err := parseString(c, "%YAML 1.2\n%TAG !e! tag:example.com,2000:\n--- !e!foo \"bar\"\n...\n")
	c.Assert(err, IsNil)

	doc := events[1]
	c.Assert(doc.Kind(), Equals, yamlevents.DocumentStartEvent)
	c.Assert(doc.Implicit(), Equals, false)
	c.Assert(doc.VersionDirective(), DeepEquals, &yamlevents.VersionDirective{Major: 1, Minor: 2})
	c.Assert(doc.VersionDirective().String(), Equals, "1.2")
	c.Assert(doc.TagDirectives(), DeepEquals, []yamlevents.TagDirective{
		{Handle: "!e!", Prefix: "tag:example.com,2000:"},
	})

	scalar := events[2]
	c.Assert(scalar.Data(), DeepEquals, yamlevents.ScalarData{
		Value: []byte("bar"),
		Style: yamlevents.DoubleQuotedStyle,
		Tag:   "tag:example.com,2000:foo",
	})
	c.Assert(events[3].Implicit(), Equals, false)
}

func (s *S) TestDataReturnsCopy(c *C) {
	events, err := parseString(c, "%YAML 1.1\n%TAG !e! tag:e,2000:\n--- value\n")
	c.Assert(err, IsNil)

	doc := events[1].Data().(yamlevents.DocumentStartData)
	doc.Version.Minor = 9
	doc.Tags[0].Prefix = "changed"
	again := events[1].Data().(yamlevents.DocumentStartData)
	c.Assert(again.Version, DeepEquals, &yamlevents.VersionDirective{Major: 1, Minor: 1})
	c.Assert(again.Tags, DeepEquals, []yamlevents.TagDirective{{Handle: "!e!", Prefix: "tag:e,2000:"}})

	scalar := events[2].Data().(yamlevents.ScalarData)
	scalar.Value[0] = 'V'
	c.Assert(events[2].ScalarValue(), DeepEquals, []byte("value"))
	c.Assert(events[2].Data().(yamlevents.ScalarData).Value, DeepEquals, []byte("value"))
}

func (s *S) TestBalancedNesting(c *C) {
	inputs := []string{
		"a: [b, {c: d}]\ne:\n- f\n- - g\n",
		"? [a, b]\n: {c: [d]}\n",
		"--- |\n  text\n--- >\n  folded\n...\n",
		"[a: b, c]",
		"",
	}
	for _, input := range inputs {
		events, err := parseString(c, input)
		c.Assert(err, IsNil, Commentf("input %q", input))
		c.Assert(events[0].Kind(), Equals, yamlevents.StreamStartEvent)
		c.Assert(events[len(events)-1].Kind(), Equals, yamlevents.StreamEndEvent)

		var stack []yamlevents.EventKind
		for _, e := range events {
			switch e.Kind() {
			case yamlevents.DocumentStartEvent, yamlevents.SequenceStartEvent, yamlevents.MappingStartEvent:
				stack = append(stack, e.Kind())
			case yamlevents.DocumentEndEvent, yamlevents.SequenceEndEvent, yamlevents.MappingEndEvent:
				c.Assert(len(stack) > 0, Equals, true, Commentf("input %q: unbalanced %v", input, e.Kind()))
				open := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				c.Assert(e.Kind(), Equals, open+1, Commentf("input %q: %v closes %v", input, e.Kind(), open))
			}
		}
		c.Assert(stack, HasLen, 0, Commentf("input %q", input))
	}
}

func (s *S) TestPositionsAreMonotonic(c *C) {
	inputs := []string{
		"value",
		"{a: 1, b: 2}",
		"key: value\nlist:\n- a\n- [b, {c: d}]\n",
		"--- &a !!map\n? x\n: *a\n...\n--- |\n  text\n",
		"\xEF\xBB\xBFbom: [1, 2]",
	}
	for _, input := range inputs {
		events, err := parseString(c, input)
		c.Assert(err, IsNil)
		last := 0
		for i, e := range events {
			c.Assert(e.StartMark().Index >= last, Equals, true,
				Commentf("input %q: event %d (%v) starts at %d before %d", input, i, e.Kind(), e.StartMark().Index, last))
			last = e.EndMark().Index
		}
	}
}

func (s *S) TestErrorLocality(c *C) {
	p, err := yamlevents.OpenBytes([]byte("key: [unterminated"))
	c.Assert(err, IsNil)
	defer p.Close()

	events, err := parseAll(c, p)
	c.Assert(len(events), Equals, 6)

	var perr *yamlevents.ParseError
	c.Assert(errors.As(err, &perr), Equals, true)
	c.Assert(perr.Message, Equals, "did not find expected ',' or ']'")
	c.Assert(perr.Mark, Equals, yamlevents.Mark{Index: 18, Line: 1, Column: 0})
	c.Assert(perr.Context, Equals, "while parsing a flow sequence")
	c.Assert(perr.ContextMark, Equals, yamlevents.Mark{Index: 5, Line: 0, Column: 5})
	c.Assert(perr.Scanner, Equals, false)
	c.Assert(err, ErrorMatches,
		`yaml: while parsing a flow sequence at line 1, column 6: line 2, column 1: did not find expected ',' or '\]'`)

	for i := 0; i < 2; i++ {
		event, again := p.Next()
		c.Assert(event, IsNil)
		c.Assert(again, Equals, err)
	}
}

func (s *S) TestScannerError(c *C) {
	_, err := parseString(c, "'unterminated")
	var perr *yamlevents.ParseError
	c.Assert(errors.As(err, &perr), Equals, true)
	c.Assert(perr.Scanner, Equals, true)
	c.Assert(perr.Message, Equals, "found unexpected end of stream")
	c.Assert(perr.Context, Equals, "while scanning a quoted scalar")
}

func (s *S) TestMaxDepth(c *C) {
	_, err := parseString(c, "[[[a]]]", yamlevents.WithMaxDepth(2))
	var perr *yamlevents.ParseError
	c.Assert(errors.As(err, &perr), Equals, true)
	c.Assert(perr.Message, Equals, "exceeded max depth of 2")
	c.Assert(perr.Context, Equals, "while increasing flow level")

	_, err = parseString(c, "[[a]]", yamlevents.WithMaxDepth(2))
	c.Assert(err, IsNil)
}

func (s *S) TestReadErrors(c *C) {
	_, err := parseString(c, "a: \x01")
	var rerr *yamlevents.ReadError
	c.Assert(errors.As(err, &rerr), Equals, true)
	c.Assert(rerr.Offset, Equals, 3)
	c.Assert(rerr.Value, Equals, 1)
	c.Assert(err, ErrorMatches, "yaml: offset 3: control characters are not allowed")

	boom := errors.New("boom")
	p, err := yamlevents.OpenReader(iotest.ErrReader(boom))
	c.Assert(err, IsNil)
	_, err = parseAll(c, p)
	c.Assert(errors.Is(err, boom), Equals, true)
	c.Assert(errors.As(err, &rerr), Equals, true)
	c.Assert(rerr.Value, Equals, -1)
}

func (s *S) TestEndOfStream(c *C) {
	p, err := yamlevents.OpenBytes([]byte("a"))
	c.Assert(err, IsNil)
	events, err := parseAll(c, p)
	c.Assert(err, IsNil)
	c.Assert(events, HasLen, 5)

	for i := 0; i < 2; i++ {
		event, err := p.Next()
		c.Assert(event, IsNil)
		c.Assert(err, Equals, io.EOF)
	}
}

func (s *S) TestClose(c *C) {
	p, err := yamlevents.OpenBytes([]byte("a: [b]"))
	c.Assert(err, IsNil)
	first, err := p.Next()
	c.Assert(err, IsNil)
	events, err := parseAll(c, p)
	c.Assert(err, IsNil)

	c.Assert(p.Close(), IsNil)
	c.Assert(p.Close(), IsNil)
	_, err = p.Next()
	c.Assert(err, Equals, yamlevents.ErrClosed)

	// Events outlive their parser and are released in any order.
	c.Assert(events[2].Kind(), Equals, yamlevents.ScalarEvent)
	c.Assert(string(events[2].ScalarValue()), Equals, "a")
	for i := len(events) - 1; i >= 0; i-- {
		events[i].Release()
	}
	c.Assert(first.Kind(), Equals, yamlevents.StreamStartEvent)
	first.Release()
}

func (s *S) TestReleaseTwicePanics(c *C) {
	events, err := parseString(c, "a")
	c.Assert(err, IsNil)
	scalar := events[2]
	scalar.Release()

	c.Assert(scalar.Release, PanicMatches, "yamlevents: event released twice")
	c.Assert(func() { scalar.ScalarValue() }, PanicMatches, "yamlevents: use of released event")
	c.Assert(func() { scalar.Kind() }, PanicMatches, "yamlevents: use of released event")
}

func (s *S) TestOpenErrors(c *C) {
	tests := []struct {
		src  yamlevents.Source
		opts []yamlevents.Option
		want string
	}{
		{nil, nil, "yamlevents: cannot initialize parser: no source"},
		{yamlevents.FromReader(nil), nil, "yamlevents: cannot initialize parser: nil reader"},
		{yamlevents.FromFile(nil), nil, "yamlevents: cannot initialize parser: nil file"},
		{yamlevents.FromBytes(nil), []yamlevents.Option{yamlevents.WithMaxDepth(0)},
			"yamlevents: cannot initialize parser: max depth must be positive, got 0"},
		{yamlevents.FromBytes(nil), []yamlevents.Option{yamlevents.WithBufferSize(2)},
			"yamlevents: cannot initialize parser: buffer size must be at least 4 bytes, got 2"},
	}
	for _, tt := range tests {
		p, err := yamlevents.Open(tt.src, tt.opts...)
		c.Assert(p, IsNil)
		c.Assert(errors.Is(err, yamlevents.ErrInit), Equals, true)
		c.Assert(err.Error(), Equals, tt.want)
	}
}

func (s *S) TestEmptyBytesSource(c *C) {
	p, err := yamlevents.Open(yamlevents.FromBytes(nil))
	c.Assert(err, IsNil)
	events, err := parseAll(c, p)
	c.Assert(err, IsNil)
	c.Assert(kinds(events), DeepEquals, []yamlevents.EventKind{
		yamlevents.StreamStartEvent,
		yamlevents.StreamEndEvent,
	})
}

func (s *S) TestFileSource(c *C) {
	path := filepath.Join(c.MkDir(), "doc.yaml")
	c.Assert(os.WriteFile(path, []byte("list:\n- été\n- [x, y]\n"), 0o644), IsNil)

	f, err := yamlevents.OpenFile(path)
	c.Assert(err, IsNil)
	p, err := yamlevents.Open(yamlevents.FromFile(f), yamlevents.WithBufferSize(4))
	c.Assert(err, IsNil)
	events, err := parseAll(c, p)
	c.Assert(err, IsNil)
	c.Assert(p.Close(), IsNil)
	c.Assert(yamlevents.CloseFile(f), IsNil)

	var values []string
	for _, e := range events {
		if e.Kind() == yamlevents.ScalarEvent {
			values = append(values, string(e.ScalarValue()))
		}
	}
	c.Assert(values, DeepEquals, []string{"list", "été", "x", "y"})

	_, err = yamlevents.OpenFile(filepath.Join(c.MkDir(), "missing.yaml"))
	c.Assert(errors.Is(err, fs.ErrNotExist), Equals, true)
	c.Assert(yamlevents.CloseFile(nil), IsNil)
}

func (s *S) TestReaderSource(c *C) {
	input := strings.Repeat("- item\n", 100)
	p, err := yamlevents.OpenReader(iotest.OneByteReader(strings.NewReader(input)), yamlevents.WithBufferSize(16))
	c.Assert(err, IsNil)
	events, err := parseAll(c, p)
	c.Assert(err, IsNil)
	c.Assert(events, HasLen, 100+6)
	c.Assert(events[len(events)-1].StartMark().Index, Equals, len(input))
}

func (s *S) TestForcedEncoding(c *C) {
	events, err := parseString(c, "a\x00", yamlevents.WithEncoding(yamlevents.EncodingUTF16LE))
	c.Assert(err, IsNil)
	c.Assert(events[0].Encoding(), Equals, yamlevents.EncodingUTF16LE)
	c.Assert(events[0].Data(), DeepEquals, yamlevents.StreamStartData{Encoding: yamlevents.EncodingUTF16LE})
	c.Assert(string(events[2].ScalarValue()), Equals, "a")
}

func (s *S) TestEventNotation(c *C) {
	input := "--- &a [b, !!str c, {d: *a}]\n"
	events, err := parseString(c, input)
	c.Assert(err, IsNil)

	var lines []string
	for _, e := range events {
		lines = append(lines, e.String())
	}
	c.Assert(lines, DeepEquals, []string{
		"+STR",
		"+DOC ---",
		"+SEQ [] &a",
		"=VAL :b",
		"=VAL <tag:yaml.org,2002:str> :c",
		"+MAP {}",
		"=VAL :d",
		"=ALI *a",
		"-MAP",
		"-SEQ",
		"-DOC",
		"-STR",
	})

	notation, err := yamlevents.ParserGetEvents([]byte(input))
	c.Assert(err, IsNil)
	c.Assert(notation, Equals, strings.Join(lines, "\n"))

	_, err = yamlevents.ParserGetEvents([]byte("[a"))
	var perr *yamlevents.ParseError
	c.Assert(errors.As(err, &perr), Equals, true)
}

func (s *S) TestLogging(c *C) {
	var logs []string
	logger := funcr.New(func(prefix, args string) {
		logs = append(logs, args)
	}, funcr.Options{Verbosity: 2})

	p, err := yamlevents.OpenBytes([]byte("[a"), yamlevents.WithLogger(logger))
	c.Assert(err, IsNil)
	_, err = parseAll(c, p)
	c.Assert(err, NotNil)
	c.Assert(p.Close(), IsNil)

	all := strings.Join(logs, "\n")
	for _, msg := range []string{"opened parser", "event", "parse failed", "closed parser"} {
		c.Assert(strings.Contains(all, `"msg"="`+msg+`"`), Equals, true, Commentf("missing %q in\n%s", msg, all))
	}
	c.Assert(strings.Contains(all, `"source"="bytes"`), Equals, true)
}

func (s *S) TestOptsYAML(c *C) {
	opt, err := yamlevents.OptsYAML("max-depth: 1\nencoding: UTF-8\n")
	c.Assert(err, IsNil)
	_, err = parseString(c, "[[a]]", opt)
	c.Assert(err, ErrorMatches, ".*exceeded max depth of 1")

	opt, err = yamlevents.OptsYAML("")
	c.Assert(err, IsNil)
	_, err = parseString(c, "[[a]]", yamlevents.Options(opt, yamlevents.WithBufferSize(8)))
	c.Assert(err, IsNil)

	_, err = yamlevents.OptsYAML("max-depth: deep")
	c.Assert(err, ErrorMatches, "yaml: option max-depth must be an integer, got deep")
	_, err = yamlevents.OptsYAML("encoding: ebcdic")
	c.Assert(err, ErrorMatches, "yaml: unknown encoding ebcdic")
	_, err = yamlevents.OptsYAML("indent: 2")
	c.Assert(err, ErrorMatches, `yaml: unknown option "indent"`)
	_, err = yamlevents.OptsYAML("[max-depth]")
	c.Assert(err, ErrorMatches, `yaml: options must be a mapping, got \[\]interface \{\}`)
}

func (s *S) TestStyleStrings(c *C) {
	c.Assert(yamlevents.FlowStyle.String(), Equals, "Flow")
	c.Assert(yamlevents.BlockStyle.String(), Equals, "Block")
	c.Assert(yamlevents.AnyCollectionStyle.String(), Equals, "")
	c.Assert(yamlevents.LiteralStyle.String(), Equals, "Literal")
	c.Assert(yamlevents.MappingStartEvent.String(), Equals, "mapping start")
	c.Assert(yamlevents.Mark{Index: 7, Line: 1, Column: 2}.String(), Equals, "line 2, column 3")
}

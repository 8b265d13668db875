// Copyright 2025 The go-yaml Project Contributors
// SPDX-License-Identifier: Apache-2.0

package yamlevents

import (
	"bytes"

	"go.yaml.in/yamlevents/internal/libyaml"
)

// EventData is the payload of an Event. Its dynamic type is one of
// StreamStartData, DocumentStartData, DocumentEndData, AliasData, ScalarData,
// SequenceStartData or MappingStartData. StreamEnd, SequenceEnd and
// MappingEnd events carry no payload.
type EventData interface {
	eventData()
}

// StreamStartData is the payload of a StreamStartEvent.
type StreamStartData struct {
	Encoding Encoding
}

// DocumentStartData is the payload of a DocumentStartEvent. Version and Tags
// hold the directives written before the document, and Implicit is true when
// the document has no "---" marker.
type DocumentStartData struct {
	Version  *VersionDirective
	Tags     []TagDirective
	Implicit bool
}

// DocumentEndData is the payload of a DocumentEndEvent. Implicit is true when
// the document has no "..." marker.
type DocumentEndData struct {
	Implicit bool
}

// AliasData is the payload of an AliasEvent.
type AliasData struct {
	Anchor string
}

// ScalarData is the payload of a ScalarEvent.
//
// PlainImplicit reports that the tag may be omitted for the plain style and
// QuotedImplicit that it may be omitted for any other style. Both are false
// for a scalar with an explicit tag other than "!".
type ScalarData struct {
	Value          []byte
	Style          ScalarStyle
	Tag            string
	Anchor         string
	PlainImplicit  bool
	QuotedImplicit bool
}

// SequenceStartData is the payload of a SequenceStartEvent.
type SequenceStartData struct {
	Style    CollectionStyle
	Tag      string
	Anchor   string
	Implicit bool
}

// MappingStartData is the payload of a MappingStartEvent.
type MappingStartData struct {
	Style    CollectionStyle
	Tag      string
	Anchor   string
	Implicit bool
}

func (StreamStartData) eventData()   {}
func (DocumentStartData) eventData() {}
func (DocumentEndData) eventData()   {}
func (AliasData) eventData()         {}
func (ScalarData) eventData()        {}
func (SequenceStartData) eventData() {}
func (MappingStartData) eventData()  {}

// Event is one structural unit of a YAML stream.
//
// An Event owns copies of everything it reports: it stays valid after later
// calls to Next and after the Parser is closed. Call Release once the event
// is no longer needed. Releasing an event twice, or using it after Release,
// panics.
//
// The variant accessors such as ScalarValue or MappingStartTag return the
// zero value when called on an event of another kind.
type Event struct {
	kind       EventKind
	start, end Mark
	data       EventData
	released   bool
}

// newEvent deep-copies an engine event, whose byte slices may point into
// the scanner's buffers.
func newEvent(e *libyaml.Event) *Event {
	event := &Event{kind: e.Type, start: e.StartMark, end: e.EndMark}
	switch e.Type {
	case libyaml.STREAM_START_EVENT:
		event.data = StreamStartData{Encoding: e.Encoding()}
	case libyaml.DOCUMENT_START_EVENT:
		data := DocumentStartData{Implicit: e.Implicit}
		if vd := e.VersionDirective(); vd != nil {
			data.Version = &VersionDirective{Major: vd.Major(), Minor: vd.Minor()}
		}
		for _, td := range e.TagDirectives() {
			data.Tags = append(data.Tags, TagDirective{Handle: td.Handle(), Prefix: td.Prefix()})
		}
		event.data = data
	case libyaml.DOCUMENT_END_EVENT:
		event.data = DocumentEndData{Implicit: e.Implicit}
	case libyaml.ALIAS_EVENT:
		event.data = AliasData{Anchor: string(e.Anchor)}
	case libyaml.SCALAR_EVENT:
		event.data = ScalarData{
			// An empty scalar has a non-nil empty value.
			Value:          append([]byte{}, e.Value...),
			Style:          e.ScalarStyle(),
			Tag:            string(e.Tag),
			Anchor:         string(e.Anchor),
			PlainImplicit:  e.Implicit,
			QuotedImplicit: e.QuotedImplicit,
		}
	case libyaml.SEQUENCE_START_EVENT:
		event.data = SequenceStartData{
			Style:    sequenceStyle(e.SequenceStyle()),
			Tag:      string(e.Tag),
			Anchor:   string(e.Anchor),
			Implicit: e.Implicit,
		}
	case libyaml.MAPPING_START_EVENT:
		event.data = MappingStartData{
			Style:    mappingStyle(e.MappingStyle()),
			Tag:      string(e.Tag),
			Anchor:   string(e.Anchor),
			Implicit: e.Implicit,
		}
	}
	return event
}

func sequenceStyle(style libyaml.SequenceStyle) CollectionStyle {
	switch style {
	case libyaml.BLOCK_SEQUENCE_STYLE:
		return BlockStyle
	case libyaml.FLOW_SEQUENCE_STYLE:
		return FlowStyle
	}
	return AnyCollectionStyle
}

func mappingStyle(style libyaml.MappingStyle) CollectionStyle {
	switch style {
	case libyaml.BLOCK_MAPPING_STYLE:
		return BlockStyle
	case libyaml.FLOW_MAPPING_STYLE:
		return FlowStyle
	}
	return AnyCollectionStyle
}

// Release drops the payload of the event.
func (e *Event) Release() {
	if e.released {
		panic("yamlevents: event released twice")
	}
	e.released = true
	e.data = nil
}

func (e *Event) check() {
	if e.released {
		panic("yamlevents: use of released event")
	}
}

// Kind returns the variant of the event.
func (e *Event) Kind() EventKind {
	e.check()
	return e.kind
}

// StartMark returns the position of the first character of the event.
func (e *Event) StartMark() Mark {
	e.check()
	return e.start
}

// EndMark returns the position just past the last character of the event.
func (e *Event) EndMark() Mark {
	e.check()
	return e.end
}

// Data returns a copy of the payload of the event, or nil for kinds without
// one.
func (e *Event) Data() EventData {
	e.check()
	switch d := e.data.(type) {
	case ScalarData:
		d.Value = bytes.Clone(d.Value)
		return d
	case DocumentStartData:
		if d.Version != nil {
			v := *d.Version
			d.Version = &v
		}
		if d.Tags != nil {
			d.Tags = append([]TagDirective(nil), d.Tags...)
		}
		return d
	}
	return e.data
}

// ScalarValue returns a copy of the value of a scalar. Embedded NUL bytes are
// kept.
func (e *Event) ScalarValue() []byte {
	e.check()
	if d, ok := e.data.(ScalarData); ok {
		return bytes.Clone(d.Value)
	}
	return nil
}

// ScalarStyle returns the style of a scalar.
func (e *Event) ScalarStyle() ScalarStyle {
	e.check()
	d, _ := e.data.(ScalarData)
	return d.Style
}

// ScalarTag returns the resolved tag of a scalar, or "" if it has none.
func (e *Event) ScalarTag() string {
	e.check()
	d, _ := e.data.(ScalarData)
	return d.Tag
}

// ScalarAnchor returns the anchor of a scalar, or "" if it has none.
func (e *Event) ScalarAnchor() string {
	e.check()
	d, _ := e.data.(ScalarData)
	return d.Anchor
}

// AliasAnchor returns the anchor an alias refers to.
func (e *Event) AliasAnchor() string {
	e.check()
	d, _ := e.data.(AliasData)
	return d.Anchor
}

// SequenceStartStyle returns the style of a sequence.
func (e *Event) SequenceStartStyle() CollectionStyle {
	e.check()
	d, _ := e.data.(SequenceStartData)
	return d.Style
}

// SequenceStartTag returns the resolved tag of a sequence, or "".
func (e *Event) SequenceStartTag() string {
	e.check()
	d, _ := e.data.(SequenceStartData)
	return d.Tag
}

// SequenceStartAnchor returns the anchor of a sequence, or "".
func (e *Event) SequenceStartAnchor() string {
	e.check()
	d, _ := e.data.(SequenceStartData)
	return d.Anchor
}

// MappingStartStyle returns the style of a mapping.
func (e *Event) MappingStartStyle() CollectionStyle {
	e.check()
	d, _ := e.data.(MappingStartData)
	return d.Style
}

// MappingStartTag returns the resolved tag of a mapping, or "".
func (e *Event) MappingStartTag() string {
	e.check()
	d, _ := e.data.(MappingStartData)
	return d.Tag
}

// MappingStartAnchor returns the anchor of a mapping, or "".
func (e *Event) MappingStartAnchor() string {
	e.check()
	d, _ := e.data.(MappingStartData)
	return d.Anchor
}

// Implicit reports whether a document marker or a tag was left out.
//
// For document starts and ends it is true when there is no "---" or "..."
// marker. For collections it is true when the tag may be omitted, and for
// scalars it is the PlainImplicit flag.
func (e *Event) Implicit() bool {
	e.check()
	switch d := e.data.(type) {
	case DocumentStartData:
		return d.Implicit
	case DocumentEndData:
		return d.Implicit
	case ScalarData:
		return d.PlainImplicit
	case SequenceStartData:
		return d.Implicit
	case MappingStartData:
		return d.Implicit
	}
	return false
}

// VersionDirective returns the %YAML directive of a document start, or nil.
func (e *Event) VersionDirective() *VersionDirective {
	e.check()
	d, _ := e.data.(DocumentStartData)
	if d.Version == nil {
		return nil
	}
	v := *d.Version
	return &v
}

// TagDirectives returns a copy of the %TAG directives of a document start.
func (e *Event) TagDirectives() []TagDirective {
	e.check()
	d, _ := e.data.(DocumentStartData)
	if d.Tags == nil {
		return nil
	}
	return append([]TagDirective(nil), d.Tags...)
}

// Encoding returns the encoding reported by a stream start.
func (e *Event) Encoding() Encoding {
	e.check()
	d, _ := e.data.(StreamStartData)
	return d.Encoding
}

// String renders the event in the yaml-test-suite notation, for example
// "+MAP {} &a" or "=VAL 'text".
func (e *Event) String() string {
	e.check()
	raw := libyaml.Event{Type: e.kind}
	switch d := e.data.(type) {
	case DocumentStartData:
		raw.Implicit = d.Implicit
	case DocumentEndData:
		raw.Implicit = d.Implicit
	case AliasData:
		raw.Anchor = []byte(d.Anchor)
	case ScalarData:
		raw.Value, raw.Tag, raw.Anchor = d.Value, []byte(d.Tag), []byte(d.Anchor)
		raw.Style = libyaml.Style(d.Style)
	case SequenceStartData:
		raw.Tag, raw.Anchor = []byte(d.Tag), []byte(d.Anchor)
		if d.Style == FlowStyle {
			raw.Style = libyaml.Style(libyaml.FLOW_SEQUENCE_STYLE)
		}
	case MappingStartData:
		raw.Tag, raw.Anchor = []byte(d.Tag), []byte(d.Anchor)
		if d.Style == FlowStyle {
			raw.Style = libyaml.Style(libyaml.FLOW_MAPPING_STYLE)
		}
	}
	return libyaml.FormatEvent(&raw)
}

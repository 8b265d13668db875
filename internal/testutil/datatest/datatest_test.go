// Copyright 2025 The go-yaml Project Contributors
// SPDX-License-Identifier: Apache-2.0

package datatest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.yaml.in/yamlevents/internal/testutil/assert"
)

func TestGenerateData(t *testing.T) {
	tests := []struct {
		name string
		spec any
		want string
	}{
		{"string", "abc", "abc"},
		{"loop", map[string]any{"loop": []any{"[", 3}}, "[[["},
		{
			name: "join",
			spec: map[string]any{"join": []any{
				map[string]any{"text": "a: "},
				map[string]any{"loop": []any{"k", 4}},
			}},
			want: "a: kkkk",
		},
		{
			name: "repeated join",
			spec: map[string]any{
				"join": []any{map[string]any{"text": "- "}, map[string]any{"loop": []any{"x", 2}}},
				"loop": 2,
			},
			want: "- xx- xx",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GenerateData(tt.spec)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestGenerateDataErrors(t *testing.T) {
	for _, spec := range []any{
		42,
		map[string]any{},
		map[string]any{"loop": []any{"x"}},
		map[string]any{"loop": []any{"x", "2"}},
		map[string]any{"join": []any{map[string]any{"other": 1}}},
	} {
		_, err := GenerateData(spec)
		assert.NotNilf(t, err, "spec %v", spec)
	}
}

func TestByteInput(t *testing.T) {
	var bi ByteInput
	assert.NoError(t, bi.FromValue("ab"))
	assert.DeepEqual(t, ByteInput("ab"), bi)

	assert.NoError(t, bi.FromValue([]any{0xFF, 0xFE, 0x61, 0}))
	assert.DeepEqual(t, ByteInput{0xFF, 0xFE, 0x61, 0}, bi)

	assert.NoError(t, bi.FromValue(0x0A))
	assert.DeepEqual(t, ByteInput{'\n'}, bi)

	assert.ErrorMatches(t, `byte value out of range`, bi.FromValue([]any{256}))
	assert.ErrorMatches(t, `byte array element must be int`, bi.FromValue([]any{"x"}))
}

type markCase struct {
	Line   int  `yaml:"line"`
	Column int  `yaml:"column"`
	Index  *int `yaml:"index"`
}

type sampleCase struct {
	Name    string     `yaml:"name"`
	Type    string     `yaml:"type"`
	Want    any        `yaml:"want"`
	Implied *bool      `yaml:"implied"`
	Mark    *markCase  `yaml:"mark"`
	Marks   []markCase `yaml:"marks"`
	Data    ByteInput  `yaml:"data"`
	Ignored string
}

func TestUnmarshalStruct(t *testing.T) {
	var tc sampleCase
	err := UnmarshalStruct(&tc, map[string]any{
		"name":    "sample",
		"type":    "scan-error",
		"want":    []any{"a", "b"},
		"implied": true,
		"mark":    map[string]any{"line": 1, "column": 2, "index": 7},
		"marks":   []any{map[string]any{"line": 3}},
		"data":    []any{0x61},
		"unknown": "skipped",
	})
	assert.NoError(t, err)
	assert.Equal(t, "sample", tc.Name)
	assert.Equal(t, "scan-error", tc.Type)
	assert.DeepEqual(t, []any{"a", "b"}, tc.Want)
	assert.True(t, *tc.Implied)
	assert.Equal(t, 2, tc.Mark.Column)
	assert.Equal(t, 7, *tc.Mark.Index)
	assert.Equal(t, 1, len(tc.Marks))
	assert.Equal(t, 3, tc.Marks[0].Line)
	assert.IsNil(t, tc.Marks[0].Index)
	assert.DeepEqual(t, ByteInput("a"), tc.Data)
}

func TestUnmarshalStructErrors(t *testing.T) {
	var tc sampleCase
	assert.ErrorMatches(t, `target must be pointer to struct`, UnmarshalStruct(tc, nil))
	assert.ErrorMatches(t, `field mark: expected map`, UnmarshalStruct(&tc, map[string]any{"mark": "x"}))
	assert.ErrorMatches(t, `field implied: .*boolean`, UnmarshalStruct(&tc, map[string]any{"implied": 1.5}))
}

func TestNormalizeTypeAsKey(t *testing.T) {
	got := NormalizeTypeAsKey(map[string]any{
		"scan-tokens": map[string]any{"name": "x", "type": "inner"},
	})
	assert.DeepEqual(t, map[string]any{"type": "scan-tokens", "name": "x", "output_type": "inner"}, got)

	plain := map[string]any{"name": "x", "yaml": "a"}
	assert.DeepEqual(t, plain, NormalizeTypeAsKey(plain))

	assert.True(t, IsTypeConstant("SCALAR_TOKEN"))
	assert.True(t, IsTypeConstant("parse-events"))
	assert.False(t, IsTypeConstant(""))
	assert.False(t, IsTypeConstant("has space"))
}

func TestWantHelpers(t *testing.T) {
	assert.True(t, WantBool(t, nil, true))
	assert.False(t, WantBool(t, false, true))
	assert.Equal(t, "dflt", WantString(t, nil, "dflt"))
	assert.Equal(t, "x", WantString(t, "x", "dflt"))
	assert.IsNil(t, WantSlice(t, nil))
	assert.Equal(t, 2, len(WantSlice(t, []any{1, 2})))
}

func TestLoadTestCasesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cases.yaml")
	assert.NoError(t, os.WriteFile(path, []byte("ignored by the fake loader"), 0o600))

	load := func([]byte) (any, error) {
		return []any{
			map[string]any{"parse-events": map[string]any{"name": "one"}},
			"not a case",
			map[string]any{"type": "scan-tokens", "name": "two"},
		}, nil
	}
	cases, err := LoadTestCasesFromFile(path, load)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(cases))
	assert.Equal(t, "parse-events", cases[0]["type"])
	assert.Equal(t, "two", cases[1]["name"])

	_, err = LoadTestCasesFromFile(path, func([]byte) (any, error) { return "scalar", nil })
	assert.ErrorMatches(t, `expected \[\]interface\{\}, got string`, err)

	boom := errors.New("boom")
	_, err = LoadTestCasesFromFile(path, func([]byte) (any, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)

	_, err = LoadTestCasesFromFile(filepath.Join(t.TempDir(), "missing.yaml"), load)
	assert.NotNil(t, err)
}

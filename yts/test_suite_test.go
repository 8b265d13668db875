// Copyright 2025 The go-yaml Project Contributors
// SPDX-License-Identifier: Apache-2.0

// Package yts runs the parser against the yaml-test-suite data, comparing
// each test's event stream with its test.event file.
package yts

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.yaml.in/yamlevents"
)

var knownFailingTests = loadKnownFailingTests()

func loadKnownFailingTests() map[string]bool {
	fileContent, err := os.ReadFile("known-failing-tests")
	if err != nil {
		return make(map[string]bool)
	}

	knownTests := make(map[string]bool)
	for _, line := range strings.Split(string(fileContent), "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			knownTests[trimmed] = true
		}
	}
	return knownTests
}

func shouldSkipTest(t *testing.T) {
	if os.Getenv("RUNALL") == "1" {
		return
	}
	name := t.Name()
	runFailing := os.Getenv("RUNFAILING") == "1"
	isKnownFailing := knownFailingTests[name]

	switch {
	case runFailing && !isKnownFailing:
		t.Skipf("Skipping non-failing test: %s", name)
	case !runFailing && isKnownFailing:
		t.Skipf("Skipping known failing test: %s", name)
	}
}

func TestYAMLSuite(t *testing.T) {
	testDir := "./testdata/data-2022-01-17"
	if _, err := os.Stat(testDir + "/229Q"); os.IsNotExist(err) {
		t.Skipf("yaml-test-suite data is not present at '%s'; "+
			"check out the data-2022-01-17 tag of yaml-test-suite there to run it", testDir)
	}
	runTestsInDir(t, testDir)
}

func runTestsInDir(t *testing.T, dirPath string) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		t.Fatalf("Failed to read directory %s: %v", dirPath, err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		entryPath := filepath.Join(dirPath, entry.Name())
		// Test case directories contain in.yaml; others group cases.
		if _, err := os.Stat(filepath.Join(entryPath, "in.yaml")); err == nil {
			t.Run(entry.Name(), func(t *testing.T) {
				runTest(t, entryPath)
			})
		} else {
			runTestsInDir(t, entryPath)
		}
	}
}

func normalizeLineEndings(s string) string {
	return strings.ReplaceAll(s, "\r", "")
}

// getEvents pulls every event through the public API and renders the
// stream one event per line.
func getEvents(in []byte) (string, error) {
	p, err := yamlevents.OpenBytes(in)
	if err != nil {
		return "", err
	}
	defer p.Close()

	var lines []string
	for {
		event, err := p.Next()
		if errors.Is(err, io.EOF) {
			return strings.Join(lines, "\n"), nil
		}
		if err != nil {
			return "", err
		}
		lines = append(lines, event.String())
		event.Release()
	}
}

func mustRead(t *testing.T, path, name string) []byte {
	data, err := os.ReadFile(filepath.Join(path, name))
	if err != nil {
		t.Fatalf("Failed to read %s (%s): %v", name, path, err)
	}
	return data
}

func fileExists(path, name string) bool {
	_, err := os.Stat(filepath.Join(path, name))
	return err == nil
}

func runTest(t *testing.T, testPath string) {
	t.Helper()
	shouldSkipTest(t)

	testDescription := mustRead(t, testPath, "===")
	inYAML := mustRead(t, testPath, "in.yaml")
	expectError := fileExists(testPath, "error")
	expectedEvents := strings.TrimSuffix(normalizeLineEndings(string(mustRead(t, testPath, "test.event"))), "\n")

	actualEvents, eventErr := getEvents(inYAML)
	if expectError {
		if eventErr == nil {
			t.Errorf("Test: %s\nDescription: %s\nError: Expected error on event parsing but got none",
				testPath, testDescription)
		}
		return
	}
	if eventErr != nil {
		t.Errorf("Test: %s\nDescription: %s\nError: Unexpected error on event parsing: %v",
			testPath, testDescription, eventErr)
		return
	}
	if got := normalizeLineEndings(actualEvents); got != expectedEvents {
		t.Errorf("Test: %s\nDescription: %s\nError: Event mismatch\nExpected:\n%q\nGot:\n%q",
			testPath, testDescription, expectedEvents, got)
	}
}

/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package manifest

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Markers delimiting the supported Python list in the plugin source.
const (
	pythonListStart = "const SUPPORTED_PYTHON_VERSIONS: string[] = ["
	pythonListEnd   = "];"
)

var quotedRe = regexp.MustCompile(`'([^']+)'`)

// ParsePythonVersions extracts the supported Python versions from the
// TypeScript source that declares them.
func ParsePythonVersions(src string) ([]string, error) {
	_, rest, ok := strings.Cut(src, pythonListStart)
	if !ok {
		return nil, fmt.Errorf("marker %q not found", pythonListStart)
	}
	list, _, ok := strings.Cut(rest, pythonListEnd)
	if !ok {
		return nil, fmt.Errorf("marker %q not found after %q", pythonListEnd, pythonListStart)
	}

	var out []string
	for _, m := range quotedRe.FindAllStringSubmatch(list, -1) {
		out = append(out, strings.TrimSpace(m[1]))
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no versions between %q and %q", pythonListStart, pythonListEnd)
	}
	return out, nil
}

// LoadPythonVersions reads the supported Python versions from path.
func LoadPythonVersions(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading python checker source: %w", err)
	}
	vs, err := ParsePythonVersions(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return vs, nil
}

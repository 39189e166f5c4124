/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"chainguard.dev/issuecheck/versions"
)

// Manifest is the subset of package.json the checks compare against.
type Manifest struct {
	Name    string  `json:"name"`
	Version string  `json:"version"`
	Engines Engines `json:"engines"`

	// PythonVersions lists the supported Python minor versions, oldest first.
	PythonVersions []string `json:"-"`
}

// Engines holds the engine ranges declared in package.json.
type Engines struct {
	Homebridge string `json:"homebridge"`
	Node       string `json:"node"`
}

// Parse decodes a package.json document.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decoding package.json: %w", err)
	}
	if m.Version == "" {
		return nil, errors.New("package.json has no version")
	}
	if m.Engines.Homebridge == "" || m.Engines.Node == "" {
		return nil, errors.New("package.json must declare homebridge and node engines")
	}
	return &m, nil
}

// Load reads package.json from path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading package.json: %w", err)
	}
	return Parse(data)
}

// MinHomebridge returns the lowest Homebridge version the plugin supports.
func (m *Manifest) MinHomebridge() (string, error) {
	v, err := versions.Minimum(m.Engines.Homebridge)
	if err != nil {
		return "", fmt.Errorf("homebridge engine: %w", err)
	}
	return v, nil
}

// NodeFloors returns the first supported release of every Node line.
func (m *Manifest) NodeFloors() ([]string, error) {
	floors, err := versions.Floors(m.Engines.Node)
	if err != nil {
		return nil, fmt.Errorf("node engine: %w", err)
	}
	return floors, nil
}

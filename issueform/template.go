/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package issueform

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Field labels of the bug report form.
const (
	FieldLogs                  = "Logs"
	FieldConfiguration         = "Configuration"
	FieldOperatingSystem       = "Operating System"
	FieldOperatingSystemBits   = "Operating System: Bits"
	FieldOperatingSystemDistro = "Operating System: Distribution"
	FieldDocker                = "Docker"
	FieldDockerImage           = "Docker Image"
	FieldDockerImageTag        = "Docker Image Tag"
	FieldHomebridgeVersion     = "Homebridge Version"
	FieldHomebridgeConfigUI    = "Homebridge Config UI Version"
	FieldHomebridgeStoragePath = "Homebridge Storage Path"
	FieldPluginVersion         = "Homebridge Apple TV Enhanced Version"
	FieldNodeVersion           = "Node Version"
	FieldNPMVersion            = "NPM Version"
	FieldPythonVersion         = "Python Version"
	FieldPIPVersion            = "PIP Version"
	FieldHDMIHops              = "HDMI Hops"
	FieldAudioOutput           = "Audio Output"
	FieldSameSubnet            = "Same Subnet"
	FieldAdditionalContext     = "Additional Context"
)

// Template is the ordered list of field labels of an issue form.
type Template struct {
	labels []string
}

// NewTemplate returns a template for the given labels, in form order.
func NewTemplate(labels ...string) (*Template, error) {
	if len(labels) == 0 {
		return nil, errors.New("template has no fields")
	}
	seen := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		if strings.TrimSpace(l) == "" {
			return nil, errors.New("template has a field without a label")
		}
		if _, ok := seen[l]; ok {
			return nil, fmt.Errorf("template has duplicate field %q", l)
		}
		seen[l] = struct{}{}
	}
	return &Template{labels: labels}, nil
}

// DefaultTemplate returns the Apple TV Enhanced bug report form.
func DefaultTemplate() *Template {
	return &Template{labels: []string{
		FieldLogs,
		FieldConfiguration,
		FieldOperatingSystem,
		FieldOperatingSystemBits,
		FieldOperatingSystemDistro,
		FieldDocker,
		FieldDockerImage,
		FieldDockerImageTag,
		FieldHomebridgeVersion,
		FieldHomebridgeConfigUI,
		FieldHomebridgeStoragePath,
		FieldPluginVersion,
		FieldNodeVersion,
		FieldNPMVersion,
		FieldPythonVersion,
		FieldPIPVersion,
		FieldHDMIHops,
		FieldAudioOutput,
		FieldSameSubnet,
		FieldAdditionalContext,
	}}
}

// Labels returns the field labels in form order.
func (t *Template) Labels() []string {
	return t.labels
}

// Header returns the rendered markdown header of a field.
func (t *Template) Header(label string) string {
	return HeaderPrefix + label
}

// form is the subset of a GitHub issue form definition that shapes the
// rendered issue body.
type form struct {
	Name string `yaml:"name"`
	Body []struct {
		Type       string `yaml:"type"`
		ID         string `yaml:"id"`
		Attributes struct {
			Label string `yaml:"label"`
		} `yaml:"attributes"`
	} `yaml:"body"`
}

// ParseForm builds a template from a GitHub issue form definition. Markdown
// elements are not rendered into the issue body and are skipped.
func ParseForm(data []byte) (*Template, error) {
	var f form
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decoding issue form: %w", err)
	}
	var labels []string
	for i, el := range f.Body {
		if el.Type == "markdown" {
			continue
		}
		if el.Attributes.Label == "" {
			return nil, fmt.Errorf("issue form %q: body element %d (%s) has no label", f.Name, i, el.Type)
		}
		labels = append(labels, el.Attributes.Label)
	}
	t, err := NewTemplate(labels...)
	if err != nil {
		return nil, fmt.Errorf("issue form %q: %w", f.Name, err)
	}
	return t, nil
}

// LoadForm reads a GitHub issue form definition from path.
func LoadForm(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading issue form: %w", err)
	}
	return ParseForm(data)
}

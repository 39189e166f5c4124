/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package checks

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"chainguard.dev/issuecheck/issueform"
	"chainguard.dev/issuecheck/manifest"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

type fakeImages struct {
	digests map[string]string
	err     error
}

func (f *fakeImages) Resolve(_ context.Context, tag string) (string, bool, error) {
	if f.err != nil {
		return "", false, f.err
	}
	d, ok := f.digests[tag]
	return d, ok, nil
}

func (f *fakeImages) FindAlias(_ context.Context, digest string, keep func(string) bool) (string, bool, error) {
	var names []string
	for n, d := range f.digests {
		if d == digest && keep(n) {
			names = append(names, n)
		}
	}
	if len(names) == 0 {
		return "", false, nil
	}
	return slices.Max(names), true, nil
}

type fakePackages map[string][]string

func (f fakePackages) Exists(_ context.Context, pkg, version string) (bool, error) {
	vs, ok := f[pkg]
	if !ok {
		return false, errors.New("unknown package " + pkg)
	}
	return slices.Contains(vs, version), nil
}

type fakeTags map[string]bool

func (f fakeTags) HasTag(_ context.Context, tag string) (bool, error) {
	return f[tag], nil
}

func testManifest() *manifest.Manifest {
	return &manifest.Manifest{
		Name:    "homebridge-appletv-enhanced",
		Version: "1.9.0",
		Engines: manifest.Engines{
			Homebridge: ">=1.8.0",
			Node:       ">=18.15.0 || >=20.7.0 || >=22.0.0",
		},
		PythonVersions: []string{"3.9", "3.10", "3.11", "3.12"},
	}
}

func newTestChecker(t *testing.T, images ImageTags) *Checker {
	t.Helper()
	if images == nil {
		images = &fakeImages{digests: map[string]string{
			"latest":     "sha256:aaa",
			"2024-01-08": "sha256:aaa",
			"2023-12-01": "sha256:bbb",
			"ubuntu":     "sha256:ccc",
		}}
	}
	packages := fakePackages{
		"homebridge":                  {"1.7.0", "1.8.0-beta.1", "1.8.0", "1.8.1-beta.2", "1.8.4"},
		"homebridge-config-ui-x":      {"4.50.0", "4.56.0"},
		"homebridge-appletv-enhanced": {"1.8.0", "1.9.0", "1.9.0-3"},
		"npm":                         {"10.2.4"},
	}
	tags := fakeTags{"v18.20.4": true, "v19.0.0": true, "v20.11.0": true}

	c, err := New(testManifest(), images, packages, tags)
	require.NoError(t, err)
	return c
}

// validFields is a bug report that passes every check.
func validFields() map[string]string {
	return map[string]string{
		issueform.FieldLogs:                  "```\n[D] Apple TV: connected\n```",
		issueform.FieldConfiguration:         "```json\n{\"platform\": \"AppleTVEnhanced\"}\n```",
		issueform.FieldOperatingSystem:       "Linux",
		issueform.FieldOperatingSystemBits:   "64-bit",
		issueform.FieldOperatingSystemDistro: "Debian 12",
		issueform.FieldDocker:                "yes",
		issueform.FieldDockerImage:           "homebridge/homebridge",
		issueform.FieldDockerImageTag:        "2024-01-08",
		issueform.FieldHomebridgeVersion:     "v1.8.4",
		issueform.FieldHomebridgeConfigUI:    "4.56.0",
		issueform.FieldHomebridgeStoragePath: "/var/lib/homebridge",
		issueform.FieldPluginVersion:         "1.9.0",
		issueform.FieldNodeVersion:           "20.11.0",
		issueform.FieldNPMVersion:            "10.2.4",
		issueform.FieldPythonVersion:         "3.11.2",
		issueform.FieldPIPVersion:            "23.0",
		issueform.FieldHDMIHops:              "0",
		issueform.FieldAudioOutput:           "no",
		issueform.FieldSameSubnet:            "yes",
		issueform.FieldAdditionalContext:     "_No response_",
	}
}

func parse(t *testing.T, fields map[string]string) *issueform.Sections {
	t.Helper()
	tmpl := issueform.DefaultTemplate()
	var sb strings.Builder
	for _, l := range tmpl.Labels() {
		sb.WriteString(tmpl.Header(l) + "\n\n" + fields[l] + "\n\n")
	}
	s, err := tmpl.Parse(sb.String())
	require.NoError(t, err)
	return s
}

func TestRunValid(t *testing.T) {
	c := newTestChecker(t, nil)

	res, err := c.Run(context.Background(), parse(t, validFields()))
	require.NoError(t, err)

	if !res.Passed() {
		t.Fatalf("expected pass, got problems: %v", res.All())
	}
	if got := len(res.Fields()); got != 16 {
		t.Errorf("expected 16 checked fields, got %d: %v", got, res.Fields())
	}
}

func TestRunSingleInvalidField(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value string
		want  string
	}{
		{"no debug logs", issueform.FieldLogs, "[I] Apple TV: connected", "Enable **debug logging** (loglevel 4)"},
		{"config not json", issueform.FieldConfiguration, "{a:1}", "The configuration is **no valid JSON**"},
		{"windows", issueform.FieldOperatingSystem, "Windows", "Your current OS is Windows."},
		{"32 bit", issueform.FieldOperatingSystemBits, "32-bit", "Your current architecture is 32-bit."},
		{"other image", issueform.FieldDockerImage, "oznu/homebridge", "You are currently using oznu/homebridge."},
		{"latest tag", issueform.FieldDockerImageTag, "latest", "(not `latest`)"},
		{"non date tag", issueform.FieldDockerImageTag, "ubuntu", "tagging strategy of homebridge/homebridge"},
		{"missing tag", issueform.FieldDockerImageTag, "2020-01-01", "The **tag `2020-01-01` does not exist**"},
		{"outdated tag", issueform.FieldDockerImageTag, "2023-12-01", "image version [`2024-01-08`](https://hub.docker.com/r/homebridge/homebridge/tags?page=1&name=2024-01-08)"},
		{"homebridge pattern", issueform.FieldHomebridgeVersion, "1.8", "The Homebridge version 1.8 does not match"},
		{"homebridge too old", issueform.FieldHomebridgeVersion, "1.7.0", "**requires Homebridge version `1.8.0`**. You have installed version 1.7.0."},
		{"homebridge prerelease of minimum", issueform.FieldHomebridgeVersion, "1.8.0-beta.1", "**requires Homebridge version `1.8.0`**"},
		{"homebridge unpublished", issueform.FieldHomebridgeVersion, "1.8.9", "Homebridge version 1.8.9 does not exist."},
		{"config ui too old", issueform.FieldHomebridgeConfigUI, "4.50.0", "**requires Homebridge Config UI version `4.54.2`**"},
		{"relative path", issueform.FieldHomebridgeStoragePath, "relative/path", "The path `relative/path` is no valid absolute path."},
		{"unescaped space", issueform.FieldHomebridgeStoragePath, "/foo bar", "The path `/foo bar` is no valid absolute path."},
		{"outdated plugin", issueform.FieldPluginVersion, "1.8.0", "Please use the **latest Homebridge Apple TV Enhanced version 1.9.0**"},
		{"plugin pattern", issueform.FieldPluginVersion, "1.9.0-beta.1", "The Homebridge Apple TV Enhanced version 1.9.0-beta.1 does not match"},
		{"node unsupported line", issueform.FieldNodeVersion, "v19.0.0", "It should be an up-to-date LTS version: 18.15.0 or 20.7.0 or 22.0.0"},
		{"node unreleased", issueform.FieldNodeVersion, "v20.99.0", "Node version v20.99.0 does not exist."},
		{"npm unpublished", issueform.FieldNPMVersion, "10.99.0", "NPM version 10.99.0 does not exist."},
		{"python unsupported", issueform.FieldPythonVersion, "3.8.10", "install a supported Python version**, e.g. 3.12"},
		{"python prefix only", issueform.FieldPythonVersion, "3.1.0", "Your Python version 3.1.0 is not supported."},
		{"pip pattern", issueform.FieldPIPVersion, "latest", "The PIP version latest does not match"},
		{"audio output", issueform.FieldAudioOutput, "yes", "External audio outputs are not supported"},
		{"other subnet", issueform.FieldSameSubnet, "no", "on the same subnet as the Homebridge instance"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := validFields()
			fields[tt.field] = tt.value

			res, err := newTestChecker(t, nil).Run(context.Background(), parse(t, fields))
			require.NoError(t, err)

			all := res.All()
			if len(all) != 1 {
				t.Fatalf("expected exactly one problem, got %d: %v", len(all), all)
			}
			if diff := cmp.Diff(all, res.Problems(tt.field)); diff != "" {
				t.Errorf("problem not attributed to %s (-all +field):\n%s", tt.field, diff)
			}
			if !strings.Contains(all[0], tt.want) {
				t.Errorf("problem %q does not contain %q", all[0], tt.want)
			}
		})
	}
}

func TestRunSkipsDockerChecksWithoutDocker(t *testing.T) {
	fields := validFields()
	fields[issueform.FieldDocker] = "no"
	fields[issueform.FieldDockerImage] = "_No response_"
	fields[issueform.FieldDockerImageTag] = "_No response_"

	// Any image lookup would fail the run.
	c := newTestChecker(t, &fakeImages{err: errors.New("unreachable")})
	res, err := c.Run(context.Background(), parse(t, fields))
	require.NoError(t, err)

	if !res.Passed() {
		t.Errorf("expected pass, got %v", res.All())
	}
	if slices.Contains(res.Fields(), issueform.FieldDockerImageTag) {
		t.Error("docker tag was checked without Docker")
	}
}

func TestRunLookupFailure(t *testing.T) {
	c := newTestChecker(t, &fakeImages{err: errors.New("registry unavailable")})
	if _, err := c.Run(context.Background(), parse(t, validFields())); err == nil {
		t.Error("expected the lookup failure to abort the run")
	}
}

func TestRunMissingLatest(t *testing.T) {
	c := newTestChecker(t, &fakeImages{digests: map[string]string{"2024-01-08": "sha256:aaa"}})
	if _, err := c.Run(context.Background(), parse(t, validFields())); err == nil {
		t.Error("expected an error for an image without a latest tag")
	}
}

func TestRunAliasFallsBackToLatest(t *testing.T) {
	c := newTestChecker(t, &fakeImages{digests: map[string]string{
		"latest":     "sha256:new",
		"2023-12-01": "sha256:old",
	}})
	fields := validFields()
	fields[issueform.FieldDockerImageTag] = "2023-12-01"

	res, err := c.Run(context.Background(), parse(t, fields))
	require.NoError(t, err)
	got := res.Problems(issueform.FieldDockerImageTag)
	if len(got) != 1 || !strings.Contains(got[0], "image version [`latest`]") {
		t.Errorf("unexpected problems: %v", got)
	}
}

func TestNew(t *testing.T) {
	images := &fakeImages{}
	packages := fakePackages{}
	tags := fakeTags{}

	tests := []struct {
		name   string
		mutate func(*manifest.Manifest)
	}{
		{"no python versions", func(m *manifest.Manifest) { m.PythonVersions = nil }},
		{"bad node engine", func(m *manifest.Manifest) { m.Engines.Node = "*" }},
		{"bad homebridge engine", func(m *manifest.Manifest) { m.Engines.Homebridge = "latest" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := testManifest()
			tt.mutate(m)
			if _, err := New(m, images, packages, tags); err == nil {
				t.Error("expected error")
			}
		})
	}

	if _, err := New(nil, images, packages, tags); err == nil {
		t.Error("New(nil manifest): expected error")
	}
	if _, err := New(testManifest(), nil, packages, tags); err == nil {
		t.Error("New(nil images): expected error")
	}

	c, err := New(testManifest(), images, packages, tags, WithAllowedImage("example/image"), WithConfigUIMinimum("5.0.0"))
	require.NoError(t, err)
	if c.allowedImage != "example/image" || c.configUIMinimum != "5.0.0" {
		t.Errorf("options not applied: %q %q", c.allowedImage, c.configUIMinimum)
	}
}

/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package checks validates the fields of a bug report against the plugin's
// requirements. Every check produces human readable problems addressed to
// the reporter; a check only returns an error when it cannot reach a verdict,
// for example because a registry lookup failed.
package checks

import (
	"context"
	"errors"
	"fmt"

	"chainguard.dev/issuecheck/issueform"
	"chainguard.dev/issuecheck/manifest"
	"github.com/chainguard-dev/clog"
)

// Defaults for the Checker options.
const (
	DefaultAllowedImage    = "homebridge/homebridge"
	DefaultConfigUIMinimum = "4.54.2"
	DefaultPluginPackage   = "homebridge-appletv-enhanced"
)

// ImageTags resolves tags of the supported container image.
type ImageTags interface {
	// Resolve returns the digest a tag points to, and whether the tag exists.
	Resolve(ctx context.Context, tag string) (digest string, found bool, err error)
	// FindAlias returns a tag accepted by keep that points to digest.
	FindAlias(ctx context.Context, digest string, keep func(string) bool) (tag string, found bool, err error)
}

// PackageVersions answers whether a package version has been published.
type PackageVersions interface {
	Exists(ctx context.Context, pkg, version string) (bool, error)
}

// TagFinder answers whether a release tag exists.
type TagFinder interface {
	HasTag(ctx context.Context, tag string) (bool, error)
}

// Option configures a Checker.
type Option func(*Checker)

// WithAllowedImage sets the only container image reporters may run.
func WithAllowedImage(image string) Option {
	return func(c *Checker) {
		c.allowedImage = image
	}
}

// WithConfigUIMinimum sets the lowest supported Homebridge Config UI version.
func WithConfigUIMinimum(v string) Option {
	return func(c *Checker) {
		c.configUIMinimum = v
	}
}

// Checker runs every check against the sections of one issue.
type Checker struct {
	manifest *manifest.Manifest
	images   ImageTags
	packages PackageVersions
	nodeTags TagFinder

	allowedImage    string
	configUIMinimum string
	pluginPackage   string

	minHomebridge string
	nodeFloors    []string
}

// New returns a Checker comparing against m. The lookups are only consulted
// for fields that are otherwise well formed.
func New(m *manifest.Manifest, images ImageTags, packages PackageVersions, nodeTags TagFinder, opts ...Option) (*Checker, error) {
	if m == nil {
		return nil, errors.New("manifest is required")
	}
	if images == nil || packages == nil || nodeTags == nil {
		return nil, errors.New("image, package and node tag lookups are required")
	}
	if len(m.PythonVersions) == 0 {
		return nil, errors.New("manifest lists no supported Python versions")
	}

	c := &Checker{
		manifest:        m,
		images:          images,
		packages:        packages,
		nodeTags:        nodeTags,
		allowedImage:    DefaultAllowedImage,
		configUIMinimum: DefaultConfigUIMinimum,
		pluginPackage:   DefaultPluginPackage,
	}
	if m.Name != "" {
		c.pluginPackage = m.Name
	}
	for _, opt := range opts {
		opt(c)
	}

	var err error
	if c.minHomebridge, err = m.MinHomebridge(); err != nil {
		return nil, err
	}
	if c.nodeFloors, err = m.NodeFloors(); err != nil {
		return nil, err
	}
	return c, nil
}

// check validates one field. It returns the problems found in value.
type check struct {
	field string
	run   func(ctx context.Context, value string) ([]string, error)
}

func (c *Checker) checks() []check {
	return []check{
		{issueform.FieldLogs, c.checkLogs},
		{issueform.FieldConfiguration, c.checkConfig},
		{issueform.FieldOperatingSystem, c.checkOS},
		{issueform.FieldOperatingSystemBits, c.checkOSBits},
		{issueform.FieldDockerImage, c.checkDockerImage},
		{issueform.FieldDockerImageTag, c.checkDockerTag},
		{issueform.FieldHomebridgeVersion, c.checkHomebridge},
		{issueform.FieldHomebridgeConfigUI, c.checkConfigUI},
		{issueform.FieldHomebridgeStoragePath, c.checkStoragePath},
		{issueform.FieldPluginVersion, c.checkPlugin},
		{issueform.FieldNodeVersion, c.checkNode},
		{issueform.FieldNPMVersion, c.checkNPM},
		{issueform.FieldPythonVersion, c.checkPython},
		{issueform.FieldPIPVersion, c.checkPIP},
		{issueform.FieldAudioOutput, c.checkAudioOutput},
		{issueform.FieldSameSubnet, c.checkSameSubnet},
	}
}

// dockerOnly lists the fields that are only checked for Docker installs.
var dockerOnly = map[string]bool{
	issueform.FieldDockerImage:    true,
	issueform.FieldDockerImageTag: true,
}

// Run checks every field of the issue and collects the problems found.
func (c *Checker) Run(ctx context.Context, s *issueform.Sections) (*Result, error) {
	docker, err := s.Get(issueform.FieldDocker)
	if err != nil {
		return nil, err
	}
	usesDocker := docker == "yes"

	res := NewResult()
	for _, ch := range c.checks() {
		log := clog.FromContext(ctx).With("field", ch.field)
		if dockerOnly[ch.field] && !usesDocker {
			log.Debug("Skipping, not a Docker install")
			continue
		}

		value, err := s.Get(ch.field)
		if err != nil {
			return nil, err
		}
		problems, err := ch.run(ctx, value)
		if err != nil {
			return nil, fmt.Errorf("checking %s: %w", ch.field, err)
		}
		log.With("problems", len(problems)).Debug("Checked field")
		res.Add(ch.field, problems...)
	}
	return res, nil
}

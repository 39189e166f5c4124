/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package checks

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"chainguard.dev/issuecheck/versions"
)

// npm packages whose published versions are checked.
const (
	homebridgePackage = "homebridge"
	configUIPackage   = "homebridge-config-ui-x"
	npmPackage        = "npm"
)

var (
	homebridgeVersionRe = regexp.MustCompile(`^\d+\.\d+\.\d+(-(beta|alpha)\.\d+)?$`)
	pluginVersionRe     = regexp.MustCompile(`^\d+\.\d+\.\d+(-\d+)?$`)
	nodeVersionRe       = regexp.MustCompile(`^v\d+\.\d+\.\d+$`)
	releaseVersionRe    = regexp.MustCompile(`^\d+\.\d+\.\d+$`)
	pipVersionRe        = regexp.MustCompile(`^\d+\.\d+(\.\d+)?$`)
)

func patternMismatch(product, version string) string {
	return fmt.Sprintf("The %s version %s does not match the expected version pattern of %s. Please provide a version that exists.", product, version, product)
}

// minimumRelease checks a Homebridge style version against a minimum and
// against the versions published to npm.
func (c *Checker) minimumRelease(ctx context.Context, product, pkg, minimum, raw string) ([]string, error) {
	v := versions.Trim(raw)
	if !homebridgeVersionRe.MatchString(v) {
		return []string{patternMismatch(product, v)}, nil
	}

	var problems []string
	if versions.Less(versions.Downgrade(v), minimum) {
		problems = append(problems, fmt.Sprintf("The current version of Apple TV Enhanced **requires %s version `%s`**. You have installed version %s.", product, minimum, v))
	}
	ok, err := c.packages.Exists(ctx, pkg, v)
	if err != nil {
		return nil, err
	}
	if !ok {
		problems = append(problems, fmt.Sprintf("%s version %s does not exist. Please **provide a %s version that exists**.", product, v, product))
	}
	return problems, nil
}

func (c *Checker) checkHomebridge(ctx context.Context, raw string) ([]string, error) {
	return c.minimumRelease(ctx, "Homebridge", homebridgePackage, c.minHomebridge, raw)
}

func (c *Checker) checkConfigUI(ctx context.Context, raw string) ([]string, error) {
	return c.minimumRelease(ctx, "Homebridge Config UI", configUIPackage, c.configUIMinimum, raw)
}

// checkPlugin requires a published plugin version no older than the current
// release.
func (c *Checker) checkPlugin(ctx context.Context, raw string) ([]string, error) {
	const product = "Homebridge Apple TV Enhanced"

	v := versions.Trim(raw)
	if !pluginVersionRe.MatchString(v) {
		return []string{patternMismatch(product, v)}, nil
	}

	var problems []string
	ok, err := c.packages.Exists(ctx, c.pluginPackage, v)
	if err != nil {
		return nil, err
	}
	if !ok {
		problems = append(problems, fmt.Sprintf("%s version %s does not exist. Please **provide a %s version that exists**.", product, v, product))
	}
	if latest := c.manifest.Version; versions.Less(versions.Downgrade(v), latest) {
		problems = append(problems, fmt.Sprintf("Please use the **latest %s version %s**. You are currently using version %s.", product, latest, v))
	}
	return problems, nil
}

// checkNode requires a released Node version on one of the supported lines.
func (c *Checker) checkNode(ctx context.Context, raw string) ([]string, error) {
	v := versions.Canonical(raw)
	if !nodeVersionRe.MatchString(v) {
		return []string{patternMismatch("Node", v)}, nil
	}

	var problems []string
	ok, err := c.nodeTags.HasTag(ctx, v)
	if err != nil {
		return nil, err
	}
	if !ok {
		problems = append(problems, fmt.Sprintf("Node version %s does not exist. Please **provide a Node version that exists**.", v))
	}
	if !versions.SatisfiesAny(v, c.nodeFloors) {
		problems = append(problems, fmt.Sprintf("Node Version %s is not supported. It should be an up-to-date LTS version: %s", v, strings.Join(c.nodeFloors, " or ")))
	}
	return problems, nil
}

func (c *Checker) checkNPM(ctx context.Context, raw string) ([]string, error) {
	v := versions.Trim(raw)
	if !releaseVersionRe.MatchString(v) {
		return []string{patternMismatch("NPM", v)}, nil
	}
	ok, err := c.packages.Exists(ctx, npmPackage, v)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []string{fmt.Sprintf("NPM version %s does not exist. Please **provide a NPM version that exists**.", v)}, nil
	}
	return nil, nil
}

// checkPython requires a patch release of one of the supported minors.
func (c *Checker) checkPython(_ context.Context, raw string) ([]string, error) {
	v := versions.Trim(raw)
	if !releaseVersionRe.MatchString(v) {
		return []string{patternMismatch("Python", v)}, nil
	}
	for _, minor := range c.manifest.PythonVersions {
		if strings.HasPrefix(v, minor+".") {
			return nil, nil
		}
	}
	supported := c.manifest.PythonVersions
	return []string{fmt.Sprintf("Your Python version %s is not supported. Please **install a supported Python version**, e.g. %s", v, supported[len(supported)-1])}, nil
}

func (c *Checker) checkPIP(_ context.Context, raw string) ([]string, error) {
	v := versions.Trim(raw)
	if !pipVersionRe.MatchString(v) {
		return []string{patternMismatch("PIP", v)}, nil
	}
	return nil, nil
}

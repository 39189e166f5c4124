/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package checks

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

const requirementsURL = "https://github.com/maxileith/homebridge-appletv-enhanced#requirements"

// debugMarker prefixes every debug level log line.
const debugMarker = "[D]"

// storagePathRe matches absolute paths whose segments consist of word
// characters, dots, dashes and escaped whitespace.
var storagePathRe = regexp.MustCompile(`^(/([a-zA-Z0-9_\-.]|\\\s)+)+$`)

func (c *Checker) checkLogs(_ context.Context, logs string) ([]string, error) {
	if !strings.Contains(logs, debugMarker) {
		return []string{"Enable **debug logging** (loglevel 4)"}, nil
	}
	return nil, nil
}

// stripCodeFence removes a surrounding markdown code fence, including the
// language hint of the opening fence.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}

func (c *Checker) checkConfig(_ context.Context, conf string) ([]string, error) {
	if !json.Valid([]byte(stripCodeFence(conf))) {
		return []string{"The configuration is **no valid JSON**"}, nil
	}
	return nil, nil
}

func (c *Checker) checkOS(_ context.Context, os string) ([]string, error) {
	if os != "Linux" {
		return []string{fmt.Sprintf("Only **Linux** is supported as an operating system (see [requirements](%s)). Your current OS is %s.", requirementsURL, os)}, nil
	}
	return nil, nil
}

func (c *Checker) checkOSBits(_ context.Context, bits string) ([]string, error) {
	if bits != "64-bit" {
		return []string{fmt.Sprintf("Only **64-bit** architectures are supported. Your current architecture is %s.", bits)}, nil
	}
	return nil, nil
}

func (c *Checker) checkStoragePath(_ context.Context, path string) ([]string, error) {
	if !storagePathRe.MatchString(path) {
		return []string{fmt.Sprintf("The path `%s` is no valid absolute path. Please provide the homebridge storage **absolute** path.", path)}, nil
	}
	return nil, nil
}

func (c *Checker) checkAudioOutput(_ context.Context, audio string) ([]string, error) {
	if audio != "no" {
		return []string{"External audio outputs are not supported by the plugin as explained in the [known issues](https://github.com/maxileith/homebridge-appletv-enhanced?tab=readme-ov-file#known-issues)."}, nil
	}
	return nil, nil
}

func (c *Checker) checkSameSubnet(_ context.Context, subnet string) ([]string, error) {
	if subnet != "yes" {
		return []string{fmt.Sprintf("It is required to have the Apple TV on the same subnet as the Homebridge instance as written in the [requirements](%s).", requirementsURL)}, nil
	}
	return nil, nil
}

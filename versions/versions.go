/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package versions compares the semver-like version strings users paste into
// issue reports and the engine ranges declared in package.json.
//
// Versions may carry an optional leading "v". Precedence follows semver:
// major.minor.patch, with prerelease suffixes ordered below their release.
package versions

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

// Trim removes a single leading "v" or "V".
func Trim(v string) string {
	if v != "" && (v[0] == 'v' || v[0] == 'V') {
		return v[1:]
	}
	return v
}

// Canonical returns v with exactly one leading "v", the form semver expects.
func Canonical(v string) string {
	return "v" + Trim(v)
}

// Valid reports whether v parses as a semantic version.
func Valid(v string) bool {
	return semver.IsValid(Canonical(v))
}

// Compare returns -1, 0 or +1 depending on whether a < b, a == b or a > b.
// An invalid version compares below every valid one.
func Compare(a, b string) int {
	return semver.Compare(Canonical(a), Canonical(b))
}

// Less reports whether a has lower precedence than b.
func Less(a, b string) bool {
	return Compare(a, b) < 0
}

// Downgrade normalizes a prerelease such as 2.1.3-beta.3 to the previous
// patch release, 2.1.2, so it can be compared against release minimums.
// Releases are returned unchanged. A prerelease of a .0 patch has no previous
// patch release; it is returned as-is and semver precedence already orders it
// below the release.
func Downgrade(v string) string {
	base, _, ok := strings.Cut(v, "-")
	if !ok {
		return v
	}
	parts := strings.SplitN(base, ".", 3)
	if len(parts) != 3 {
		return v
	}
	patch, err := strconv.Atoi(parts[2])
	if err != nil || patch == 0 {
		return v
	}
	return fmt.Sprintf("%s.%s.%d", parts[0], parts[1], patch-1)
}

// NextMajor returns the first release of the major version after v,
// e.g. "21.0.0" for "20.11.1".
func NextMajor(v string) (string, error) {
	major := strings.TrimPrefix(semver.Major(Canonical(v)), "v")
	if major == "" {
		return "", fmt.Errorf("invalid version %q", v)
	}
	n, err := strconv.Atoi(major)
	if err != nil {
		return "", fmt.Errorf("invalid major in %q: %w", v, err)
	}
	return fmt.Sprintf("%d.0.0", n+1), nil
}

/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package versions

import (
	"fmt"
	"strings"
)

// Floors parses an engine range such as ">=18.15.0 || >=20.7.0" into the
// versions that open each alternative. Caret and tilde alternatives are
// accepted and treated the same way.
func Floors(expr string) ([]string, error) {
	var floors []string
	for _, alt := range strings.Split(expr, "||") {
		alt = strings.TrimSpace(alt)
		if alt == "" {
			continue
		}
		floor := Trim(strings.TrimLeft(alt, ">=^~ "))
		if !Valid(floor) {
			return nil, fmt.Errorf("unsupported engine range %q in %q", alt, expr)
		}
		floors = append(floors, floor)
	}
	if len(floors) == 0 {
		return nil, fmt.Errorf("empty engine range %q", expr)
	}
	return floors, nil
}

// Minimum returns the first floor of an engine range.
func Minimum(expr string) (string, error) {
	floors, err := Floors(expr)
	if err != nil {
		return "", err
	}
	return floors[0], nil
}

// WithinMajor reports whether v lies in [floor, next major of floor).
func WithinMajor(v, floor string) bool {
	ceiling, err := NextMajor(floor)
	if err != nil {
		return false
	}
	return Compare(v, floor) >= 0 && Compare(v, ceiling) < 0
}

// SatisfiesAny reports whether v is WithinMajor of any of the floors.
func SatisfiesAny(v string, floors []string) bool {
	for _, f := range floors {
		if WithinMajor(v, f) {
			return true
		}
	}
	return false
}

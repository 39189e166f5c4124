/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package manifest loads the plugin's own reference data: the package.json
// engine ranges and version, and the Python versions the plugin supports.
package manifest

/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package lookups holds the types and HTTP plumbing shared by the clients
// that query external registries while checking an issue.
package lookups

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"chainguard.dev/issuecheck/retry"
)

// DefaultTimeout bounds every lookup request.
const DefaultTimeout = 10 * time.Second

// maxErrorBody limits how much of an error response ends up in an error.
const maxErrorBody = 512

// Tag is an image tag and the digest it currently points to.
type Tag struct {
	Name   string `json:"name"`
	Digest string `json:"digest"`
}

// NewHTTPClient returns an http.Client with the given timeout, or
// DefaultTimeout when timeout is zero.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// GetJSON issues a GET request and decodes a 200 response into v. Any other
// status is returned as a *retry.StatusError.
func GetJSON(ctx context.Context, hc *http.Client, url, accept string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &retry.StatusError{
			Method:     http.MethodGet,
			URL:        url,
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decoding %s: %w", url, err)
	}
	return nil
}

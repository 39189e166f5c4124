/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package npm lists the published versions of packages on an npm registry.
package npm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"chainguard.dev/issuecheck/lookups"
	"chainguard.dev/issuecheck/retry"
	"chainguard.dev/issuecheck/versions"
	"github.com/chainguard-dev/clog"
	"github.com/patrickmn/go-cache"
)

// DefaultRegistryURL is the public npm registry.
const DefaultRegistryURL = "https://registry.npmjs.org"

// acceptAbbreviated asks for the abbreviated install metadata, which still
// lists every version but omits readmes and per-version manifests details.
const acceptAbbreviated = "application/vnd.npm.install-v1+json; q=1.0, application/json; q=0.8"

// Option configures a Client.
type Option func(*Client)

// WithRegistryURL overrides the registry endpoint.
func WithRegistryURL(u string) Option {
	return func(c *Client) {
		c.registryURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient sets the http.Client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.hc = hc
	}
}

// WithRetry sets the retry policy for rate limited or failed requests.
func WithRetry(cfg retry.Config) Option {
	return func(c *Client) {
		c.retry = cfg
	}
}

// Client fetches package metadata. Each package is fetched at most once per
// Client.
type Client struct {
	registryURL string
	hc          *http.Client
	retry       retry.Config
	versions    *cache.Cache
}

// New returns a Client for the public npm registry unless overridden.
func New(opts ...Option) *Client {
	c := &Client{
		registryURL: DefaultRegistryURL,
		hc:          lookups.NewHTTPClient(0),
		retry:       retry.DefaultConfig(),
		versions:    cache.New(cache.NoExpiration, 0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type packument struct {
	Versions map[string]json.RawMessage `json:"versions"`
}

// Versions returns every published version of pkg, lowest first.
func (c *Client) Versions(ctx context.Context, pkg string) ([]string, error) {
	if v, ok := c.versions.Get(pkg); ok {
		return v.([]string), nil
	}

	u := c.registryURL + "/" + url.PathEscape(pkg)
	doc, err := retry.Do(ctx, c.retry, "npm.packument", retry.IsTransient, func() (*packument, error) {
		var doc packument
		if err := lookups.GetJSON(ctx, c.hc, u, acceptAbbreviated, &doc); err != nil {
			return nil, err
		}
		return &doc, nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetching npm package %s: %w", pkg, err)
	}
	if doc.Versions == nil {
		return nil, fmt.Errorf("npm package %s: response has no versions", pkg)
	}

	out := make([]string, 0, len(doc.Versions))
	for v := range doc.Versions {
		out = append(out, v)
	}
	slices.SortFunc(out, versions.Compare)

	clog.FromContext(ctx).With("package", pkg).With("versions", len(out)).Debug("Fetched npm versions")
	c.versions.Set(pkg, out, cache.NoExpiration)
	return out, nil
}

// Exists reports whether version has been published for pkg.
func (c *Client) Exists(ctx context.Context, pkg, version string) (bool, error) {
	vs, err := c.Versions(ctx, pkg)
	if err != nil {
		return false, err
	}
	return slices.Contains(vs, version), nil
}

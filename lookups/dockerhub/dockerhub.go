/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package dockerhub lists the tags of a Docker Hub repository through the
// Docker Hub REST API, which returns each tag together with its digest.
package dockerhub

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"chainguard.dev/issuecheck/lookups"
	"chainguard.dev/issuecheck/retry"
	"github.com/chainguard-dev/clog"
	"github.com/google/go-containerregistry/pkg/name"
)

// DefaultBaseURL is the Docker Hub API endpoint.
const DefaultBaseURL = "https://hub.docker.com"

const (
	pageSize = 100
	maxPages = 200
)

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the Docker Hub API endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient sets the http.Client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.hc = hc
	}
}

// WithRetry sets the retry policy for rate limited or failed pages.
func WithRetry(cfg retry.Config) Option {
	return func(c *Client) {
		c.retry = cfg
	}
}

// Client lists the tags of one repository. The listing is fetched on first
// use and reused for the lifetime of the Client.
type Client struct {
	baseURL    string
	repository string
	hc         *http.Client
	retry      retry.Config

	tags []lookups.Tag
}

// New returns a Client for a Docker Hub image such as "homebridge/homebridge".
func New(image string, opts ...Option) (*Client, error) {
	repo, err := name.NewRepository(image)
	if err != nil {
		return nil, fmt.Errorf("parsing image %q: %w", image, err)
	}
	if repo.RegistryStr() != name.DefaultRegistry {
		return nil, fmt.Errorf("image %q is not hosted on Docker Hub", image)
	}

	c := &Client{
		baseURL:    DefaultBaseURL,
		repository: repo.RepositoryStr(),
		hc:         lookups.NewHTTPClient(0),
		retry:      retry.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type tagsPage struct {
	Next    string        `json:"next"`
	Results []lookups.Tag `json:"results"`
}

// Tags returns every tag of the repository.
func (c *Client) Tags(ctx context.Context) ([]lookups.Tag, error) {
	if c.tags != nil {
		return c.tags, nil
	}

	next := fmt.Sprintf("%s/v2/repositories/%s/tags?page_size=%d", c.baseURL, c.repository, pageSize)
	tags := []lookups.Tag{}
	for page := 0; next != ""; page++ {
		if page == maxPages {
			return nil, fmt.Errorf("listing tags of %s: more than %d pages", c.repository, maxPages)
		}
		if _, err := url.Parse(next); err != nil {
			return nil, fmt.Errorf("invalid next page link %q: %w", next, err)
		}

		u := next
		p, err := retry.Do(ctx, c.retry, "dockerhub.tags", retry.IsTransient, func() (*tagsPage, error) {
			var p tagsPage
			if err := lookups.GetJSON(ctx, c.hc, u, "application/json", &p); err != nil {
				return nil, err
			}
			return &p, nil
		})
		if err != nil {
			return nil, fmt.Errorf("listing tags of %s: %w", c.repository, err)
		}
		tags = append(tags, p.Results...)
		next = p.Next
	}

	clog.FromContext(ctx).With("repository", c.repository).With("tags", len(tags)).Debug("Listed Docker Hub tags")
	c.tags = tags
	return tags, nil
}

// Resolve returns the digest a tag points to, and whether the tag exists.
func (c *Client) Resolve(ctx context.Context, tag string) (string, bool, error) {
	tags, err := c.Tags(ctx)
	if err != nil {
		return "", false, err
	}
	for _, t := range tags {
		if t.Name == tag {
			return t.Digest, true, nil
		}
	}
	return "", false, nil
}

// FindAlias returns the highest-sorting tag accepted by keep that points to
// digest.
func (c *Client) FindAlias(ctx context.Context, digest string, keep func(string) bool) (string, bool, error) {
	tags, err := c.Tags(ctx)
	if err != nil {
		return "", false, err
	}
	var aliases []string
	for _, t := range tags {
		if t.Digest == digest && keep(t.Name) {
			aliases = append(aliases, t.Name)
		}
	}
	if len(aliases) == 0 {
		return "", false, nil
	}
	return slices.Max(aliases), true, nil
}

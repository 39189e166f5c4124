/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package ocitags resolves image tags through the OCI distribution API of
// the registry that hosts the image.
//
// Unlike the Docker Hub REST API, the registry API does not return digests
// with the tag listing. Resolve issues a single HEAD request, and FindAlias
// walks the accepted tags from the highest-sorting one down, stopping at the
// first tag that points to the wanted digest.
//
//	c, err := ocitags.New("homebridge/homebridge",
//	    ocitags.WithRemoteOptions(remote.WithAuthFromKeychain(authn.DefaultKeychain)),
//	)
package ocitags

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"

	"chainguard.dev/issuecheck/retry"
	"github.com/chainguard-dev/clog"
	"github.com/google/go-containerregistry/pkg/name"
	"github.com/google/go-containerregistry/pkg/v1/remote"
	"github.com/google/go-containerregistry/pkg/v1/remote/transport"
)

// Option configures a Client.
type Option func(*Client)

// WithNameOptions provides name.Options used to parse the image reference
// (e.g. name.Insecure).
func WithNameOptions(opts ...name.Option) Option {
	return func(c *Client) {
		c.nameOpts = append(c.nameOpts, opts...)
	}
}

// WithRemoteOptions appends remote.Options applied to every registry request.
func WithRemoteOptions(opts ...remote.Option) Option {
	return func(c *Client) {
		c.remoteOpts = append(c.remoteOpts, opts...)
	}
}

// WithRetry sets the retry policy for rate limited or failed requests.
func WithRetry(cfg retry.Config) Option {
	return func(c *Client) {
		c.retry = cfg
	}
}

// Client resolves tags of one repository. Resolved digests are remembered
// for the lifetime of the Client.
type Client struct {
	repo       name.Repository
	nameOpts   []name.Option
	remoteOpts []remote.Option
	retry      retry.Config

	digests map[string]string
	names   []string
}

// New returns a Client for image, e.g. "homebridge/homebridge" or
// "ghcr.io/homebridge/homebridge".
func New(image string, opts ...Option) (*Client, error) {
	c := &Client{
		retry:   retry.DefaultConfig(),
		digests: make(map[string]string),
	}
	for _, opt := range opts {
		opt(c)
	}

	repo, err := name.NewRepository(image, c.nameOpts...)
	if err != nil {
		return nil, fmt.Errorf("parsing image %q: %w", image, err)
	}
	c.repo = repo
	return c, nil
}

// isRetryable classifies registry errors: rate limits and server errors.
func isRetryable(err error) bool {
	var terr *transport.Error
	if !errors.As(err, &terr) {
		return false
	}
	return terr.StatusCode == http.StatusTooManyRequests || terr.StatusCode >= http.StatusInternalServerError
}

func isNotFound(err error) bool {
	var terr *transport.Error
	return errors.As(err, &terr) && terr.StatusCode == http.StatusNotFound
}

func (c *Client) options(ctx context.Context) []remote.Option {
	return append([]remote.Option{remote.WithContext(ctx)}, c.remoteOpts...)
}

// Resolve returns the digest a tag points to, and whether the tag exists.
func (c *Client) Resolve(ctx context.Context, tag string) (string, bool, error) {
	if d, ok := c.digests[tag]; ok {
		return d, d != "", nil
	}

	ref := c.repo.Tag(tag)
	digest, err := retry.Do(ctx, c.retry, "oci.head", isRetryable, func() (string, error) {
		desc, err := remote.Head(ref, c.options(ctx)...)
		if err != nil {
			return "", err
		}
		return desc.Digest.String(), nil
	})
	switch {
	case isNotFound(err):
		c.digests[tag] = ""
		return "", false, nil
	case err != nil:
		return "", false, fmt.Errorf("resolving %s: %w", ref, err)
	}

	c.digests[tag] = digest
	return digest, true, nil
}

// FindAlias returns the highest-sorting tag accepted by keep that points to
// digest.
func (c *Client) FindAlias(ctx context.Context, digest string, keep func(string) bool) (string, bool, error) {
	if c.names == nil {
		names, err := retry.Do(ctx, c.retry, "oci.list", isRetryable, func() ([]string, error) {
			return remote.List(c.repo, c.options(ctx)...)
		})
		if err != nil {
			return "", false, fmt.Errorf("listing tags of %s: %w", c.repo, err)
		}
		c.names = names
	}

	var candidates []string
	for _, n := range c.names {
		if keep(n) {
			candidates = append(candidates, n)
		}
	}
	slices.Sort(candidates)
	slices.Reverse(candidates)

	log := clog.FromContext(ctx).With("repository", c.repo.String())
	for _, n := range candidates {
		d, found, err := c.Resolve(ctx, n)
		if err != nil {
			return "", false, err
		}
		if found && d == digest {
			return n, true, nil
		}
		log.Debugf("Tag %s points to %s, not %s", n, d, digest)
	}
	return "", false, nil
}

/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package githubtags checks whether a tag exists in a GitHub repository.
package githubtags

import (
	"context"
	"fmt"

	"github.com/chainguard-dev/clog"
	"github.com/shurcooL/githubv4"
)

// Client looks up tags of one repository. Answers are remembered for the
// lifetime of the Client.
type Client struct {
	gql   *githubv4.Client
	owner string
	repo  string

	seen map[string]bool
}

// New returns a Client for owner/repo.
func New(gql *githubv4.Client, owner, repo string) *Client {
	return &Client{
		gql:   gql,
		owner: owner,
		repo:  repo,
		seen:  make(map[string]bool),
	}
}

// HasTag reports whether refs/tags/<tag> exists.
func (c *Client) HasTag(ctx context.Context, tag string) (bool, error) {
	if ok, cached := c.seen[tag]; cached {
		return ok, nil
	}

	var query struct {
		Repository struct {
			Ref *struct {
				Name string
			} `graphql:"ref(qualifiedName: $qualifiedName)"`
		} `graphql:"repository(owner: $owner, name: $repo)"`
	}

	variables := map[string]any{
		"owner":         githubv4.String(c.owner),
		"repo":          githubv4.String(c.repo),
		"qualifiedName": githubv4.String("refs/tags/" + tag),
	}

	if err := c.gql.Query(ctx, &query, variables); err != nil {
		return false, fmt.Errorf("graphql query for tag %s in %s/%s: %w", tag, c.owner, c.repo, err)
	}

	ok := query.Repository.Ref != nil && query.Repository.Ref.Name != ""
	clog.FromContext(ctx).With("repo", c.owner+"/"+c.repo).With("tag", tag).Debugf("Tag exists: %v", ok)
	c.seen[tag] = ok
	return ok, nil
}

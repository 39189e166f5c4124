/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package githubreconciler

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/go-github/v84/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"
)

// Clients holds the REST and GraphQL clients, sharing one token source.
type Clients struct {
	REST    *github.Client
	GraphQL *githubv4.Client
}

// NewClients authenticates with token. Empty URLs select github.com.
func NewClients(ctx context.Context, token, apiURL, graphqlURL string) (*Clients, error) {
	if token == "" {
		return nil, errors.New("a GitHub token is required")
	}
	hc := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))

	rest := github.NewClient(hc)
	if apiURL != "" {
		u, err := url.Parse(apiURL)
		if err != nil {
			return nil, fmt.Errorf("parsing API URL: %w", err)
		}
		if !strings.HasSuffix(u.Path, "/") {
			u.Path += "/"
		}
		rest.BaseURL = u
	}

	gql := githubv4.NewClient(hc)
	if graphqlURL != "" {
		gql = githubv4.NewEnterpriseClient(graphqlURL, hc)
	}

	return &Clients{REST: rest, GraphQL: gql}, nil
}

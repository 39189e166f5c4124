/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package githubreconciler addresses GitHub issues and builds the
// authenticated clients used to act on them.
package githubreconciler

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ResourceType distinguishes the kinds of GitHub resources.
type ResourceType string

// ResourceTypeIssue is an issue. Pull requests are not handled.
const ResourceTypeIssue ResourceType = "issue"

// Resource identifies a single issue.
type Resource struct {
	Owner  string
	Repo   string
	Number int
	Type   ResourceType
	URL    string
}

func (r *Resource) String() string {
	return fmt.Sprintf("%s/%s#%d", r.Owner, r.Repo, r.Number)
}

// SplitRepository splits "owner/repo".
func SplitRepository(repository string) (owner, repo string, err error) {
	owner, repo, ok := strings.Cut(repository, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", fmt.Errorf("repository %q is not of the form owner/repo", repository)
	}
	return owner, repo, nil
}

// ParseIssue resolves arg to an issue. arg is either an issue number within
// repository ("owner/repo") or the URL of an issue, such as
// https://github.com/owner/repo/issues/42.
func ParseIssue(repository, arg string) (*Resource, error) {
	arg = strings.TrimSpace(arg)
	if n, err := strconv.Atoi(arg); err == nil {
		if n <= 0 {
			return nil, fmt.Errorf("invalid issue number %d", n)
		}
		owner, repo, err := SplitRepository(repository)
		if err != nil {
			return nil, err
		}
		return &Resource{
			Owner:  owner,
			Repo:   repo,
			Number: n,
			Type:   ResourceTypeIssue,
			URL:    fmt.Sprintf("https://github.com/%s/%s/issues/%d", owner, repo, n),
		}, nil
	}

	u, err := url.Parse(arg)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%q is neither an issue number nor an issue URL", arg)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) != 4 || parts[2] != "issues" {
		return nil, fmt.Errorf("URL %q does not point to an issue", arg)
	}
	n, err := strconv.Atoi(parts[3])
	if err != nil || n <= 0 {
		return nil, fmt.Errorf("URL %q has an invalid issue number", arg)
	}
	return &Resource{
		Owner:  parts[0],
		Repo:   parts[1],
		Number: n,
		Type:   ResourceTypeIssue,
		URL:    arg,
	}, nil
}

/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package commentmanager maintains the bot's verdict on an issue: a single
// comment from the bot plus a label that is present while the issue fails
// the checks.
package commentmanager

import (
	"context"
	"errors"
	"fmt"

	"chainguard.dev/issuecheck/reconcilers/githubreconciler"
	"github.com/chainguard-dev/clog"
	"github.com/google/go-github/v84/github"
)

// DefaultLabel marks issues that do not pass the checks.
const DefaultLabel = "bad request"

// Option configures a CM.
type Option func(*CM)

// WithLabel overrides the label toggled by SetLabel.
func WithLabel(label string) Option {
	return func(cm *CM) {
		cm.label = label
	}
}

// CM manages the comments of one bot identity.
type CM struct {
	botLogin string
	isOwn    func(body string) bool
	label    string
}

// New returns a CM for comments posted by botLogin. isOwn recognizes the
// bodies of comments the bot is responsible for; other comments by the same
// login are left alone.
func New(botLogin string, isOwn func(body string) bool, opts ...Option) (*CM, error) {
	if botLogin == "" {
		return nil, errors.New("botLogin cannot be empty")
	}
	if isOwn == nil {
		return nil, errors.New("isOwn cannot be nil")
	}

	cm := &CM{
		botLogin: botLogin,
		isOwn:    isOwn,
		label:    DefaultLabel,
	}
	for _, opt := range opts {
		opt(cm)
	}
	if cm.label == "" {
		return nil, errors.New("label cannot be empty")
	}
	return cm, nil
}

// NewSession fetches the issue identified by res.
func (cm *CM) NewSession(ctx context.Context, client *github.Client, res *githubreconciler.Resource) (*Session, error) {
	if res.Type != githubreconciler.ResourceTypeIssue {
		return nil, fmt.Errorf("comment manager only supports Issue resources, got: %v", res.Type)
	}

	issue, _, err := client.Issues.Get(ctx, res.Owner, res.Repo, res.Number)
	if err != nil {
		return nil, fmt.Errorf("fetching issue %s: %w", res, err)
	}
	if issue.IsPullRequest() {
		return nil, fmt.Errorf("%s is a pull request", res)
	}

	labels := make([]string, 0, len(issue.Labels))
	for _, l := range issue.Labels {
		labels = append(labels, l.GetName())
	}

	clog.FromContext(ctx).With("issue", res.String()).Debugf("Fetched issue %q", issue.GetTitle())

	return &Session{
		manager:  cm,
		client:   client,
		resource: res,
		title:    issue.GetTitle(),
		body:     issue.GetBody(),
		labels:   labels,
	}, nil
}

/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package commentmanager

import (
	"context"
	"fmt"
	"slices"

	"chainguard.dev/issuecheck/reconcilers/githubreconciler"
	"github.com/chainguard-dev/clog"
	"github.com/google/go-github/v84/github"
)

// Session acts on a single issue.
type Session struct {
	manager  *CM
	client   *github.Client
	resource *githubreconciler.Resource

	title  string
	body   string
	labels []string
}

// Title returns the issue title.
func (s *Session) Title() string {
	return s.title
}

// Body returns the issue body as it was when the session was created.
func (s *Session) Body() string {
	return s.body
}

// HasLabel reports whether the issue carried the manager's label.
func (s *Session) HasLabel() bool {
	return slices.Contains(s.labels, s.manager.label)
}

// HideOutdated deletes earlier comments of the bot and returns how many were
// deleted.
func (s *Session) HideOutdated(ctx context.Context) (int, error) {
	log := clog.FromContext(ctx)
	res := s.resource

	var outdated []*github.IssueComment
	opts := &github.IssueListCommentsOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	}
	for {
		comments, resp, err := s.client.Issues.ListComments(ctx, res.Owner, res.Repo, res.Number, opts)
		if err != nil {
			return 0, fmt.Errorf("listing comments: %w", err)
		}
		for _, c := range comments {
			if c.GetUser().GetLogin() == s.manager.botLogin && s.manager.isOwn(c.GetBody()) {
				outdated = append(outdated, c)
			}
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	for _, c := range outdated {
		log.Infof("Deleting outdated comment %d", c.GetID())
		if _, err := s.client.Issues.DeleteComment(ctx, res.Owner, res.Repo, c.GetID()); err != nil {
			return 0, fmt.Errorf("deleting comment %d: %w", c.GetID(), err)
		}
	}
	return len(outdated), nil
}

// Post adds a comment to the issue and returns its URL.
func (s *Session) Post(ctx context.Context, body string) (string, error) {
	res := s.resource
	c, _, err := s.client.Issues.CreateComment(ctx, res.Owner, res.Repo, res.Number, &github.IssueComment{
		Body: github.Ptr(body),
	})
	if err != nil {
		return "", fmt.Errorf("posting comment: %w", err)
	}
	clog.FromContext(ctx).Infof("Posted comment %s", c.GetHTMLURL())
	return c.GetHTMLURL(), nil
}

// SetLabel removes the label from a valid issue and adds it to an invalid
// one. Failures are logged and otherwise ignored; the token may lack the
// permission to label issues.
func (s *Session) SetLabel(ctx context.Context, valid bool) {
	log := clog.FromContext(ctx).With("label", s.manager.label)
	res := s.resource

	switch {
	case valid && s.HasLabel():
		log.Info("Removing label")
		if _, err := s.client.Issues.RemoveLabelForIssue(ctx, res.Owner, res.Repo, res.Number, s.manager.label); err != nil {
			log.Warnf("Failed to remove label: %v", err)
		}
	case !valid && !s.HasLabel():
		log.Info("Adding label")
		if _, _, err := s.client.Issues.AddLabelsToIssue(ctx, res.Owner, res.Repo, res.Number, []string{s.manager.label}); err != nil {
			log.Warnf("Failed to add label: %v", err)
		}
	default:
		log.Debugf("Label already in place (valid: %v)", valid)
	}
}

/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"context"
	"fmt"
	"io"

	"chainguard.dev/issuecheck/checks"
	"chainguard.dev/issuecheck/issueform"
	"chainguard.dev/issuecheck/lookups"
	"chainguard.dev/issuecheck/lookups/dockerhub"
	"chainguard.dev/issuecheck/lookups/githubtags"
	"chainguard.dev/issuecheck/lookups/npm"
	"chainguard.dev/issuecheck/lookups/ocitags"
	"chainguard.dev/issuecheck/manifest"
	"chainguard.dev/issuecheck/reconcilers/githubreconciler"
	"chainguard.dev/issuecheck/reconcilers/githubreconciler/commentmanager"
	"chainguard.dev/issuecheck/report"
	"chainguard.dev/issuecheck/retry"
	"github.com/chainguard-dev/clog"
	"github.com/google/go-containerregistry/pkg/authn"
	"github.com/google/go-containerregistry/pkg/v1/remote"
)

type options struct {
	dryRun bool
	out    io.Writer
	log    io.Writer
}

// reconcileIssue checks one issue and applies the verdict: fetch the issue,
// compute the comment, then replace the previous comment and set the label.
func reconcileIssue(ctx context.Context, cfg config, arg string, opts options) error {
	res, err := githubreconciler.ParseIssue(cfg.Repository, arg)
	if err != nil {
		return err
	}
	ctx = clog.WithLogger(ctx, clog.FromContext(ctx).With("issue", res.String()))
	clog.InfoContextf(ctx, "Checking issue %s", res.URL)

	clients, err := githubreconciler.NewClients(ctx, cfg.Token, cfg.APIURL, cfg.GraphQLURL)
	if err != nil {
		return fmt.Errorf("creating GitHub clients: %w", err)
	}

	tmpl, err := loadTemplate(cfg)
	if err != nil {
		return err
	}
	checker, err := newChecker(cfg, clients)
	if err != nil {
		return err
	}

	cm, err := commentmanager.New(cfg.BotLogin, report.IsBotComment, commentmanager.WithLabel(cfg.Label))
	if err != nil {
		return fmt.Errorf("creating comment manager: %w", err)
	}
	session, err := cm.NewSession(ctx, clients.REST, res)
	if err != nil {
		return err
	}

	sections, err := tmpl.Parse(session.Body())
	if err != nil {
		return err
	}
	result, err := checker.Run(ctx, sections)
	if err != nil {
		return err
	}
	if err := report.Summary(opts.log, result); err != nil {
		return err
	}

	comment := report.Compose(result)
	clog.InfoContextf(ctx, "Validation result: passed=%v problems=%d", comment.Passed, len(result.All()))
	if err := report.Print(opts.out, comment); err != nil {
		return fmt.Errorf("printing comment: %w", err)
	}

	if opts.dryRun {
		clog.InfoContextf(ctx, "Dry run, leaving the issue untouched")
		return nil
	}

	if _, err := session.HideOutdated(ctx); err != nil {
		return err
	}
	if _, err := session.Post(ctx, comment.Body); err != nil {
		return err
	}
	session.SetLabel(ctx, comment.Passed)
	return nil
}

func loadTemplate(cfg config) (*issueform.Template, error) {
	if cfg.IssueTemplatePath == "" {
		return issueform.DefaultTemplate(), nil
	}
	return issueform.LoadForm(cfg.IssueTemplatePath)
}

// newChecker loads the reference data and builds the lookups the checks
// consult.
func newChecker(cfg config, clients *githubreconciler.Clients) (*checks.Checker, error) {
	m, err := manifest.Load(cfg.ManifestPath)
	if err != nil {
		return nil, err
	}
	if m.PythonVersions, err = manifest.LoadPythonVersions(cfg.PythonCheckerPath); err != nil {
		return nil, err
	}

	rc := retry.DefaultConfig()
	rc.MaxRetries = cfg.LookupMaxRetries
	if err := rc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid LOOKUP_MAX_RETRIES: %w", err)
	}
	hc := lookups.NewHTTPClient(cfg.HTTPTimeout)

	var images checks.ImageTags
	switch cfg.DockerTagSource {
	case tagSourceHub:
		images, err = dockerhub.New(cfg.DockerImage,
			dockerhub.WithBaseURL(cfg.DockerHubURL),
			dockerhub.WithHTTPClient(hc),
			dockerhub.WithRetry(rc))
	case tagSourceRegistry:
		images, err = ocitags.New(cfg.DockerImage,
			ocitags.WithRemoteOptions(remote.WithAuthFromKeychain(authn.DefaultKeychain)),
			ocitags.WithRetry(rc))
	default:
		return nil, fmt.Errorf("unknown DOCKER_TAG_SOURCE %q, want %q or %q", cfg.DockerTagSource, tagSourceHub, tagSourceRegistry)
	}
	if err != nil {
		return nil, err
	}

	packages := npm.New(
		npm.WithRegistryURL(cfg.NPMRegistryURL),
		npm.WithHTTPClient(hc),
		npm.WithRetry(rc))

	owner, repo, err := githubreconciler.SplitRepository(cfg.NodeRepository)
	if err != nil {
		return nil, fmt.Errorf("NODE_REPOSITORY: %w", err)
	}
	nodeTags := githubtags.New(clients.GraphQL, owner, repo)

	return checks.New(m, images, packages, nodeTags,
		checks.WithAllowedImage(cfg.DockerImage),
		checks.WithConfigUIMinimum(cfg.ConfigUIMinVersion))
}

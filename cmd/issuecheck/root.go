/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/cobra"
)

type config struct {
	Token      string `env:"GH_TOKEN,required"`
	Repository string `env:"GITHUB_REPOSITORY,default=maxileith/homebridge-appletv-enhanced"`
	APIURL     string `env:"GITHUB_API_URL"`
	GraphQLURL string `env:"GITHUB_GRAPHQL_URL"`

	Label    string `env:"ISSUE_LABEL,default=bad request"`
	BotLogin string `env:"BOT_LOGIN,default=github-actions[bot]"`

	ManifestPath      string `env:"MANIFEST_PATH,default=package.json"`
	PythonCheckerPath string `env:"PYTHON_CHECKER_PATH,default=src/PythonChecker.ts"`
	IssueTemplatePath string `env:"ISSUE_TEMPLATE_PATH"`

	DockerImage     string `env:"DOCKER_IMAGE,default=homebridge/homebridge"`
	DockerTagSource string `env:"DOCKER_TAG_SOURCE,default=hub"`
	DockerHubURL    string `env:"DOCKERHUB_URL,default=https://hub.docker.com"`
	NPMRegistryURL  string `env:"NPM_REGISTRY_URL,default=https://registry.npmjs.org"`
	NodeRepository  string `env:"NODE_REPOSITORY,default=nodejs/node"`

	ConfigUIMinVersion string `env:"CONFIG_UI_MIN_VERSION,default=4.54.2"`

	HTTPTimeout      time.Duration `env:"HTTP_TIMEOUT,default=10s"`
	LookupMaxRetries int           `env:"LOOKUP_MAX_RETRIES,default=2"`
	LogLevel         string        `env:"LOG_LEVEL,default=info"`
}

// Docker tag sources.
const (
	tagSourceHub      = "hub"
	tagSourceRegistry = "registry"
)

func newRootCommand(lookuper envconfig.Lookuper) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "issuecheck <issue>",
		Short: "Check a bug report for completeness",
		Long: `issuecheck reads a bug report created from the issue form and checks every
field against the plugin's requirements. The verdict is printed between
"---- Comment ----" lines and posted as a comment, replacing earlier verdicts.
Failing issues are labeled until they are fixed.

<issue> is an issue number in GITHUB_REPOSITORY or the URL of an issue.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var cfg config
			if err := envconfig.ProcessWith(ctx, &envconfig.Config{
				Target:   &cfg,
				Lookuper: lookuper,
			}); err != nil {
				return fmt.Errorf("processing config: %w", err)
			}

			var level slog.Level
			if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
				return fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
			}
			logger := clog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			ctx = clog.WithLogger(ctx, logger)

			return reconcileIssue(ctx, cfg, args[0], options{
				dryRun: dryRun,
				out:    cmd.OutOrStdout(),
				log:    cmd.ErrOrStderr(),
			})
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the comment without touching the issue")
	return cmd
}

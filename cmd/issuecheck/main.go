/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Command issuecheck validates a bug report opened from the issue form,
// comments the verdict on the issue and toggles the label that marks
// incomplete reports.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/chainguard-dev/clog"
	"github.com/sethvargo/go-envconfig"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cmd := newRootCommand(envconfig.OsLookuper())
	if err := cmd.ExecuteContext(ctx); err != nil {
		clog.FatalContextf(ctx, "issuecheck: %v", err)
	}
}

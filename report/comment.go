/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package report renders the outcome of the checks, both as the issue
// comment addressed to the reporter and as a summary for the job log.
package report

import (
	"fmt"
	"io"
	"strings"

	"chainguard.dev/issuecheck/checks"
)

// Headers open the two kinds of comment. Earlier comments are recognized by
// them, so they must stay stable across releases.
const (
	PassHeader = "## ✔️ Have a coffee ☕"
	FailHeader = "## ❗ Action required"
)

// Markers lists every header that identifies a comment posted by the bot.
var Markers = []string{PassHeader, FailHeader}

// ConsoleDelimiter surrounds the comment when it is printed.
const ConsoleDelimiter = "---- Comment ----"

// Comment is the markdown posted to the issue.
type Comment struct {
	Passed bool
	Body   string
}

// Compose renders the comment for res.
func Compose(res *checks.Result) Comment {
	var sb strings.Builder
	if res.Passed() {
		sb.WriteString(PassHeader + "\n\n")
		sb.WriteString("Your opened issue fulfills all requirements validated in the pre-checks 🎉\n\n")
		sb.WriteString("The maintainer will take a look at the problem as soon as there is time for it 🤖\n\n")
		sb.WriteString("Time to get a coffee ☕")
		return Comment{Passed: true, Body: sb.String()}
	}

	sb.WriteString(FailHeader + "\n\n")
	sb.WriteString("There are a few problems with your opened issue. Please fix them by editing the issue:\n\n")
	for _, p := range res.All() {
		fmt.Fprintf(&sb, "- %s\n", p)
	}
	sb.WriteString("\nOften the problem you are experiencing will be solved by simply making your environment compliant with the requirements (fulfilling the pre-checks).\n\n")
	sb.WriteString("## 🔁 Rerun\n\n")
	sb.WriteString("After editing the issue, the checks will be run again.\n\n")
	sb.WriteString("**Under no circumstances** should the issue be adjusted untruthfully. If the issue cannot fulfill the pre-checks, your environment is simply not supported.\n\n")
	sb.WriteString("If you do not adjust the issue accordingly, the issue will be **automatically closed after 60 days of inactivity**.")
	return Comment{Passed: false, Body: sb.String()}
}

// IsBotComment reports whether body was composed by Compose.
func IsBotComment(body string) bool {
	for _, m := range Markers {
		if strings.Contains(body, m) {
			return true
		}
	}
	return false
}

// Print writes the comment between console delimiters.
func Print(w io.Writer, c Comment) error {
	_, err := fmt.Fprintf(w, "%s\n%s\n%s\n", ConsoleDelimiter, c.Body, ConsoleDelimiter)
	return err
}

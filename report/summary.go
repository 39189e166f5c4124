/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package report

import (
	"fmt"
	"io"
	"strings"

	"chainguard.dev/issuecheck/checks"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
)

// newTable returns a markdown table with left aligned, unwrapped cells.
func newTable(headers []string, w io.Writer) *tablewriter.Table {
	cfg := tablewriter.Config{
		Header: tw.CellConfig{
			Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			Formatting: tw.CellFormatting{AutoFormat: tw.Off},
		},
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignLeft},
		},
		Behavior: tw.Behavior{TrimSpace: tw.Off},
	}
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(cfg),
		tablewriter.WithHeader(headers),
		tablewriter.WithRenderer(renderer.NewBlueprint()),
		tablewriter.WithRendition(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleMarkdown),
			Borders: tw.Border{
				Left:   tw.On,
				Top:    tw.Off,
				Right:  tw.On,
				Bottom: tw.Off,
			},
		}),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
	)
}

// Summary writes one row per checked field with its outcome.
func Summary(w io.Writer, res *checks.Result) error {
	table := newTable([]string{"Field", "Status", "Problems"}, w)
	for _, f := range res.Fields() {
		problems := res.Problems(f)
		status := "✅ ok"
		if n := len(problems); n > 0 {
			status = fmt.Sprintf("❌ %d", n)
		}
		if err := table.Append([]string{f, status, strings.Join(problems, "; ")}); err != nil {
			return fmt.Errorf("appending %s: %w", f, err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("rendering summary: %w", err)
	}
	return nil
}

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/hayeah/foldermap/internal/metrics"
)

// trimPrefix returns s unchanged if len(s) ≤ max; otherwise returns
// "…" + the last max-1 runes, preserving the suffix.
func trimPrefix(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return "…" + string(r[len(r)-max+1:])
}

// PrintBlockBreakdown prints the token share of every top-level entry of a
// render, largest first. Bars are normalized to the largest block.
func PrintBlockBreakdown(w io.Writer, c *metrics.Collector, sum metrics.Summary, width, barW int, fill rune) {
	const (
		pctW    = 6 // "100.0%"
		tokensW = 6
		gapW    = 2
	)

	if barW <= 0 {
		barW = int(float64(width) * 0.35)
	}
	keyW := width - (barW + pctW + tokensW + gapW*3)
	if keyW < 8 {
		keyW = 8
	}

	entries := c.Entries()
	total := c.Total()
	maxTokens := 0
	for _, e := range entries {
		maxTokens = max(maxTokens, e.Tokens)
	}

	if total.Tokens == 0 || maxTokens == 0 {
		fmt.Fprintln(w, "No tokens recorded")
	} else {
		for _, e := range entries {
			pct := float64(e.Tokens) * 100 / float64(total.Tokens)
			barLen := int(float64(e.Tokens)/float64(maxTokens)*float64(barW) + 0.5)
			if barLen == 0 && e.Tokens > 0 {
				barLen = 1
			}
			bar := strings.Repeat(string(fill), barLen)
			fmt.Fprintf(w, "%-*s  %5.1f%%  %*d  %s\n", barW, bar, pct, tokensW, e.Tokens, trimPrefix(e.Key, keyW))
		}
		sep := strings.Repeat("─", barW)
		fmt.Fprintf(w, "%-*s  %5.1f%%  %*d  %s\n", barW, sep, 100.0, tokensW, total.Tokens, "TOTAL")
	}

	fmt.Fprintf(w, "\nSummary: %d directories, %d files, %d errors, %d lines, %d tokens\n",
		sum.Dirs, sum.Files, sum.Errors, sum.Lines, sum.Tokens)
}

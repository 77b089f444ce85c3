package cmd

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const ellipsis = "…"

// truncateWidth shortens s to at most width terminal cells, marking the cut
// with an ellipsis. Wide runes count as two cells.
func truncateWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = strings.ReplaceAll(s, "\t", " ")
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, ellipsis)
}

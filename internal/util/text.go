package util

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Preview shortens s to at most width terminal cells on a single line,
// appending "..." when something was cut.
func Preview(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "...")
}

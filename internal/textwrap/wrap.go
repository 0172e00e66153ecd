// Package textwrap implements greedy word wrapping for fixed-width text blocks.
package textwrap

import (
	"strings"
	"unicode/utf8"
)

// Wrap splits text on whitespace and packs words greedily into lines of at
// most width characters, joined by single spaces. A word longer than width
// gets a line of its own and is never split. Blank input yields no lines.
func Wrap(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{}
	}

	lines := make([]string, 0, len(words)/4+1)
	var line strings.Builder
	lineLen := 0

	for _, word := range words {
		wordLen := utf8.RuneCountInString(word)
		if lineLen > 0 && lineLen+1+wordLen > width {
			lines = append(lines, line.String())
			line.Reset()
			lineLen = 0
		}
		if lineLen > 0 {
			line.WriteByte(' ')
			lineLen++
		}
		line.WriteString(word)
		lineLen += wordLen
	}

	return append(lines, line.String())
}

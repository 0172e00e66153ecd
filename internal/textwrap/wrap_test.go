package textwrap

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  []string
	}{
		{"empty", "", 10, []string{}},
		{"whitespace only", " \n\t ", 10, []string{}},
		{"fits", "hello world", 11, []string{"hello world"}},
		{"breaks", "hello world", 10, []string{"hello", "world"}},
		{"collapses whitespace", "  a \n\n b\tc  ", 20, []string{"a b c"}},
		{"greedy", "aa bb cc dd ee", 5, []string{"aa bb", "cc dd", "ee"}},
		{"long word alone", "a supercalifragilistic b", 5, []string{"a", "supercalifragilistic", "b"}},
		{"long word first", "supercalifragilistic a b", 5, []string{"supercalifragilistic", "a b"}},
		{"runes not bytes", "héllo wörld", 11, []string{"héllo wörld"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wrap(tt.text, tt.width)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Wrap(%q, %d) = %q, want %q", tt.text, tt.width, got, tt.want)
			}
		})
	}
}

func TestWrapProperties(t *testing.T) {
	texts := []string{
		"The application reflects the q parameter into the response without encoding, allowing script injection on the search page.",
		strings.Repeat("word ", 200),
		"short",
		"x " + strings.Repeat("y", 120) + " z",
		"line one\nline two\n\n\tindented line three",
	}

	for _, width := range []int{1, 5, 20, 95} {
		for _, text := range texts {
			lines := Wrap(text, width)

			normalized := strings.Join(strings.Fields(text), " ")
			if joined := strings.Join(lines, " "); joined != normalized {
				t.Errorf("width %d: rejoined text differs\n got: %q\nwant: %q", width, joined, normalized)
			}

			for _, line := range lines {
				if line == "" {
					t.Errorf("width %d: produced empty line", width)
				}
				if utf8.RuneCountInString(line) > width && strings.Contains(line, " ") {
					t.Errorf("width %d: line %q exceeds budget", width, line)
				}
			}
		}
	}
}

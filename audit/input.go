package audit

import "strings"

// ParseURLList splits a pasted text block into URLs: one per line, trimmed,
// blank lines dropped. Order and duplicates are preserved.
func ParseURLList(text string) []string {
	return CleanLines(strings.Split(text, "\n"))
}

// CleanLines trims every line and drops the blank ones.
func CleanLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

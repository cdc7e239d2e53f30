package llmutils

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var reThink = regexp.MustCompile(`(?s)<think>.*?</think>`)

// Truncate shortens s to at most n runes, adding "..." if it was truncated.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

// StripThink removes <think>…</think> blocks that some models embed.
func StripThink(s string) string {
	return strings.TrimSpace(reThink.ReplaceAllString(s, ""))
}

// StringOrDefault returns s if it's not empty, or def if s is empty.
func StringOrDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// SplitMessage breaks s into chunks of at most max runes, preferring to cut
// at a newline and then at a space.
func SplitMessage(s string, max int) []string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return []string{s}
	}
	var out []string
	runes := []rune(s)
	for len(runes) > max {
		cut := lastIndex(runes[:max], '\n')
		if cut <= 0 {
			cut = lastIndex(runes[:max], ' ')
		}
		if cut <= 0 {
			cut = max
		}
		out = append(out, string(runes[:cut]))
		runes = runes[cut:]
		for len(runes) > 0 && (runes[0] == '\n' || runes[0] == ' ') {
			runes = runes[1:]
		}
	}
	if len(runes) > 0 {
		out = append(out, string(runes))
	}
	return out
}

func lastIndex(rs []rune, r rune) int {
	for i := len(rs) - 1; i >= 0; i-- {
		if rs[i] == r {
			return i
		}
	}
	return -1
}

package utils

import "strings"

// Fallbacks every normalizer applies to a record missing the field.
const (
	Untitled       = "无题"
	Anonymous      = "佚名"
	UnknownDynasty = "未知"
)

// OrDefault returns s trimmed, or def when s is blank.
func OrDefault(s, def string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return def
}

// CleanLines trims every line and drops blank ones; order is kept.
func CleanLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

// Dedupe removes blanks and duplicates while keeping first-seen order.
func Dedupe(values ...string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// Package strings provides string slice helpers shared by request parsing.
package strings

import "strings"

// Compact trims each value and drops blanks and repeats, keeping first-seen
// order. A nil or empty input is returned unchanged.
func Compact(values []string) []string {
	if len(values) == 0 {
		return values
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

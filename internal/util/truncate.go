// Package util holds small helpers shared by the AI and CLI code.
package util

import "strings"

// TruncateForLog returns a one-line preview of s for log fields: whitespace
// runs collapse to a single space and the result is cut to limit runes, with
// "..." appended when anything was cut.
func TruncateForLog(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

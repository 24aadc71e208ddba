// Package utils holds the string-list helpers used to read resource lists from
// flags, the environment and config files.
package utils

import "strings"

// SplitAndTrim cuts s at every sep and returns the non-blank pieces, trimmed.
// The result is never nil.
func SplitAndTrim(s, sep string) []string {
	out := []string{}
	for _, piece := range strings.Split(s, sep) {
		if piece = strings.TrimSpace(piece); piece != "" {
			out = append(out, piece)
		}
	}
	return out
}

// NormalizeList trims every entry, drops empties and keeps the first
// occurrence of duplicates. Returns nil if the result is empty.
func NormalizeList(items []string) []string {
	if len(items) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(items))
	result := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		result = append(result, item)
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

package utils

import "strings"

// SplitTrimmed splits raw on sep, trims each part and drops empty ones.
// An empty or blank raw yields nil.
func SplitTrimmed(raw, sep string) []string {
	var result []string

	for _, s := range strings.Split(raw, sep) {
		if s = strings.TrimSpace(s); s != "" {
			result = append(result, s)
		}
	}

	return result
}

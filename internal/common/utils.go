package common

import "strings"

// EqualFoldAny reports whether s equals any of the candidates, ignoring case.
func EqualFoldAny(s string, candidates ...string) bool {
	for _, c := range candidates {
		if strings.EqualFold(s, c) {
			return true
		}
	}
	return false
}

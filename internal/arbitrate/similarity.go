// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package arbitrate

import (
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Similarity returns (n - d) / n, where d is the edit distance between a
// and b and n the rune length of the longer one. Identical strings score 1.
func Similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	n := utf8.RuneCountInString(a)
	if m := utf8.RuneCountInString(b); m > n {
		n = m
	}
	d := levenshtein.ComputeDistance(a, b)
	return float64(n-d) / float64(n)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package identifiers

import (
	"regexp"
	"strings"
)

var (
	// isbnInTextRe requires the ISBN label; bare digit runs in a citation
	// are far more often page or report numbers.
	isbnInTextRe = regexp.MustCompile(`(?i)\bISBN(?:-1[03])?:?\s*([0-9][-\s0-9]{8,15}[0-9Xx])\b`)

	isbnPrefixRe = regexp.MustCompile(`(?i)^ISBN(?:-1[03])?:?\s*`)
	isbnCharsRe  = regexp.MustCompile(`^[-\s0-9Xx]+$`)
)

// FindISBNs returns labelled ISBNs in text.
func FindISBNs(text string) []string {
	var out []string
	for _, m := range isbnInTextRe.FindAllStringSubmatch(text, -1) {
		if ValidISBN(m[1]) {
			out = append(out, strings.TrimSpace(m[1]))
		}
	}
	return out
}

// ValidISBN reports whether value is an ISBN-10 or ISBN-13, optionally
// labelled "ISBN", with digits separated by hyphens or spaces.
func ValidISBN(value string) bool {
	value = isbnPrefixRe.ReplaceAllString(strings.TrimSpace(value), "")
	if value == "" || !isbnCharsRe.MatchString(value) {
		return false
	}
	digits := strings.NewReplacer("-", "", " ", "").Replace(value)
	switch len(digits) {
	case 10:
		return !strings.ContainsAny(digits[:9], "Xx")
	case 13:
		if strings.ContainsAny(digits, "Xx") {
			return false
		}
		return strings.HasPrefix(digits, "978") || strings.HasPrefix(digits, "979")
	default:
		return false
	}
}

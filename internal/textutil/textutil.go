// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package textutil normalizes reference text so that output from different
// extractors, encodings, and line layouts can be compared.
package textutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	cidRe        = regexp.MustCompile(`\(cid:\d+\)`)
	hyphenLineRe = regexp.MustCompile(`-\s*\n\s*`)
	nonAlnumRe   = regexp.MustCompile(`[^A-Za-z0-9 ]`)
	pureNumRe    = regexp.MustCompile(`\b[0-9]+\b`)
	multiSpaceRe = regexp.MustCompile(`\s+`)
)

// CleanText lower-cases txt, replaces PDF "(cid:N)" glyph markers with an
// UNK token, joins words hyphenated across line breaks, and reduces the
// rest to ASCII letters, digits, and single spaces. Accented letters are
// folded to their base letter first. Standalone numbers are dropped unless
// numOK is set.
func CleanText(txt string, numOK bool) string {
	txt = StripAccents(txt)
	txt = strings.ToLower(txt)
	txt = cidRe.ReplaceAllString(txt, " UNK ")
	txt = hyphenLineRe.ReplaceAllString(txt, "")
	txt = nonAlnumRe.ReplaceAllString(txt, " ")
	if !numOK {
		txt = pureNumRe.ReplaceAllString(txt, " ")
	}
	txt = multiSpaceRe.ReplaceAllString(txt, " ")
	return strings.TrimSpace(txt)
}

// StripAccents decomposes txt and removes combining marks, so "Gödel"
// becomes "Godel".
func StripAccents(txt string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, txt)
	if err != nil {
		return txt
	}
	return out
}

// Fold applies NFKC normalization and collapses every run of whitespace
// (including non-breaking spaces) into one space.
func Fold(txt string) string {
	txt = norm.NFKC.String(txt)
	var b strings.Builder
	b.Grow(len(txt))
	prevSpace := false
	for _, r := range txt {
		if unicode.IsSpace(r) {
			if !prevSpace {
				b.WriteRune(' ')
			}
			prevSpace = true
			continue
		}
		b.WriteRune(r)
		prevSpace = false
	}
	return strings.TrimSpace(b.String())
}

// Tokens splits cleaned text into its set of distinct words.
func Tokens(cleaned string) map[string]struct{} {
	words := strings.Fields(cleaned)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// Jaccard returns the share of distinct words two cleaned strings have in
// common, |A∩B| / |A∪B|. Two empty strings score 0.
func Jaccard(a, b string) float64 {
	wa, wb := Tokens(a), Tokens(b)
	shared := 0
	for w := range wa {
		if _, ok := wb[w]; ok {
			shared++
		}
	}
	union := len(wa) + len(wb) - shared
	if union == 0 {
		return 0
	}
	return float64(shared) / float64(union)
}

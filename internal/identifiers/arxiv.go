// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package identifiers recognizes arXiv ids, DOIs, and ISBNs in reference
// text and checks whether extracted identifier values are well formed.
package identifiers

import (
	"regexp"
	"strings"
)

// Identifier type labels used in types.Identifier.Type.
const (
	TypeArxiv = "arxiv"
	TypeISBN  = "isbn"
)

// categories are the legacy arXiv archive names that appear in old-style
// identifiers such as hep-th/0306165.
var categories = []string{
	"acc-phys", "adap-org", "alg-geom", "ao-sci", "astro-ph", "atom-ph",
	"bayes-an", "chao-dyn", "chem-ph", "cmp-lg", "comp-gas", "cond-mat", "cs",
	"dg-ga", "funct-an", "gr-qc", "hep-ex", "hep-lat", "hep-ph", "hep-th",
	"math", "math-ph", "mtrl-th", "nlin", "nucl-ex", "nucl-th", "patt-sol",
	"physics", "plasm-ph", "q-alg", "q-bio", "quant-ph", "solv-int", "supr-con",
}

var (
	reCategories = `(?:` + strings.Join(categoryAlternatives(), "|") + `)(?:[.][A-Z]{2})?`
	reDate       = `[0-9]{2}(?:0[1-9]|1[0-2])`
	reVersion    = `(?:[vV]\d+)?`
	reIDNew      = `(?:` + reDate + `[.]\d{4,5}` + reVersion + `)`
	reIDOld      = `(?:` + reCategories + `/` + reDate + `\d{3}` + reVersion + `)`

	rePrefixURL        = `(?:(?i:https?://)?(?i:arxiv\.org/)?(?i:abs/|pdf/))`
	rePrefixArxiv      = `(?i:arxiv\s*[:/\s,.]*\s*)`
	rePrefixCategories = `(?i:` + reCategories + `)`
	rePrefixEprint     = `(?i:e-?prints?.{1,3})`

	reSimple = `(` + reIDOld + `|` + reIDNew + `)`
)

var (
	// arxivSimpleRe matches a bare old- or new-style identifier.
	arxivSimpleRe = regexp.MustCompile(`^` + reSimple + `$`)

	// arxivStrictRe requires an explicit "arXiv" prefix, following
	// https://arxiv.org/help/arxiv_identifier.
	arxivStrictRe = regexp.MustCompile(`^` + rePrefixArxiv + `(?:(` + reIDOld + `)|(` + reIDNew + `))`)

	// arxivFlexibleRe accepts anything that looks like an identifier and is
	// preceded by some hint of the arXiv: a URL, "e-print", a category, the
	// word arXiv itself, or enclosing brackets.
	arxivFlexibleRe = regexp.MustCompile(
		`(?:` +
			`(?:` +
			`(?:` + rePrefixURL + `)?` +
			`(?:` + rePrefixEprint + `)?` +
			`(?:` +
			`(?:` + rePrefixArxiv + `)?(` + reIDOld + `)` +
			`|` +
			`(?:` + rePrefixArxiv + `)(?:` + reCategories + `/)?(` + reIDNew + `)` +
			`)` +
			`)` +
			`|` +
			`(?:` +
			`(?:` + rePrefixURL + `|` + rePrefixEprint + `|` + rePrefixCategories + `|` + rePrefixArxiv + `)` +
			`.*?` + reSimple +
			`)` +
			`|` +
			`(?:[\[\(]\s*` + reSimple + `\s*[\]\)])` +
			`)`)

	// categoryTypoRe finds hyphenated categories written without the
	// hyphen, e.g. "hepth/0306165".
	categoryTypoRe = regexp.MustCompile(`(?i)(^|[^a-z\-])(` + strings.Join(categoryTypos(), "|") + `)/`)
)

// categoryAlternatives returns every category plus its common hyphen-less
// misspelling.
func categoryAlternatives() []string {
	alts := append([]string{}, categories...)
	return append(alts, categoryTypos()...)
}

func categoryTypos() []string {
	var typos []string
	for _, c := range categories {
		if strings.Contains(c, "-") {
			typos = append(typos, strings.ReplaceAll(c, "-", ""))
		}
	}
	return typos
}

// FindArxivIDs returns the arXiv identifiers mentioned in text, in order of
// appearance.
func FindArxivIDs(text string) []string {
	var ids []string
	for _, m := range arxivFlexibleRe.FindAllStringSubmatch(text, -1) {
		if id := longest(m[1:]); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// ValidArxivID reports whether value starts with an explicitly prefixed
// arXiv identifier ("arXiv:1703.03442", "arxiv hep-th/0306165").
func ValidArxivID(value string) bool {
	return arxivStrictRe.MatchString(value)
}

// IsArxivID reports whether value is a bare arXiv identifier.
func IsArxivID(value string) bool {
	return arxivSimpleRe.MatchString(strings.TrimSpace(value))
}

// FixArxivCategory restores the hyphen in misspelled legacy categories:
// "hepth/0306165" becomes "hep-th/0306165".
func FixArxivCategory(value string) string {
	return categoryTypoRe.ReplaceAllStringFunc(value, func(match string) string {
		sub := categoryTypoRe.FindStringSubmatch(match)
		typo := strings.ToLower(sub[2])
		for _, c := range categories {
			if strings.ReplaceAll(c, "-", "") == typo {
				return sub[1] + c + "/"
			}
		}
		return match
	})
}

func longest(candidates []string) string {
	best := ""
	for _, c := range candidates {
		if len(c) > len(best) {
			best = c
		}
	}
	return best
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package identifiers

import (
	"regexp"
	"strings"

	"github.com/arXiv/arxiv-references/pkg/types"
)

// doiPattern captures a DOI with an optional "doi:" or resolver URL prefix.
const doiPattern = `(?:(?:doi:(?://)?)|(?:https?://(?:dx\.)?doi\.org/))?` +
	`(10[.][0-9]{3,}(?:[.][0-9]+)*/[^\s"&'#%]+)`

var (
	doiRe      = regexp.MustCompile(doiPattern)
	doiStartRe = regexp.MustCompile(`^` + doiPattern)
)

// FindDOI returns the first DOI in text with trailing punctuation trimmed,
// or "" when there is none.
func FindDOI(text string) string {
	m := doiRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimRight(m[1], ".,;:)]")
}

// ValidDOI reports whether value begins with a DOI.
func ValidDOI(value string) bool {
	return doiStartRe.MatchString(value)
}

// Extract pulls the DOI and any arXiv ids and ISBNs out of free text.
func Extract(text string) (string, []types.Identifier) {
	var ids []types.Identifier
	seen := make(map[string]bool)
	add := func(kind, value string) {
		key := kind + ":" + value
		if seen[key] {
			return
		}
		seen[key] = true
		ids = append(ids, types.Identifier{Type: kind, Value: value})
	}
	for _, id := range FindArxivIDs(text) {
		add(TypeArxiv, id)
	}
	for _, isbn := range FindISBNs(text) {
		add(TypeISBN, isbn)
	}
	return FindDOI(text), ids
}

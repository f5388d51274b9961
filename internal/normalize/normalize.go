// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize cleans extractor output before alignment and filters
// arbitrated output before it leaves the pipeline.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/arXiv/arxiv-references/internal/identifiers"
	"github.com/arXiv/arxiv-references/internal/textutil"
	"github.com/arXiv/arxiv-references/pkg/types"
)

var dotsRe = regexp.MustCompile(`\.\s*`)

// fieldNormalizers run after whitespace folding, keyed by field.
var fieldNormalizers = map[types.Field]func(types.Value) types.Value{
	types.FieldAuthors:     normalizeAuthors,
	types.FieldTitle:       textRule(trimNonAlnum),
	types.FieldSource:      textRule(func(s string) string { return titleCase(removeDots(s)) }),
	types.FieldArxivID:     textRule(identifiers.FixArxivCategory),
	types.FieldDOI:         textRule(normalizeDOI),
	types.FieldIdentifiers: normalizeIdentifiers,
}

// Normalize returns cleaned copies of records, one per input record in the
// same order. Known text fields are NFKC folded with whitespace collapsed,
// field-specific rules are applied, and identifiers found in the raw text
// fill in absent doi, arxiv_id, and identifiers fields. Extra fields are
// left untouched. The input is not modified.
func Normalize(records []types.Reference) []types.Reference {
	out := make([]types.Reference, len(records))
	for i, r := range records {
		out[i] = normalizeRecord(r)
	}
	return out
}

func normalizeRecord(in types.Reference) types.Reference {
	r := in.Clone()
	for _, f := range r.Fields() {
		if !f.Known() {
			continue
		}
		v, _ := r.Get(f)
		if v.Kind == types.KindText {
			v.Text = textutil.Fold(v.Text)
		}
		if fn, ok := fieldNormalizers[f]; ok {
			v = fn(v)
		}
		r.Set(f, v)
	}
	fillFromRaw(&r)
	return r
}

// fillFromRaw copies identifiers embedded in the raw citation string into
// the structured fields the extractor left empty.
func fillFromRaw(r *types.Reference) {
	if r.Raw == nil || *r.Raw == "" {
		return
	}
	doi, ids := identifiers.Extract(*r.Raw)
	for i := range ids {
		if ids[i].Type == identifiers.TypeArxiv {
			ids[i].Value = identifiers.FixArxivCategory(ids[i].Value)
		}
	}
	if doi != "" && isBlank(r, types.FieldDOI) {
		r.Set(types.FieldDOI, types.TextValue(doi))
	}
	if isBlank(r, types.FieldArxivID) {
		for _, id := range ids {
			if id.Type == identifiers.TypeArxiv {
				r.Set(types.FieldArxivID, types.TextValue(id.Value))
				break
			}
		}
	}
	if len(ids) == 0 {
		return
	}
	existing := make(map[string]bool, len(r.Identifiers))
	for _, id := range r.Identifiers {
		existing[strings.ToLower(id.Type)+":"+id.Value] = true
	}
	merged := append([]types.Identifier{}, r.Identifiers...)
	for _, id := range ids {
		if !existing[id.Type+":"+id.Value] {
			merged = append(merged, id)
		}
	}
	r.Set(types.FieldIdentifiers, types.IdentifiersValue(merged))
}

func isBlank(r *types.Reference, f types.Field) bool {
	v, ok := r.Get(f)
	return !ok || v.IsBlank()
}

func textRule(fn func(string) string) func(types.Value) types.Value {
	return func(v types.Value) types.Value {
		v.Text = fn(v.Text)
		return v
	}
}

// removeDots turns "J. R. R." into "J R R".
func removeDots(s string) string {
	return strings.TrimSpace(dotsRe.ReplaceAllString(s, " "))
}

func titleCase(s string) string {
	return cases.Title(language.Und).String(s)
}

// trimNonAlnum strips leading and trailing characters that are neither
// letters nor digits.
func trimNonAlnum(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// normalizeDOI drops "doi:" and resolver URL prefixes.
func normalizeDOI(s string) string {
	if doi := identifiers.FindDOI(s); doi != "" {
		return doi
	}
	return s
}

func normalizeAuthors(v types.Value) types.Value {
	authors := make([]types.Author, len(v.Authors))
	for i, a := range v.Authors {
		a.Surname = textutil.Fold(a.Surname)
		if a.GivenNames != "" {
			a.GivenNames = titleCase(removeDots(textutil.Fold(a.GivenNames)))
		}
		if a.FullName != "" {
			a.FullName = titleCase(removeDots(textutil.Fold(a.FullName)))
		}
		authors[i] = a
	}
	return types.AuthorsValue(authors)
}

func normalizeIdentifiers(v types.Value) types.Value {
	ids := make([]types.Identifier, len(v.Identifiers))
	for i, id := range v.Identifiers {
		id.Type = strings.ToLower(strings.TrimSpace(id.Type))
		id.Value = textutil.Fold(id.Value)
		if id.Type == identifiers.TypeArxiv {
			id.Value = identifiers.FixArxivCategory(id.Value)
		}
		ids[i] = id
	}
	return types.IdentifiersValue(ids)
}

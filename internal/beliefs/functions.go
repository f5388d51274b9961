// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package beliefs

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/arXiv/arxiv-references/internal/identifiers"
	"github.com/arXiv/arxiv-references/pkg/types"
)

// Belief scores how plausible a non-blank field value looks, in [0,1].
type Belief func(types.Value) float64

var (
	integerRe = regexp.MustCompile(`(?:^|\s+)(\d+)(?:$|\s+)`)
	pagesRe   = regexp.MustCompile(`^(\d+)\s*[\s\-._/:]+\s*(\d+)`)
)

// fieldBeliefs lists the checks applied to each known field. A field's
// format score is the mean of its checks. Fields not listed score 1.
var fieldBeliefs = map[types.Field][]Belief{
	types.FieldTitle:       {unity, text(minimumLength(5))},
	types.FieldRaw:         {unity},
	types.FieldAuthors:     {authorStructure},
	types.FieldDOI:         {text(validDOI), text(contains(".")), text(contains("/")), text(doesntEndWith("-"))},
	types.FieldVolume:      {text(likely(integerLike, 0.8, 1))},
	types.FieldPages:       {text(integerLike), text(pages)},
	types.FieldSource:      {text(doesNotMentionArxiv)},
	types.FieldYear:        {text(integerLike), text(integer), text(yearLike), text(year)},
	types.FieldIdentifiers: {validIdentifiers},
	types.FieldArxivID:     {text(validArxivID)},
}

func unity(types.Value) float64 { return 1 }

// text adapts a string check to a Belief over the value's text form.
func text(fn func(string) float64) Belief {
	return func(v types.Value) float64 { return fn(v.String()) }
}

func boolScore(ok bool) float64 {
	if ok {
		return 1
	}
	return 0
}

// minimumLength rejects values shorter than length characters.
func minimumLength(length int) func(string) float64 {
	return func(s string) float64 {
		n := utf8.RuneCountInString(s)
		return boolScore(n == 0 || n >= length)
	}
}

// likely clamps fn into [lo, hi].
func likely(fn func(string) float64, lo, hi float64) func(string) float64 {
	return func(s string) float64 {
		return max(lo, min(hi, fn(s)))
	}
}

func contains(sub string) func(string) float64 {
	return func(s string) float64 { return boolScore(strings.Contains(s, sub)) }
}

func doesntEndWith(suffix string) func(string) float64 {
	return func(s string) float64 { return boolScore(!strings.HasSuffix(s, suffix)) }
}

func doesNotMentionArxiv(s string) float64 {
	return boolScore(!strings.Contains(strings.ToLower(s), "arxiv"))
}

func validDOI(s string) float64 {
	return boolScore(identifiers.ValidDOI(s))
}

func validArxivID(s string) float64 {
	return boolScore(identifiers.ValidArxivID(s) || identifiers.IsArxivID(s))
}

func integer(s string) float64 {
	_, err := strconv.Atoi(strings.TrimSpace(s))
	return boolScore(err == nil)
}

// integerLike is the share of s made up of whitespace-delimited integers.
// Matches do not overlap, so "209 4" scores 0.8.
func integerLike(s string) float64 {
	total := utf8.RuneCountInString(s)
	if total == 0 {
		return 0
	}
	matches := integerRe.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		return 0
	}
	good := 0.0
	for _, m := range matches {
		good += integer(m[1])
	}
	leftover := utf8.RuneCountInString(integerRe.ReplaceAllString(s, ""))
	return good / float64(len(matches)) * float64(total-leftover) / float64(total)
}

// year accepts integers strictly between 1600 and 2100.
func year(s string) float64 {
	y, err := strconv.Atoi(strings.TrimSpace(s))
	return boolScore(err == nil && y > 1600 && y < 2100)
}

// yearLike is the share of integers in s that are plausible years.
func yearLike(s string) float64 {
	matches := integerRe.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		return 0
	}
	good := 0.0
	for _, m := range matches {
		good += year(m[1])
	}
	return good / float64(len(matches))
}

// pages scores a leading "start - end" range: 1 for an increasing range,
// 0.5 otherwise, 0 without a range.
func pages(s string) float64 {
	m := pagesRe.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	start, err1 := strconv.Atoi(m[1])
	end, err2 := strconv.Atoi(m[2])
	if err1 != nil || err2 != nil {
		return 0
	}
	if start < end {
		return 1
	}
	return 0.5
}

// authorStructure penalizes surnames that span several words, which
// usually means given names or a second author leaked into the surname.
func authorStructure(v types.Value) float64 {
	if len(v.Authors) == 0 {
		return 0
	}
	total := 0.0
	for _, a := range v.Authors {
		mod := 1.0
		if words := strings.Fields(a.Surname); len(words) > 0 {
			mod /= float64(len(words))
		}
		total += mod
	}
	return total / float64(len(v.Authors))
}

// validIdentifiers is the share of arxiv and isbn identifiers whose value
// is well formed. Identifiers of other types are not checked.
func validIdentifiers(v types.Value) float64 {
	checked, good := 0, 0
	for _, id := range v.Identifiers {
		switch strings.ToLower(id.Type) {
		case identifiers.TypeISBN:
			checked++
			if identifiers.ValidISBN(id.Value) {
				good++
			}
		case identifiers.TypeArxiv:
			checked++
			if identifiers.IsArxivID(id.Value) || identifiers.ValidArxivID(id.Value) {
				good++
			}
		}
	}
	if checked == 0 {
		return 1
	}
	return float64(good) / float64(checked)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "sort"

const scoreKey = "score"

// Extractions holds every extractor's ordered reference list for one
// document. List order carries no cross-extractor meaning until aligned.
type Extractions map[ExtractorName][]Reference

// Names returns the extractor names sorted alphabetically.
func (e Extractions) Names() []ExtractorName {
	names := make([]ExtractorName, 0, len(e))
	for name := range e {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Contribution is one extractor's record inside an aligned group.
type Contribution struct {
	Extractor ExtractorName `json:"extractor" yaml:"extractor"`
	Reference Reference     `json:"reference" yaml:"reference"`
}

// AlignedGroup is one logical citation: the records from different
// extractors believed to describe it, in a fixed extractor order. A group
// always has at least one contribution.
type AlignedGroup []Contribution

// Extractors returns the extractor sequence of the group.
func (g AlignedGroup) Extractors() []ExtractorName {
	names := make([]ExtractorName, len(g))
	for i, c := range g {
		names[i] = c.Extractor
	}
	return names
}

// Contains reports whether extractor already contributed to the group.
func (g AlignedGroup) Contains(extractor ExtractorName) bool {
	for _, c := range g {
		if c.Extractor == extractor {
			return true
		}
	}
	return false
}

// FieldValidity holds validity probabilities for one extractor's record.
// A field missing from Fields has no estimate, which is different from an
// estimate of zero.
type FieldValidity struct {
	Extractor ExtractorName     `json:"extractor" yaml:"extractor"`
	Fields    map[Field]float64 `json:"fields" yaml:"fields"`
}

// ValidityMap parallels an AlignedGroup entry for entry.
type ValidityMap []FieldValidity

// Extractors returns the extractor sequence of the map.
func (v ValidityMap) Extractors() []ExtractorName {
	names := make([]ExtractorName, len(v))
	for i, fv := range v {
		names[i] = fv.Extractor
	}
	return names
}

// ExtractorPriors is the historical trust in one extractor, per field.
// Default, when set, applies to fields without an explicit weight.
type ExtractorPriors struct {
	Fields  map[Field]float64
	Default *float64
}

// Weight returns the prior for field f, falling back to Default. The
// second result is false when neither is configured.
func (p ExtractorPriors) Weight(f Field) (float64, bool) {
	if w, ok := p.Fields[f]; ok {
		return w, true
	}
	if p.Default != nil {
		return *p.Default, true
	}
	return 0, false
}

// PriorTable maps extractors to their priors. It is read-only once built
// and may be shared by concurrent merges.
type PriorTable map[ExtractorName]ExtractorPriors

// ArbitratedRecord is the authoritative record for one aligned group.
type ArbitratedRecord struct {
	Reference Reference

	// Score is the mean of FieldScores, in (0,1] when any field received
	// a vote and 0 when none did.
	Score float64

	// FieldScores holds the winning share of the vote for each field.
	FieldScores map[Field]float64

	// Completeness is 1 when a DOI or arXiv id is present, otherwise the
	// fraction of volume, source, year, and authors that are non-blank.
	Completeness float64
}

// MergeResult is the final reference list for one document.
type MergeResult struct {
	Document   string             `json:"document" yaml:"document"`
	Score      float64            `json:"score" yaml:"score"`
	References []ArbitratedRecord `json:"references" yaml:"references"`
}

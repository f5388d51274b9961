// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package beliefs estimates, for every field an extractor produced in an
// aligned group, the probability that the extractor got it right.
package beliefs

import (
	"errors"
	"fmt"

	"github.com/arXiv/arxiv-references/internal/textutil"
	"github.com/arXiv/arxiv-references/pkg/types"
)

// ErrValidation reports a malformed aligned group.
var ErrValidation = errors.New("validation failed")

// Validate returns one ValidityMap per group, in the same order and with the
// same extractor sequence. Every present field gets an estimate; absent
// fields get none. Blank values are plausible and score 1.
//
// A value's score is the mean of its field's format checks. When other
// extractors in the group produced the same field, the score is blended
// with the share of them that agree: (1-w)*format + w*agreement, where w is
// agreementWeight in [0,1].
func Validate(groups []types.AlignedGroup, agreementWeight float64) ([]types.ValidityMap, error) {
	if agreementWeight < 0 || agreementWeight > 1 {
		return nil, fmt.Errorf("%w: agreement weight %v outside [0,1]", ErrValidation, agreementWeight)
	}
	out := make([]types.ValidityMap, len(groups))
	for i, g := range groups {
		if err := checkGroup(g); err != nil {
			return nil, fmt.Errorf("group %d: %w", i, err)
		}
		out[i] = validateGroup(g, agreementWeight)
	}
	return out, nil
}

func checkGroup(g types.AlignedGroup) error {
	if len(g) == 0 {
		return fmt.Errorf("%w: empty group", ErrValidation)
	}
	seen := make(map[types.ExtractorName]bool, len(g))
	for _, c := range g {
		if c.Extractor == "" {
			return fmt.Errorf("%w: contribution without extractor", ErrValidation)
		}
		if seen[c.Extractor] {
			return fmt.Errorf("%w: extractor %s contributes twice", ErrValidation, c.Extractor)
		}
		seen[c.Extractor] = true
	}
	return nil
}

func validateGroup(g types.AlignedGroup, w float64) types.ValidityMap {
	vm := make(types.ValidityMap, len(g))
	for i, c := range g {
		fields := make(map[types.Field]float64)
		for _, f := range c.Reference.Fields() {
			v, _ := c.Reference.Get(f)
			if v.IsBlank() {
				fields[f] = 1
				continue
			}
			p := Score(f, v)
			if w > 0 {
				if agreement, ok := agreement(g, i, f, v); ok {
					p = (1-w)*p + w*agreement
				}
			}
			fields[f] = p
		}
		vm[i] = types.FieldValidity{Extractor: c.Extractor, Fields: fields}
	}
	return vm
}

// Score returns the format plausibility of a non-blank value for field f.
func Score(f types.Field, v types.Value) float64 {
	checks, ok := fieldBeliefs[f]
	if !ok {
		return 1
	}
	total := 0.0
	for _, check := range checks {
		total += check(v)
	}
	return total / float64(len(checks))
}

// agreement is the share of other contributions in g with a non-blank f
// that match v. It reports false when no other contribution has f.
func agreement(g types.AlignedGroup, self int, f types.Field, v types.Value) (float64, bool) {
	want := comparisonKey(v)
	others, agree := 0, 0
	for j, c := range g {
		if j == self {
			continue
		}
		ov, ok := c.Reference.Get(f)
		if !ok || ov.IsBlank() {
			continue
		}
		others++
		if comparisonKey(ov) == want {
			agree++
		}
	}
	if others == 0 {
		return 0, false
	}
	return float64(agree) / float64(others), true
}

// comparisonKey reduces a value to the form used for agreement checks, so that
// case and punctuation differences between extractors do not count.
func comparisonKey(v types.Value) string {
	if v.Kind == types.KindText {
		return textutil.CleanText(v.Text, true)
	}
	return textutil.CleanText(v.Key(), true)
}

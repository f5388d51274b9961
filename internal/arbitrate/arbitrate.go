// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package arbitrate combines aligned extractor records into one
// authoritative record per citation by weighted voting.
//
// A vote for a field value weighs prior x validity for the extractor that
// produced it. The winning value per field is the heaviest bucket, and its
// score is that bucket's share of the field's total weight.
package arbitrate

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/arXiv/arxiv-references/pkg/types"
)

var (
	// ErrStructuralMismatch reports inputs that pair different extractors,
	// such as records and validity maps with different extractor sequences.
	ErrStructuralMismatch = errors.New("structural mismatch")

	// ErrArbitration reports a vote pool or group that cannot be resolved.
	ErrArbitration = errors.New("arbitration failed")
)

// Options tunes arbitration. The zero value uses exact bucketing and one
// worker per CPU.
type Options struct {
	// SimilarityThreshold in (0,1) merges near-identical text votes.
	SimilarityThreshold float64

	// Workers bounds concurrent groups in ArbitrateAll.
	Workers int
}

// Arbitrate resolves one aligned group. The extractor sequence of validity
// must equal that of group, and every extractor must have an entry in
// priors. A field is arbitrated when any contribution has it; fields that
// collect no positive weight are left out of the record.
func Arbitrate(group types.AlignedGroup, validity types.ValidityMap, priors types.PriorTable, opts Options) (types.ArbitratedRecord, error) {
	if err := checkAlignment(group, validity, priors); err != nil {
		return types.ArbitratedRecord{}, err
	}

	rec := types.ArbitratedRecord{FieldScores: make(map[types.Field]float64)}
	for _, f := range fieldUnion(group) {
		pool, err := poolField(group, validity, priors, f, opts.SimilarityThreshold)
		if err != nil {
			return types.ArbitratedRecord{}, err
		}
		if pool.Len() == 0 {
			continue
		}
		v, score, err := Select(pool.Buckets())
		if err != nil {
			return types.ArbitratedRecord{}, fmt.Errorf("field %s: %w", f, err)
		}
		if f == types.FieldAuthors {
			v = types.AuthorsValue(fillFullNames(v.Authors))
		}
		rec.Reference.Set(f, v)
		rec.FieldScores[f] = score
	}

	if n := len(rec.FieldScores); n > 0 {
		total := 0.0
		for _, s := range rec.FieldScores {
			total += s
		}
		rec.Score = total / float64(n)
	}
	rec.Completeness = Completeness(rec.Reference)
	return rec, nil
}

// ArbitrateAll arbitrates each group against the same priors and returns
// one record per group in input order. Groups run concurrently, bounded by
// opts.Workers. Any failing group fails the whole call.
func ArbitrateAll(groups []types.AlignedGroup, validity []types.ValidityMap, priors types.PriorTable, opts Options) ([]types.ArbitratedRecord, error) {
	if len(groups) != len(validity) {
		return nil, fmt.Errorf("%w: %d groups but %d validity maps", ErrStructuralMismatch, len(groups), len(validity))
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	out := make([]types.ArbitratedRecord, len(groups))
	var g errgroup.Group
	g.SetLimit(workers)
	for i := range groups {
		i := i // per-iteration copy for Go < 1.22 loop semantics
		g.Go(func() error {
			rec, err := Arbitrate(groups[i], validity[i], priors, opts)
			if err != nil {
				return fmt.Errorf("group %d: %w", i, err)
			}
			out[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func checkAlignment(group types.AlignedGroup, validity types.ValidityMap, priors types.PriorTable) error {
	if len(group) == 0 {
		return fmt.Errorf("%w: empty group", ErrArbitration)
	}
	if len(group) != len(validity) {
		return fmt.Errorf("%w: records for %v but validity for %v", ErrStructuralMismatch, group.Extractors(), validity.Extractors())
	}
	for i, c := range group {
		if validity[i].Extractor != c.Extractor {
			return fmt.Errorf("%w: records for %v but validity for %v", ErrStructuralMismatch, group.Extractors(), validity.Extractors())
		}
		if _, ok := priors[c.Extractor]; !ok {
			return fmt.Errorf("%w: no priors for extractor %s", ErrStructuralMismatch, c.Extractor)
		}
	}
	return nil
}

// fieldUnion lists every field present in any contribution: known fields
// in schema order, then extra fields by name.
func fieldUnion(group types.AlignedGroup) []types.Field {
	seen := make(map[types.Field]bool)
	var extra []string
	for _, c := range group {
		for _, f := range c.Reference.Fields() {
			if seen[f] {
				continue
			}
			seen[f] = true
			if !f.Known() {
				extra = append(extra, string(f))
			}
		}
	}
	var fields []types.Field
	for _, f := range types.KnownFields {
		if seen[f] {
			fields = append(fields, f)
		}
	}
	sort.Strings(extra)
	for _, k := range extra {
		fields = append(fields, types.Field(k))
	}
	return fields
}

// poolField collects the votes for f. An extractor votes only when it has
// the field, a validity estimate for it, and a prior weight for it.
func poolField(group types.AlignedGroup, validity types.ValidityMap, priors types.PriorTable, f types.Field, threshold float64) (*Pool, error) {
	pool := NewPool(threshold)
	for i, c := range group {
		v, ok := c.Reference.Get(f)
		if !ok {
			continue
		}
		prior, ok := priors[c.Extractor].Weight(f)
		if !ok {
			continue
		}
		p, ok := validity[i].Fields[f]
		if !ok {
			continue
		}
		if !probability(prior) || !probability(p) {
			return nil, fmt.Errorf("%w: %s.%s has prior %v and validity %v", ErrArbitration, c.Extractor, f, prior, p)
		}
		pool.Add(v, prior*p)
	}
	return pool, nil
}

func probability(p float64) bool {
	return !math.IsNaN(p) && p >= 0 && p <= 1
}

// fillFullNames sets FullName from given names and surname where missing.
func fillFullNames(authors []types.Author) []types.Author {
	out := make([]types.Author, len(authors))
	for i, a := range authors {
		if a.FullName == "" && a.GivenNames != "" && a.Surname != "" {
			a.FullName = a.GivenNames + " " + a.Surname
		}
		out[i] = a
	}
	return out
}

// coreFields are the fields Completeness checks when a record has no DOI
// or arXiv id.
var coreFields = []types.Field{types.FieldVolume, types.FieldSource, types.FieldYear, types.FieldAuthors}

// Completeness rates how usable a record is for linking: 1 with a DOI or
// arXiv id, otherwise the fraction of volume, source, year, and authors
// that are filled in.
func Completeness(r types.Reference) float64 {
	for _, f := range []types.Field{types.FieldDOI, types.FieldArxivID} {
		if v, ok := r.Get(f); ok && !v.IsBlank() {
			return 1
		}
	}
	n := 0
	for _, f := range coreFields {
		if v, ok := r.Get(f); ok && !v.IsBlank() {
			n++
		}
	}
	return float64(n) / float64(len(coreFields))
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package align maps each extractor's reference list onto a shared set of
// logical citation slots.
package align

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/arXiv/arxiv-references/internal/textutil"
	"github.com/arXiv/arxiv-references/pkg/types"
)

// ErrAlignment reports structurally invalid extractor output.
var ErrAlignment = errors.New("alignment failed")

// madScale turns the median absolute deviation into a standard deviation
// estimate for normally distributed scores.
const madScale = 1.4826

// Aligner groups records from different extractors that describe the same
// citation. Implementations must return every input record exactly once and
// never return an empty group.
type Aligner interface {
	Align(extractions types.Extractions) ([]types.AlignedGroup, error)
}

// SimilarityFunc scores two record digests in [0,1].
type SimilarityFunc func(a, b string) float64

// Greedy aligns extractors one at a time, largest output first. Each record
// joins the slot holding its most similar record when that similarity is
// strictly above the cutoff, and otherwise opens a new slot. A slot takes at
// most one record per extractor.
type Greedy struct {
	Similarity SimilarityFunc
	Config     types.AlignConfig
}

// NewGreedy returns a Greedy aligner using Jaccard similarity over digests.
func NewGreedy(cfg types.AlignConfig) *Greedy {
	return &Greedy{Similarity: textutil.Jaccard, Config: cfg}
}

type entry struct {
	extractor types.ExtractorName
	ref       types.Reference
	digest    string
}

type slot struct {
	entries []entry
}

func (s slot) has(extractor types.ExtractorName) bool {
	for _, e := range s.entries {
		if e.extractor == extractor {
			return true
		}
	}
	return false
}

// Align implements Aligner.
func (g *Greedy) Align(extractions types.Extractions) ([]types.AlignedGroup, error) {
	sim := g.Similarity
	if sim == nil {
		sim = textutil.Jaccard
	}
	for name := range extractions {
		if strings.TrimSpace(string(name)) == "" {
			return nil, fmt.Errorf("%w: extractor with empty name", ErrAlignment)
		}
	}

	order := extractorOrder(extractions)
	digests := make(map[types.ExtractorName][]entry, len(order))
	for _, name := range order {
		refs := extractions[name]
		entries := make([]entry, len(refs))
		for i, r := range refs {
			entries[i] = entry{extractor: name, ref: r, digest: Digest(r)}
		}
		digests[name] = entries
	}

	cutoff := g.cutoff(order, digests, sim)

	var slots []slot
	for _, name := range order {
		for _, e := range digests[name] {
			best, bestScore := -1, 0.0
			for i, s := range slots {
				if s.has(name) {
					continue
				}
				score := bestMatch(e.digest, s, sim)
				if score <= cutoff {
					continue
				}
				if best < 0 || score > bestScore {
					best, bestScore = i, score
				}
			}
			if best < 0 {
				slots = append(slots, slot{entries: []entry{e}})
				continue
			}
			slots[best].entries = append(slots[best].entries, e)
		}
	}

	groups := make([]types.AlignedGroup, len(slots))
	for i, s := range slots {
		group := make(types.AlignedGroup, len(s.entries))
		for j, e := range s.entries {
			group[j] = types.Contribution{Extractor: e.extractor, Reference: e.ref}
		}
		groups[i] = group
	}
	return groups, nil
}

// extractorOrder sorts extractors by output length, longest first, with
// ties broken by name.
func extractorOrder(extractions types.Extractions) []types.ExtractorName {
	order := extractions.Names()
	sort.SliceStable(order, func(i, j int) bool {
		return len(extractions[order[i]]) > len(extractions[order[j]])
	})
	return order
}

func bestMatch(digest string, s slot, sim SimilarityFunc) float64 {
	best := 0.0
	for _, e := range s.entries {
		if score := sim(digest, e.digest); score > best {
			best = score
		}
	}
	return best
}

// cutoff computes median + 3 MAD over every cross-extractor similarity,
// clamped to the configured floor and ceiling.
func (g *Greedy) cutoff(order []types.ExtractorName, digests map[types.ExtractorName][]entry, sim SimilarityFunc) float64 {
	var scores []float64
	for i := 0; i < len(order); i++ {
		for j := i + 1; j < len(order); j++ {
			for _, a := range digests[order[i]] {
				for _, b := range digests[order[j]] {
					scores = append(scores, sim(a.digest, b.digest))
				}
			}
		}
	}
	c := g.Config.CutoffFloor
	if len(scores) > 0 {
		m := median(scores)
		dev := make([]float64, len(scores))
		for i, s := range scores {
			dev[i] = math.Abs(s - m)
		}
		c = m + 3*madScale*median(dev)
	}
	if g.Config.CutoffCeiling > 0 && c > g.Config.CutoffCeiling {
		c = g.Config.CutoffCeiling
	}
	if c < g.Config.CutoffFloor {
		c = g.Config.CutoffFloor
	}
	return c
}

func median(values []float64) float64 {
	sorted := append([]float64{}, values...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// digestSkip lists fields left out of a record's comparison text because
// extractors render them too differently to help matching.
var digestSkip = map[types.Field]bool{
	types.FieldRaw:         true,
	types.FieldDOI:         true,
	types.FieldIdentifiers: true,
	types.FieldReftype:     true,
}

// Digest returns the cleaned word string a record is compared by. Records
// with nothing but raw text are compared by their raw text.
func Digest(r types.Reference) string {
	var parts []string
	for _, f := range r.Fields() {
		if digestSkip[f] {
			continue
		}
		v, _ := r.Get(f)
		parts = append(parts, v.String())
	}
	d := textutil.CleanText(strings.Join(parts, " "), true)
	if d == "" && r.Raw != nil {
		d = textutil.CleanText(*r.Raw, true)
	}
	return d
}

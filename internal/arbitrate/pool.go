// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package arbitrate

import (
	"fmt"
	"math"

	"github.com/arXiv/arxiv-references/pkg/types"
)

// tieEpsilon is the weight difference below which two buckets tie.
const tieEpsilon = 1e-9

// Bucket is one candidate value and the weight voted for it.
type Bucket struct {
	Value  types.Value
	Weight float64
}

// Pool accumulates weighted votes for one field. Votes for the same value
// share a bucket. With a similarity threshold in (0,1), a text vote also
// joins the most similar existing bucket scoring at least the threshold.
type Pool struct {
	threshold float64
	buckets   []Bucket
}

// NewPool returns an empty pool. A threshold outside (0,1) selects exact
// bucketing.
func NewPool(threshold float64) *Pool {
	if threshold <= 0 || threshold >= 1 {
		threshold = 0
	}
	return &Pool{threshold: threshold}
}

// Add records a vote. Votes with no positive weight are ignored.
func (p *Pool) Add(v types.Value, weight float64) {
	if !(weight > 0) {
		return
	}
	key := v.Key()
	for i := range p.buckets {
		if p.buckets[i].Value.Key() == key {
			p.buckets[i].Weight += weight
			return
		}
	}
	if i := p.nearest(v); i >= 0 {
		b := &p.buckets[i]
		// A heavier vote becomes the bucket's representative value and
		// inherits the weight collected so far.
		if weight > b.Weight {
			b.Value = v
		}
		b.Weight += weight
		return
	}
	p.buckets = append(p.buckets, Bucket{Value: v, Weight: weight})
}

// nearest returns the index of the most similar text bucket at or above
// the threshold, or -1.
func (p *Pool) nearest(v types.Value) int {
	if p.threshold == 0 || v.Kind != types.KindText {
		return -1
	}
	best, bestScore := -1, 0.0
	for i, b := range p.buckets {
		if b.Value.Kind != types.KindText {
			continue
		}
		s := Similarity(v.Text, b.Value.Text)
		if s >= p.threshold && s > bestScore {
			best, bestScore = i, s
		}
	}
	return best
}

// Buckets returns the pool's buckets in order of first vote.
func (p *Pool) Buckets() []Bucket {
	return append([]Bucket{}, p.buckets...)
}

// Len returns the number of buckets.
func (p *Pool) Len() int {
	return len(p.buckets)
}

// Select returns the value with the largest weight and its share of the
// total weight. Ties go to the value with the lexicographically smallest
// key.
func Select(buckets []Bucket) (types.Value, float64, error) {
	if len(buckets) == 0 {
		return types.Value{}, 0, fmt.Errorf("%w: empty vote pool", ErrArbitration)
	}
	total := 0.0
	best := -1
	for i, b := range buckets {
		if math.IsNaN(b.Weight) || math.IsInf(b.Weight, 0) || b.Weight < 0 {
			return types.Value{}, 0, fmt.Errorf("%w: bucket %q has weight %v", ErrArbitration, b.Value.Key(), b.Weight)
		}
		total += b.Weight
		switch {
		case best < 0 || b.Weight > buckets[best].Weight+tieEpsilon:
			best = i
		case math.Abs(b.Weight-buckets[best].Weight) <= tieEpsilon && b.Value.Key() < buckets[best].Value.Key():
			best = i
		}
	}
	if total <= 0 {
		return types.Value{}, 0, fmt.Errorf("%w: vote pool has no weight", ErrArbitration)
	}
	return buckets[best].Value, buckets[best].Weight / total, nil
}

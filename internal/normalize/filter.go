// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/arXiv/arxiv-references/pkg/types"
)

// ErrFilter reports arbitrated output that cannot be filtered, such as a
// record carrying a NaN or out-of-range score.
var ErrFilter = errors.New("malformed arbitrated record")

// internalPrefix marks Extra fields used for pipeline bookkeeping.
const internalPrefix = "_"

// Filter drops arbitrated records that have no non-blank schema field or
// that score below minScore, strips internal bookkeeping fields, and
// returns the kept records in order along with their mean score (0 when
// nothing is kept). Scores of kept records are not changed.
func Filter(records []types.ArbitratedRecord, minScore float64) ([]types.ArbitratedRecord, float64, error) {
	kept := make([]types.ArbitratedRecord, 0, len(records))
	total := 0.0
	for i, rec := range records {
		if math.IsNaN(rec.Score) || rec.Score < 0 || rec.Score > 1 {
			return nil, 0, fmt.Errorf("%w: record %d has score %v", ErrFilter, i, rec.Score)
		}
		if rec.Score < minScore {
			continue
		}
		rec.Reference = stripInternal(rec.Reference)
		if !hasContent(rec.Reference) {
			continue
		}
		kept = append(kept, rec)
		total += rec.Score
	}
	if len(kept) == 0 {
		return kept, 0, nil
	}
	return kept, total / float64(len(kept)), nil
}

func stripInternal(r types.Reference) types.Reference {
	out := r.Clone()
	for k := range r.Extra {
		if strings.HasPrefix(k, internalPrefix) {
			out.Delete(types.Field(k))
		}
	}
	return out
}

// hasContent reports whether any schema field carries a non-blank value.
func hasContent(r types.Reference) bool {
	for _, f := range types.KnownFields {
		if v, ok := r.Get(f); ok && !v.IsBlank() {
			return true
		}
	}
	return false
}

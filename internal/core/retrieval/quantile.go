package retrieval

import (
	"math"
	"sort"

	"github.com/wsb360/aiclassify/internal/core/model"
)

// tieEpsilon protects genuine ties at the quantile boundary from being
// dropped by floating-point quantile precision.
const tieEpsilon = 1e-4

// filterQuantileWithTie advances every candidate at or above the score
// quantile, plus any candidate score-tied with the threshold, deduplicated
// by path (first occurrence wins) and re-sorted descending by score. A hard
// top-K would arbitrarily split groups of candidates with identical
// similarity; the tie inclusion lets the advancing set exceed the nominal
// quantile fraction instead. If fewer than minAdvance survive, everything
// scoring at least the minAdvance-th best distinct-path score advances, so
// at least min(minAdvance, distinct paths) paths come through.
func filterQuantileWithTie(candidates []model.Candidate, quantile float64, minAdvance int) []model.Candidate {
	if len(candidates) <= minAdvance {
		return candidates
	}

	scores := make([]float64, len(candidates))
	for i, c := range candidates {
		scores[i] = candidateScore(c)
	}

	threshold := interpolatedQuantile(scores, quantile)

	var advancing []model.Candidate
	for _, c := range candidates {
		s := candidateScore(c)
		if s >= threshold || math.Abs(s-threshold) < tieEpsilon {
			advancing = append(advancing, c)
		}
	}
	advancing = sortByScore(dedupeByPath(advancing))

	if len(advancing) >= minAdvance {
		return advancing
	}

	// Too few above the quantile: advance everything scoring at least the
	// minAdvance-th best distinct-path score. Ranking over distinct paths
	// keeps the guarantee intact when the top scores all share one path.
	best := make(map[string]float64, len(candidates))
	for _, c := range candidates {
		key := c.PathString()
		s := candidateScore(c)
		if cur, ok := best[key]; !ok || s > cur {
			best[key] = s
		}
	}
	distinct := make([]float64, 0, len(best))
	for _, s := range best {
		distinct = append(distinct, s)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(distinct)))

	rank := minAdvance
	if rank > len(distinct) {
		rank = len(distinct)
	}
	cutoff := distinct[rank-1]

	var fallback []model.Candidate
	for _, c := range candidates {
		if candidateScore(c) >= cutoff {
			fallback = append(fallback, c)
		}
	}
	return sortByScore(dedupeByPath(fallback))
}

// interpolatedQuantile is the standard linear-interpolation quantile over
// the score distribution.
func interpolatedQuantile(scores []float64, q float64) float64 {
	s := append([]float64(nil), scores...)
	sort.Float64s(s)

	if q <= 0 {
		return s[0]
	}
	if q >= 1 {
		return s[len(s)-1]
	}

	pos := q * float64(len(s)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return s[lo]
	}
	frac := pos - float64(lo)
	return s[lo] + frac*(s[hi]-s[lo])
}

func candidateScore(c model.Candidate) float64 {
	if c.Score == nil {
		return 0
	}
	return *c.Score
}

func dedupeByPath(candidates []model.Candidate) []model.Candidate {
	seen := make(map[string]bool, len(candidates))
	var out []model.Candidate
	for _, c := range candidates {
		key := c.PathString()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}

func sortByScore(candidates []model.Candidate) []model.Candidate {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidateScore(candidates[i]) > candidateScore(candidates[j])
	})
	return candidates
}

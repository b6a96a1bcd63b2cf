package retrieval

import (
	"context"
	"fmt"

	"github.com/wsb360/aiclassify/internal/config"
	"github.com/wsb360/aiclassify/internal/core/model"
	"github.com/wsb360/aiclassify/internal/index"
)

// Ranker turns nearest-neighbor hits into a robust candidate set: distances
// become similarities, low-confidence hits are floored away, and the
// quantile-with-tie cutoff keeps only the statistically strong tail without
// splitting tied groups at the boundary.
type Ranker struct {
	Index           index.SemanticIndex
	TopK            int
	SimilarityFloor float64
	Quantile        float64
	MinAdvance      int
}

func New(idx index.SemanticIndex, cfg config.ClassifyConfig) *Ranker {
	return &Ranker{
		Index:           idx,
		TopK:            cfg.TopK,
		SimilarityFloor: cfg.SimilarityFloor,
		Quantile:        cfg.Quantile,
		MinAdvance:      cfg.MinAdvance,
	}
}

// Retrieve queries the semantic index for the item name and returns the
// filtered candidate list. An unavailable index is the one fatal condition
// of the engine and surfaces as an error; an empty result set does not.
func (r *Ranker) Retrieve(ctx context.Context, itemName string) ([]model.Candidate, error) {
	entries, err := r.Index.Query(ctx, itemName, r.TopK)
	if err != nil {
		return nil, fmt.Errorf("retrieval failed: %w", err)
	}

	var candidates []model.Candidate
	for _, e := range entries {
		score := Similarity(e.Distance)
		if score < r.SimilarityFloor {
			continue
		}

		path := referencePath(e)
		if len(path) == 0 {
			continue
		}

		s := score
		candidates = append(candidates, model.Candidate{
			Path:   path,
			Score:  &s,
			Source: model.SourceRetrieval,
		})
	}

	return filterQuantileWithTie(candidates, r.Quantile, r.MinAdvance), nil
}

// Similarity converts a cosine distance in [0, 2] to a similarity in [0, 1].
func Similarity(distance float64) float64 {
	s := 1 - distance/2
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}

func referencePath(e model.ReferenceEntry) []string {
	var path []string
	if e.BigClass != "" {
		path = append(path, e.BigClass)
	}
	if e.MiddleClass != "" {
		path = append(path, e.MiddleClass)
	}
	if e.SmallClass != "" {
		path = append(path, e.SmallClass)
	}
	return path
}

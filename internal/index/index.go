package index

import (
	"context"

	"github.com/wsb360/aiclassify/internal/core/model"
)

// SemanticIndex is the nearest-neighbor capability over embedded reference
// items. Query returns up to k entries ordered by ascending distance.
type SemanticIndex interface {
	Query(ctx context.Context, text string, k int) ([]model.ReferenceEntry, error)
}

// Writer is the loading side of the index, used by cmd/indexer.
type Writer interface {
	Add(ctx context.Context, materials []model.ReferenceMaterial) (int, error)
}

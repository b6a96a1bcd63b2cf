package taxonomy

import (
	"context"

	"github.com/wsb360/aiclassify/internal/core/model"
)

// CategorySource yields all category records ordered by code, for one-time
// or on-demand tree construction.
type CategorySource interface {
	Categories(ctx context.Context) ([]model.CategoryRecord, error)
}

// MaterialSource streams reference materials for the vector index loader.
type MaterialSource interface {
	MaterialCount(ctx context.Context) (int, error)
	Materials(ctx context.Context, offset, limit int) ([]model.ReferenceMaterial, error)
}

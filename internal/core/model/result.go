package model

// Unclassified is the sentinel path returned when no strategy produced a
// usable category.
const Unclassified = "其他/未分类"

// ClassificationResult is the final record for one classified item.
// SimilarityScore is nil when no retrieval signal contributed.
type ClassificationResult struct {
	CategoryPath    string   `json:"category_path"`
	Reason          string   `json:"reason"`
	SimilarityScore *float64 `json:"similarity_score,omitempty"`
}

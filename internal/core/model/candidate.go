package model

import "strings"

// Candidate sources.
const (
	SourceRetrieval    = "retrieval"
	SourceHierarchical = "hierarchical"
)

// Candidate is a taxonomy path proposed by one classification strategy.
// Score is only set for retrieval candidates.
type Candidate struct {
	Path   []string `json:"path"`
	Score  *float64 `json:"score,omitempty"`
	Source string   `json:"source"`
}

// PathString joins the path segments with the canonical separator.
func (c Candidate) PathString() string {
	return JoinPath(c.Path)
}

// JoinPath renders a category path like "钢材/型钢/角钢".
func JoinPath(path []string) string {
	return strings.Join(path, "/")
}

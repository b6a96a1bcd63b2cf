package index

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/wsb360/aiclassify/internal/core/model"
	"github.com/wsb360/aiclassify/internal/driver"
	"github.com/wsb360/aiclassify/internal/llm"
)

// MemgraphIndex stores reference materials as :Material nodes with a cosine
// vector index over their embeddings.
type MemgraphIndex struct {
	Driver    driver.GraphDriver
	Embedder  llm.EmbedderClient
	IndexName string
}

func NewMemgraphIndex(d driver.GraphDriver, embedder llm.EmbedderClient, indexName string) *MemgraphIndex {
	return &MemgraphIndex{
		Driver:    d,
		Embedder:  embedder,
		IndexName: indexName,
	}
}

func (idx *MemgraphIndex) Query(ctx context.Context, text string, k int) ([]model.ReferenceEntry, error) {
	if idx.Embedder == nil {
		return nil, fmt.Errorf("semantic index requires an embedding client")
	}

	vec, err := idx.Embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	params := map[string]interface{}{
		"index_name": idx.IndexName,
		"k":          k,
		"embedding":  vec,
	}

	result, err := idx.Driver.ExecuteQuery(ctx, driver.SearchMaterialsQuery, params)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	var entries []model.ReferenceEntry
	for _, rec := range result.Records {
		m := rec.AsMap()
		entry := model.ReferenceEntry{
			ID:           recordString(m, "ref_id"),
			MaterialName: recordString(m, "material_name"),
			BigClass:     recordString(m, "big_class_name"),
			MiddleClass:  recordString(m, "middle_class_name"),
			SmallClass:   recordString(m, "small_class_name"),
		}
		if f, ok := m["distance"].(float64); ok {
			entry.Distance = f
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// Add embeds and upserts a batch of reference materials. Rows missing an
// id, name or leaf code are skipped, matching the bulk loader contract.
func (idx *MemgraphIndex) Add(ctx context.Context, materials []model.ReferenceMaterial) (int, error) {
	if idx.Embedder == nil {
		return 0, fmt.Errorf("semantic index requires an embedding client")
	}

	added := 0
	for _, m := range materials {
		if m.ID == "" || m.MaterialName == "" || m.SmallClassCode == "" {
			continue
		}

		document := strings.TrimSpace(m.MaterialName + " " + m.SmallClassCode)
		vec, err := idx.Embedder.Embed(ctx, document)
		if err != nil {
			log.Printf("Failed to embed material %s: %v", m.ID, err)
			continue
		}

		params := map[string]interface{}{
			"ref_id":            "material_" + m.ID,
			"material_name":     m.MaterialName,
			"document":          document,
			"big_class_name":    m.BigClassName,
			"middle_class_name": m.MiddleClassName,
			"small_class_name":  m.SmallClassName,
			"small_class_code":  m.SmallClassCode,
			"embedding":         vec,
		}

		if _, err := idx.Driver.ExecuteQuery(ctx, driver.SaveMaterialQuery, params); err != nil {
			log.Printf("Failed to save material %s: %v", m.ID, err)
			continue
		}
		added++
	}

	return added, nil
}

func recordString(m map[string]interface{}, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

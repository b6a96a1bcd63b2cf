package core

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/wsb360/aiclassify/internal/config"
	"github.com/wsb360/aiclassify/internal/core/arbiter"
	"github.com/wsb360/aiclassify/internal/core/model"
	"github.com/wsb360/aiclassify/internal/core/navigator"
	"github.com/wsb360/aiclassify/internal/core/retrieval"
	"github.com/wsb360/aiclassify/internal/index"
	"github.com/wsb360/aiclassify/internal/llm"
	"github.com/wsb360/aiclassify/internal/taxonomy"
)

// Engine is the classification facade: it owns the taxonomy snapshot, the
// reasoning oracle, the semantic index, and the three strategy stages.
type Engine struct {
	Source    taxonomy.CategorySource
	Navigator *navigator.Navigator
	Ranker    *retrieval.Ranker
	Arbiter   *arbiter.Arbiter

	tree         atomic.Pointer[taxonomy.Tree]
	batchWorkers int
}

// NewEngine wires the stages and loads the taxonomy. A failed load degrades
// to an empty tree: classification then reports the unclassified sentinel
// instead of failing its caller.
func NewEngine(ctx context.Context, source taxonomy.CategorySource, llmClient llm.LLMClient, idx index.SemanticIndex, cfg *config.Config) *Engine {
	e := &Engine{
		Source:       source,
		Navigator:    navigator.New(llmClient, cfg.Prompts),
		Ranker:       retrieval.New(idx, cfg.Classify),
		Arbiter:      arbiter.New(llmClient, cfg.Prompts),
		batchWorkers: cfg.Concurrency.BatchClassify,
	}
	e.tree.Store(taxonomy.Build(nil))

	if err := e.RefreshTaxonomy(ctx); err != nil {
		log.Printf("Failed to load taxonomy, starting with an empty tree: %v", err)
	}

	return e
}

// Tree returns the current taxonomy snapshot.
func (e *Engine) Tree() *taxonomy.Tree {
	return e.tree.Load()
}

// RefreshTaxonomy rebuilds the tree from the source and swaps it in as a
// whole, so concurrent readers never observe a partially built tree.
func (e *Engine) RefreshTaxonomy(ctx context.Context) error {
	records, err := e.Source.Categories(ctx)
	if err != nil {
		return fmt.Errorf("failed to load categories: %w", err)
	}

	tree := taxonomy.Build(records)
	e.tree.Store(tree)
	log.Printf("Loaded %d categories into the taxonomy tree", tree.Size())
	return nil
}

// Classify runs the hierarchical strategy only.
func (e *Engine) Classify(ctx context.Context, itemName string) model.ClassificationResult {
	path := e.Navigator.Classify(ctx, e.Tree(), itemName)
	if len(path) == 0 {
		return model.ClassificationResult{
			CategoryPath: model.Unclassified,
			Reason:       "逐级分类未能确定分类",
		}
	}
	return model.ClassificationResult{
		CategoryPath: model.JoinPath(path),
		Reason:       "逐级分类结果",
	}
}

// ClassifyFused runs retrieval and hierarchical classification and
// arbitrates between them. The only error is an unavailable semantic
// index; every other failure degrades inside the stages.
func (e *Engine) ClassifyFused(ctx context.Context, itemName string) (model.ClassificationResult, error) {
	if strings.TrimSpace(itemName) == "" {
		zero := 0.0
		return model.ClassificationResult{
			CategoryPath:    model.Unclassified,
			Reason:          "文件名为空",
			SimilarityScore: &zero,
		}, nil
	}

	candidates, err := e.Ranker.Retrieve(ctx, itemName)
	if err != nil {
		return model.ClassificationResult{}, err
	}

	hierPath := e.Navigator.Classify(ctx, e.Tree(), itemName)

	return e.Arbiter.Arbitrate(ctx, itemName, candidates, hierPath), nil
}

// ClassifyBatch classifies independent items with bounded concurrency,
// keyed by the original input. Per-item retrieval failures are recorded in
// the result's reason rather than aborting the batch.
func (e *Engine) ClassifyBatch(ctx context.Context, filePaths []string, fused bool) map[string]model.ClassificationResult {
	workers := e.batchWorkers
	if workers < 1 {
		workers = 1
	}

	results := make(map[string]model.ClassificationResult, len(filePaths))
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)

	for _, fp := range filePaths {
		wg.Add(1)
		go func(fp string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			name := ItemName(fp)

			var res model.ClassificationResult
			if fused {
				r, err := e.ClassifyFused(ctx, name)
				if err != nil {
					r = model.ClassificationResult{
						CategoryPath: model.Unclassified,
						Reason:       fmt.Sprintf("向量检索不可用：%v", err),
					}
				}
				res = r
			} else {
				res = e.Classify(ctx, name)
			}

			mu.Lock()
			results[fp] = res
			mu.Unlock()
		}(fp)
	}

	wg.Wait()
	return results
}

// ItemName derives the classification input from a file path: the base
// name without its extension.
func ItemName(filePath string) string {
	base := filepath.Base(filePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

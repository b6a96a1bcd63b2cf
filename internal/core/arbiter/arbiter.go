package arbiter

import (
	"context"
	"fmt"
	"strings"

	"github.com/wsb360/aiclassify/internal/config"
	"github.com/wsb360/aiclassify/internal/core/common"
	"github.com/wsb360/aiclassify/internal/core/model"
	"github.com/wsb360/aiclassify/internal/llm"
)

const defaultArbitratePrompt = `你是一个专业的分类裁决助手。两种分类策略对同一文件给出了候选分类，请从候选分类列表中选择最合适的一个，并说明理由。

文件名：%s

候选分类列表：
%s

重要：你的最终回答必须严格按照以下JSON格式输出，不要添加任何其他文字：
{"category":"候选分类路径","reason":"选择理由"}

其中"category"必须与候选分类列表中的某个路径完全一致，不要自行创造新的分类路径。`

// Arbiter reconciles the retrieval candidate set with the hierarchical
// path. It always returns a concrete result: oracle unreliability is
// recovered through a deterministic fallback order, never surfaced as an
// error.
type Arbiter struct {
	LLM     llm.LLMClient
	Prompts config.ClassifyPrompts
}

func New(llmClient llm.LLMClient, prompts config.ClassifyPrompts) *Arbiter {
	return &Arbiter{
		LLM:     llmClient,
		Prompts: prompts,
	}
}

type decision struct {
	Category string `json:"category"`
	Reason   string `json:"reason"`
}

// Arbitrate picks one final path from the two strategy outputs.
func (a *Arbiter) Arbitrate(ctx context.Context, itemName string, retrieval []model.Candidate, hierPath []string) model.ClassificationResult {
	if len(retrieval) == 0 && len(hierPath) == 0 {
		return model.ClassificationResult{
			CategoryPath: model.Unclassified,
			Reason:       "向量检索与逐级分类均未产生候选分类",
		}
	}

	if len(retrieval) == 0 {
		return model.ClassificationResult{
			CategoryPath: model.JoinPath(hierPath),
			Reason:       "仅逐级分类产生结果，直接采用",
		}
	}

	topScore := retrieval[0].Score

	if len(hierPath) == 0 {
		return model.ClassificationResult{
			CategoryPath:    retrieval[0].PathString(),
			Reason:          "仅向量检索产生结果，采用相似度最高的候选",
			SimilarityScore: topScore,
		}
	}

	merged := mergeCandidates(retrieval, hierPath)

	result := a.askOracle(ctx, itemName, merged, retrieval)
	result.SimilarityScore = topScore
	return result
}

func (a *Arbiter) askOracle(ctx context.Context, itemName string, merged, retrieval []model.Candidate) model.ClassificationResult {
	prompt := a.renderPrompt(itemName, merged)

	response, err := a.LLM.Generate(ctx, prompt)
	if err != nil {
		fallback := pickFallback(merged, retrieval)
		return model.ClassificationResult{
			CategoryPath: fallback.PathString(),
			Reason:       fmt.Sprintf("裁决调用失败（%v），回退到候选 %s", err, fallback.PathString()),
		}
	}

	d, err := common.ParseJSON[decision](response)
	if err != nil {
		fallback := pickFallback(merged, retrieval)
		return model.ClassificationResult{
			CategoryPath: fallback.PathString(),
			Reason:       fmt.Sprintf("裁决响应解析失败，回退到候选 %s。原始响应：%s", fallback.PathString(), common.Truncate(response, 100)),
		}
	}

	// The oracle output is untrusted: accept the category only if it names
	// one of the merged candidates exactly.
	for _, c := range merged {
		if c.PathString() == d.Category {
			return model.ClassificationResult{
				CategoryPath: d.Category,
				Reason:       d.Reason,
			}
		}
	}

	fallback := pickFallback(merged, retrieval)
	return model.ClassificationResult{
		CategoryPath: fallback.PathString(),
		Reason:       fmt.Sprintf("裁决结果 %q 不在候选列表中，回退到候选 %s", d.Category, fallback.PathString()),
	}
}

func (a *Arbiter) renderPrompt(itemName string, merged []model.Candidate) string {
	tmpl := a.Prompts.Arbitrate
	if tmpl == "" {
		tmpl = defaultArbitratePrompt
	}

	var lines []string
	for _, c := range merged {
		switch {
		case c.Source == model.SourceRetrieval && c.Score != nil:
			lines = append(lines, fmt.Sprintf("- %s（来源：向量检索，相似度：%.4f）", c.PathString(), *c.Score))
		case c.Source == model.SourceRetrieval:
			lines = append(lines, fmt.Sprintf("- %s（来源：向量检索）", c.PathString()))
		default:
			lines = append(lines, fmt.Sprintf("- %s（来源：逐级分类）", c.PathString()))
		}
	}

	return fmt.Sprintf(tmpl, itemName, strings.Join(lines, "\n"))
}

// mergeCandidates appends the hierarchical path to the retrieval list
// unless a retrieval candidate already proposes the same path.
func mergeCandidates(retrieval []model.Candidate, hierPath []string) []model.Candidate {
	merged := append([]model.Candidate(nil), retrieval...)

	hierString := model.JoinPath(hierPath)
	for _, c := range retrieval {
		if c.PathString() == hierString {
			return merged
		}
	}

	return append(merged, model.Candidate{
		Path:   hierPath,
		Source: model.SourceHierarchical,
	})
}

// pickFallback is the deterministic recovery order: the highest-scored
// retrieval candidate when one exists, else the first merged candidate.
func pickFallback(merged, retrieval []model.Candidate) model.Candidate {
	if len(retrieval) > 0 {
		best := retrieval[0]
		for _, c := range retrieval[1:] {
			if c.Score != nil && (best.Score == nil || *c.Score > *best.Score) {
				best = c
			}
		}
		return best
	}
	return merged[0]
}

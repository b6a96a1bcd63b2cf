package arbiter

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wsb360/aiclassify/internal/config"
	"github.com/wsb360/aiclassify/internal/core/model"
)

type MockLLM struct {
	Response string
	Err      error
	Prompts  []string
}

func (m *MockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

func retrievalCand(path string, score float64) model.Candidate {
	s := score
	return model.Candidate{
		Path:   []string{path},
		Score:  &s,
		Source: model.SourceRetrieval,
	}
}

func TestArbitrateBothEmpty(t *testing.T) {
	mock := &MockLLM{}
	a := New(mock, config.ClassifyPrompts{})

	res := a.Arbitrate(context.Background(), "神秘文件", nil, nil)
	assert.Equal(t, model.Unclassified, res.CategoryPath)
	assert.NotEmpty(t, res.Reason)
	assert.Nil(t, res.SimilarityScore)
	assert.Empty(t, mock.Prompts, "nothing to arbitrate, no oracle call")
}

func TestArbitrateHierarchicalOnly(t *testing.T) {
	mock := &MockLLM{}
	a := New(mock, config.ClassifyPrompts{})

	res := a.Arbitrate(context.Background(), "给水泵", nil, []string{"泵类", "离心泵"})
	assert.Equal(t, "泵类/离心泵", res.CategoryPath)
	assert.Nil(t, res.SimilarityScore)
	assert.Empty(t, mock.Prompts)
}

func TestArbitrateRetrievalOnly(t *testing.T) {
	mock := &MockLLM{}
	a := New(mock, config.ClassifyPrompts{})

	retrieval := []model.Candidate{
		retrievalCand("泵类", 0.95),
		retrievalCand("阀门", 0.8),
	}

	res := a.Arbitrate(context.Background(), "给水泵", retrieval, nil)
	assert.Equal(t, "泵类", res.CategoryPath)
	require.NotNil(t, res.SimilarityScore)
	assert.Equal(t, 0.95, *res.SimilarityScore)
	assert.Empty(t, mock.Prompts)
}

func TestArbitrateOracleChoosesCandidate(t *testing.T) {
	mock := &MockLLM{Response: `{"category":"泵类/离心泵","reason":"名称中含泵且为离心式"}`}
	a := New(mock, config.ClassifyPrompts{})

	retrieval := []model.Candidate{retrievalCand("阀门/闸阀", 0.9)}
	res := a.Arbitrate(context.Background(), "离心给水泵", retrieval, []string{"泵类", "离心泵"})

	assert.Equal(t, "泵类/离心泵", res.CategoryPath)
	assert.Equal(t, "名称中含泵且为离心式", res.Reason)
	require.NotNil(t, res.SimilarityScore)
	assert.Equal(t, 0.9, *res.SimilarityScore)

	require.Len(t, mock.Prompts, 1)
	assert.Contains(t, mock.Prompts[0], "离心给水泵")
	assert.Contains(t, mock.Prompts[0], "阀门/闸阀")
	assert.Contains(t, mock.Prompts[0], "泵类/离心泵")
	assert.Contains(t, mock.Prompts[0], "向量检索")
	assert.Contains(t, mock.Prompts[0], "逐级分类")
}

func TestArbitrateOracleJSONInsideProse(t *testing.T) {
	mock := &MockLLM{Response: "好的，我的裁决如下：\n```json\n{\"category\":\"泵类\",\"reason\":\"ok\"}\n```"}
	a := New(mock, config.ClassifyPrompts{})

	res := a.Arbitrate(context.Background(), "泵", []model.Candidate{retrievalCand("泵类", 0.9)}, []string{"阀门"})
	assert.Equal(t, "泵类", res.CategoryPath)
	assert.Equal(t, "ok", res.Reason)
}

func TestArbitrateOutOfSetFallsBack(t *testing.T) {
	mock := &MockLLM{Response: `{"category":"自创分类","reason":"无"}`}
	a := New(mock, config.ClassifyPrompts{})

	retrieval := []model.Candidate{
		retrievalCand("阀门", 0.7),
		retrievalCand("泵类", 0.93),
	}
	res := a.Arbitrate(context.Background(), "泵", retrieval, []string{"管件"})

	// Fallback is the best-scored retrieval candidate, not the first listed.
	assert.Equal(t, "泵类", res.CategoryPath)
	assert.Contains(t, res.Reason, "自创分类")
}

func TestArbitrateParseFailureFallsBack(t *testing.T) {
	mock := &MockLLM{Response: "我无法以JSON回答这个问题"}
	a := New(mock, config.ClassifyPrompts{})

	retrieval := []model.Candidate{retrievalCand("泵类", 0.9)}
	res := a.Arbitrate(context.Background(), "泵", retrieval, []string{"阀门"})

	assert.Equal(t, "泵类", res.CategoryPath)
	assert.Contains(t, res.Reason, "我无法以JSON回答这个问题")
}

func TestArbitrateOracleErrorFallsBack(t *testing.T) {
	mock := &MockLLM{Err: errors.New("deadline exceeded")}
	a := New(mock, config.ClassifyPrompts{})

	retrieval := []model.Candidate{retrievalCand("泵类", 0.9)}
	res := a.Arbitrate(context.Background(), "泵", retrieval, []string{"阀门"})

	assert.Equal(t, "泵类", res.CategoryPath)
	assert.Contains(t, res.Reason, "deadline exceeded")
	require.NotNil(t, res.SimilarityScore)
	assert.Equal(t, 0.9, *res.SimilarityScore)
}

func TestArbitrateIsIdempotent(t *testing.T) {
	retrieval := []model.Candidate{retrievalCand("泵类", 0.9)}
	hier := []string{"阀门"}

	mock := &MockLLM{Response: `{"category":"泵类","reason":"r"}`}
	a := New(mock, config.ClassifyPrompts{})

	first := a.Arbitrate(context.Background(), "泵", retrieval, hier)
	second := a.Arbitrate(context.Background(), "泵", retrieval, hier)
	assert.Equal(t, first, second)
}

func TestMergeCandidatesAppendsHierPath(t *testing.T) {
	retrieval := []model.Candidate{retrievalCand("泵类/离心泵", 0.9)}

	merged := mergeCandidates(retrieval, []string{"阀门", "闸阀"})
	require.Len(t, merged, 2)
	assert.Equal(t, "阀门/闸阀", merged[1].PathString())
	assert.Equal(t, model.SourceHierarchical, merged[1].Source)
	assert.Nil(t, merged[1].Score)
}

func TestMergeCandidatesSkipsDuplicatePath(t *testing.T) {
	retrieval := []model.Candidate{retrievalCand("泵类/离心泵", 0.9)}

	merged := mergeCandidates(retrieval, []string{"泵类", "离心泵"})
	assert.Len(t, merged, 1)
}

func TestPickFallbackPrefersBestRetrieval(t *testing.T) {
	retrieval := []model.Candidate{
		retrievalCand("a", 0.5),
		retrievalCand("b", 0.9),
		retrievalCand("c", 0.7),
	}
	assert.Equal(t, "b", pickFallback(retrieval, retrieval).PathString())

	hierOnly := []model.Candidate{{Path: []string{"阀门"}, Source: model.SourceHierarchical}}
	assert.Equal(t, "阀门", pickFallback(hierOnly, nil).PathString())
}

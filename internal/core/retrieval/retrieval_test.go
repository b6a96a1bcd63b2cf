package retrieval

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wsb360/aiclassify/internal/config"
	"github.com/wsb360/aiclassify/internal/core/model"
)

type MockIndex struct {
	Entries []model.ReferenceEntry
	Err     error
	Queries []string
	LastK   int
}

func (m *MockIndex) Query(ctx context.Context, text string, k int) ([]model.ReferenceEntry, error) {
	m.Queries = append(m.Queries, text)
	m.LastK = k
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Entries, nil
}

func testConfig() config.ClassifyConfig {
	return config.ClassifyConfig{
		TopK:            100,
		SimilarityFloor: 0.5,
		Quantile:        0.9,
		MinAdvance:      2,
	}
}

func entry(name string, distance float64, big, middle, small string) model.ReferenceEntry {
	return model.ReferenceEntry{
		MaterialName: name,
		Distance:     distance,
		BigClass:     big,
		MiddleClass:  middle,
		SmallClass:   small,
	}
}

func TestRetrieveConvertsAndFilters(t *testing.T) {
	idx := &MockIndex{Entries: []model.ReferenceEntry{
		entry("m1", 0.1, "泵类", "离心泵", "单级离心泵"),  // s = 0.95
		entry("m2", 0.2, "泵类", "离心泵", "多级离心泵"),  // s = 0.90
		entry("m3", 1.2, "阀门", "闸阀", ""),          // s = 0.40, below floor
	}}
	r := New(idx, testConfig())

	got, err := r.Retrieve(context.Background(), "给水泵")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "泵类/离心泵/单级离心泵", got[0].PathString())
	assert.InDelta(t, 0.95, *got[0].Score, 1e-9)
	assert.InDelta(t, 0.90, *got[1].Score, 1e-9)
	assert.Equal(t, 100, idx.LastK)
	assert.Equal(t, []string{"给水泵"}, idx.Queries)
}

func TestRetrieveDropsEmptyPaths(t *testing.T) {
	idx := &MockIndex{Entries: []model.ReferenceEntry{
		entry("m1", 0.1, "", "", ""),
		entry("m2", 0.1, "泵类", "", ""),
	}}
	r := New(idx, testConfig())

	got, err := r.Retrieve(context.Background(), "x")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "泵类", got[0].PathString())
}

func TestRetrievePartialPathSkipsMissingLevels(t *testing.T) {
	idx := &MockIndex{Entries: []model.ReferenceEntry{
		entry("m1", 0.1, "泵类", "", "单级离心泵"),
	}}
	r := New(idx, testConfig())

	got, err := r.Retrieve(context.Background(), "x")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"泵类", "单级离心泵"}, got[0].Path)
}

func TestRetrieveIndexErrorPropagates(t *testing.T) {
	base := errors.New("bolt connection refused")
	r := New(&MockIndex{Err: base}, testConfig())

	got, err := r.Retrieve(context.Background(), "x")
	require.Error(t, err)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, base)
	assert.Contains(t, err.Error(), "retrieval failed")
}

func TestRetrieveEmptyResultIsNotAnError(t *testing.T) {
	r := New(&MockIndex{}, testConfig())

	got, err := r.Retrieve(context.Background(), "x")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRetrieveAllBelowFloor(t *testing.T) {
	idx := &MockIndex{Entries: []model.ReferenceEntry{
		entry("m1", 1.5, "泵类", "离心泵", ""),
		entry("m2", 1.9, "阀门", "", ""),
	}}
	r := New(idx, testConfig())

	got, err := r.Retrieve(context.Background(), "x")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRetrieveMarksSource(t *testing.T) {
	idx := &MockIndex{Entries: []model.ReferenceEntry{
		entry("m1", 0.1, "泵类", "离心泵", ""),
	}}
	r := New(idx, testConfig())

	got, err := r.Retrieve(context.Background(), "x")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, model.SourceRetrieval, got[0].Source)
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, Similarity(0))
	assert.Equal(t, 0.5, Similarity(1))
	assert.Equal(t, 0.0, Similarity(2))
	// Out-of-range distances clamp instead of producing invalid scores.
	assert.Equal(t, 0.0, Similarity(2.5))
	assert.Equal(t, 1.0, Similarity(-0.1))
}

package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wsb360/aiclassify/internal/core/model"
)

func TestBuildThreeLevels(t *testing.T) {
	records := []model.CategoryRecord{
		{Code: "01", Name: "泵类", CodeLength: 2},
		{Code: "0101", Name: "离心泵", CodeLength: 4},
		{Code: "010101", Name: "单级离心泵", CodeLength: 6},
		{Code: "0102", Name: "往复泵", CodeLength: 4},
		{Code: "02", Name: "阀门", CodeLength: 2},
	}

	tree := Build(records)
	require.False(t, tree.Empty())
	assert.Equal(t, 5, tree.Size())

	roots := tree.Level1()
	require.Len(t, roots, 2)
	assert.Equal(t, "泵类", roots[0].Name)
	assert.Equal(t, "阀门", roots[1].Name)

	children := Children(roots[0])
	require.Len(t, children, 2)
	assert.Equal(t, "离心泵", children[0].Name)

	grandchildren := Children(children[0])
	require.Len(t, grandchildren, 1)
	assert.Equal(t, "单级离心泵", grandchildren[0].Name)
	assert.Equal(t, 3, grandchildren[0].Level)
}

func TestBuildDropsOrphans(t *testing.T) {
	records := []model.CategoryRecord{
		{Code: "01", Name: "泵类", CodeLength: 2},
		// level-2 orphan: no "02" root
		{Code: "0201", Name: "闸阀", CodeLength: 4},
		// level-3 orphan: root exists but "0103" does not
		{Code: "010301", Name: "孤儿", CodeLength: 6},
	}

	tree := Build(records)
	assert.Equal(t, 1, tree.Size())

	roots := tree.Level1()
	require.Len(t, roots, 1)
	assert.Empty(t, Children(roots[0]))
}

func TestBuildEveryAcceptedNodeHasAncestorChain(t *testing.T) {
	records := []model.CategoryRecord{
		{Code: "01", Name: "a", CodeLength: 2},
		{Code: "0101", Name: "b", CodeLength: 4},
		{Code: "010101", Name: "c", CodeLength: 6},
		{Code: "020101", Name: "orphan3", CodeLength: 6},
		{Code: "0301", Name: "orphan2", CodeLength: 4},
	}

	tree := Build(records)

	for _, root := range tree.Level1() {
		assert.Equal(t, 1, root.Level)
		for _, child := range Children(root) {
			assert.Equal(t, root.Code, child.Code[:2])
			for _, leaf := range Children(child) {
				assert.Equal(t, root.Code, leaf.Code[:2])
				assert.Equal(t, child.Code, leaf.Code[:4])
			}
		}
	}
	assert.Equal(t, 3, tree.Size())
}

func TestBuildIgnoresUnknownLengths(t *testing.T) {
	records := []model.CategoryRecord{
		{Code: "01", Name: "泵类", CodeLength: 2},
		{Code: "010", Name: "bad", CodeLength: 3},
		{Code: "01010101", Name: "bad", CodeLength: 8},
	}

	tree := Build(records)
	assert.Equal(t, 1, tree.Size())
}

func TestBuildEmptyInput(t *testing.T) {
	assert.True(t, Build(nil).Empty())
	assert.True(t, Build([]model.CategoryRecord{}).Empty())
	assert.Equal(t, 0, Build(nil).Size())
}

func TestNilTreeIsEmpty(t *testing.T) {
	var tree *Tree
	assert.True(t, tree.Empty())
	assert.Equal(t, 0, tree.Size())
	assert.Nil(t, tree.Level1())
}

func TestLevel1SortedByCode(t *testing.T) {
	records := []model.CategoryRecord{
		{Code: "03", Name: "c", CodeLength: 2},
		{Code: "01", Name: "a", CodeLength: 2},
		{Code: "02", Name: "b", CodeLength: 2},
	}

	roots := Build(records).Level1()
	require.Len(t, roots, 3)
	assert.Equal(t, []string{"01", "02", "03"}, []string{roots[0].Code, roots[1].Code, roots[2].Code})
}

package taxonomy

import (
	"sort"

	"github.com/wsb360/aiclassify/internal/core/model"
)

// Tree is the built 3-level coded taxonomy. It is immutable after Build;
// a refresh constructs a new Tree and swaps it in wholesale.
type Tree struct {
	roots map[string]*model.CategoryNode
	size  int
}

// Build constructs the tree from records ordered by code. Level is implied
// by code length: 2 chars = level 1, 4 = level 2, 6 = level 3. A record
// whose ancestor codes are absent is dropped; taxonomy integrity is the
// source's responsibility, gaps here must not fail the whole load. Codes of
// any other length are ignored.
func Build(records []model.CategoryRecord) *Tree {
	t := &Tree{roots: make(map[string]*model.CategoryNode)}

	for _, rec := range records {
		switch rec.CodeLength {
		case 2:
			t.roots[rec.Code] = &model.CategoryNode{
				Code:     rec.Code,
				Name:     rec.Name,
				Level:    1,
				Children: make(map[string]*model.CategoryNode),
			}
			t.size++
		case 4:
			parent, ok := t.roots[rec.Code[:2]]
			if !ok {
				continue
			}
			parent.Children[rec.Code] = &model.CategoryNode{
				Code:     rec.Code,
				Name:     rec.Name,
				Level:    2,
				Children: make(map[string]*model.CategoryNode),
			}
			t.size++
		case 6:
			grandparent, ok := t.roots[rec.Code[:2]]
			if !ok {
				continue
			}
			parent, ok := grandparent.Children[rec.Code[:4]]
			if !ok {
				continue
			}
			parent.Children[rec.Code] = &model.CategoryNode{
				Code:     rec.Code,
				Name:     rec.Name,
				Level:    3,
				Children: make(map[string]*model.CategoryNode),
			}
			t.size++
		}
	}

	return t
}

// Empty reports whether the tree holds no categories at all. Downstream
// stages treat an empty tree as "no hierarchical classification possible".
func (t *Tree) Empty() bool {
	return t == nil || len(t.roots) == 0
}

// Size returns the number of accepted category nodes.
func (t *Tree) Size() int {
	if t == nil {
		return 0
	}
	return t.size
}

// Level1 returns the level-1 nodes sorted by code. Sorting keeps the
// matcher cascade's first-match tie-break reproducible.
func (t *Tree) Level1() []*model.CategoryNode {
	if t == nil {
		return nil
	}
	return sortedNodes(t.roots)
}

// Children returns a node's children sorted by code.
func Children(n *model.CategoryNode) []*model.CategoryNode {
	if n == nil {
		return nil
	}
	return sortedNodes(n.Children)
}

func sortedNodes(m map[string]*model.CategoryNode) []*model.CategoryNode {
	nodes := make([]*model.CategoryNode, 0, len(m))
	for _, n := range m {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].Code < nodes[j].Code
	})
	return nodes
}

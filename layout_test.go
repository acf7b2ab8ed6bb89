package vlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileLayoutFlattensEveryNamedNode(t *testing.T) {
	root := LayoutNode{
		Name: "root",
		Children: []LayoutNode{
			{Name: "header"},
			{Name: "viewport", Children: []LayoutNode{
				{Name: "scrollbar"},
			}},
			{Name: "footer"},
		},
	}

	flat, err := CompileLayout(root)
	require.NoError(t, err)

	assert.Contains(t, flat, "root")
	assert.Contains(t, flat, "header")
	assert.Contains(t, flat, "viewport")
	assert.Contains(t, flat, "scrollbar")
	assert.Contains(t, flat, "footer")
	assert.Len(t, flat, 5)
}

func TestCompileLayoutSkipsUnnamedNodes(t *testing.T) {
	root := LayoutNode{
		Children: []LayoutNode{
			{Name: "viewport"},
		},
	}

	flat, err := CompileLayout(root)
	require.NoError(t, err)
	assert.Len(t, flat, 1)
	assert.Contains(t, flat, "viewport")
}

func TestCompileLayoutMissingViewportReturnsError(t *testing.T) {
	root := LayoutNode{
		Name: "root",
		Children: []LayoutNode{
			{Name: "header"},
		},
	}

	_, err := CompileLayout(root)
	assert.ErrorIs(t, err, ErrViewportMissingInLayout)
}

func TestCompileLayoutLastDuplicateNameWins(t *testing.T) {
	root := LayoutNode{
		Name: "viewport",
		Attrs: map[string]any{"id": "outer"},
		Children: []LayoutNode{
			{Name: "viewport", Attrs: map[string]any{"id": "inner"}},
		},
	}

	flat, err := CompileLayout(root)
	require.NoError(t, err)
	assert.Equal(t, "inner", flat["viewport"].Attrs["id"])
}

func TestFindNodeLocatesNestedNode(t *testing.T) {
	root := LayoutNode{
		Name: "root",
		Children: []LayoutNode{
			{Name: "header"},
			{Name: "viewport", Children: []LayoutNode{
				{Name: "scrollbar"},
			}},
		},
	}

	node, ok := FindNode(root, "scrollbar")
	require.True(t, ok)
	assert.Equal(t, "scrollbar", node.Name)
}

func TestFindNodeReturnsFalseWhenAbsent(t *testing.T) {
	root := LayoutNode{Name: "root"}

	_, ok := FindNode(root, "missing")
	assert.False(t, ok)
}

func TestFindNodeMatchesRootItself(t *testing.T) {
	root := LayoutNode{Name: "viewport"}

	node, ok := FindNode(root, "viewport")
	require.True(t, ok)
	assert.Equal(t, "viewport", node.Name)
}

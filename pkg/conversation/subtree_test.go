package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildFork creates root -> (a -> a1, b) and returns the nodes.
func buildFork(t *testing.T) (*Tree, *Node, *Node, *Node, *Node) {
	t.Helper()
	tree := NewTree()
	root, err := tree.CreateNode(NullNode, "root", "r", "m1")
	require.NoError(t, err)
	a, err := tree.CreateNode(root.ID, "a", "ra", "m1")
	require.NoError(t, err)
	a1, err := tree.CreateNode(a.ID, "a1", "ra1", "m1")
	require.NoError(t, err)
	b, err := tree.CreateNode(root.ID, "b", "rb", "m1")
	require.NoError(t, err)
	return tree, root, a, a1, b
}

func TestExtractSubtreeIncludesNodeAndDescendants(t *testing.T) {
	tree, _, a, a1, b := buildFork(t)

	extracted := tree.ExtractSubtree(a.ID)
	require.Len(t, extracted, 2)
	assert.Contains(t, extracted, a.ID)
	assert.Contains(t, extracted, a1.ID)
	assert.NotContains(t, extracted, b.ID)
}

func TestExtractSubtreeIsValueIndependent(t *testing.T) {
	tree, _, a, a1, _ := buildFork(t)

	extracted := tree.ExtractSubtree(a.ID)

	a.UserInput = "mutated"
	a1.Children = append(a1.Children, NewNodeID())

	assert.Equal(t, "a", extracted[a.ID].UserInput)
	assert.Empty(t, extracted[a1.ID].Children)

	// and the other direction
	extracted[a.ID].AIResponse = "copy mutated"
	assert.Equal(t, "ra", a.AIResponse)
}

func TestExtractSubtreeUnknownNodeIsEmpty(t *testing.T) {
	tree := NewTree()
	assert.Empty(t, tree.ExtractSubtree(NewNodeID()))
}

func TestExtractSubtreeSurvivesCycle(t *testing.T) {
	tree, root, _, a1, _ := buildFork(t)

	// corrupt the tree with a child link back up to the root
	a1.Children = append(a1.Children, root.ID)

	extracted := tree.ExtractSubtree(root.ID)
	assert.Len(t, extracted, len(tree.Nodes))
}

func TestCascadeDeletePreserveRoot(t *testing.T) {
	tree, _, a, a1, b := buildFork(t)

	tree.CascadeDelete(a.ID, true)

	kept, err := tree.GetNode(a.ID)
	require.NoError(t, err)
	assert.Empty(t, kept.Children)
	_, err = tree.GetNode(a1.ID)
	require.ErrorIs(t, err, ErrNoSuchNode)
	_, err = tree.GetNode(b.ID)
	require.NoError(t, err)
	require.NoError(t, tree.Validate())
}

func TestCascadeDeleteRemovesNodeAndParentLink(t *testing.T) {
	tree, root, a, a1, b := buildFork(t)

	tree.CascadeDelete(a.ID, false)

	_, err := tree.GetNode(a.ID)
	require.ErrorIs(t, err, ErrNoSuchNode)
	_, err = tree.GetNode(a1.ID)
	require.ErrorIs(t, err, ErrNoSuchNode)

	assert.False(t, root.hasChild(a.ID))
	assert.True(t, root.hasChild(b.ID))
	require.NoError(t, tree.Validate())
}

func TestCascadeDeleteRootClearsRootID(t *testing.T) {
	tree, root, _, _, _ := buildFork(t)

	tree.CascadeDelete(root.ID, false)

	assert.Empty(t, tree.Nodes)
	assert.True(t, tree.RootID.IsNull())
	require.NoError(t, tree.Validate())
}

func TestCascadeDeleteUnknownNodeIsNoop(t *testing.T) {
	tree, _, _, _, _ := buildFork(t)
	size := len(tree.Nodes)

	tree.CascadeDelete(NewNodeID(), false)
	assert.Len(t, tree.Nodes, size)
}

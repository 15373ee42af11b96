package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRootNode(t *testing.T) {
	tree := NewTree()

	node, err := tree.CreateNode(NullNode, "hi", "hello", "m1")
	require.NoError(t, err)

	assert.Equal(t, node.ID, tree.RootID)
	assert.True(t, node.ParentID.IsNull())
	assert.Equal(t, "hi", node.UserInput)
	assert.Equal(t, "hello", node.AIResponse)
	assert.Equal(t, "m1", node.ModelUsed)
	assert.Empty(t, node.Children)
	require.NoError(t, tree.Validate())
}

func TestCreateSecondRootRejected(t *testing.T) {
	tree := NewTree()
	_, err := tree.CreateNode(NullNode, "first", "a", "m1")
	require.NoError(t, err)

	_, err = tree.CreateNode(NullNode, "second", "b", "m1")
	require.ErrorIs(t, err, ErrInvalidState)
	assert.Len(t, tree.Nodes, 1)
}

func TestCreateNodeUnknownParent(t *testing.T) {
	tree := NewTree()
	_, err := tree.CreateNode(NewNodeID(), "hi", "hello", "m1")
	require.ErrorIs(t, err, ErrNoSuchNode)
	assert.Empty(t, tree.Nodes)
}

func TestCreateChildLinksParentExactlyOnce(t *testing.T) {
	tree := NewTree()
	root, err := tree.CreateNode(NullNode, "root", "r", "m1")
	require.NoError(t, err)

	child, err := tree.CreateNode(root.ID, "child", "c", "m1")
	require.NoError(t, err)

	count := 0
	for _, id := range root.Children {
		if id == child.ID {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.Equal(t, root.ID, child.ParentID)
	require.NoError(t, tree.Validate())
}

func TestGetNodeNotFound(t *testing.T) {
	tree := NewTree()
	_, err := tree.GetNode(NewNodeID())
	require.ErrorIs(t, err, ErrNoSuchNode)
}

func TestUpdateContentOverwritesOnlyProvidedFields(t *testing.T) {
	tree := NewTree()
	node, err := tree.CreateNode(NullNode, "original question", "original answer", "m1")
	require.NoError(t, err)

	before := node.LastUpdate
	newAnswer := "edited answer"
	fields, err := tree.UpdateContent(node.ID, nil, &newAnswer)
	require.NoError(t, err)

	assert.Equal(t, []string{"aiResponse"}, fields)
	assert.Equal(t, "original question", node.UserInput)
	assert.Equal(t, "edited answer", node.AIResponse)
	assert.False(t, node.LastUpdate.Before(before))
}

func TestUpdateContentUnknownNode(t *testing.T) {
	tree := NewTree()
	input := "x"
	_, err := tree.UpdateContent(NewNodeID(), &input, nil)
	require.ErrorIs(t, err, ErrNoSuchNode)
}

func TestValidateRejectsMissingParent(t *testing.T) {
	tree := NewTree()
	root, err := tree.CreateNode(NullNode, "root", "r", "m1")
	require.NoError(t, err)
	child, err := tree.CreateNode(root.ID, "child", "c", "m1")
	require.NoError(t, err)

	child.ParentID = NewNodeID()
	require.ErrorIs(t, tree.Validate(), ErrInvalidState)
}

func TestValidateRejectsDuplicateChildLink(t *testing.T) {
	tree := NewTree()
	root, err := tree.CreateNode(NullNode, "root", "r", "m1")
	require.NoError(t, err)
	child, err := tree.CreateNode(root.ID, "child", "c", "m1")
	require.NoError(t, err)

	root.Children = append(root.Children, child.ID)
	require.ErrorIs(t, tree.Validate(), ErrInvalidState)
}

func TestValidateRejectsUnreachableNode(t *testing.T) {
	tree := NewTree()
	root, err := tree.CreateNode(NullNode, "root", "r", "m1")
	require.NoError(t, err)
	child, err := tree.CreateNode(root.ID, "child", "c", "m1")
	require.NoError(t, err)

	// sever the child link but keep the node record
	root.Children = []NodeID{}
	_ = child
	require.ErrorIs(t, tree.Validate(), ErrInvalidState)
}

func TestValidateRejectsCycle(t *testing.T) {
	tree := NewTree()
	root, err := tree.CreateNode(NullNode, "root", "r", "m1")
	require.NoError(t, err)
	child, err := tree.CreateNode(root.ID, "child", "c", "m1")
	require.NoError(t, err)

	child.Children = append(child.Children, root.ID)
	require.ErrorIs(t, tree.Validate(), ErrInvalidState)
}

func TestValidateAcceptsEmptyTree(t *testing.T) {
	require.NoError(t, NewTree().Validate())
}

func TestCloneIsValueIndependent(t *testing.T) {
	tree := NewTree()
	root, err := tree.CreateNode(NullNode, "root", "r", "m1")
	require.NoError(t, err)

	copied := tree.Clone()
	root.UserInput = "mutated"
	root.Children = append(root.Children, NewNodeID())

	copiedRoot, err := copied.GetNode(root.ID)
	require.NoError(t, err)
	assert.Equal(t, "root", copiedRoot.UserInput)
	assert.Empty(t, copiedRoot.Children)
}

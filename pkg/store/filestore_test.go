package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-go-golems/arbor/pkg/conversation"
)

func TestLoadMissingFilesYieldsEmptyState(t *testing.T) {
	s := NewFileStore(t.TempDir())

	tree, ghosts, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, tree.Nodes)
	assert.True(t, tree.RootID.IsNull())
	assert.Empty(t, ghosts.Ghosts)
}

func TestSaveLoadRoundtrip(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir)

	tree := conversation.NewTree()
	root, err := tree.CreateNode(conversation.NullNode, "q1", "a1", "gemma3:4b")
	require.NoError(t, err)
	child, err := tree.CreateNode(root.ID, "q2", "a2", "gemma3:4b")
	require.NoError(t, err)

	ghosts := conversation.NewGhostStore()
	branch, err := ghosts.Snapshot(tree, root.ID, "before edit")
	require.NoError(t, err)

	require.NoError(t, s.Save(tree, ghosts))

	loadedTree, loadedGhosts, err := s.Load()
	require.NoError(t, err)
	require.NoError(t, loadedTree.Validate())

	assert.Equal(t, root.ID, loadedTree.RootID)
	loadedChild, err := loadedTree.GetNode(child.ID)
	require.NoError(t, err)
	assert.Equal(t, "q2", loadedChild.UserInput)
	assert.Equal(t, "a2", loadedChild.AIResponse)
	assert.Equal(t, "gemma3:4b", loadedChild.ModelUsed)

	loadedBranch, err := loadedGhosts.Get(branch.ID)
	require.NoError(t, err)
	assert.Equal(t, root.ID, loadedBranch.OriginalNodeID)
	assert.Equal(t, 1, loadedBranch.NodeCount)
	assert.Contains(t, loadedBranch.Nodes, child.ID)
}

func TestSaveCreatesStateDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "state")
	s := NewFileStore(dir)

	require.NoError(t, s.Save(conversation.NewTree(), conversation.NewGhostStore()))

	_, err := os.Stat(filepath.Join(dir, "tree.json"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "ghosts.json"))
	require.NoError(t, err)
}

func TestSaveOverwritesPreviousState(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir)

	tree := conversation.NewTree()
	_, err := tree.CreateNode(conversation.NullNode, "q1", "a1", "m")
	require.NoError(t, err)
	require.NoError(t, s.Save(tree, conversation.NewGhostStore()))

	require.NoError(t, s.Save(conversation.NewTree(), conversation.NewGhostStore()))

	loadedTree, _, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, loadedTree.Nodes)
}

func TestLoadCorruptDocumentFails(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tree.json"), []byte("{not json"), 0644))

	_, _, err := NewFileStore(dir).Load()
	require.Error(t, err)
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir)
	require.NoError(t, s.Save(conversation.NewTree(), conversation.NewGhostStore()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

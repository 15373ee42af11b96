package conversation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotCapturesDescendantsNotAnchor(t *testing.T) {
	tree, _, a, a1, _ := buildFork(t)
	ghosts := NewGhostStore()

	branch, err := ghosts.Snapshot(tree, a.ID, "edited in place")
	require.NoError(t, err)

	assert.Equal(t, a.ID, branch.OriginalNodeID)
	assert.Equal(t, []NodeID{a1.ID}, branch.RootChildren)
	assert.NotContains(t, branch.Nodes, a.ID)
	assert.Contains(t, branch.Nodes, a1.ID)
	assert.Equal(t, 1, branch.NodeCount)
	assert.Equal(t, "a1", branch.RootContent)
	assert.Equal(t, "edited in place", branch.Reason)
}

func TestSnapshotUnknownAnchor(t *testing.T) {
	tree := NewTree()
	ghosts := NewGhostStore()

	_, err := ghosts.Snapshot(tree, NewNodeID(), "noop")
	require.ErrorIs(t, err, ErrNoSuchNode)
	assert.Empty(t, ghosts.Ghosts)
}

func TestSnapshotIsFrozenCopy(t *testing.T) {
	tree, _, a, a1, _ := buildFork(t)
	ghosts := NewGhostStore()

	branch, err := ghosts.Snapshot(tree, a.ID, "")
	require.NoError(t, err)

	a1.UserInput = "mutated after snapshot"
	assert.Equal(t, "a1", branch.Nodes[a1.ID].UserInput)
}

func TestSnapshotLeafAnchorIsEmpty(t *testing.T) {
	tree, _, _, a1, _ := buildFork(t)
	ghosts := NewGhostStore()

	branch, err := ghosts.Snapshot(tree, a1.ID, "")
	require.NoError(t, err)
	assert.Empty(t, branch.Nodes)
	assert.Empty(t, branch.RootChildren)
	assert.Zero(t, branch.NodeCount)
	assert.Empty(t, branch.RootContent)
}

func TestGhostStoreGetAndDelete(t *testing.T) {
	tree, _, a, _, _ := buildFork(t)
	ghosts := NewGhostStore()

	branch, err := ghosts.Snapshot(tree, a.ID, "")
	require.NoError(t, err)

	got, err := ghosts.Get(branch.ID)
	require.NoError(t, err)
	assert.Equal(t, branch.ID, got.ID)

	require.NoError(t, ghosts.Delete(branch.ID))
	_, err = ghosts.Get(branch.ID)
	require.ErrorIs(t, err, ErrNoSuchGhost)
	require.ErrorIs(t, ghosts.Delete(branch.ID), ErrNoSuchGhost)
}

func TestGhostStoreListOldestFirst(t *testing.T) {
	tree, root, a, _, _ := buildFork(t)
	ghosts := NewGhostStore()

	first, err := ghosts.Snapshot(tree, a.ID, "first")
	require.NoError(t, err)
	second, err := ghosts.Snapshot(tree, root.ID, "second")
	require.NoError(t, err)

	// timestamps can tie at clock resolution; force an order
	first.Time = second.Time.Add(-time.Second)

	summaries := ghosts.List()
	require.Len(t, summaries, 2)
	assert.Equal(t, first.ID, summaries[0].ID)
	assert.Equal(t, second.ID, summaries[1].ID)
	assert.Equal(t, "first", summaries[0].Reason)
}

func TestRestoreReattachesBranch(t *testing.T) {
	tree, _, a, a1, _ := buildFork(t)
	ghosts := NewGhostStore()

	branch, err := ghosts.Snapshot(tree, a.ID, "")
	require.NoError(t, err)
	tree.CascadeDelete(a.ID, true)
	_, err = tree.GetNode(a1.ID)
	require.ErrorIs(t, err, ErrNoSuchNode)

	require.NoError(t, ghosts.Restore(tree, branch.ID))

	restored, err := tree.GetNode(a1.ID)
	require.NoError(t, err)
	assert.Equal(t, "a1", restored.UserInput)
	assert.True(t, a.hasChild(a1.ID))
	require.NoError(t, tree.Validate())

	_, err = ghosts.Get(branch.ID)
	require.ErrorIs(t, err, ErrNoSuchGhost)
}

func TestRestoreKeepsNewerSiblings(t *testing.T) {
	tree, _, a, a1, _ := buildFork(t)
	ghosts := NewGhostStore()

	branch, err := ghosts.Snapshot(tree, a.ID, "")
	require.NoError(t, err)
	tree.CascadeDelete(a.ID, true)

	newer, err := tree.CreateNode(a.ID, "after edit", "r", "m1")
	require.NoError(t, err)

	require.NoError(t, ghosts.Restore(tree, branch.ID))

	assert.True(t, a.hasChild(newer.ID))
	assert.True(t, a.hasChild(a1.ID))
	require.NoError(t, tree.Validate())
}

func TestRestoreMissingAnchorRejected(t *testing.T) {
	tree, _, a, _, _ := buildFork(t)
	ghosts := NewGhostStore()

	branch, err := ghosts.Snapshot(tree, a.ID, "")
	require.NoError(t, err)
	tree.CascadeDelete(a.ID, false)

	err = ghosts.Restore(tree, branch.ID)
	require.ErrorIs(t, err, ErrInvalidState)

	// the branch survives a rejected restore
	_, err = ghosts.Get(branch.ID)
	require.NoError(t, err)
}

func TestRestoreIDCollisionRejectsWholeRestore(t *testing.T) {
	tree, _, a, a1, _ := buildFork(t)
	ghosts := NewGhostStore()

	branch, err := ghosts.Snapshot(tree, a.ID, "")
	require.NoError(t, err)

	// a1 is still live, so the snapshot's ids collide
	err = ghosts.Restore(tree, branch.ID)
	require.ErrorIs(t, err, ErrInvalidState)

	_, err = tree.GetNode(a1.ID)
	require.NoError(t, err)
	_, err = ghosts.Get(branch.ID)
	require.NoError(t, err)
}

func TestRestoreUnknownGhost(t *testing.T) {
	tree, _, _, _, _ := buildFork(t)
	ghosts := NewGhostStore()

	err := ghosts.Restore(tree, GhostID(NewNodeID()))
	require.ErrorIs(t, err, ErrNoSuchGhost)
}

func TestGhostStoreCloneIsIndependent(t *testing.T) {
	tree, _, a, a1, _ := buildFork(t)
	ghosts := NewGhostStore()

	branch, err := ghosts.Snapshot(tree, a.ID, "")
	require.NoError(t, err)

	copied := ghosts.Clone()
	copied.Ghosts[branch.ID].Nodes[a1.ID].UserInput = "mutated copy"

	assert.Equal(t, "a1", branch.Nodes[a1.ID].UserInput)
}

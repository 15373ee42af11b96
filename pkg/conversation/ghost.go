package conversation

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/huandu/go-clone"
	"github.com/pkg/errors"
)

// GhostBranch is a frozen, detached snapshot of a node's descendant set,
// taken before a destructive edit so the branch can be restored later. The
// anchor node itself is not part of Nodes; its identity and its direct
// children at snapshot time are recorded on the branch record.
type GhostBranch struct {
	ID             GhostID          `json:"id"`
	OriginalNodeID NodeID           `json:"originalNodeID"`
	RootChildren   []NodeID         `json:"rootChildren"`
	Time           time.Time        `json:"time"`
	Reason         string           `json:"reason"`
	Nodes          map[NodeID]*Node `json:"nodes"`
	NodeCount      int              `json:"nodeCount"`
	RootContent    string           `json:"rootContent"`
}

// GhostSummary is the denormalized listing view of a ghost branch.
type GhostSummary struct {
	ID             GhostID   `json:"id"`
	OriginalNodeID NodeID    `json:"originalNodeID"`
	Time           time.Time `json:"time"`
	Reason         string    `json:"reason"`
	NodeCount      int       `json:"nodeCount"`
	RootContent    string    `json:"rootContent"`
}

func (gb *GhostBranch) Summary() GhostSummary {
	return GhostSummary{
		ID:             gb.ID,
		OriginalNodeID: gb.OriginalNodeID,
		Time:           gb.Time,
		Reason:         gb.Reason,
		NodeCount:      gb.NodeCount,
		RootContent:    gb.RootContent,
	}
}

// GhostStore owns ghost branches, with a lifecycle independent of the live
// tree. A branch is created by Snapshot, never mutated, and destroyed either
// by Delete or by a successful Restore.
type GhostStore struct {
	Ghosts map[GhostID]*GhostBranch `json:"ghosts"`
}

func NewGhostStore() *GhostStore {
	return &GhostStore{
		Ghosts: make(map[GhostID]*GhostBranch),
	}
}

// newGhostID rolls a fresh id that collides neither with an existing ghost
// nor, to rule out cross-namespace confusion, with any live node id.
func (gs *GhostStore) newGhostID(t *Tree) GhostID {
	for {
		id := GhostID(uuid.New())
		if _, exists := gs.Ghosts[id]; exists {
			continue
		}
		if _, exists := t.Nodes[NodeID(id)]; exists {
			continue
		}
		return id
	}
}

// Snapshot captures the descendants of anchorID as a new ghost branch. The
// anchor must exist; its direct-child subtrees are extracted as fully
// independent copies and unioned into the branch's node set.
func (gs *GhostStore) Snapshot(t *Tree, anchorID NodeID, reason string) (*GhostBranch, error) {
	anchor, exists := t.Nodes[anchorID]
	if !exists {
		return nil, errors.Wrapf(ErrNoSuchNode, "snapshot anchor %s", anchorID)
	}

	nodes := make(map[NodeID]*Node)
	for _, childID := range anchor.Children {
		for id, node := range t.ExtractSubtree(childID) {
			nodes[id] = node
		}
	}

	rootContent := ""
	if len(anchor.Children) > 0 {
		if first, ok := nodes[anchor.Children[0]]; ok {
			rootContent = first.UserInput
		}
	}

	branch := &GhostBranch{
		ID:             gs.newGhostID(t),
		OriginalNodeID: anchorID,
		RootChildren:   append([]NodeID{}, anchor.Children...),
		Time:           time.Now(),
		Reason:         reason,
		Nodes:          nodes,
		NodeCount:      len(nodes),
		RootContent:    rootContent,
	}
	gs.Ghosts[branch.ID] = branch

	return branch, nil
}

func (gs *GhostStore) Get(id GhostID) (*GhostBranch, error) {
	branch, exists := gs.Ghosts[id]
	if !exists {
		return nil, errors.Wrapf(ErrNoSuchGhost, "ghost %s", id)
	}
	return branch, nil
}

// Delete removes the branch permanently. No tombstone is kept.
func (gs *GhostStore) Delete(id GhostID) error {
	if _, exists := gs.Ghosts[id]; !exists {
		return errors.Wrapf(ErrNoSuchGhost, "ghost %s", id)
	}
	delete(gs.Ghosts, id)
	return nil
}

// List returns summaries of all branches, oldest first.
func (gs *GhostStore) List() []GhostSummary {
	summaries := make([]GhostSummary, 0, len(gs.Ghosts))
	for _, branch := range gs.Ghosts {
		summaries = append(summaries, branch.Summary())
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Time.Before(summaries[j].Time)
	})
	return summaries
}

// Restore migrates a ghost branch back into the live tree and removes the
// branch record. The restore is atomic from the caller's perspective: every
// precondition is checked before the first node is inserted.
//
// The anchor must still exist, and none of the snapshot's node ids may
// already be present in the tree; a collision rejects the whole restore,
// since skipping single ids could re-attach a parent without its child.
// Children the anchor acquired after the snapshot are kept: the snapshot's
// recorded direct children are appended alongside them.
func (gs *GhostStore) Restore(t *Tree, id GhostID) error {
	branch, exists := gs.Ghosts[id]
	if !exists {
		return errors.Wrapf(ErrNoSuchGhost, "ghost %s", id)
	}

	anchor, exists := t.Nodes[branch.OriginalNodeID]
	if !exists {
		return errors.Wrapf(ErrInvalidState, "restore anchor %s no longer exists", branch.OriginalNodeID)
	}

	for nodeID := range branch.Nodes {
		if _, taken := t.Nodes[nodeID]; taken {
			return errors.Wrapf(ErrInvalidState, "restore would collide on node %s", nodeID)
		}
	}

	for nodeID, node := range branch.Nodes {
		t.Nodes[nodeID] = clone.Clone(node).(*Node)
	}

	for _, childID := range branch.RootChildren {
		if !anchor.hasChild(childID) {
			anchor.Children = append(anchor.Children, childID)
		}
	}

	delete(gs.Ghosts, id)

	return nil
}

// Clone returns a fully independent deep copy of the store.
func (gs *GhostStore) Clone() *GhostStore {
	return clone.Clone(gs).(*GhostStore)
}

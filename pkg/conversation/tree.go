package conversation

import (
	"time"

	"github.com/huandu/go-clone"
	"github.com/pkg/errors"
)

// Tree owns the node records and the single rooted topology. Nodes is the
// sole ownership of Node records; parent/child links are kept consistent by
// the mutation methods so that for every node with ParentID p, p exists and
// lists the node in its Children exactly once.
type Tree struct {
	Nodes  map[NodeID]*Node `json:"nodes"`
	RootID NodeID           `json:"rootID"`
}

func NewTree() *Tree {
	return &Tree{
		Nodes: make(map[NodeID]*Node),
	}
}

// CreateNode materializes a new exchange under parentID and returns it. A
// null parentID creates the root; creating a second rootless node is
// rejected rather than silently replacing the root.
func (t *Tree) CreateNode(parentID NodeID, userInput string, aiResponse string, modelUsed string) (*Node, error) {
	if parentID.IsNull() {
		if !t.RootID.IsNull() {
			return nil, errors.Wrap(ErrInvalidState, "tree already has a root")
		}
	} else if _, exists := t.Nodes[parentID]; !exists {
		return nil, errors.Wrapf(ErrNoSuchNode, "parent %s", parentID)
	}

	node := NewNode(userInput, aiResponse,
		WithParentID(parentID),
		WithModelUsed(modelUsed),
	)
	t.Nodes[node.ID] = node

	if parentID.IsNull() {
		t.RootID = node.ID
	} else {
		t.Nodes[parentID].Children = append(t.Nodes[parentID].Children, node.ID)
	}

	return node, nil
}

func (t *Tree) GetNode(id NodeID) (*Node, error) {
	node, exists := t.Nodes[id]
	if !exists {
		return nil, errors.Wrapf(ErrNoSuchNode, "node %s", id)
	}
	return node, nil
}

// UpdateContent overwrites only the provided fields and bumps LastUpdate.
// Topology is untouched; detaching children is a separate operation composed
// by the manager. It returns the names of the fields that changed.
func (t *Tree) UpdateContent(id NodeID, userInput *string, aiResponse *string) ([]string, error) {
	node, exists := t.Nodes[id]
	if !exists {
		return nil, errors.Wrapf(ErrNoSuchNode, "node %s", id)
	}

	var fields []string
	if userInput != nil {
		node.UserInput = *userInput
		fields = append(fields, "userInput")
	}
	if aiResponse != nil {
		node.AIResponse = *aiResponse
		fields = append(fields, "aiResponse")
	}
	node.LastUpdate = time.Now()

	return fields, nil
}

// Clone returns a fully independent deep copy of the tree.
func (t *Tree) Clone() *Tree {
	return clone.Clone(t).(*Tree)
}

// Validate checks the structural invariants: at most one rootless node,
// RootID referencing it, parent/child link consistency, and every node
// reachable from the root without cycles. Persisted state is validated on
// load so a corrupted document never becomes live state.
func (t *Tree) Validate() error {
	if t.Nodes == nil {
		return errors.Wrap(ErrInvalidState, "nil node map")
	}

	rootCount := 0
	for id, node := range t.Nodes {
		if node == nil {
			return errors.Wrapf(ErrInvalidState, "nil node record %s", id)
		}
		if node.ID != id {
			return errors.Wrapf(ErrInvalidState, "node %s stored under key %s", node.ID, id)
		}
		if node.ParentID.IsNull() {
			rootCount++
			if t.RootID != id {
				return errors.Wrapf(ErrInvalidState, "rootless node %s is not the root", id)
			}
			continue
		}
		parent, exists := t.Nodes[node.ParentID]
		if !exists {
			return errors.Wrapf(ErrInvalidState, "node %s references missing parent %s", id, node.ParentID)
		}
		seen := 0
		for _, child := range parent.Children {
			if child == id {
				seen++
			}
		}
		if seen != 1 {
			return errors.Wrapf(ErrInvalidState, "parent %s lists child %s %d times", parent.ID, id, seen)
		}
	}

	if rootCount > 1 {
		return errors.Wrapf(ErrInvalidState, "%d rootless nodes", rootCount)
	}
	if t.RootID.IsNull() {
		if len(t.Nodes) != 0 {
			return errors.Wrapf(ErrInvalidState, "%d nodes but no root", len(t.Nodes))
		}
		return nil
	}
	if _, exists := t.Nodes[t.RootID]; !exists {
		return errors.Wrapf(ErrInvalidState, "root %s missing from node map", t.RootID)
	}

	reachable := map[NodeID]bool{}
	stack := []NodeID{t.RootID}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if reachable[id] {
			return errors.Wrapf(ErrInvalidState, "node %s reachable twice, cycle or duplicate child link", id)
		}
		reachable[id] = true
		node, exists := t.Nodes[id]
		if !exists {
			return errors.Wrapf(ErrInvalidState, "child link to missing node %s", id)
		}
		stack = append(stack, node.Children...)
	}
	if len(reachable) != len(t.Nodes) {
		return errors.Wrapf(ErrInvalidState, "%d of %d nodes reachable from root", len(reachable), len(t.Nodes))
	}

	return nil
}

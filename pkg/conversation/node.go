package conversation

import (
	"time"

	"github.com/huandu/go-clone"
)

// EditRecord captures a single in-place edit of a node. Records are
// append-only; GhostID is NullGhost when the edit did not preserve the
// node's descendants.
type EditRecord struct {
	Time    time.Time `json:"time"`
	Fields  []string  `json:"fields"`
	GhostID GhostID   `json:"ghostID,omitempty"`
}

// Node represents a single user/assistant exchange and its position in the
// conversation tree. Children holds node identifiers in insertion order;
// sibling order carries no meaning beyond that.
type Node struct {
	ID         NodeID    `json:"id"`
	ParentID   NodeID    `json:"parentID"`
	UserInput  string    `json:"userInput"`
	AIResponse string    `json:"aiResponse"`
	ModelUsed  string    `json:"modelUsed"`
	Time       time.Time `json:"time"`
	LastUpdate time.Time `json:"lastUpdate"`

	Children    []NodeID     `json:"children"`
	EditHistory []EditRecord `json:"editHistory,omitempty"`
}

type NodeOption func(*Node)

func WithID(id NodeID) NodeOption {
	return func(n *Node) {
		n.ID = id
	}
}

func WithParentID(parentID NodeID) NodeOption {
	return func(n *Node) {
		n.ParentID = parentID
	}
}

func WithTime(t time.Time) NodeOption {
	return func(n *Node) {
		n.Time = t
		n.LastUpdate = t
	}
}

func WithModelUsed(model string) NodeOption {
	return func(n *Node) {
		n.ModelUsed = model
	}
}

func NewNode(userInput string, aiResponse string, options ...NodeOption) *Node {
	now := time.Now()
	ret := &Node{
		ID:         NewNodeID(),
		UserInput:  userInput,
		AIResponse: aiResponse,
		Time:       now,
		LastUpdate: now,
		Children:   []NodeID{},
	}

	for _, option := range options {
		option(ret)
	}

	return ret
}

func cloneNode(n *Node) *Node {
	return clone.Clone(n).(*Node)
}

func cloneGhost(gb *GhostBranch) *GhostBranch {
	return clone.Clone(gb).(*GhostBranch)
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

func (n *Node) hasChild(id NodeID) bool {
	for _, child := range n.Children {
		if child == id {
			return true
		}
	}
	return false
}

func (n *Node) removeChild(id NodeID) {
	children := n.Children[:0]
	for _, child := range n.Children {
		if child != id {
			children = append(children, child)
		}
	}
	n.Children = children
}

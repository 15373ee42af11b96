package conversation

import (
	"github.com/huandu/go-clone"
)

// ExtractSubtree deep-copies id and every node transitively reachable
// through child links. The copies share no ownership with the live tree:
// mutating one side never affects the other. The traversal keeps an explicit
// visited set so corrupted persisted input with a cycle cannot loop it.
func (t *Tree) ExtractSubtree(id NodeID) map[NodeID]*Node {
	extracted := make(map[NodeID]*Node)

	stack := []NodeID{id}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, done := extracted[current]; done {
			continue
		}
		node, exists := t.Nodes[current]
		if !exists {
			continue
		}
		extracted[current] = clone.Clone(node).(*Node)
		stack = append(stack, node.Children...)
	}

	return extracted
}

// CascadeDelete removes every descendant of id from the tree. With
// preserveRoot the node itself survives with an empty child list; without
// it the node is removed as well and unlinked from its parent. The
// postcondition is that no remaining node references a deleted identifier.
func (t *Tree) CascadeDelete(id NodeID, preserveRoot bool) {
	root, exists := t.Nodes[id]
	if !exists {
		return
	}

	visited := map[NodeID]bool{id: true}
	stack := append([]NodeID{}, root.Children...)
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[current] {
			continue
		}
		visited[current] = true
		node, ok := t.Nodes[current]
		if !ok {
			continue
		}
		stack = append(stack, node.Children...)
		delete(t.Nodes, current)
	}

	if preserveRoot {
		root.Children = []NodeID{}
		return
	}

	delete(t.Nodes, id)
	if parent, ok := t.Nodes[root.ParentID]; ok {
		parent.removeChild(id)
	}
	if t.RootID == id {
		t.RootID = NullNode
	}
}

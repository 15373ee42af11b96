package conversation

// MaxContextExchanges bounds how much history is handed to the prompt
// builder: only the ten exchanges nearest to the requested node are kept.
const MaxContextExchanges = 10

// Exchange is one user/assistant pair of a resolved conversation path.
type Exchange struct {
	UserInput  string `json:"userInput"`
	AIResponse string `json:"aiResponse"`
}

// ConversationContext walks the parent links from id to the root and returns
// the path in root-first order, truncated to the last MaxContextExchanges
// entries. An unknown or null id yields an empty context rather than an
// error: a client branching from nowhere legitimately starts fresh.
func (t *Tree) ConversationContext(id NodeID) []Exchange {
	var path []*Node
	visited := map[NodeID]bool{}
	current := id
	for !current.IsNull() && !visited[current] {
		visited[current] = true
		node, exists := t.Nodes[current]
		if !exists {
			break
		}
		path = append([]*Node{node}, path...)
		current = node.ParentID
	}

	if len(path) > MaxContextExchanges {
		path = path[len(path)-MaxContextExchanges:]
	}

	exchanges := make([]Exchange, 0, len(path))
	for _, node := range path {
		exchanges = append(exchanges, Exchange{
			UserInput:  node.UserInput,
			AIResponse: node.AIResponse,
		})
	}

	return exchanges
}

// LeftMostThread returns the node ids from id downward, always following the
// first child, until a leaf is reached. Callers use it to find the natural
// continuation point of a branch.
func (t *Tree) LeftMostThread(id NodeID) []NodeID {
	var thread []NodeID
	visited := map[NodeID]bool{}
	for !id.IsNull() && !visited[id] {
		visited[id] = true
		node, exists := t.Nodes[id]
		if !exists {
			break
		}
		thread = append(thread, id)
		if len(node.Children) > 0 {
			id = node.Children[0]
		} else {
			id = NullNode
		}
	}
	return thread
}

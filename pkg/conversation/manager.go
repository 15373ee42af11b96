package conversation

// Package conversation implements a branching conversation tree for
// AI chat exchanges.
//
// Each exchange (user input plus model response) is a node; any node can be
// used as a branch point for a new exchange, and any node can be edited in
// place. Editing a node that has descendants either cascades the delete or
// preserves the descendants as a detachable ghost branch that can later be
// restored into the tree.
//
// The Manager interface is the single entry point for mutating operations.
// It serializes every load-mutate-persist cycle behind one lock, so the tree
// has exactly one logical owner at any instant, and it keeps the in-memory
// state untouched whenever persistence or generation fails.

import "context"

// Manager defines the interface for high-level conversation tree operations.
type Manager interface {
	// Chat resolves the conversation context for parentID, asks the
	// generation collaborator for a response, and materializes the new
	// exchange as a node under parentID.
	Chat(ctx context.Context, parentID NodeID, userInput string) (*Node, error)

	// AddExchange materializes an already-generated exchange without
	// calling the generation collaborator.
	AddExchange(parentID NodeID, userInput string, aiResponse string, modelUsed string) (*Node, error)

	GetTree() *Tree
	GetNode(id NodeID) (*Node, error)

	// EditNode updates the provided content fields in place. A node with
	// descendants loses them: permanently when preserve is false, into a
	// ghost branch when preserve is true. The returned GhostID is NullGhost
	// when no snapshot was taken.
	EditNode(id NodeID, userInput *string, aiResponse *string, preserve bool) (GhostID, error)

	ResetTree() error

	ListGhosts() []GhostSummary
	GetGhost(id GhostID) (*GhostBranch, error)
	RestoreGhost(id GhostID) error
	DeleteGhost(id GhostID) error
}

// Generator is the external text-generation collaborator. It may fail with
// connectivity or timeout errors; the manager never lets such a failure
// touch the node store.
type Generator interface {
	Generate(ctx context.Context, prompt string, model string) (string, error)
}

// PromptRenderer turns resolved history and the new user input into the
// prompt string handed to the Generator.
type PromptRenderer func(history []Exchange, userInput string) string

// StateStore is the persistence collaborator. Save must be atomic for the
// combined tree and ghost documents as observed by a subsequent Load.
type StateStore interface {
	Load() (*Tree, *GhostStore, error)
	Save(tree *Tree, ghosts *GhostStore) error
}

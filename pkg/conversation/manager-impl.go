package conversation

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/arbor/pkg/events"
)

type ManagerImpl struct {
	mu     sync.Mutex
	tree   *Tree
	ghosts *GhostStore

	store        StateStore
	generator    Generator
	renderPrompt PromptRenderer
	publisher    *events.PublisherManager
	defaultModel string
}

var _ Manager = (*ManagerImpl)(nil)

type ManagerOption func(*ManagerImpl)

func WithStore(store StateStore) ManagerOption {
	return func(m *ManagerImpl) {
		m.store = store
	}
}

func WithGenerator(generator Generator) ManagerOption {
	return func(m *ManagerImpl) {
		m.generator = generator
	}
}

func WithPromptRenderer(render PromptRenderer) ManagerOption {
	return func(m *ManagerImpl) {
		m.renderPrompt = render
	}
}

func WithPublisherManager(publisher *events.PublisherManager) ManagerOption {
	return func(m *ManagerImpl) {
		m.publisher = publisher
	}
}

func WithDefaultModel(model string) ManagerOption {
	return func(m *ManagerImpl) {
		m.defaultModel = model
	}
}

// NewManager builds a manager over a fresh tree, or over the persisted state
// when a store is configured. Persisted state is validated before it becomes
// live so a corrupted document is rejected at startup, not at first edit.
func NewManager(options ...ManagerOption) (*ManagerImpl, error) {
	ret := &ManagerImpl{
		tree:   NewTree(),
		ghosts: NewGhostStore(),
	}
	for _, option := range options {
		option(ret)
	}

	if ret.store != nil {
		tree, ghosts, err := ret.store.Load()
		if err != nil {
			return nil, errors.WithMessagef(ErrPersistence, "loading state: %v", err)
		}
		if err := tree.Validate(); err != nil {
			return nil, err
		}
		ret.tree = tree
		ret.ghosts = ghosts
	}

	return ret, nil
}

// commit persists the candidate state and, only on success, makes it the
// live state. A persistence failure therefore leaves memory exactly as it
// was before the operation.
func (m *ManagerImpl) commit(tree *Tree, ghosts *GhostStore) error {
	if m.store != nil {
		if err := m.store.Save(tree, ghosts); err != nil {
			return errors.WithMessagef(ErrPersistence, "saving state: %v", err)
		}
	}
	m.tree = tree
	m.ghosts = ghosts
	return nil
}

func (m *ManagerImpl) publish(event *events.TreeEvent) {
	if m.publisher != nil {
		m.publisher.PublishBlind(event)
	}
}

func defaultPrompt(history []Exchange, userInput string) string {
	var sb strings.Builder
	for _, exchange := range history {
		if exchange.UserInput != "" {
			sb.WriteString("Human: " + exchange.UserInput + "\n")
		}
		if exchange.AIResponse != "" {
			sb.WriteString("Assistant: " + exchange.AIResponse + "\n")
		}
	}
	sb.WriteString(userInput)
	return sb.String()
}

func (m *ManagerImpl) Chat(ctx context.Context, parentID NodeID, userInput string) (*Node, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.generator == nil {
		return nil, errors.Wrap(ErrGeneration, "no generator configured")
	}

	if !parentID.IsNull() {
		if _, err := m.tree.GetNode(parentID); err != nil {
			return nil, err
		}
	} else if !m.tree.RootID.IsNull() {
		return nil, errors.Wrap(ErrInvalidState, "tree already has a root, pass a parent to branch from")
	}

	render := m.renderPrompt
	if render == nil {
		render = defaultPrompt
	}
	history := m.tree.ConversationContext(parentID)
	prompt := render(history, userInput)

	log.Debug().
		Str("parent_id", parentID.String()).
		Int("history_exchanges", len(history)).
		Str("model", m.defaultModel).
		Msg("requesting generation")

	// Generation happens before any mutation: a failed or timed-out call
	// must not leave a partial node behind.
	response, err := m.generator.Generate(ctx, prompt, m.defaultModel)
	if err != nil {
		return nil, errors.WithMessagef(ErrGeneration, "generating response: %v", err)
	}

	tree := m.tree.Clone()
	node, err := tree.CreateNode(parentID, userInput, response, m.defaultModel)
	if err != nil {
		return nil, err
	}
	if err := m.commit(tree, m.ghosts); err != nil {
		return nil, err
	}

	log.Info().
		Str("node_id", node.ID.String()).
		Str("parent_id", parentID.String()).
		Msg("exchange added")
	m.publish(events.NewTreeEvent(events.EventTypeNodeAdded).
		WithNodeID(node.ID.String()).
		WithModel(node.ModelUsed))

	return cloneNode(node), nil
}

func (m *ManagerImpl) AddExchange(parentID NodeID, userInput string, aiResponse string, modelUsed string) (*Node, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tree := m.tree.Clone()
	node, err := tree.CreateNode(parentID, userInput, aiResponse, modelUsed)
	if err != nil {
		return nil, err
	}
	if err := m.commit(tree, m.ghosts); err != nil {
		return nil, err
	}

	m.publish(events.NewTreeEvent(events.EventTypeNodeAdded).
		WithNodeID(node.ID.String()).
		WithModel(modelUsed))

	return cloneNode(node), nil
}

// GetTree returns a deep copy so callers can never mutate the owned state.
func (m *ManagerImpl) GetTree() *Tree {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tree.Clone()
}

func (m *ManagerImpl) GetNode(id NodeID) (*Node, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	node, err := m.tree.GetNode(id)
	if err != nil {
		return nil, err
	}
	return cloneNode(node), nil
}

func (m *ManagerImpl) EditNode(id NodeID, userInput *string, aiResponse *string, preserve bool) (GhostID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.tree.GetNode(id); err != nil {
		return NullGhost, err
	}

	tree := m.tree.Clone()
	ghosts := m.ghosts.Clone()
	node, _ := tree.GetNode(id)

	ghostID := NullGhost
	switch {
	case node.IsLeaf():
		// content-only edit, nothing to detach
	case preserve:
		branch, err := ghosts.Snapshot(tree, id, fmt.Sprintf("preserved before edit of node %s", id))
		if err != nil {
			return NullGhost, err
		}
		ghostID = branch.ID
		tree.CascadeDelete(id, true)
	default:
		tree.CascadeDelete(id, true)
	}

	fields, err := tree.UpdateContent(id, userInput, aiResponse)
	if err != nil {
		return NullGhost, err
	}
	node.EditHistory = append(node.EditHistory, EditRecord{
		Time:    node.LastUpdate,
		Fields:  fields,
		GhostID: ghostID,
	})

	if err := m.commit(tree, ghosts); err != nil {
		return NullGhost, err
	}

	log.Info().
		Str("node_id", id.String()).
		Str("ghost_id", ghostID.String()).
		Bool("preserve", preserve).
		Msg("node edited")
	if !ghostID.IsNull() {
		m.publish(events.NewTreeEvent(events.EventTypeGhostCreated).
			WithNodeID(id.String()).
			WithGhostID(ghostID.String()))
	}
	m.publish(events.NewTreeEvent(events.EventTypeNodeEdited).
		WithNodeID(id.String()))

	return ghostID, nil
}

// ResetTree discards the whole conversation tree and all ghost branches.
// Ghosts cannot outlive the reset: their anchors are gone, so they could
// never be restored.
func (m *ManagerImpl) ResetTree() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.commit(NewTree(), NewGhostStore()); err != nil {
		return err
	}

	log.Info().Msg("conversation tree reset")
	m.publish(events.NewTreeEvent(events.EventTypeTreeReset))

	return nil
}

func (m *ManagerImpl) ListGhosts() []GhostSummary {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ghosts.List()
}

func (m *ManagerImpl) GetGhost(id GhostID) (*GhostBranch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	branch, err := m.ghosts.Get(id)
	if err != nil {
		return nil, err
	}
	return cloneGhost(branch), nil
}

func (m *ManagerImpl) RestoreGhost(id GhostID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tree := m.tree.Clone()
	ghosts := m.ghosts.Clone()
	if err := ghosts.Restore(tree, id); err != nil {
		return err
	}
	if err := m.commit(tree, ghosts); err != nil {
		return err
	}

	log.Info().Str("ghost_id", id.String()).Msg("ghost branch restored")
	m.publish(events.NewTreeEvent(events.EventTypeGhostRestored).
		WithGhostID(id.String()))

	return nil
}

func (m *ManagerImpl) DeleteGhost(id GhostID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ghosts := m.ghosts.Clone()
	if err := ghosts.Delete(id); err != nil {
		return err
	}
	if err := m.commit(m.tree, ghosts); err != nil {
		return err
	}

	log.Info().Str("ghost_id", id.String()).Msg("ghost branch deleted")
	m.publish(events.NewTreeEvent(events.EventTypeGhostDeleted).
		WithGhostID(id.String()))

	return nil
}

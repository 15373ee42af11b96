package events

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

type EventType string

const (
	EventTypeNodeAdded     EventType = "node-added"
	EventTypeNodeEdited    EventType = "node-edited"
	EventTypeTreeReset     EventType = "tree-reset"
	EventTypeGhostCreated  EventType = "ghost-created"
	EventTypeGhostRestored EventType = "ghost-restored"
	EventTypeGhostDeleted  EventType = "ghost-deleted"
)

// TreeEvent describes one mutation of the conversation tree or the ghost
// store. Identifiers are carried as strings so subscribers do not need the
// conversation package to decode a payload.
type TreeEvent struct {
	Type    EventType `json:"type"`
	NodeID  string    `json:"nodeID,omitempty"`
	GhostID string    `json:"ghostID,omitempty"`
	Model   string    `json:"model,omitempty"`
	Time    time.Time `json:"time"`
}

func NewTreeEvent(type_ EventType) *TreeEvent {
	return &TreeEvent{
		Type: type_,
		Time: time.Now(),
	}
}

func (e *TreeEvent) WithNodeID(id string) *TreeEvent {
	e.NodeID = id
	return e
}

func (e *TreeEvent) WithGhostID(id string) *TreeEvent {
	e.GhostID = id
	return e
}

func (e *TreeEvent) WithModel(model string) *TreeEvent {
	e.Model = model
	return e
}

// NewTreeEventFromJson decodes a published payload back into a TreeEvent.
func NewTreeEventFromJson(b []byte) (*TreeEvent, error) {
	var e TreeEvent
	if err := json.Unmarshal(b, &e); err != nil {
		return nil, errors.Wrap(err, "could not unmarshal tree event")
	}
	if e.Type == "" {
		return nil, errors.New("tree event missing type")
	}
	return &e, nil
}

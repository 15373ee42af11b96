package conversation

import (
	"encoding/json"

	"github.com/google/uuid"
)

// NodeID identifies a single exchange node in the conversation tree.
type NodeID uuid.UUID

var NullNode = NodeID(uuid.Nil)

func NewNodeID() NodeID {
	return NodeID(uuid.New())
}

func (id NodeID) String() string {
	return uuid.UUID(id).String()
}

func (id NodeID) IsNull() bool {
	return uuid.UUID(id) == uuid.Nil
}

func (id NodeID) MarshalJSON() ([]byte, error) {
	return json.Marshal(uuid.UUID(id))
}

func (id *NodeID) UnmarshalJSON(data []byte) error {
	var u uuid.UUID
	if err := json.Unmarshal(data, &u); err != nil {
		return err
	}
	*id = NodeID(u)
	return nil
}

// MarshalText is required so NodeID can be used as a JSON map key.
func (id NodeID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}

func (id *NodeID) UnmarshalText(data []byte) error {
	var u uuid.UUID
	if err := u.UnmarshalText(data); err != nil {
		return err
	}
	*id = NodeID(u)
	return nil
}

func ParseNodeID(s string) (NodeID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return NullNode, err
	}
	return NodeID(u), nil
}

// GhostID identifies a detached subtree snapshot. It lives in its own
// namespace so a ghost id can never be mistaken for a node id.
type GhostID uuid.UUID

var NullGhost = GhostID(uuid.Nil)

func (id GhostID) String() string {
	return uuid.UUID(id).String()
}

func (id GhostID) IsNull() bool {
	return uuid.UUID(id) == uuid.Nil
}

func (id GhostID) MarshalJSON() ([]byte, error) {
	return json.Marshal(uuid.UUID(id))
}

func (id *GhostID) UnmarshalJSON(data []byte) error {
	var u uuid.UUID
	if err := json.Unmarshal(data, &u); err != nil {
		return err
	}
	*id = GhostID(u)
	return nil
}

func (id GhostID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}

func (id *GhostID) UnmarshalText(data []byte) error {
	var u uuid.UUID
	if err := u.UnmarshalText(data); err != nil {
		return err
	}
	*id = GhostID(u)
	return nil
}

func ParseGhostID(s string) (GhostID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return NullGhost, err
	}
	return GhostID(u), nil
}

package mindmap

import (
	"strings"

	"github.com/google/uuid"
)

// nodeNamespace scopes node ids so they never collide with ids minted elsewhere.
var nodeNamespace = uuid.MustParse("6f1c2f7e-3b0a-5d4e-9a61-7c0d9b1e4a52")

// NodeID identifies a mind-map node. It depends only on the node's tag, so
// expand/collapse state keyed by it survives rebuilds and goal-text edits.
type NodeID struct {
	u uuid.UUID
}

// NodeIDForTag returns the id for tag. Tags are compared case-insensitively.
func NodeIDForTag(tag string) NodeID {
	norm := strings.ToLower(strings.TrimSpace(tag))
	return NodeID{u: uuid.NewSHA1(nodeNamespace, []byte(norm))}
}

func ParseNodeID(s string) (NodeID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return NodeID{}, err
	}
	return NodeID{u: u}, nil
}

func (id NodeID) String() string { return id.u.String() }

func (id NodeID) IsZero() bool { return id.u == uuid.Nil }

func (id NodeID) MarshalText() ([]byte, error) { return []byte(id.u.String()), nil }

func (id *NodeID) UnmarshalText(b []byte) error {
	parsed, err := ParseNodeID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

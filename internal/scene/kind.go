// Package scene is a minimal Doom3-style map document whose nodes are
// tracked by the undo engine.
//
// The worldspawn root holds entities; entities hold brushes and patches.
// Every node registers with the graph's undo system while it is part of
// the graph and releases its state saver when it leaves.
package scene

import (
	"strings"

	"github.com/manav03panchal/mapundo/internal/errors"
)

// Kind is the closed set of node kinds.
type Kind int

const (
	// KindEntity carries spawnargs and can hold children.
	KindEntity Kind = iota
	// KindBrush is a texturable convex primitive.
	KindBrush
	// KindPatch is a texturable bezier primitive.
	KindPatch
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindEntity:
		return "entity"
	case KindBrush:
		return "brush"
	case KindPatch:
		return "patch"
	default:
		return "unknown"
	}
}

// ParseKind maps a kind name to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "entity":
		return KindEntity, nil
	case "brush":
		return KindBrush, nil
	case "patch":
		return KindPatch, nil
	default:
		return 0, errors.UserErrorFrom(errors.ErrInvalidKind, "kind", s)
	}
}

// Texturable reports whether nodes of this kind carry a shader.
func (k Kind) Texturable() bool {
	switch k {
	case KindBrush, KindPatch:
		return true
	case KindEntity:
		return false
	default:
		return false
	}
}

// CanContain reports whether a node of kind k may hold a child of kind
// child. Entities hold primitives; only the root holds entities.
func (k Kind) CanContain(child Kind, isRoot bool) bool {
	switch k {
	case KindEntity:
		switch child {
		case KindEntity:
			return isRoot
		case KindBrush, KindPatch:
			return true
		default:
			return false
		}
	case KindBrush, KindPatch:
		return false
	default:
		return false
	}
}

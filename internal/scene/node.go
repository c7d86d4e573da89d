package scene

import (
	"sort"

	"github.com/manav03panchal/mapundo/internal/errors"
	"github.com/manav03panchal/mapundo/internal/undo"
	"github.com/manav03panchal/mapundo/internal/validate"
)

// Spawnarg keys with special meaning.
const (
	KeyClassname = "classname"
	KeyName      = "name"
)

// DefaultShader is assigned to new primitives.
const DefaultShader = "textures/common/caulk"

// Node is one element of the map: an entity or a primitive.
type Node struct {
	id        string
	kind      Kind
	spawnargs map[string]string
	shader    string
	children  []*Node
	parent    *Node

	graph *Graph
	saver *undo.StateSaver
}

// nodeState is the snapshot of a node's undoable state.
type nodeState struct {
	spawnargs map[string]string
	shader    string
	children  []*Node
}

// ID returns the node's identifier.
func (n *Node) ID() string { return n.id }

// Kind returns the node's kind.
func (n *Node) Kind() Kind { return n.kind }

// Parent returns the containing node, nil for the root or detached nodes.
func (n *Node) Parent() *Node { return n.parent }

// Attached reports whether the node is part of a graph.
func (n *Node) Attached() bool { return n.graph != nil }

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	return append([]*Node(nil), n.children...)
}

// HasChild reports whether c is a direct child of n.
func (n *Node) HasChild(c *Node) bool {
	return indexOf(n.children, c) >= 0
}

// KeyValue returns the value of a spawnarg.
func (n *Node) KeyValue(key string) (string, bool) {
	v, ok := n.spawnargs[key]
	return v, ok
}

// Keys returns the spawnarg keys in sorted order.
func (n *Node) Keys() []string {
	keys := make([]string, 0, len(n.spawnargs))
	for k := range n.spawnargs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Spawnargs returns a copy of all spawnargs.
func (n *Node) Spawnargs() map[string]string {
	return copyArgs(n.spawnargs)
}

// Classname returns the entity class, empty for primitives.
func (n *Node) Classname() string {
	return n.spawnargs[KeyClassname]
}

// Shader returns the primitive's shader, empty for entities.
func (n *Node) Shader() string { return n.shader }

// Label returns a short human-readable description.
func (n *Node) Label() string {
	switch n.kind {
	case KindEntity:
		if name, ok := n.spawnargs[KeyName]; ok {
			return n.Classname() + " " + name
		}
		return n.Classname()
	case KindBrush, KindPatch:
		return n.kind.String() + " " + n.shader
	default:
		return n.kind.String()
	}
}

// SetKeyValue assigns a spawnarg. Assigning the current value records nothing.
func (n *Node) SetKeyValue(key, value string) error {
	if n.kind != KindEntity {
		return errors.UserErrorFrom(errors.ErrInvalidKind, "kind", n.kind.String())
	}
	if err := validate.SpawnargKey(key); err != nil {
		return err
	}
	if err := validate.SpawnargValue(value); err != nil {
		return err
	}
	if cur, ok := n.spawnargs[key]; ok && cur == value {
		return nil
	}

	n.save()
	n.spawnargs[key] = value
	n.changed()
	return nil
}

// DeleteKey removes a spawnarg. Returns false if the key was not set.
func (n *Node) DeleteKey(key string) bool {
	if _, ok := n.spawnargs[key]; !ok {
		return false
	}

	n.save()
	delete(n.spawnargs, key)
	n.changed()
	return true
}

// SetShader assigns the shader of a brush or patch.
func (n *Node) SetShader(shader string) error {
	if !n.kind.Texturable() {
		return errors.UserErrorFrom(errors.ErrInvalidKind, "kind", n.kind.String())
	}
	if err := validate.Shader(shader); err != nil {
		return err
	}
	if shader == n.shader {
		return nil
	}

	n.save()
	n.shader = shader
	n.changed()
	return nil
}

// CaptureState implements undo.Undoable.
func (n *Node) CaptureState() undo.Snapshot {
	return nodeState{
		spawnargs: copyArgs(n.spawnargs),
		shader:    n.shader,
		children:  append([]*Node(nil), n.children...),
	}
}

// RestoreState implements undo.Undoable. Children that re-enter the list are
// attached to the graph again and children that leave it are detached.
func (n *Node) RestoreState(s undo.Snapshot) {
	st := s.(nodeState)
	old := n.children

	n.spawnargs = st.spawnargs
	n.shader = st.shader
	n.children = st.children

	if n.graph != nil {
		n.graph.reconcile(n, old, n.children)
	}
}

// OperationRestored implements undo.RestoreObserver. The first call of a
// replay settles graph membership for every node the replay touched.
func (n *Node) OperationRestored() {
	if n.graph != nil {
		n.graph.dropOrphans()
	}
	n.changed()
}

func (n *Node) save() {
	n.saver.Save()
}

func (n *Node) changed() {
	if n.graph != nil {
		n.graph.publish(NodeChanged, n)
	}
}

func copyArgs(args map[string]string) map[string]string {
	out := make(map[string]string, len(args))
	for k, v := range args {
		out[k] = v
	}
	return out
}

func indexOf(nodes []*Node, n *Node) int {
	for i, c := range nodes {
		if c == n {
			return i
		}
	}
	return -1
}

package scene

import (
	"strings"

	"github.com/google/uuid"

	"github.com/manav03panchal/mapundo/internal/errors"
	"github.com/manav03panchal/mapundo/internal/model"
	"github.com/manav03panchal/mapundo/internal/signal"
	"github.com/manav03panchal/mapundo/internal/undo"
)

// RootID is the identifier of the worldspawn node.
const RootID = "worldspawn"

// ChangeType identifies a graph notification.
type ChangeType int

const (
	// NodeInserted fires when a node (or a subtree root) joins the graph.
	NodeInserted ChangeType = iota
	// NodeRemoved fires when a node leaves the graph.
	NodeRemoved
	// NodeChanged fires when a node's own state changed or was restored.
	NodeChanged
)

// String returns the string representation of the change type.
func (c ChangeType) String() string {
	switch c {
	case NodeInserted:
		return "inserted"
	case NodeRemoved:
		return "removed"
	case NodeChanged:
		return "changed"
	default:
		return "unknown"
	}
}

// Change is published on the graph's change channel.
type Change struct {
	Type ChangeType
	Node *Node
}

// Graph is the scene: a worldspawn root, an ID index, and the undo system
// its nodes register with.
type Graph struct {
	undo    *undo.System
	root    *Node
	nodes   map[string]*Node
	changes *signal.Bus[Change]
	newID   func() string

	// orphans left their parent during a restore and are detached once
	// the whole operation has been applied.
	orphans []*Node
}

// GraphOption configures a Graph.
type GraphOption func(*Graph)

// WithIDGenerator replaces the UUID-based node ID generator.
func WithIDGenerator(gen func() string) GraphOption {
	return func(g *Graph) {
		g.newID = gen
	}
}

// NewGraph creates an empty map whose nodes are tracked by sys.
func NewGraph(sys *undo.System, opts ...GraphOption) *Graph {
	g := &Graph{
		undo:    sys,
		nodes:   make(map[string]*Node),
		changes: signal.New[Change](),
		newID:   generateID,
	}
	for _, opt := range opts {
		opt(g)
	}

	g.root = newNode(RootID, KindEntity)
	g.root.spawnargs[KeyClassname] = RootID
	g.attach(g.root)
	return g
}

// generateID returns the random tail of a UUID v7.
func generateID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return strings.ReplaceAll(id.String(), "-", "")[20:]
}

func newNode(id string, kind Kind) *Node {
	return &Node{
		id:        id,
		kind:      kind,
		spawnargs: make(map[string]string),
	}
}

// Root returns the worldspawn node.
func (g *Graph) Root() *Node { return g.root }

// UndoSystem returns the undo system nodes register with.
func (g *Graph) UndoSystem() *undo.System { return g.undo }

// Len returns the number of nodes in the graph, root included.
func (g *Graph) Len() int { return len(g.nodes) }

// Find looks up a node by ID.
func (g *Graph) Find(id string) (*Node, error) {
	n, ok := g.nodes[id]
	if !ok {
		return nil, errors.UserErrorFrom(errors.ErrNodeNotFound, "id", id)
	}
	return n, nil
}

// NewNode creates a detached node with a fresh ID. Entities start with
// the given classname; primitives start with DefaultShader.
func (g *Graph) NewNode(kind Kind, classname string) *Node {
	id := g.newID()
	for _, taken := g.nodes[id]; taken || id == RootID; _, taken = g.nodes[id] {
		id = g.newID()
	}

	n := newNode(id, kind)
	switch kind {
	case KindEntity:
		if classname == "" {
			classname = "func_static"
		}
		n.spawnargs[KeyClassname] = classname
	case KindBrush, KindPatch:
		n.shader = DefaultShader
	}
	return n
}

// Insert appends child to parent and attaches child's subtree.
func (g *Graph) Insert(parent, child *Node) error {
	if parent.graph != g {
		return errors.UserErrorFrom(errors.ErrNodeNotFound, "id", parent.id)
	}
	if child.graph != nil {
		return errors.UserErrorFrom(errors.ErrInvalidArgument, "id", child.id)
	}
	if !parent.kind.CanContain(child.kind, parent == g.root) {
		return errors.UserErrorFrom(errors.ErrInvalidKind, "kind", child.kind.String())
	}

	parent.save()
	parent.children = append(parent.children, child)
	child.parent = parent
	g.attach(child)
	return nil
}

// Remove detaches n's subtree from the graph. The root cannot be removed.
func (g *Graph) Remove(n *Node) error {
	if n == g.root || n.graph != g || n.parent == nil {
		return errors.UserErrorFrom(errors.ErrInvalidArgument, "id", n.id)
	}

	parent := n.parent
	parent.save()
	parent.children = removeNode(parent.children, n)
	n.parent = nil
	g.detach(n)
	return nil
}

// Reparent moves n under newParent without leaving the graph.
func (g *Graph) Reparent(n, newParent *Node) error {
	if n == g.root || n.graph != g || newParent.graph != g {
		return errors.UserErrorFrom(errors.ErrInvalidArgument, "id", n.id)
	}
	if !newParent.kind.CanContain(n.kind, newParent == g.root) {
		return errors.UserErrorFrom(errors.ErrInvalidKind, "kind", n.kind.String())
	}
	if n.parent == newParent {
		return nil
	}

	old := n.parent
	old.save()
	old.children = removeNode(old.children, n)
	newParent.save()
	newParent.children = append(newParent.children, n)
	n.parent = newParent
	g.publish(NodeChanged, old)
	g.publish(NodeChanged, newParent)
	return nil
}

// Walk visits the graph in pre-order. Returning false from fn skips the
// node's children.
func (g *Graph) Walk(fn func(n *Node, depth int) bool) {
	var visit func(n *Node, depth int)
	visit = func(n *Node, depth int) {
		if !fn(n, depth) {
			return
		}
		for _, c := range n.children {
			visit(c, depth+1)
		}
	}
	visit(g.root, 0)
}

// Subscribe registers handler for graph changes.
func (g *Graph) Subscribe(handler func(Change)) signal.Token {
	return g.changes.Subscribe(handler)
}

// Unsubscribe removes a graph change subscription.
func (g *Graph) Unsubscribe(token signal.Token) bool {
	return g.changes.Unsubscribe(token)
}

// Reset tears the scene down to an empty worldspawn and clears the undo
// history, so no finished operation can refer to a released node.
func (g *Graph) Reset() {
	for _, c := range g.root.children {
		c.parent = nil
		g.detach(c)
	}
	g.root.children = nil
	g.root.spawnargs = map[string]string{KeyClassname: RootID}
	g.undo.Clear()
}

// Export returns the scene as records in pre-order.
func (g *Graph) Export() []model.NodeRecord {
	var records []model.NodeRecord
	g.Walk(func(n *Node, _ int) bool {
		rec := model.NodeRecord{
			ID:     n.id,
			Kind:   n.kind.String(),
			Shader: n.shader,
		}
		if len(n.spawnargs) > 0 {
			rec.Spawnargs = copyArgs(n.spawnargs)
		}
		if n.parent != nil {
			rec.Parent = n.parent.id
		}
		records = append(records, rec)
		return true
	})
	return records
}

// Import replaces the scene with records produced by Export. It is not
// undoable: the history is cleared afterwards. Records are checked before
// anything is torn down, so a rejected document leaves the scene and its
// history untouched.
func (g *Graph) Import(records []model.NodeRecord) error {
	if g.undo.OperationStarted() {
		return errors.ErrOperationInProgress
	}
	kinds, err := checkRecords(records)
	if err != nil {
		return err
	}

	g.Reset()
	for _, rec := range records {
		if rec.IsRoot() {
			g.root.spawnargs = copyArgs(rec.Spawnargs)
			g.root.spawnargs[KeyClassname] = RootID
			continue
		}

		n := newNode(rec.ID, kinds[rec.ID])
		n.spawnargs = copyArgs(rec.Spawnargs)
		n.shader = rec.Shader
		if err := g.Insert(g.nodes[rec.Parent], n); err != nil {
			return err
		}
	}

	g.undo.Clear()
	return nil
}

// checkRecords validates a pre-order record list without touching any graph
// and returns the parsed kind of every non-root record.
func checkRecords(records []model.NodeRecord) (map[string]Kind, error) {
	kinds := make(map[string]Kind, len(records))
	for _, rec := range records {
		if rec.IsRoot() {
			if rec.ID != RootID {
				return nil, errors.UserErrorFrom(errors.ErrInvalidArgument, "id", rec.ID)
			}
			continue
		}

		kind, err := ParseKind(rec.Kind)
		if err != nil {
			return nil, err
		}
		if _, taken := kinds[rec.ID]; taken || rec.ID == RootID {
			return nil, errors.UserErrorFrom(errors.ErrInvalidArgument, "id", rec.ID)
		}

		parentKind, isRoot := KindEntity, rec.Parent == RootID
		if !isRoot {
			k, ok := kinds[rec.Parent]
			if !ok {
				return nil, errors.UserErrorFrom(errors.ErrNodeNotFound, "id", rec.Parent)
			}
			parentKind = k
		}
		if !parentKind.CanContain(kind, isRoot) {
			return nil, errors.UserErrorFrom(errors.ErrInvalidKind, "kind", kind.String())
		}
		kinds[rec.ID] = kind
	}
	return kinds, nil
}

// attach registers n's subtree with the graph and the undo system.
func (g *Graph) attach(n *Node) {
	n.graph = g
	g.nodes[n.id] = n
	n.saver = g.undo.GetStateSaver(n)
	for _, c := range n.children {
		c.parent = n
		g.attach(c)
	}
	g.publish(NodeInserted, n)
}

// detach releases n's subtree. The nodes keep their state and child lists,
// so a later restore can attach them again.
func (g *Graph) detach(n *Node) {
	for _, c := range n.children {
		g.detach(c)
	}
	g.undo.ReleaseStateSaver(n)
	n.saver = nil
	n.graph = nil
	delete(g.nodes, n.id)
	g.publish(NodeRemoved, n)
}

// reconcile updates graph membership after parent's child list was
// restored from old to next. A child that left the list stays attached
// until dropOrphans runs, since another parent restored later in the same
// operation may take it back.
func (g *Graph) reconcile(parent *Node, old, next []*Node) {
	for _, c := range old {
		if indexOf(next, c) < 0 && c.parent == parent {
			c.parent = nil
			if c.graph == g {
				g.orphans = append(g.orphans, c)
			}
		}
	}
	for _, c := range next {
		c.parent = parent
		if c.graph != g {
			g.attach(c)
		}
	}
}

// dropOrphans detaches the children no restored parent claimed.
func (g *Graph) dropOrphans() {
	orphans := g.orphans
	g.orphans = nil
	for _, c := range orphans {
		if c.parent == nil && c.graph == g {
			g.detach(c)
		}
	}
}

func (g *Graph) publish(t ChangeType, n *Node) {
	g.changes.Publish(Change{Type: t, Node: n})
}

func removeNode(nodes []*Node, n *Node) []*Node {
	i := indexOf(nodes, n)
	if i < 0 {
		return nodes
	}
	return append(nodes[:i:i], nodes[i+1:]...)
}

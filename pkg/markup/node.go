package markup

import (
	"fmt"
	"sort"
	"strings"
)

// Kind describes a class of nodes: the tag name its nodes render with and
// whether a parent may hold more than one of them.
type Kind struct {
	Name       string // Tag name (e.g., "head")
	Repeatable bool   // Allowed any number of times under one parent
}

// DefineKind creates a new kind. Each call returns a distinct kind, even
// for an identical name. It panics if name is empty.
func DefineKind(name string, repeatable bool) *Kind {
	if name == "" {
		panic("markup: DefineKind called with an empty name")
	}
	return &Kind{Name: name, Repeatable: repeatable}
}

// String returns the kind's tag name and classification.
func (k *Kind) String() string {
	if k == nil {
		return "<nil>"
	}
	if k.Repeatable {
		return k.Name + " (repeatable)"
	}
	return k.Name + " (unique)"
}

// TextKind is the kind of every text leaf.
var TextKind = &Kind{Name: "#text", Repeatable: true}

// Attr represents a single attribute.
type Attr struct {
	Key   string
	Value string
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// Node is one element of a document tree.
type Node struct {
	kind     *Kind
	name     string
	parent   *Node
	attrs    map[string]string
	children []*Node
	text     string
}

// New creates a node of the given kind with no children.
// Duplicate attribute keys are resolved last-write-wins; empty keys are
// ignored. It panics if kind is nil or has an empty name.
func New(kind *Kind, attrs ...Attr) *Node {
	if kind == nil {
		panic("markup: New called with a nil kind")
	}
	if kind.Name == "" {
		panic("markup: New called with an unnamed kind")
	}
	node := &Node{
		kind: kind,
		name: kind.Name,
	}
	for _, attr := range attrs {
		if attr.IsEmpty() {
			continue
		}
		if node.attrs == nil {
			node.attrs = make(map[string]string, len(attrs))
		}
		node.attrs[attr.Key] = attr.Value
	}
	return node
}

// NewAttrs creates a node from an attribute map. The map is copied.
func NewAttrs(kind *Kind, attrs map[string]string) *Node {
	list := make([]Attr, 0, len(attrs))
	for k, v := range attrs {
		list = append(list, Attr{Key: k, Value: v})
	}
	return New(kind, list...)
}

// Text creates a text leaf holding s verbatim.
func Text(s string) *Node {
	return &Node{
		kind: TextKind,
		name: TextKind.Name,
		text: s,
	}
}

// Register appends child to the node's children.
//
// It fails with a *ConflictError when child is of a unique kind that
// already has a representative among the children, and with
// ErrAlreadyAttached when child has a parent or is n or one of its
// ancestors. A nil child is ignored. On failure the children are
// unchanged.
func (n *Node) Register(child *Node) error {
	if child == nil {
		return nil
	}
	if n.IsText() {
		return ErrTextChildren
	}
	if child.parent != nil {
		return fmt.Errorf("%w: %s already belongs to %s", ErrAlreadyAttached, child, child.parent)
	}
	for p := n; p != nil; p = p.parent {
		if p == child {
			return fmt.Errorf("%w: %s is %s or one of its ancestors", ErrAlreadyAttached, child, n)
		}
	}
	if !child.kind.Repeatable {
		for _, existing := range n.children {
			if existing.kind == child.kind {
				return &ConflictError{Kind: child.kind, Child: child}
			}
		}
	}
	n.children = append(n.children, child)
	child.parent = n
	return nil
}

// Kind returns the node's kind.
func (n *Node) Kind() *Kind {
	return n.kind
}

// Parent returns the node the receiver was registered on, or nil for a
// root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Name returns the tag name.
func (n *Node) Name() string {
	return n.name
}

// IsText returns true for text leaves.
func (n *Node) IsText() bool {
	return n != nil && n.kind == TextKind
}

// Text returns the literal content of a text leaf, or "" for tags.
func (n *Node) Text() string {
	return n.text
}

// Attr returns the value of the attribute key.
func (n *Node) Attr(key string) (string, bool) {
	v, ok := n.attrs[key]
	return v, ok
}

// Attrs returns a copy of the attributes sorted by key.
func (n *Node) Attrs() []Attr {
	if len(n.attrs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(n.attrs))
	for k := range n.attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]Attr, len(keys))
	for i, k := range keys {
		attrs[i] = Attr{Key: k, Value: n.attrs[k]}
	}
	return attrs
}

// Children returns a copy of the child list in registration order.
func (n *Node) Children() []*Node {
	if len(n.children) == 0 {
		return nil
	}
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// Len returns the number of children.
func (n *Node) Len() int {
	return len(n.children)
}

// Child returns the i-th child, or nil when out of range.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// Walk visits n and its descendants depth-first, parents before
// children. Returning false from fn skips the node's subtree.
func (n *Node) Walk(fn func(node *Node, depth int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(node *Node, depth int) bool, depth int) {
	if n == nil || !fn(n, depth) {
		return
	}
	for _, child := range n.children {
		child.walk(fn, depth+1)
	}
}

// String returns a short description for diagnostics.
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	if n.IsText() {
		return "text " + quoteShort(n.text)
	}
	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(n.name)
	for _, attr := range n.Attrs() {
		b.WriteByte(' ')
		b.WriteString(attr.Key)
		b.WriteString(`="`)
		b.WriteString(attr.Value)
		b.WriteByte('"')
	}
	b.WriteByte('>')
	return b.String()
}

func quoteShort(s string) string {
	const limit = 32
	r := []rune(s)
	if len(r) > limit {
		s = string(r[:limit]) + "..."
	}
	return `"` + s + `"`
}

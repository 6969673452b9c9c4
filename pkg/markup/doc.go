// Package markup provides the node model for tagtree documents.
//
// A document is a tree of Nodes. Every Node has a Kind, a tag name, a
// fixed set of string attributes and an ordered, append-only list of
// children. Text leaves are Nodes of TextKind that carry literal text and
// never have children or attributes.
//
// # Kinds
//
// A Kind classifies nodes as repeatable or unique. A parent may hold any
// number of children of a repeatable kind but at most one child of each
// unique kind:
//
//	var Head = markup.DefineKind("head", false)
//	var P = markup.DefineKind("p", true)
//
// Kinds are compared by identity, not by name. Two kinds defined with
// the same tag name are different kinds.
//
// # Building
//
// New constructs a node and Register attaches a child to it:
//
//	root := markup.New(HTML, markup.Attr{Key: "lang", Value: "en"})
//	if err := root.Register(markup.New(Head)); err != nil {
//	    return err
//	}
//
// Register is the only way children are added. When the child's kind is
// unique and already present, Register returns a *ConflictError matching
// ErrStructuralConflict and leaves the parent unchanged. A node belongs to
// one parent only: registering an attached node, the parent itself or one
// of its ancestors fails with ErrAlreadyAttached, so trees never share
// nodes or contain cycles.
//
// Nodes are not safe for concurrent mutation. A finished tree may be read
// (and rendered) from many goroutines.
package markup

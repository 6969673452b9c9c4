package html

import "github.com/vango-dev/tagtree/pkg/markup"

// Builder adds children to one node from inside a nested closure.
type Builder struct {
	node *markup.Node
}

// Node returns the node being built.
func (b *Builder) Node() *markup.Node {
	return b.node
}

// Document builds an html root, optionally with a lang attribute, by
// running fn against it. Any error from fn, including a structural
// conflict, aborts the build and no node is returned.
func Document(lang string, fn func(*Builder) error) (*markup.Node, error) {
	var attrs []markup.Attr
	if lang != "" {
		attrs = append(attrs, Lang(lang))
	}
	root := markup.New(KindHTML, attrs...)
	if fn != nil {
		if err := fn(&Builder{node: root}); err != nil {
			return nil, err
		}
	}
	return root, nil
}

// Tag constructs a child of the given kind, registers it, then runs fn
// to fill it. The child is registered before fn runs, so a conflicting
// child fails before any of its content is built.
func (b *Builder) Tag(kind *markup.Kind, fn func(*Builder) error, attrs ...markup.Attr) error {
	child := markup.New(kind, attrs...)
	if err := b.node.Register(child); err != nil {
		return err
	}
	if fn == nil {
		return nil
	}
	return fn(&Builder{node: child})
}

// Text adds a text leaf.
func (b *Builder) Text(s string) error {
	return b.node.Register(markup.Text(s))
}

// Texts adds one text leaf per string, stopping at the first error.
func (b *Builder) Texts(lines ...string) error {
	for _, s := range lines {
		if err := b.Text(s); err != nil {
			return err
		}
	}
	return nil
}

// Add registers an already built node.
func (b *Builder) Add(child *markup.Node) error {
	return b.node.Register(child)
}

func (b *Builder) Head(fn func(*Builder) error) error  { return b.Tag(KindHead, fn) }
func (b *Builder) Title(fn func(*Builder) error) error { return b.Tag(KindTitle, fn) }
func (b *Builder) Body(fn func(*Builder) error) error  { return b.Tag(KindBody, fn) }
func (b *Builder) H1(fn func(*Builder) error) error    { return b.Tag(KindH1, fn) }
func (b *Builder) P(fn func(*Builder) error) error     { return b.Tag(KindP, fn) }
func (b *Builder) B(fn func(*Builder) error) error     { return b.Tag(KindB, fn) }
func (b *Builder) Ul(fn func(*Builder) error) error    { return b.Tag(KindUl, fn) }
func (b *Builder) Li(fn func(*Builder) error) error    { return b.Tag(KindLi, fn) }
func (b *Builder) Div(fn func(*Builder) error, attrs ...markup.Attr) error {
	return b.Tag(KindDiv, fn, attrs...)
}

// A adds a link with the given href.
func (b *Builder) A(href string, fn func(*Builder) error) error {
	return b.Tag(KindA, fn, Href(href))
}

package html

import (
	"errors"
	"fmt"

	"github.com/vango-dev/tagtree/pkg/markup"
)

// ErrUnsupportedArg is returned for element arguments of an unknown type.
var ErrUnsupportedArg = errors.New("html: unsupported element argument")

// Element is a node under construction. It carries the first error met
// while building it or any of its descendants.
type Element struct {
	node *markup.Node
	err  error
}

// Build returns the finished node, or the first error met while building
// the element. No node is returned on error.
func (e Element) Build() (*markup.Node, error) {
	if e.err != nil {
		return nil, e.err
	}
	return e.node, nil
}

// Err returns the first error met while building the element.
func (e Element) Err() error {
	return e.err
}

// createElement creates a node of the given kind from the arguments.
// Arguments can be: nil, markup.Attr, []markup.Attr, Element, []Element,
// *markup.Node, []*markup.Node, string (a text child).
//
// Attributes are collected before the node is constructed, so their
// position among the arguments does not matter. Children are registered
// in argument order.
func createElement(kind *markup.Kind, args []any) Element {
	var attrs []markup.Attr
	for _, arg := range args {
		switch v := arg.(type) {
		case markup.Attr:
			attrs = append(attrs, v)
		case []markup.Attr:
			attrs = append(attrs, v...)
		}
	}

	el := Element{node: markup.New(kind, attrs...)}
	for i, arg := range args {
		switch v := arg.(type) {
		case nil, markup.Attr, []markup.Attr:
			// Ignore nil (allows conditional children); attributes handled above
			continue

		case Element:
			el.add(v.node, v.err)

		case []Element:
			for _, child := range v {
				el.add(child.node, child.err)
			}

		case *markup.Node:
			el.add(v, nil)

		case []*markup.Node:
			for _, child := range v {
				el.add(child, nil)
			}

		case string:
			// Shorthand for text node
			el.add(markup.Text(v), nil)

		default:
			el.fail(fmt.Errorf("%w: %s argument %d has type %T", ErrUnsupportedArg, kind.Name, i, arg))
		}
	}
	return el
}

func (e *Element) add(child *markup.Node, childErr error) {
	if childErr != nil {
		e.fail(childErr)
		return
	}
	if e.err != nil {
		return
	}
	e.fail(e.node.Register(child))
}

func (e *Element) fail(err error) {
	if e.err == nil && err != nil {
		e.err = err
	}
}

// Document structure

func HTML(args ...any) Element  { return createElement(KindHTML, args) }
func Head(args ...any) Element  { return createElement(KindHead, args) }
func Title(args ...any) Element { return createElement(KindTitle, args) }
func Body(args ...any) Element  { return createElement(KindBody, args) }

// Metadata

func Meta(args ...any) Element   { return createElement(KindMeta, args) }
func Link(args ...any) Element   { return createElement(KindLink, args) }
func Script(args ...any) Element { return createElement(KindScript, args) }
func Style(args ...any) Element  { return createElement(KindStyle, args) }

// Content

func H1(args ...any) Element     { return createElement(KindH1, args) }
func H2(args ...any) Element     { return createElement(KindH2, args) }
func H3(args ...any) Element     { return createElement(KindH3, args) }
func P(args ...any) Element      { return createElement(KindP, args) }
func B(args ...any) Element      { return createElement(KindB, args) }
func I(args ...any) Element      { return createElement(KindI, args) }
func Em(args ...any) Element     { return createElement(KindEm, args) }
func Strong(args ...any) Element { return createElement(KindStrong, args) }
func A(args ...any) Element      { return createElement(KindA, args) }
func Ul(args ...any) Element     { return createElement(KindUl, args) }
func Ol(args ...any) Element     { return createElement(KindOl, args) }
func Li(args ...any) Element     { return createElement(KindLi, args) }
func Div(args ...any) Element    { return createElement(KindDiv, args) }
func Span(args ...any) Element   { return createElement(KindSpan, args) }
func Br(args ...any) Element     { return createElement(KindBr, args) }
func Hr(args ...any) Element     { return createElement(KindHr, args) }

// Custom creates an element of a caller-defined kind.
func Custom(kind *markup.Kind, args ...any) Element {
	return createElement(kind, args)
}

// Text creates a text leaf.
func Text(content string) *markup.Node {
	return markup.Text(content)
}

// Textf creates a formatted text leaf.
func Textf(format string, args ...any) *markup.Node {
	return markup.Text(fmt.Sprintf(format, args...))
}

// Escaped creates a text leaf whose markup-significant characters are
// replaced by entities.
func Escaped(content string) *markup.Node {
	return markup.Text(escapeHTML(content))
}

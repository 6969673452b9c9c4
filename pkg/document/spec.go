package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/vango-dev/tagtree/pkg/html"
	"github.com/vango-dev/tagtree/pkg/markup"
)

var (
	// ErrUnknownTag is returned for tag names the resolver does not know.
	ErrUnknownTag = errors.New("document: unknown tag")

	// ErrInvalidNode is returned for nodes that are neither a tag nor a
	// plain text leaf.
	ErrInvalidNode = errors.New("document: invalid node")
)

// Spec is the JSON description of one node.
type Spec struct {
	Tag      string            `json:"tag,omitempty"`
	Text     *string           `json:"text,omitempty"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Children []Spec            `json:"children,omitempty"`
}

// Resolver maps tag names to kinds.
type Resolver func(tag string) (*markup.Kind, bool)

// PathError records the node path at which building failed.
type PathError struct {
	Source string // File name, if known
	Path   string // Node path, e.g. "$.children[0]"
	Err    error
}

// Error implements the error interface.
func (e *PathError) Error() string {
	if e.Source != "" {
		return e.Source + ": " + e.Path + ": " + e.Err.Error()
	}
	return e.Path + ": " + e.Err.Error()
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *PathError) Unwrap() error {
	return e.Err
}

// Build constructs the tree described by spec using the html vocabulary.
func Build(spec Spec) (*markup.Node, error) {
	return BuildWith(spec, html.Lookup)
}

// BuildWith constructs the tree described by spec using resolve to find
// each tag's kind. The first error aborts the build; no partial tree is
// returned.
func BuildWith(spec Spec, resolve Resolver) (*markup.Node, error) {
	node, err := build(spec, resolve, "$")
	if err != nil {
		return nil, err
	}
	return node, nil
}

func build(spec Spec, resolve Resolver, path string) (*markup.Node, error) {
	if spec.Text != nil {
		if spec.Tag != "" || len(spec.Attrs) > 0 || len(spec.Children) > 0 {
			return nil, &PathError{Path: path, Err: fmt.Errorf("%w: text node with tag, attrs or children", ErrInvalidNode)}
		}
		return markup.Text(*spec.Text), nil
	}
	if spec.Tag == "" {
		return nil, &PathError{Path: path, Err: fmt.Errorf("%w: node needs a tag or text", ErrInvalidNode)}
	}

	kind, ok := resolve(spec.Tag)
	if !ok {
		return nil, &PathError{Path: path, Err: fmt.Errorf("%w %q", ErrUnknownTag, spec.Tag)}
	}

	node := markup.NewAttrs(kind, spec.Attrs)
	for i, childSpec := range spec.Children {
		childPath := fmt.Sprintf("%s.children[%d]", path, i)
		child, err := build(childSpec, resolve, childPath)
		if err != nil {
			return nil, err
		}
		if err := node.Register(child); err != nil {
			return nil, &PathError{Path: childPath, Err: err}
		}
	}
	return node, nil
}

// Decode reads a JSON description from r and builds its tree.
func Decode(r io.Reader) (*markup.Node, error) {
	var spec Spec
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&spec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidNode, err)
	}
	return Build(spec)
}

// LoadFile reads and builds the JSON description stored at path.
func LoadFile(path string) (*markup.Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	node, err := Decode(f)
	if err != nil {
		var pathErr *PathError
		if errors.As(err, &pathErr) {
			pathErr.Source = path
			return nil, pathErr
		}
		return nil, &PathError{Source: path, Path: "$", Err: err}
	}
	return node, nil
}

// FromNode returns the description of a tree. Building the result
// yields a tree that renders identically.
func FromNode(node *markup.Node) Spec {
	if node.IsText() {
		text := node.Text()
		return Spec{Text: &text}
	}
	spec := Spec{Tag: node.Name()}
	if attrs := node.Attrs(); len(attrs) > 0 {
		spec.Attrs = make(map[string]string, len(attrs))
		for _, a := range attrs {
			spec.Attrs[a.Key] = a.Value
		}
	}
	for _, child := range node.Children() {
		spec.Children = append(spec.Children, FromNode(child))
	}
	return spec
}

// Encode writes the indented JSON description of node to w.
func Encode(w io.Writer, node *markup.Node) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(FromNode(node))
}

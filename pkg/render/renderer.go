package render

import (
	"io"
	"strings"

	"github.com/vango-dev/tagtree/pkg/markup"
)

// DefaultIndent is the indentation unit used when none is configured.
const DefaultIndent = "\t"

// RendererConfig configures the renderer.
type RendererConfig struct {
	// Indent is the string appended to the indentation prefix for each
	// nesting level. Defaults to a single tab if not specified.
	Indent string

	// Doctype, when set, is written as the first line of the output
	// (e.g., "<!DOCTYPE html>").
	Doctype string
}

// Renderer serializes node trees to indented text.
// A Renderer holds no per-render state and may be shared between goroutines.
type Renderer struct {
	config RendererConfig
}

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer(config RendererConfig) *Renderer {
	if config.Indent == "" {
		config.Indent = DefaultIndent
	}
	return &Renderer{config: config}
}

// Indent returns the configured indentation unit.
func (r *Renderer) Indent() string {
	return r.config.Indent
}

// Render renders node with the default tab indentation unit, starting at
// the given indentation prefix.
func Render(node *markup.Node, indent string) string {
	return defaultRenderer.RenderToString(node, indent)
}

var defaultRenderer = NewRenderer(RendererConfig{})

// RenderToString renders node and its subtree. Every line, including the
// last, is terminated by a single "\n".
func (r *Renderer) RenderToString(node *markup.Node, indent string) string {
	lines := r.Lines(node, indent)
	if len(lines) == 0 {
		return ""
	}
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

// RenderToWriter streams the rendered lines to w.
func (r *Renderer) RenderToWriter(w io.Writer, node *markup.Node, indent string) error {
	for _, line := range r.Lines(node, indent) {
		if _, err := io.WriteString(w, line); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

// Lines returns the output lines without terminators.
func (r *Renderer) Lines(node *markup.Node, indent string) []string {
	var lines []string
	if r.config.Doctype != "" && node != nil {
		lines = append(lines, indent+r.config.Doctype)
	}
	return r.appendNode(lines, node, indent)
}

// appendNode dispatches rendering based on node kind.
func (r *Renderer) appendNode(lines []string, node *markup.Node, indent string) []string {
	if node == nil {
		return lines
	}
	if node.IsText() {
		return r.appendText(lines, node, indent)
	}
	return r.appendElement(lines, node, indent)
}

// appendText emits each line of the leaf's content prefixed by indent.
// Empty leaves produce no line, and a single trailing newline is dropped,
// so text never leaves a blank line before the closing marker. Blank
// lines inside the text are kept without indentation.
func (r *Renderer) appendText(lines []string, node *markup.Node, indent string) []string {
	text := strings.TrimSuffix(node.Text(), "\n")
	if text == "" {
		return lines
	}
	for _, line := range strings.Split(text, "\n") {
		if line == "" {
			lines = append(lines, "")
			continue
		}
		lines = append(lines, indent+line)
	}
	return lines
}

// appendElement emits the opening marker, the children one level deeper,
// and the closing marker.
func (r *Renderer) appendElement(lines []string, node *markup.Node, indent string) []string {
	name := node.Name()
	lines = append(lines, indent+"<"+name+attributeSuffix(node)+">")

	childIndent := indent + r.config.Indent
	for _, child := range node.Children() {
		lines = r.appendNode(lines, child, childIndent)
	}

	return append(lines, indent+"</"+name+">")
}

// Package render serializes markup trees to indented text.
//
// Output is composed line by line:
//
//   - a tag node produces an opening marker `<name attr="value">`, its
//     children one indentation unit deeper, and a closing marker `</name>`
//   - a text leaf produces its literal content on one line at the current
//     indentation
//
// Every line ends with a single "\n", including the last one. Empty text
// leaves produce no line, so structural blank lines never appear. Text
// and attribute values are written verbatim; nothing is escaped.
//
// # Basic Usage
//
//	out := render.Render(root, "")
//
// To use a different indentation unit or stream to a writer:
//
//	r := render.NewRenderer(render.RendererConfig{Indent: "  "})
//	err := r.RenderToWriter(w, root, "")
//
// Rendering never mutates the tree and holds no state between calls, so a
// finished tree can be rendered from many goroutines.
package render

package document

import (
	"github.com/vango-dev/tagtree/pkg/html"
	"github.com/vango-dev/tagtree/pkg/markup"
)

// Demo returns the sample document: a title in the head and three lines
// of body text.
func Demo() *markup.Node {
	root, err := html.HTML(
		html.Head(html.Title("An experiment")),
		html.Body(
			"My Contents",
			"<br />",
			"This contents are less important",
		),
	).Build()
	if err != nil {
		panic("document: demo tree: " + err.Error())
	}
	return root
}

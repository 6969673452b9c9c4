// Package html provides the HTML tag vocabulary for tagtree documents.
//
// It defines one markup.Kind per supported tag and two ways to assemble a
// tree from them. Both call only markup.New and (*markup.Node).Register,
// so a second unique child (a second head, a second title) always fails
// with markup.ErrStructuralConflict.
//
// Element constructors take a variadic list of attributes, children and
// strings, and carry any registration error up to the root:
//
//	root, err := html.HTML(html.Lang("en"),
//	    html.Head(html.Title("An experiment")),
//	    html.Body("My Contents", "<br />"),
//	).Build()
//
// Document builds the same tree with nested closures:
//
//	root, err := html.Document("", func(d *html.Builder) error {
//	    if err := d.Head(func(h *html.Builder) error {
//	        return h.Title(func(t *html.Builder) error { return t.Text("An experiment") })
//	    }); err != nil {
//	        return err
//	    }
//	    return d.Body(func(b *html.Builder) error { return b.Text("My Contents") })
//	})
//
// Text and attribute values are inserted verbatim. Use Escaped for text
// that must not be read as markup.
package html

package html

import (
	"strings"

	"github.com/vango-dev/tagtree/pkg/markup"
)

// Attr creates an arbitrary attribute.
func Attr(key, value string) markup.Attr {
	return markup.Attr{Key: key, Value: value}
}

func Lang(lang string) markup.Attr       { return Attr("lang", lang) }
func ID(id string) markup.Attr           { return Attr("id", id) }
func Href(href string) markup.Attr       { return Attr("href", href) }
func Rel(rel string) markup.Attr         { return Attr("rel", rel) }
func Src(src string) markup.Attr         { return Attr("src", src) }
func Name(name string) markup.Attr       { return Attr("name", name) }
func Content(content string) markup.Attr { return Attr("content", content) }
func Charset(charset string) markup.Attr { return Attr("charset", charset) }

// Class joins the non-empty class names with spaces.
func Class(classes ...string) markup.Attr {
	names := make([]string, 0, len(classes))
	for _, c := range classes {
		if c != "" {
			names = append(names, c)
		}
	}
	return Attr("class", strings.Join(names, " "))
}

// Data creates a data-* attribute.
func Data(key, value string) markup.Attr {
	return Attr("data-"+key, value)
}

// EscapedAttr creates an attribute whose value has quotes, markup
// characters and line breaks replaced by entities.
func EscapedAttr(key, value string) markup.Attr {
	return Attr(key, escapeAttr(value))
}

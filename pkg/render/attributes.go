package render

import (
	"strings"

	"github.com/vango-dev/tagtree/pkg/markup"
)

// attributeSuffix formats the attributes that follow the tag name in an
// opening marker: "" without attributes, otherwise ` k1="v1" k2="v2"`
// in key order. Values are inserted verbatim.
func attributeSuffix(node *markup.Node) string {
	attrs := node.Attrs()
	if len(attrs) == 0 {
		return ""
	}

	var b strings.Builder
	for _, attr := range attrs {
		b.WriteByte(' ')
		b.WriteString(attr.Key)
		b.WriteString(`="`)
		b.WriteString(attr.Value)
		b.WriteByte('"')
	}
	return b.String()
}

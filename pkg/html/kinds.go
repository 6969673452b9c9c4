package html

import (
	"sort"

	"github.com/vango-dev/tagtree/pkg/markup"
)

// Unique kinds: at most one per parent.
var (
	KindHTML  = markup.DefineKind("html", false)
	KindHead  = markup.DefineKind("head", false)
	KindTitle = markup.DefineKind("title", false)
	KindBody  = markup.DefineKind("body", false)
)

// Repeatable kinds.
var (
	KindMeta   = markup.DefineKind("meta", true)
	KindLink   = markup.DefineKind("link", true)
	KindScript = markup.DefineKind("script", true)
	KindStyle  = markup.DefineKind("style", true)
	KindH1     = markup.DefineKind("h1", true)
	KindH2     = markup.DefineKind("h2", true)
	KindH3     = markup.DefineKind("h3", true)
	KindP      = markup.DefineKind("p", true)
	KindB      = markup.DefineKind("b", true)
	KindI      = markup.DefineKind("i", true)
	KindEm     = markup.DefineKind("em", true)
	KindStrong = markup.DefineKind("strong", true)
	KindA      = markup.DefineKind("a", true)
	KindUl     = markup.DefineKind("ul", true)
	KindOl     = markup.DefineKind("ol", true)
	KindLi     = markup.DefineKind("li", true)
	KindDiv    = markup.DefineKind("div", true)
	KindSpan   = markup.DefineKind("span", true)
	KindBr     = markup.DefineKind("br", true)
	KindHr     = markup.DefineKind("hr", true)
)

var vocabulary = map[string]*markup.Kind{}

func init() {
	for _, k := range []*markup.Kind{
		KindHTML, KindHead, KindTitle, KindBody,
		KindMeta, KindLink, KindScript, KindStyle,
		KindH1, KindH2, KindH3, KindP, KindB, KindI, KindEm, KindStrong,
		KindA, KindUl, KindOl, KindLi, KindDiv, KindSpan, KindBr, KindHr,
	} {
		vocabulary[k.Name] = k
	}
}

// Lookup returns the kind registered for a tag name.
func Lookup(tag string) (*markup.Kind, bool) {
	k, ok := vocabulary[tag]
	return k, ok
}

// Kinds returns every vocabulary kind sorted by tag name.
func Kinds() []*markup.Kind {
	kinds := make([]*markup.Kind, 0, len(vocabulary))
	for _, k := range vocabulary {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool {
		return kinds[i].Name < kinds[j].Name
	})
	return kinds
}

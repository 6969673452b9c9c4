package render

import (
	"fmt"
	"io"
	"testing"

	"github.com/vango-dev/tagtree/pkg/markup"
)

var (
	benchUl  = markup.DefineKind("ul", true)
	benchLi  = markup.DefineKind("li", true)
	benchDiv = markup.DefineKind("div", true)
)

func benchList(b *testing.B, n int) *markup.Node {
	b.Helper()
	ul := markup.New(benchUl, markup.Attr{Key: "class", Value: "items"})
	for i := 0; i < n; i++ {
		li := markup.New(benchLi, markup.Attr{Key: "id", Value: fmt.Sprintf("item-%d", i)})
		if err := li.Register(markup.Text(fmt.Sprintf("Item %d", i))); err != nil {
			b.Fatal(err)
		}
		if err := ul.Register(li); err != nil {
			b.Fatal(err)
		}
	}
	return ul
}

func benchDeep(b *testing.B, depth int) *markup.Node {
	b.Helper()
	root := markup.New(benchDiv)
	cur := root
	for i := 0; i < depth; i++ {
		next := markup.New(benchDiv)
		if err := cur.Register(next); err != nil {
			b.Fatal(err)
		}
		cur = next
	}
	if err := cur.Register(markup.Text("leaf")); err != nil {
		b.Fatal(err)
	}
	return root
}

func BenchmarkRenderExperiment(b *testing.B) {
	node := buildExperiment(b)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Render(node, "")
	}
}

func BenchmarkRenderLargeList(b *testing.B) {
	node := benchList(b, 1000)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Render(node, "")
	}
}

func BenchmarkRenderDeepTree(b *testing.B) {
	node := benchDeep(b, 200)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Render(node, "")
	}
}

func BenchmarkRenderToWriter(b *testing.B) {
	renderer := NewRenderer(RendererConfig{Indent: "  "})
	node := benchList(b, 1000)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := renderer.RenderToWriter(io.Discard, node, ""); err != nil {
			b.Fatal(err)
		}
	}
}

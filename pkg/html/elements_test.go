package html

import (
	"errors"
	"testing"

	"github.com/vango-dev/tagtree/pkg/markup"
	"github.com/vango-dev/tagtree/pkg/render"
)

const experiment = "<html>\n" +
	"\t<head>\n" +
	"\t\t<title>\n" +
	"\t\t\tAn experiment\n" +
	"\t\t</title>\n" +
	"\t</head>\n" +
	"\t<body>\n" +
	"\t\tMy Contents\n" +
	"\t\t<br />\n" +
	"\t\tThis contents are less important\n" +
	"\t</body>\n" +
	"</html>\n"

func TestElementsExperiment(t *testing.T) {
	root, err := HTML(
		Head(Title("An experiment")),
		Body("My Contents", "<br />", "This contents are less important"),
	).Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := render.Render(root, ""); got != experiment {
		t.Errorf("render mismatch\ngot:\n%s\nwant:\n%s", got, experiment)
	}
}

func TestElementsSecondHeadFails(t *testing.T) {
	root, err := HTML(
		Head(Title("one")),
		Head(Title("two")),
	).Build()

	if !errors.Is(err, markup.ErrStructuralConflict) {
		t.Fatalf("err = %v, want structural conflict", err)
	}
	if root != nil {
		t.Error("no node should be returned when the build fails")
	}

	var conflict *markup.ConflictError
	if !errors.As(err, &conflict) || conflict.Kind != KindHead {
		t.Errorf("conflict should name the head kind, got %v", err)
	}
}

func TestElementsNestedErrorPropagates(t *testing.T) {
	_, err := HTML(
		Body(Div(Div(Title("a"), Title("b")))),
	).Build()
	if !errors.Is(err, markup.ErrStructuralConflict) {
		t.Errorf("nested conflict should reach the root, got %v", err)
	}
}

func TestElementsArguments(t *testing.T) {
	leaf := markup.Text("raw node")
	el := Div(
		nil,
		ID("main"),
		[]markup.Attr{Class("a", "", "b"), Data("x", "1")},
		"text",
		[]Element{Span("s1"), Span("s2")},
		leaf,
		[]*markup.Node{markup.Text("n1"), nil},
	)
	node, err := el.Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantAttrs := []markup.Attr{{Key: "class", Value: "a b"}, {Key: "data-x", Value: "1"}, {Key: "id", Value: "main"}}
	got := node.Attrs()
	if len(got) != len(wantAttrs) {
		t.Fatalf("Attrs() = %v, want %v", got, wantAttrs)
	}
	for i := range got {
		if got[i] != wantAttrs[i] {
			t.Errorf("Attrs()[%d] = %v, want %v", i, got[i], wantAttrs[i])
		}
	}

	if node.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", node.Len())
	}
	if node.Child(0).Text() != "text" {
		t.Errorf("child 0 = %v", node.Child(0))
	}
	if node.Child(1).Kind() != KindSpan || node.Child(2).Kind() != KindSpan {
		t.Error("children 1 and 2 should be spans")
	}
	if node.Child(3) != leaf {
		t.Error("child 3 should be the given node")
	}
}

func TestElementsUnsupportedArgument(t *testing.T) {
	_, err := P(42).Build()
	if !errors.Is(err, ErrUnsupportedArg) {
		t.Errorf("err = %v, want ErrUnsupportedArg", err)
	}
}

func TestElementsAttributesAfterChildren(t *testing.T) {
	node, err := A("home", Href("/")).Build()
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := node.Attr("href"); v != "/" {
		t.Errorf("href = %q", v)
	}
	if got := render.Render(node, ""); got != "<a href=\"/\">\n\thome\n</a>\n" {
		t.Errorf("render = %q", got)
	}
}

func TestCustomKind(t *testing.T) {
	section := markup.DefineKind("section", false)
	_, err := Custom(section, Custom(section)).Build()
	if err != nil {
		t.Errorf("nested same kind is allowed, got %v", err)
	}
	_, err = Div(Custom(section), Custom(section)).Build()
	if !errors.Is(err, markup.ErrStructuralConflict) {
		t.Errorf("sibling unique custom kinds should conflict, got %v", err)
	}
}

func TestSharedChildRejected(t *testing.T) {
	item := Li("shared")
	if _, err := Ul(item).Build(); err != nil {
		t.Fatalf("first use: %v", err)
	}
	_, err := Ol(item).Build()
	if !errors.Is(err, markup.ErrAlreadyAttached) {
		t.Errorf("second parent = %v, want ErrAlreadyAttached", err)
	}

	leaf := Text("twice")
	_, err = P(leaf, leaf).Build()
	if !errors.Is(err, markup.ErrAlreadyAttached) {
		t.Errorf("same leaf twice = %v, want ErrAlreadyAttached", err)
	}
}

func TestTextf(t *testing.T) {
	if got := Textf("%d items", 3).Text(); got != "3 items" {
		t.Errorf("Textf() = %q", got)
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		tag        string
		found      bool
		repeatable bool
	}{
		{"html", true, false},
		{"head", true, false},
		{"title", true, false},
		{"body", true, false},
		{"p", true, true},
		{"br", true, true},
		{"a", true, true},
		{"blink", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			k, ok := Lookup(tt.tag)
			if ok != tt.found {
				t.Fatalf("Lookup(%q) found = %v, want %v", tt.tag, ok, tt.found)
			}
			if ok && k.Repeatable != tt.repeatable {
				t.Errorf("Lookup(%q).Repeatable = %v, want %v", tt.tag, k.Repeatable, tt.repeatable)
			}
		})
	}
}

func TestKindsSorted(t *testing.T) {
	kinds := Kinds()
	if len(kinds) == 0 {
		t.Fatal("Kinds() is empty")
	}
	for i := 1; i < len(kinds); i++ {
		if kinds[i-1].Name >= kinds[i].Name {
			t.Errorf("Kinds() not sorted at %d: %s >= %s", i, kinds[i-1].Name, kinds[i].Name)
		}
	}
}

package errors

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/vango-dev/tagtree/pkg/document"
	"github.com/vango-dev/tagtree/pkg/markup"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "structural conflict",
			code:    "E100",
			wantMsg: "Structural conflict",
			wantCat: CategoryDocument,
		},
		{
			name:    "config error",
			code:    "E120",
			wantMsg: "Invalid configuration",
			wantCat: CategoryConfig,
		},
		{
			name:    "publish error",
			code:    "E160",
			wantMsg: "Publish failed",
			wantCat: CategoryPublish,
		},
		{
			name:    "unknown error code",
			code:    "E999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryCLI, "file %q not found", "site.json")
	if err.Message != `file "site.json" not found` {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Category != CategoryCLI {
		t.Errorf("Category = %q, want %q", err.Category, CategoryCLI)
	}
	if err.Error() != `file "site.json" not found` {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestErrorWrap(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := New("E160").Wrap(cause)

	if err.Error() != "E160: Publish failed: disk full" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "E160") != nil {
		t.Error("FromError(nil) should be nil")
	}

	coded := New("E121")
	if got := FromError(fmt.Errorf("context: %w", coded), "E160"); got != coded {
		t.Error("FromError should return an existing *Error unchanged")
	}

	got := FromError(fmt.Errorf("boom"), "E142")
	if got.Code != "E142" || got.Wrapped == nil {
		t.Errorf("FromError = %+v", got)
	}
}

func TestClassify(t *testing.T) {
	conflict := &markup.ConflictError{
		Kind:  markup.DefineKind("head", false),
		Child: markup.New(markup.DefineKind("head", false)),
	}

	tests := []struct {
		name     string
		err      error
		wantCode string
		wantLoc  string
	}{
		{"conflict", conflict, "E100", ""},
		{
			"conflict with path",
			&document.PathError{Source: "site.json", Path: "$.children[1]", Err: conflict},
			"E100",
			"site.json: $.children[1]",
		},
		{"unknown tag", fmt.Errorf("%w %q", document.ErrUnknownTag, "blink"), "E101", ""},
		{"invalid node", document.ErrInvalidNode, "E102", ""},
		{"text children", markup.ErrTextChildren, "E103", ""},
		{"already attached", fmt.Errorf("%w: <p>", markup.ErrAlreadyAttached), "E104", ""},
		{"other", fmt.Errorf("boom"), "E142", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err, "E142")
			if got.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", got.Code, tt.wantCode)
			}
			if !stderrors.Is(got, tt.err) {
				t.Error("classified error should wrap the original")
			}
			if loc := got.Location.String(); loc != tt.wantLoc {
				t.Errorf("Location = %q, want %q", loc, tt.wantLoc)
			}
		})
	}

	if Classify(nil, "E142") != nil {
		t.Error("Classify(nil) should be nil")
	}
	if got := Classify(conflict, "E142"); !strings.Contains(got.Suggestion, `"head"`) {
		t.Errorf("conflict suggestion = %q", got.Suggestion)
	}
}

func TestLocationString(t *testing.T) {
	tests := []struct {
		loc  *Location
		want string
	}{
		{nil, ""},
		{&Location{File: "a.json"}, "a.json"},
		{&Location{Path: "$.children[0]"}, "$.children[0]"},
		{&Location{File: "a.json", Path: "$"}, "a.json: $"},
	}
	for _, tt := range tests {
		if got := tt.loc.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("E100").
		WithLocation("site.json", "$.children[1]").
		WithSuggestion("Remove the second head").
		Wrap(fmt.Errorf("duplicate"))

	out := err.Format()
	for _, want := range []string{
		"ERROR E100: Structural conflict",
		"site.json: $.children[1]",
		"Cause: duplicate",
		"Hint: Remove the second head",
		"Learn more: https://tagtree.dev/docs/errors/E100",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\033[") {
		t.Error("colors should be disabled")
	}
}

func TestFormatCompact(t *testing.T) {
	err := New("E101").WithLocation("", "$.children[0]")
	if got := err.FormatCompact(); got != "$.children[0]: E101: Unknown tag" {
		t.Errorf("FormatCompact() = %q", got)
	}
}

func TestFormatJSON(t *testing.T) {
	err := New("E100").WithLocation("site.json", "$").Wrap(fmt.Errorf("dup"))

	var decoded map[string]any
	if jerr := json.Unmarshal([]byte(err.FormatJSON()), &decoded); jerr != nil {
		t.Fatalf("FormatJSON() is not valid JSON: %v", jerr)
	}
	if decoded["code"] != "E100" || decoded["category"] != "document" || decoded["cause"] != "dup" {
		t.Errorf("decoded = %v", decoded)
	}
	loc, ok := decoded["location"].(map[string]any)
	if !ok || loc["file"] != "site.json" || loc["path"] != "$" {
		t.Errorf("location = %v", decoded["location"])
	}
}

func TestWrapText(t *testing.T) {
	if wrapText("", 10) != nil {
		t.Error("empty text should wrap to nil")
	}
	lines := wrapText("one two three four five six seven", 10)
	for _, line := range lines {
		if len(line) > 10 {
			t.Errorf("line %q longer than 10", line)
		}
	}
	if strings.Join(lines, " ") != "one two three four five six seven" {
		t.Errorf("wrapText lost words: %v", lines)
	}
}

func TestPrintError(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var buf bytes.Buffer
	PrintError(&buf, New("E141"))
	if !strings.Contains(buf.String(), "ERROR E141: Document not found") {
		t.Errorf("PrintError() = %q", buf.String())
	}

	buf.Reset()
	PrintError(&buf, fmt.Errorf("plain"))
	if !strings.Contains(buf.String(), "ERROR: plain") {
		t.Errorf("PrintError() = %q", buf.String())
	}
}

func TestRegistry(t *testing.T) {
	codes := GetAllCodes()
	for i := 1; i < len(codes); i++ {
		if codes[i-1] >= codes[i] {
			t.Fatalf("GetAllCodes() not sorted: %v", codes)
		}
	}
	for _, code := range codes {
		tmpl, ok := GetTemplate(code)
		if !ok || tmpl.Message == "" || tmpl.Category == "" {
			t.Errorf("template %s incomplete: %+v", code, tmpl)
		}
		if !strings.HasSuffix(tmpl.DocURL, "/"+code) {
			t.Errorf("template %s DocURL = %q", code, tmpl.DocURL)
		}
	}

	Register("E999", ErrorTemplate{Category: CategoryCLI, Message: "Custom"})
	defer delete(registry, "E999")
	if New("E999").Message != "Custom" {
		t.Error("registered template not used")
	}
}

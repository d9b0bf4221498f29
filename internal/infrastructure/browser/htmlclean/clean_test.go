package htmlclean

import (
	"strings"
	"testing"
)

// Utility: компактно проверяем включение/исключение
func contains(haystack, needle string) bool {
	return strings.Contains(haystack, needle)
}

func TestClean_RemovesScriptStyle(t *testing.T) {
	fragment := `
    <div id="main">Hello</div>
    <script>alert("hi")</script>
    <style>.x {}</style>`

	out, err := Clean(fragment, &DefaultConfig)
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}

	if contains(out, "<script") || contains(out, "<style") {
		t.Errorf("script/style tags must be removed, output: %s", out)
	}
	if !contains(out, `id="main"`) {
		t.Errorf("expected to keep normal elements")
	}
}

func TestClean_RemovesComments(t *testing.T) {
	out, err := Clean(`<!-- comment --><div>Text</div>`, nil)
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}

	if contains(out, "comment") {
		t.Errorf("HTML comments must be removed")
	}
	if out != "<div>Text</div>" {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestClean_NestedRemoval(t *testing.T) {
	out, err := Clean(`<ul><li>a<script>x()</script></li><!-- c --><li>b</li></ul>`, nil)
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}

	if out != "<ul><li>a</li><li>b</li></ul>" {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestClean_FiltersAttributes(t *testing.T) {
	fragment := `<a href="https://example.com" class="link" id="x" data-x="1" aria-hidden="true" onclick="go()" style="color:red">Go</a>`

	out, err := Clean(fragment, nil)
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}

	for _, keep := range []string{`href="https://example.com"`, `class="link"`, `id="x"`} {
		if !contains(out, keep) {
			t.Errorf("%s must be kept, output: %s", keep, out)
		}
	}
	for _, drop := range []string{"data-x", "aria-hidden", "onclick", "style"} {
		if contains(out, drop) {
			t.Errorf("%s must be removed, output: %s", drop, out)
		}
	}
}

func TestClean_KeepDataAttrs(t *testing.T) {
	cfg := DefaultConfig
	cfg.DropDataAttrs = false

	out, err := Clean(`<li data-id="7">x</li>`, &cfg)
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}
	if !contains(out, `data-id="7"`) {
		t.Errorf("data-id must be kept, output: %s", out)
	}
}

func TestClean_Truncates(t *testing.T) {
	cfg := DefaultConfig
	cfg.MaxOutputSize = 10

	out, err := Clean(strings.Repeat("<p>long</p>", 10), &cfg)
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}
	if !strings.HasSuffix(out, "<!-- truncated -->") {
		t.Errorf("expected truncation marker, output: %s", out)
	}
}

func TestClean_PlainText(t *testing.T) {
	out, err := Clean("just text", nil)
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}
	if out != "just text" {
		t.Errorf("unexpected output: %q", out)
	}
}

package render

import (
	"strings"
	"testing"
)

func TestHighlight(t *testing.T) {
	code := "func main() {\n\tprintln(1)\n}"
	out := Highlight(code, "go", DefaultCodeStyle)

	if !strings.Contains(out, "\x1b[") {
		t.Error("expected ANSI escapes in highlighted output")
	}
	if !strings.Contains(out, "println") {
		t.Error("highlighted output lost the source")
	}
}

func TestHighlight_UnknownLanguageAndStyle(t *testing.T) {
	out := Highlight("just text", "no-such-language", "no-such-style")
	if !strings.Contains(out, "just text") {
		t.Errorf("expected source in output, got %q", out)
	}
}

func TestCodeBlock(t *testing.T) {
	opts := DefaultOptions().WithStyle(StyleNoTTY).WithWidth(60)

	out := CodeBlock("js", "console.log(1)\n", 3, opts)

	for _, want := range []string{"js", "[3] copy", "console.log(1)", "╭", "╯"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestCodeBlock_NoIndex(t *testing.T) {
	out := CodeBlock("code", "x", 0, DefaultOptions().WithStyle(StyleNoTTY))
	if strings.Contains(out, "copy") {
		t.Errorf("expected no copy hint, got:\n%s", out)
	}
}

func TestCodeBlock_NarrowWidth(t *testing.T) {
	out := CodeBlock("go", "x := 1", 1, DefaultOptions().WithStyle(StyleNoTTY).WithWidth(5))
	if !strings.Contains(out, "x := 1") {
		t.Errorf("narrow block lost its content:\n%s", out)
	}
}

func TestCodeStyleNames(t *testing.T) {
	names := CodeStyleNames()
	found := false
	for _, n := range names {
		if n == DefaultCodeStyle {
			found = true
		}
	}
	if !found {
		t.Errorf("expected %q among chroma styles", DefaultCodeStyle)
	}
}

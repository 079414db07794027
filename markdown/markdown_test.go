package markdown

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func render(md string) string {
	var buf bytes.Buffer
	Render(&buf, md)
	return buf.String()
}

func TestRenderHeadings(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"# Title", "<h1>Title</h1>"},
		{"## Section", "<h2>Section</h2>"},
		{"### Sub", "<h3>Sub</h3>"},
	}
	for _, tt := range tests {
		if got := render(tt.input); got != tt.expected {
			t.Errorf("Render(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestRenderParagraphs(t *testing.T) {
	got := render("first line\nsecond line\n\nnew paragraph")
	want := "<p>first line second line</p><p>new paragraph</p>"
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestRenderInline(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"**bold**", "<p><strong>bold</strong></p>"},
		{"*italic*", "<p><em>italic</em></p>"},
		{"`code`", "<p><code>code</code></p>"},
		{"[text](https://example.com)", `<p><a href="https://example.com">text</a></p>`},
		{"![alt](/public/img.jpg)", `<p><img src="/public/img.jpg" alt="alt"></p>`},
	}
	for _, tt := range tests {
		if got := render(tt.input); got != tt.expected {
			t.Errorf("Render(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestRenderEscapesHTML(t *testing.T) {
	got := render("<script>alert(1)</script>")
	if strings.Contains(got, "<script>") {
		t.Errorf("raw HTML must be escaped, got %q", got)
	}
	if !strings.Contains(got, "&lt;script&gt;") {
		t.Errorf("expected escaped script tag, got %q", got)
	}
}

func TestRenderCodeBlock(t *testing.T) {
	got := render("```\nfmt.Println(\"hi\")\n```")
	want := "<pre><code>fmt.Println(&#34;hi&#34;)\n</code></pre>"
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestRenderCodeBlockPreservesMarkup(t *testing.T) {
	// inline markup must not apply inside fenced blocks
	got := render("```\n**not bold**\n```")
	if strings.Contains(got, "<strong>") {
		t.Errorf("markup applied inside code block: %q", got)
	}
}

func TestRenderUnclosedCodeBlock(t *testing.T) {
	got := render("```\ndangling")
	if !strings.HasSuffix(got, "</code></pre>") {
		t.Errorf("unclosed fence should still close the block, got %q", got)
	}
}

func TestRenderLists(t *testing.T) {
	got := render("- one\n- two")
	want := "<ul><li>one</li><li>two</li></ul>"
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}

	got = render("1. first\n2. second")
	want = "<ol><li>first</li><li>second</li></ol>"
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestRenderBlockquote(t *testing.T) {
	got := render("> quoted\n> more")
	want := "<blockquote><p>quoted</p><p>more</p></blockquote>"
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestRenderMixedDocument(t *testing.T) {
	md := "# Title\n\nIntro paragraph with **bold**.\n\n- a\n- b\n\n> note"
	got := render(md)
	for _, frag := range []string{
		"<h1>Title</h1>",
		"<p>Intro paragraph with <strong>bold</strong>.</p>",
		"<ul><li>a</li><li>b</li></ul>",
		"<blockquote><p>note</p></blockquote>",
	} {
		if !strings.Contains(got, frag) {
			t.Errorf("missing %q in %q", frag, got)
		}
	}
}

func TestMarkdownComponent(t *testing.T) {
	var buf bytes.Buffer
	if err := Markdown("# Hi").Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if buf.String() != "<h1>Hi</h1>" {
		t.Errorf("component output = %q, want <h1>Hi</h1>", buf.String())
	}
}

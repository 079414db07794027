// Package markdown provides a small Markdown-to-HTML renderer exposed as a
// templ component, covering the subset the writer console produces: headings,
// paragraphs, emphasis, inline code, fenced code blocks, links, images,
// blockquotes, and lists.
package markdown

import (
	"bytes"
	"context"
	"html"
	"io"
	"regexp"
	"strings"

	"github.com/a-h/templ"
)

var (
	reBold       = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reItalic     = regexp.MustCompile(`\*([^*]+)\*`)
	reInlineCode = regexp.MustCompile("`([^`]+)`")
	reLink       = regexp.MustCompile(`\[(.*?)\]\((.*?)\)`)
	reImg        = regexp.MustCompile(`!\[(.*?)\]\((.*?)\)`)
	reOrdered    = regexp.MustCompile(`^\d+\.\s+`)
)

// Markdown returns a templ.Component that renders md as HTML.
func Markdown(md string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		Render(&buf, md)
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// Render writes the HTML representation of md to buf.
func Render(buf *bytes.Buffer, md string) {
	lines := strings.Split(md, "\n")
	inPara := false
	inCode := false
	inQuote := false
	inList := false
	inOrdered := false

	closePara := func() {
		if inPara {
			buf.WriteString("</p>")
			inPara = false
		}
	}
	closeQuote := func() {
		if inQuote {
			buf.WriteString("</blockquote>")
			inQuote = false
		}
	}
	closeLists := func() {
		if inList {
			buf.WriteString("</ul>")
			inList = false
		}
		if inOrdered {
			buf.WriteString("</ol>")
			inOrdered = false
		}
	}
	closeBlocks := func() {
		closePara()
		closeQuote()
		closeLists()
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "```") {
			if inCode {
				buf.WriteString("</code></pre>")
				inCode = false
			} else {
				closeBlocks()
				buf.WriteString("<pre><code>")
				inCode = true
			}
			continue
		}
		if inCode {
			buf.WriteString(html.EscapeString(line))
			buf.WriteString("\n")
			continue
		}

		switch {
		case trimmed == "":
			closeBlocks()

		case strings.HasPrefix(trimmed, "### "):
			closeBlocks()
			buf.WriteString("<h3>" + inline(strings.TrimPrefix(trimmed, "### ")) + "</h3>")

		case strings.HasPrefix(trimmed, "## "):
			closeBlocks()
			buf.WriteString("<h2>" + inline(strings.TrimPrefix(trimmed, "## ")) + "</h2>")

		case strings.HasPrefix(trimmed, "# "):
			closeBlocks()
			buf.WriteString("<h1>" + inline(strings.TrimPrefix(trimmed, "# ")) + "</h1>")

		case strings.HasPrefix(trimmed, "> "):
			closePara()
			closeLists()
			if !inQuote {
				buf.WriteString("<blockquote>")
				inQuote = true
			}
			buf.WriteString("<p>" + inline(strings.TrimPrefix(trimmed, "> ")) + "</p>")

		case strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* "):
			closePara()
			closeQuote()
			if inOrdered {
				buf.WriteString("</ol>")
				inOrdered = false
			}
			if !inList {
				buf.WriteString("<ul>")
				inList = true
			}
			buf.WriteString("<li>" + inline(trimmed[2:]) + "</li>")

		case reOrdered.MatchString(trimmed):
			closePara()
			closeQuote()
			if inList {
				buf.WriteString("</ul>")
				inList = false
			}
			if !inOrdered {
				buf.WriteString("<ol>")
				inOrdered = true
			}
			buf.WriteString("<li>" + inline(reOrdered.ReplaceAllString(trimmed, "")) + "</li>")

		default:
			closeQuote()
			closeLists()
			if !inPara {
				buf.WriteString("<p>")
				inPara = true
			} else {
				buf.WriteString(" ")
			}
			buf.WriteString(inline(trimmed))
		}
	}

	if inCode {
		buf.WriteString("</code></pre>")
	}
	closeBlocks()
}

// inline escapes a line and applies inline markup. Escaping happens first so
// markup replacements never introduce raw user HTML.
func inline(s string) string {
	s = html.EscapeString(s)
	s = reImg.ReplaceAllString(s, `<img src="$2" alt="$1">`)
	s = reLink.ReplaceAllString(s, `<a href="$2">$1</a>`)
	s = reBold.ReplaceAllString(s, "<strong>$1</strong>")
	s = reItalic.ReplaceAllString(s, "<em>$1</em>")
	s = reInlineCode.ReplaceAllString(s, "<code>$1</code>")
	return s
}

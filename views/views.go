// Package views renders the public blog pages as templ components built in
// plain Go. The writer console is a separate SPA served elsewhere; only the
// reader-facing surface is rendered here.
package views

import (
	"context"
	"html"
	"io"
	"time"

	"github.com/a-h/templ"

	"github.com/eringen/writedesk/markdown"
)

// Site carries site-wide metadata into every page.
type Site struct {
	Name        string
	URL         string
	Description string
	Author      string
	TitleSuffix string
}

// Page is a published post prepared for rendering.
type Page struct {
	Slug        string
	Title       string
	Excerpt     string
	Body        string
	Tags        []string
	Link        string
	CoverImage  string
	PublishedAt time.Time
}

func component(fn func(ctx context.Context, w io.Writer) error) templ.Component {
	return templ.ComponentFunc(fn)
}

func writeLayoutTop(w io.Writer, site Site, title string) error {
	pageTitle := title
	if site.TitleSuffix != "" {
		pageTitle += " " + site.TitleSuffix
	}
	_, err := io.WriteString(w, `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`+
		`<meta name="viewport" content="width=device-width, initial-scale=1">`+
		`<title>`+html.EscapeString(pageTitle)+`</title>`+
		`<meta name="description" content="`+html.EscapeString(site.Description)+`">`+
		`<link rel="alternate" type="application/rss+xml" href="/feed.xml">`+
		`</head><body><header><a href="/blog">`+html.EscapeString(site.Name)+`</a></header><main>`)
	return err
}

func writeLayoutBottom(w io.Writer, site Site) error {
	footer := site.Author
	if footer == "" {
		footer = site.Name
	}
	_, err := io.WriteString(w, `</main><footer>`+html.EscapeString(footer)+`</footer></body></html>`)
	return err
}

// BlogIndex renders the public post listing, newest first.
func BlogIndex(site Site, posts []Page) templ.Component {
	return component(func(ctx context.Context, w io.Writer) error {
		if err := writeLayoutTop(w, site, site.Name); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `<section class="posts">`); err != nil {
			return err
		}
		for _, p := range posts {
			if err := writePostCard(w, p); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `</section>`); err != nil {
			return err
		}
		return writeLayoutBottom(w, site)
	})
}

func writePostCard(w io.Writer, p Page) error {
	card := `<article class="post-card"><h2><a href="` + html.EscapeString(p.Link) + `">` +
		html.EscapeString(p.Title) + `</a></h2>`
	if !p.PublishedAt.IsZero() {
		card += `<time datetime="` + p.PublishedAt.Format("2006-01-02") + `">` +
			p.PublishedAt.Format("January 2, 2006") + `</time>`
	}
	card += `<p>` + html.EscapeString(p.Excerpt) + `</p>`
	for _, tag := range p.Tags {
		card += `<span class="tag">` + html.EscapeString(tag) + `</span>`
	}
	card += `</article>`
	_, err := io.WriteString(w, card)
	return err
}

// BlogPost renders a single published post with its Markdown body.
func BlogPost(site Site, p Page) templ.Component {
	return component(func(ctx context.Context, w io.Writer) error {
		if err := writeLayoutTop(w, site, p.Title); err != nil {
			return err
		}
		head := `<article class="post"><h1>` + html.EscapeString(p.Title) + `</h1>`
		if !p.PublishedAt.IsZero() {
			head += `<time datetime="` + p.PublishedAt.Format("2006-01-02") + `">` +
				p.PublishedAt.Format("January 2, 2006") + `</time>`
		}
		if p.CoverImage != "" {
			head += `<img class="cover" src="` + html.EscapeString(p.CoverImage) + `" alt="">`
		}
		if _, err := io.WriteString(w, head); err != nil {
			return err
		}
		if err := markdown.Markdown(p.Body).Render(ctx, w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `</article>`); err != nil {
			return err
		}
		return writeLayoutBottom(w, site)
	})
}

// NotFound renders the 404 page.
func NotFound(site Site) templ.Component {
	return component(func(ctx context.Context, w io.Writer) error {
		if err := writeLayoutTop(w, site, "Not found"); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `<h1>Page not found</h1><p><a href="/blog">Back to the blog</a></p>`); err != nil {
			return err
		}
		return writeLayoutBottom(w, site)
	})
}

// ServerError renders the 500 page.
func ServerError(site Site) templ.Component {
	return component(func(ctx context.Context, w io.Writer) error {
		if err := writeLayoutTop(w, site, "Something went wrong"); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `<h1>Something went wrong</h1><p>Try again in a moment.</p>`); err != nil {
			return err
		}
		return writeLayoutBottom(w, site)
	})
}

package writedesk

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/writedesk/views"
)

func handleHomeRedirect(c echo.Context) error {
	return c.Redirect(http.StatusMovedPermanently, "/blog")
}

func (a *App) handleListPublishedPosts(c echo.Context) error {
	posts, err := a.Content.ListPublishedPosts()
	if err != nil {
		return err
	}
	if posts == nil {
		posts = []PublicPostView{}
	}
	return c.JSON(http.StatusOK, posts)
}

// handlePublicPostBySlug returns the post view, or a JSON null with status
// 200 when the slug is unknown or not publicly visible.
func (a *App) handlePublicPostBySlug(c echo.Context) error {
	post, err := a.Content.PublicPostBySlug(c.Param("slug"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

func (a *App) handleBlogIndex(c echo.Context) error {
	posts, err := a.Cache.ListPublished()
	if err != nil {
		return err
	}
	return render(c, views.BlogIndex(a.siteMeta(), blogPages(posts)))
}

func (a *App) handleBlogPost(c echo.Context) error {
	post, ok, err := a.Cache.GetPublished(c.Param("slug"))
	if err != nil {
		return err
	}
	if !ok {
		return renderStatus(c, http.StatusNotFound, views.NotFound(a.siteMeta()))
	}
	return render(c, views.BlogPost(a.siteMeta(), blogPage(post)))
}

func (a *App) siteMeta() views.Site {
	meta := views.Site{
		Name:        a.Config.Name,
		URL:         a.Config.URL,
		Description: a.Config.Description,
	}
	if settings, err := a.Store.Settings(); err == nil {
		meta.Author = settings.AuthorName
		meta.TitleSuffix = settings.SeoTitleSuffix
	}
	return meta
}

func blogPages(posts []Post) []views.Page {
	pages := make([]views.Page, len(posts))
	for i, p := range posts {
		pages[i] = blogPage(p)
	}
	return pages
}

func blogPage(p Post) views.Page {
	page := views.Page{
		Slug:    p.Slug,
		Title:   p.Title,
		Excerpt: p.Excerpt,
		Body:    p.Body,
		Tags:    p.TagNames,
		Link:    "/blog/" + p.Slug,
	}
	if p.PublishedAt != nil {
		page.PublishedAt = p.PublishedAt.UTC()
	}
	if p.CoverImage != nil {
		page.CoverImage = *p.CoverImage
	}
	return page
}

// httpErrorHandler classifies service errors by kind and renders JSON for the
// API namespace and HTML error pages everywhere else.
func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "internal error"
	switch {
	case errors.Is(err, ErrNotFound):
		code = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, ErrConflict):
		code = http.StatusConflict
		message = err.Error()
	case errors.Is(err, ErrValidation):
		code = http.StatusBadRequest
		message = err.Error()
	default:
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if m, ok := he.Message.(string); ok {
				message = m
			}
		}
	}

	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
	}

	if strings.HasPrefix(c.Request().URL.Path, "/api/") {
		_ = c.JSON(code, map[string]string{"message": message})
		return
	}
	if code == http.StatusNotFound {
		_ = renderStatus(c, code, views.NotFound(a.siteMeta()))
		return
	}
	if code >= 500 {
		_ = renderStatus(c, code, views.ServerError(a.siteMeta()))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}

// render writes a templ component as an HTTP 200 HTML response.
func render(c echo.Context, cmp templ.Component) error {
	return renderStatus(c, http.StatusOK, cmp)
}

func renderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

// parsePostID parses the :id route param, allowing only decimal integers.
func parsePostID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid post id")
	}
	return id, nil
}

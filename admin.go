package writedesk

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
)

func (a *App) handleListAdminPosts(c echo.Context) error {
	posts, err := a.Content.ListAdminPosts()
	if err != nil {
		return err
	}
	if posts == nil {
		posts = []PostAdminSummary{}
	}
	return c.JSON(http.StatusOK, posts)
}

func (a *App) handleNewEditorData(c echo.Context) error {
	return c.JSON(http.StatusOK, a.Content.EditorDataNew())
}

func (a *App) handleEditorData(c echo.Context) error {
	// The console also requests /posts/new/editor-data through this route
	// when the param is the literal "new".
	if c.Param("id") == "new" {
		return c.JSON(http.StatusOK, a.Content.EditorDataNew())
	}
	id, err := parsePostID(c)
	if err != nil {
		return err
	}
	data, err := a.Content.EditorData(id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, data)
}

func (a *App) handleSaveDraft(c echo.Context) error {
	var in SaveDraftInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	id, err := a.Content.SaveDraft(in)
	if err != nil {
		return err
	}
	a.Cache.Invalidate()
	return c.JSON(http.StatusOK, map[string]int64{"id": id})
}

func (a *App) handleInsights(c echo.Context) error {
	insights, err := a.Insights.Insights()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, insights)
}

func (a *App) handleGetSettings(c echo.Context) error {
	settings, err := a.Settings.Get()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, settings)
}

func (a *App) handleUpdateSettings(c echo.Context) error {
	var in AdminSettingsView
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	settings, err := a.Settings.Update(in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, settings)
}

type loginRequest struct {
	Password string `json:"password"`
}

func (a *App) handleAdminLogin(c echo.Context) error {
	if a.Config.AdminPassword == "" {
		return echo.NewHTTPError(http.StatusNotFound, "admin login is not configured")
	}
	if !a.loginLimiter.Check(c.RealIP()) {
		return echo.NewHTTPError(http.StatusTooManyRequests, "too many login attempts")
	}
	var in loginRequest
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	if subtle.ConstantTimeCompare([]byte(in.Password), []byte(a.Config.AdminPassword)) != 1 {
		// only failed attempts count toward the limit
		a.loginLimiter.Record(c.RealIP())
		return echo.NewHTTPError(http.StatusUnauthorized, "wrong password")
	}
	if err := setAdminSession(c); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (a *App) handleAdminLogout(c echo.Context) error {
	if a.Config.SessionSecret == "" {
		return c.NoContent(http.StatusNoContent)
	}
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

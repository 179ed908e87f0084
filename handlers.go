package portablepress

import (
	"bytes"
	"crypto/subtle"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

const maxWebhookBody = 16 << 20

func (a *App) handleHome(c echo.Context) error {
	page, err := a.Content.ListPage(c.Request().Context(), 1)
	if err != nil {
		return err
	}
	return renderPage(c, a.Views.List, page)
}

func (a *App) handleList(c echo.Context) error {
	n, ok := pageParam(c)
	if !ok {
		return a.notFound(c)
	}
	page, err := a.Content.ListPage(c.Request().Context(), n)
	if err != nil {
		return err
	}
	if n > 1 && n > page.TotalPages {
		return a.notFound(c)
	}
	return renderPage(c, a.Views.List, page)
}

func (a *App) handlePost(c echo.Context) error {
	slug := strings.Trim(c.Param("*"), "/")
	if s, err := url.PathUnescape(slug); err == nil {
		slug = s
	}
	if slug == "" {
		return a.notFound(c)
	}
	page, err := a.Content.PostPage(c.Request().Context(), slug)
	if errors.Is(err, ErrNotFound) {
		return a.notFound(c)
	}
	if err != nil {
		return err
	}
	return renderPage(c, a.Views.Post, page)
}

func (a *App) handleTags(c echo.Context) error {
	page, err := a.Content.TagsPage(c.Request().Context())
	if err != nil {
		return err
	}
	return renderPage(c, a.Views.Tags, page)
}

func (a *App) handleTag(c echo.Context) error {
	tag := tagSlug(c.Param("tag"))
	n, ok := pageParam(c)
	if !ok || tag == "" {
		return a.notFound(c)
	}
	page, err := a.Content.TagListPage(c.Request().Context(), tag, n)
	if err != nil {
		return err
	}
	if page.TotalPages == 0 || n > page.TotalPages {
		return a.notFound(c)
	}
	return renderPage(c, a.Views.List, page)
}

func (a *App) handleAuthor(c echo.Context) error {
	page, err := a.Content.AuthorPage(c.Request().Context(), c.Param("slug"))
	if errors.Is(err, ErrNotFound) {
		return a.notFound(c)
	}
	if err != nil {
		return err
	}
	return renderPage(c, a.Views.Author, page)
}

func (a *App) handleSitemap(c echo.Context) error {
	ctx := c.Request().Context()
	posts, err := a.Content.AllPosts(ctx)
	if err != nil {
		return err
	}
	counts, err := a.Content.TagCount(ctx)
	if err != nil {
		return err
	}
	return a.renderSitemap(c, StripBody(posts), counts)
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.Content.AllPosts(c.Request().Context())
	if err != nil {
		return err
	}
	return a.renderRSS(c, StripBody(posts))
}

// handleRevalidate is the CMS webhook. With a SQLite source a JSON document
// in the body is stored first; then caches are dropped and artifacts rebuilt.
func (a *App) handleRevalidate(c echo.Context) error {
	if a.Config.RevalidateSecret == "" {
		return a.notFound(c)
	}
	got := c.Request().Header.Get("X-Revalidate-Secret")
	if got == "" {
		got = c.QueryParam("secret")
	}
	if err := a.authorize(c, a.Config.RevalidateSecret, got); err != nil {
		return err
	}

	ctx := c.Request().Context()
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBody))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable body")
	}
	if store, ok := a.source.(*Store); ok && len(bytes.TrimSpace(body)) > 0 {
		if err := store.SaveDocument(ctx, body); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}

	report, err := a.Revalidate(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"revalidated": true,
		"build":       report,
	})
}

func (a *App) handlePreviewEnable(c echo.Context) error {
	if a.Config.PreviewSecret == "" {
		return a.notFound(c)
	}
	if err := a.authorize(c, a.Config.PreviewSecret, c.FormValue("secret")); err != nil {
		return err
	}
	if err := setPreviewSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, localRedirect(c.FormValue("redirect")))
}

func (a *App) handlePreviewDisable(c echo.Context) error {
	if err := clearPreviewSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, localRedirect(c.FormValue("redirect")))
}

// authorize compares a shared secret in constant time, rate-limiting
// failures per client IP.
func (a *App) authorize(c echo.Context, want, got string) error {
	ip := c.RealIP()
	if !a.secretLimiter.Check(ip) {
		return echo.NewHTTPError(http.StatusTooManyRequests, "too many attempts")
	}
	if subtle.ConstantTimeCompare([]byte(want), []byte(got)) != 1 {
		a.secretLimiter.Record(ip)
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid secret")
	}
	return nil
}

func pageParam(c echo.Context) (int, bool) {
	p := c.Param("page")
	if p == "" {
		return 1, true
	}
	n, err := strconv.Atoi(p)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

func localRedirect(target string) string {
	if strings.HasPrefix(target, "/") && !strings.HasPrefix(target, "//") && !strings.HasPrefix(target, "/\\") {
		return target
	}
	return "/"
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	if errors.Is(err, ErrNotFound) {
		_ = a.notFound(c)
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound {
		_ = a.notFound(c)
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.logger.Error("Server error",
			"method", c.Request().Method,
			"uri", c.Request().RequestURI,
			"error", err)
		if a.Views.ServerError == nil {
			_ = c.JSON(code, map[string]string{"message": http.StatusText(code)})
			return
		}
		_ = RenderStatus(c, code, a.Views.ServerError())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}

package portablepress

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

// renderPage renders page through view, or as JSON when no view is set.
func renderPage[T any](c echo.Context, view func(T) templ.Component, page T) error {
	if view == nil {
		return c.JSON(http.StatusOK, page)
	}
	return Render(c, view(page))
}

func (a *App) notFound(c echo.Context) error {
	if a.Views.NotFound == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "not found"})
	}
	return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
}

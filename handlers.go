package ogengine

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/kristoferlund/ogengine/log"
	"github.com/kristoferlund/ogengine/ogimage"
)

type ogImageEntry struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// handleOGImage serves <collection>/<slug>/og-image.png. Slugs may contain
// slashes, so the route is a wildcard and the file name is matched here.
// ?w=N returns a thumbnail N pixels wide.
func (a *App) handleOGImage(c echo.Context) error {
	slug, ok := strings.CutSuffix(c.Param("*"), "/"+OGImageFile)
	if !ok || slug == "" {
		return echo.ErrNotFound
	}

	ctx := c.Request().Context()
	paths, err := a.Endpoint.StaticPaths(ctx)
	if err != nil {
		return err
	}
	sp, found := lo.Find(paths, func(p StaticPath) bool {
		return p.Params.Slug == slug
	})
	if !found {
		return echo.ErrNotFound
	}

	width := 0
	if w := c.QueryParam("w"); w != "" {
		width, err = strconv.Atoi(w)
		if err != nil || width < ogimage.MinThumbnailWidth || width > ogimage.Width {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid width")
		}
	}

	if a.limiter != nil && !a.limiter.Allow(c.RealIP()) {
		return echo.NewHTTPError(http.StatusTooManyRequests, "too many renders")
	}

	if width > 0 && width < ogimage.Width {
		body, err := a.Endpoint.RenderThumbnail(sp.Props, width)
		if err != nil {
			return err
		}
		return c.Blob(http.StatusOK, ogimage.ContentType, body)
	}

	resp, err := a.Endpoint.Get(ctx, APIContext{Params: sp.Params, Props: sp.Props})
	if err != nil {
		return err
	}
	return c.Blob(resp.Status, resp.ContentType, resp.Body)
}

func (a *App) handleIndex(c echo.Context) error {
	paths, err := a.Endpoint.StaticPaths(c.Request().Context())
	if err != nil {
		return err
	}
	collection := a.Endpoint.Collection()
	return c.JSON(http.StatusOK, lo.Map(paths, func(p StaticPath, _ int) ogImageEntry {
		return ogImageEntry{
			Slug:  p.Params.Slug,
			Title: p.Props.Data.Title,
			URL:   OGImageURL(a.Config.URL, collection, p.Params.Slug),
		}
	}))
}

func (a *App) handleSitemap(c echo.Context) error {
	paths, err := a.Endpoint.StaticPaths(c.Request().Context())
	if err != nil {
		return err
	}
	return a.renderSitemap(c, paths)
}

func handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	code := http.StatusInternalServerError
	if errors.As(err, &he) {
		code = he.Code
	}
	if code >= 500 {
		log.L().Error("server error",
			zap.String("uri", c.Request().RequestURI),
			zap.Error(err),
		)
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}

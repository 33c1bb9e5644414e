package ogengine

import (
	"encoding/xml"
	"net/http"

	"github.com/labstack/echo/v4"
)

type sitemapURLSet struct {
	XMLName    xml.Name     `xml:"urlset"`
	XMLNS      string       `xml:"xmlns,attr"`
	XMLNSImage string       `xml:"xmlns:image,attr"`
	URLs       []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string         `xml:"loc"`
	LastMod string         `xml:"lastmod,omitempty"`
	Images  []sitemapImage `xml:"image:image"`
}

type sitemapImage struct {
	Loc   string `xml:"image:loc"`
	Title string `xml:"image:title,omitempty"`
}

// sitemap lists every post page with its Open Graph image attached, using
// the Google image sitemap extension.
func sitemap(site, collection string, paths []StaticPath) sitemapURLSet {
	urls := make([]sitemapURL, 0, len(paths))
	for _, p := range paths {
		mod := p.Props.Data.PubDate
		if p.Props.Data.UpdatedDate != nil {
			mod = *p.Props.Data.UpdatedDate
		}
		urls = append(urls, sitemapURL{
			Loc:     BuildURL(site, collection, p.Params.Slug) + "/",
			LastMod: mod.UTC().Format("2006-01-02"),
			Images: []sitemapImage{{
				Loc:   OGImageURL(site, collection, p.Params.Slug),
				Title: p.Props.Data.Title,
			}},
		})
	}
	return sitemapURLSet{
		XMLNS:      "http://www.sitemaps.org/schemas/sitemap/0.9",
		XMLNSImage: "http://www.google.com/schemas/sitemap-image/1.1",
		URLs:       urls,
	}
}

func (a *App) renderSitemap(c echo.Context, paths []StaticPath) error {
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(sitemap(a.Config.URL, a.Endpoint.Collection(), paths))
}

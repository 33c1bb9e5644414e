package ogengine

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/samber/lo"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string       `xml:"title"`
	Link        string       `xml:"link"`
	Description string       `xml:"description"`
	PubDate     string       `xml:"pubDate"`
	GUID        string       `xml:"guid"`
	Enclosure   rssEnclosure `xml:"enclosure"`
}

type rssEnclosure struct {
	URL    string `xml:"url,attr"`
	Type   string `xml:"type,attr"`
	Length int    `xml:"length,attr"`
}

// feed builds an RSS 2.0 feed of the collection with each post's image as
// its enclosure. The image length is not known before rendering and is
// reported as 0.
func feed(site, author, collection string, paths []StaticPath) rssXML {
	return rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       author,
			Link:        BuildURL(site, collection),
			Description: "Posts by " + author,
			Items: lo.Map(paths, func(p StaticPath, _ int) rssItem {
				postURL := BuildURL(site, collection, p.Params.Slug) + "/"
				return rssItem{
					Title:       p.Props.Data.Title,
					Link:        postURL,
					Description: p.Props.Data.Description,
					PubDate:     p.Props.Data.PubDate.UTC().Format(time.RFC1123Z),
					GUID:        postURL,
					Enclosure: rssEnclosure{
						URL:  OGImageURL(site, collection, p.Params.Slug),
						Type: "image/png",
					},
				}
			}),
		},
	}
}

func (a *App) handleFeed(c echo.Context) error {
	paths, err := a.Endpoint.StaticPaths(c.Request().Context())
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(feed(a.Config.URL, a.Config.Author, a.Endpoint.Collection(), paths))
}

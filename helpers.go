package ogengine

import (
	"net/url"
	"path"
	"strings"
	"unicode"
)

// OGImageFile is the file name of the generated image inside a post route.
const OGImageFile = "og-image.png"

// Slugify converts one path segment to its URL slug the way GitHub builds
// heading anchors: lowercased, punctuation dropped, every space a hyphen.
// Hyphens already present are kept as they are.
func Slugify(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r == ' ':
			b.WriteByte('-')
		case r == '-' || r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsMark(r):
			b.WriteRune(r)
		}
	}
	return b.String()
}

// BuildURL joins a base URL with path segments.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	return u.String()
}

// OGImagePath returns the site-relative path of a post's image,
// e.g. blog/hello-world/og-image.png.
func OGImagePath(collection, slug string) string {
	return path.Join(collection, slug, OGImageFile)
}

// OGImageURL returns the absolute URL of a post's image on the site.
func OGImageURL(site, collection, slug string) string {
	return BuildURL(site, OGImagePath(collection, slug))
}

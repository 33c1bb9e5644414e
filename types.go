package ogengine

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when a requested post does not exist.
	ErrNotFound = errors.New("post not found")
	// ErrInvalidPost is returned for posts lacking a title, a description or
	// a publish date.
	ErrInvalidPost = errors.New("invalid post")
	// ErrDuplicateSlug is returned when a collection holds two posts with the
	// same slug.
	ErrDuplicateSlug = errors.New("duplicate slug")
)

// PostData is the frontmatter of a post.
type PostData struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	PubDate     time.Time  `json:"pubDate"`
	UpdatedDate *time.Time `json:"updatedDate,omitempty"`
	HeroImage   string     `json:"heroImage,omitempty"`
	Draft       bool       `json:"draft,omitempty"`
}

// Post is a content entry as served by a ContentStore.
type Post struct {
	Slug       string   `json:"slug"`
	Collection string   `json:"collection"`
	Data       PostData `json:"data"`
	Body       string   `json:"-"`
}

// Validate reports whether p carries everything the OG image needs.
func (p Post) Validate() error {
	var missing []string
	if strings.TrimSpace(p.Slug) == "" {
		missing = append(missing, "slug")
	}
	for _, seg := range strings.Split(p.Slug, "/") {
		if seg == ".." || seg == "." {
			return fmt.Errorf("%w %q: slug must not contain relative segments", ErrInvalidPost, p.Slug)
		}
	}
	if strings.TrimSpace(p.Data.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(p.Data.Description) == "" {
		missing = append(missing, "description")
	}
	if p.Data.PubDate.IsZero() {
		missing = append(missing, "pubDate")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w %q: missing %s", ErrInvalidPost, p.Slug, strings.Join(missing, ", "))
	}
	return nil
}

// Params are the routed parameters of a static path.
type Params struct {
	Slug string `json:"slug"`
}

// StaticPath declares one route the pipeline must generate, together with
// the props handed to the endpoint for it.
type StaticPath struct {
	Params Params `json:"params"`
	Props  Post   `json:"props"`
}

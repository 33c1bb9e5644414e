package ogengine

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/kristoferlund/ogengine/fonts"
	"github.com/kristoferlund/ogengine/ogimage"
)

// APIContext is what a pipeline hands to an endpoint for one static path.
type APIContext struct {
	Params Params
	Props  Post
}

// Response is the full result of an endpoint call.
type Response struct {
	Status      int
	ContentType string
	Body        []byte
}

// Endpoint is the page-generation contract driven by the server and the
// static build: enumerate the routes, then produce the body of each.
type Endpoint interface {
	StaticPaths(ctx context.Context) ([]StaticPath, error)
	Get(ctx context.Context, ac APIContext) (*Response, error)
}

// OGImageEndpoint renders the Open Graph image of every post of a collection.
type OGImageEndpoint struct {
	store      ContentStore
	collection string
	author     string
	renderer   *ogimage.Renderer
}

// NewOGImageEndpoint returns an endpoint over store drawing with set. The
// font set is shared read-only by all renders.
func NewOGImageEndpoint(store ContentStore, set *fonts.FontSet, author, collection string) *OGImageEndpoint {
	if collection == "" {
		collection = BlogCollection
	}
	return &OGImageEndpoint{
		store:      store,
		collection: collection,
		author:     author,
		renderer:   ogimage.NewRenderer(set),
	}
}

// Collection returns the collection the endpoint serves.
func (e *OGImageEndpoint) Collection() string {
	return e.collection
}

// StaticPaths enumerates one path per post.
func (e *OGImageEndpoint) StaticPaths(ctx context.Context) ([]StaticPath, error) {
	return CollectionPaths(ctx, e.store, e.collection)
}

// Get renders the image for the post in ac.Props.
func (e *OGImageEndpoint) Get(ctx context.Context, ac APIContext) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	body, err := e.Render(ac.Props)
	if err != nil {
		return nil, err
	}
	return &Response{
		Status:      http.StatusOK,
		ContentType: ogimage.ContentType,
		Body:        body,
	}, nil
}

// Render returns the PNG bytes of p's card.
func (e *OGImageEndpoint) Render(p Post) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	body, err := e.renderer.RenderCard(Card(e.author, p))
	if err != nil {
		return nil, fmt.Errorf("render %q: %w", p.Slug, err)
	}
	return body, nil
}

// RenderThumbnail returns p's card scaled down to width as PNG.
func (e *OGImageEndpoint) RenderThumbnail(p Post, width int) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	img, err := e.renderer.Render(ogimage.PostCard(Card(e.author, p)))
	if err != nil {
		return nil, fmt.Errorf("render %q: %w", p.Slug, err)
	}
	var buf bytes.Buffer
	if err := ogimage.EncodePNG(&buf, ogimage.Thumbnail(img, width)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Card maps a post onto the card template fields.
func Card(author string, p Post) ogimage.Card {
	return ogimage.Card{
		Author:      author,
		Date:        ogimage.FormatDate(p.Data.PubDate),
		Title:       p.Data.Title,
		Description: p.Data.Description,
	}
}

package ogengine

import (
	"context"
	"fmt"

	"github.com/samber/lo"
)

// GetStaticPaths declares one route per post of the blog collection.
func GetStaticPaths(ctx context.Context, store ContentStore) ([]StaticPath, error) {
	return CollectionPaths(ctx, store, BlogCollection)
}

// CollectionPaths returns a static path for every post of collection, in the
// store's order. Every post must validate and slugs must be unique; a single
// offending post fails the whole enumeration rather than being skipped.
func CollectionPaths(ctx context.Context, store ContentStore, collection string) ([]StaticPath, error) {
	posts, err := store.GetCollection(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("get collection %q: %w", collection, err)
	}

	seen := make(map[string]struct{}, len(posts))
	for _, p := range posts {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, dup := seen[p.Slug]; dup {
			return nil, fmt.Errorf("%w %q in collection %q", ErrDuplicateSlug, p.Slug, collection)
		}
		seen[p.Slug] = struct{}{}
	}

	return lo.Map(posts, func(p Post, _ int) StaticPath {
		return StaticPath{
			Params: Params{Slug: p.Slug},
			Props:  p,
		}
	}), nil
}

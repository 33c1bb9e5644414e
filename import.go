package ogengine

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kristoferlund/ogengine/log"
)

// ImportReport counts the changes an Import made.
type ImportReport struct {
	Added     int
	Updated   int
	Unchanged int
	Deleted   int
}

// Import copies every post of collection from src into dst. Posts stored
// with identical content are left untouched. With prune set, stored posts
// that src no longer has are deleted. src is enumerated like a build, so an
// invalid or duplicate post aborts the import before anything is written.
func Import(ctx context.Context, src ContentStore, dst *SQLStore, collection string, prune bool) (*ImportReport, error) {
	paths, err := CollectionPaths(ctx, src, collection)
	if err != nil {
		return nil, err
	}

	report := &ImportReport{}
	keep := make(map[string]struct{}, len(paths))
	for _, sp := range paths {
		p := sp.Props
		p.Collection = collection
		keep[p.Slug] = struct{}{}

		existing, err := dst.GetPost(ctx, collection, p.Slug)
		switch {
		case errors.Is(err, ErrNotFound):
			report.Added++
		case err != nil:
			return nil, fmt.Errorf("import %q: %w", p.Slug, err)
		case samePost(existing, p):
			report.Unchanged++
			continue
		default:
			report.Updated++
		}
		if err := dst.SavePost(ctx, p); err != nil {
			return nil, fmt.Errorf("import %q: %w", p.Slug, err)
		}
	}

	if prune {
		stored, err := dst.GetCollection(ctx, collection)
		if err != nil {
			return nil, err
		}
		for _, p := range stored {
			if _, ok := keep[p.Slug]; ok {
				continue
			}
			if err := dst.DeletePost(ctx, collection, p.Slug); err != nil {
				return nil, fmt.Errorf("prune %q: %w", p.Slug, err)
			}
			report.Deleted++
		}
	}

	log.L().Info("import finished",
		zap.String("collection", collection),
		zap.Int("added", report.Added),
		zap.Int("updated", report.Updated),
		zap.Int("unchanged", report.Unchanged),
		zap.Int("deleted", report.Deleted),
	)
	return report, nil
}

func samePost(a, b Post) bool {
	if a.Data.Title != b.Data.Title ||
		a.Data.Description != b.Data.Description ||
		a.Data.HeroImage != b.Data.HeroImage ||
		a.Data.Draft != b.Data.Draft ||
		a.Body != b.Body ||
		!a.Data.PubDate.Equal(b.Data.PubDate) {
		return false
	}
	if a.Data.UpdatedDate == nil || b.Data.UpdatedDate == nil {
		return a.Data.UpdatedDate == b.Data.UpdatedDate
	}
	return a.Data.UpdatedDate.Equal(*b.Data.UpdatedDate)
}

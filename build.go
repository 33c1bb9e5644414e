package ogengine

import (
	"context"
	"fmt"
	"path"
	"runtime"
	"sync"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/kristoferlund/ogengine/log"
)

// BuildOptions tunes a static build.
type BuildOptions struct {
	// Collection is the route prefix of the written files (default "blog").
	Collection string
	// Concurrency bounds the number of parallel renders (default GOMAXPROCS).
	Concurrency int
}

// BuildReport describes a finished build.
type BuildReport struct {
	Files    []string // written files, in static path order
	Duration time.Duration
}

// Build enumerates the endpoint's static paths and writes one image per path
// to <collection>/<slug>/og-image.png on out. Renders run on a bounded pool
// of workers; the first failure cancels the rest and fails the build.
func Build(ctx context.Context, ep Endpoint, out afero.Fs, opts BuildOptions) (*BuildReport, error) {
	start := time.Now()
	if opts.Collection == "" {
		opts.Collection = BlogCollection
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = runtime.GOMAXPROCS(0)
	}

	paths, err := ep.StaticPaths(ctx)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	files := make([]string, len(paths))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for range min(opts.Concurrency, max(len(paths), 1)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				file, err := buildOne(ctx, ep, out, opts.Collection, paths[i])
				if err != nil {
					cancel(err)
					continue
				}
				files[i] = file
			}
		}()
	}

feed:
	for i := range paths {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if err := context.Cause(ctx); err != nil {
		return nil, err
	}

	report := &BuildReport{Files: files, Duration: time.Since(start)}
	log.L().Info("build finished",
		zap.Int("images", len(files)),
		zap.Duration("duration", report.Duration),
	)
	return report, nil
}

func buildOne(ctx context.Context, ep Endpoint, out afero.Fs, collection string, sp StaticPath) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	resp, err := ep.Get(ctx, APIContext{Params: sp.Params, Props: sp.Props})
	if err != nil {
		return "", fmt.Errorf("build %q: %w", sp.Params.Slug, err)
	}
	if resp.Status >= 300 {
		return "", fmt.Errorf("build %q: endpoint returned status %d", sp.Params.Slug, resp.Status)
	}
	if len(resp.Body) == 0 {
		return "", fmt.Errorf("build %q: empty body", sp.Params.Slug)
	}

	file := OGImagePath(collection, sp.Params.Slug)
	if err := out.MkdirAll(path.Dir(file), 0o755); err != nil {
		return "", fmt.Errorf("build %q: %w", sp.Params.Slug, err)
	}
	if err := afero.WriteFile(out, file, resp.Body, 0o644); err != nil {
		return "", fmt.Errorf("build %q: %w", sp.Params.Slug, err)
	}
	log.L().Debug("wrote image", zap.String("file", file))
	return file, nil
}

// Package ogengine generates Open Graph preview images for the posts of a
// blog.
//
// Posts come from a ContentStore (a directory of Markdown files or a SQLite
// database). An OGImageEndpoint enumerates one static path per post and
// renders a 1200x630 PNG card for each. The same endpoint is driven by the
// HTTP server (App.Start) and by the static build (App.Build).
package ogengine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/kristoferlund/ogengine/fonts"
	"github.com/kristoferlund/ogengine/log"
)

const shutdownTimeout = 10 * time.Second

// App wires together the content store, cache, fonts, endpoint and server.
type App struct {
	Config   SiteConfig
	Echo     *echo.Echo
	Cache    *CollectionCache
	Fonts    *fonts.FontSet
	Endpoint *OGImageEndpoint

	fs      afero.Fs
	store   ContentStore
	limiter *RenderLimiter
	closers []io.Closer

	initOnce  sync.Once
	initErr   error
	setupOnce sync.Once
}

// New creates an App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	a := &App{
		Config: cfg,
		Echo:   e,
		fs:     afero.NewOsFs(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Init opens the content store and loads the fonts. It runs once; later
// calls return the first result. A missing font is fatal.
func (a *App) Init() error {
	a.initOnce.Do(func() {
		a.initErr = a.init()
	})
	return a.initErr
}

func (a *App) init() error {
	if err := a.Config.Validate(); err != nil {
		return err
	}

	if a.store == nil {
		if a.Config.DatabasePath != "" {
			s, err := NewSQLStore(a.Config.DatabasePath)
			if err != nil {
				return fmt.Errorf("ogengine: init store: %w", err)
			}
			a.store = s
			a.closers = append(a.closers, s)
		} else {
			a.store = NewDirStore(a.fs, a.Config.ContentDir)
		}
	}
	a.Cache = NewCollectionCache(a.store, a.Config.CacheTTL)

	if a.Fonts == nil {
		set, err := fonts.Load(a.fs, a.Config.FontRegular, a.Config.FontBold)
		if err != nil {
			return fmt.Errorf("ogengine: load fonts: %w", err)
		}
		a.Fonts = set
	}

	a.Endpoint = NewOGImageEndpoint(a.Cache, a.Fonts, a.Config.Author, a.Config.Collection)

	log.L().Info("initialized",
		zap.String("collection", a.Config.Collection),
		zap.Strings("fonts", a.Fonts.Families()),
	)
	return nil
}

// Setup initializes the app and registers middleware and routes. After it
// returns, a.Echo can serve requests.
func (a *App) Setup() error {
	if err := a.Init(); err != nil {
		return err
	}
	a.setupOnce.Do(func() {
		if a.Config.RenderLimit > 0 {
			a.limiter = NewRenderLimiter(a.Config.RenderLimit, a.Config.RenderWindow)
		}
		a.setupMiddleware()
		a.setupRoutes()
	})
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo
	e.GET("/healthz", handleHealth)
	e.GET("/og-images.json", a.handleIndex)
	e.GET("/og-sitemap.xml", a.handleSitemap)
	e.GET("/rss.xml", a.handleFeed)
	e.GET("/"+a.Endpoint.Collection()+"/*", a.handleOGImage)
}

// Start serves images until ctx is done, then shuts the server down
// gracefully.
func (a *App) Start(ctx context.Context) error {
	if err := a.Setup(); err != nil {
		return err
	}

	if a.Config.Watch {
		if ds, ok := a.store.(*DirStore); ok {
			go func() {
				if err := Watch(ctx, ds.Root(), a.Cache); err != nil {
					log.L().Error("watch failed", zap.Error(err))
				}
			}()
		} else {
			log.L().Warn("watch is only supported for content directories")
		}
	}

	errc := make(chan error, 1)
	go func() {
		log.L().Info("starting server", zap.String("addr", a.Config.Addr))
		errc <- a.Echo.Start(a.Config.Addr)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.L().Info("stopping server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.Echo.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Build renders every image into Config.OutDir.
func (a *App) Build(ctx context.Context) (*BuildReport, error) {
	if err := a.Init(); err != nil {
		return nil, err
	}
	if err := a.fs.MkdirAll(a.Config.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("ogengine: create out dir: %w", err)
	}
	out := afero.NewBasePathFs(a.fs, a.Config.OutDir)
	return Build(ctx, a.Endpoint, out, BuildOptions{
		Collection:  a.Endpoint.Collection(),
		Concurrency: a.Config.Concurrency,
	})
}

// Close releases the store and the render limiter.
func (a *App) Close() error {
	if a.limiter != nil {
		a.limiter.Stop()
	}
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

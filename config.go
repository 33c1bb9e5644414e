package ogengine

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/kristoferlund/ogengine/fonts"
)

// SiteConfig holds all configuration for an ogengine site.
type SiteConfig struct {
	Author string `mapstructure:"author"` // Label in the card's top row (default "Kristofer Lund")
	URL    string `mapstructure:"url"`    // Canonical site URL (default "http://localhost:3000")
	Addr   string `mapstructure:"addr"`   // Listen address (default ":3000")

	ContentDir   string `mapstructure:"content_dir"`   // Markdown collections (default "src/content")
	Collection   string `mapstructure:"collection"`    // Collection to render (default "blog")
	DatabasePath string `mapstructure:"database_path"` // SQLite path; when set, replaces ContentDir

	FontRegular string `mapstructure:"font_regular"` // default ./public/fonts/atkinson-regular.woff
	FontBold    string `mapstructure:"font_bold"`    // default ./public/fonts/atkinson-bold.woff

	OutDir      string        `mapstructure:"out_dir"`     // Static build output (default "dist")
	Concurrency int           `mapstructure:"concurrency"` // Parallel renders in a build (default GOMAXPROCS)
	CacheTTL    time.Duration `mapstructure:"cache_ttl"`   // Collection cache TTL (default 5min)
	Watch       bool          `mapstructure:"watch"`       // Invalidate the cache on content changes while serving

	RenderLimit  int           `mapstructure:"render_limit"`  // Renders per client per window, 0 disables
	RenderWindow time.Duration `mapstructure:"render_window"` // default 1min
}

func (c *SiteConfig) setDefaults() {
	if c.Author == "" {
		c.Author = "Kristofer Lund"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.ContentDir == "" {
		c.ContentDir = "src/content"
	}
	if c.Collection == "" {
		c.Collection = BlogCollection
	}
	if c.FontRegular == "" {
		c.FontRegular = fonts.DefaultRegularPath
	}
	if c.FontBold == "" {
		c.FontBold = fonts.DefaultBoldPath
	}
	if c.OutDir == "" {
		c.OutDir = "dist"
	}
	if c.Concurrency <= 0 {
		c.Concurrency = runtime.GOMAXPROCS(0)
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = 5 * time.Minute
	}
	if c.RenderWindow == 0 {
		c.RenderWindow = time.Minute
	}
}

// Validate checks the settings that have no sensible default.
func (c SiteConfig) Validate() error {
	if strings.Contains(c.Collection, "/") || strings.Contains(c.Collection, "..") {
		return fmt.Errorf("config: invalid collection %q", c.Collection)
	}
	if c.RenderLimit < 0 {
		return errors.New("config: render_limit must not be negative")
	}
	if c.CacheTTL < 0 {
		return errors.New("config: cache_ttl must not be negative")
	}
	if c.RenderLimit > 0 && c.RenderWindow <= 0 {
		return errors.New("config: render_window must be positive when render_limit is set")
	}
	return nil
}

// LoadConfig reads ogengine.{yaml,toml,json} from the working directory, or
// the file at path when given, and applies OG_* environment overrides
// (OG_AUTHOR, OG_FONT_BOLD, ...). A missing default config file is not an
// error; a missing explicit one is.
func LoadConfig(path string) (SiteConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("og")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Keys must be known to viper for environment-only values to reach
	// Unmarshal.
	defaults := SiteConfig{}
	defaults.setDefaults()
	v.SetDefault("author", defaults.Author)
	v.SetDefault("url", defaults.URL)
	v.SetDefault("addr", defaults.Addr)
	v.SetDefault("content_dir", defaults.ContentDir)
	v.SetDefault("collection", defaults.Collection)
	v.SetDefault("database_path", "")
	v.SetDefault("font_regular", defaults.FontRegular)
	v.SetDefault("font_bold", defaults.FontBold)
	v.SetDefault("out_dir", defaults.OutDir)
	v.SetDefault("concurrency", 0)
	v.SetDefault("cache_ttl", defaults.CacheTTL)
	v.SetDefault("watch", false)
	v.SetDefault("render_limit", 0)
	v.SetDefault("render_window", defaults.RenderWindow)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("ogengine")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return SiteConfig{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg SiteConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return SiteConfig{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.setDefaults()
	return cfg, cfg.Validate()
}

// Option configures additional App behavior.
type Option func(*App)

// WithFs sets the filesystem fonts and content are read from (default the
// OS filesystem).
func WithFs(fsys afero.Fs) Option {
	return func(a *App) {
		a.fs = fsys
	}
}

// WithStore replaces the store derived from the configuration.
func WithStore(s ContentStore) Option {
	return func(a *App) {
		a.store = s
	}
}

// WithFonts supplies an already loaded font set instead of reading
// FontRegular and FontBold.
func WithFonts(set *fonts.FontSet) Option {
	return func(a *App) {
		a.Fonts = set
	}
}

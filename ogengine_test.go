package ogengine

import (
	"context"
	"os"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppInitMissingFonts(t *testing.T) {
	a := New(SiteConfig{}, WithFs(afero.NewMemMapFs()), WithStore(newMemStore()))
	err := a.Init()
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "atkinson-regular.woff")

	// Init is not retried.
	assert.Equal(t, err, a.Init())
	assert.Equal(t, err, a.Setup())
}

func TestAppInitInvalidConfig(t *testing.T) {
	a := New(SiteConfig{Collection: "../etc"}, WithStore(newMemStore()), WithFonts(testFontSet(t)))
	assert.Error(t, a.Init())
}

func TestAppInitDirStoreFromConfig(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "content/blog/hello.md", []byte(`---
title: Hello
description: First post
pubDate: 2024-03-05
---
Body
`), 0o644))

	a := New(SiteConfig{ContentDir: "content"}, WithFs(fsys), WithFonts(testFontSet(t)))
	require.NoError(t, a.Init())
	defer a.Close()

	paths, err := a.Endpoint.StaticPaths(context.Background())
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.Equal(t, "hello", paths[0].Params.Slug)
}

func TestAppBuild(t *testing.T) {
	fsys := afero.NewMemMapFs()
	a := New(SiteConfig{OutDir: "site/dist"},
		WithFs(fsys),
		WithStore(newMemStore(testPost("hello-world", "Hello World", 5))),
		WithFonts(testFontSet(t)),
	)
	defer a.Close()

	report, err := a.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"blog/hello-world/og-image.png"}, report.Files)

	exists, err := afero.Exists(fsys, "site/dist/blog/hello-world/og-image.png")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestAppStartStopsOnCancel(t *testing.T) {
	a := New(SiteConfig{Addr: "127.0.0.1:0"},
		WithStore(newMemStore()),
		WithFonts(testFontSet(t)),
	)
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Start(ctx) }()

	cancel()
	assert.NoError(t, <-done)
}

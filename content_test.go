package ogengine

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEntry(t *testing.T, fsys afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fsys, path, []byte(content), 0o644))
}

func TestParseEntry(t *testing.T) {
	raw := "---\n" +
		"title: Hello World\n" +
		"description: 'A test post'\n" +
		"pubDate: 2024-03-05\n" +
		"updatedDate: 'Jul 8, 2024'\n" +
		"heroImage: /blog-placeholder-1.jpg\n" +
		"---\n\n# Hello\n\nBody text.\n"

	p, err := ParseEntry("hello-world", []byte(raw))
	require.NoError(t, err)

	assert.Equal(t, "hello-world", p.Slug)
	assert.Equal(t, "Hello World", p.Data.Title)
	assert.Equal(t, "A test post", p.Data.Description)
	assert.Equal(t, time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC), p.Data.PubDate)
	require.NotNil(t, p.Data.UpdatedDate)
	assert.Equal(t, time.Date(2024, time.July, 8, 0, 0, 0, 0, time.UTC), *p.Data.UpdatedDate)
	assert.Equal(t, "/blog-placeholder-1.jpg", p.Data.HeroImage)
	assert.Equal(t, "# Hello\n\nBody text.", p.Body)
	assert.NoError(t, p.Validate())
}

func TestParseEntryTimestamps(t *testing.T) {
	raw := "---\r\ntitle: T\r\ndescription: D\r\npubDate: 2024-03-05T00:00:00.000Z\r\nslug: /custom/slug/\r\n---\r\n"
	p, err := ParseEntry("ignored", []byte(raw))
	require.NoError(t, err)
	assert.Equal(t, "custom/slug", p.Slug)
	assert.Equal(t, "2024-03-05", p.Data.PubDate.Format("2006-01-02"))
}

func TestParseEntryErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"no frontmatter", "# just markdown\n"},
		{"unterminated", "---\ntitle: x\n"},
		{"bad yaml", "---\ntitle: [unclosed\n---\n"},
		{"bad date", "---\ntitle: x\npubDate: not a date\n---\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseEntry("x", []byte(tt.raw))
			assert.Error(t, err)
		})
	}
}

func TestParseEntryEmptyFrontmatter(t *testing.T) {
	p, err := ParseEntry("empty", []byte("---\n---\nbody"))
	require.NoError(t, err)
	assert.Equal(t, "body", p.Body)
	assert.ErrorIs(t, p.Validate(), ErrInvalidPost)
}

func TestEntrySlug(t *testing.T) {
	tests := []struct {
		rel  string
		want string
	}{
		{"hello-world.md", "hello-world"},
		{"Hello World.mdx", "hello-world"},
		{"2024/Year in Review.md", "2024/year-in-review"},
		{"series/part-one/index.md", "series/part-one"},
		{"index.md", "index"},
		{"hello--world.md", "hello--world"},
		{"v1.2-release.md", "v12-release"},
		{"-leading.md", "-leading"},
		{"2024/Index.md", "2024"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, entrySlug(tt.rel), "entrySlug(%q)", tt.rel)
	}
}

func TestDirStoreGetCollection(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeEntry(t, fsys, "content/blog/first-post.md",
		"---\ntitle: First\ndescription: One\npubDate: 2024-01-01\n---\n")
	writeEntry(t, fsys, "content/blog/second-post.mdx",
		"---\ntitle: Second\ndescription: Two\npubDate: 2024-02-01\n---\n")
	writeEntry(t, fsys, "content/blog/2024/nested/index.md",
		"---\ntitle: Nested\ndescription: Three\npubDate: 2024-02-01\n---\n")
	writeEntry(t, fsys, "content/blog/draft.md",
		"---\ntitle: Draft\ndescription: Hidden\npubDate: 2024-03-01\ndraft: true\n---\n")
	writeEntry(t, fsys, "content/blog/_partial.md", "not an entry")
	writeEntry(t, fsys, "content/blog/notes.txt", "ignored")
	writeEntry(t, fsys, "content/other/elsewhere.md",
		"---\ntitle: Other\ndescription: Other\npubDate: 2024-04-01\n---\n")

	s := NewDirStore(fsys, "content")
	posts, err := s.GetCollection(context.Background(), BlogCollection)
	require.NoError(t, err)

	slugs := make([]string, len(posts))
	for i, p := range posts {
		slugs[i] = p.Slug
		assert.Equal(t, BlogCollection, p.Collection)
	}
	// Newest first, ties broken by slug.
	assert.Equal(t, []string{"2024/nested", "second-post", "first-post"}, slugs)
}

func TestDirStoreKeepsFileSlugs(t *testing.T) {
	fsys := afero.NewMemMapFs()
	for i, name := range []string{"hello--world.md", "v1.2-release.md", "-leading.md"} {
		writeEntry(t, fsys, "content/blog/"+name,
			fmt.Sprintf("---\ntitle: T\ndescription: D\npubDate: 2024-01-0%d\n---\n", i+1))
	}

	posts, err := NewDirStore(fsys, "content").GetCollection(context.Background(), BlogCollection)
	require.NoError(t, err)

	slugs := make([]string, len(posts))
	for i, p := range posts {
		slugs[i] = p.Slug
	}
	assert.Equal(t, []string{"-leading", "v12-release", "hello--world"}, slugs)
}

func TestDirStoreMissingCollection(t *testing.T) {
	s := NewDirStore(afero.NewMemMapFs(), "content")
	_, err := s.GetCollection(context.Background(), BlogCollection)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDirStoreMalformedEntryFails(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeEntry(t, fsys, "content/blog/broken.md", "no frontmatter here")

	_, err := NewDirStore(fsys, "content").GetCollection(context.Background(), BlogCollection)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.md")
}

func TestDirStoreHonorsContext(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeEntry(t, fsys, "content/blog/a.md", "---\ntitle: A\ndescription: A\npubDate: 2024-01-01\n---\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewDirStore(fsys, "content").GetCollection(ctx, BlogCollection)
	assert.ErrorIs(t, err, context.Canceled)
}

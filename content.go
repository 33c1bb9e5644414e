package ogengine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

var contentExtensions = map[string]bool{
	".md":       true,
	".mdx":      true,
	".markdown": true,
}

// DirStore reads collections from a content directory laid out as
// <root>/<collection>/**/<entry>.md, each file starting with a YAML
// frontmatter block.
type DirStore struct {
	fs   afero.Fs
	root string
}

// NewDirStore returns a DirStore over root on fsys.
func NewDirStore(fsys afero.Fs, root string) *DirStore {
	return &DirStore{fs: fsys, root: root}
}

// Root returns the content directory.
func (s *DirStore) Root() string {
	return s.root
}

type frontMatter struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	PubDate     string `yaml:"pubDate"`
	UpdatedDate string `yaml:"updatedDate"`
	HeroImage   string `yaml:"heroImage"`
	Draft       bool   `yaml:"draft"`
	Slug        string `yaml:"slug"`
}

// GetCollection parses every entry of the collection, skipping drafts, and
// returns them newest first. A missing collection directory yields an error.
func (s *DirStore) GetCollection(ctx context.Context, name string) ([]Post, error) {
	dir := filepath.Join(s.root, name)
	if _, err := s.fs.Stat(dir); err != nil {
		return nil, fmt.Errorf("collection %q: %w", name, err)
	}

	var posts []Post
	err := afero.Walk(s.fs, dir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if info.IsDir() {
			if p != dir && strings.HasPrefix(info.Name(), "_") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(info.Name(), "_") || !contentExtensions[strings.ToLower(filepath.Ext(p))] {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		raw, err := afero.ReadFile(s.fs, p)
		if err != nil {
			return err
		}
		post, err := ParseEntry(entrySlug(rel), raw)
		if err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
		if post.Data.Draft {
			return nil
		}
		post.Collection = name
		posts = append(posts, post)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sortPosts(posts)
	return posts, nil
}

// ParseEntry splits raw into frontmatter and body and decodes the
// frontmatter. A slug key in the frontmatter overrides the given slug.
func ParseEntry(slug string, raw []byte) (Post, error) {
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	raw = bytes.ReplaceAll(raw, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(raw, []byte("---\n")) {
		return Post{}, errors.New("missing frontmatter")
	}
	rest := raw[len("---\n"):]
	var head, body []byte
	if bytes.HasPrefix(rest, []byte("---")) {
		head, body = nil, rest[3:]
	} else {
		end := bytes.Index(rest, []byte("\n---"))
		if end < 0 {
			return Post{}, errors.New("unterminated frontmatter")
		}
		head, body = rest[:end], rest[end+len("\n---"):]
	}

	var fm frontMatter
	if err := yaml.Unmarshal(head, &fm); err != nil {
		return Post{}, fmt.Errorf("frontmatter: %w", err)
	}

	p := Post{
		Slug: slug,
		Body: strings.TrimSpace(string(body)),
		Data: PostData{
			Title:       fm.Title,
			Description: fm.Description,
			HeroImage:   fm.HeroImage,
			Draft:       fm.Draft,
		},
	}
	if fm.Slug != "" {
		p.Slug = strings.Trim(fm.Slug, "/")
	}
	if fm.PubDate != "" {
		t, err := dateparse.ParseIn(fm.PubDate, time.UTC)
		if err != nil {
			return Post{}, fmt.Errorf("pubDate %q: %w", fm.PubDate, err)
		}
		p.Data.PubDate = t
	}
	if fm.UpdatedDate != "" {
		t, err := dateparse.ParseIn(fm.UpdatedDate, time.UTC)
		if err != nil {
			return Post{}, fmt.Errorf("updatedDate %q: %w", fm.UpdatedDate, err)
		}
		p.Data.UpdatedDate = &t
	}
	return p, nil
}

// entrySlug derives a slug from a path relative to the collection: the
// extension is dropped, every segment is slugified and a trailing /index
// segment is removed. Hyphens are never collapsed or trimmed, so the slug
// matches the post's page URL.
func entrySlug(rel string) string {
	rel = filepath.ToSlash(rel)
	rel = strings.TrimSuffix(rel, path.Ext(rel))
	segments := strings.Split(rel, "/")
	for i, seg := range segments {
		segments[i] = Slugify(seg)
	}
	return strings.TrimSuffix(strings.Join(segments, "/"), "/index")
}

func sortPosts(posts []Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		a, b := posts[i].Data.PubDate, posts[j].Data.PubDate
		if !a.Equal(b) {
			return a.After(b)
		}
		return posts[i].Slug < posts[j].Slug
	})
}

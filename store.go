package ogengine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	_ "modernc.org/sqlite"
)

// ContentStore yields the posts of a named collection, newest first.
type ContentStore interface {
	GetCollection(ctx context.Context, name string) ([]Post, error)
}

// BlogCollection is the collection OG images are generated for.
const BlogCollection = "blog"

const sqlDateLayout = "2006-01-02T15:04:05.000Z07:00"

// SQLStore keeps posts in a SQLite database.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore opens (or creates) the SQLite database at path, ensures the
// data directory exists, and runs schema migrations.
func NewSQLStore(path string) (*SQLStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Concurrent readers during writes; writers wait up to 5s on a lock.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &SQLStore{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS posts (
    slug TEXT NOT NULL,
    collection TEXT NOT NULL DEFAULT 'blog',
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    pub_date TEXT NOT NULL,
    updated_date TEXT,
    draft INTEGER NOT NULL DEFAULT 0,
    body TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (collection, slug)
);
`)
	if err != nil {
		return err
	}
	if _, err := s.db.Exec(`ALTER TABLE posts ADD COLUMN hero_image TEXT NOT NULL DEFAULT '';`); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "duplicate column") {
			return nil
		}
		return err
	}
	return nil
}

const postColumns = `slug, collection, title, description, pub_date, updated_date, hero_image, draft, body`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (Post, error) {
	var (
		p       Post
		pubDate string
		updated sql.NullString
		draft   int
	)
	if err := row.Scan(&p.Slug, &p.Collection, &p.Data.Title, &p.Data.Description, &pubDate, &updated, &p.Data.HeroImage, &draft, &p.Body); err != nil {
		return Post{}, err
	}
	t, err := dateparse.ParseIn(pubDate, time.UTC)
	if err != nil {
		return Post{}, fmt.Errorf("post %q: pub_date %q: %w", p.Slug, pubDate, err)
	}
	p.Data.PubDate = t
	if updated.Valid && updated.String != "" {
		u, err := dateparse.ParseIn(updated.String, time.UTC)
		if err != nil {
			return Post{}, fmt.Errorf("post %q: updated_date %q: %w", p.Slug, updated.String, err)
		}
		p.Data.UpdatedDate = &u
	}
	p.Data.Draft = draft == 1
	return p, nil
}

// GetCollection returns the non-draft posts of a collection ordered by
// publish date descending, then slug.
func (s *SQLStore) GetCollection(ctx context.Context, name string) ([]Post, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+postColumns+` FROM posts WHERE collection = ? AND draft = 0 ORDER BY pub_date DESC, slug ASC`, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetPost returns a single post by collection and slug, drafts included.
func (s *SQLStore) GetPost(ctx context.Context, collection, slug string) (Post, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE collection = ? AND slug = ?`, collection, slug)
	p, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Post{}, ErrNotFound
	}
	return p, err
}

// SavePost upserts a post. An empty collection defaults to BlogCollection.
func (s *SQLStore) SavePost(ctx context.Context, p Post) error {
	if p.Collection == "" {
		p.Collection = BlogCollection
	}
	var updated any
	if p.Data.UpdatedDate != nil {
		updated = p.Data.UpdatedDate.UTC().Format(sqlDateLayout)
	}
	draft := 0
	if p.Data.Draft {
		draft = 1
	}
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO posts (`+postColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Slug, p.Collection, p.Data.Title, p.Data.Description, p.Data.PubDate.UTC().Format(sqlDateLayout),
		updated, p.Data.HeroImage, draft, p.Body)
	return err
}

// DeletePost removes a post.
func (s *SQLStore) DeletePost(ctx context.Context, collection, slug string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE collection = ? AND slug = ?`, collection, slug)
	return err
}

package portablepress

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// Store is a SQLite mirror of CMS documents. It keeps every post and author
// document verbatim and serves them as a Source.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets page builds read while an import writes; busy_timeout makes
	// writers wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS documents (
    id TEXT PRIMARY KEY,
    type TEXT NOT NULL,
    slug TEXT NOT NULL DEFAULT '',
    name TEXT NOT NULL DEFAULT '',
    date TEXT NOT NULL DEFAULT '',
    draft INTEGER NOT NULL DEFAULT 0,
    tags TEXT NOT NULL DEFAULT ',',
    doc TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS documents_type_slug ON documents (type, slug);
`)
	return err
}

// documentHead is the part of a document the store indexes.
type documentHead struct {
	ID    string   `json:"_id"`
	Type  string   `json:"_type"`
	Slug  RawSlug  `json:"slug"`
	Name  string   `json:"name"`
	Date  string   `json:"date"`
	Draft bool     `json:"draft"`
	Tags  []string `json:"tags"`
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// SaveDocument upserts one post or author document given as JSON.
func (s *Store) SaveDocument(ctx context.Context, doc []byte) error {
	head, err := decodeHead(doc)
	if err != nil {
		return err
	}
	if head.Type != KindPost && head.Type != KindAuthor {
		return fmt.Errorf("portablepress: unsupported document type %q", head.Type)
	}
	return upsertDocument(ctx, s.db, head, doc)
}

// DeleteDocument removes a document by id.
func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	return err
}

func decodeHead(doc []byte) (documentHead, error) {
	var head documentHead
	if err := json.Unmarshal(doc, &head); err != nil {
		return head, fmt.Errorf("portablepress: decode document: %w", err)
	}
	if head.ID == "" {
		return head, errors.New("portablepress: document has no _id")
	}
	return head, nil
}

func upsertDocument(ctx context.Context, db execer, head documentHead, doc []byte) error {
	slugs := make([]string, 0, len(head.Tags))
	for _, t := range head.Tags {
		if s := tagSlug(t); s != "" {
			slugs = append(slugs, s)
		}
	}
	tagString := "," + strings.Join(slugs, ",") + ","
	draft := 0
	if head.Draft {
		draft = 1
	}
	_, err := db.ExecContext(ctx, `INSERT OR REPLACE INTO documents (id, type, slug, name, date, draft, tags, doc) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		head.ID, head.Type, head.Slug.Current, head.Name, head.Date, draft, tagString, string(doc))
	return err
}

// ImportStats summarizes an NDJSON import.
type ImportStats struct {
	Imported int
	Skipped  int
}

// ImportNDJSON loads a dataset export (one JSON document per line). Draft
// copies (ids starting with "drafts.") and documents other than posts and
// authors are skipped. The import runs in one transaction.
func (s *Store) ImportNDJSON(ctx context.Context, r io.Reader) (ImportStats, error) {
	var stats ImportStats
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return stats, err
	}
	defer tx.Rollback()

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		doc := []byte(strings.TrimSpace(sc.Text()))
		if len(doc) == 0 {
			continue
		}
		head, err := decodeHead(doc)
		if err != nil {
			return stats, fmt.Errorf("line %d: %w", line, err)
		}
		if strings.HasPrefix(head.ID, "drafts.") || (head.Type != KindPost && head.Type != KindAuthor) {
			stats.Skipped++
			continue
		}
		if err := upsertDocument(ctx, tx, head, doc); err != nil {
			return stats, fmt.Errorf("line %d: %w", line, err)
		}
		stats.Imported++
	}
	if err := sc.Err(); err != nil {
		return stats, err
	}
	return stats, tx.Commit()
}

func draftArg(ctx context.Context) int {
	if PreviewFromContext(ctx) {
		return 1
	}
	return 0
}

func queryDocs[T any](ctx context.Context, s *Store, name, q string, args ...any) ([]T, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, &UpstreamFetchError{Query: name, Err: err}
	}
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, &UpstreamFetchError{Query: name, Err: err}
		}
		var v T
		if err := json.Unmarshal([]byte(doc), &v); err != nil {
			return nil, &UpstreamFetchError{Query: name, Err: err}
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, &UpstreamFetchError{Query: name, Err: err}
	}
	return out, nil
}

func queryDoc[T any](ctx context.Context, s *Store, name, q string, args ...any) (T, error) {
	var v T
	var doc string
	err := s.db.QueryRowContext(ctx, q, args...).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return v, ErrNotFound
	}
	if err != nil {
		return v, &UpstreamFetchError{Query: name, Err: err}
	}
	if err := json.Unmarshal([]byte(doc), &v); err != nil {
		return v, &UpstreamFetchError{Query: name, Err: err}
	}
	return v, nil
}

// postWhere selects the posts the site shows: slugged, and drafts only in
// preview. The single parameter is draftArg(ctx).
const postWhere = `type = 'post' AND trim(slug) != '' AND draft <= ?`

// FetchAllPosts returns posts ordered by date descending.
func (s *Store) FetchAllPosts(ctx context.Context) ([]RawPost, error) {
	return queryDocs[RawPost](ctx, s, QueryAllPosts,
		`SELECT doc FROM documents WHERE `+postWhere+` ORDER BY date DESC`, draftArg(ctx))
}

// FetchPostBySlug returns the post with slug, or ErrNotFound.
func (s *Store) FetchPostBySlug(ctx context.Context, slug string) (RawPost, error) {
	return queryDoc[RawPost](ctx, s, QueryPostBySlug,
		`SELECT doc FROM documents WHERE `+postWhere+` AND slug = ? LIMIT 1`, draftArg(ctx), slug)
}

// FetchAllAuthors returns authors ordered by name.
func (s *Store) FetchAllAuthors(ctx context.Context) ([]RawAuthor, error) {
	return queryDocs[RawAuthor](ctx, s, QueryAllAuthors,
		`SELECT doc FROM documents WHERE type = 'author' ORDER BY name ASC`)
}

// FetchAuthorBySlug returns the author with slug, or ErrNotFound.
func (s *Store) FetchAuthorBySlug(ctx context.Context, slug string) (RawAuthor, error) {
	return queryDoc[RawAuthor](ctx, s, QueryAuthorBySlug,
		`SELECT doc FROM documents WHERE type = 'author' AND slug = ? LIMIT 1`, slug)
}

// FetchTagRaw returns the tag list of every post with a slug.
func (s *Store) FetchTagRaw(ctx context.Context) ([][]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT COALESCE(json_extract(doc, '$.tags'), '[]') FROM documents WHERE `+postWhere, draftArg(ctx))
	if err != nil {
		return nil, &UpstreamFetchError{Query: QueryTags, Err: err}
	}
	defer rows.Close()

	lists := make([][]string, 0)
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, &UpstreamFetchError{Query: QueryTags, Err: err}
		}
		var tags []string
		if err := json.Unmarshal([]byte(raw), &tags); err != nil {
			return nil, &UpstreamFetchError{Query: QueryTags, Err: err}
		}
		lists = append(lists, tags)
	}
	if err := rows.Err(); err != nil {
		return nil, &UpstreamFetchError{Query: QueryTags, Err: err}
	}
	return lists, nil
}

// FetchPostsByTag returns posts having a tag whose slug is tag, newest first.
func (s *Store) FetchPostsByTag(ctx context.Context, tag string) ([]RawPost, error) {
	return queryDocs[RawPost](ctx, s, QueryPostsByTag,
		`SELECT doc FROM documents WHERE `+postWhere+` AND instr(tags, ',' || ? || ',') > 0 ORDER BY date DESC`,
		draftArg(ctx), tagSlug(tag))
}

package sqlite

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	"github.com/neurocorpus/harvest/pkg/harvest/store"
)

// sqliteStore implements store.Store on a local SQLite file.
type sqliteStore struct {
	db *sql.DB
}

// Open opens (and if needed initializes) a SQLite database with WAL mode.
func Open(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	started_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS posts (
	post_id TEXT NOT NULL,
	run_id TEXT NOT NULL,
	container TEXT NOT NULL,
	title TEXT,
	body TEXT,
	score INTEGER DEFAULT 0,
	comment_count INTEGER DEFAULT 0,
	url TEXT,
	created_at TEXT,
	search_term TEXT,
	label TEXT,
	confidence REAL DEFAULT 0,
	unavailable INTEGER DEFAULT 0,
	PRIMARY KEY(post_id, run_id),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS comments (
	comment_id TEXT NOT NULL,
	run_id TEXT NOT NULL,
	post_id TEXT NOT NULL,
	post_title TEXT,
	container TEXT,
	text TEXT,
	score INTEGER DEFAULT 0,
	created_at TEXT,
	label TEXT,
	confidence REAL DEFAULT 0,
	unavailable INTEGER DEFAULT 0,
	PRIMARY KEY(comment_id, run_id),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveRun writes the run and all its records in one transaction so a failed
// run never leaves a partial dataset behind.
func (s *sqliteStore) SaveRun(ctx context.Context, r store.Run) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO runs (id, started_at) VALUES (?, ?)",
		r.ID, r.StartedAt.UTC().Format(time.RFC3339)); err != nil {
		return err
	}

	for _, p := range r.Posts {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO posts (post_id, run_id, container, title, body, score,
				comment_count, url, created_at, search_term, label, confidence, unavailable)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.PostID, r.ID, p.Container, p.Title, p.Body, p.Score,
			p.CommentCount, p.URL, p.CreatedAt.UTC().Format(time.RFC3339),
			p.SearchTerm, p.Label, p.Confidence, boolToInt(p.Unavailable)); err != nil {
			return err
		}
	}

	for _, c := range r.Comments {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO comments (comment_id, run_id, post_id, post_title, container,
				text, score, created_at, label, confidence, unavailable)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.CommentID, r.ID, c.PostID, c.PostTitle, c.Container,
			c.Text, c.Score, c.CreatedAt.UTC().Format(time.RFC3339),
			c.Label, c.Confidence, boolToInt(c.Unavailable)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Posts returns all persisted post records, highest confidence first.
func (s *sqliteStore) Posts(ctx context.Context) ([]store.PostRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT post_id, run_id, container, title, body, score, comment_count,
			url, created_at, search_term, label, confidence, unavailable
		FROM posts ORDER BY confidence DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []store.PostRecord
	for rows.Next() {
		var p store.PostRecord
		var createdAt string
		var unavailable int
		if err := rows.Scan(&p.PostID, &p.RunID, &p.Container, &p.Title, &p.Body,
			&p.Score, &p.CommentCount, &p.URL, &createdAt, &p.SearchTerm,
			&p.Label, &p.Confidence, &unavailable); err != nil {
			return nil, err
		}
		p.CreatedAt = parseTime(createdAt)
		p.Unavailable = unavailable != 0
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// Comments returns all persisted comment records, highest confidence first.
func (s *sqliteStore) Comments(ctx context.Context) ([]store.CommentRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT comment_id, run_id, post_id, post_title, container, text,
			score, created_at, label, confidence, unavailable
		FROM comments ORDER BY confidence DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []store.CommentRecord
	for rows.Next() {
		var c store.CommentRecord
		var createdAt string
		var unavailable int
		if err := rows.Scan(&c.CommentID, &c.RunID, &c.PostID, &c.PostTitle,
			&c.Container, &c.Text, &c.Score, &createdAt,
			&c.Label, &c.Confidence, &unavailable); err != nil {
			return nil, err
		}
		c.CreatedAt = parseTime(createdAt)
		c.Unavailable = unavailable != 0
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
